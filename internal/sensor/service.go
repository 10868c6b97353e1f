package sensor

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/apperr"
)

// Service is the sensor registry.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

func (s *Service) List(ctx context.Context, includeAlarms bool) ([]Sensor, error) {
	sensors := []Sensor{}
	if err := s.query(ctx, includeAlarms).Order("name").Order("id").Find(&sensors).Error; err != nil {
		return nil, fmt.Errorf("listing sensors: %w", err)
	}
	if includeAlarms {
		for i := range sensors {
			ensureAlarms(&sensors[i])
		}
	}
	return sensors, nil
}

func (s *Service) Get(ctx context.Context, id string, includeAlarms bool) (*Sensor, error) {
	var sensor Sensor
	err := s.query(ctx, includeAlarms).Where("id = ?", id).First(&sensor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("sensor %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading sensor: %w", err)
	}
	if includeAlarms {
		ensureAlarms(&sensor)
	}
	return &sensor, nil
}

// Exists lets other components check a sensor reference without loading it.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&Sensor{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking sensor: %w", err)
	}
	return n > 0, nil
}

func (s *Service) Create(ctx context.Context, req CreateSensorRequest) (*Sensor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sensor := Sensor{Name: req.Name, Location: req.Location, Alarms: []SensorAlarm{}}
	if err := s.DB.WithContext(context.WithoutCancel(ctx)).Create(&sensor).Error; err != nil {
		return nil, fmt.Errorf("creating sensor: %w", err)
	}
	return &sensor, nil
}

// Update applies the supplied fields only and returns the sensor with its alarms.
func (s *Service) Update(ctx context.Context, id string, req UpdateSensorRequest) (*Sensor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id, false); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Location != nil {
		changes["location"] = *req.Location
	}

	if len(changes) > 0 {
		err := s.DB.WithContext(context.WithoutCancel(ctx)).
			Model(&Sensor{}).
			Where("id = ?", id).
			Updates(changes).Error
		if err != nil {
			return nil, fmt.Errorf("updating sensor: %w", err)
		}
	}

	return s.Get(ctx, id, true)
}

// Remove deletes a sensor together with its alarms and their visualizations.
// It reports whether the sensor row was removed.
func (s *Service) Remove(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.DB.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM visualizations WHERE alarm_id IN (SELECT id FROM alarms WHERE sensor_id = ?)", id,
		).Error; err != nil {
			return fmt.Errorf("deleting visualizations: %w", err)
		}

		if err := tx.Where("sensor_id = ?", id).Delete(&SensorAlarm{}).Error; err != nil {
			return fmt.Errorf("deleting alarms: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&Sensor{})
		if res.Error != nil {
			return fmt.Errorf("deleting sensor: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("sensor %s not found", id)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *Service) query(ctx context.Context, includeAlarms bool) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&Sensor{})
	if includeAlarms {
		q = q.Preload("Alarms", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC").Order("id DESC")
		})
	}
	return q
}

func ensureAlarms(s *Sensor) {
	if s.Alarms == nil {
		s.Alarms = []SensorAlarm{}
	}
}
