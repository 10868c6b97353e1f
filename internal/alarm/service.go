package alarm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/apperr"
)

// SensorChecker resolves sensor references. The sensor registry satisfies it.
type SensorChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service is the alarm ledger.
type Service struct {
	DB      *gorm.DB
	sensors SensorChecker
}

func NewService(db *gorm.DB, sensors SensorChecker) *Service {
	return &Service{DB: db, sensors: sensors}
}

// List returns one page of alarms, newest first, matching f.
func (s *Service) List(ctx context.Context, f Filter, includeRelated bool) (*Page, error) {
	p, err := f.Validate()
	if err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Model(&Alarm{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.SensorID != "" {
		q = q.Where("sensor_id = ?", f.SensorID)
	}
	// count and page share the same conditions
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting alarms: %w", err)
	}

	alarms := []Alarm{}
	if total > int64(p.Offset) {
		err := withRelations(q, includeRelated).
			Order("timestamp DESC").
			Order("id DESC").
			Limit(p.Limit).
			Offset(p.Offset).
			Find(&alarms).Error
		if err != nil {
			return nil, fmt.Errorf("listing alarms: %w", err)
		}
	}
	if includeRelated {
		for i := range alarms {
			ensureVisualizations(&alarms[i])
		}
	}

	return &Page{Data: alarms, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, id string, includeRelated bool) (*Alarm, error) {
	var a Alarm
	err := withRelations(s.DB.WithContext(ctx).Model(&Alarm{}), includeRelated).
		Where("id = ?", id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("alarm %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading alarm: %w", err)
	}
	if includeRelated {
		ensureVisualizations(&a)
	}
	return &a, nil
}

// Exists lets other components check an alarm reference without loading it.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&Alarm{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking alarm: %w", err)
	}
	return n > 0, nil
}

// Create records a new alarm raised by an existing sensor. Id and timestamp are
// assigned here.
func (s *Service) Create(ctx context.Context, req CreateAlarmRequest) (*Alarm, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ok, err := s.sensors.Exists(ctx, req.SensorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("sensor %s not found", req.SensorID)
	}

	a := Alarm{Type: req.Type, SensorID: req.SensorID, Visualizations: []AlarmVisualization{}}
	if err := s.DB.WithContext(context.WithoutCancel(ctx)).Omit("Sensor", "Visualizations").Create(&a).Error; err != nil {
		// sensor removed between the check and the insert
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperr.NotFound("sensor %s not found", req.SensorID)
		}
		return nil, fmt.Errorf("creating alarm: %w", err)
	}
	return &a, nil
}

// Delete removes an alarm and its visualizations.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("alarm_id = ?", id).Delete(&AlarmVisualization{}).Error; err != nil {
			return fmt.Errorf("deleting visualizations: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Alarm{})
		if res.Error != nil {
			return fmt.Errorf("deleting alarm: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("alarm %s not found", id)
		}
		return nil
	})
}

func withRelations(q *gorm.DB, include bool) *gorm.DB {
	if !include {
		return q
	}
	return q.Preload("Sensor").Preload("Visualizations", func(db *gorm.DB) *gorm.DB {
		return db.Order("uploaded_at DESC")
	})
}

func ensureVisualizations(a *Alarm) {
	if a.Visualizations == nil {
		a.Visualizations = []AlarmVisualization{}
	}
}
