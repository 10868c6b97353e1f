package visualization

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/storage"
)

const keyPrefix = "visualizations/"

// AlarmChecker resolves alarm references. The alarm ledger satisfies it.
type AlarmChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service is the visualization store.
type Service struct {
	DB       *gorm.DB
	alarms   AlarmChecker
	blobs    storage.BlobStore
	maxBytes int64
	log      *zap.Logger
}

func NewService(db *gorm.DB, alarms AlarmChecker, blobs storage.BlobStore, maxBytes int64, log *zap.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{DB: db, alarms: alarms, blobs: blobs, maxBytes: maxBytes, log: log}
}

func (s *Service) List(ctx context.Context, includeAlarm bool) ([]Visualization, error) {
	items := []Visualization{}
	if err := withAlarm(s.DB.WithContext(ctx), includeAlarm).Order("uploaded_at DESC").Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing visualizations: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string, includeAlarm bool) (*Visualization, error) {
	var v Visualization
	err := withAlarm(s.DB.WithContext(ctx), includeAlarm).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("visualization %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading visualization: %w", err)
	}
	return &v, nil
}

// Create validates the image, stores its bytes and records the metadata. A
// failed insert removes the stored blob again.
func (s *Service) Create(ctx context.Context, alarmID string, u Upload) (*Visualization, error) {
	ext, content, err := checkUpload(u, s.maxBytes)
	if err != nil {
		return nil, err
	}

	ok, err := s.alarms.Exists(ctx, alarmID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("alarm %s not found", alarmID)
	}

	ctx = context.WithoutCancel(ctx)
	filename := newFilename(ext)
	key := keyPrefix + filename

	if err := s.blobs.Save(ctx, key, content); err != nil {
		if apperr.Is(err, apperr.CodeValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("storing image: %w", err)
	}

	v := Visualization{
		Filename: filename,
		Path:     s.blobs.PublicPath(key),
		AlarmID:  alarmID,
	}
	if err := s.DB.WithContext(ctx).Omit("Alarm").Create(&v).Error; err != nil {
		if rmErr := s.blobs.Remove(ctx, key); rmErr != nil {
			s.log.Warn("removing orphaned blob", zap.String("key", key), zap.Error(rmErr))
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperr.NotFound("alarm %s not found", alarmID)
		}
		return nil, fmt.Errorf("creating visualization: %w", err)
	}
	return &v, nil
}

// Delete removes the metadata row, then its blob. A blob that cannot be removed
// is logged and left behind.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx = context.WithoutCancel(ctx)

	var v Visualization
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("visualization %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("loading visualization: %w", err)
	}

	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&Visualization{})
	if res.Error != nil {
		return fmt.Errorf("deleting visualization: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("visualization %s not found", id)
	}

	if err := s.blobs.Remove(ctx, keyPrefix+v.Filename); err != nil {
		s.log.Warn("removing visualization blob", zap.String("id", id), zap.Error(err))
	}
	return nil
}

func withAlarm(q *gorm.DB, include bool) *gorm.DB {
	if include {
		return q.Preload("Alarm")
	}
	return q
}
