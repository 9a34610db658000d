package services

import (
	"context"
	"errors"
	"fmt"

	"healthtracker/models"

	"gorm.io/gorm"
)

// GormRecordStore keeps records in a relational database through gorm.
type GormRecordStore struct {
	db *gorm.DB
}

func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{db: db}
}

// Migrate creates or updates the health_records table.
func (s *GormRecordStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.HealthRecord{})
}

func (s *GormRecordStore) List(ctx context.Context) ([]models.HealthRecord, error) {
	var recs []models.HealthRecord
	err := s.db.WithContext(ctx).
		Order("date desc").
		Order("created_at desc").
		Find(&recs).Error
	return recs, err
}

func (s *GormRecordStore) Get(ctx context.Context, id string) (*models.HealthRecord, error) {
	var rec models.HealthRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormRecordStore) Create(ctx context.Context, rec *models.HealthRecord) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// Update replaces the vitals of an existing record. created_at is kept.
func (s *GormRecordStore) Update(ctx context.Context, rec *models.HealthRecord) error {
	res := s.db.WithContext(ctx).
		Model(&models.HealthRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"date":             rec.Date,
			"body_temperature": rec.BodyTemperature,
			"bp_systolic":      rec.BloodPressure.Systolic,
			"bp_diastolic":     rec.BloodPressure.Diastolic,
			"heart_rate":       rec.HeartRate,
			"updated_at":       rec.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormRecordStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.HealthRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormRecordStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("gorm: underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
