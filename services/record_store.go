package services

import (
	"context"
	"errors"

	"healthtracker/models"
)

// ErrRecordNotFound is returned when no health record has the given id.
var ErrRecordNotFound = errors.New("health record not found")

// RecordStore persists health records.
type RecordStore interface {
	List(ctx context.Context) ([]models.HealthRecord, error)
	Get(ctx context.Context, id string) (*models.HealthRecord, error)
	Create(ctx context.Context, rec *models.HealthRecord) error
	Update(ctx context.Context, rec *models.HealthRecord) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Migrator prepares the schema or indexes a store relies on.
type Migrator interface {
	Migrate(ctx context.Context) error
}

var (
	_ RecordStore = (*GormRecordStore)(nil)
	_ RecordStore = (*MongoRecordStore)(nil)
	_ Migrator    = (*GormRecordStore)(nil)
	_ Migrator    = (*MongoRecordStore)(nil)
)
