package services

import (
	"context"
	"fmt"
	"time"

	"healthtracker/models"
	"healthtracker/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HealthRecordService struct {
	store RecordStore
	rt    *RealtimeHub
	log   *zap.Logger
	now   func() time.Time
}

// NewHealthRecordService wires the CRUD service. rt may be nil.
func NewHealthRecordService(store RecordStore, rt *RealtimeHub, log *zap.Logger) *HealthRecordService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthRecordService{store: store, rt: rt, log: log, now: time.Now}
}

func (s *HealthRecordService) ListRecords(ctx context.Context) ([]models.HealthRecord, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	if recs == nil {
		recs = []models.HealthRecord{}
	}
	return recs, nil
}

func (s *HealthRecordService) GetRecord(ctx context.Context, id string) (*models.HealthRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get health record %s: %w", id, err)
	}
	return rec, nil
}

func (s *HealthRecordService) CreateRecord(ctx context.Context, in models.HealthRecordInput) (*models.HealthRecord, error) {
	rec, err := in.ToRecord()
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	now := s.now().UTC()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.store.Create(ctx, &rec); err != nil {
		return nil, fmt.Errorf("create health record: %w", err)
	}
	s.log.Info("health record created", zap.String("id", rec.ID), zap.String("date", rec.DateString()))
	s.emit(EventRecordCreated, map[string]any{"record": rec})
	s.emitAlert(&rec)
	return &rec, nil
}

// UpdateRecord replaces the vitals of record id; other records are untouched.
func (s *HealthRecordService) UpdateRecord(ctx context.Context, id string, in models.HealthRecordInput) (*models.HealthRecord, error) {
	rec, err := in.ToRecord()
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	rec.ID = id
	rec.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, &rec); err != nil {
		return nil, fmt.Errorf("update health record %s: %w", id, err)
	}
	updated, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload health record %s: %w", id, err)
	}
	s.log.Info("health record updated", zap.String("id", id))
	s.emit(EventRecordUpdated, map[string]any{"record": updated})
	s.emitAlert(updated)
	return updated, nil
}

func (s *HealthRecordService) DeleteRecord(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete health record %s: %w", id, err)
	}
	s.log.Info("health record deleted", zap.String("id", id))
	s.emit(EventRecordDeleted, map[string]any{"id": id})
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *HealthRecordService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *HealthRecordService) emit(kind string, payload map[string]any) {
	if s.rt == nil {
		return
	}
	payload["kind"] = kind
	s.rt.Broadcast(payload)
}

// DashboardQuery is the search and sort state of the dashboard.
type DashboardQuery struct {
	Term   string
	Filter Field
	Sort   *SortState
}

// DashboardRow is a record with its threshold assessment.
type DashboardRow struct {
	Record     models.HealthRecord
	Assessment utils.Assessment
}

type Dashboard struct {
	Rows  []DashboardRow
	Total int
	Query DashboardQuery
}

// Dashboard loads every record, filters and sorts in memory and assesses
// each remaining row.
func (s *HealthRecordService) Dashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	recs, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	filtered := SearchRecords(recs, q.Term, q.Filter)
	if q.Sort != nil {
		filtered = q.Sort.Apply(filtered)
	}
	rows := make([]DashboardRow, len(filtered))
	for i, rec := range filtered {
		rows[i] = DashboardRow{Record: rec, Assessment: utils.AssessVitals(rec)}
	}
	return &Dashboard{Rows: rows, Total: len(recs), Query: q}, nil
}
