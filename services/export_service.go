package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ErrExportDisabled is returned when no bucket is configured.
var ErrExportDisabled = errors.New("export disabled: S3_BUCKET not set")

// ObjectPutter is the part of *s3.Client the exporter needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type ExportResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Count  int    `json:"count"`
}

type ExportService struct {
	records *HealthRecordService
	s3      ObjectPutter
	bucket  string
	prefix  string
	log     *zap.Logger
	now     func() time.Time
}

func NewExportService(records *HealthRecordService, client ObjectPutter, bucket, prefix string, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{records: records, s3: client, bucket: bucket, prefix: prefix, log: log, now: time.Now}
}

// Enabled reports whether exports have somewhere to go.
func (e *ExportService) Enabled() bool {
	return e != nil && e.s3 != nil && e.bucket != ""
}

// Export uploads every record as one JSON array.
func (e *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if !e.Enabled() {
		return nil, ErrExportDisabled
	}
	recs, err := e.records.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := path.Join(e.prefix, fmt.Sprintf("health-records-%s.json", e.now().UTC().Format("20060102T150405Z")))
	_, err = e.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	e.log.Info("health records exported", zap.String("bucket", e.bucket), zap.String("key", key), zap.Int("count", len(recs)))
	return &ExportResult{Bucket: e.bucket, Key: key, Count: len(recs)}, nil
}
