package metastore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lakegov/lakegov/internal/store"
)

// DefaultBucket is the conventional name of the governance metadata
// bucket.
const DefaultBucket = "govern-zone-metadata"

const jsonContentType = "application/json"

// Store provides typed access to the governance records in the
// metadata bucket. It holds no state of its own; every read is a
// fresh scan of the bucket.
//
// Reads tolerate individual records that are unreadable or fail to
// parse: those are skipped with a warning. An unreachable store, by
// contrast, fails the whole call.
type Store struct {
	objects store.ObjectStore
	bucket  string
	logger  *slog.Logger
}

// New creates a Store over the given object store and bucket. Pass
// DefaultBucket unless the deployment uses a custom bucket name.
func New(objects store.ObjectStore, bucket string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{objects: objects, bucket: bucket, logger: logger}
}

// Bucket returns the metadata bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// put serializes a record and writes it under the given key,
// creating the metadata bucket on first use.
func (s *Store) put(ctx context.Context, key string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record %s: %w", key, err)
	}
	if err := s.objects.EnsureBucket(ctx, s.bucket); err != nil {
		return err
	}
	return s.objects.Put(ctx, s.bucket, key, data, jsonContentType)
}

// PutObjectMetadata stores the metadata record for a dataset object,
// overwriting any prior record for the same (bucket, object) pair.
func (s *Store) PutObjectMetadata(ctx context.Context, meta ObjectMetadata) error {
	return s.put(ctx, MetadataKey(meta.Ref()), meta)
}

// PutLineage stores a lineage record.
func (s *Store) PutLineage(ctx context.Context, rec LineageRecord) error {
	return s.put(ctx, LineageKey(rec.Source, rec.Target), rec)
}

// PutQualityReport stores a quality report. The timestamp in the key
// keeps successive runs for the same dataset distinct.
func (s *Store) PutQualityReport(ctx context.Context, report QualityReport) error {
	return s.put(ctx, QualityKey(report.Dataset, report.Timestamp), report)
}

// scan lists all records under prefix and decodes each one into a
// fresh value produced by decode. Unreadable or malformed records are
// skipped with a warning.
func scan[T any](ctx context.Context, s *Store, prefix string) ([]T, error) {
	exists, err := s.objects.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		// No governance records have been written yet.
		return nil, nil
	}

	keys, err := s.objects.List(ctx, s.bucket, prefix)
	if err != nil {
		return nil, err
	}

	var records []T
	for _, key := range keys {
		data, err := s.objects.Get(ctx, s.bucket, key)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "key", key, "error", err)
			continue
		}
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Warn("skipping malformed record", "key", key, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListObjectMetadata returns every readable object metadata record.
func (s *Store) ListObjectMetadata(ctx context.Context) ([]ObjectMetadata, error) {
	return scan[ObjectMetadata](ctx, s, metadataPrefix)
}

// ListLineage returns every readable lineage record, in store
// enumeration order.
func (s *Store) ListLineage(ctx context.Context) ([]LineageRecord, error) {
	return scan[LineageRecord](ctx, s, lineagePrefix)
}

// ListQualityReports returns every readable quality report.
func (s *Store) ListQualityReports(ctx context.Context) ([]QualityReport, error) {
	return scan[QualityReport](ctx, s, qualityPrefix)
}
