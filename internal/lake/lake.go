// Package lake orchestrates dataset movement between the data lake
// zones, recording governance metadata as a side effect of every
// write.
package lake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakegov/lakegov/internal/dataset"
	"github.com/lakegov/lakegov/internal/metastore"
	"github.com/lakegov/lakegov/internal/quality"
	"github.com/lakegov/lakegov/internal/store"
)

// Zones names the buckets backing each zone of the lake.
type Zones struct {
	Raw      string `koanf:"raw"`
	Process  string `koanf:"process"`
	Access   string `koanf:"access"`
	Metadata string `koanf:"metadata"`
	Security string `koanf:"security"`
}

// DefaultZones returns the conventional zone bucket names.
func DefaultZones() Zones {
	return Zones{
		Raw:      "raw-ingestion-zone",
		Process:  "process-zone",
		Access:   "access-zone",
		Metadata: metastore.DefaultBucket,
		Security: "govern-zone-security",
	}
}

// Lake couples an object store with the metadata store. Every dataset
// write through the Lake also records object metadata; lineage and
// quality records are written through the dedicated methods.
type Lake struct {
	objects store.ObjectStore
	meta    *metastore.Store
	zones   Zones
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Lake over the given object store.
func New(objects store.ObjectStore, zones Zones, logger *slog.Logger) *Lake {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lake{
		objects: objects,
		meta:    metastore.New(objects, zones.Metadata, logger),
		zones:   zones,
		logger:  logger,
		now:     time.Now,
	}
}

// Zones returns the zone bucket names.
func (l *Lake) Zones() Zones {
	return l.zones
}

// Metastore returns the governance metadata store.
func (l *Lake) Metastore() *metastore.Store {
	return l.meta
}

// Objects returns the underlying object store.
func (l *Lake) Objects() store.ObjectStore {
	return l.objects
}

// UploadDataset encodes the dataset in the given format, writes it to
// bucket/key, and records its object metadata. extra carries
// free-form descriptive fields (description, owner, classification,
// ...) stored alongside the structural metadata. An unsupported
// format fails before any I/O.
func (l *Lake) UploadDataset(ctx context.Context, ds *dataset.Dataset, bucket, key string, format dataset.Format, extra map[string]any) error {
	data, err := dataset.Encode(ds, format)
	if err != nil {
		return err
	}

	if err := l.objects.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	if err := l.objects.Put(ctx, bucket, key, data, format.ContentType()); err != nil {
		return err
	}
	l.logger.Info("dataset uploaded", "bucket", bucket, "key", key, "rows", ds.NumRows())

	meta := metastore.ObjectMetadata{
		SourceBucket: bucket,
		ObjectName:   key,
		UploadedAt:   l.now(),
		Format:       string(format),
		Rows:         ds.NumRows(),
		Columns:      ds.Columns(),
		ColumnTypes:  ds.ColumnTypes(),
		Extra:        extra,
	}
	if err := l.meta.PutObjectMetadata(ctx, meta); err != nil {
		return fmt.Errorf("failed to store metadata for %s/%s: %w", bucket, key, err)
	}
	return nil
}

// DownloadDataset fetches bucket/key and decodes it in the given
// format.
func (l *Lake) DownloadDataset(ctx context.Context, bucket, key string, format dataset.Format) (*dataset.Dataset, error) {
	data, err := l.objects.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", bucket, key, err)
	}
	return ds, nil
}

// RecordTransformation logs a single-source lineage record for a
// transformation that produced target from source.
func (l *Lake) RecordTransformation(ctx context.Context, source, target metastore.Ref, description string) error {
	return l.meta.PutLineage(ctx, metastore.LineageRecord{
		Timestamp:      l.now(),
		Source:         metastore.SingleSource(source),
		Target:         target,
		Transformation: description,
	})
}

// RecordMultiSourceTransformation logs a lineage record for a target
// derived from more than one source. Lineage walks terminate at such
// a record.
func (l *Lake) RecordMultiSourceTransformation(ctx context.Context, target metastore.Ref, description string) error {
	return l.meta.PutLineage(ctx, metastore.LineageRecord{
		Timestamp:      l.now(),
		Source:         metastore.MultiSource(),
		Target:         target,
		Transformation: description,
	})
}

// ValidateDataset evaluates quality rules against the dataset and
// persists the resulting report. The report is returned so callers
// can act on failures.
func (l *Lake) ValidateDataset(ctx context.Context, ds *dataset.Dataset, name string, rules []quality.Rule) (*metastore.QualityReport, error) {
	report, err := quality.Validate(ds, name, rules, l.now())
	if err != nil {
		return nil, err
	}
	if err := l.meta.PutQualityReport(ctx, *report); err != nil {
		return nil, fmt.Errorf("failed to store quality report for %s: %w", name, err)
	}
	if !report.Passed() {
		l.logger.Warn("quality checks failed", "dataset", name)
	}
	return report, nil
}
