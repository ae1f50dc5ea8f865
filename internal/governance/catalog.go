package governance

import (
	"context"
	"sort"

	"github.com/lakegov/lakegov/internal/metastore"
)

// Catalog is a browsable two-level view of all object metadata:
// bucket -> object key -> metadata record.
type Catalog map[string]map[string]metastore.ObjectMetadata

// Buckets returns the bucket names in sorted order.
func (c Catalog) Buckets() []string {
	buckets := make([]string, 0, len(c))
	for b := range c {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	return buckets
}

// Objects returns the object keys of a bucket in sorted order.
func (c Catalog) Objects(bucket string) []string {
	objects := make([]string, 0, len(c[bucket]))
	for o := range c[bucket] {
		objects = append(objects, o)
	}
	sort.Strings(objects)
	return objects
}

// CatalogBuilder assembles the metadata catalog from the metadata
// store.
type CatalogBuilder struct {
	meta *metastore.Store
}

// NewCatalogBuilder creates a CatalogBuilder.
func NewCatalogBuilder(meta *metastore.Store) *CatalogBuilder {
	return &CatalogBuilder{meta: meta}
}

// Build scans all object metadata records and arranges them by
// (bucket, object). Exactly one entry exists per pair; the store
// overwrites metadata by key, so the surviving record is the latest
// write.
func (b *CatalogBuilder) Build(ctx context.Context) (Catalog, error) {
	records, err := b.meta.ListObjectMetadata(ctx)
	if err != nil {
		return nil, err
	}

	catalog := make(Catalog)
	for _, rec := range records {
		bucket := catalog[rec.SourceBucket]
		if bucket == nil {
			bucket = make(map[string]metastore.ObjectMetadata)
			catalog[rec.SourceBucket] = bucket
		}
		bucket[rec.ObjectName] = rec
	}
	return catalog, nil
}
