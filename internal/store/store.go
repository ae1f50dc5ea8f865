// Package store provides object storage access for the data lake zones.
// All zone data and governance records live in buckets behind the
// ObjectStore interface; implementations exist for MinIO and for an
// in-memory store used in tests.
package store

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by Get when the requested object does
// not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore defines the operations the data lake needs from an
// object storage backend.
type ObjectStore interface {
	// List returns the keys of all objects in the bucket matching the
	// given prefix. A missing bucket is a connectivity-level error.
	List(ctx context.Context, bucket, prefix string) ([]string, error)

	// Get returns the full payload of an object.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put writes an object, overwriting any previous version.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// BucketExists reports whether the bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// EnsureBucket creates the bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error
}
