// Package metastore defines the governance records kept in the
// metadata bucket and provides typed read/write access to them.
//
// Three record kinds exist: object metadata (one per stored dataset),
// lineage records (one per transformation), and quality reports (one
// per validation run). Each is an independently addressable JSON
// object; see keys.go for the key conventions.
package metastore

import (
	"encoding/json"
	"fmt"
	"time"
)

// MultipleSources is the sentinel value a lineage record carries as
// its source when the target was derived from more than one dataset.
const MultipleSources = "multiple"

// Ref identifies a single object in the lake.
type Ref struct {
	Bucket string `json:"bucket"`
	Object string `json:"object"`
}

// String returns the ref in bucket/object form.
func (r Ref) String() string {
	return r.Bucket + "/" + r.Object
}

// SourceRef is the source side of a lineage record: either a single
// object ref or the multiple-sources sentinel. It serializes as an
// object for a single ref and as the string "multiple" for the
// sentinel.
type SourceRef struct {
	Ref
	Multiple bool
}

// SingleSource wraps a ref as a lineage source.
func SingleSource(ref Ref) SourceRef {
	return SourceRef{Ref: ref}
}

// MultiSource returns the multiple-sources sentinel.
func MultiSource() SourceRef {
	return SourceRef{Multiple: true}
}

// MarshalJSON implements json.Marshaler.
func (s SourceRef) MarshalJSON() ([]byte, error) {
	if s.Multiple {
		return json.Marshal(MultipleSources)
	}
	return json.Marshal(s.Ref)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *SourceRef) UnmarshalJSON(data []byte) error {
	var sentinel string
	if err := json.Unmarshal(data, &sentinel); err == nil {
		if sentinel != MultipleSources {
			return fmt.Errorf("unexpected lineage source %q", sentinel)
		}
		*s = SourceRef{Multiple: true}
		return nil
	}

	var ref Ref
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("invalid lineage source: %w", err)
	}
	*s = SourceRef{Ref: ref}
	return nil
}

// LineageRecord describes one source-to-target transformation of a
// dataset. Records are immutable once written; the record key is
// derived from source and target, so repeating the same
// transformation overwrites its prior record while distinct
// transformations never collide.
type LineageRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Source         SourceRef `json:"source"`
	Target         Ref       `json:"target"`
	Transformation string    `json:"transformation"`
}

// ObjectMetadata describes one stored dataset object. The pair
// (SourceBucket, ObjectName) is unique: a later write with the same
// pair overwrites the prior record entirely.
//
// Extra holds free-form descriptive fields (description, owner,
// classification, refresh frequency, ...) which are flattened into
// the top level of the JSON object.
type ObjectMetadata struct {
	SourceBucket string            `json:"source_bucket"`
	ObjectName   string            `json:"object_name"`
	UploadedAt   time.Time         `json:"uploaded_at"`
	Format       string            `json:"format,omitempty"`
	Rows         int               `json:"rows"`
	Columns      []string          `json:"columns"`
	ColumnTypes  map[string]string `json:"column_types"`
	Extra        map[string]any    `json:"-"`
}

// Ref returns the object this metadata record describes.
func (m ObjectMetadata) Ref() Ref {
	return Ref{Bucket: m.SourceBucket, Object: m.ObjectName}
}

// objectMetadataJSON mirrors ObjectMetadata for (un)marshaling the
// fixed fields; Extra is merged in and out separately.
type objectMetadataJSON struct {
	SourceBucket string            `json:"source_bucket"`
	ObjectName   string            `json:"object_name"`
	UploadedAt   time.Time         `json:"uploaded_at"`
	Format       string            `json:"format,omitempty"`
	Rows         int               `json:"rows"`
	Columns      []string          `json:"columns"`
	ColumnTypes  map[string]string `json:"column_types"`
}

// metadataFixedKeys are the JSON keys owned by the fixed struct
// fields; everything else lands in Extra on unmarshal.
var metadataFixedKeys = map[string]bool{
	"source_bucket": true,
	"object_name":   true,
	"uploaded_at":   true,
	"format":        true,
	"rows":          true,
	"columns":       true,
	"column_types":  true,
}

// MarshalJSON flattens Extra into the top-level object. Fixed fields
// win on key collision.
func (m ObjectMetadata) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(m.Extra)+len(metadataFixedKeys))
	for k, v := range m.Extra {
		if !metadataFixedKeys[k] {
			merged[k] = v
		}
	}

	fixed, err := json.Marshal(objectMetadataJSON{
		SourceBucket: m.SourceBucket,
		ObjectName:   m.ObjectName,
		UploadedAt:   m.UploadedAt,
		Format:       m.Format,
		Rows:         m.Rows,
		Columns:      m.Columns,
		ColumnTypes:  m.ColumnTypes,
	})
	if err != nil {
		return nil, err
	}
	var fixedMap map[string]any
	if err := json.Unmarshal(fixed, &fixedMap); err != nil {
		return nil, err
	}
	for k, v := range fixedMap {
		merged[k] = v
	}

	return json.Marshal(merged)
}

// UnmarshalJSON splits the object into fixed fields and Extra.
func (m *ObjectMetadata) UnmarshalJSON(data []byte) error {
	var fixed objectMetadataJSON
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	var extra map[string]any
	for k, v := range all {
		if metadataFixedKeys[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}

	*m = ObjectMetadata{
		SourceBucket: fixed.SourceBucket,
		ObjectName:   fixed.ObjectName,
		UploadedAt:   fixed.UploadedAt,
		Format:       fixed.Format,
		Rows:         fixed.Rows,
		Columns:      fixed.Columns,
		ColumnTypes:  fixed.ColumnTypes,
		Extra:        extra,
	}
	return nil
}

// QualityCheck is one individual check inside a quality report.
type QualityCheck struct {
	// Check is the kind of check: null_check, unique_check,
	// range_check, or pattern_check.
	Check string `json:"check"`

	// Column is the column the check was evaluated against.
	Column string `json:"column"`

	// Passed reports whether the check held.
	Passed bool `json:"passed"`

	// Details is a human-readable explanation of the result.
	Details string `json:"details"`
}

// QualityReport records the outcome of one validation run against a
// dataset. Reports are never updated; successive runs are
// distinguished by the timestamp suffix in their record key.
type QualityReport struct {
	Dataset   string         `json:"dataset"`
	Timestamp time.Time      `json:"timestamp"`
	RowCount  int            `json:"row_count"`
	Checks    []QualityCheck `json:"checks"`
}

// Passed reports whether every individual check passed.
func (r QualityReport) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}
