package metastore

import (
	"fmt"
	"strings"
	"time"
)

// Record key prefixes inside the metadata bucket. Each record kind
// lives under its own prefix so a full scan of one kind is a single
// prefixed list.
const (
	metadataPrefix = "metadata/"
	lineagePrefix  = "lineage/"
	qualityPrefix  = "quality/"
)

// qualityTimestampLayout is the timestamp suffix that keeps successive
// quality runs for the same dataset from overwriting each other.
const qualityTimestampLayout = "20060102_150405"

// sanitizeKey replaces path separators so an object key can be
// embedded in a record key without introducing extra hierarchy.
func sanitizeKey(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}

// MetadataKey returns the record key for the metadata of an object.
func MetadataKey(ref Ref) string {
	return fmt.Sprintf("%s%s/%s.json", metadataPrefix, ref.Bucket, sanitizeKey(ref.Object))
}

// LineageKey returns the record key for a lineage record. The key is
// derived from both endpoints, so distinct transformations never
// collide while a repeated identical transformation overwrites its
// prior record.
func LineageKey(source SourceRef, target Ref) string {
	srcBucket, srcObject := source.Bucket, sanitizeKey(source.Object)
	if source.Multiple {
		srcBucket, srcObject = MultipleSources, MultipleSources
	}
	return fmt.Sprintf("%s%s_%s_to_%s_%s.json",
		lineagePrefix, srcBucket, srcObject, target.Bucket, sanitizeKey(target.Object))
}

// QualityKey returns the record key for a quality report.
func QualityKey(dataset string, ts time.Time) string {
	return fmt.Sprintf("%s%s_%s.json", qualityPrefix, dataset, ts.Format(qualityTimestampLayout))
}
