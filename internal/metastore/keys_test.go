package metastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadataKey(t *testing.T) {
	key := MetadataKey(Ref{Bucket: "raw-ingestion-zone", Object: "sales/transactions.csv"})
	assert.Equal(t, "metadata/raw-ingestion-zone/sales_transactions.csv.json", key)
}

func TestLineageKey(t *testing.T) {
	source := SingleSource(Ref{Bucket: "raw-ingestion-zone", Object: "sales/transactions.csv"})
	target := Ref{Bucket: "process-zone", Object: "sales/transactions.json"}

	key := LineageKey(source, target)
	assert.Equal(t, "lineage/raw-ingestion-zone_sales_transactions.csv_to_process-zone_sales_transactions.json.json", key)
}

func TestLineageKeyMultiSource(t *testing.T) {
	target := Ref{Bucket: "access-zone", Object: "analytics/customer_summary.json"}

	key := LineageKey(MultiSource(), target)
	assert.Equal(t, "lineage/multiple_multiple_to_access-zone_analytics_customer_summary.json.json", key)
}

func TestQualityKey(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 45, 30, 0, time.UTC)
	key := QualityKey("processed_transactions", ts)
	assert.Equal(t, "quality/processed_transactions_20240315_094530.json", key)
}
