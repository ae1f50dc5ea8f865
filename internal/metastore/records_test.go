package metastore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceRefJSON(t *testing.T) {
	single := SingleSource(Ref{Bucket: "b", Object: "o"})
	data, err := json.Marshal(single)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bucket":"b","object":"o"}`, string(data))

	var decoded SourceRef
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, single, decoded)

	multi := MultiSource()
	data, err = json.Marshal(multi)
	require.NoError(t, err)
	assert.Equal(t, `"multiple"`, string(data))

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Multiple)
}

func TestSourceRefJSONInvalid(t *testing.T) {
	var s SourceRef
	assert.Error(t, json.Unmarshal([]byte(`"something_else"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestObjectMetadataJSONFlattensExtra(t *testing.T) {
	meta := ObjectMetadata{
		SourceBucket: "raw-ingestion-zone",
		ObjectName:   "sales/transactions.csv",
		UploadedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Format:       "csv",
		Rows:         10,
		Columns:      []string{"id", "amount"},
		ColumnTypes:  map[string]string{"id": "bigint", "amount": "double"},
		Extra: map[string]any{
			"description": "Raw transaction data",
			"data_owner":  "Sales Department",
			// Fixed fields win on collision.
			"rows": 999,
		},
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Raw transaction data", raw["description"])
	assert.Equal(t, "Sales Department", raw["data_owner"])
	assert.Equal(t, float64(10), raw["rows"])

	var decoded ObjectMetadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, meta.SourceBucket, decoded.SourceBucket)
	assert.Equal(t, meta.ObjectName, decoded.ObjectName)
	assert.Equal(t, meta.Rows, decoded.Rows)
	assert.Equal(t, "Raw transaction data", decoded.Extra["description"])
	_, hasRows := decoded.Extra["rows"]
	assert.False(t, hasRows)
}

func TestQualityReportPassed(t *testing.T) {
	report := QualityReport{Checks: []QualityCheck{
		{Check: "null_check", Passed: true},
		{Check: "unique_check", Passed: true},
	}}
	assert.True(t, report.Passed())

	report.Checks = append(report.Checks, QualityCheck{Check: "range_check", Passed: false})
	assert.False(t, report.Passed())

	assert.True(t, QualityReport{}.Passed())
}
