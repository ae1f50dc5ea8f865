package governance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakegov/lakegov/internal/metastore"
)

func TestFlattenAndSummarize(t *testing.T) {
	meta := newTestMetastore(t)
	ctx := context.Background()
	ts := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, meta.PutQualityReport(ctx, metastore.QualityReport{
		Dataset:   "transactions",
		Timestamp: ts,
		RowCount:  100,
		Checks: []metastore.QualityCheck{
			{Check: "null_check", Column: "id", Passed: true},
			{Check: "null_check", Column: "amount", Passed: false, Details: "2 null values found"},
			{Check: "unique_check", Column: "id", Passed: true},
		},
	}))
	require.NoError(t, meta.PutQualityReport(ctx, metastore.QualityReport{
		Dataset:   "customers",
		Timestamp: ts,
		RowCount:  10,
		Checks: []metastore.QualityCheck{
			{Check: "null_check", Column: "email", Passed: true},
		},
	}))

	rows, err := NewQualityReporter(meta).Flatten(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	summaries := Summarize(rows)
	require.Len(t, summaries, 3)

	// Sorted by dataset, then kind.
	assert.Equal(t, "customers", summaries[0].Dataset)
	assert.Equal(t, "null_check", summaries[0].Kind)
	assert.Equal(t, 100.0, summaries[0].PassRate)

	assert.Equal(t, "transactions", summaries[1].Dataset)
	assert.Equal(t, "null_check", summaries[1].Kind)
	assert.Equal(t, 1, summaries[1].Passed)
	assert.Equal(t, 2, summaries[1].Total)
	assert.Equal(t, 50.0, summaries[1].PassRate)

	assert.Equal(t, "unique_check", summaries[2].Kind)

	failed := Failed(rows)
	require.Len(t, failed, 1)
	assert.Equal(t, "amount", failed[0].Column)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
	assert.Empty(t, Failed(nil))
}
