package lake

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakegov/lakegov/internal/dataset"
	"github.com/lakegov/lakegov/internal/metastore"
	"github.com/lakegov/lakegov/internal/quality"
	"github.com/lakegov/lakegov/internal/store"
	"github.com/lakegov/lakegov/internal/testutil"
)

func newTestLake(t *testing.T) (*Lake, *store.MemStore) {
	t.Helper()
	objects := store.NewMemStore()
	lk := New(objects, DefaultZones(), testutil.NewTestLogger(t))
	lk.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return lk, objects
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("id", "amount")
	require.NoError(t, ds.AppendRow(int64(1), 10.5))
	require.NoError(t, ds.AppendRow(int64(2), 20.25))
	return ds
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	lk, _ := newTestLake(t)
	ctx := context.Background()
	ds := testDataset(t)

	err := lk.UploadDataset(ctx, ds, lk.Zones().Raw, "sales/tx.csv", dataset.FormatCSV, map[string]any{
		"description": "test upload",
	})
	require.NoError(t, err)

	got, err := lk.DownloadDataset(ctx, lk.Zones().Raw, "sales/tx.csv", dataset.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ds.Columns(), got.Columns())
	assert.Equal(t, 2, got.NumRows())
}

func TestUploadRecordsMetadata(t *testing.T) {
	lk, _ := newTestLake(t)
	ctx := context.Background()

	require.NoError(t, lk.UploadDataset(ctx, testDataset(t), lk.Zones().Raw, "sales/tx.csv",
		dataset.FormatCSV, map[string]any{"description": "test upload"}))

	records, err := lk.Metastore().ListObjectMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	meta := records[0]
	assert.Equal(t, lk.Zones().Raw, meta.SourceBucket)
	assert.Equal(t, "sales/tx.csv", meta.ObjectName)
	assert.Equal(t, "csv", meta.Format)
	assert.Equal(t, 2, meta.Rows)
	assert.Equal(t, []string{"id", "amount"}, meta.Columns)
	assert.Equal(t, "bigint", meta.ColumnTypes["id"])
	assert.Equal(t, "double", meta.ColumnTypes["amount"])
	assert.Equal(t, "test upload", meta.Extra["description"])
}

func TestUploadUnsupportedFormatFailsBeforeIO(t *testing.T) {
	lk, objects := newTestLake(t)
	ctx := context.Background()

	err := lk.UploadDataset(ctx, testDataset(t), lk.Zones().Raw, "x.parquet", dataset.Format("parquet"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrUnsupportedFormat))

	// No bucket was created and nothing was written.
	exists, err := objects.BucketExists(ctx, lk.Zones().Raw)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecordTransformation(t *testing.T) {
	lk, _ := newTestLake(t)
	ctx := context.Background()

	source := metastore.Ref{Bucket: lk.Zones().Raw, Object: "a.csv"}
	target := metastore.Ref{Bucket: lk.Zones().Process, Object: "a.json"}
	require.NoError(t, lk.RecordTransformation(ctx, source, target, "standardized"))
	require.NoError(t, lk.RecordMultiSourceTransformation(ctx,
		metastore.Ref{Bucket: lk.Zones().Process, Object: "joined.json"}, "joined"))

	records, err := lk.Metastore().ListLineage(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var single, multi *metastore.LineageRecord
	for i := range records {
		if records[i].Source.Multiple {
			multi = &records[i]
		} else {
			single = &records[i]
		}
	}
	require.NotNil(t, single)
	require.NotNil(t, multi)
	assert.Equal(t, source, single.Source.Ref)
	assert.Equal(t, target, single.Target)
	assert.Equal(t, "joined", multi.Transformation)
}

func TestValidateDatasetPersistsReport(t *testing.T) {
	lk, _ := newTestLake(t)
	ctx := context.Background()

	ds := dataset.New("id")
	require.NoError(t, ds.AppendRow(int64(1)))
	require.NoError(t, ds.AppendRow(int64(1)))

	report, err := lk.ValidateDataset(ctx, ds, "dupes", []quality.Rule{
		quality.UniqueCheck{Column: "id"},
	})
	require.NoError(t, err)
	assert.False(t, report.Passed())

	stored, err := lk.Metastore().ListQualityReports(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "dupes", stored[0].Dataset)
	assert.False(t, stored[0].Passed())
}

func TestStoreDocument(t *testing.T) {
	lk, objects := newTestLake(t)
	ctx := context.Background()

	id, err := lk.StoreDocument(ctx, "hello lake", map[string]any{"kind": "note"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, err := objects.Get(ctx, lk.Zones().Raw, "documents/"+id+".json")
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "hello lake", doc.Text)
	assert.Len(t, doc.Hash, 64)
	assert.Equal(t, "note", doc.Metadata["kind"])
}
