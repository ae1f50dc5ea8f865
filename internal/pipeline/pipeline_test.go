package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakegov/lakegov/internal/dataset"
	"github.com/lakegov/lakegov/internal/governance"
	"github.com/lakegov/lakegov/internal/lake"
	"github.com/lakegov/lakegov/internal/metastore"
	"github.com/lakegov/lakegov/internal/store"
	"github.com/lakegov/lakegov/internal/testutil"
)

func newTestPipeline(t *testing.T) (*Pipeline, *lake.Lake) {
	t.Helper()
	lk := lake.New(store.NewMemStore(), lake.DefaultZones(), testutil.NewTestLogger(t))
	return New(lk, testutil.NewTestLogger(t)), lk
}

func TestSampleDatasets(t *testing.T) {
	tx := SampleTransactions()
	assert.Equal(t, 1000, tx.NumRows())
	assert.Equal(t, []string{"transaction_id", "customer_id", "transaction_date", "product_id", "amount", "payment_method"}, tx.Columns())

	customers := SampleCustomers()
	assert.Equal(t, 100, customers.NumRows())

	products := SampleProducts()
	assert.Equal(t, 50, products.NumRows())
}

func TestIngest(t *testing.T) {
	p, lk := newTestPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.Ingest(ctx))

	tx, err := lk.DownloadDataset(ctx, lk.Zones().Raw, rawTransactionsKey, dataset.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 1000, tx.NumRows())

	records, err := lk.Metastore().ListObjectMetadata(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestProcess(t *testing.T) {
	p, lk := newTestPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.Ingest(ctx))
	require.NoError(t, p.Process(ctx))

	tx, err := lk.DownloadDataset(ctx, lk.Zones().Process, processedTransactionsKey, dataset.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1000, tx.NumRows())
	for _, col := range []string{"year", "month", "day", "day_of_week", "amount_category"} {
		assert.True(t, tx.HasColumn(col), "missing column %s", col)
	}
	assert.Equal(t, "Credit Card", tx.Row(0).Get("payment_method"))

	customers, err := lk.DownloadDataset(ctx, lk.Zones().Process, processedCustomersKey, dataset.FormatJSON)
	require.NoError(t, err)
	for _, col := range []string{"tenure_days", "customer_segment", "region"} {
		assert.True(t, customers.HasColumn(col), "missing column %s", col)
	}
	assert.Equal(t, "United States", customers.Row(0).Get("country"))
	assert.Equal(t, "North America", customers.Row(0).Get("region"))

	view, err := lk.DownloadDataset(ctx, lk.Zones().Process, transactionProductKey, dataset.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1000, view.NumRows())
	assert.True(t, view.HasColumn("category"))
	assert.True(t, view.HasColumn("month_year"))

	// Quality reports were persisted for the three processed datasets.
	reports, err := lk.Metastore().ListQualityReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
	for _, r := range reports {
		assert.True(t, r.Passed(), "dataset %s failed validation", r.Dataset)
	}

	// Each processed dataset has a lineage record.
	lineage, err := lk.Metastore().ListLineage(ctx)
	require.NoError(t, err)
	assert.Len(t, lineage, 4)
}

func TestAccessBuildsAnalytics(t *testing.T) {
	p, lk := newTestPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.Ingest(ctx))
	require.NoError(t, p.Process(ctx))
	require.NoError(t, p.Access(ctx))

	sales, err := lk.DownloadDataset(ctx, lk.Zones().Access, salesByCategoryKey, dataset.FormatJSON)
	require.NoError(t, err)
	assert.Greater(t, sales.NumRows(), 0)
	for _, col := range []string{"product_category", "month_year", "total_sales", "average_sale", "sale_count", "transaction_count"} {
		assert.True(t, sales.HasColumn(col), "missing column %s", col)
	}

	// The CSV copy is stored alongside.
	_, err = lk.DownloadDataset(ctx, lk.Zones().Access, salesByCategoryCSVKey, dataset.FormatCSV)
	require.NoError(t, err)

	summary, err := lk.DownloadDataset(ctx, lk.Zones().Access, customerSummaryKey, dataset.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 100, summary.NumRows())
	for _, col := range []string{"total_spent", "transaction_count", "recency_score", "frequency_score", "monetary_score", "rfm_segment"} {
		assert.True(t, summary.HasColumn(col), "missing column %s", col)
	}

	performance, err := lk.DownloadDataset(ctx, lk.Zones().Access, productPerformanceKey, dataset.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 50, performance.NumRows())
	assert.True(t, performance.HasColumn("sales_rank_in_category"))
	assert.True(t, performance.HasColumn("percent_of_category_sales"))

	// The analytics datasets trace back through the integrated view.
	tracer := governance.NewTracer(lk.Metastore(), testutil.NewTestLogger(t))
	chain, err := tracer.Trace(ctx, metastore.Ref{Bucket: lk.Zones().Access, Object: salesByCategoryKey})
	require.NoError(t, err)
	require.NotEmpty(t, chain)
	// Oldest step is the multi-source join that built the view.
	assert.NotEmpty(t, chain[0].Note)
}

func TestRunAll(t *testing.T) {
	p, _ := newTestPipeline(t)

	results, err := p.RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "ingest", results[0].Name)
	assert.Equal(t, "process", results[1].Name)
	assert.Equal(t, "access", results[2].Name)
	for _, r := range results {
		assert.Equal(t, StatusSucceeded, r.Status)
	}
}
