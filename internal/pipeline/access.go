package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lakegov/lakegov/internal/dataset"
	"github.com/lakegov/lakegov/internal/metastore"
)

// recencyReference is the as-of date for recency scoring, aligned with
// the end of the sample transaction window's first month.
var recencyReference = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

// Access builds the analytics datasets from the process zone and
// publishes them to the access zone: sales by category, customer
// summary, and product performance.
func (p *Pipeline) Access(ctx context.Context) error {
	zones := p.lake.Zones()
	p.logger.Info("building analytics datasets", "from", zones.Process, "to", zones.Access)

	view, err := p.lake.DownloadDataset(ctx, zones.Process, transactionProductKey, dataset.FormatJSON)
	if err != nil {
		return err
	}
	customers, err := p.lake.DownloadDataset(ctx, zones.Process, processedCustomersKey, dataset.FormatJSON)
	if err != nil {
		return err
	}
	products, err := p.lake.DownloadDataset(ctx, zones.Process, processedProductsKey, dataset.FormatJSON)
	if err != nil {
		return err
	}

	sales, err := salesByCategory(view)
	if err != nil {
		return err
	}
	summary, err := customerSummary(view, customers)
	if err != nil {
		return err
	}
	performance, err := productPerformance(view, products)
	if err != nil {
		return err
	}

	salesExtra := map[string]any{
		"description": "Monthly sales aggregated by product category",
		"granularity": "category and month",
		"refresh":     "Daily",
	}
	if err := p.lake.UploadDataset(ctx, sales, zones.Access, salesByCategoryKey, dataset.FormatJSON, salesExtra); err != nil {
		return err
	}
	// CSV copy for spreadsheet consumers.
	if err := p.lake.UploadDataset(ctx, sales, zones.Access, salesByCategoryCSVKey, dataset.FormatCSV, salesExtra); err != nil {
		return err
	}
	if err := p.lake.UploadDataset(ctx, summary, zones.Access, customerSummaryKey, dataset.FormatJSON, map[string]any{
		"description": "Customer purchase summary with RFM segmentation",
		"granularity": "customer",
	}); err != nil {
		return err
	}
	if err := p.lake.UploadDataset(ctx, performance, zones.Access, productPerformanceKey, dataset.FormatJSON, map[string]any{
		"description": "Product sales performance with category rankings",
		"granularity": "product",
	}); err != nil {
		return err
	}

	viewRef := metastore.Ref{Bucket: zones.Process, Object: transactionProductKey}
	for _, key := range []string{salesByCategoryKey, salesByCategoryCSVKey} {
		target := metastore.Ref{Bucket: zones.Access, Object: key}
		if err := p.lake.RecordTransformation(ctx, viewRef, target, "Aggregated sales by category and month"); err != nil {
			return err
		}
	}
	if err := p.lake.RecordMultiSourceTransformation(ctx,
		metastore.Ref{Bucket: zones.Access, Object: customerSummaryKey},
		"Created customer summary with RFM segmentation"); err != nil {
		return err
	}
	if err := p.lake.RecordMultiSourceTransformation(ctx,
		metastore.Ref{Bucket: zones.Access, Object: productPerformanceKey},
		"Created product performance summary with category rankings"); err != nil {
		return err
	}
	return nil
}

// salesByCategory aggregates the transaction-product view by category
// and month.
func salesByCategory(view *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := dataset.GroupBy(view, []string{"category", "month_year"}, []dataset.Agg{
		{Column: "amount", Op: dataset.AggSum, As: "total_sales"},
		{Column: "amount", Op: dataset.AggMean, As: "average_sale"},
		{Column: "amount", Op: dataset.AggCount, As: "sale_count"},
		{Column: "transaction_id", Op: dataset.AggNUnique, As: "transaction_count"},
	})
	if err != nil {
		return nil, err
	}
	if err := out.RenameColumn("category", "product_category"); err != nil {
		return nil, err
	}
	return dataset.SortBy(out, "month_year", "product_category")
}

// customerSummary aggregates per-customer purchase behavior, joins in
// customer attributes, and scores each customer on recency, frequency,
// and monetary value.
func customerSummary(view, customers *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := dataset.GroupBy(view, []string{"customer_id"}, []dataset.Agg{
		{Column: "amount", Op: dataset.AggSum, As: "total_spent"},
		{Column: "amount", Op: dataset.AggMean, As: "average_transaction"},
		{Column: "transaction_id", Op: dataset.AggCount, As: "transaction_count"},
		{Column: "transaction_date", Op: dataset.AggMax, As: "last_purchase_date"},
	})
	if err != nil {
		return nil, err
	}

	out.AddColumn("days_since_last_purchase", func(r dataset.Row) dataset.Value {
		t, ok := r.Get("last_purchase_date").(time.Time)
		if !ok {
			return nil
		}
		return int64(recencyReference.Sub(t).Hours() / 24)
	})

	attrs, err := customers.Select("customer_id", "customer_segment", "country", "region")
	if err != nil {
		return nil, err
	}
	out, err = dataset.Join(out, attrs, "customer_id")
	if err != nil {
		return nil, err
	}

	out.AddColumn("recency_score", func(r dataset.Row) dataset.Value {
		days, ok := r.Get("days_since_last_purchase").(int64)
		if !ok {
			return nil
		}
		switch {
		case days <= 10:
			return int64(3)
		case days <= 20:
			return int64(2)
		default:
			return int64(1)
		}
	})
	out.AddColumn("frequency_score", func(r dataset.Row) dataset.Value {
		count, ok := r.Get("transaction_count").(int64)
		if !ok {
			return nil
		}
		switch {
		case count >= 15:
			return int64(3)
		case count >= 10:
			return int64(2)
		default:
			return int64(1)
		}
	})
	out.AddColumn("monetary_score", func(r dataset.Row) dataset.Value {
		spent, ok := numeric(r.Get("total_spent"))
		if !ok {
			return nil
		}
		switch {
		case spent >= 800:
			return int64(3)
		case spent >= 500:
			return int64(2)
		default:
			return int64(1)
		}
	})
	out.AddColumn("rfm_segment", func(r dataset.Row) dataset.Value {
		recency, rok := r.Get("recency_score").(int64)
		frequency, fok := r.Get("frequency_score").(int64)
		monetary, mok := r.Get("monetary_score").(int64)
		if !rok || !fok || !mok {
			return nil
		}
		return fmt.Sprintf("%d_%d_%d", recency, frequency, monetary)
	})

	return dataset.SortBy(out, "customer_id")
}

// productPerformance aggregates per-product sales, joins in product
// attributes, and ranks each product within its category by revenue.
func productPerformance(view, products *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := dataset.GroupBy(view, []string{"product_id"}, []dataset.Agg{
		{Column: "transaction_id", Op: dataset.AggCount, As: "sales_count"},
		{Column: "amount", Op: dataset.AggSum, As: "total_revenue"},
		{Column: "amount", Op: dataset.AggMean, As: "average_price"},
	})
	if err != nil {
		return nil, err
	}

	attrs, err := products.Select("product_id", "product_name", "category", "price_tier")
	if err != nil {
		return nil, err
	}
	out, err = dataset.Join(out, attrs, "product_id")
	if err != nil {
		return nil, err
	}

	type productRevenue struct {
		row     int
		revenue float64
	}
	byCategory := make(map[string][]productRevenue)
	categoryTotals := make(map[string]float64)
	for i := 0; i < out.NumRows(); i++ {
		r := out.Row(i)
		category, _ := r.Get("category").(string)
		revenue, _ := numeric(r.Get("total_revenue"))
		byCategory[category] = append(byCategory[category], productRevenue{row: i, revenue: revenue})
		categoryTotals[category] += revenue
	}

	ranks := make([]int64, out.NumRows())
	for _, entries := range byCategory {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].revenue > entries[j].revenue
		})
		for rank, e := range entries {
			ranks[e.row] = int64(rank + 1)
		}
	}

	row := 0
	out.AddColumn("sales_rank_in_category", func(dataset.Row) dataset.Value {
		v := ranks[row]
		row++
		return v
	})
	out.AddColumn("percent_of_category_sales", func(r dataset.Row) dataset.Value {
		category, _ := r.Get("category").(string)
		total := categoryTotals[category]
		if total == 0 {
			return nil
		}
		revenue, _ := numeric(r.Get("total_revenue"))
		return round2(100 * revenue / total)
	})

	return dataset.SortBy(out, "category", "sales_rank_in_category")
}
