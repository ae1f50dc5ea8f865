// Package pipeline implements the zone pipelines that move data
// through the lake: raw ingestion, processing/transformation, and
// access-zone preparation, plus a dependency-ordered workflow runner
// to chain them.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/lakegov/lakegov/internal/dataset"
	"github.com/lakegov/lakegov/internal/lake"
)

// Object keys used by the pipelines within their zone buckets.
const (
	rawTransactionsKey = "sales/transactions.csv"
	rawCustomersKey    = "crm/customers.csv"
	rawProductsKey     = "inventory/products.csv"

	processedTransactionsKey = "sales/transactions.json"
	processedCustomersKey    = "crm/customers.json"
	processedProductsKey     = "inventory/products.json"
	transactionProductKey    = "integrated/transaction_product_view.json"

	salesByCategoryKey    = "analytics/sales_by_category.json"
	salesByCategoryCSVKey = "analytics/sales_by_category.csv"
	customerSummaryKey    = "analytics/customer_summary.json"
	productPerformanceKey = "analytics/product_performance.json"
)

// Pipeline runs the zone pipelines against a lake.
type Pipeline struct {
	lake   *lake.Lake
	logger *slog.Logger
}

// New creates a Pipeline.
func New(lk *lake.Lake, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{lake: lk, logger: logger}
}

// Ingest loads the sample source datasets into the raw ingestion zone
// in their native CSV form, with descriptive metadata per dataset.
func (p *Pipeline) Ingest(ctx context.Context) error {
	raw := p.lake.Zones().Raw
	p.logger.Info("ingesting sample datasets", "bucket", raw)

	uploads := []struct {
		ds    *dataset.Dataset
		key   string
		extra map[string]any
	}{
		{SampleTransactions(), rawTransactionsKey, map[string]any{
			"description":         "Raw transaction data from source system",
			"source_system":       "Point of Sale System",
			"data_owner":          "Sales Department",
			"update_frequency":    "Daily",
			"data_classification": "Internal",
		}},
		{SampleCustomers(), rawCustomersKey, map[string]any{
			"description":         "Raw customer data from CRM",
			"source_system":       "CRM System",
			"data_owner":          "Marketing Department",
			"update_frequency":    "Weekly",
			"data_classification": "Confidential",
		}},
		{SampleProducts(), rawProductsKey, map[string]any{
			"description":         "Raw product catalog data",
			"source_system":       "Inventory Management System",
			"data_owner":          "Product Management",
			"update_frequency":    "Weekly",
			"data_classification": "Internal",
		}},
	}

	for _, u := range uploads {
		if err := p.lake.UploadDataset(ctx, u.ds, raw, u.key, dataset.FormatCSV, u.extra); err != nil {
			return err
		}
	}
	return nil
}
