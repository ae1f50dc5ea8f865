package query

import (
	"fmt"
	"strings"
)

// TableColumn is one column of an external table definition.
type TableColumn struct {
	Name string
	Type string
}

// ExternalTable describes a Hive external table over a zone bucket
// prefix in the object store.
type ExternalTable struct {
	// Name is the fully qualified table name, e.g. "hive.default.dim_products".
	Name string

	// Columns is the table schema.
	Columns []TableColumn

	// Bucket and Prefix locate the backing objects in the store.
	Bucket string
	Prefix string

	// Format is the storage format, e.g. "CSV" or "JSON".
	Format string
}

// CreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for an
// external table.
func CreateTableSQL(t ExternalTable) (string, error) {
	if t.Name == "" {
		return "", fmt.Errorf("external table has no name")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("external table %s has no columns", t.Name)
	}
	if t.Bucket == "" {
		return "", fmt.Errorf("external table %s has no bucket", t.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	for i, col := range t.Columns {
		sep := ","
		if i == len(t.Columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s %s%s\n", col.Name, col.Type, sep)
	}
	fmt.Fprintf(&b, ")\nWITH (\n")
	fmt.Fprintf(&b, "    external_location = '%s',\n", externalLocation(t.Bucket, t.Prefix))
	fmt.Fprintf(&b, "    format = '%s'\n)", t.Format)
	return b.String(), nil
}

// DataMart describes a summary table created from a SELECT over
// existing lake tables.
type DataMart struct {
	// Name is the fully qualified table name, e.g. "hive.default.sales_mart".
	Name string

	// Bucket and Prefix locate the materialized objects.
	Bucket string
	Prefix string

	// Format is the storage format.
	Format string

	// Query is the SELECT statement the mart is built from.
	Query string
}

// CreateMartSQL renders a CREATE TABLE AS statement for a data mart.
func CreateMartSQL(m DataMart) (string, error) {
	if m.Name == "" {
		return "", fmt.Errorf("data mart has no name")
	}
	if strings.TrimSpace(m.Query) == "" {
		return "", fmt.Errorf("data mart %s has no query", m.Name)
	}
	if m.Bucket == "" {
		return "", fmt.Errorf("data mart %s has no bucket", m.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s\nWITH (\n", m.Name)
	fmt.Fprintf(&b, "    external_location = '%s',\n", externalLocation(m.Bucket, m.Prefix))
	fmt.Fprintf(&b, "    format = '%s'\n)\nAS\n", m.Format)
	b.WriteString(strings.TrimSpace(m.Query))
	return b.String(), nil
}

func externalLocation(bucket, prefix string) string {
	loc := "s3a://" + bucket + "/"
	if prefix != "" {
		loc += strings.Trim(prefix, "/") + "/"
	}
	return loc
}

// SalesMartQuery is the SELECT behind the sales summary data mart:
// per-month category totals joined against the product dimension.
func SalesMartQuery(transactionsTable, productsTable string) string {
	return fmt.Sprintf(`SELECT
    t.year,
    t.month,
    p.category,
    COUNT(*) AS transaction_count,
    SUM(t.amount) AS total_sales,
    AVG(t.amount) AS avg_sale_value,
    COUNT(DISTINCT t.customer_id) AS unique_customers
FROM %s t
JOIN %s p ON t.product_id = p.product_id
GROUP BY t.year, t.month, p.category`, transactionsTable, productsTable)
}
