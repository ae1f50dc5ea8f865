package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableSQL(t *testing.T) {
	sql, err := CreateTableSQL(ExternalTable{
		Name: "hive.default.dim_products",
		Columns: []TableColumn{
			{Name: "product_id", Type: "VARCHAR"},
			{Name: "product_name", Type: "VARCHAR"},
			{Name: "price", Type: "DOUBLE"},
			{Name: "in_stock", Type: "BOOLEAN"},
		},
		Bucket: "process-zone",
		Prefix: "dimensions/",
		Format: "CSV",
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS hive.default.dim_products")
	assert.Contains(t, sql, "product_id VARCHAR,")
	assert.Contains(t, sql, "in_stock BOOLEAN\n")
	assert.Contains(t, sql, "external_location = 's3a://process-zone/dimensions/'")
	assert.Contains(t, sql, "format = 'CSV'")
}

func TestCreateTableSQLValidation(t *testing.T) {
	_, err := CreateTableSQL(ExternalTable{})
	assert.Error(t, err)

	_, err = CreateTableSQL(ExternalTable{Name: "t"})
	assert.Error(t, err, "no columns")

	_, err = CreateTableSQL(ExternalTable{Name: "t", Columns: []TableColumn{{Name: "a", Type: "VARCHAR"}}})
	assert.Error(t, err, "no bucket")
}

func TestCreateMartSQL(t *testing.T) {
	sql, err := CreateMartSQL(DataMart{
		Name:   "hive.default.sales_mart",
		Bucket: "access-zone",
		Prefix: "sales_mart",
		Format: "CSV",
		Query:  SalesMartQuery("hive.default.transactions", "hive.default.dim_products"),
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS hive.default.sales_mart")
	assert.Contains(t, sql, "external_location = 's3a://access-zone/sales_mart/'")
	assert.Contains(t, sql, "AS\nSELECT")
	assert.Contains(t, sql, "COUNT(DISTINCT t.customer_id) AS unique_customers")
	assert.Contains(t, sql, "JOIN hive.default.dim_products p ON t.product_id = p.product_id")
	assert.Contains(t, sql, "GROUP BY t.year, t.month, p.category")
}

func TestCreateMartSQLValidation(t *testing.T) {
	_, err := CreateMartSQL(DataMart{})
	assert.Error(t, err)

	_, err = CreateMartSQL(DataMart{Name: "m", Query: "SELECT 1"})
	assert.Error(t, err, "no bucket")

	_, err = CreateMartSQL(DataMart{Name: "m", Bucket: "b", Query: "   "})
	assert.Error(t, err, "empty query")
}
