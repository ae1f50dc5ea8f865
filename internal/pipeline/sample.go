package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/lakegov/lakegov/internal/dataset"
)

// Deterministic sample data for the ingestion pipeline: 1000
// transactions across 100 customers and 50 products.

var samplePaymentMethods = []string{"credit_card", "debit_card", "cash", "digital_wallet"}

var sampleCountries = []string{"USA", "Canada", "UK", "Germany", "France"}

var sampleCategories = []string{"Electronics", "Clothing", "Home", "Books", "Food"}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SampleTransactions builds the sample customer transactions dataset.
func SampleTransactions() *dataset.Dataset {
	ds := dataset.New("transaction_id", "customer_id", "transaction_date", "product_id", "amount", "payment_method")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 1000; i++ {
		_ = ds.AppendRow(
			int64(i),
			fmt.Sprintf("CUST%04d", (i-1)%100+1),
			start.AddDate(0, 0, i-1),
			fmt.Sprintf("PROD%03d", (i-1)%50+1),
			round2(10+90*float64(i)/1000),
			samplePaymentMethods[(i-1)%len(samplePaymentMethods)],
		)
	}
	return ds
}

// SampleCustomers builds the sample customer dataset.
func SampleCustomers() *dataset.Dataset {
	ds := dataset.New("customer_id", "first_name", "last_name", "email", "signup_date", "country")
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 100; i++ {
		_ = ds.AppendRow(
			fmt.Sprintf("CUST%04d", i),
			fmt.Sprintf("Customer%d", i),
			fmt.Sprintf("Lastname%d", i),
			fmt.Sprintf("customer%d@example.com", i),
			start.AddDate(0, 0, i-1),
			sampleCountries[(i-1)%len(sampleCountries)],
		)
	}
	return ds
}

// SampleProducts builds the sample product catalog dataset.
func SampleProducts() *dataset.Dataset {
	ds := dataset.New("product_id", "product_name", "category", "price", "in_stock")
	for i := 1; i <= 50; i++ {
		_ = ds.AppendRow(
			fmt.Sprintf("PROD%03d", i),
			fmt.Sprintf("Product %d", i),
			sampleCategories[(i-1)%len(sampleCategories)],
			round2(5+95*float64(i)/50),
			i%4 != 0,
		)
	}
	return ds
}
