// Package quality evaluates data quality rules against datasets and
// produces the quality reports stored in the governance zone.
package quality

import (
	"fmt"
	"regexp"
	"time"

	"github.com/lakegov/lakegov/internal/dataset"
	"github.com/lakegov/lakegov/internal/metastore"
)

// Check kind names as they appear in stored reports.
const (
	KindNull    = "null_check"
	KindUnique  = "unique_check"
	KindRange   = "range_check"
	KindPattern = "pattern_check"
)

// Rule is a single data quality rule. Rules targeting a column the
// dataset does not have evaluate to no checks at all.
type Rule interface {
	// Evaluate runs the rule against the dataset and returns the
	// resulting check entries.
	Evaluate(ds *dataset.Dataset) ([]metastore.QualityCheck, error)
}

// NullCheck fails when the column contains any null value.
type NullCheck struct {
	Column string
}

// Evaluate implements Rule.
func (c NullCheck) Evaluate(ds *dataset.Dataset) ([]metastore.QualityCheck, error) {
	values, ok := ds.Column(c.Column)
	if !ok {
		return nil, nil
	}
	nulls := 0
	for _, v := range values {
		if v == nil {
			nulls++
		}
	}
	return []metastore.QualityCheck{{
		Check:   KindNull,
		Column:  c.Column,
		Passed:  nulls == 0,
		Details: fmt.Sprintf("%d null values found", nulls),
	}}, nil
}

// UniqueCheck fails when the column contains duplicate values.
type UniqueCheck struct {
	Column string
}

// Evaluate implements Rule.
func (c UniqueCheck) Evaluate(ds *dataset.Dataset) ([]metastore.QualityCheck, error) {
	values, ok := ds.Column(c.Column)
	if !ok {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[dataset.FormatValue(v)] = struct{}{}
	}
	duplicates := len(values) - len(seen)
	return []metastore.QualityCheck{{
		Check:   KindUnique,
		Column:  c.Column,
		Passed:  duplicates == 0,
		Details: fmt.Sprintf("%d duplicate values found", duplicates),
	}}, nil
}

// RangeCheck fails when any value falls outside the inclusive
// [Min, Max] bound. Min and Max are independently optional; each
// present bound produces its own check entry. Non-numeric and null
// values are ignored.
type RangeCheck struct {
	Column string
	Min    *float64
	Max    *float64
}

// Bound returns a pointer for use as a RangeCheck bound.
func Bound(v float64) *float64 {
	return &v
}

// Evaluate implements Rule.
func (c RangeCheck) Evaluate(ds *dataset.Dataset) ([]metastore.QualityCheck, error) {
	values, ok := ds.Column(c.Column)
	if !ok {
		return nil, nil
	}

	var checks []metastore.QualityCheck
	if c.Min != nil {
		below := countOutOfRange(values, func(f float64) bool { return f < *c.Min })
		checks = append(checks, metastore.QualityCheck{
			Check:   KindRange,
			Column:  c.Column,
			Passed:  below == 0,
			Details: fmt.Sprintf("%d values below minimum %s", below, dataset.FormatValue(*c.Min)),
		})
	}
	if c.Max != nil {
		above := countOutOfRange(values, func(f float64) bool { return f > *c.Max })
		checks = append(checks, metastore.QualityCheck{
			Check:   KindRange,
			Column:  c.Column,
			Passed:  above == 0,
			Details: fmt.Sprintf("%d values above maximum %s", above, dataset.FormatValue(*c.Max)),
		})
	}
	return checks, nil
}

func countOutOfRange(values []dataset.Value, outside func(float64) bool) int {
	count := 0
	for _, v := range values {
		switch val := v.(type) {
		case int64:
			if outside(float64(val)) {
				count++
			}
		case float64:
			if outside(val) {
				count++
			}
		}
	}
	return count
}

// PatternCheck fails when any value does not match the anchored
// regular expression Pattern. Null values are ignored.
type PatternCheck struct {
	Column  string
	Pattern string
}

// Evaluate implements Rule.
func (c PatternCheck) Evaluate(ds *dataset.Dataset) ([]metastore.QualityCheck, error) {
	values, ok := ds.Column(c.Column)
	if !ok {
		return nil, nil
	}
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}

	mismatches := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		if !re.MatchString(dataset.FormatValue(v)) {
			mismatches++
		}
	}
	return []metastore.QualityCheck{{
		Check:   KindPattern,
		Column:  c.Column,
		Passed:  mismatches == 0,
		Details: fmt.Sprintf("%d values do not match pattern %s", mismatches, c.Pattern),
	}}, nil
}

// Validate evaluates all rules against the dataset and assembles a
// quality report stamped with the given time.
func Validate(ds *dataset.Dataset, name string, rules []Rule, now time.Time) (*metastore.QualityReport, error) {
	report := &metastore.QualityReport{
		Dataset:   name,
		Timestamp: now,
		RowCount:  ds.NumRows(),
	}
	for _, rule := range rules {
		checks, err := rule.Evaluate(ds)
		if err != nil {
			return nil, err
		}
		report.Checks = append(report.Checks, checks...)
	}
	return report, nil
}
