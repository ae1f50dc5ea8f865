package governance

import (
	"context"
	"sort"
	"time"

	"github.com/lakegov/lakegov/internal/metastore"
)

// CheckRow is one flattened quality check: a (report, check) pair.
type CheckRow struct {
	Dataset   string
	Timestamp time.Time
	Kind      string
	Column    string
	Passed    bool
	Details   string
}

// Summary aggregates check outcomes for one (dataset, kind) group.
type Summary struct {
	Dataset  string
	Kind     string
	Passed   int
	Total    int
	PassRate float64
}

// QualityReporter aggregates stored quality reports.
type QualityReporter struct {
	meta *metastore.Store
}

// NewQualityReporter creates a QualityReporter.
func NewQualityReporter(meta *metastore.Store) *QualityReporter {
	return &QualityReporter{meta: meta}
}

// Flatten scans all quality reports and returns one row per
// individual check. An empty store yields an empty result.
func (r *QualityReporter) Flatten(ctx context.Context) ([]CheckRow, error) {
	reports, err := r.meta.ListQualityReports(ctx)
	if err != nil {
		return nil, err
	}

	var rows []CheckRow
	for _, report := range reports {
		for _, check := range report.Checks {
			rows = append(rows, CheckRow{
				Dataset:   report.Dataset,
				Timestamp: report.Timestamp,
				Kind:      check.Check,
				Column:    check.Column,
				Passed:    check.Passed,
				Details:   check.Details,
			})
		}
	}
	return rows, nil
}

// Summarize groups check rows by (dataset, kind) and computes
// pass-rate percentages. Only groups with at least one check are
// emitted, so the rate is always well defined. Results are sorted by
// dataset, then kind.
func Summarize(rows []CheckRow) []Summary {
	type key struct{ dataset, kind string }
	groups := make(map[key]*Summary)
	for _, row := range rows {
		k := key{row.Dataset, row.Kind}
		s := groups[k]
		if s == nil {
			s = &Summary{Dataset: row.Dataset, Kind: row.Kind}
			groups[k] = s
		}
		s.Total++
		if row.Passed {
			s.Passed++
		}
	}

	summaries := make([]Summary, 0, len(groups))
	for _, s := range groups {
		s.PassRate = 100 * float64(s.Passed) / float64(s.Total)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Dataset != summaries[j].Dataset {
			return summaries[i].Dataset < summaries[j].Dataset
		}
		return summaries[i].Kind < summaries[j].Kind
	})
	return summaries
}

// Failed returns only the rows whose check did not pass.
func Failed(rows []CheckRow) []CheckRow {
	var failed []CheckRow
	for _, row := range rows {
		if !row.Passed {
			failed = append(failed, row)
		}
	}
	return failed
}
