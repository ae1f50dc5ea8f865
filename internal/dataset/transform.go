package dataset

import (
	"fmt"
	"sort"
	"time"
)

// Join performs a left join of left and right on the named key
// column. All columns of left are kept, followed by the non-key
// columns of right. Left rows with no match get nil values for the
// right columns; when multiple right rows share a key, the first one
// in row order wins.
func Join(left, right *Dataset, on string) (*Dataset, error) {
	if !left.HasColumn(on) {
		return nil, fmt.Errorf("left dataset has no column %q", on)
	}
	rightKeyIdx, ok := right.index[on]
	if !ok {
		return nil, fmt.Errorf("right dataset has no column %q", on)
	}

	var rightCols []string
	var rightIdx []int
	for i, c := range right.columns {
		if c == on {
			continue
		}
		if left.HasColumn(c) {
			return nil, fmt.Errorf("column %q exists on both sides of the join", c)
		}
		rightCols = append(rightCols, c)
		rightIdx = append(rightIdx, i)
	}

	lookup := make(map[string][]Value, len(right.rows))
	for _, row := range right.rows {
		key := FormatValue(row[rightKeyIdx])
		if _, seen := lookup[key]; !seen {
			lookup[key] = row
		}
	}

	out := New(append(left.Columns(), rightCols...)...)
	leftKeyIdx := left.index[on]
	for _, row := range left.rows {
		values := append([]Value(nil), row...)
		match := lookup[FormatValue(row[leftKeyIdx])]
		for _, idx := range rightIdx {
			if match == nil {
				values = append(values, nil)
			} else {
				values = append(values, match[idx])
			}
		}
		out.rows = append(out.rows, values)
	}
	return out, nil
}

// AggOp is a group-by aggregation operator.
type AggOp string

// Supported aggregation operators.
const (
	AggSum     AggOp = "sum"
	AggMean    AggOp = "mean"
	AggMin     AggOp = "min"
	AggMax     AggOp = "max"
	AggCount   AggOp = "count"
	AggNUnique AggOp = "nunique"
)

// Agg describes one aggregation of a group-by: apply Op to Column and
// name the result As.
type Agg struct {
	Column string
	Op     AggOp
	As     string
}

// GroupBy groups rows by the key columns and computes the given
// aggregations per group. The result has the key columns followed by
// one column per aggregation; groups appear in first-seen row order.
func GroupBy(d *Dataset, keys []string, aggs []Agg) (*Dataset, error) {
	keyIdx := make([]int, len(keys))
	for i, k := range keys {
		idx, ok := d.index[k]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist", k)
		}
		keyIdx[i] = idx
	}
	aggIdx := make([]int, len(aggs))
	for i, a := range aggs {
		idx, ok := d.index[a.Column]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist", a.Column)
		}
		aggIdx[i] = idx
	}

	type group struct {
		keyValues []Value
		rows      [][]Value
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range d.rows {
		id := ""
		for _, idx := range keyIdx {
			id += FormatValue(row[idx]) + "\x00"
		}
		g, ok := groups[id]
		if !ok {
			keyValues := make([]Value, len(keyIdx))
			for i, idx := range keyIdx {
				keyValues[i] = row[idx]
			}
			g = &group{keyValues: keyValues}
			groups[id] = g
			order = append(order, id)
		}
		g.rows = append(g.rows, row)
	}

	columns := append([]string(nil), keys...)
	for _, a := range aggs {
		columns = append(columns, a.As)
	}
	out := New(columns...)

	for _, id := range order {
		g := groups[id]
		values := append([]Value(nil), g.keyValues...)
		for i, a := range aggs {
			agg, err := aggregate(g.rows, aggIdx[i], a.Op)
			if err != nil {
				return nil, fmt.Errorf("aggregation %s(%s): %w", a.Op, a.Column, err)
			}
			values = append(values, agg)
		}
		out.rows = append(out.rows, values)
	}
	return out, nil
}

func aggregate(rows [][]Value, idx int, op AggOp) (Value, error) {
	switch op {
	case AggCount:
		n := int64(0)
		for _, row := range rows {
			if row[idx] != nil {
				n++
			}
		}
		return n, nil

	case AggNUnique:
		seen := make(map[string]struct{})
		for _, row := range rows {
			if row[idx] != nil {
				seen[FormatValue(row[idx])] = struct{}{}
			}
		}
		return int64(len(seen)), nil

	case AggSum, AggMean:
		sum := 0.0
		n := 0
		for _, row := range rows {
			f, ok := toFloat(row[idx])
			if !ok {
				continue
			}
			sum += f
			n++
		}
		if op == AggMean {
			if n == 0 {
				return nil, nil
			}
			return sum / float64(n), nil
		}
		return sum, nil

	case AggMin, AggMax:
		var best Value
		for _, row := range rows {
			v := row[idx]
			if v == nil {
				continue
			}
			if best == nil {
				best = v
				continue
			}
			cmp, err := compareValues(v, best)
			if err != nil {
				return nil, err
			}
			if (op == AggMin && cmp < 0) || (op == AggMax && cmp > 0) {
				best = v
			}
		}
		return best, nil

	default:
		return nil, fmt.Errorf("unknown aggregation operator %q", op)
	}
}

// toFloat coerces numeric values to float64.
func toFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// compareValues orders two values of compatible types.
func compareValues(a, b Value) (int, error) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T with %T", a, b)
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}

	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T with %T", a, b)
		}
		switch {
		case at.Before(bt):
			return -1, nil
		case at.After(bt):
			return 1, nil
		}
		return 0, nil
	}

	as, bs := FormatValue(a), FormatValue(b)
	switch {
	case as < bs:
		return -1, nil
	case as > bs:
		return 1, nil
	}
	return 0, nil
}

// SortBy returns a copy of the dataset sorted ascending by the given
// columns. nil sorts first.
func SortBy(d *Dataset, columns ...string) (*Dataset, error) {
	indices := make([]int, len(columns))
	for i, c := range columns {
		idx, ok := d.index[c]
		if !ok {
			return nil, fmt.Errorf("column %q does not exist", c)
		}
		indices[i] = idx
	}

	out := d.Clone()
	sort.SliceStable(out.rows, func(i, j int) bool {
		for _, idx := range indices {
			a, b := out.rows[i][idx], out.rows[j][idx]
			if a == nil || b == nil {
				if a == nil && b != nil {
					return true
				}
				if b == nil && a != nil {
					return false
				}
				continue
			}
			cmp, err := compareValues(a, b)
			if err != nil || cmp == 0 {
				continue
			}
			return cmp < 0
		}
		return false
	})
	return out, nil
}
