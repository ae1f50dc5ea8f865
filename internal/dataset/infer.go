package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Type names reported in metadata records. They follow the SQL naming
// the query engine uses for the same data.
const (
	TypeBigint    = "bigint"
	TypeDouble    = "double"
	TypeBoolean   = "boolean"
	TypeTimestamp = "timestamp"
	TypeVarchar   = "varchar"
)

// TypeName returns the declared type name for a value.
func TypeName(v Value) string {
	switch v.(type) {
	case int64:
		return TypeBigint
	case float64:
		return TypeDouble
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeTimestamp
	default:
		return TypeVarchar
	}
}

// ColumnTypes infers a type name for every column from its first
// non-nil value. Columns with no values default to varchar.
func (d *Dataset) ColumnTypes() map[string]string {
	types := make(map[string]string, len(d.columns))
	for _, col := range d.columns {
		types[col] = TypeVarchar
		idx := d.index[col]
		for _, row := range d.rows {
			if row[idx] != nil {
				types[col] = TypeName(row[idx])
				break
			}
		}
	}
	return types
}

// timestampLayouts are the layouts ParseValue recognizes, most
// specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseValue converts a raw string cell into a typed value. Empty
// strings become nil.
func ParseValue(s string) Value {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true", "True":
		return true
	case "false", "False":
		return false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return s
}

// FormatValue renders a value as a string cell. nil renders as the
// empty string, timestamps as RFC 3339.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
