package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Format identifies a dataset serialization format.
type Format string

// Supported formats. JSON is newline-delimited (one object per row).
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for any format other than the
// supported ones, before any I/O is attempted.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type objects of this format are stored
// with.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Encode serializes the dataset in the given format.
func Encode(d *Dataset, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return encodeCSV(d)
	case FormatJSON:
		return encodeJSON(d)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Decode deserializes a dataset from the given format.
func Decode(data []byte, f Format) (*Dataset, error) {
	switch f {
	case FormatCSV:
		return decodeCSV(data)
	case FormatJSON:
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

func encodeCSV(d *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(d.columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(d.columns))
	for _, row := range d.rows {
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeCSV(data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv payload has no header row")
	}

	d := New(records[0]...)
	for _, record := range records[1:] {
		values := make([]Value, len(record))
		for i, cell := range record {
			values[i] = ParseValue(cell)
		}
		if err := d.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func encodeJSON(d *Dataset) ([]byte, error) {
	var buf bytes.Buffer
	for _, row := range d.rows {
		// Build each line by hand to preserve column order; a map
		// would marshal with sorted keys.
		buf.WriteByte('{')
		for i, col := range d.columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(jsonValue(row[i]))
			if err != nil {
				return nil, fmt.Errorf("failed to encode column %q: %w", col, err)
			}
			buf.Write(name)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteString("}\n")
	}
	return buf.Bytes(), nil
}

// jsonValue normalizes values for JSON encoding; timestamps become
// RFC 3339 strings so they survive a round trip through ParseValue.
func jsonValue(v Value) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return v
}

func decodeJSON(data []byte) (*Dataset, error) {
	lines := splitLines(data)
	if len(lines) == 0 {
		return New(), nil
	}

	columns, err := orderedKeys(lines[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse json header row: %w", err)
	}

	d := New(columns...)
	for _, line := range lines {
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("failed to parse json row: %w", err)
		}

		values := make([]Value, len(columns))
		for i, col := range columns {
			values[i] = fromJSONValue(obj[col])
		}
		if err := d.AppendRow(values...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// orderedKeys extracts the keys of a JSON object in document order,
// which json.Unmarshal into a map would lose.
func orderedKeys(obj []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a json object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("expected a json object key")
		}
		keys = append(keys, key)

		// Consume the value without interpreting it.
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func fromJSONValue(v any) Value {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return t
		}
		return val
	default:
		return val
	}
}
