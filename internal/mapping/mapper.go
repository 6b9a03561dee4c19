// Package mapping resolves spreadsheet column headers to canonical
// parameters, either through the Anthropic API or an offline matcher.
package mapping

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/latspace/mapping-agent/internal/model"
)

// Mapper maps deduplicated column headers to canonical parameters.
type Mapper interface {
	MapHeaders(ctx context.Context, req Request) ([]model.MappingRecord, error)
}

// Request carries everything a mapper needs for one file.
type Request struct {
	Registry *model.Registry
	Headers  []string
	// Samples holds the first rows of the table keyed by header, with
	// missing cells as nil.
	Samples []SampleRow
}

// SampleRow is one data row keyed by header. It encodes as a JSON object
// whose keys follow column order.
type SampleRow struct {
	Headers []string
	Values  []any
}

// Get returns the value under header.
func (r SampleRow) Get(header string) (any, bool) {
	for i, h := range r.Headers {
		if h == header {
			if i < len(r.Values) {
				return r.Values[i], true
			}
			return nil, true
		}
	}
	return nil, false
}

// MarshalJSON writes the row as an object in column order.
func (r SampleRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.Headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		var v any
		if i < len(r.Values) {
			v = r.Values[i]
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildSamples returns up to n leading rows of t keyed by header label.
func BuildSamples(t *model.Table, n int) []SampleRow {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n <= 0 {
		return []SampleRow{}
	}
	out := make([]SampleRow, 0, n)
	for _, row := range t.Rows[:n] {
		values := make([]any, len(t.Headers))
		for i := range t.Headers {
			if i < len(row) {
				values[i] = row[i].JSONValue()
			}
		}
		out = append(out, SampleRow{Headers: t.Headers, Values: values})
	}
	return out
}
