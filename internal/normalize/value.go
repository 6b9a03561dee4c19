// Package normalize coerces raw spreadsheet cells into canonical numbers.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/latspace/mapping-agent/internal/model"
)

var (
	truthyTokens = map[string]bool{"yes": true, "true": true, "on": true}
	absentTokens = map[string]bool{
		"no": true, "false": true, "off": true, "n/a": true,
		"nan": true, "null": true, "none": true, "": true,
	}

	// nonNumeric matches everything that is not a digit, period or minus sign.
	nonNumeric = regexp.MustCompile(`[^\d.\-]`)
)

// Value converts a cell to a real number. The boolean result is false when
// the cell carries no usable numeric value; that is never an error. Dates
// have no numeric form.
func Value(c model.Cell) (float64, bool) {
	switch c.Kind {
	case model.CellNumber:
		if math.IsNaN(c.Number) {
			return 0, false
		}
		return c.Number, true
	case model.CellBool:
		if c.Bool {
			return 1, true
		}
		return 0, true
	case model.CellString:
		return String(c.Text)
	default:
		return 0, false
	}
}

// String applies the text cleaning rules: yes/true/on become 1, the usual
// "no value" tokens are absent, and anything else has every character
// except digits, periods and minus signs stripped before parsing. A value
// like "12-34" is therefore attempted as one malformed number and dropped.
func String(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if truthyTokens[s] {
		return 1, true
	}
	if absentTokens[s] {
		return 0, false
	}

	cleaned := nonNumeric.ReplaceAllString(s, "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Ptr is Value with a nil result for absent values.
func Ptr(c model.Cell) *float64 {
	v, ok := Value(c)
	if !ok {
		return nil
	}
	return &v
}
