package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/latspace/mapping-agent/internal/model"
)

// naTokens are read as missing values in untyped sources, matching the
// defaults common dataframe readers apply to text files.
var naTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// InferCell types a text field from an untyped source: NA tokens are
// missing, plain decimal literals are numbers, everything else is a string.
func InferCell(field string) model.Cell {
	if naTokens[field] {
		return model.EmptyCell()
	}
	trimmed := strings.TrimSpace(field)
	if decimalLiteral.MatchString(trimmed) {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return model.NumberCellText(v, trimmed)
		}
	}
	return model.StringCell(field)
}
