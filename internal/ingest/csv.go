package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/latspace/mapping-agent/internal/model"
)

// CSVOptions configures the delimited text reader.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSVFile reads delimited text as UTF-8, falling back to Latin-1 when
// the bytes are not valid UTF-8.
func ReadCSVFile(path string, opts CSVOptions) (model.RawGrid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: read file")
	}

	var r io.Reader
	if utf8.Valid(data) {
		r = bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))
	} else {
		zap.L().Debug("csv: invalid utf-8, decoding as latin-1", zap.String("path", path))
		r = transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
	}
	return ReadCSV(r, opts)
}

// ReadCSV parses delimited text into a grid with per-cell inferred types.
// Rows may have differing field counts. Malformed lines are skipped.
func ReadCSV(r io.Reader, opts CSVOptions) (model.RawGrid, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var grid model.RawGrid
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				zap.L().Debug("csv: skipping malformed line", zap.Int("line", perr.Line), zap.Error(err))
				continue
			}
			return nil, eris.Wrap(err, "csv: read row")
		}

		cells := make([]model.Cell, len(record))
		for i, field := range record {
			cells[i] = InferCell(field)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
