package ingest

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/latspace/mapping-agent/internal/model"
)

// XLSXOptions configures the workbook readers.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX reads one sheet of an .xlsx/.xlsm workbook into a typed grid.
func ReadXLSX(path string, opts XLSXOptions) (model.RawGrid, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	grid := make(model.RawGrid, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		grid = append(grid, rowToCells(row, f.Date1904))
	}
	return trimTrailingEmpty(grid), nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func rowToCells(row *xlsx.Row, date1904 bool) []model.Cell {
	if row == nil {
		return nil
	}
	cells := make([]model.Cell, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = convertCell(cell, date1904)
	}
	return cells
}

func convertCell(cell *xlsx.Cell, date1904 bool) model.Cell {
	if cell == nil || cell.Value == "" {
		return model.EmptyCell()
	}

	switch cell.Type() {
	case xlsx.CellTypeNumeric:
		// Date-formatted serials are timestamps, not measurements.
		if cell.IsTime() {
			if t, err := cell.GetTime(date1904); err == nil {
				return model.DateCell(t)
			}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell.Value), 64)
		if err != nil {
			return model.StringCell(cell.Value)
		}
		return model.NumberCell(v)
	case xlsx.CellTypeBool:
		return model.BoolCell(cell.Value == "1" || strings.EqualFold(cell.Value, "true"))
	default:
		// Shared, inline and formula strings, error literals and ISO dates
		// all arrive as text.
		return model.StringCell(cell.String())
	}
}

// trimTrailingEmpty drops fully empty rows at the end of a sheet, which
// workbooks often carry for formatted but unused rows.
func trimTrailingEmpty(grid model.RawGrid) model.RawGrid {
	end := len(grid)
	for end > 0 && model.RowIsEmpty(grid[end-1]) {
		end--
	}
	return grid[:end]
}
