// Package ingest loads spreadsheets and delimited text into raw cell grids.
package ingest

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/latspace/mapping-agent/internal/model"
)

// Loader reads a source file either as a headerless grid or as a table
// with a known header row.
type Loader interface {
	ReadGrid(path string) (model.RawGrid, error)
	ReadTable(path string, headerRow int) (*model.Table, error)
}

// FileLoader picks a reader by file extension.
type FileLoader struct {
	XLSX XLSXOptions
	CSV  CSVOptions
}

var _ Loader = (*FileLoader)(nil)

// NewFileLoader returns a loader reading the first sheet of workbooks and
// comma-separated text.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// ReadGrid reads every row of path with no header assumed.
func (l *FileLoader) ReadGrid(path string) (model.RawGrid, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		grid model.RawGrid
		err  error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		grid, err = ReadXLSX(path, l.XLSX)
	case ".xls":
		grid, err = ReadXLS(path, l.XLSX.SheetIndex)
	case ".csv":
		grid, err = ReadCSVFile(path, l.CSV)
	default:
		grid, err = l.readUnknown(path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	if len(grid) == 0 {
		return nil, eris.Errorf("ingest: read %s: file contains no rows", path)
	}

	zap.L().Debug("ingest: grid loaded",
		zap.String("path", path),
		zap.String("ext", ext),
		zap.Int("rows", len(grid)),
		zap.Int("cols", grid.Width()),
	)
	return grid, nil
}

// ReadTable re-reads path and splits it at headerRow (0-based).
func (l *FileLoader) ReadTable(path string, headerRow int) (*model.Table, error) {
	grid, err := l.ReadGrid(path)
	if err != nil {
		return nil, err
	}
	if headerRow < 0 || headerRow >= len(grid) {
		return nil, eris.Errorf("ingest: header row %d out of range for %s (%d rows)", headerRow, path, len(grid))
	}
	return BuildTable(grid, headerRow), nil
}

// readUnknown tries the modern workbook, legacy workbook and text readers
// in that order.
func (l *FileLoader) readUnknown(path string) (model.RawGrid, error) {
	grid, xlsxErr := ReadXLSX(path, l.XLSX)
	if xlsxErr == nil {
		return grid, nil
	}
	grid, xlsErr := ReadXLS(path, l.XLSX.SheetIndex)
	if xlsErr == nil {
		return grid, nil
	}
	grid, csvErr := ReadCSVFile(path, l.CSV)
	if csvErr == nil {
		return grid, nil
	}
	return nil, eris.Wrap(errors.Join(xlsxErr, xlsErr, csvErr), "ingest: no reader accepted file")
}

// BuildTable uses grid[headerRow] as column labels and every later row as
// data. All rows are padded to the grid width; blank labels become
// "Unnamed: <col>".
func BuildTable(grid model.RawGrid, headerRow int) *model.Table {
	width := grid.Width()
	t := &model.Table{
		HeaderRow: headerRow,
		Headers:   make([]string, width),
	}

	var headerCells []model.Cell
	if headerRow >= 0 && headerRow < len(grid) {
		headerCells = grid[headerRow]
	}
	for col := range t.Headers {
		var c model.Cell
		if col < len(headerCells) {
			c = headerCells[col]
		}
		t.Headers[col] = headerLabel(c, col)
	}

	if headerRow+1 < len(grid) {
		t.Rows = make([][]model.Cell, 0, len(grid)-headerRow-1)
		for _, row := range grid[headerRow+1:] {
			padded := make([]model.Cell, width)
			copy(padded, row)
			t.Rows = append(t.Rows, padded)
		}
	}
	return t
}

func headerLabel(c model.Cell, col int) string {
	if c.IsMissing() || c.Text == "" {
		return "Unnamed: " + strconv.Itoa(col)
	}
	return norm.NFC.String(c.Text)
}
