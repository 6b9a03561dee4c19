// Package samples writes demonstration plant logs covering the messy
// layouts the pipeline has to cope with.
package samples

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Sheet1"

// File is one generated sample. Rows hold string, int, float64 or nil
// cells; nil cells are left blank and a nil row is written as an empty line.
type File struct {
	Name string
	Rows [][]any
}

// All returns every sample in generation order.
func All() []File {
	return []File{
		{
			Name: "sample_clean.xlsx",
			Rows: [][]any{
				{"power_generation", "coal_consumption", "temperature", "steam_generation", "pressure"},
				{500, 200, 85.5, 1500, 12.5},
				{505, 202, 86.0, 1510, 12.6},
				{510, 205, 85.8, 1505, 12.4},
			},
		},
		{
			Name: "sample_messy_1.xlsx",
			Rows: [][]any{
				{"Gen", "Coal (MT)", "Boiler 1 - Temp", "Press", "Random Column"},
				{500, 200, 85.5, 12.5, "A"},
				{505, 202, 86.0, 12.6, "B"},
				{510, 205, 85.8, 12.4, "C"},
			},
		},
		{
			Name: "sample_messy_2.xlsx",
			Rows: [][]any{
				{"Power (MW)", "Temp", "Temp", "Steam Flow (TPH)", "H2O Usage", "Eff"},
				{500, 85.5, 120.5, 1500, 1000, 95.5},
				{505, 86.0, 121.0, 1510, 1005, 96.0},
				{510, 85.8, 120.8, 1505, 1010, 95.8},
			},
		},
		{
			Name: "sample_extreme_mess.xlsx",
			Rows: [][]any{
				{"Daily Operations Report - Unit 3"},
				{"Exported from DCS", nil, nil, "Shift A"},
				{nil, "Gen (MW)", "Boiler 1 - Temp", "Press", "Coal", "Status"},
				{1, 500, 85.5, "12.5", 200, "OK"},
				{2, "ERROR_READING", 86.0, "12.6 bar", 202, "High"},
				nil,
				{3, "1,234.5", "N/A", 12.4, nil, "OK"},
			},
		},
		{
			Name: "sample_title_rows.csv",
			Rows: [][]any{
				{"Plant: North Station"},
				{"Report period: 2024-01"},
				{"power_generation", "temperature", "pressure"},
				{500, 85.5, 12.5},
				{505, 86.0, "12.6 bar"},
			},
		},
	}
}

// WriteAll writes every sample into dir and returns the created paths.
func WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "samples: create dir %s", dir)
	}

	paths := make([]string, 0, len(All()))
	for _, f := range All() {
		path := filepath.Join(dir, f.Name)
		var err error
		if strings.HasSuffix(f.Name, ".csv") {
			err = WriteCSV(path, f.Rows)
		} else {
			err = WriteXLSX(path, f.Rows)
		}
		if err != nil {
			return paths, err
		}
		zap.L().Info("samples: wrote file", zap.String("path", path), zap.Int("rows", len(f.Rows)))
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteXLSX saves rows to a single-sheet workbook at path.
func WriteXLSX(path string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return eris.Wrap(err, "samples: cell name")
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return eris.Wrapf(err, "samples: set %s", cell)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "samples: save %s", path)
	}
	return nil
}

// WriteCSV saves rows as comma-separated text at path.
func WriteCSV(path string, rows [][]any) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "samples: create %s", path)
	}
	defer out.Close() //nolint:errcheck

	w := csv.NewWriter(out)
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "samples: write %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "samples: flush %s", path)
	}
	return out.Close()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
