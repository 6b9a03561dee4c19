package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// writeTestFile writes data under a temp dir and returns its path.
func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// createTestXLSX writes a single-sheet workbook. Cell values may be string,
// int, float64, bool, time.Time (date-formatted) or nil (left blank).
func createTestXLSX(t *testing.T, name string, rows [][]any) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, v := range rowData {
			cell := row.AddCell()
			switch val := v.(type) {
			case string:
				cell.SetString(val)
			case int:
				cell.SetInt(val)
			case float64:
				cell.SetFloat(val)
			case bool:
				cell.SetBool(val)
			case time.Time:
				cell.SetDate(val)
			}
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.Save(path))
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
