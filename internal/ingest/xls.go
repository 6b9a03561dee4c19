package ingest

import (
	"github.com/extrame/xls"
	"github.com/rotisserie/eris"

	"github.com/latspace/mapping-agent/internal/model"
)

// ReadXLS reads one sheet of a legacy BIFF workbook. The format carries no
// reliable cell types through the reader, so cells are typed from their text.
func ReadXLS(path string, sheetIndex int) (grid model.RawGrid, err error) {
	// The BIFF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			grid = nil
			err = eris.Errorf("xls: malformed workbook: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, eris.Wrap(err, "xls: open file")
	}

	if sheetIndex >= wb.NumSheets() {
		return nil, eris.Errorf("xls: sheet index %d out of range (file has %d sheets)", sheetIndex, wb.NumSheets())
	}
	sheet := wb.GetSheet(sheetIndex)
	if sheet == nil {
		return nil, eris.Errorf("xls: sheet %d unreadable", sheetIndex)
	}

	grid = make(model.RawGrid, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]model.Cell, row.LastCol())
		for j := range cells {
			if j < row.FirstCol() {
				cells[j] = model.EmptyCell()
				continue
			}
			cells[j] = InferCell(row.Col(j))
		}
		grid = append(grid, cells)
	}
	return trimTrailingEmpty(grid), nil
}
