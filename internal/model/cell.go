package model

import (
	"math"
	"strconv"
	"time"
)

// CellKind identifies the type a loader assigned to a raw cell.
type CellKind int

// Cell kinds.
const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellBool
	CellDate
)

// Cell is a single heterogeneous value from a source grid.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
}

// EmptyCell returns a missing cell.
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// StringCell returns a text cell.
func StringCell(s string) Cell { return Cell{Kind: CellString, Text: s} }

// NumberCell returns a numeric cell. Text carries the shortest decimal form.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// NumberCellText returns a numeric cell that keeps the source spelling of the value.
func NumberCellText(v float64, text string) Cell {
	return Cell{Kind: CellNumber, Number: v, Text: text}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell {
	text := "False"
	if b {
		text = "True"
	}
	return Cell{Kind: CellBool, Bool: b, Text: text}
}

// DateCell returns a date/time cell. Text is the timestamp in
// "YYYY-MM-DD hh:mm:ss" form.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Text: t.Format(time.DateTime)}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == CellEmpty }

// IsString reports whether the cell is a present, string-typed value.
func (c Cell) IsString() bool { return c.Kind == CellString }

// String returns the textual form of the cell.
func (c Cell) String() string { return c.Text }

// JSONValue returns the cell as a JSON-friendly value: nil, string, float64 or bool.
func (c Cell) JSONValue() any {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return nil
		}
		return c.Number
	case CellBool:
		return c.Bool
	case CellDate:
		return c.Text
	default:
		return nil
	}
}

// RawGrid is a headerless [row][col] view of a source file.
type RawGrid [][]Cell

// Width returns the length of the widest row.
func (g RawGrid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Table is a source file re-read with a known header row.
type Table struct {
	// HeaderRow is the 0-based grid index of the header line.
	HeaderRow int
	Headers   []string
	// Rows holds every line after the header, each padded to len(Headers).
	Rows [][]Cell
}

// RowIsEmpty reports whether every cell in row is missing.
func RowIsEmpty(row []Cell) bool {
	for _, c := range row {
		if !c.IsMissing() {
			return false
		}
	}
	return true
}
