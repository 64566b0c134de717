package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellKind discriminates the scalar stored in a Cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellTime
)

// Cell is a single tabular value: a string, a decimal number, a timestamp,
// or empty. Empty doubles as the null marker produced by soft-failing
// normalization.
type Cell struct {
	Kind CellKind
	Str  string
	Num  decimal.Decimal
	Time time.Time
}

func StringCell(s string) Cell          { return Cell{Kind: CellString, Str: s} }
func NumberCell(d decimal.Decimal) Cell { return Cell{Kind: CellNumber, Num: d} }
func TimeCell(t time.Time) Cell         { return Cell{Kind: CellTime, Time: t} }

// IsEmpty reports whether the cell holds no value (the null marker).
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// Number returns the numeric value of the cell, treating empty cells as zero.
// Non-numeric cells also read as zero; summation must never break on residue.
func (c Cell) Number() decimal.Decimal {
	if c.Kind == CellNumber {
		return c.Num
	}
	return decimal.Zero
}

// Display renders the cell the way it is written into CSV and xlsx artifacts.
func (c Cell) Display() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return c.Num.String()
	case CellTime:
		return c.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Frame is an ordered sequence of named columns, each an ordered sequence of
// cells. All columns always hold the same number of rows. Frames never share
// cell storage: Clone and Concat copy.
type Frame struct {
	cols  []string
	index map[string]int
	data  [][]Cell
}

// NewFrame creates an empty frame with the given column order. A duplicate
// column name keeps its first position; later duplicates are dropped, matching
// how a delimited header with a repeated label is read.
func NewFrame(columns []string) *Frame {
	f := &Frame{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := f.index[c]; dup {
			continue
		}
		f.index[c] = len(f.cols)
		f.cols = append(f.cols, c)
		f.data = append(f.data, nil)
	}
	return f
}

// Columns returns the column names in order. The slice is a copy.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// ColumnIndex returns the position of the named column, or -1.
func (f *Frame) ColumnIndex(name string) int {
	i, ok := f.index[name]
	if !ok {
		return -1
	}
	return i
}

// Rows returns the row count.
func (f *Frame) Rows() int {
	if len(f.data) == 0 {
		return 0
	}
	return len(f.data[0])
}

// AppendRow appends one row. Short rows are padded with empty cells and long
// rows truncated, so the equal-row-count invariant always holds.
func (f *Frame) AppendRow(cells []Cell) {
	for i := range f.data {
		if i < len(cells) {
			f.data[i] = append(f.data[i], cells[i])
		} else {
			f.data[i] = append(f.data[i], Cell{})
		}
	}
}

// Cell returns the cell at (row, column). Unknown columns read as empty.
func (f *Frame) Cell(row int, column string) Cell {
	i, ok := f.index[column]
	if !ok || row < 0 || row >= len(f.data[i]) {
		return Cell{}
	}
	return f.data[i][row]
}

// SetCell overwrites the cell at (row, column). Unknown columns are ignored.
func (f *Frame) SetCell(row int, column string, c Cell) {
	i, ok := f.index[column]
	if !ok || row < 0 || row >= len(f.data[i]) {
		return
	}
	f.data[i][row] = c
}

// Column returns a copy of the named column's cells, or nil if absent.
func (f *Frame) Column(name string) []Cell {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	out := make([]Cell, len(f.data[i]))
	copy(out, f.data[i])
	return out
}

// ReplaceColumn swaps the named column's cells in place. The replacement must
// match the frame's row count; mismatches are ignored rather than corrupting
// the row invariant.
func (f *Frame) ReplaceColumn(name string, cells []Cell) {
	i, ok := f.index[name]
	if !ok || len(cells) != f.Rows() {
		return
	}
	f.data[i] = cells
}

// Row returns a copy of one row in column order.
func (f *Frame) Row(row int) []Cell {
	out := make([]Cell, len(f.cols))
	for i := range f.cols {
		if row >= 0 && row < len(f.data[i]) {
			out[i] = f.data[i][row]
		}
	}
	return out
}

// Clone deep-copies the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.cols)
	for i := range f.data {
		out.data[i] = make([]Cell, len(f.data[i]))
		copy(out.data[i], f.data[i])
	}
	return out
}

// FilterRows returns a new frame holding, in input order, the rows for which
// keep returns true.
func (f *Frame) FilterRows(keep func(row int) bool) *Frame {
	out := NewFrame(f.cols)
	for r := 0; r < f.Rows(); r++ {
		if keep(r) {
			out.AppendRow(f.Row(r))
		}
	}
	return out
}

// Concat combines frames into one, copying every cell. Columns are the union
// in first-seen order; rows from a frame lacking a column get empty cells
// there.
func Concat(frames ...*Frame) *Frame {
	var cols []string
	seen := make(map[string]bool)
	for _, fr := range frames {
		for _, c := range fr.cols {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	out := NewFrame(cols)
	for _, fr := range frames {
		for r := 0; r < fr.Rows(); r++ {
			row := make([]Cell, len(cols))
			for i, c := range cols {
				if fr.HasColumn(c) {
					row[i] = fr.Cell(r, c)
				}
			}
			out.AppendRow(row)
		}
	}
	return out
}
