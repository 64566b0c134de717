// Package report serialises run outputs: the populated P&L summary workbook
// and delimited-text encodings of frames.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sellerledger/reconciler/internal/domain"
)

// TemplateLayout names the two summary-sheet cell layouts. The caller selects
// one explicitly; the layout is never inferred from the presence of an
// optional input.
type TemplateLayout int

const (
	// LayoutBundled writes into the built-in summary workbook: title in A1,
	// labels and values starting at row 3, no offset.
	LayoutBundled TemplateLayout = iota
	// LayoutExternal writes into a caller-supplied P&L workbook: rows are
	// shifted down to leave the workbook's own heading block intact, and
	// labels are inserted alongside the values.
	LayoutExternal
)

const (
	summarySheet = "Summary"
	detailSheet  = "Transaction Detail"

	bundledFirstRow  = 3
	externalFirstRow = 5
	labelColumn      = 1
	valueColumn      = 2
)

// PopulateTemplate writes each P&L line item to its fixed (row, column) cell
// in the "Summary" sheet and appends the full grouped detail as a second
// sheet. For LayoutExternal, template must hold the external workbook bytes;
// they are opened as an in-memory copy and never mutated. Returns the
// serialised workbook.
func PopulateTemplate(template []byte, layout TemplateLayout, title string, pnl *domain.PnLSummary, detail *domain.Frame) ([]byte, error) {
	var (
		f   *excelize.File
		err error
	)
	if layout == LayoutExternal {
		f, err = excelize.OpenReader(bytes.NewReader(template))
		if err != nil {
			return nil, fmt.Errorf("open template: %w", err)
		}
	} else {
		f = excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
			return nil, fmt.Errorf("name summary sheet: %w", err)
		}
	}
	defer f.Close()

	if !hasSheet(f, summarySheet) {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return nil, fmt.Errorf("create summary sheet: %w", err)
		}
	}

	firstRow := bundledFirstRow
	if layout == LayoutExternal {
		firstRow = externalFirstRow
	} else {
		if err := setCell(f, summarySheet, 1, labelColumn, title); err != nil {
			return nil, err
		}
	}

	for i, item := range pnl.LineItems() {
		row := firstRow + i
		if err := setCell(f, summarySheet, row, labelColumn, item.Label); err != nil {
			return nil, err
		}
		if err := setCell(f, summarySheet, row, valueColumn, item.Value.InexactFloat64()); err != nil {
			return nil, err
		}
	}

	if err := appendFrameSheet(f, detailSheet, detail); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FrameWorkbook serialises a frame as a single-sheet workbook.
func FrameWorkbook(frame *domain.Frame, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := writeFrame(f, sheet, frame); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func appendFrameSheet(f *excelize.File, sheet string, frame *domain.Frame) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	return writeFrame(f, sheet, frame)
}

// writeFrame emits the header row followed by data rows in frame order.
func writeFrame(f *excelize.File, sheet string, frame *domain.Frame) error {
	for i, col := range frame.Columns() {
		if err := setCell(f, sheet, 1, i+1, col); err != nil {
			return err
		}
	}
	for r := 0; r < frame.Rows(); r++ {
		for i, c := range frame.Row(r) {
			var v any
			switch c.Kind {
			case domain.CellNumber:
				v = c.Num.InexactFloat64()
			case domain.CellTime:
				v = c.Time
			case domain.CellString:
				v = c.Str
			default:
				continue
			}
			if err := setCell(f, sheet, r+2, i+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, row, col int, v any) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell (%d,%d): %w", row, col, err)
	}
	if err := f.SetCellValue(sheet, name, v); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, name, err)
	}
	return nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
