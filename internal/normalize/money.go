package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sellerledger/reconciler/internal/domain"
)

// Money coerces every column from the monetary anchor ("product sales")
// rightward to decimal numbers in place: thousands commas are stripped and
// residue that still fails to parse becomes the empty marker, which sums as
// zero. Returns human-review warnings: one per known monetary column the
// frame lacks (its sums will read as zero), one per column right of the
// anchor that is not in the known monetary set. Warnings never alter
// computation.
func Money(frame *domain.Frame) []string {
	var warnings []string

	for _, col := range domain.MonetaryColumns {
		if !frame.HasColumn(col) {
			warnings = append(warnings,
				fmt.Sprintf("column %q is missing from the transactions", col))
		}
	}

	anchor := frame.ColumnIndex(domain.MonetaryAnchor)
	if anchor == -1 {
		// No anchor to sweep rightward from; fall back to coercing the known
		// monetary columns by name so the aggregation still sees numbers.
		for _, col := range domain.MonetaryColumns {
			if frame.HasColumn(col) {
				coerceColumn(frame, col)
			}
		}
		return warnings
	}

	cols := frame.Columns()
	for _, col := range cols[anchor:] {
		if !domain.IsMonetaryColumn(col) {
			warnings = append(warnings, fmt.Sprintf(
				"unexpected column %q found after %q; it is not accounted for in the calculations",
				col, domain.MonetaryAnchor))
		}
		coerceColumn(frame, col)
	}
	return warnings
}

func coerceColumn(frame *domain.Frame, column string) {
	cells := frame.Column(column)
	for i, c := range cells {
		if c.Kind != domain.CellString {
			continue
		}
		if d, ok := ParseAmount(c.Str); ok {
			cells[i] = domain.NumberCell(d)
		} else {
			cells[i] = domain.Cell{}
		}
	}
	frame.ReplaceColumn(column, cells)
}

// ParseAmount parses a currency-like string, tolerating thousands separators.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
