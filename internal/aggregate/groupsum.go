// Package aggregate reduces transaction frames into grouped totals and
// derives the profit-and-loss line items from them.
package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sellerledger/reconciler/internal/domain"
)

// keySep joins group key parts; it cannot occur in report text.
const keySep = "\x1f"

// GroupAndSum groups frame by the ordered key tuple and reduces each sum
// column by addition, one output row per distinct key tuple in first-seen
// order. Rows whose type is in excludeTypes are dropped first. Before
// grouping, the description of item-bearing types collapses to "(items)" and
// null description/fulfillment values default to "none", so every row lands
// in exactly one group. Sum cells are coerced to numbers on the way in
// (comma-stripped; unparsable or null reads as zero). Sum columns absent from
// the frame are skipped.
func GroupAndSum(frame *domain.Frame, sumColumns, groupKeys []string, excludeTypes map[string]bool) (*domain.Frame, error) {
	for _, k := range groupKeys {
		if !frame.HasColumn(k) {
			return nil, &domain.MissingColumnError{Column: k}
		}
	}

	present := make([]string, 0, len(sumColumns))
	for _, c := range sumColumns {
		if frame.HasColumn(c) {
			present = append(present, c)
		}
	}

	out := domain.NewFrame(append(append([]string{}, groupKeys...), present...))
	rowOf := make(map[string]int)
	sums := make(map[string][]decimal.Decimal)

	for r := 0; r < frame.Rows(); r++ {
		typ := cellText(frame.Cell(r, domain.ColType))
		if excludeTypes[typ] {
			continue
		}

		parts := make([]string, len(groupKeys))
		for i, k := range groupKeys {
			parts[i] = groupValue(frame, r, k, typ)
		}
		key := strings.Join(parts, keySep)

		if _, ok := rowOf[key]; !ok {
			cells := make([]domain.Cell, 0, len(groupKeys)+len(present))
			for _, p := range parts {
				cells = append(cells, domain.StringCell(p))
			}
			for range present {
				cells = append(cells, domain.NumberCell(decimal.Zero))
			}
			out.AppendRow(cells)
			rowOf[key] = out.Rows() - 1
			sums[key] = make([]decimal.Decimal, len(present))
		}

		acc := sums[key]
		for i, col := range present {
			acc[i] = acc[i].Add(numericValue(frame.Cell(r, col)))
		}
	}

	for key, row := range rowOf {
		for i, col := range present {
			out.SetCell(row, col, domain.NumberCell(sums[key][i]))
		}
	}
	return out, nil
}

// groupValue resolves one key cell, applying the pre-grouping overrides.
func groupValue(frame *domain.Frame, row int, key, typ string) string {
	if key == domain.ColDescription && domain.ItemizedTypes[typ] {
		return domain.ItemsDescription
	}
	v := cellText(frame.Cell(row, key))
	if v == "" && (key == domain.ColDescription || key == domain.ColFulfillment) {
		return domain.FulfillmentNone
	}
	return v
}

func cellText(c domain.Cell) string {
	if c.Kind == domain.CellString {
		return c.Str
	}
	return ""
}

// numericValue reads a cell as a number: typed numbers pass through, strings
// get the comma-strip coercion, everything else is the additive identity.
func numericValue(c domain.Cell) decimal.Decimal {
	switch c.Kind {
	case domain.CellNumber:
		return c.Num
	case domain.CellString:
		s := strings.TrimSpace(strings.ReplaceAll(c.Str, ",", ""))
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
		return decimal.Zero
	default:
		return decimal.Zero
	}
}
