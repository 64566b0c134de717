// Package inventory rolls an Amazon inventory-ledger export up to one row per
// ASIN: received quantity, everything-else quantity, and the related MSKUs
// and titles.
package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sellerledger/reconciler/internal/domain"
)

// Ledger column names as exported by Amazon.
const (
	ColASIN      = "ASIN"
	ColEventType = "Event Type"
	ColQuantity  = "Quantity"
	ColMSKU      = "MSKU"
	ColTitle     = "Title"

	eventReceipts = "Receipts"
)

// Output column names.
const (
	OutASIN           = "ASIN"
	OutNonReceiptsSum = "Sum_Quantity_Non_Receipts"
	OutReceiptsSum    = "Sum_Quantity_Receipts"
	OutMSKUs          = "Related_MSKUs"
	OutTitles         = "Related_Titles"
)

type asinAgg struct {
	nonReceipts decimal.Decimal
	receipts    decimal.Decimal
	mskus       []string
	titles      []string
	seenMSKU    map[string]bool
	seenTitle   map[string]bool
}

// Summarize aggregates a ledger frame per ASIN, preserving first-seen ASIN
// order. Quantity is summed separately for "Receipts" events and everything
// else; MSKUs and Titles are deduplicated and comma-joined in first-seen
// order. Returns *domain.MissingColumnError when a required ledger column is
// absent.
func Summarize(frame *domain.Frame) (*domain.Frame, error) {
	for _, col := range []string{ColASIN, ColEventType, ColQuantity, ColMSKU, ColTitle} {
		if !frame.HasColumn(col) {
			return nil, &domain.MissingColumnError{Column: col, Frame: "inventory ledger"}
		}
	}

	var order []string
	aggs := make(map[string]*asinAgg)

	for r := 0; r < frame.Rows(); r++ {
		asin := frame.Cell(r, ColASIN).Display()
		if asin == "" {
			continue
		}
		a, ok := aggs[asin]
		if !ok {
			a = &asinAgg{seenMSKU: make(map[string]bool), seenTitle: make(map[string]bool)}
			aggs[asin] = a
			order = append(order, asin)
		}

		qty := quantity(frame.Cell(r, ColQuantity))
		if frame.Cell(r, ColEventType).Display() == eventReceipts {
			a.receipts = a.receipts.Add(qty)
		} else {
			a.nonReceipts = a.nonReceipts.Add(qty)
		}

		if m := frame.Cell(r, ColMSKU).Display(); m != "" && !a.seenMSKU[m] {
			a.seenMSKU[m] = true
			a.mskus = append(a.mskus, m)
		}
		if t := frame.Cell(r, ColTitle).Display(); t != "" && !a.seenTitle[t] {
			a.seenTitle[t] = true
			a.titles = append(a.titles, t)
		}
	}

	out := domain.NewFrame([]string{OutASIN, OutNonReceiptsSum, OutReceiptsSum, OutMSKUs, OutTitles})
	for _, asin := range order {
		a := aggs[asin]
		out.AppendRow([]domain.Cell{
			domain.StringCell(asin),
			domain.NumberCell(a.nonReceipts),
			domain.NumberCell(a.receipts),
			domain.StringCell(strings.Join(a.mskus, ", ")),
			domain.StringCell(strings.Join(a.titles, ", ")),
		})
	}
	return out, nil
}

func quantity(c domain.Cell) decimal.Decimal {
	switch c.Kind {
	case domain.CellNumber:
		return c.Num
	case domain.CellString:
		if d, err := decimal.NewFromString(strings.TrimSpace(c.Str)); err == nil {
			return d
		}
	}
	return decimal.Zero
}
