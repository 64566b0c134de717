// Package reconcile classifies combined transactions against the fulfillment
// log: an Order-type transaction whose order id appears in the log is matched,
// everything else is unmatched.
package reconcile

import (
	"log"

	"github.com/sellerledger/reconciler/internal/domain"
)

// PartitionOptions names the columns and transaction types driving the match.
type PartitionOptions struct {
	OrderIDColumn       string
	FulfillmentIDColumn string
	TypeColumn          string
	ValidTypes          map[string]bool
}

// DefaultPartitionOptions returns the Amazon report column contract.
func DefaultPartitionOptions() PartitionOptions {
	return PartitionOptions{
		OrderIDColumn:       domain.ColOrderID,
		FulfillmentIDColumn: domain.ColFulfillmentOrderID,
		TypeColumn:          domain.ColType,
		ValidTypes:          map[string]bool{domain.TxnOrder: true},
	}
}

// Partition splits combined into (matched, unmatched) by set membership of
// the order id in the fulfillment log, conjoined with type membership in
// ValidTypes. The partition is exhaustive and disjoint, and both subsets keep
// the input row order. Returns *domain.MissingColumnError when a required
// column is absent from its frame; that aborts downstream aggregation.
func Partition(combined, fulfillment *domain.Frame, opts PartitionOptions) (matched, unmatched *domain.Frame, err error) {
	def := DefaultPartitionOptions()
	if opts.OrderIDColumn == "" {
		opts.OrderIDColumn = def.OrderIDColumn
	}
	if opts.FulfillmentIDColumn == "" {
		opts.FulfillmentIDColumn = def.FulfillmentIDColumn
	}
	if opts.TypeColumn == "" {
		opts.TypeColumn = def.TypeColumn
	}
	if opts.ValidTypes == nil {
		opts.ValidTypes = def.ValidTypes
	}

	if !combined.HasColumn(opts.OrderIDColumn) {
		return nil, nil, &domain.MissingColumnError{Column: opts.OrderIDColumn, Frame: "combined transactions"}
	}
	if !combined.HasColumn(opts.TypeColumn) {
		return nil, nil, &domain.MissingColumnError{Column: opts.TypeColumn, Frame: "combined transactions"}
	}
	if !fulfillment.HasColumn(opts.FulfillmentIDColumn) {
		return nil, nil, &domain.MissingColumnError{Column: opts.FulfillmentIDColumn, Frame: "fulfillment report"}
	}

	// Build the fulfillment id set once; membership checks are then O(1).
	ids := make(map[string]struct{}, fulfillment.Rows())
	for r := 0; r < fulfillment.Rows(); r++ {
		if c := fulfillment.Cell(r, opts.FulfillmentIDColumn); c.Kind == domain.CellString {
			ids[c.Str] = struct{}{}
		}
	}

	isMatch := func(row int) bool {
		typ := combined.Cell(row, opts.TypeColumn)
		if typ.Kind != domain.CellString || !opts.ValidTypes[typ.Str] {
			return false
		}
		id := combined.Cell(row, opts.OrderIDColumn)
		if id.Kind != domain.CellString {
			return false
		}
		_, ok := ids[id.Str]
		return ok
	}

	matched = combined.FilterRows(isMatch)
	unmatched = combined.FilterRows(func(row int) bool { return !isMatch(row) })

	log.Printf("[reconcile] Partitioned %d transactions: %d matched, %d unmatched (%d fulfillment ids)",
		combined.Rows(), matched.Rows(), unmatched.Rows(), len(ids))

	return matched, unmatched, nil
}
