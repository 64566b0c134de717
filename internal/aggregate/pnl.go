package aggregate

import (
	"log"

	"github.com/shopspring/decimal"

	"github.com/sellerledger/reconciler/internal/domain"
)

// GroupKeys is the key tuple the P&L derivation expects the grouped frame to
// carry, in order.
var GroupKeys = []string{domain.ColType, domain.ColDescription, domain.ColFulfillment}

// DerivePnL computes the named P&L line items from a frame already grouped by
// GroupKeys. Missing rows are soft: a metric with no contributing group is
// zero. The inbound-freight, storage-fee, liquidations and SAFE-T lookups
// deliberately take the first matching grouped row only; the grouping is
// assumed to yield at most one row for those keys, and a second row would be
// dropped, not summed.
func DerivePnL(grouped *domain.Frame) (*domain.PnLSummary, error) {
	if !grouped.HasColumn(domain.ColType) {
		return nil, &domain.MissingColumnError{Column: domain.ColType, Frame: "grouped transactions"}
	}

	typ := func(r int) string { return cellText(grouped.Cell(r, domain.ColType)) }
	desc := func(r int) string { return cellText(grouped.Cell(r, domain.ColDescription)) }
	channel := func(r int) string { return cellText(grouped.Cell(r, domain.ColFulfillment)) }

	sum := func(col string, pred func(r int) bool) decimal.Decimal {
		total := decimal.Zero
		for r := 0; r < grouped.Rows(); r++ {
			if pred(r) {
				total = total.Add(numericValue(grouped.Cell(r, col)))
			}
		}
		return total
	}
	first := func(col string, pred func(r int) bool) decimal.Decimal {
		for r := 0; r < grouped.Rows(); r++ {
			if pred(r) {
				return numericValue(grouped.Cell(r, col))
			}
		}
		return decimal.Zero
	}
	all := func(int) bool { return true }

	p := &domain.PnLSummary{}

	p.FBMSales = sum(domain.ColProductSales, func(r int) bool {
		return typ(r) == domain.TxnOrder && channel(r) == domain.FulfillmentSeller
	})
	p.FBASales = sum(domain.ColProductSales, func(r int) bool {
		return typ(r) == domain.TxnOrder && channel(r) == domain.FulfillmentAmazon
	})

	totalSales := p.FBMSales.Add(p.FBASales)
	if !totalSales.IsZero() {
		p.FBMPercentage = p.FBMSales.DivRound(totalSales, 6)
		p.FBAPercentage = p.FBASales.DivRound(totalSales, 6)
	}

	p.FBMReturns = sum(domain.ColProductSales, func(r int) bool {
		return typ(r) == domain.TxnRefund && channel(r) == domain.FulfillmentSeller
	})
	p.FBAReturns = sum(domain.ColProductSales, func(r int) bool {
		return typ(r) == domain.TxnRefund && channel(r) == domain.FulfillmentAmazon
	})

	p.FBMCommissions = sum(domain.ColSellingFees, func(r int) bool {
		return channel(r) == domain.FulfillmentSeller
	})
	p.FBACommissions = sum(domain.ColSellingFees, func(r int) bool {
		return channel(r) == domain.FulfillmentAmazon
	})

	p.Advertising = sum(domain.ColTotal, func(r int) bool {
		return desc(r) == domain.DescAdvertising
	})

	p.FBAShipping = sum(domain.ColFBAFees, all)

	p.FBAInboundFreight = first(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnFBAInventoryFee && desc(r) == domain.DescPartneredCarrier
	})

	p.ServiceFeesLessAdvertising = sum(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnServiceFee
	}).Sub(p.Advertising)

	p.FBMShippingServices = sum(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnShippingServices
	})

	p.FBAAdjustments = sum(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnAdjustment
	})

	p.FBAStorageFees = first(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnFBAInventoryFee && desc(r) == domain.DescStorageFee
	})

	p.FBAInventoryFeesOther = sum(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnFBAInventoryFee
	}).Sub(p.FBAStorageFees).Sub(p.FBAInboundFreight)

	p.FBALiquidations = first(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnLiquidations || typ(r) == domain.TxnLiquidationsAdj
	})

	p.SafeTReimbursement = first(domain.ColTotal, func(r int) bool {
		return typ(r) == domain.TxnSafeT
	})

	p.FBMPromotionalRebate = sum(domain.ColPromotionalRebates, func(r int) bool {
		return channel(r) == domain.FulfillmentSeller
	})
	p.FBAPromotionalRebate = sum(domain.ColPromotionalRebates, func(r int) bool {
		return channel(r) == domain.FulfillmentAmazon
	})

	grandTotal := sum(domain.ColTotal, all)
	accounted := decimal.Sum(
		p.FBMSales, p.FBASales,
		p.FBMReturns, p.FBAReturns,
		p.FBMCommissions, p.FBACommissions,
		p.Advertising,
		p.FBAShipping,
		p.FBAInboundFreight,
		p.ServiceFeesLessAdvertising,
		p.FBMShippingServices,
		p.FBAAdjustments,
		p.FBAStorageFees,
		p.FBAInventoryFeesOther,
		p.FBALiquidations,
		p.SafeTReimbursement,
		p.FBMPromotionalRebate, p.FBAPromotionalRebate,
	)
	p.TotalUnaccounted = grandTotal.Sub(accounted)

	log.Printf("[aggregate] P&L derived: sales fbm=%s fba=%s, unaccounted=%s",
		p.FBMSales, p.FBASales, p.TotalUnaccounted)

	return p, nil
}
