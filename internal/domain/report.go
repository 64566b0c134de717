package domain

// Transaction type values as they appear in Amazon transaction exports.
const (
	TxnOrder            = "Order"
	TxnRefund           = "Refund"
	TxnAdjustment       = "Adjustment"
	TxnServiceFee       = "Service Fee"
	TxnFBAInventoryFee  = "FBA Inventory Fee"
	TxnLiquidations     = "Liquidations"
	TxnLiquidationsAdj  = "Liquidations Adjustments"
	TxnShippingServices = "Shipping Services"
	TxnSafeT            = "SAFE-T reimbursement"
	TxnTransfer         = "Transfer"
)

// Fulfillment channel values.
const (
	FulfillmentSeller = "Seller"
	FulfillmentAmazon = "Amazon"
	FulfillmentNone   = "none"
)

// Well-known column names.
const (
	ColOrderID            = "order id"
	ColFulfillmentOrderID = "amazon-order-id"
	ColType               = "type"
	ColDescription        = "description"
	ColFulfillment        = "fulfillment"
	ColDateTime           = "date/time"
	ColTotal              = "total"
	ColProductSales       = "product sales"
	ColSellingFees        = "selling fees"
	ColFBAFees            = "fba fees"
	ColPromotionalRebates = "promotional rebates"
)

// Grouped-description values recognised by the P&L derivation.
const (
	DescAdvertising      = "Cost of Advertising"
	DescPartneredCarrier = "FBA Amazon-Partnered Carrier Shipment Fee"
	DescStorageFee       = "FBA storage fee"

	// ItemsDescription replaces per-SKU description noise for item-bearing
	// transaction types before grouping.
	ItemsDescription = "(items)"
)

// DefaultHeaderMarker locates the header row of transaction exports.
const DefaultHeaderMarker = "date/time"

// MonetaryAnchor is the leftmost monetary column. Every column to its right
// is treated as monetary; that positional-plus-name hybrid is a load-bearing
// compatibility contract with the Amazon export layout.
const MonetaryAnchor = ColProductSales

// FulfillmentDateIndex is the position of the date column in the fulfillment
// log, which carries no labelled header to scan for. Positional on purpose;
// changing it breaks compatibility with the log format.
const FulfillmentDateIndex = 2

// MonetaryColumns is the known set of monetary columns, in export order.
var MonetaryColumns = []string{
	"product sales",
	"product sales tax",
	"shipping credits",
	"shipping credits tax",
	"gift wrap credits",
	"giftwrap credits tax",
	"Regulatory Fee",
	"Tax On Regulatory Fee",
	"promotional rebates",
	"promotional rebates tax",
	"marketplace withheld tax",
	"selling fees",
	"fba fees",
	"other transaction fees",
	"other",
	"total",
}

// ItemizedTypes are the transaction types whose description collapses to
// ItemsDescription before grouping.
var ItemizedTypes = map[string]bool{
	TxnOrder:           true,
	TxnLiquidations:    true,
	TxnLiquidationsAdj: true,
	TxnRefund:          true,
}

// IsMonetaryColumn reports membership in MonetaryColumns.
func IsMonetaryColumn(name string) bool {
	for _, c := range MonetaryColumns {
		if c == name {
			return true
		}
	}
	return false
}
