package domain

import "github.com/shopspring/decimal"

// PnLSummary holds the derived profit-and-loss line items for one run, split
// by fulfillment channel where the underlying cost is channel-specific.
// Percentages are fractions of combined order sales (0 when there were no
// sales at all).
type PnLSummary struct {
	FBMSales decimal.Decimal `json:"fbm_sales"`
	FBASales decimal.Decimal `json:"fba_sales"`

	FBMPercentage decimal.Decimal `json:"fbm_percentage"`
	FBAPercentage decimal.Decimal `json:"fba_percentage"`

	FBMReturns decimal.Decimal `json:"fbm_returns"`
	FBAReturns decimal.Decimal `json:"fba_returns"`

	FBMCommissions decimal.Decimal `json:"fbm_commissions"`
	FBACommissions decimal.Decimal `json:"fba_commissions"`

	Advertising                decimal.Decimal `json:"advertising"`
	FBAShipping                decimal.Decimal `json:"fba_shipping"`
	FBAInboundFreight          decimal.Decimal `json:"fba_inbound_freight"`
	ServiceFeesLessAdvertising decimal.Decimal `json:"service_fees_less_advertising"`
	FBMShippingServices        decimal.Decimal `json:"fbm_shipping_services"`
	FBAAdjustments             decimal.Decimal `json:"fba_adjustments"`
	FBAStorageFees             decimal.Decimal `json:"fba_storage_fees"`
	FBAInventoryFeesOther      decimal.Decimal `json:"fba_inventory_fees_other"`
	FBALiquidations            decimal.Decimal `json:"fba_liquidations"`
	SafeTReimbursement         decimal.Decimal `json:"safe_t_reimbursement"`

	FBMPromotionalRebate decimal.Decimal `json:"fbm_promotional_rebate"`
	FBAPromotionalRebate decimal.Decimal `json:"fba_promotional_rebate"`

	// TotalUnaccounted is the grand total of the "total" column minus every
	// value line item above (percentages excluded). A residual bucket so the
	// summary always reconciles with the raw totals.
	TotalUnaccounted decimal.Decimal `json:"total_unaccounted"`
}

// PnLLineItem is one named scalar on its way into the summary sheet.
type PnLLineItem struct {
	Label   string
	Value   decimal.Decimal
	Percent bool
}

// LineItems returns the summary as labelled line items in fixed report order.
// The order is part of the spreadsheet layout contract.
func (p *PnLSummary) LineItems() []PnLLineItem {
	return []PnLLineItem{
		{Label: "FBM Sales", Value: p.FBMSales},
		{Label: "FBA Sales", Value: p.FBASales},
		{Label: "FBM % of Sales", Value: p.FBMPercentage, Percent: true},
		{Label: "FBA % of Sales", Value: p.FBAPercentage, Percent: true},
		{Label: "FBM Returns", Value: p.FBMReturns},
		{Label: "FBA Returns", Value: p.FBAReturns},
		{Label: "FBM Commissions", Value: p.FBMCommissions},
		{Label: "FBA Commissions", Value: p.FBACommissions},
		{Label: "Advertising", Value: p.Advertising},
		{Label: "FBA Shipping", Value: p.FBAShipping},
		{Label: "FBA Inbound Freight", Value: p.FBAInboundFreight},
		{Label: "Service Fees (less Advertising)", Value: p.ServiceFeesLessAdvertising},
		{Label: "FBM Shipping Services", Value: p.FBMShippingServices},
		{Label: "FBA Adjustments", Value: p.FBAAdjustments},
		{Label: "FBA Storage Fees", Value: p.FBAStorageFees},
		{Label: "FBA Inventory Fees (other)", Value: p.FBAInventoryFeesOther},
		{Label: "FBA Liquidations", Value: p.FBALiquidations},
		{Label: "SAFE-T Reimbursement", Value: p.SafeTReimbursement},
		{Label: "FBM Promotional Rebates", Value: p.FBMPromotionalRebate},
		{Label: "FBA Promotional Rebates", Value: p.FBAPromotionalRebate},
		{Label: "Total Unaccounted", Value: p.TotalUnaccounted},
	}
}
