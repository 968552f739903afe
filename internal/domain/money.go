package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineAmounts holds the derived amounts for a single line item.
type LineAmounts struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Net      decimal.Decimal `json:"net"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeLine derives the amounts for one line item, in fixed order:
// subtotal, discount off subtotal, net, tax on net, total.
// It never validates; negative inputs yield negative amounts and the
// caller decides whether to reject them.
func ComputeLine(item LineItem) LineAmounts {
	subtotal := item.Quantity.Mul(item.UnitPrice)
	discount := subtotal.Mul(item.DiscountPercent.Div(hundred))
	net := subtotal.Sub(discount)
	tax := net.Mul(item.TaxRatePercent.Div(hundred))

	return LineAmounts{
		Subtotal: subtotal,
		Discount: discount,
		Net:      net,
		Tax:      tax,
		Total:    net.Add(tax),
	}
}

// Totals aggregates a document's cached amounts.
// TotalAmount is net of discount and excludes tax; the customer-facing
// grand total is TotalAmount + TotalTax.
type Totals struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
}

// GrandTotal returns the display total including tax
func (t Totals) GrandTotal() decimal.Decimal {
	return t.TotalAmount.Add(t.TotalTax)
}

// ComputeTotals aggregates line amounts over all items.
// An empty list yields zero totals.
func ComputeTotals(items []LineItem) Totals {
	var totals Totals
	for _, item := range items {
		amounts := ComputeLine(item)
		totals.TotalAmount = totals.TotalAmount.Add(amounts.Net)
		totals.TotalTax = totals.TotalTax.Add(amounts.Tax)
		totals.TotalDiscount = totals.TotalDiscount.Add(amounts.Discount)
	}
	return totals
}
