package billing

import "math"

// TaxRate applies to the pre-discount subtotal.
const TaxRate = 0.10

type Totals struct {
	PreDiscountSubtotal float64 `json:"preDiscountSubtotal"`
	Tax                 float64 `json:"tax"`
	Discount            float64 `json:"discount"`
	Subtotal            float64 `json:"subtotal"`
	Total               float64 `json:"total"`
}

// ComputeTotals aggregates lines. Tax is charged on the sum of non-discount
// lines, so a discount lowers the subtotal but never the tax.
func ComputeTotals(lines []LineItem) Totals {
	var t Totals
	for _, it := range lines {
		if it.Source == SourceDiscount {
			t.Discount += math.Abs(it.Amount)
			t.Subtotal -= math.Abs(it.Amount)
			continue
		}
		t.PreDiscountSubtotal += it.Amount
		t.Subtotal += it.Amount
	}
	t.Tax = t.PreDiscountSubtotal * TaxRate
	t.Total = t.Subtotal + t.Tax
	return t
}
