package pricing

import "github.com/Simplici0/giftquote/internal/quote"

const (
	customerShippingMarkup = 1.1
	// Shipping costs at or above this amount are passed on without markup.
	shippingMarkupWaiver = 600
)

// CustomerShippingBeforeVAT returns the shipping cost charged to the customer.
func CustomerShippingBeforeVAT(cost float64) float64 {
	cost = finite(cost)
	if cost >= shippingMarkupWaiver {
		return cost
	}
	return cost * customerShippingMarkup
}

// AllocateShipping derives the shipping figures for a total cost spread over
// quantity packages.
func AllocateShipping(cost float64, quantity int) quote.ShippingBreakdown {
	cost = finite(cost)
	customer := CustomerShippingBeforeVAT(cost)

	s := quote.ShippingBreakdown{
		CostBeforeVAT:         cost,
		CostWithVAT:           cost * quote.VATRate,
		CustomerCostBeforeVAT: customer,
		CustomerCostWithVAT:   customer * quote.VATRate,
	}
	if quantity > 0 {
		s.PerPackageBeforeVAT = cost / float64(quantity)
		s.CustomerPerPackageBeforeVAT = customer / float64(quantity)
	}
	s.PerPackageWithVAT = s.PerPackageBeforeVAT * quote.VATRate
	s.CustomerPerPackageWithVAT = s.CustomerPerPackageBeforeVAT * quote.VATRate

	return s
}

// BudgetImpact is the per-package shipping charged against the budget.
func BudgetImpact(s quote.ShippingBreakdown, includeShipping bool) float64 {
	if !includeShipping {
		return 0
	}
	return s.CustomerPerPackageBeforeVAT
}
