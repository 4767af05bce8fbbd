package pricing

import (
	"math"

	"github.com/Simplici0/giftquote/internal/quote"
)

// ComputeOption derives every financial figure of an option from its own
// rows and shipping override plus the quote context. The previous derived
// block of opt is ignored and replaced.
func ComputeOption(opt quote.Option, qc quote.Context) quote.Option {
	budget := finite(qc.BudgetBeforeVAT)
	quantity := qc.Quantity()
	items := []quote.LineItem(opt.Items)

	shippingCost := finite(qc.Shipping.Cost)
	if opt.Shipping.Cost != nil {
		shippingCost = finite(*opt.Shipping.Cost)
	}
	includeShipping := qc.Shipping.IncludeShipping
	if opt.Shipping.IncludeShipping != nil {
		includeShipping = *opt.Shipping.IncludeShipping
	}

	costs := AggregateCosts(items)
	additionalExpenses := AdditionalExpenseFor(budget)

	// The breakdown always comes from the quote-level cost; the override only
	// feeds EffectiveShippingCost and the include flag.
	shipping := AllocateShipping(qc.Shipping.Cost, quantity)
	shippingImpact := BudgetImpact(shipping, includeShipping)

	targetProfit := budget * finite(qc.ProfitTarget) / 100
	commission := budget * finite(qc.AgentCommission) / 100
	availableBudget := budget - targetProfit - commission

	remaining := availableBudget - costs.PackagingItemsCost - costs.PackagingWorkCost - additionalExpenses - shippingImpact
	actualProfit := budget - shippingImpact - costs.ProductCost - additionalExpenses - costs.PackagingItemsCost - costs.PackagingWorkCost - commission

	actualProfitPct := 0.0
	if budget > 0 {
		actualProfitPct = actualProfit / budget * 100
	}

	total := finite(opt.Total)

	opt.Financials = quote.Financials{
		ItemCount:                    costs.ItemCount,
		ProductCost:                  costs.ProductCost,
		PackagingItemsCost:           costs.PackagingItemsCost,
		PackagingWorkCost:            costs.PackagingWorkCost,
		AdditionalExpenses:           additionalExpenses,
		AdditionalExpensesMultiplier: ExpenseMultiplierFor(budget),
		PackagingType:                PackagingType(items),
		EffectiveShippingCost:        shippingCost,
		EffectiveIncludeShipping:     includeShipping,
		Shipping:                     shipping,
		ShippingBudgetImpact:         shippingImpact,
		TargetProfitAmount:           targetProfit,
		AgentCommissionAmount:        commission,
		AvailableBudget:              availableBudget,
		RemainingBudgetForProducts:   remaining,
		AvailableBudgetForProducts:   remaining - costs.ProductCost,
		ActualProfit:                 actualProfit,
		ActualProfitPercentage:       actualProfitPct,
		TotalProfit:                  actualProfit * float64(quantity),
		TotalPaymentBeforeVAT:        total * float64(quantity),
		TotalPaymentWithVAT:          total * quote.VATRate * float64(quantity),
		DeliveryBoxes:                DeliveryBoxesFor(items, quantity),
	}
	return opt
}

// ComputeAll recomputes every option against the same context. Options do
// not depend on each other, so the order of evaluation is irrelevant.
func ComputeAll(opts []quote.Option, qc quote.Context) []quote.Option {
	out := make([]quote.Option, len(opts))
	for i, opt := range opts {
		out[i] = ComputeOption(opt, qc)
	}
	return out
}

// DeliveryEstimate is the quote-level carton count, taken from the first
// option's rows. It can differ from the per-option counts once options diverge.
func DeliveryEstimate(opts []quote.Option, qc quote.Context) int {
	if len(opts) == 0 {
		return 0
	}
	return DeliveryBoxesFor(opts[0].Items, qc.Quantity())
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
