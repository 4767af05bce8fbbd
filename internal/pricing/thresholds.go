package pricing

// expenseBucket is one step of the budget table. A budget belongs to the
// bucket with the highest min that does not exceed it.
type expenseBucket struct {
	min        float64
	expense    float64
	multiplier float64
}

var expenseTable = []expenseBucket{
	{min: 300, expense: 33, multiplier: 2},
	{min: 250, expense: 29, multiplier: 1.75},
	{min: 200, expense: 25, multiplier: 1.5},
	{min: 150, expense: 21, multiplier: 1.25},
	{min: 90, expense: 16, multiplier: 1},
	{min: 45, expense: 8, multiplier: 0.5},
}

func bucketFor(budgetBeforeVAT float64) expenseBucket {
	budgetBeforeVAT = finite(budgetBeforeVAT)
	if budgetBeforeVAT <= 0 {
		return expenseBucket{}
	}
	for _, b := range expenseTable {
		if budgetBeforeVAT >= b.min {
			return b
		}
	}
	return expenseBucket{}
}

// AdditionalExpenseFor returns the fixed per-package expense for a budget.
func AdditionalExpenseFor(budgetBeforeVAT float64) float64 {
	return bucketFor(budgetBeforeVAT).expense
}

// ExpenseMultiplierFor returns the expense multiplier for a budget. It uses
// the same break points as AdditionalExpenseFor.
func ExpenseMultiplierFor(budgetBeforeVAT float64) float64 {
	return bucketFor(budgetBeforeVAT).multiplier
}
