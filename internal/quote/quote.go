package quote

import (
	"math"
	"time"
)

// VATRate is the fixed multiplier applied to every VAT-exclusive figure.
const VATRate = 1.18

// DefaultProfitTarget is the profit target percentage a new quote starts with.
const DefaultProfitTarget = 36

// Category separates bundle contents from the packaging they ship in.
type Category string

const (
	CategoryProduct   Category = "product"
	CategoryPackaging Category = "packaging"
)

// LineItem is one priced or informational row inside an option.
type LineItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Details        string   `json:"details"`
	Price          float64  `json:"price"`
	Category       Category `json:"category"`
	ProductType    string   `json:"productType"`
	UnitsPerCarton int      `json:"unitsPerCarton"`
	Inventory      string   `json:"inventory,omitempty"`
	Comment        string   `json:"comment,omitempty"`
	Editable       bool     `json:"editable"`
	Custom         bool     `json:"custom,omitempty"`
	Note           bool     `json:"note,omitempty"`
}

// IsPackaging reports whether the row belongs to the packaging category.
// Every other tag counts as a product row.
func (li LineItem) IsPackaging() bool {
	return li.Category == CategoryPackaging
}

// ShippingDefaults are the quote-level shipping inputs shared by every option.
type ShippingDefaults struct {
	Cost            float64 `json:"cost"`
	IncludeShipping bool    `json:"includeShipping"`
}

// ShippingOverride holds the per-option shipping fields. A nil pointer means
// the option inherits the quote-level value.
type ShippingOverride struct {
	Cost            *float64 `json:"cost,omitempty"`
	IncludeShipping *bool    `json:"includeShipping,omitempty"`
	DeliveryCompany string   `json:"deliveryCompany,omitempty"`
	DeliveryBoxes   *int     `json:"deliveryBoxes,omitempty"`
	DeliveryAddress string   `json:"deliveryAddress,omitempty"`
}

// ShippingBreakdown contains the shipping figures derived from the quote-level
// shipping cost and package quantity.
type ShippingBreakdown struct {
	CostBeforeVAT               float64 `json:"shippingCostBeforeVAT"`
	CostWithVAT                 float64 `json:"shippingCostWithVAT"`
	PerPackageBeforeVAT         float64 `json:"shippingCostPerPackageBeforeVAT"`
	PerPackageWithVAT           float64 `json:"shippingCostPerPackageWithVAT"`
	CustomerCostBeforeVAT       float64 `json:"customerShippingCostBeforeVAT"`
	CustomerCostWithVAT         float64 `json:"customerShippingCostWithVAT"`
	CustomerPerPackageBeforeVAT float64 `json:"customerShippingCostPerPackageBeforeVAT"`
	CustomerPerPackageWithVAT   float64 `json:"customerShippingCostPerPackageWithVAT"`
}

// Financials is the derived block of an option. It is only ever written by
// the pricing engine.
type Financials struct {
	ItemCount                    int               `json:"itemCount"`
	ProductCost                  float64           `json:"productsCost"`
	PackagingItemsCost           float64           `json:"packagingItemsCost"`
	PackagingWorkCost            float64           `json:"packagingWorkCost"`
	AdditionalExpenses           float64           `json:"additionalExpenses"`
	AdditionalExpensesMultiplier float64           `json:"additionalExpensesMultiplier"`
	PackagingType                string            `json:"packagingType"`
	EffectiveShippingCost        float64           `json:"effectiveShippingCost"`
	EffectiveIncludeShipping     bool              `json:"effectiveIncludeShipping"`
	Shipping                     ShippingBreakdown `json:"shipping"`
	ShippingBudgetImpact         float64           `json:"shippingBudgetImpact"`
	TargetProfitAmount           float64           `json:"targetProfitAmount"`
	AgentCommissionAmount        float64           `json:"agentCommissionAmount"`
	AvailableBudget              float64           `json:"availableBudget"`
	RemainingBudgetForProducts   float64           `json:"remainingBudgetForProducts"`
	AvailableBudgetForProducts   float64           `json:"availableBudgetForProducts"`
	ActualProfit                 float64           `json:"actualProfit"`
	ActualProfitPercentage       float64           `json:"actualProfitPercentage"`
	TotalProfit                  float64           `json:"totalProfit"`
	TotalPaymentBeforeVAT        float64           `json:"totalPaymentBeforeVAT"`
	TotalPaymentWithVAT          float64           `json:"totalPaymentWithVAT"`
	DeliveryBoxes                int               `json:"calculatedDeliveryBoxesCount"`
}

// Option is one proposed bundle inside a quote.
type Option struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Items      Items            `json:"items"`
	Total      float64          `json:"total"`
	ImageURL   string           `json:"imageUrl,omitempty"`
	Terms      string           `json:"terms,omitempty"`
	Shipping   ShippingOverride `json:"shipping"`
	Irrelevant bool             `json:"irrelevant"`
	Collapsed  bool             `json:"collapsed"`
	Financials Financials       `json:"financials"`
}

// Context carries the quote-level inputs shared by all options.
type Context struct {
	BudgetBeforeVAT float64          `json:"budgetBeforeVAT"`
	BudgetWithVAT   float64          `json:"budgetWithVAT"`
	PackageQuantity *int             `json:"packageQuantity"`
	ProfitTarget    float64          `json:"profitTarget"`
	AgentCommission float64          `json:"agentCommission"`
	Agent           string           `json:"agent,omitempty"`
	Shipping        ShippingDefaults `json:"shipping"`
}

// NewContext returns a context with the default profit target.
func NewContext() Context {
	return Context{ProfitTarget: DefaultProfitTarget}
}

// Quantity returns the package quantity, treating nil and negative as 0.
func (c Context) Quantity() int {
	if c.PackageQuantity == nil || *c.PackageQuantity < 0 {
		return 0
	}
	return *c.PackageQuantity
}

// WithBudgetBeforeVAT sets the VAT-exclusive budget and derives the inclusive one.
func (c Context) WithBudgetBeforeVAT(v float64) Context {
	c.BudgetBeforeVAT = Round2(v)
	c.BudgetWithVAT = 0
	if c.BudgetBeforeVAT != 0 {
		c.BudgetWithVAT = Round2(c.BudgetBeforeVAT * VATRate)
	}
	return c
}

// WithBudgetWithVAT sets the VAT-inclusive budget and derives the exclusive one.
func (c Context) WithBudgetWithVAT(v float64) Context {
	c.BudgetWithVAT = Round2(v)
	c.BudgetBeforeVAT = 0
	if c.BudgetWithVAT != 0 {
		c.BudgetBeforeVAT = Round2(c.BudgetWithVAT / VATRate)
	}
	return c
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Customer identifies who the quote is addressed to.
type Customer struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Quote is the persisted record that the options and context belong to.
type Quote struct {
	ID               string    `json:"id"`
	Number           int       `json:"number"`
	Customer         Customer  `json:"customer"`
	Notes            string    `json:"notes,omitempty"`
	DeliveryDate     string    `json:"deliveryDate,omitempty"`
	Status           Status    `json:"status"`
	Context          Context   `json:"context"`
	Options          []Option  `json:"options"`
	ManagerNotes     string    `json:"managerNotes,omitempty"`
	ApprovedOptionID string    `json:"approvedOptionId,omitempty"`
	SignerName       string    `json:"signerName,omitempty"`
	SignatureKey     string    `json:"signatureKey,omitempty"`
	PDFKey           string    `json:"pdfKey,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Option returns the option with the given id.
func (q Quote) Option(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
