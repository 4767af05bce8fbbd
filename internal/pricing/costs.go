package pricing

import (
	"strings"

	"github.com/Simplici0/giftquote/internal/quote"
)

// boxKeyword marks a packaging row as a box, which costs more labor to pack.
const boxKeyword = "קופסת"

const (
	laborPerItem     = 0.5
	laborBaseDefault = 1
	laborBaseBox     = 2
)

// Costs groups the per-package sums of an option's rows.
type Costs struct {
	ProductCost        float64
	PackagingItemsCost float64
	PackagingWorkCost  float64
	ItemCount          int
}

// AggregateCosts splits rows into products and packaging and sums each side.
// Packaging rows never count toward ItemCount.
func AggregateCosts(items []quote.LineItem) Costs {
	var c Costs
	hasBox := false

	for _, item := range items {
		price := finite(item.Price)
		if item.IsPackaging() {
			c.PackagingItemsCost += price
			if strings.Contains(strings.ToLower(item.Name), boxKeyword) {
				hasBox = true
			}
			continue
		}
		c.ProductCost += price
		c.ItemCount++
	}

	base := float64(laborBaseDefault)
	if hasBox {
		base = laborBaseBox
	}
	c.PackagingWorkCost = float64(c.ItemCount)*laborPerItem + base

	return c
}
