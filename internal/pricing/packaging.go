package pricing

import (
	"strings"

	"github.com/Simplici0/giftquote/internal/quote"
)

// ContainerProductType is the catalog product type of a packaging container.
const ContainerProductType = "אריזה"

// containerKeywords are name fragments for basket, box, bundle and crate.
var containerKeywords = []string{"סלסל", "קופס", "מארז", "ארגז"}

// FindPrimaryPackaging returns the packaging row that is the physical
// container of the bundle. A declared container product type wins over a
// name match.
func FindPrimaryPackaging(items []quote.LineItem) (quote.LineItem, bool) {
	for _, item := range items {
		if item.IsPackaging() && strings.EqualFold(item.ProductType, ContainerProductType) {
			return item, true
		}
	}

	for _, item := range items {
		if !item.IsPackaging() || item.Name == "" {
			continue
		}
		name := strings.ToLower(item.Name)
		for _, kw := range containerKeywords {
			if strings.Contains(name, kw) {
				return item, true
			}
		}
	}

	return quote.LineItem{}, false
}

// PackagingType returns the display name of the row declared as container,
// or an empty string. Name matches are not considered here.
func PackagingType(items []quote.LineItem) string {
	for _, item := range items {
		if item.IsPackaging() && strings.EqualFold(item.ProductType, ContainerProductType) {
			return item.Name
		}
	}
	return ""
}

// DeliveryBoxesFor returns how many shipping cartons quantity packages need.
// Without a container every package counts as its own carton.
func DeliveryBoxesFor(items []quote.LineItem, quantity int) int {
	if quantity <= 0 {
		return 0
	}

	container, ok := FindPrimaryPackaging(items)
	if !ok {
		return quantity
	}

	perCarton := container.UnitsPerCarton
	if perCarton <= 0 {
		perCarton = 1
	}
	return (quantity + perCarton - 1) / perCarton
}
