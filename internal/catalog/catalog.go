package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/giftquote/internal/quote"
)

const defaultProductName = "מוצר ללא שם"

var (
	// ErrMissingID is returned for a product or bundle record without an id.
	ErrMissingID = errors.New("catalog record has no id")
	// ErrInvalidPrice is returned when a price is negative or not a number.
	ErrInvalidPrice = errors.New("catalog record has an invalid price")
)

// brandingTypes mark catalog entries listed under branding and packaging.
var brandingTypes = []string{"אריזה", "מיתוג", "קיטלוג"}

// Product is a validated catalog entry.
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Details        string  `json:"details"`
	Price          float64 `json:"price"`
	ProductType    string  `json:"productType"`
	Inventory      string  `json:"inventory,omitempty"`
	UnitsPerCarton int     `json:"unitsPerCarton"`
}

// Bundle is a predefined set of products and packaging sold as one package.
type Bundle struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Items           []Product `json:"items"`
	PackagingItems  []Product `json:"packagingItems"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	ParallelBundles []string  `json:"parallelBundles,omitempty"`
}

// IsBranding reports whether a product type belongs to the branding and
// packaging section of the catalog.
func IsBranding(productType string) bool {
	t := strings.ToLower(productType)
	for _, b := range brandingTypes {
		if strings.Contains(t, b) {
			return true
		}
	}
	return false
}

// LineItem converts the product to a quote row with the given id and category.
func (p Product) LineItem(id string, category quote.Category) quote.LineItem {
	units := p.UnitsPerCarton
	if units <= 0 {
		units = 1
	}
	return quote.LineItem{
		ID:             id,
		Name:           p.Name,
		Details:        p.Details,
		Price:          p.Price,
		Category:       category,
		ProductType:    p.ProductType,
		UnitsPerCarton: units,
		Inventory:      p.Inventory,
		Editable:       true,
	}
}

// ParseProduct validates a loosely typed catalog record. Recognized keys:
// id, name, details, size, price, productType, inventory, unitsPerCarton.
func ParseProduct(raw map[string]any) (Product, error) {
	id := stringField(raw, "id")
	if id == "" {
		return Product{}, ErrMissingID
	}

	price, err := numberField(raw, "price")
	if err != nil || price < 0 {
		return Product{}, fmt.Errorf("%w: product %s: %v", ErrInvalidPrice, id, raw["price"])
	}

	p := Product{
		ID:          id,
		Name:        stringField(raw, "name"),
		Details:     stringField(raw, "details"),
		Price:       price,
		ProductType: stringField(raw, "productType"),
		Inventory:   stringField(raw, "inventory"),
	}
	if p.Name == "" {
		p.Name = defaultProductName
	}
	if p.Details == "" {
		p.Details = stringField(raw, "size")
	}

	units, err := numberField(raw, "unitsPerCarton")
	if err != nil || units < 1 {
		units = 1
	}
	p.UnitsPerCarton = int(units)

	return p, nil
}

// ParseBundle validates a bundle record whose items, packagingItems and
// parallelBundles fields hold product or bundle ids. Unknown product ids are
// skipped.
func ParseBundle(raw map[string]any, products map[string]Product) (Bundle, error) {
	id := stringField(raw, "id")
	if id == "" {
		return Bundle{}, ErrMissingID
	}

	price, err := numberField(raw, "price")
	if err != nil || price < 0 {
		return Bundle{}, fmt.Errorf("%w: bundle %s: %v", ErrInvalidPrice, id, raw["price"])
	}

	b := Bundle{
		ID:              id,
		Name:            stringField(raw, "name"),
		Price:           price,
		ImageURL:        stringField(raw, "imageUrl"),
		ParallelBundles: stringList(raw, "parallelBundles"),
	}
	for _, pid := range stringList(raw, "items") {
		if p, ok := products[pid]; ok {
			b.Items = append(b.Items, p)
		}
	}
	for _, pid := range stringList(raw, "packagingItems") {
		if p, ok := products[pid]; ok {
			b.PackagingItems = append(b.PackagingItems, p)
		}
	}

	return b, nil
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// numberField returns 0 for a missing or empty value and an error for a
// value that is present but not a finite number.
func numberField(raw map[string]any, key string) (float64, error) {
	var f float64
	switch v := raw[key].(type) {
	case nil:
		return 0, nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

func stringList(raw map[string]any, key string) []string {
	switch v := raw[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
