package catalog

import (
	"fmt"

	"github.com/Simplici0/giftquote/internal/quote"
)

// DropBundle fills the target option with the bundle's rows, products first
// and packaging after. Each parallel bundle found through lookup is appended
// as a new option. Unknown target ids leave opts unchanged.
func DropBundle(opts []quote.Option, targetID string, b Bundle, lookup func(id string) (Bundle, bool), newID func() string) []quote.Option {
	out, found := quote.UpdateOption(opts, targetID, func(opt quote.Option) quote.Option {
		opt.Title = b.Name
		opt.Items = bundleItems(b, newID)
		opt.Total = b.Price
		opt.ImageURL = b.ImageURL
		return opt
	})
	if !found {
		return out
	}

	for _, pid := range b.ParallelBundles {
		parallel, ok := lookup(pid)
		if !ok {
			continue
		}
		letter := quote.NextOptionID(out)
		out = append(out, quote.Option{
			ID:       letter,
			Title:    fmt.Sprintf("אופציה %s - %s", letter, parallel.Name),
			Items:    bundleItems(parallel, newID),
			Total:    parallel.Price,
			ImageURL: parallel.ImageURL,
		})
	}
	return out
}

// DropProduct appends a single product row with the given category to the
// target option.
func DropProduct(opts []quote.Option, targetID string, p Product, category quote.Category, newID func() string) []quote.Option {
	if category != quote.CategoryPackaging {
		category = quote.CategoryProduct
	}
	out, _ := quote.UpdateOption(opts, targetID, func(opt quote.Option) quote.Option {
		opt.Items = opt.Items.Append(p.LineItem(newID(), category))
		return opt
	})
	return out
}

func bundleItems(b Bundle, newID func() string) quote.Items {
	items := make(quote.Items, 0, len(b.Items)+len(b.PackagingItems))
	for _, p := range b.Items {
		items = append(items, p.LineItem(newID(), quote.CategoryProduct))
	}
	for _, p := range b.PackagingItems {
		items = append(items, p.LineItem(newID(), quote.CategoryPackaging))
	}
	return items
}
