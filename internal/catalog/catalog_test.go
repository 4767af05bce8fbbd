package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/Simplici0/giftquote/internal/quote"
)

func TestParseProductDefaults(t *testing.T) {
	p, err := ParseProduct(map[string]any{
		"id":    "p1",
		"size":  "500ml",
		"price": "abc",
	})
	if err == nil {
		t.Fatalf("expected invalid price error, got product %+v", p)
	}
	if !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	p, err = ParseProduct(map[string]any{
		"id":             "p1",
		"size":           "500ml",
		"unitsPerCarton": 0.0,
	})
	if err != nil {
		t.Fatalf("ParseProduct: %v", err)
	}
	if p.Name != defaultProductName {
		t.Fatalf("expected default name, got %q", p.Name)
	}
	if p.Details != "500ml" {
		t.Fatalf("expected details to fall back to size, got %q", p.Details)
	}
	if p.Price != 0 {
		t.Fatalf("expected missing price to be 0, got %v", p.Price)
	}
	if p.UnitsPerCarton != 1 {
		t.Fatalf("expected units per carton 1, got %d", p.UnitsPerCarton)
	}
}

func TestParseProductRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want error
	}{
		{"missing id", map[string]any{"name": "x"}, ErrMissingID},
		{"negative price", map[string]any{"id": "p", "price": -1.0}, ErrInvalidPrice},
		{"nan price", map[string]any{"id": "p", "price": math.NaN()}, ErrInvalidPrice},
		{"bad type", map[string]any{"id": "p", "price": true}, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseProduct(tc.raw); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseBundleResolvesItems(t *testing.T) {
	products := map[string]Product{
		"p1": {ID: "p1", Name: "Wine", Price: 40},
		"k1": {ID: "k1", Name: "Basket", Price: 12, ProductType: "אריזה"},
	}
	b, err := ParseBundle(map[string]any{
		"id":              "b1",
		"name":            "Holiday",
		"price":           "180",
		"items":           []any{"p1", "missing"},
		"packagingItems":  []any{"k1"},
		"parallelBundles": []any{"b2"},
	}, products)
	if err != nil {
		t.Fatalf("ParseBundle: %v", err)
	}
	if len(b.Items) != 1 || b.Items[0].ID != "p1" {
		t.Fatalf("unexpected items %+v", b.Items)
	}
	if len(b.PackagingItems) != 1 || b.PackagingItems[0].ID != "k1" {
		t.Fatalf("unexpected packaging %+v", b.PackagingItems)
	}
	if b.Price != 180 {
		t.Fatalf("expected price 180, got %v", b.Price)
	}
	if len(b.ParallelBundles) != 1 || b.ParallelBundles[0] != "b2" {
		t.Fatalf("unexpected parallel bundles %v", b.ParallelBundles)
	}
}

func TestIsBranding(t *testing.T) {
	for _, pt := range []string{"אריזה", "מיתוג לוגו", "קיטלוג"} {
		if !IsBranding(pt) {
			t.Fatalf("expected %q to be branding", pt)
		}
	}
	if IsBranding("יין") {
		t.Fatalf("expected regular product type")
	}

	regular, branding := Split([]Product{
		{ID: "a", ProductType: "יין"},
		{ID: "b", ProductType: "אריזה"},
	})
	if len(regular) != 1 || regular[0].ID != "a" || len(branding) != 1 || branding[0].ID != "b" {
		t.Fatalf("unexpected split %v / %v", regular, branding)
	}
}

func TestCacheTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewCache[int](DefaultCacheTTL, clock)

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	ctx := context.Background()
	if v, _ := cache.Get(ctx, load); v != 1 {
		t.Fatalf("expected first load, got %d", v)
	}
	now = now.Add(6 * 24 * time.Hour)
	if v, _ := cache.Get(ctx, load); v != 1 {
		t.Fatalf("expected cached value within ttl, got %d", v)
	}
	if calls != 1 {
		t.Fatalf("expected one load within ttl, got %d", calls)
	}

	now = now.Add(24 * time.Hour)
	if v, _ := cache.Get(ctx, load); v != 2 {
		t.Fatalf("expected reload after ttl, got %d", v)
	}

	cache.Invalidate()
	if v, _ := cache.Get(ctx, load); v != 3 {
		t.Fatalf("expected reload after invalidate, got %d", v)
	}
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewCache[string](time.Hour, nil)
	boom := errors.New("boom")
	if _, err := cache.Get(context.Background(), func(context.Context) (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	v, err := cache.Get(context.Background(), func(context.Context) (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("expected retry to load, got %q %v", v, err)
	}
}

type fakeSource struct {
	products []Product
	bundles  []Bundle
	calls    int
	err      error
}

func (f *fakeSource) ListProducts(context.Context) ([]Product, error) {
	f.calls++
	return f.products, f.err
}

func (f *fakeSource) ListBundles(context.Context) ([]Bundle, error) {
	f.calls++
	return f.bundles, f.err
}

func TestServiceCachesAndRefreshes(t *testing.T) {
	src := &fakeSource{
		products: []Product{{ID: "p1", Name: "Wine"}},
		bundles:  []Bundle{{ID: "b1", Name: "Holiday"}},
	}
	svc := NewService(src, time.Hour, nil)
	ctx := context.Background()

	if _, err := svc.Products(ctx); err != nil {
		t.Fatalf("Products: %v", err)
	}
	p, ok, err := svc.Product(ctx, "p1")
	if err != nil || !ok || p.Name != "Wine" {
		t.Fatalf("Product lookup: %+v %v %v", p, ok, err)
	}
	if _, ok, _ := svc.Product(ctx, "nope"); ok {
		t.Fatalf("expected missing product")
	}
	index, err := svc.BundleIndex(ctx)
	if err != nil || index["b1"].Name != "Holiday" {
		t.Fatalf("BundleIndex: %v %v", index, err)
	}
	if src.calls != 2 {
		t.Fatalf("expected one load per cache, got %d", src.calls)
	}

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if src.calls != 4 {
		t.Fatalf("expected refresh to reload both caches, got %d", src.calls)
	}

	src.err = errors.New("down")
	svc.products.Invalidate()
	if _, err := svc.Products(ctx); err == nil {
		t.Fatalf("expected error from source")
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("row-%d", n)
	}
}

func TestDropBundle(t *testing.T) {
	holiday := Bundle{
		ID:              "b1",
		Name:            "Holiday",
		Price:           180,
		Items:           []Product{{ID: "p1", Name: "Wine", Price: 40}, {ID: "p2", Name: "Honey", Price: 20}},
		PackagingItems:  []Product{{ID: "k1", Name: "Basket", Price: 12, ProductType: "אריזה"}},
		ParallelBundles: []string{"b2", "unknown"},
	}
	parallel := Bundle{
		ID:    "b2",
		Name:  "Premium",
		Price: 250,
		Items: []Product{{ID: "p3", Name: "Cheese", Price: 60}},
	}
	lookup := func(id string) (Bundle, bool) {
		if id == parallel.ID {
			return parallel, true
		}
		return Bundle{}, false
	}

	opts := []quote.Option{{ID: "A", Title: "אופציה A"}}
	out := DropBundle(opts, "A", holiday, lookup, sequentialIDs())

	if len(out) != 2 {
		t.Fatalf("expected parallel option to be added, got %d options", len(out))
	}
	first := out[0]
	if first.Title != "Holiday" || first.Total != 180 {
		t.Fatalf("unexpected first option %+v", first)
	}
	if len(first.Items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(first.Items))
	}
	if first.Items[0].Category != quote.CategoryProduct || first.Items[1].Category != quote.CategoryProduct || first.Items[2].Category != quote.CategoryPackaging {
		t.Fatalf("expected products before packaging, got %+v", first.Items)
	}
	if first.Items[0].ID != "row-1" || first.Items[2].ID != "row-3" {
		t.Fatalf("expected fresh row ids, got %+v", first.Items)
	}

	second := out[1]
	if second.ID != "B" || second.Title != "אופציה B - Premium" {
		t.Fatalf("unexpected parallel option %+v", second)
	}
	if len(opts[0].Items) != 0 {
		t.Fatalf("input options were mutated")
	}

	same := DropBundle(opts, "Z", holiday, lookup, sequentialIDs())
	if len(same) != 1 || len(same[0].Items) != 0 {
		t.Fatalf("expected unknown target to leave options unchanged")
	}
}

func TestDropProduct(t *testing.T) {
	opts := []quote.Option{{ID: "A"}}
	p := Product{ID: "p1", Name: "Wine", Price: 40, UnitsPerCarton: 0}

	out := DropProduct(opts, "A", p, "", sequentialIDs())
	if len(out[0].Items) != 1 {
		t.Fatalf("expected one row, got %d", len(out[0].Items))
	}
	row := out[0].Items[0]
	if row.Category != quote.CategoryProduct || row.UnitsPerCarton != 1 || !row.Editable {
		t.Fatalf("unexpected row %+v", row)
	}

	out = DropProduct(out, "A", Product{ID: "k1", Name: "Box"}, quote.CategoryPackaging, sequentialIDs())
	if !out[0].Items[1].IsPackaging() {
		t.Fatalf("expected packaging row, got %+v", out[0].Items[1])
	}
}
