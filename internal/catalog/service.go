package catalog

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Source is the record store holding catalog data.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListBundles(ctx context.Context) ([]Bundle, error)
}

// Service serves catalog data from a Source through time-boxed caches.
type Service struct {
	source   Source
	products *Cache[[]Product]
	bundles  *Cache[[]Bundle]
}

// NewService wraps source with caches of the given TTL.
func NewService(source Source, ttl time.Duration, now Clock) *Service {
	return &Service{
		source:   source,
		products: NewCache[[]Product](ttl, now),
		bundles:  NewCache[[]Bundle](ttl, now),
	}
}

// Products returns all catalog products.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	products, err := s.products.Get(ctx, s.source.ListProducts)
	if err != nil {
		return nil, fmt.Errorf("load catalog products: %w", err)
	}
	return products, nil
}

// Bundles returns all catalog bundles.
func (s *Service) Bundles(ctx context.Context) ([]Bundle, error) {
	bundles, err := s.bundles.Get(ctx, s.source.ListBundles)
	if err != nil {
		return nil, fmt.Errorf("load catalog bundles: %w", err)
	}
	return bundles, nil
}

// Product looks a product up by id.
func (s *Service) Product(ctx context.Context, id string) (Product, bool, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

// BundleIndex returns all bundles keyed by id.
func (s *Service) BundleIndex(ctx context.Context) (map[string]Bundle, error) {
	bundles, err := s.Bundles(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]Bundle, len(bundles))
	for _, b := range bundles {
		index[b.ID] = b
	}
	return index, nil
}

// Refresh drops both caches and reloads them.
func (s *Service) Refresh(ctx context.Context) error {
	s.products.Invalidate()
	s.bundles.Invalidate()

	products, err := s.Products(ctx)
	if err != nil {
		return err
	}
	bundles, err := s.Bundles(ctx)
	if err != nil {
		return err
	}
	log.Printf("catalog refreshed: %d products, %d bundles", len(products), len(bundles))
	return nil
}

// Split separates regular products from branding and packaging products.
func Split(products []Product) (regular, branding []Product) {
	for _, p := range products {
		if IsBranding(p.ProductType) {
			branding = append(branding, p)
		} else {
			regular = append(regular, p)
		}
	}
	return regular, branding
}
