package main

import (
	"net/http"

	"github.com/Simplici0/giftquote/internal/catalog"
)

type catalogProductsResponse struct {
	Products []catalog.Product `json:"products"`
	Branding []catalog.Product `json:"branding"`
}

func (s *server) handleCatalogProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Products(r.Context())
	if err != nil {
		s.fail(w, r, upstream(err))
		return
	}

	regular, branding := catalog.Split(products)
	if regular == nil {
		regular = []catalog.Product{}
	}
	if branding == nil {
		branding = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, catalogProductsResponse{Products: regular, Branding: branding})
}

func (s *server) handleCatalogBundles(w http.ResponseWriter, r *http.Request) {
	bundles, err := s.catalog.Bundles(r.Context())
	if err != nil {
		s.fail(w, r, upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bundles": bundles})
}

func (s *server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Refresh(r.Context()); err != nil {
		s.fail(w, r, upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

type catalogImportRequest struct {
	Products []map[string]any `json:"products"`
	Bundles  []map[string]any `json:"bundles"`
}

type catalogImportResponse struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// handleCatalogImport upserts products and bundles, then reloads the cached
// catalog. Bundles may reference stored products or products in the same
// request. Every record is validated before anything is written.
func (s *server) handleCatalogImport(w http.ResponseWriter, r *http.Request) {
	var req catalogImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	stored, err := s.catalogStore.ListProducts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	byID := make(map[string]catalog.Product, len(stored)+len(req.Products))
	for _, p := range stored {
		byID[p.ID] = p
	}

	products := make([]catalog.Product, 0, len(req.Products))
	for i, raw := range req.Products {
		p, err := catalog.ParseProduct(raw)
		if err != nil {
			s.fail(w, r, badRequest("product %d: %v", i, err))
			return
		}
		products = append(products, p)
		byID[p.ID] = p
	}
	bundles := make([]catalog.Bundle, 0, len(req.Bundles))
	for i, raw := range req.Bundles {
		b, err := catalog.ParseBundle(raw, byID)
		if err != nil {
			s.fail(w, r, badRequest("bundle %d: %v", i, err))
			return
		}
		bundles = append(bundles, b)
	}

	var resp catalogImportResponse
	count := func(created bool) {
		if created {
			resp.Inserted++
		} else {
			resp.Updated++
		}
	}
	for _, p := range products {
		created, err := s.catalogStore.UpsertProduct(r.Context(), p)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		count(created)
	}
	for _, b := range bundles {
		created, err := s.catalogStore.UpsertBundle(r.Context(), b)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		count(created)
	}

	if err := s.catalog.Refresh(r.Context()); err != nil {
		s.fail(w, r, upstream(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
