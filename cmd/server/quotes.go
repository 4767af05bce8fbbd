package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/giftquote/internal/catalog"
	"github.com/Simplici0/giftquote/internal/pricing"
	"github.com/Simplici0/giftquote/internal/quote"
	"github.com/Simplici0/giftquote/internal/store"
)

// contextRequest is a partial update of the quote context. Absent fields keep
// their current value. When both budgets are sent the pre-VAT one wins.
type contextRequest struct {
	BudgetBeforeVAT *float64                `json:"budgetBeforeVAT"`
	BudgetWithVAT   *float64                `json:"budgetWithVAT"`
	PackageQuantity *int                    `json:"packageQuantity"`
	ProfitTarget    *float64                `json:"profitTarget"`
	AgentCommission *float64                `json:"agentCommission"`
	Agent           *string                 `json:"agent"`
	Shipping        *quote.ShippingDefaults `json:"shipping"`
}

type quoteRequest struct {
	Customer     *quote.Customer `json:"customer"`
	Notes        *string         `json:"notes"`
	DeliveryDate *string         `json:"deliveryDate"`
	Context      *contextRequest `json:"context"`
	Options      *[]quote.Option `json:"options"`
}

type quoteResponse struct {
	quote.Quote
	DeliveryEstimate int `json:"deliveryEstimate"`
}

type computeResponse struct {
	Context          quote.Context  `json:"context"`
	Options          []quote.Option `json:"options"`
	DeliveryEstimate int            `json:"deliveryEstimate"`
}

type dropRequest struct {
	BundleID  string         `json:"bundleId"`
	ProductID string         `json:"productId"`
	Category  quote.Category `json:"category"`
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return badRequest("%s must be a number greater than or equal to 0", field)
	}
	return nil
}

func percent(field string, v float64) error {
	if err := nonNegative(field, v); err != nil {
		return err
	}
	if v > 100 {
		return badRequest("%s must be between 0 and 100", field)
	}
	return nil
}

func (c contextRequest) apply(qc quote.Context) (quote.Context, error) {
	switch {
	case c.BudgetBeforeVAT != nil:
		if err := nonNegative("budgetBeforeVAT", *c.BudgetBeforeVAT); err != nil {
			return qc, err
		}
		qc = qc.WithBudgetBeforeVAT(*c.BudgetBeforeVAT)
	case c.BudgetWithVAT != nil:
		if err := nonNegative("budgetWithVAT", *c.BudgetWithVAT); err != nil {
			return qc, err
		}
		qc = qc.WithBudgetWithVAT(*c.BudgetWithVAT)
	}

	if c.PackageQuantity != nil {
		if *c.PackageQuantity < 0 {
			return qc, badRequest("packageQuantity must be greater than or equal to 0")
		}
		n := *c.PackageQuantity
		qc.PackageQuantity = &n
	}
	if c.ProfitTarget != nil {
		if err := percent("profitTarget", *c.ProfitTarget); err != nil {
			return qc, err
		}
		qc.ProfitTarget = *c.ProfitTarget
	}
	if c.AgentCommission != nil {
		if err := percent("agentCommission", *c.AgentCommission); err != nil {
			return qc, err
		}
		qc.AgentCommission = *c.AgentCommission
	}
	if c.Agent != nil {
		qc.Agent = strings.TrimSpace(*c.Agent)
	}
	if c.Shipping != nil {
		if err := nonNegative("shipping.cost", c.Shipping.Cost); err != nil {
			return qc, err
		}
		qc.Shipping = *c.Shipping
	}
	return qc, nil
}

func validateOptions(opts []quote.Option) error {
	seen := make(map[string]bool, len(opts))
	for _, opt := range opts {
		if strings.TrimSpace(opt.ID) == "" {
			return badRequest("option id is required")
		}
		if seen[opt.ID] {
			return badRequest("duplicate option id %q", opt.ID)
		}
		seen[opt.ID] = true

		if opt.Shipping.Cost != nil {
			if err := nonNegative("shipping.cost", *opt.Shipping.Cost); err != nil {
				return err
			}
		}
		for _, item := range opt.Items {
			if item.Category != quote.CategoryProduct && item.Category != quote.CategoryPackaging {
				return badRequest("item %q: category must be %q or %q", item.Name, quote.CategoryProduct, quote.CategoryPackaging)
			}
			if err := nonNegative("price", item.Price); err != nil {
				return badRequest("item %q: price must be a number greater than or equal to 0", item.Name)
			}
		}
	}
	return nil
}

// keepCategories copies next and restores the category of every row whose id
// already exists in current. A row's category is fixed once it was placed.
func keepCategories(current, next []quote.Option) []quote.Option {
	placed := make(map[string]quote.Category)
	for _, opt := range current {
		for _, item := range opt.Items {
			placed[item.ID] = item.Category
		}
	}

	out := make([]quote.Option, len(next))
	for i, opt := range next {
		items := make(quote.Items, len(opt.Items))
		for j, item := range opt.Items {
			if category, ok := placed[item.ID]; ok {
				item.Category = category
			}
			items[j] = item
		}
		opt.Items = items
		out[i] = opt
	}
	return out
}

// applyRequest merges req into q and recomputes every option.
func applyRequest(q quote.Quote, req quoteRequest) (quote.Quote, error) {
	if req.Customer != nil {
		q.Customer = *req.Customer
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}
	if req.DeliveryDate != nil {
		q.DeliveryDate = *req.DeliveryDate
	}
	if req.Context != nil {
		qc, err := req.Context.apply(q.Context)
		if err != nil {
			return q, err
		}
		q.Context = qc
	}
	if req.Options != nil {
		if err := validateOptions(*req.Options); err != nil {
			return q, err
		}
		q.Options = keepCategories(q.Options, *req.Options)
	}
	q.Options = pricing.ComputeAll(q.Options, q.Context)
	return q, nil
}

func (s *server) respondQuote(w http.ResponseWriter, status int, q quote.Quote) {
	writeJSON(w, status, quoteResponse{Quote: q, DeliveryEstimate: pricing.DeliveryEstimate(q.Options, q.Context)})
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.quotes.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": summaries})
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	q := quote.Quote{
		Context: quote.NewContext(),
		Options: []quote.Option{{ID: "A", Title: "אופציה A", Items: quote.Items{}}},
	}
	q, err := applyRequest(q, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	created, err := s.quotes.Create(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondQuote(w, http.StatusCreated, created)
}

func (s *server) handleQuoteGet(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondQuote(w, http.StatusOK, q)
}

func (s *server) handleQuoteUpdate(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.editQuote(w, r, func(q quote.Quote) (quote.Quote, error) {
		return applyRequest(q, req)
	})
}

// handleQuoteCompute previews an edit without storing it.
func (s *server) handleQuoteCompute(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err = applyRequest(q, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, computeResponse{
		Context:          q.Context,
		Options:          q.Options,
		DeliveryEstimate: pricing.DeliveryEstimate(q.Options, q.Context),
	})
}

// editQuote loads an editable quote, applies fn, recomputes and saves it.
func (s *server) editQuote(w http.ResponseWriter, r *http.Request, fn func(quote.Quote) (quote.Quote, error)) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !q.Status.Editable() {
		s.fail(w, r, fmt.Errorf("%w: quote is %s and can no longer be edited", quote.ErrInvalidTransition, q.Status))
		return
	}

	q, err = fn(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q.Options = pricing.ComputeAll(q.Options, q.Context)

	saved, err := s.quotes.Save(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondQuote(w, http.StatusOK, saved)
}

// editOption runs fn on the option named in the URL.
func (s *server) editOption(w http.ResponseWriter, r *http.Request, fn func(quote.Option) (quote.Option, error)) {
	optionID := chi.URLParam(r, "optionID")
	s.editQuote(w, r, func(q quote.Quote) (quote.Quote, error) {
		var fnErr error
		opts, found := quote.UpdateOption(q.Options, optionID, func(opt quote.Option) quote.Option {
			updated, err := fn(opt)
			if err != nil {
				fnErr = err
				return opt
			}
			return updated
		})
		if !found {
			return q, optionNotFound(optionID)
		}
		if fnErr != nil {
			return q, fnErr
		}
		q.Options = opts
		return q, nil
	})
}

func optionNotFound(id string) error {
	return fmt.Errorf("option %s: %w", id, store.ErrNotFound)
}

func (s *server) handleOptionAdd(w http.ResponseWriter, r *http.Request) {
	s.editQuote(w, r, func(q quote.Quote) (quote.Quote, error) {
		id := quote.NextOptionID(q.Options)
		q.Options = append(q.Options, quote.Option{ID: id, Title: "אופציה " + id, Items: quote.Items{}})
		return q, nil
	})
}

func (s *server) handleOptionDuplicate(w http.ResponseWriter, r *http.Request) {
	optionID := chi.URLParam(r, "optionID")
	s.editQuote(w, r, func(q quote.Quote) (quote.Quote, error) {
		if _, ok := q.Option(optionID); !ok {
			return q, optionNotFound(optionID)
		}
		q.Options = quote.DuplicateOption(q.Options, optionID, s.newID)
		return q, nil
	})
}

func (s *server) handleOptionDelete(w http.ResponseWriter, r *http.Request) {
	optionID := chi.URLParam(r, "optionID")
	s.editQuote(w, r, func(q quote.Quote) (quote.Quote, error) {
		if _, ok := q.Option(optionID); !ok {
			return q, optionNotFound(optionID)
		}
		q.Options = quote.RemoveOption(q.Options, optionID)
		return q, nil
	})
}

func (s *server) handleOptionDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if (req.BundleID == "") == (req.ProductID == "") {
		s.fail(w, r, badRequest("exactly one of bundleId or productId is required"))
		return
	}

	optionID := chi.URLParam(r, "optionID")
	s.editQuote(w, r, func(q quote.Quote) (quote.Quote, error) {
		if _, ok := q.Option(optionID); !ok {
			return q, optionNotFound(optionID)
		}
		if req.BundleID != "" {
			return s.dropBundle(r.Context(), q, optionID, req.BundleID)
		}
		return s.dropProduct(r.Context(), q, optionID, req.ProductID, req.Category)
	})
}

func (s *server) dropBundle(ctx context.Context, q quote.Quote, optionID, bundleID string) (quote.Quote, error) {
	index, err := s.catalog.BundleIndex(ctx)
	if err != nil {
		return q, upstream(err)
	}
	b, ok := index[bundleID]
	if !ok {
		return q, badRequest("unknown bundle %q", bundleID)
	}
	lookup := func(id string) (catalog.Bundle, bool) {
		found, ok := index[id]
		return found, ok
	}
	q.Options = catalog.DropBundle(q.Options, optionID, b, lookup, s.newID)
	return q, nil
}

func (s *server) dropProduct(ctx context.Context, q quote.Quote, optionID, productID string, category quote.Category) (quote.Quote, error) {
	p, ok, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return q, upstream(err)
	}
	if !ok {
		return q, badRequest("unknown product %q", productID)
	}
	q.Options = catalog.DropProduct(q.Options, optionID, p, category, s.newID)
	return q, nil
}

func (s *server) handleItemsMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.editOption(w, r, func(opt quote.Option) (quote.Option, error) {
		if req.From < 0 || req.From >= len(opt.Items) || req.To < 0 || req.To >= len(opt.Items) {
			return opt, badRequest("move indexes out of range")
		}
		opt.Items = opt.Items.Move(req.From, req.To)
		return opt, nil
	})
}

func (s *server) handleItemsCustom(w http.ResponseWriter, r *http.Request) {
	s.editOption(w, r, func(opt quote.Option) (quote.Option, error) {
		opt.Items = opt.Items.InsertCustom(s.newID())
		return opt, nil
	})
}

func (s *server) handleItemDuplicate(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	s.editOption(w, r, func(opt quote.Option) (quote.Option, error) {
		if opt.Items.Index(itemID) < 0 {
			return opt, fmt.Errorf("item %s: %w", itemID, store.ErrNotFound)
		}
		opt.Items = opt.Items.Duplicate(itemID, s.newID())
		return opt, nil
	})
}

func (s *server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	s.editOption(w, r, func(opt quote.Option) (quote.Option, error) {
		if opt.Items.Index(itemID) < 0 {
			return opt, fmt.Errorf("item %s: %w", itemID, store.ErrNotFound)
		}
		opt.Items = opt.Items.Remove(itemID)
		return opt, nil
	})
}
