package main

import (
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"

	"github.com/Simplici0/giftquote/internal/approval"
	"github.com/Simplici0/giftquote/internal/document"
	"github.com/Simplici0/giftquote/internal/notify"
	"github.com/Simplici0/giftquote/internal/quote"
	"github.com/Simplici0/giftquote/internal/storage"
	"github.com/Simplici0/giftquote/internal/store"
)

type managerDecisionRequest struct {
	Token    string `json:"token"`
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

type customerApproveRequest struct {
	Token      string `json:"token"`
	OptionID   string `json:"optionId"`
	SignerName string `json:"signerName"`
	Signature  string `json:"signature"`
}

type customerRejectRequest struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

type customerItem struct {
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type customerOption struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Items        []customerItem `json:"items"`
	Total        float64        `json:"total"`
	TotalWithVAT float64        `json:"totalWithVAT"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	Terms        string         `json:"terms,omitempty"`
}

// customerView is the quote as the customer sees it, without any internal
// cost or profit figures.
type customerView struct {
	Number           int              `json:"number"`
	CustomerName     string           `json:"customerName"`
	DeliveryDate     string           `json:"deliveryDate,omitempty"`
	Quantity         int              `json:"quantity"`
	Status           quote.Status     `json:"status"`
	ApprovedOptionID string           `json:"approvedOptionId,omitempty"`
	Options          []customerOption `json:"options"`
}

func newCustomerView(q quote.Quote) customerView {
	v := customerView{
		Number:           q.Number,
		CustomerName:     q.Customer.Name,
		DeliveryDate:     q.DeliveryDate,
		Quantity:         q.Context.Quantity(),
		Status:           q.Status,
		ApprovedOptionID: q.ApprovedOptionID,
		Options:          []customerOption{},
	}
	for _, opt := range quote.Relevant(q.Options) {
		co := customerOption{
			ID:           opt.ID,
			Title:        opt.Title,
			Items:        make([]customerItem, 0, len(opt.Items)),
			Total:        opt.Total,
			TotalWithVAT: quote.Round2(opt.Total * quote.VATRate),
			ImageURL:     opt.ImageURL,
			Terms:        opt.Terms,
		}
		for _, item := range opt.Items {
			co.Items = append(co.Items, customerItem{Name: item.Name, Details: item.Details, Comment: item.Comment})
		}
		v.Options = append(v.Options, co)
	}
	return v
}

func (s *server) handleManagerDecision(w http.ResponseWriter, r *http.Request) {
	var req managerDecisionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	var next quote.Status
	switch req.Decision {
	case "approve":
		next = quote.StatusManagerApproved
	case "reject", "correction":
		next = quote.StatusInCorrection
	default:
		s.fail(w, r, badRequest("decision must be approve or reject"))
		return
	}

	claims, err := s.signer.Verify(req.Token, approval.RoleManager)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := s.quotes.Get(r.Context(), claims.QuoteID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from := q.Status
	if err := q.Transition(next); err != nil {
		s.fail(w, r, err)
		return
	}

	if notes := strings.TrimSpace(req.Notes); notes != "" {
		if err := s.quotes.SetManagerNotes(r.Context(), q.ID, notes); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if err := s.quotes.UpdateStatus(r.Context(), q.ID, from, q.Status); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workflowResponse{Status: q.Status})
}

// handleCustomerView shows the relevant options and marks a sent quote as
// viewed.
func (s *server) handleCustomerView(w http.ResponseWriter, r *http.Request) {
	claims, err := s.signer.Verify(r.URL.Query().Get("token"), approval.RoleCustomer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := s.quotes.Get(r.Context(), claims.QuoteID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if q.Status == quote.StatusSent {
		err := s.quotes.UpdateStatus(r.Context(), q.ID, quote.StatusSent, quote.StatusViewed)
		switch {
		case err == nil:
			q.Status = quote.StatusViewed
		case errors.Is(err, store.ErrStaleStatus):
			// Another request moved it on; show what is stored.
			if q, err = s.quotes.Get(r.Context(), claims.QuoteID); err != nil {
				s.fail(w, r, err)
				return
			}
		default:
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, newCustomerView(q))
}

func (s *server) handleCustomerApprove(w http.ResponseWriter, r *http.Request) {
	var req customerApproveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	claims, err := s.signer.Verify(req.Token, approval.RoleCustomer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := s.quotes.Get(r.Context(), claims.QuoteID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opt, ok := q.Option(req.OptionID)
	if !ok || opt.Irrelevant {
		s.fail(w, r, badRequest("unknown option %q", req.OptionID))
		return
	}
	signerName := strings.TrimSpace(req.SignerName)
	if signerName == "" {
		s.fail(w, r, badRequest("signerName is required"))
		return
	}
	from := q.Status
	if err := q.Transition(quote.StatusApproved); err != nil {
		s.fail(w, r, err)
		return
	}

	signature, err := document.NormalizeSignature([]byte(req.Signature))
	if err != nil {
		s.fail(w, r, badRequest("%v", err))
		return
	}
	sigKey := storage.SignatureKey(q.ID)
	if _, err := s.files.Put(r.Context(), sigKey, "image/png", signature); err != nil {
		s.fail(w, r, upstream(err))
		return
	}

	q.ApprovedOptionID = opt.ID
	q.SignerName = signerName
	view, err := s.quoteView(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view.Signature = signature
	pdf, err := s.docs.Generate(view)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pdfKey := storage.DocumentKey(q.ID, q.Number)
	pdfURL, err := s.files.Put(r.Context(), pdfKey, "application/pdf", pdf)
	if err != nil {
		s.fail(w, r, upstream(err))
		return
	}

	err = s.quotes.RecordApproval(r.Context(), q.ID, from, store.Approval{
		OptionID:     opt.ID,
		SignerName:   signerName,
		SignatureKey: sigKey,
		PDFKey:       pdfKey,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.tellManager(r, fmt.Sprintf("הצעת מחיר %d אושרה", q.Number),
		fmt.Sprintf(`<p>%s אישר/ה את %s בהצעת מחיר %d.</p>`, html.EscapeString(signerName), html.EscapeString(opt.Title), q.Number))
	writeJSON(w, http.StatusOK, workflowResponse{Status: quote.StatusApproved, PDFURL: pdfURL})
}

func (s *server) handleCustomerReject(w http.ResponseWriter, r *http.Request) {
	var req customerRejectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	claims, err := s.signer.Verify(req.Token, approval.RoleCustomer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := s.quotes.Get(r.Context(), claims.QuoteID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from := q.Status
	if err := q.Transition(quote.StatusRejected); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.quotes.UpdateStatus(r.Context(), q.ID, from, q.Status); err != nil {
		s.fail(w, r, err)
		return
	}

	reason := strings.TrimSpace(req.Reason)
	s.tellManager(r, fmt.Sprintf("הצעת מחיר %d נדחתה", q.Number),
		fmt.Sprintf(`<p>הלקוח דחה את הצעת מחיר %d.</p><p>%s</p>`, q.Number, html.EscapeString(reason)))
	writeJSON(w, http.StatusOK, workflowResponse{Status: q.Status})
}

// tellManager notifies the manager after a customer decision. Failures are
// logged since the decision is already stored.
func (s *server) tellManager(r *http.Request, subject, body string) {
	if s.managerEmail == "" {
		return
	}
	err := s.notifier.Send(r.Context(), notify.Message{To: s.managerEmail, Subject: subject, HTML: body})
	if err != nil {
		log.Printf("notify manager: %v", err)
	}
}
