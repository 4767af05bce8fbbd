package main

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/giftquote/internal/approval"
	"github.com/Simplici0/giftquote/internal/document"
	"github.com/Simplici0/giftquote/internal/notify"
	"github.com/Simplici0/giftquote/internal/quote"
	"github.com/Simplici0/giftquote/internal/storage"
)

type workflowResponse struct {
	Status quote.Status `json:"status"`
	Link   string       `json:"link,omitempty"`
	PDFURL string       `json:"pdfUrl,omitempty"`
}

// quoteView collects what the customer document shows, including the stored
// signature when the quote has one.
func (s *server) quoteView(ctx context.Context, q quote.Quote) (document.QuoteView, error) {
	view := document.QuoteView{
		Number:           q.Number,
		Date:             q.CreatedAt,
		Customer:         q.Customer,
		Notes:            q.Notes,
		DeliveryDate:     q.DeliveryDate,
		Quantity:         q.Context.Quantity(),
		Options:          quote.Relevant(q.Options),
		ApprovedOptionID: q.ApprovedOptionID,
		SignerName:       q.SignerName,
	}
	if q.SignatureKey != "" {
		sig, err := s.files.Get(ctx, q.SignatureKey)
		if err != nil {
			return view, upstream(fmt.Errorf("load signature: %w", err))
		}
		view.Signature = sig
	}
	return view, nil
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.quoteView(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pdf, err := s.docs.Generate(view)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=quote-%d.pdf", q.Number))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// handleQuoteSubmit sends the quote to the manager for review.
func (s *server) handleQuoteSubmit(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from := q.Status
	if err := q.Transition(quote.StatusManagerReview); err != nil {
		s.fail(w, r, err)
		return
	}

	token, err := s.signer.Issue(q.ID, approval.RoleManager)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	link := approval.Link(s.baseURL, approval.RoleManager, token)

	if s.managerEmail != "" {
		err := s.notifier.Send(r.Context(), notify.Message{
			To:      s.managerEmail,
			Subject: fmt.Sprintf("הצעת מחיר %d ממתינה לאישור", q.Number),
			HTML: fmt.Sprintf(`<p>הצעת מחיר %d עבור %s ממתינה לאישורך.</p><p><a href="%s">לצפייה ואישור</a></p>`,
				q.Number, html.EscapeString(q.Customer.Name), html.EscapeString(link)),
		})
		if err != nil {
			s.fail(w, r, upstream(err))
			return
		}
	}

	if err := s.quotes.UpdateStatus(r.Context(), q.ID, from, q.Status); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workflowResponse{Status: q.Status, Link: link})
}

// handleQuoteSend renders the document, stores it and emails it to the
// customer with an approval link.
func (s *server) handleQuoteSend(w http.ResponseWriter, r *http.Request) {
	q, err := s.quotes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(quote.Relevant(q.Options)) == 0 {
		s.fail(w, r, badRequest("quote has no options to send"))
		return
	}
	from := q.Status
	if err := q.Transition(quote.StatusSent); err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := s.quoteView(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pdf, err := s.docs.Generate(view)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	key := storage.DocumentKey(q.ID, q.Number)
	pdfURL, err := s.files.Put(r.Context(), key, "application/pdf", pdf)
	if err != nil {
		s.fail(w, r, upstream(err))
		return
	}

	token, err := s.signer.Issue(q.ID, approval.RoleCustomer)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	link := approval.Link(s.baseURL, approval.RoleCustomer, token)

	err = s.notifier.Send(r.Context(), notify.Message{
		To:      q.Customer.Email,
		Subject: fmt.Sprintf("הצעת מחיר מס' %d", q.Number),
		HTML: fmt.Sprintf(`<p>שלום %s,</p><p>מצורפת הצעת המחיר שלך.</p><p><a href="%s">לצפייה ואישור ההצעה</a></p>`,
			html.EscapeString(q.Customer.Name), html.EscapeString(link)),
		Attachments: []notify.Attachment{{Filename: fmt.Sprintf("quote-%d.pdf", q.Number), Content: pdf}},
	})
	if err != nil {
		s.fail(w, r, upstream(err))
		return
	}

	if err := s.quotes.SetPDFKey(r.Context(), q.ID, key); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.quotes.UpdateStatus(r.Context(), q.ID, from, q.Status); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workflowResponse{Status: q.Status, Link: link, PDFURL: pdfURL})
}
