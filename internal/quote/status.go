package quote

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status tracks a quote through manager review, customer approval and delivery.
type Status string

const (
	StatusAwaitingQuote   Status = "awaiting_quote"
	StatusManagerReview   Status = "manager_review"
	StatusManagerApproved Status = "manager_approved"
	StatusInCorrection    Status = "in_correction"
	StatusSent            Status = "sent"
	StatusViewed          Status = "viewed"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusAwaitingQuote:   {StatusManagerReview, StatusSent},
	StatusManagerReview:   {StatusManagerApproved, StatusInCorrection},
	StatusInCorrection:    {StatusManagerReview},
	StatusManagerApproved: {StatusSent, StatusInCorrection},
	StatusSent:            {StatusViewed, StatusApproved, StatusRejected, StatusInCorrection},
	StatusViewed:          {StatusApproved, StatusRejected, StatusInCorrection},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingQuote, StatusManagerReview, StatusManagerApproved, StatusInCorrection,
		StatusSent, StatusViewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a quote in status s may move to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Editable reports whether options may still be changed in this status.
func (s Status) Editable() bool {
	switch s {
	case StatusAwaitingQuote, StatusInCorrection, StatusManagerReview:
		return true
	}
	return false
}

// Transition moves the quote to next, or returns ErrInvalidTransition.
func (q *Quote) Transition(next Status) error {
	current := q.Status
	if current == "" {
		current = StatusAwaitingQuote
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}
	q.Status = next
	return nil
}
