package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/Simplici0/giftquote/internal/approval"
	"github.com/Simplici0/giftquote/internal/notify"
	"github.com/Simplici0/giftquote/internal/quote"
	"github.com/Simplici0/giftquote/internal/store"
)

const maxBodyBytes = 8 << 20

var (
	errBadRequest = errors.New("bad request")
	errUpstream   = errors.New("upstream failure")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// upstream marks err as a failure of a collaborator such as storage or email.
func upstream(err error) error {
	return fmt.Errorf("%w: %w", errUpstream, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid json: %v", err)
	}
	return nil
}

// fail maps err to a status code and writes it as {"error": ...}.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, notify.ErrInvalidRecipient):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, quote.ErrInvalidTransition), errors.Is(err, store.ErrStaleStatus):
		status = http.StatusConflict
	case errors.Is(err, approval.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, errUpstream):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
