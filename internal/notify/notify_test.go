package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEmailAPISend(t *testing.T) {
	var got emailPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	api := NewEmailAPI(srv.URL, "key-123", "Quotes <quotes@example.com>")
	err := api.Send(context.Background(), Message{
		To:          "Dana <dana@example.com>",
		Subject:     "Your quote",
		HTML:        "<p>hi</p>",
		Attachments: []Attachment{{Filename: "quote.pdf", Content: []byte("%PDF")}},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer key-123" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "dana@example.com" {
		t.Fatalf("unexpected recipients %v", got.To)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("expected one attachment, got %d", len(got.Attachments))
	}
	decoded, err := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	if err != nil || string(decoded) != "%PDF" {
		t.Fatalf("unexpected attachment content %q %v", decoded, err)
	}
}

func TestEmailAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "domain not verified", http.StatusForbidden)
	}))
	defer srv.Close()

	api := NewEmailAPI(srv.URL, "key", "quotes@example.com")
	err := api.Send(context.Background(), Message{To: "dana@example.com", Subject: "x"})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}

	if err := api.Send(context.Background(), Message{To: "not an address"}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}

	if err := NewEmailAPI(srv.URL, "", "x").Send(context.Background(), Message{To: "dana@example.com"}); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestLogNotifier(t *testing.T) {
	if err := (LogNotifier{}).Send(context.Background(), Message{To: "dana@example.com"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := (LogNotifier{}).Send(context.Background(), Message{To: ""}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}
