package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/mail"
	"time"
)

const defaultEmailAPIURL = "https://api.resend.com/emails"

var ErrInvalidRecipient = errors.New("invalid recipient address")

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outgoing email.
type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Notifier delivers messages.
type Notifier interface {
	Send(ctx context.Context, m Message) error
}

// EmailAPI sends messages through a Resend style HTTP email API.
type EmailAPI struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

var _ Notifier = (*EmailAPI)(nil)

// NewEmailAPI returns a sender. An empty endpoint uses the Resend API.
func NewEmailAPI(endpoint, apiKey, from string) *EmailAPI {
	if endpoint == "" {
		endpoint = defaultEmailAPIURL
	}
	return &EmailAPI{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type emailAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type emailPayload struct {
	From        string            `json:"from"`
	To          []string          `json:"to"`
	Subject     string            `json:"subject"`
	HTML        string            `json:"html"`
	Attachments []emailAttachment `json:"attachments,omitempty"`
}

// Send posts m to the email API with attachments base64 encoded. An
// unparsable recipient returns ErrInvalidRecipient before any request is made.
func (e *EmailAPI) Send(ctx context.Context, m Message) error {
	if e.apiKey == "" {
		return errors.New("email api key not configured")
	}
	to, err := mail.ParseAddress(m.To)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, m.To)
	}

	payload := emailPayload{
		From:    e.from,
		To:      []string{to.Address},
		Subject: m.Subject,
		HTML:    m.HTML,
	}
	for _, a := range m.Attachments {
		payload.Attachments = append(payload.Attachments, emailAttachment{
			Filename: a.Filename,
			Content:  base64.StdEncoding.EncodeToString(a.Content),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("failed to send email: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

// LogNotifier logs messages instead of sending them.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, m Message) error {
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, m.To)
	}
	log.Printf("email to=%s subject=%q attachments=%d", m.To, m.Subject, len(m.Attachments))
	return nil
}
