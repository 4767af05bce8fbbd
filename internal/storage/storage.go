package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

// Store keeps signed documents and signature images.
type Store interface {
	// Put stores body under key and returns a URL for it.
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// cleanKey rejects keys that are empty, absolute or escape the store root.
func cleanKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if k == "" || strings.HasPrefix(k, "/") || strings.Contains(k, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	k = path.Clean(k)
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}

// SignatureKey is where a quote's signature image is stored.
func SignatureKey(quoteID string) string {
	return "signatures/" + quoteID + ".png"
}

// DocumentKey is where a quote's rendered document is stored.
func DocumentKey(quoteID string, number int) string {
	return fmt.Sprintf("quotes/%s/quote-%d.pdf", quoteID, number)
}
