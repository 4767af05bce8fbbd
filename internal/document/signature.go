package document

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	signatureMaxWidth  = 600
	signatureMaxHeight = 200
)

var (
	ErrEmptySignature   = errors.New("signature is empty")
	ErrInvalidSignature = errors.New("signature is not a readable image")
)

// NormalizeSignature decodes a PNG or JPEG signature, raw or as a base64 data
// URL, flattens it onto white, bounds it to 600x200 and re-encodes it as PNG.
func NormalizeSignature(raw []byte) ([]byte, error) {
	data, err := decodeDataURL(raw)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptySignature
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(-bounds.Min.X, -bounds.Min.Y), 1.0)
	fitted := imaging.Fit(flat, signatureMaxWidth, signatureMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDataURL(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "data:") {
		return raw, nil
	}

	comma := strings.IndexByte(s, ',')
	if comma < 0 || !strings.Contains(s[:comma], ";base64") {
		return nil, fmt.Errorf("%w: unsupported data url", ErrInvalidSignature)
	}
	data, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return data, nil
}
