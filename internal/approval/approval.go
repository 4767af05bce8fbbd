package approval

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid approval token")

// Role is who an approval link is meant for.
type Role string

const (
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

// Claims identify the quote an approval link acts on.
type Claims struct {
	QuoteID string `json:"qid"`
	Role    Role   `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 approval tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a signer whose tokens expire after ttl. Both secret and a
// positive ttl are required.
func NewSigner(secret string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("approval secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("approval token ttl must be positive")
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for quoteID and role.
func (s *Signer) Issue(quoteID string, role Role) (string, error) {
	if quoteID == "" {
		return "", errors.New("empty quote id passed to Issue")
	}
	now := s.now()
	claims := Claims{
		QuoteID: quoteID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign approval token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and role of a token.
func (s *Signer) Verify(tokenString string, role Role) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != role {
		return Claims{}, fmt.Errorf("%w: role %q", ErrInvalidToken, claims.Role)
	}
	if claims.QuoteID == "" {
		return Claims{}, fmt.Errorf("%w: missing quote id", ErrInvalidToken)
	}
	return claims, nil
}

// Link builds the approval URL a role opens.
func Link(baseURL string, role Role, token string) string {
	return fmt.Sprintf("%s/approval/%s?token=%s", strings.TrimRight(baseURL, "/"), role, url.QueryEscape(token))
}
