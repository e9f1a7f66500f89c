// Package token issues and verifies short-lived session tokens for the
// dashboard path. Tokens are HS256 JWTs carrying the tenant id as subject
// plus an absolute expiry; the service itself is stateless.
package token

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 15 * time.Minute

var (
	// ErrInvalidSignature and ErrExpired are distinct for logs and tests,
	// but the gate collapses both into one generic rejection so callers
	// cannot probe which check failed.
	ErrInvalidSignature = errors.New("session token: invalid signature")
	ErrExpired          = errors.New("session token: expired")
)

type Service struct {
	secret []byte
	issuer string
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), issuer: "titangate"}
}

// Issue signs a token for tenantID. ttl <= 0 falls back to DefaultTTL.
func (s *Service) Issue(tenantID string, ttl time.Duration) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("tenant id required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   tenantID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded tenant id.
func (s *Service) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalidSignature
	}
	if !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidSignature
	}
	return claims.Subject, nil
}
