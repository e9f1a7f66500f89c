package token

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	svc := NewService("unit-secret")
	tok, err := svc.Issue("tenant-42", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tenantID, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if tenantID != "tenant-42" {
		t.Fatalf("wrong subject %q", tenantID)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService("unit-secret")

	// Craft a token whose expiry is already in the past.
	claims := jwt.RegisteredClaims{
		Subject:   "tenant-42",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(raw); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := NewService("secret-a").Issue("tenant-42", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewService("secret-b").Verify(tok); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyTampered(t *testing.T) {
	svc := NewService("unit-secret")
	tok, err := svc.Issue("tenant-42", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := tok[:len(tok)-2] + "xx"
	if _, err := svc.Verify(tampered); err == nil {
		t.Fatalf("expected failure for tampered token")
	}
}

func TestIssueRequiresTenant(t *testing.T) {
	if _, err := NewService("unit-secret").Issue("", time.Minute); err == nil {
		t.Fatalf("expected error for empty tenant id")
	}
}
