// Package credential generates tenant API keys and classifies inbound
// credentials. Keys are opaque: a fixed prefix plus 256 bits of random
// material. Only the SHA-256 digest of a key is ever stored or compared.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// KeyPrefix marks gateway-issued API keys on the wire.
const KeyPrefix = "titans_"

const keyEntropyBytes = 32

var ErrEmpty = errors.New("empty credential")

type Kind int

const (
	KindAPIKey Kind = iota
	KindSessionToken
)

// Credential is the tagged variant resolved once at the boundary.
// Downstream code switches on Kind instead of re-sniffing the string.
type Credential struct {
	Kind Kind
	Raw  string
}

// Generate 颁发新的 API key. The clear value is returned exactly once;
// callers persist Digest(key) and discard the key after delivery.
func Generate() (string, error) {
	buf := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return KeyPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Digest computes the storage digest of a credential. Deterministic and
// one-way; the same key always maps to the same digest.
func Digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Parse classifies a raw credential by prefix. Anything without the API key
// prefix is treated as a session token and left for the token service to
// judge.
func Parse(raw string) (Credential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Credential{}, ErrEmpty
	}
	if strings.HasPrefix(raw, KeyPrefix) {
		return Credential{Kind: KindAPIKey, Raw: raw}, nil
	}
	return Credential{Kind: KindSessionToken, Raw: raw}, nil
}
