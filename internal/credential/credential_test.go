package credential

import (
	"strings"
	"testing"
)

func TestGeneratePrefixAndEntropy(t *testing.T) {
	key, err := Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(key, KeyPrefix) {
		t.Fatalf("key missing prefix: %s", key)
	}
	// 32 bytes base64url without padding is 43 chars
	if got := len(key) - len(KeyPrefix); got != 43 {
		t.Fatalf("unexpected payload length %d", got)
	}
}

func TestGenerateNoReuse(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		key, err := Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key generated")
		}
		seen[key] = struct{}{}
	}
}

func TestDigestDeterministic(t *testing.T) {
	k1, _ := Generate()
	k2, _ := Generate()

	if Digest(k1) != Digest(k1) {
		t.Fatalf("digest not deterministic")
	}
	if Digest(k1) == Digest(k2) {
		t.Fatalf("distinct keys produced identical digests")
	}
	if Digest(k1) == k1 {
		t.Fatalf("digest must not echo the key")
	}
	if len(Digest(k1)) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(Digest(k1)))
	}
}

func TestParseDispatch(t *testing.T) {
	cred, err := Parse("titans_abc123")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Kind != KindAPIKey {
		t.Fatalf("expected api key kind")
	}

	cred, err = Parse("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Kind != KindSessionToken {
		t.Fatalf("expected session token kind")
	}

	if _, err := Parse("   "); err == nil {
		t.Fatalf("expected error for blank credential")
	}
}
