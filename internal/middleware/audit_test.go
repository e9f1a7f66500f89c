package middleware

import (
	"encoding/json"
	"testing"
)

func TestRedactAuditBodyTenantCreate(t *testing.T) {
	body := []byte(`{"email":"a@b.c","api_key":"titans_secret","token":"eyJ0","nested":{"key":"titans_other"}}`)
	out := redactAuditBody("/v1/tenants", body)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if data["api_key"] == "titans_secret" {
		t.Fatalf("api_key not redacted")
	}
	if data["token"] == "eyJ0" {
		t.Fatalf("token not redacted")
	}
	if nested, ok := data["nested"].(map[string]interface{}); ok {
		if nested["key"] == "titans_other" {
			t.Fatalf("nested key not redacted")
		}
	}
	if data["email"] != "a@b.c" {
		t.Fatalf("non-sensitive field should survive redaction")
	}
}

func TestRedactAuditBodyNonSensitivePath(t *testing.T) {
	body := []byte(`{"ok":true}`)
	out := redactAuditBody("/health", body)
	if out != string(body) {
		t.Fatalf("unexpected redaction on non-sensitive path")
	}
}

func TestRedactAuditBodyInvalidJSON(t *testing.T) {
	body := []byte("not-json")
	out := redactAuditBody("/v1/auth/session", body)
	if out != "[redacted]" {
		t.Fatalf("expected redacted placeholder for invalid json")
	}
}
