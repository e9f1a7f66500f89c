package model

import (
	"errors"
	"strings"
	"time"
)

// ErrTenantNotFound is returned by directory lookups that miss.
var ErrTenantNotFound = errors.New("tenant not found")

// PlanTier is the subscription tier a tenant is billed on.
type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanPro        PlanTier = "pro"
	PlanEnterprise PlanTier = "enterprise"
)

// Valid reports whether the tier is one we bill for.
func (p PlanTier) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// TradingMode selects paper or live execution for a tenant.
type TradingMode string

const (
	ModePaper TradingMode = "paper"
	ModeLive  TradingMode = "live"
)

// Tenant 代表一个接入方 (customer account)
// The clear API key is never stored; only its SHA-256 digest persists.
type Tenant struct {
	ID              string            `json:"id" db:"id"`
	Email           string            `json:"email" db:"email"`
	KeyDigest       string            `json:"-" db:"api_key_digest"`
	Plan            PlanTier          `json:"plan" db:"plan"`
	Active          bool              `json:"active" db:"active"`
	TradingMode     TradingMode       `json:"trading_mode" db:"trading_mode"`
	SubscriptionRef string            `json:"subscription_ref,omitempty" db:"subscription_ref"`
	Config          map[string]string `json:"config,omitempty"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
}

// ConfigList reads a comma-separated list value from the per-tenant config map.
func (t *Tenant) ConfigList(key string) []string {
	raw, ok := t.Config[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Entitlement is the capability set derived from a plan tier.
// It is never persisted and never mutated on the tenant; callers must
// re-derive it from the current plan on every request.
type Entitlement struct {
	MaxTradesPerDay         int      `json:"max_trades_per_day"`
	MaxConcurrentStrategies int      `json:"max_concurrent_strategies"`
	LiveTrading             bool     `json:"live_trading"`
	AllowedVenues           []string `json:"allowed_venues"`
}
