package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GoTitans/titangate/internal/model"
)

// CounterStore is the narrow atomic surface the ledger needs from its
// backing store. Increment operations must return the post-increment value
// atomically; the ledger never does read-modify-write at the caller.
type CounterStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	IncrementField(ctx context.Context, key, field string, ttl time.Duration) (int64, error)
	ReadFields(ctx context.Context, key string) (map[string]int64, error)
}

// UsageKind selects one of the per-day counters.
type UsageKind string

const (
	UsagePredictions  UsageKind = "predictions"
	UsageTrades       UsageKind = "trades"
	UsageHighConfWins UsageKind = "high_conf_wins"
)

const (
	rateWindow = time.Minute
	// Daily usage keys outlive their day so reports can look one day back.
	usageTTL = 48 * time.Hour
)

// Ledger 跟踪租户的请求速率与每日用量
type Ledger struct {
	store             CounterStore
	requestsPerMinute int64
	now               func() time.Time
}

func NewLedger(store CounterStore, requestsPerMinute int) *Ledger {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &Ledger{
		store:             store,
		requestsPerMinute: int64(requestsPerMinute),
		now:               time.Now,
	}
}

// AllowRequest atomically counts the request against the current minute
// bucket and compares the post-increment value to the cap. Two concurrent
// callers can never both observe count 1.
func (l *Ledger) AllowRequest(ctx context.Context, tenantID string) (bool, error) {
	bucket := l.now().UTC().Unix() / 60
	key := fmt.Sprintf("ratelimit:%s:%d", tenantID, bucket)
	n, err := l.store.Increment(ctx, key, rateWindow)
	if err != nil {
		return false, err
	}
	return n <= l.requestsPerMinute, nil
}

// RecordUsage increments one daily counter. Not deduplicated; idempotency
// is the caller's concern.
func (l *Ledger) RecordUsage(ctx context.Context, tenantID string, kind UsageKind) error {
	_, err := l.store.IncrementField(ctx, l.usageKey(tenantID, ""), string(kind), usageTTL)
	return err
}

// Usage reads the counters for the given day (today when day is empty).
// Absent keys read as all-zero.
func (l *Ledger) Usage(ctx context.Context, tenantID, day string) (model.UsageSnapshot, error) {
	if day == "" {
		day = l.today()
	}
	snap := model.UsageSnapshot{Date: day}
	fields, err := l.store.ReadFields(ctx, l.usageKey(tenantID, day))
	if err != nil {
		return snap, err
	}
	snap.Predictions = fields[string(UsagePredictions)]
	snap.Trades = fields[string(UsageTrades)]
	snap.HighConfWins = fields[string(UsageHighConfWins)]
	return snap, nil
}

// CheckTradeQuota reports whether the tenant is still under its daily trade
// cap. At or above the cap denies.
func (l *Ledger) CheckTradeQuota(ctx context.Context, tenantID string, ent model.Entitlement) (bool, error) {
	snap, err := l.Usage(ctx, tenantID, "")
	if err != nil {
		return false, err
	}
	return snap.Trades < int64(ent.MaxTradesPerDay), nil
}

// CheckAndRecordTrade composes the quota check with usage recording: the
// trade counter only moves when the trade is allowed.
func (l *Ledger) CheckAndRecordTrade(ctx context.Context, tenantID string, ent model.Entitlement) (bool, error) {
	ok, err := l.CheckTradeQuota(ctx, tenantID, ent)
	if err != nil || !ok {
		return false, err
	}
	if err := l.RecordUsage(ctx, tenantID, UsageTrades); err != nil {
		return false, err
	}
	return true, nil
}

func (l *Ledger) usageKey(tenantID, day string) string {
	if day == "" {
		day = l.today()
	}
	return fmt.Sprintf("usage:%s:%s", tenantID, day)
}

func (l *Ledger) today() string {
	return l.now().UTC().Format("2006-01-02")
}
