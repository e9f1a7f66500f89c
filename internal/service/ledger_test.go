package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/GoTitans/titangate/internal/model"
)

func newTestLedger(rpm int) (*Ledger, *MemoryCounterStore, *time.Time) {
	store := NewMemoryCounterStore()
	ledger := NewLedger(store, rpm)
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ledger.now = func() time.Time { return now }
	return ledger, store, &now
}

func TestRateWindowCap(t *testing.T) {
	ledger, _, now := newTestLedger(60)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		ok, err := ledger.AllowRequest(ctx, "tenant-1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := ledger.AllowRequest(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("allow 61: %v", err)
	}
	if ok {
		t.Fatalf("61st request in the window must be denied")
	}

	// A second tenant is unaffected.
	if ok, _ := ledger.AllowRequest(ctx, "tenant-2"); !ok {
		t.Fatalf("other tenant should not share the window")
	}

	// Next minute opens a fresh bucket.
	*now = now.Add(time.Minute)
	if ok, _ := ledger.AllowRequest(ctx, "tenant-1"); !ok {
		t.Fatalf("request in the next window should be allowed")
	}
}

func TestRecordUsageConcurrent(t *testing.T) {
	for _, n := range []int{1, 10, 1000} {
		ledger, _, _ := newTestLedger(60)
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				if err := ledger.RecordUsage(ctx, "tenant-1", UsageTrades); err != nil {
					t.Errorf("record: %v", err)
				}
			}()
		}
		wg.Wait()

		snap, err := ledger.Usage(ctx, "tenant-1", "")
		if err != nil {
			t.Fatalf("usage: %v", err)
		}
		if snap.Trades != int64(n) {
			t.Fatalf("lost updates: want %d trades, got %d", n, snap.Trades)
		}
	}
}

func TestUsageAbsentReadsZero(t *testing.T) {
	ledger, _, _ := newTestLedger(60)
	snap, err := ledger.Usage(context.Background(), "nobody", "2026-01-01")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if snap.Predictions != 0 || snap.Trades != 0 || snap.HighConfWins != 0 {
		t.Fatalf("absent key must read as zero: %+v", snap)
	}
	if snap.Date != "2026-01-01" {
		t.Fatalf("snapshot should echo the requested day")
	}
}

func TestUsageDayBoundary(t *testing.T) {
	ledger, _, now := newTestLedger(60)
	ctx := context.Background()

	if err := ledger.RecordUsage(ctx, "tenant-1", UsagePredictions); err != nil {
		t.Fatalf("record: %v", err)
	}
	day1 := now.UTC().Format("2006-01-02")

	*now = now.Add(24 * time.Hour)
	if err := ledger.RecordUsage(ctx, "tenant-1", UsagePredictions); err != nil {
		t.Fatalf("record: %v", err)
	}

	snap1, _ := ledger.Usage(ctx, "tenant-1", day1)
	snap2, _ := ledger.Usage(ctx, "tenant-1", "")
	if snap1.Predictions != 1 || snap2.Predictions != 1 {
		t.Fatalf("day boundary must open a new key, got %d/%d", snap1.Predictions, snap2.Predictions)
	}
}

func TestCheckAndRecordTrade(t *testing.T) {
	ledger, _, _ := newTestLedger(60)
	ctx := context.Background()
	ent := ResolveEntitlement(model.PlanFree) // 10 trades/day

	for i := 0; i < 10; i++ {
		ok, err := ledger.CheckAndRecordTrade(ctx, "tenant-1", ent)
		if err != nil {
			t.Fatalf("trade %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("trade %d should pass quota", i+1)
		}
	}

	ok, err := ledger.CheckAndRecordTrade(ctx, "tenant-1", ent)
	if err != nil {
		t.Fatalf("trade 11: %v", err)
	}
	if ok {
		t.Fatalf("trade at the cap must be denied")
	}

	// The denied trade must not move the counter.
	snap, _ := ledger.Usage(ctx, "tenant-1", "")
	if snap.Trades != 10 {
		t.Fatalf("denied trade moved the counter: %d", snap.Trades)
	}
}
