package service

import (
	"context"
	"testing"
	"time"

	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/repository"
)

func seedFreeTenant(t *testing.T, dir *repository.MemoryTenantRepo, id string) {
	t.Helper()
	err := dir.Create(context.Background(), &model.Tenant{
		ID:        id,
		Email:     id + "@example.com",
		KeyDigest: "digest-" + id,
		Plan:      model.PlanFree,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestCheckoutCompletedIdempotent(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	rec := NewSubscriptionReconciler(dir)
	seedFreeTenant(t, dir, "tenant-1")

	ev := model.BillingEvent{
		Type:            model.BillingCheckoutCompleted,
		TenantID:        "tenant-1",
		Plan:            model.PlanPro,
		SubscriptionRef: "sub_123",
	}

	applied, err := rec.Apply(context.Background(), ev)
	if err != nil || !applied {
		t.Fatalf("first delivery: applied=%v err=%v", applied, err)
	}

	// Duplicate delivery must be a no-op with identical final state.
	applied, err = rec.Apply(context.Background(), ev)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if applied {
		t.Fatalf("duplicate event must not re-apply")
	}

	tenant, _ := dir.GetByID(context.Background(), "tenant-1")
	if tenant.Plan != model.PlanPro || tenant.SubscriptionRef != "sub_123" {
		t.Fatalf("unexpected state after duplicate: %+v", tenant)
	}
}

func TestCancellationDowngradesButKeepsActive(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	rec := NewSubscriptionReconciler(dir)
	seedFreeTenant(t, dir, "tenant-1")
	_ = dir.UpdatePlan(context.Background(), "tenant-1", model.PlanEnterprise, "sub_9")

	applied, err := rec.Apply(context.Background(), model.BillingEvent{
		Type:     model.BillingSubscriptionCancelled,
		TenantID: "tenant-1",
	})
	if err != nil || !applied {
		t.Fatalf("cancel: applied=%v err=%v", applied, err)
	}

	tenant, _ := dir.GetByID(context.Background(), "tenant-1")
	if tenant.Plan != model.PlanFree {
		t.Fatalf("expected downgrade to free, got %s", tenant.Plan)
	}
	if !tenant.Active {
		t.Fatalf("cancellation must not deactivate the account")
	}
	if tenant.SubscriptionRef != "" {
		t.Fatalf("subscription ref should be cleared")
	}

	// Cancelling an already-free tenant is a duplicate.
	applied, err = rec.Apply(context.Background(), model.BillingEvent{
		Type:     model.BillingSubscriptionCancelled,
		TenantID: "tenant-1",
	})
	if err != nil || applied {
		t.Fatalf("duplicate cancel: applied=%v err=%v", applied, err)
	}
}

func TestUnknownTenantDropped(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	rec := NewSubscriptionReconciler(dir)

	applied, err := rec.Apply(context.Background(), model.BillingEvent{
		Type:     model.BillingCheckoutCompleted,
		TenantID: "ghost",
		Plan:     model.PlanPro,
	})
	if err != nil {
		t.Fatalf("unknown tenant must not error: %v", err)
	}
	if applied {
		t.Fatalf("unknown tenant event must not apply")
	}

	if tenants, _ := dir.List(context.Background(), 10, 0); len(tenants) != 0 {
		t.Fatalf("billing events must never create tenants")
	}
}

func TestMalformedEventsRejected(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	rec := NewSubscriptionReconciler(dir)
	seedFreeTenant(t, dir, "tenant-1")

	cases := []model.BillingEvent{
		{Type: model.BillingCheckoutCompleted, TenantID: ""},
		{Type: model.BillingCheckoutCompleted, TenantID: "tenant-1", Plan: "platinum"},
		{Type: model.BillingCheckoutCompleted, TenantID: "tenant-1", Plan: model.PlanFree},
		{Type: "unknown.event", TenantID: "tenant-1"},
	}
	for i, ev := range cases {
		applied, err := rec.Apply(context.Background(), ev)
		if applied {
			t.Fatalf("case %d: malformed event applied", i)
		}
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}

	tenant, _ := dir.GetByID(context.Background(), "tenant-1")
	if tenant.Plan != model.PlanFree || tenant.SubscriptionRef != "" {
		t.Fatalf("malformed events must not mutate state: %+v", tenant)
	}
}
