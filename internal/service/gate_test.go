package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoTitans/titangate/internal/credential"
	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/repository"
	"github.com/GoTitans/titangate/internal/token"
)

func seedTenant(t *testing.T, dir *repository.MemoryTenantRepo, plan model.PlanTier, active bool) (*model.Tenant, string) {
	t.Helper()
	key, err := credential.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	tenant := &model.Tenant{
		ID:          "tenant-" + string(plan),
		Email:       string(plan) + "@example.com",
		KeyDigest:   credential.Digest(key),
		Plan:        plan,
		Active:      active,
		TradingMode: model.ModePaper,
		CreatedAt:   time.Now().UTC(),
	}
	if err := dir.Create(context.Background(), tenant); err != nil {
		t.Fatalf("create: %v", err)
	}
	return tenant, key
}

func assertReason(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Type != want {
		t.Fatalf("expected %s, got %s", want, appErr.Type)
	}
}

func TestAuthenticateAPIKey(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	gate := NewAuthGate(dir, token.NewService("gate-secret"))
	want, key := seedTenant(t, dir, model.PlanPro, true)

	tenant, ent, err := gate.Authenticate(context.Background(), key)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if tenant.ID != want.ID {
		t.Fatalf("wrong tenant %s", tenant.ID)
	}
	if tenant.Plan != model.PlanPro || ent.MaxTradesPerDay != 1000 || !ent.LiveTrading {
		t.Fatalf("entitlement does not match current plan: %+v", ent)
	}
}

func TestAuthenticateEntitlementTracksPlanTransition(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	gate := NewAuthGate(dir, token.NewService("gate-secret"))
	tenant, key := seedTenant(t, dir, model.PlanFree, true)

	_, ent, err := gate.Authenticate(context.Background(), key)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if ent.MaxTradesPerDay != 10 {
		t.Fatalf("expected free entitlement first")
	}

	if err := dir.UpdatePlan(context.Background(), tenant.ID, model.PlanPro, "sub_1"); err != nil {
		t.Fatalf("update plan: %v", err)
	}
	_, ent, err = gate.Authenticate(context.Background(), key)
	if err != nil {
		t.Fatalf("authenticate after upgrade: %v", err)
	}
	if ent.MaxTradesPerDay != 1000 {
		t.Fatalf("entitlement must follow the new plan, got %+v", ent)
	}
}

func TestAuthenticateUnknownKey(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	gate := NewAuthGate(dir, token.NewService("gate-secret"))

	key, _ := credential.Generate()
	_, _, err := gate.Authenticate(context.Background(), key)
	assertReason(t, err, apperrors.ErrInvalidCredential)
}

func TestAuthenticateSuspended(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	tokens := token.NewService("gate-secret")
	gate := NewAuthGate(dir, tokens)
	tenant, key := seedTenant(t, dir, model.PlanPro, true)

	if err := dir.Deactivate(context.Background(), tenant.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, _, err := gate.Authenticate(context.Background(), key)
	assertReason(t, err, apperrors.ErrSuspendedAccount)

	// Suspension also blocks the session token path.
	tok, _ := tokens.Issue(tenant.ID, time.Minute)
	_, _, err = gate.Authenticate(context.Background(), tok)
	assertReason(t, err, apperrors.ErrSuspendedAccount)
}

func TestAuthenticateSessionToken(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	tokens := token.NewService("gate-secret")
	gate := NewAuthGate(dir, tokens)
	want, _ := seedTenant(t, dir, model.PlanFree, true)

	tok, err := tokens.Issue(want.ID, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tenant, ent, err := gate.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if tenant.ID != want.ID || ent.MaxTradesPerDay != 10 {
		t.Fatalf("unexpected result: %s %+v", tenant.ID, ent)
	}
}

func TestAuthenticateSessionTokenUnknownTenant(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	tokens := token.NewService("gate-secret")
	gate := NewAuthGate(dir, tokens)

	tok, _ := tokens.Issue("vanished", time.Minute)
	_, _, err := gate.Authenticate(context.Background(), tok)
	assertReason(t, err, apperrors.ErrUnknownTenant)
}

func TestAuthenticateBadToken(t *testing.T) {
	dir := repository.NewMemoryTenantRepo()
	gate := NewAuthGate(dir, token.NewService("gate-secret"))
	seedTenant(t, dir, model.PlanFree, true)

	for _, raw := range []string{"", "garbage", "eyJhbGciOiJIUzI1NiJ9.forged.sig"} {
		_, _, err := gate.Authenticate(context.Background(), raw)
		assertReason(t, err, apperrors.ErrInvalidCredential)
	}
}
