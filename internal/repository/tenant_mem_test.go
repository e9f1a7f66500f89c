package repository

import (
	"context"
	"testing"
	"time"

	"github.com/GoTitans/titangate/internal/model"
)

func TestMemoryTenantRepoCreateRejectsDuplicates(t *testing.T) {
	repo := NewMemoryTenantRepo()
	ctx := context.Background()

	first := &model.Tenant{
		ID:        "tenant-1",
		Email:     "one@example.com",
		KeyDigest: "digest-1",
		Plan:      model.PlanFree,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	sameID := &model.Tenant{ID: "tenant-1", KeyDigest: "digest-other"}
	if err := repo.Create(ctx, sameID); err == nil {
		t.Fatalf("expected error for duplicate id")
	}

	sameDigest := &model.Tenant{ID: "tenant-2", KeyDigest: "digest-1"}
	if err := repo.Create(ctx, sameDigest); err == nil {
		t.Fatalf("expected error for duplicate digest")
	}

	// The stored record must be the original, untouched by the rejects.
	got, err := repo.GetByID(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "one@example.com" || got.KeyDigest != "digest-1" {
		t.Fatalf("original record mutated: %+v", got)
	}
	if _, err := repo.GetByID(ctx, "tenant-2"); err == nil {
		t.Fatalf("rejected create must not leave a record behind")
	}
}
