package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GoTitans/titangate/internal/model"
)

// MemoryTenantRepo 内存实现, for tests and Postgres-less deployments.
// Reads return copies so callers never share mutable state with the store.
type MemoryTenantRepo struct {
	mu       sync.RWMutex
	byID     map[string]*model.Tenant
	byDigest map[string]string // digest -> tenant id
}

func NewMemoryTenantRepo() *MemoryTenantRepo {
	return &MemoryTenantRepo{
		byID:     make(map[string]*model.Tenant),
		byDigest: make(map[string]string),
	}
}

func (r *MemoryTenantRepo) GetByKeyDigest(ctx context.Context, digest string) (*model.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byDigest[digest]
	if !ok {
		return nil, model.ErrTenantNotFound
	}
	return cloneTenant(r.byID[id]), nil
}

func (r *MemoryTenantRepo) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, model.ErrTenantNotFound
	}
	return cloneTenant(t), nil
}

func (r *MemoryTenantRepo) Create(ctx context.Context, t *model.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Same uniqueness guarantees the Postgres schema enforces.
	if _, exists := r.byID[t.ID]; exists {
		return fmt.Errorf("tenant %s already exists", t.ID)
	}
	if _, exists := r.byDigest[t.KeyDigest]; exists {
		return fmt.Errorf("api key digest already registered")
	}
	r.byID[t.ID] = cloneTenant(t)
	r.byDigest[t.KeyDigest] = t.ID
	return nil
}

func (r *MemoryTenantRepo) UpdatePlan(ctx context.Context, id string, plan model.PlanTier, subscriptionRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return model.ErrTenantNotFound
	}
	t.Plan = plan
	t.SubscriptionRef = subscriptionRef
	return nil
}

func (r *MemoryTenantRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return model.ErrTenantNotFound
	}
	t.Active = false
	return nil
}

func (r *MemoryTenantRepo) List(ctx context.Context, limit, offset int) ([]*model.Tenant, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*model.Tenant, 0, len(r.byID))
	for _, t := range r.byID {
		all = append(all, cloneTenant(t))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*model.Tenant{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func cloneTenant(t *model.Tenant) *model.Tenant {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Config != nil {
		cp.Config = make(map[string]string, len(t.Config))
		for k, v := range t.Config {
			cp.Config[k] = v
		}
	}
	return &cp
}
