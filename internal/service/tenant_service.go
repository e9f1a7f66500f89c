package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GoTitans/titangate/internal/credential"
	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/google/uuid"
)

// TenantService is the admin surface for account provisioning. Signup flow
// lives outside the core; this is the operator path that mints the record
// and its one-time API key.
type TenantService struct {
	dir TenantDirectory
}

type TenantCreateRequest struct {
	Email       string            `json:"email" binding:"required"`
	Plan        model.PlanTier    `json:"plan"`
	TradingMode model.TradingMode `json:"trading_mode"`
	Config      map[string]string `json:"config"`
}

func NewTenantService(dir TenantDirectory) *TenantService {
	return &TenantService{dir: dir}
}

// Create provisions a tenant and returns the clear API key alongside it.
// Only the key's digest is persisted; this is the single moment the clear
// value exists outside the caller.
func (s *TenantService) Create(ctx context.Context, req TenantCreateRequest) (*model.Tenant, string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, "", apperrors.NewInvalidRequest("email is required")
	}
	plan := req.Plan
	if plan == "" {
		plan = model.PlanFree
	}
	if !plan.Valid() {
		return nil, "", apperrors.NewInvalidRequest("unknown plan tier")
	}
	mode := req.TradingMode
	if mode == "" {
		mode = model.ModePaper
	}

	key, err := credential.Generate()
	if err != nil {
		return nil, "", apperrors.Wrap(err)
	}

	tenant := &model.Tenant{
		ID:          uuid.New().String(),
		Email:       email,
		KeyDigest:   credential.Digest(key),
		Plan:        plan,
		Active:      true,
		TradingMode: mode,
		Config:      req.Config,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.dir.Create(ctx, tenant); err != nil {
		return nil, "", apperrors.Wrap(err)
	}
	return tenant, key, nil
}

func (s *TenantService) Get(ctx context.Context, id string) (*model.Tenant, error) {
	tenant, err := s.dir.GetByID(ctx, id)
	if errors.Is(err, model.ErrTenantNotFound) {
		return nil, apperrors.New(apperrors.ErrNotFound, "tenant not found", err)
	}
	if err != nil {
		return nil, apperrors.Wrap(err)
	}
	return tenant, nil
}

func (s *TenantService) List(ctx context.Context, limit, offset int) ([]*model.Tenant, error) {
	tenants, err := s.dir.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err)
	}
	return tenants, nil
}

// Deactivate soft-disables the account; the gate rejects it from the next
// request on.
func (s *TenantService) Deactivate(ctx context.Context, id string) error {
	err := s.dir.Deactivate(ctx, id)
	if errors.Is(err, model.ErrTenantNotFound) {
		return apperrors.New(apperrors.ErrNotFound, "tenant not found", err)
	}
	if err != nil {
		return apperrors.Wrap(err)
	}
	return nil
}
