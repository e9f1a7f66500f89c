package service

import (
	"context"
	"errors"

	"github.com/GoTitans/titangate/internal/credential"
	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/pkg/metrics"
	"github.com/GoTitans/titangate/internal/token"
)

// TenantDirectory is the lookup/mutation surface the core needs from
// persistence. Reads must be safe under concurrency; UpdatePlan must be
// all-or-nothing with respect to concurrent readers.
type TenantDirectory interface {
	GetByKeyDigest(ctx context.Context, digest string) (*model.Tenant, error)
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
	Create(ctx context.Context, t *model.Tenant) error
	UpdatePlan(ctx context.Context, id string, plan model.PlanTier, subscriptionRef string) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*model.Tenant, error)
}

// AuthGate turns a raw credential into an authenticated tenant plus its
// current entitlement, or a rejection with a stable reason code. It never
// mutates tenant state and never logs secret material.
type AuthGate struct {
	dir    TenantDirectory
	tokens *token.Service
}

func NewAuthGate(dir TenantDirectory, tokens *token.Service) *AuthGate {
	return &AuthGate{dir: dir, tokens: tokens}
}

func (g *AuthGate) Authenticate(ctx context.Context, raw string) (*model.Tenant, model.Entitlement, error) {
	cred, err := credential.Parse(raw)
	if err != nil {
		return g.reject(apperrors.NewInvalidCredential(err))
	}

	var tenant *model.Tenant
	switch cred.Kind {
	case credential.KindAPIKey:
		tenant, err = g.dir.GetByKeyDigest(ctx, credential.Digest(cred.Raw))
		if errors.Is(err, model.ErrTenantNotFound) {
			return g.reject(apperrors.NewInvalidCredential(err))
		}
		if err != nil {
			return g.reject(apperrors.Wrap(err))
		}
	default:
		tenantID, verr := g.tokens.Verify(cred.Raw)
		if verr != nil {
			// signature and expiry failures collapse into one rejection
			return g.reject(apperrors.NewInvalidCredential(verr))
		}
		tenant, err = g.dir.GetByID(ctx, tenantID)
		if errors.Is(err, model.ErrTenantNotFound) {
			return g.reject(apperrors.New(apperrors.ErrUnknownTenant, "tenant not found", err))
		}
		if err != nil {
			return g.reject(apperrors.Wrap(err))
		}
	}

	// Suspended accounts are rejected regardless of credential validity.
	if !tenant.Active {
		return g.reject(apperrors.NewSuspended())
	}

	return tenant, ResolveEntitlement(tenant.Plan), nil
}

func (g *AuthGate) reject(appErr *apperrors.AppError) (*model.Tenant, model.Entitlement, error) {
	metrics.AuthRejects.WithLabelValues(string(appErr.Type)).Inc()
	return nil, model.Entitlement{}, appErr
}
