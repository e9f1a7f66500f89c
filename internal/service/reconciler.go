package service

import (
	"context"
	"errors"

	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/pkg/logger"
	"github.com/GoTitans/titangate/internal/pkg/metrics"
)

// SubscriptionReconciler applies billing lifecycle events to the tenant
// directory. It is the only writer of plan state. Events are processed
// idempotently: a duplicate delivery finds the state already in place and
// becomes a no-op.
type SubscriptionReconciler struct {
	dir TenantDirectory
}

func NewSubscriptionReconciler(dir TenantDirectory) *SubscriptionReconciler {
	return &SubscriptionReconciler{dir: dir}
}

// Apply returns whether the event changed state. Malformed events and
// events for unknown tenants never mutate anything; the latter are dropped
// rather than treated as account creation.
func (r *SubscriptionReconciler) Apply(ctx context.Context, ev model.BillingEvent) (bool, error) {
	if ev.TenantID == "" {
		metrics.BillingEvents.WithLabelValues(string(ev.Type), "malformed").Inc()
		return false, apperrors.New(apperrors.ErrMalformedBilling, "billing event missing tenant id", nil)
	}

	tenant, err := r.dir.GetByID(ctx, ev.TenantID)
	if errors.Is(err, model.ErrTenantNotFound) {
		logger.Warn("billing event for unknown tenant dropped",
			"type", string(ev.Type), "tenant_id", ev.TenantID)
		metrics.BillingEvents.WithLabelValues(string(ev.Type), "unknown_tenant").Inc()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch ev.Type {
	case model.BillingCheckoutCompleted:
		return r.applyCheckout(ctx, tenant, ev)
	case model.BillingSubscriptionCancelled:
		return r.applyCancellation(ctx, tenant)
	default:
		metrics.BillingEvents.WithLabelValues(string(ev.Type), "malformed").Inc()
		return false, apperrors.New(apperrors.ErrMalformedBilling, "unknown billing event type", nil)
	}
}

func (r *SubscriptionReconciler) applyCheckout(ctx context.Context, tenant *model.Tenant, ev model.BillingEvent) (bool, error) {
	if !ev.Plan.Valid() || ev.Plan == model.PlanFree {
		metrics.BillingEvents.WithLabelValues(string(ev.Type), "malformed").Inc()
		return false, apperrors.New(apperrors.ErrMalformedBilling, "checkout event carries no paid tier", nil)
	}
	if tenant.Plan == ev.Plan && tenant.SubscriptionRef == ev.SubscriptionRef {
		// duplicate delivery
		metrics.BillingEvents.WithLabelValues(string(ev.Type), "duplicate").Inc()
		return false, nil
	}
	if err := r.dir.UpdatePlan(ctx, tenant.ID, ev.Plan, ev.SubscriptionRef); err != nil {
		return false, err
	}
	logger.Info("tenant upgraded", "tenant_id", tenant.ID, "plan", string(ev.Plan))
	metrics.BillingEvents.WithLabelValues(string(ev.Type), "applied").Inc()
	return true, nil
}

// applyCancellation downgrades to Free but leaves the account active: a
// cancelled tenant keeps login capability on the free tier.
func (r *SubscriptionReconciler) applyCancellation(ctx context.Context, tenant *model.Tenant) (bool, error) {
	if tenant.Plan == model.PlanFree {
		metrics.BillingEvents.WithLabelValues(string(model.BillingSubscriptionCancelled), "duplicate").Inc()
		return false, nil
	}
	if err := r.dir.UpdatePlan(ctx, tenant.ID, model.PlanFree, ""); err != nil {
		return false, err
	}
	logger.Info("tenant downgraded to free", "tenant_id", tenant.ID)
	metrics.BillingEvents.WithLabelValues(string(model.BillingSubscriptionCancelled), "applied").Inc()
	return true, nil
}
