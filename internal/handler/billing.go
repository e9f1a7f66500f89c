package handler

import (
	"net/http"

	"github.com/GoTitans/titangate/internal/config"
	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/logger"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
)

const HeaderWebhookSecret = "X-Webhook-Secret"

type BillingHandler struct {
	cfg        *config.Config
	reconciler *service.SubscriptionReconciler
}

func NewBillingHandler(cfg *config.Config, reconciler *service.SubscriptionReconciler) *BillingHandler {
	return &BillingHandler{cfg: cfg, reconciler: reconciler}
}

// Shape of the provider payload; only these fields are consumed.
type providerEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Metadata     map[string]string `json:"metadata"`
			Subscription string            `json:"subscription"`
		} `json:"object"`
	} `json:"data"`
}

// Webhook ingests billing lifecycle events. Provider signature checking is
// done by the fronting transport; here a shared secret gates the route and
// the payload is treated as data only. Absorbed failures answer 200 so the
// provider stops retrying events we will never apply.
func (h *BillingHandler) Webhook(c *gin.Context) {
	if h.cfg.Billing.WebhookSecret == "" {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "billing not configured"})
		return
	}
	if c.GetHeader(HeaderWebhookSecret) != h.cfg.Billing.WebhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	var payload providerEvent
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	ev, ok := translateEvent(payload)
	if !ok {
		logger.Debug("ignoring billing event", "type", payload.Type)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	applied, err := h.reconciler.Apply(c.Request.Context(), ev)
	if err != nil {
		// Malformed or failing events are absorbed here: logged for
		// operators, never propagated to the request path.
		logger.LogError(c.Request.Context(), err, "billing event rejected", "type", string(ev.Type))
		c.JSON(http.StatusOK, gin.H{"status": "rejected", "applied": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "applied": applied})
}

func translateEvent(payload providerEvent) (model.BillingEvent, bool) {
	meta := payload.Data.Object.Metadata
	switch payload.Type {
	case "checkout.session.completed":
		return model.BillingEvent{
			Type:            model.BillingCheckoutCompleted,
			TenantID:        meta["tenant_id"],
			Plan:            model.PlanTier(meta["plan"]),
			SubscriptionRef: payload.Data.Object.Subscription,
		}, true
	case "customer.subscription.deleted":
		return model.BillingEvent{
			Type:     model.BillingSubscriptionCancelled,
			TenantID: meta["tenant_id"],
		}, true
	default:
		return model.BillingEvent{}, false
	}
}
