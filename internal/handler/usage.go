package handler

import (
	"net/http"
	"time"

	"github.com/GoTitans/titangate/internal/middleware"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type UsageHandler struct {
	ledger           *service.Ledger
	highConfWinPrice decimal.Decimal
}

func NewUsageHandler(ledger *service.Ledger, highConfWinPrice string) *UsageHandler {
	price, err := decimal.NewFromString(highConfWinPrice)
	if err != nil {
		price = decimal.Zero
	}
	return &UsageHandler{ledger: ledger, highConfWinPrice: price}
}

// GetUsage reports the tenant's counters for today (or ?date=YYYY-MM-DD),
// the limits of its current plan, and the outcome-billing estimate.
func (h *UsageHandler) GetUsage(c *gin.Context) {
	tenant, ok := middleware.TenantFrom(c)
	if !ok {
		c.Error(apperrors.NewInvalidCredential(nil))
		return
	}
	ent, _ := middleware.EntitlementFrom(c)

	day := c.Query("date")
	if day != "" {
		if _, err := time.Parse("2006-01-02", day); err != nil {
			c.Error(apperrors.NewInvalidRequest("date must be YYYY-MM-DD"))
			return
		}
	}

	snap, err := h.ledger.Usage(c.Request.Context(), tenant.ID, day)
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}

	estimate := h.highConfWinPrice.Mul(decimal.NewFromInt(snap.HighConfWins))
	c.JSON(http.StatusOK, gin.H{
		"date":                      snap.Date,
		"predictions":               snap.Predictions,
		"trades_executed":           snap.Trades,
		"high_confidence_wins":      snap.HighConfWins,
		"estimated_outcome_charges": estimate.StringFixed(2),
		"plan_limits": gin.H{
			"max_trades_per_day": ent.MaxTradesPerDay,
			"max_strategies":     ent.MaxConcurrentStrategies,
		},
	})
}
