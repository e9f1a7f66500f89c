package handler

import (
	"net/http"

	"github.com/GoTitans/titangate/internal/middleware"
	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/pkg/metrics"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
)

type SignalHandler struct {
	engine service.SignalEngine
	ledger *service.Ledger
}

func NewSignalHandler(engine service.SignalEngine, ledger *service.Ledger) *SignalHandler {
	return &SignalHandler{engine: engine, ledger: ledger}
}

type SignalRequest struct {
	Symbol  string `json:"symbol" binding:"required"`
	Execute bool   `json:"execute"`
	Venue   string `json:"venue"`
}

type SignalResponse struct {
	Signal   *model.Signal      `json:"signal"`
	Executed bool               `json:"executed"`
	Trade    *model.TradeResult `json:"trade,omitempty"`
}

// GetSignal serves a prediction and, when requested and entitled, executes
// the trade. Auth and the rate window have already run; quota is checked
// here because only trades count against it.
func (h *SignalHandler) GetSignal(c *gin.Context) {
	tenant, ok := middleware.TenantFrom(c)
	if !ok {
		c.Error(apperrors.NewInvalidCredential(nil))
		return
	}
	ent, _ := middleware.EntitlementFrom(c)

	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}
	venue := req.Venue
	if venue == "" {
		venue = "binance"
	}

	sig, err := h.engine.Predict(c.Request.Context(), tenant.ID, req.Symbol)
	if err != nil {
		c.Error(apperrors.New(apperrors.ErrUpstream, "prediction engine unavailable", err))
		return
	}
	if err := h.ledger.RecordUsage(c.Request.Context(), tenant.ID, service.UsagePredictions); err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}

	resp := SignalResponse{Signal: sig}
	if req.Execute {
		if tenant.TradingMode == model.ModeLive && !ent.LiveTrading {
			c.Error(apperrors.NewInvalidRequest("live trading not permitted on this plan"))
			return
		}
		if !service.VenueAllowed(tenant, venue) {
			c.Error(apperrors.NewInvalidRequest("venue not allowed on this plan"))
			return
		}

		allowed, err := h.ledger.CheckAndRecordTrade(c.Request.Context(), tenant.ID, ent)
		if err != nil {
			c.Error(apperrors.Wrap(err))
			return
		}
		if !allowed {
			metrics.QuotaRejects.Inc()
			c.Error(apperrors.NewQuotaExceeded("daily trade quota exceeded"))
			return
		}

		trade, err := h.engine.Execute(c.Request.Context(), tenant, sig, venue)
		if err != nil {
			c.Error(apperrors.New(apperrors.ErrUpstream, "trade execution failed", err))
			return
		}
		resp.Executed = true
		resp.Trade = trade
		middleware.AddAuditContext(c, "trade_id", trade.TradeID)
	}

	metrics.SignalsTotal.WithLabelValues(sig.Action, boolLabel(resp.Executed)).Inc()
	c.JSON(http.StatusOK, resp)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
