package handler

import (
	"net/http"
	"time"

	"github.com/GoTitans/titangate/internal/middleware"
	"github.com/GoTitans/titangate/internal/pkg/logger"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin filtering is the reverse proxy's job.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type StreamHandler struct {
	engine   service.SignalEngine
	ledger   *service.Ledger
	interval time.Duration
}

func NewStreamHandler(engine service.SignalEngine, ledger *service.Ledger) *StreamHandler {
	return &StreamHandler{engine: engine, ledger: ledger, interval: 5 * time.Second}
}

// Stream pushes the latest signal and usage snapshot on a fixed cadence.
// Authentication happened in the middleware chain before the upgrade.
func (h *StreamHandler) Stream(c *gin.Context) {
	tenant, ok := middleware.TenantFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	symbol := c.DefaultQuery("symbol", "BTC/USDT")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		sig, err := h.engine.Predict(ctx, tenant.ID, symbol)
		if err != nil {
			_ = conn.WriteJSON(gin.H{"error": "prediction unavailable"})
			return
		}
		snap, err := h.ledger.Usage(ctx, tenant.ID, "")
		if err != nil {
			// Counter store outage degrades to a zero snapshot; the
			// stream itself stays up.
			logger.Warn("usage read failed on stream", "tenant_id", tenant.ID, "error", err.Error())
		}

		if err := conn.WriteJSON(gin.H{"signal": sig, "usage": snap}); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
