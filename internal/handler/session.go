package handler

import (
	"net/http"
	"time"

	"github.com/GoTitans/titangate/internal/middleware"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/token"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	tokens *token.Service
	ttl    time.Duration
}

func NewSessionHandler(tokens *token.Service, ttl time.Duration) *SessionHandler {
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}
	return &SessionHandler{tokens: tokens, ttl: ttl}
}

// CreateSession exchanges an API key for a short-lived session token for
// the dashboard. Session tokens cannot beget further sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	tenant, ok := middleware.TenantFrom(c)
	if !ok {
		c.Error(apperrors.NewInvalidCredential(nil))
		return
	}
	if c.GetString(middleware.ContextAuthMethodKey) != middleware.AuthMethodAPIKey {
		c.Error(apperrors.NewInvalidRequest("session creation requires an API key"))
		return
	}

	tok, err := h.tokens.Issue(tenant.ID, h.ttl)
	if err != nil {
		c.Error(apperrors.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      tok,
		"expires_in": int(h.ttl.Seconds()),
	})
}
