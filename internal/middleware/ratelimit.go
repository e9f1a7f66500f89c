package middleware

import (
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/pkg/logger"
	"github.com/GoTitans/titangate/internal/pkg/metrics"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware enforces the shared per-tenant minute window, with an
// optional in-process burst guard in front of it. Must run after
// AuthMiddleware.
func RateLimitMiddleware(ledger *service.Ledger, pool *service.LimiterPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, ok := TenantFrom(c)
		if !ok {
			reject(c, apperrors.NewInvalidCredential(nil))
			return
		}

		if pool != nil && !pool.Allow(tenant.ID) {
			metrics.RateLimitHits.WithLabelValues("burst").Inc()
			reject(c, apperrors.NewRateLimited())
			return
		}

		allowed, err := ledger.AllowRequest(c.Request.Context(), tenant.ID)
		if err != nil {
			// Counter store outage: fail open so a Redis blip does not
			// take the API down, but make it visible.
			logger.LogError(c.Request.Context(), err, "rate window check failed", "tenant_id", tenant.ID)
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitHits.WithLabelValues("window").Inc()
			reject(c, apperrors.NewRateLimited())
			return
		}

		c.Next()
	}
}
