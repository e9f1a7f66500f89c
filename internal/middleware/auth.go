package middleware

import (
	"strings"

	"github.com/GoTitans/titangate/internal/credential"
	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	ContextTenantKey      = "tenant"
	ContextEntitlementKey = "entitlement"
	ContextAuthMethodKey  = "auth_method"

	AuthMethodAPIKey  = "api_key"
	AuthMethodSession = "session"
)

// AuthMiddleware runs the authentication gate on every request. The
// credential arrives as a bearer token; both API keys and session tokens
// ride the same header and are dispatched by shape exactly once.
func AuthMiddleware(gate *service.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			reject(c, apperrors.NewInvalidCredential(nil))
			return
		}

		tenant, ent, err := gate.Authenticate(c.Request.Context(), raw)
		if err != nil {
			reject(c, apperrors.Wrap(err))
			return
		}

		method := AuthMethodSession
		if cred, perr := credential.Parse(raw); perr == nil && cred.Kind == credential.KindAPIKey {
			method = AuthMethodAPIKey
		}

		c.Set(ContextTenantKey, tenant)
		c.Set(ContextEntitlementKey, ent)
		c.Set(ContextAuthMethodKey, method)
		c.Next()
	}
}

// TenantFrom pulls the authenticated tenant out of the request context.
func TenantFrom(c *gin.Context) (*model.Tenant, bool) {
	val, ok := c.Get(ContextTenantKey)
	if !ok {
		return nil, false
	}
	tenant, ok := val.(*model.Tenant)
	return tenant, ok
}

func EntitlementFrom(c *gin.Context) (model.Entitlement, bool) {
	val, ok := c.Get(ContextEntitlementKey)
	if !ok {
		return model.Entitlement{}, false
	}
	ent, ok := val.(model.Entitlement)
	return ent, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func reject(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.HTTPStatus, appErr)
	c.Abort()
}
