package handler

import (
	"net/http"
	"strconv"

	"github.com/GoTitans/titangate/internal/pkg/apperrors"
	"github.com/GoTitans/titangate/internal/service"
	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

// Create provisions a tenant. The clear API key appears in this response
// and nowhere else; it is not recoverable afterwards.
func (h *TenantHandler) Create(c *gin.Context) {
	var req service.TenantCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}
	tenant, key, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"tenant":  tenant,
		"api_key": key,
	})
}

func (h *TenantHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(apperrors.NewInvalidRequest("id required"))
		return
	}
	tenant, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) List(c *gin.Context) {
	limit := 100
	offset := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			offset = parsed
		}
	}

	tenants, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// Deactivate suspends the account; there is no hard delete.
func (h *TenantHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(apperrors.NewInvalidRequest("id required"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "active": false})
}
