package handler

import (
	"context"

	"gtm_backend/internal/integrations/transport"
	"gtm_backend/platform/apperr"
	"gtm_backend/platform/httpkit"
	"gtm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Service is what the handler needs from the integrations service.
type Service interface {
	List(ctx context.Context, workspaceID uuid.UUID) (transport.IntegrationListResponse, error)
	Upsert(ctx context.Context, workspaceID uuid.UUID, provider string, req transport.UpsertConnectionRequest) (transport.IntegrationResponse, error)
}

type Handler struct {
	svc Service
	log *logger.Logger
}

func New(svc Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.PUT("/:provider", h.Upsert)
}

func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), id.WorkspaceID())
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Upsert(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.UpsertConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	resp, err := h.svc.Upsert(c.Request.Context(), id.WorkspaceID(), c.Param("provider"), req)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, resp)
}
