package handler

import (
	"context"
	"strings"

	"gtm_backend/internal/journey/transport"
	"gtm_backend/platform/apperr"
	"gtm_backend/platform/httpkit"
	"gtm_backend/platform/logger"
	"gtm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Service is what the handler needs from the journey service.
type Service interface {
	ListJourneys(ctx context.Context, workspaceID uuid.UUID, limit int) (transport.JourneyListResponse, error)
	GetJourney(ctx context.Context, workspaceID uuid.UUID, leadID string) (transport.JourneyResponse, error)
	Performance(ctx context.Context, workspaceID uuid.UUID) (transport.PerformanceResponse, error)
	Funnel(ctx context.Context, workspaceID uuid.UUID) (transport.FunnelResponse, error)
}

type Handler struct {
	svc Service
	val *validator.Validator
	log *logger.Logger
}

func New(svc Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/journeys", h.List)
	rg.GET("/journeys/:leadId", h.Get)
	rg.GET("/performance", h.Performance)
	rg.GET("/dashboard/funnel", h.Funnel)
}

func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var q transport.ListJourneysQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Abort(c, apperr.Validation(msgValidationFailed).WithDetails(err.Error()))
		return
	}

	resp, err := h.svc.ListJourneys(c.Request.Context(), id.WorkspaceID(), q.Limit)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Get(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	leadID := strings.ToUpper(strings.TrimSpace(c.Param("leadId")))
	if err := h.val.Var(leadID, "leadid"); err != nil {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidLeadID))
		return
	}

	resp, err := h.svc.GetJourney(c.Request.Context(), id.WorkspaceID(), leadID)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Performance(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	resp, err := h.svc.Performance(c.Request.Context(), id.WorkspaceID())
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Funnel(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	resp, err := h.svc.Funnel(c.Request.Context(), id.WorkspaceID())
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, resp)
}
