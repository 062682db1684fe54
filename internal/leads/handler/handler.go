package handler

import (
	"context"
	"net/http"

	"gtm_backend/internal/leads/domain"
	"gtm_backend/internal/leads/transport"
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

// Service is what the handler needs from the lead service.
type Service interface {
	Create(ctx context.Context, workspaceID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID, id string) (transport.LeadResponse, error)
	SetJourneySteps(ctx context.Context, workspaceID uuid.UUID, id string, req transport.UpdateJourneyStepsRequest) (transport.LeadResponse, error)
	UpdateStatus(ctx context.Context, workspaceID uuid.UUID, id string, req transport.UpdateStatusRequest) (transport.LeadResponse, error)
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
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/journey-steps", h.SetJourneySteps)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Abort(c, apperr.Validation(msgValidationFailed).WithDetails(err.Error()))
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), id.WorkspaceID(), req)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id.WorkspaceID(), leadID)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) SetJourneySteps(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateJourneyStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	lead, err := h.svc.SetJourneySteps(c.Request.Context(), id.WorkspaceID(), leadID, req)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := h.leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Abort(c, apperr.Validation(msgValidationFailed).WithDetails(err.Error()))
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), id.WorkspaceID(), leadID, req)
	if httpkit.HandleError(c, h.log, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) leadID(c *gin.Context) (string, bool) {
	leadID := domain.NormalizeID(c.Param("id"))
	if !domain.ValidID(leadID) {
		httpkit.Abort(c, apperr.BadRequest(msgInvalidLeadID))
		return "", false
	}
	return leadID, true
}
