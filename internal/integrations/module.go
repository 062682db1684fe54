// Package integrations provides the integrations bounded context module:
// the tool catalog and per-workspace connection state.
package integrations

import (
	"gtm_backend/internal/events"
	apphttp "gtm_backend/internal/http"
	"gtm_backend/internal/integrations/catalog"
	"gtm_backend/internal/integrations/handler"
	"gtm_backend/internal/integrations/repository"
	"gtm_backend/internal/integrations/service"
	"gtm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the integrations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the integrations module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), catalog.Default(), eventBus)
	return &Module{
		handler: handler.New(svc, log),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "integrations"
}

// Service returns the integrations service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts integration routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/integrations"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
