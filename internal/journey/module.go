// Package journey provides the journey/attribution bounded context module.
// It derives per-lead journeys, the per-tool performance rollup and the
// dashboard funnel from raw workspace records.
package journey

import (
	"context"

	"gtm_backend/internal/events"
	apphttp "gtm_backend/internal/http"
	"gtm_backend/internal/integrations/catalog"
	"gtm_backend/internal/journey/cache"
	"gtm_backend/internal/journey/domain"
	"gtm_backend/internal/journey/handler"
	"gtm_backend/internal/journey/repository"
	"gtm_backend/internal/journey/service"
	"gtm_backend/internal/scheduler"
	"gtm_backend/platform/config"
	"gtm_backend/platform/logger"
	"gtm_backend/platform/money"
	"gtm_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the journey bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	refresh scheduler.PerformanceRefreshEnqueuer
	log     *logger.Logger
}

// Dependencies are the optional collaborators of the module. A nil Cache
// disables snapshot caching; a nil Refresh skips background recomputation.
type Dependencies struct {
	Cache   *cache.PerformanceCache
	Refresh scheduler.PerformanceRefreshEnqueuer
}

// NewModule creates and initializes the journey module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.JourneyConfig, deps Dependencies, log *logger.Logger) *Module {
	formatter := money.NewFormatter(cfg.GetDefaultCurrency())

	var perfCache service.PerformanceCache
	if deps.Cache != nil {
		perfCache = deps.Cache
	}

	svc := service.New(
		repository.New(pool),
		perfCache,
		formatter,
		domain.NewAggregator(catalog.Default(), formatter),
		cfg,
		log,
	)

	m := &Module{
		handler: handler.New(svc, val, log),
		service: svc,
		refresh: deps.Refresh,
		log:     log,
	}
	if eventBus != nil {
		m.RegisterHandlers(eventBus)
	}
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "journey"
}

// Service exposes the journey service to the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts journey routes on the protected group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// RegisterHandlers subscribes to events that change performance inputs.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		return m.performanceChanged(ctx, e.WorkspaceID)
	}))

	bus.Subscribe(events.LeadJourneyChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadJourneyChanged)
		if !ok {
			return nil
		}
		return m.performanceChanged(ctx, e.WorkspaceID)
	}))

	bus.Subscribe(events.IntegrationConnectionChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.IntegrationConnectionChanged)
		if !ok {
			return nil
		}
		return m.performanceChanged(ctx, e.WorkspaceID)
	}))
}

// performanceChanged drops the cached snapshot and asks the worker to rebuild
// it. Both steps are best effort; the next read recomputes on a miss.
func (m *Module) performanceChanged(ctx context.Context, workspaceID uuid.UUID) error {
	log := m.log.WithWorkspaceID(workspaceID.String())
	if err := m.service.InvalidatePerformance(ctx, workspaceID); err != nil {
		log.CacheError("invalidate", err)
	}
	if m.refresh != nil {
		if err := m.refresh.EnqueuePerformanceRefresh(ctx, workspaceID); err != nil {
			log.Warn("failed to enqueue performance refresh", "error", err)
		}
	}
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
