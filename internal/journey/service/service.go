// Package service reads raw records for a workspace and runs them through the
// journey domain.
package service

import (
	"context"
	"errors"
	"fmt"

	"gtm_backend/internal/journey/domain"
	"gtm_backend/internal/journey/repository"
	"gtm_backend/internal/journey/transport"
	"gtm_backend/platform/apperr"
	"gtm_backend/platform/config"
	"gtm_backend/platform/logger"
	"gtm_backend/platform/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize    = 50
	defaultMaxPageSize = 200
)

// Repository is the read surface the journey service needs.
type Repository interface {
	repository.Reader
}

// PerformanceCache stores computed performance snapshots. Invalidate bumps
// the workspace version; SetIfVersion skips the write when the version moved.
type PerformanceCache interface {
	Get(ctx context.Context, workspaceID uuid.UUID) (domain.Performance, bool, error)
	Version(ctx context.Context, workspaceID uuid.UUID) (int64, error)
	SetIfVersion(ctx context.Context, workspaceID uuid.UUID, perf domain.Performance, version int64) (bool, error)
	Invalidate(ctx context.Context, workspaceID uuid.UUID) error
}

type Service struct {
	repo        Repository
	cache       PerformanceCache
	money       domain.MoneyFormatter
	aggregator  *domain.Aggregator
	pageSize    int
	maxPageSize int
	log         *logger.Logger
}

// New creates the journey service. cache may be nil.
func New(repo Repository, cache PerformanceCache, money domain.MoneyFormatter, aggregator *domain.Aggregator, cfg config.JourneyConfig, log *logger.Logger) *Service {
	pageSize, maxPageSize := defaultPageSize, defaultMaxPageSize
	if cfg != nil {
		if cfg.GetJourneyMaxPageSize() > 0 {
			maxPageSize = cfg.GetJourneyMaxPageSize()
		}
		if cfg.GetJourneyPageSize() > 0 {
			pageSize = min(cfg.GetJourneyPageSize(), maxPageSize)
		}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:        repo,
		cache:       cache,
		money:       money,
		aggregator:  aggregator,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
		log:         log,
	}
}

// stepReporter logs and counts stored step payloads that failed to parse.
type stepReporter struct {
	log *logger.Logger
}

func (r stepReporter) MalformedJourneySteps(leadID string, err error) {
	r.log.MalformedJourneySteps(leadID, err)
	metrics.RecordMalformedJourneySteps()
}

func (s *Service) assembler(ctx context.Context) *domain.Assembler {
	return domain.NewAssembler(s.money, stepReporter{log: s.log.WithContext(ctx)})
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.pageSize
	}
	return min(limit, s.maxPageSize)
}

// ListJourneys returns journeys for the newest leads of a workspace.
func (s *Service) ListJourneys(ctx context.Context, workspaceID uuid.UUID, limit int) (transport.JourneyListResponse, error) {
	leads, err := s.repo.ListRecentLeads(ctx, workspaceID, s.clampLimit(limit))
	if err != nil {
		return transport.JourneyListResponse{}, err
	}

	rel, err := s.loadRelations(ctx, workspaceID, leads)
	if err != nil {
		return transport.JourneyListResponse{}, err
	}

	journeys := s.assembler(ctx).AssembleAll(leads, rel)
	out := make([]transport.JourneyResponse, 0, len(journeys))
	for _, j := range journeys {
		metrics.RecordJourney(string(j.Status))
		out = append(out, toJourneyResponse(j))
	}
	return transport.JourneyListResponse{Journeys: out}, nil
}

// GetJourney returns the journey of a single lead.
func (s *Service) GetJourney(ctx context.Context, workspaceID uuid.UUID, leadID string) (transport.JourneyResponse, error) {
	lead, err := s.repo.GetLead(ctx, workspaceID, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.JourneyResponse{}, apperr.NotFound("lead not found")
		}
		return transport.JourneyResponse{}, err
	}

	leads := []domain.Lead{lead}
	rel, err := s.loadRelations(ctx, workspaceID, leads)
	if err != nil {
		return transport.JourneyResponse{}, err
	}

	j := s.assembler(ctx).AssembleAll(leads, rel)[0]
	metrics.RecordJourney(string(j.Status))
	return toJourneyResponse(j), nil
}

// loadRelations fetches deals and enrollments for a page of leads. The three
// reads are independent and run concurrently.
func (s *Service) loadRelations(ctx context.Context, workspaceID uuid.UUID, leads []domain.Lead) (domain.LeadRelations, error) {
	accountIDs, contactIDs := relationIDs(leads)

	var byAccount, byContact []domain.Deal
	var enrollments []domain.SequenceEnrollment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byAccount, err = s.repo.ListDealsByAccounts(gctx, workspaceID, accountIDs)
		return err
	})
	g.Go(func() error {
		var err error
		byContact, err = s.repo.ListDealsByContacts(gctx, workspaceID, contactIDs)
		return err
	})
	g.Go(func() error {
		var err error
		enrollments, err = s.repo.ListEnrollmentsByContacts(gctx, workspaceID, contactIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.LeadRelations{}, fmt.Errorf("load journey relations: %w", err)
	}

	rel := domain.LeadRelations{
		DealsByAccount:     make(map[string][]domain.Deal),
		DealsByContact:     make(map[string][]domain.Deal),
		EnrollmentsContact: make(map[string][]domain.SequenceEnrollment),
	}
	for _, d := range byAccount {
		if d.AccountID != nil {
			k := d.AccountID.String()
			rel.DealsByAccount[k] = append(rel.DealsByAccount[k], d)
		}
	}
	for _, d := range byContact {
		if d.PrimaryContactID != nil {
			k := d.PrimaryContactID.String()
			rel.DealsByContact[k] = append(rel.DealsByContact[k], d)
		}
	}
	for _, e := range enrollments {
		k := e.ContactID.String()
		rel.EnrollmentsContact[k] = append(rel.EnrollmentsContact[k], e)
	}
	return rel, nil
}

func relationIDs(leads []domain.Lead) (accountIDs, contactIDs []uuid.UUID) {
	seenAccounts := make(map[uuid.UUID]struct{})
	seenContacts := make(map[uuid.UUID]struct{})
	for _, l := range leads {
		if l.AccountID != nil {
			if _, ok := seenAccounts[*l.AccountID]; !ok {
				seenAccounts[*l.AccountID] = struct{}{}
				accountIDs = append(accountIDs, *l.AccountID)
			}
		}
		if l.ContactID != nil {
			if _, ok := seenContacts[*l.ContactID]; !ok {
				seenContacts[*l.ContactID] = struct{}{}
				contactIDs = append(contactIDs, *l.ContactID)
			}
		}
	}
	return accountIDs, contactIDs
}

// Performance returns the per-tool rollup, served from cache when possible.
func (s *Service) Performance(ctx context.Context, workspaceID uuid.UUID) (transport.PerformanceResponse, error) {
	log := s.log.WithContext(ctx)

	if s.cache == nil {
		perf, err := s.ComputePerformance(ctx, workspaceID)
		if err != nil {
			return transport.PerformanceResponse{}, err
		}
		return toPerformanceResponse(perf), nil
	}

	perf, ok, err := s.cache.Get(ctx, workspaceID)
	if err != nil {
		log.CacheError("get", err)
	}
	metrics.RecordCacheLookup(ok)
	if ok {
		return toPerformanceResponse(perf), nil
	}

	version, verr := s.cache.Version(ctx, workspaceID)
	if verr != nil {
		log.CacheError("version", verr)
	}
	perf, err = s.ComputePerformance(ctx, workspaceID)
	if err != nil {
		return transport.PerformanceResponse{}, err
	}
	if verr == nil {
		if _, err := s.cache.SetIfVersion(ctx, workspaceID, perf, version); err != nil {
			log.CacheError("set", err)
		}
	}
	return toPerformanceResponse(perf), nil
}

// ComputePerformance recomputes the rollup from storage, bypassing the cache.
func (s *Service) ComputePerformance(ctx context.Context, workspaceID uuid.UUID) (domain.Performance, error) {
	var (
		leadCount int
		closed    []domain.Deal
		providers []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leadCount, err = s.repo.CountLeads(gctx, workspaceID)
		return err
	})
	g.Go(func() error {
		var err error
		closed, err = s.repo.ListClosedDeals(gctx, workspaceID)
		return err
	})
	g.Go(func() error {
		var err error
		providers, err = s.repo.ListConnectedProviders(gctx, workspaceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Performance{}, fmt.Errorf("load performance inputs: %w", err)
	}

	return s.aggregator.Aggregate(domain.PerformanceInput{
		LeadCount:          leadCount,
		WonDeals:           closed,
		ConnectedProviders: providers,
	}), nil
}

// RefreshPerformance recomputes and stores the snapshot. A snapshot computed
// across an invalidation is dropped; the invalidation enqueues its own refresh.
func (s *Service) RefreshPerformance(ctx context.Context, workspaceID uuid.UUID) error {
	var version int64
	if s.cache != nil {
		v, err := s.cache.Version(ctx, workspaceID)
		if err != nil {
			return fmt.Errorf("read performance version: %w", err)
		}
		version = v
	}
	perf, err := s.ComputePerformance(ctx, workspaceID)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	stored, err := s.cache.SetIfVersion(ctx, workspaceID, perf, version)
	if err != nil {
		return err
	}
	if !stored {
		s.log.WithContext(ctx).Debug("performance snapshot superseded", "workspace_id", workspaceID.String())
	}
	return nil
}

// InvalidatePerformance drops the cached snapshot of a workspace.
func (s *Service) InvalidatePerformance(ctx context.Context, workspaceID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, workspaceID)
}

// Funnel returns the dashboard funnel for a workspace.
func (s *Service) Funnel(ctx context.Context, workspaceID uuid.UUID) (transport.FunnelResponse, error) {
	counts, err := s.repo.CountLeadsByStatus(ctx, workspaceID)
	if err != nil {
		return transport.FunnelResponse{}, err
	}
	return toFunnelResponse(domain.BucketFunnel(counts)), nil
}
