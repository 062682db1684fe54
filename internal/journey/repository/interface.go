package repository

import (
	"context"

	"gtm_backend/internal/journey/domain"

	"github.com/google/uuid"
)

// LeadReader reads the lead side of a journey.
type LeadReader interface {
	ListRecentLeads(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Lead, error)
	GetLead(ctx context.Context, workspaceID uuid.UUID, leadID string) (domain.Lead, error)
	CountLeads(ctx context.Context, workspaceID uuid.UUID) (int, error)
	CountLeadsByStatus(ctx context.Context, workspaceID uuid.UUID) ([]domain.StatusCount, error)
}

// DealReader reads deals through the relations a lead can have.
type DealReader interface {
	ListDealsByAccounts(ctx context.Context, workspaceID uuid.UUID, accountIDs []uuid.UUID) ([]domain.Deal, error)
	ListDealsByContacts(ctx context.Context, workspaceID uuid.UUID, contactIDs []uuid.UUID) ([]domain.Deal, error)
	ListClosedDeals(ctx context.Context, workspaceID uuid.UUID) ([]domain.Deal, error)
}

// EnrollmentReader reads outbound sequence enrollments.
type EnrollmentReader interface {
	ListEnrollmentsByContacts(ctx context.Context, workspaceID uuid.UUID, contactIDs []uuid.UUID) ([]domain.SequenceEnrollment, error)
}

// ConnectionReader lists providers a workspace has connected.
type ConnectionReader interface {
	ListConnectedProviders(ctx context.Context, workspaceID uuid.UUID) ([]string, error)
}

// Reader is the full read surface the journey service needs.
type Reader interface {
	LeadReader
	DealReader
	EnrollmentReader
	ConnectionReader
}

var _ Reader = (*Repository)(nil)
