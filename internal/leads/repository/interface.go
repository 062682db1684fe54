package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, workspaceID uuid.UUID, id string) (Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	UpdateJourneySteps(ctx context.Context, workspaceID uuid.UUID, id string, steps *string) (Lead, error)
	UpdateStatus(ctx context.Context, workspaceID uuid.UUID, id string, status string) (Lead, error)
}

var (
	_ LeadReader = (*Repository)(nil)
	_ LeadWriter = (*Repository)(nil)
)
