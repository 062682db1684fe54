package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal outcome of a journey.
type Status string

const (
	StatusWon      Status = "won"
	StatusPipeline Status = "pipeline"
	StatusLost     Status = "lost"
)

// Lead is the raw lead record as stored.
type Lead struct {
	ID           string
	WorkspaceID  uuid.UUID
	Source       *string
	Status       *string
	JourneySteps *string // JSON-encoded array
	AccountID    *uuid.UUID
	ContactID    *uuid.UUID
	CreatedAt    time.Time
}

// Deal is a monetary opportunity linked to an account and/or a contact.
type Deal struct {
	ID               uuid.UUID
	AccountID        *uuid.UUID
	PrimaryContactID *uuid.UUID
	Stage            *string
	ClosedAt         *time.Time
	AmountCents      *int64
	Currency         *string
	UpdatedAt        time.Time
}

// SequenceEnrollment marks a contact as enrolled in an outbound sequence.
// Only its presence affects the journey.
type SequenceEnrollment struct {
	ID           uuid.UUID
	ContactID    uuid.UUID
	SequenceName string
}

// Journey is the derived, ordered path of one lead plus its outcome.
type Journey struct {
	ID       string
	Source   string
	Outbound string
	Status   Status
	MRR      *string
	Steps    []string
}

// MoneyFormatter renders cent amounts for display.
type MoneyFormatter interface {
	FormatCents(cents int64, currency string) string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
