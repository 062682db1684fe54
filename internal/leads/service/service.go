// Package service handles manual lead entry and edits to the fields the
// journey engine reads.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gtm_backend/internal/events"
	"gtm_backend/internal/leads/domain"
	"gtm_backend/internal/leads/repository"
	"gtm_backend/internal/leads/transport"
	"gtm_backend/platform/apperr"
	"gtm_backend/platform/phone"
	"gtm_backend/platform/sanitize"
	"gtm_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	maxMintAttempts = 3
	maxFieldRunes   = 64
	maxNameRunes    = 200

	stepsRule = "min=1,max=20,dive,required,max=64"
)

// Repository is the data access the lead service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
}

type Service struct {
	repo     Repository
	eventBus events.Bus
	val      *validator.Validator
	mintID   func() string
}

func New(repo Repository, eventBus events.Bus, val *validator.Validator) *Service {
	return &Service{repo: repo, eventBus: eventBus, val: val, mintID: domain.NewID}
}

// Create mints an id and stores a manually entered lead.
func (s *Service) Create(ctx context.Context, workspaceID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	steps, err := s.cleanSteps(req.JourneySteps)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	encoded, err := encodeSteps(steps)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.CreateLeadParams{
		WorkspaceID:  workspaceID,
		Source:       sanitize.TextPtr(req.Source, maxFieldRunes),
		Status:       sanitize.TextPtr(req.Status, maxFieldRunes),
		JourneySteps: encoded,
		AccountID:    req.AccountID,
	}
	if req.Contact != nil {
		params.Contact = &repository.CreateContactParams{
			Name:  sanitize.Text(req.Contact.Name, maxNameRunes),
			Email: optional(strings.ToLower(strings.TrimSpace(req.Contact.Email))),
			Phone: optional(phone.NormalizeE164(req.Contact.Phone, phone.DefaultRegion)),
		}
		if params.Contact.Name == "" {
			return transport.LeadResponse{}, apperr.Validation("contact name is required")
		}
	}

	var lead repository.Lead
	for attempt := 1; ; attempt++ {
		params.ID = s.mintID()
		lead, err = s.repo.Create(ctx, params)
		if !errors.Is(err, repository.ErrIDConflict) || attempt == maxMintAttempts {
			break
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			return transport.LeadResponse{}, apperr.Validation("account not found")
		case errors.Is(err, repository.ErrWorkspaceNotFound):
			return transport.LeadResponse{}, apperr.NotFound("workspace not found")
		case errors.Is(err, repository.ErrIDConflict):
			return transport.LeadResponse{}, apperr.Conflict("could not allocate a lead id")
		}
		return transport.LeadResponse{}, fmt.Errorf("create lead: %w", err)
	}

	source := ""
	if lead.Source != nil {
		source = *lead.Source
	}
	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		WorkspaceID: workspaceID,
		Source:      source,
	})

	return toLeadResponse(lead), nil
}

func (s *Service) GetByID(ctx context.Context, workspaceID uuid.UUID, id string) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, workspaceID, domain.NormalizeID(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// SetJourneySteps stores a curated step list, or clears it on an explicit null.
func (s *Service) SetJourneySteps(ctx context.Context, workspaceID uuid.UUID, id string, req transport.UpdateJourneyStepsRequest) (transport.LeadResponse, error) {
	if !req.Steps.Set {
		return transport.LeadResponse{}, apperr.Validation("steps is required; send null to clear")
	}

	var encoded *string
	if !req.Steps.Clears() {
		steps, err := s.cleanSteps(req.Steps.Value)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if len(steps) == 0 {
			return transport.LeadResponse{}, apperr.Validation("steps must contain at least one tool; send null to clear")
		}
		if encoded, err = encodeSteps(steps); err != nil {
			return transport.LeadResponse{}, err
		}
	}

	lead, err := s.repo.UpdateJourneySteps(ctx, workspaceID, domain.NormalizeID(id), encoded)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	s.publishChanged(ctx, workspaceID, lead.ID, "journey_steps")
	return toLeadResponse(lead), nil
}

func (s *Service) UpdateStatus(ctx context.Context, workspaceID uuid.UUID, id string, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
	status := sanitize.Text(req.Status, maxFieldRunes)
	if status == "" {
		return transport.LeadResponse{}, apperr.Validation("status is required")
	}

	lead, err := s.repo.UpdateStatus(ctx, workspaceID, domain.NormalizeID(id), status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	s.publishChanged(ctx, workspaceID, lead.ID, "status")
	return toLeadResponse(lead), nil
}

func (s *Service) publishChanged(ctx context.Context, workspaceID uuid.UUID, leadID, field string) {
	s.eventBus.Publish(ctx, events.LeadJourneyChanged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      leadID,
		WorkspaceID: workspaceID,
		Field:       field,
	})
}

// cleanSteps sanitizes tool names and enforces the step list bounds.
func (s *Service) cleanSteps(raw []string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	steps := make([]string, 0, len(raw))
	for _, step := range raw {
		steps = append(steps, sanitize.Text(step, maxFieldRunes+1))
	}
	if err := s.val.Var(steps, stepsRule); err != nil {
		return nil, apperr.Validation("steps must hold 1 to 20 tool names of at most 64 characters").WithDetails(err.Error())
	}
	return steps, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
