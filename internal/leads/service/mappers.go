package service

import (
	"encoding/json"

	journeydomain "gtm_backend/internal/journey/domain"
	"gtm_backend/internal/leads/repository"
	"gtm_backend/internal/leads/transport"
	"gtm_backend/platform/apperr"
)

// toLeadResponse decodes stored steps with the same tolerance the journey
// engine applies; an unusable payload is reported as no curated steps.
func toLeadResponse(l repository.Lead) transport.LeadResponse {
	steps, err := journeydomain.ParseJourneySteps(l.JourneySteps)
	if err != nil || steps == nil {
		steps = []string{}
	}
	return transport.LeadResponse{
		ID:           l.ID,
		Source:       l.Source,
		Status:       l.Status,
		JourneySteps: steps,
		AccountID:    l.AccountID,
		ContactID:    l.ContactID,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func encodeSteps(steps []string) (*string, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(steps)
	if err != nil {
		return nil, apperr.Internal("encode journey steps", err)
	}
	s := string(raw)
	return &s, nil
}
