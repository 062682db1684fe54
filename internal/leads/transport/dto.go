package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateContactRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type CreateLeadRequest struct {
	Source       *string               `json:"source" validate:"omitempty,max=64"`
	Status       *string               `json:"status" validate:"omitempty,max=64"`
	JourneySteps []string              `json:"journeySteps" validate:"omitempty,min=1,max=20,dive,required,max=64"`
	AccountID    *uuid.UUID            `json:"accountId"`
	Contact      *CreateContactRequest `json:"contact" validate:"omitempty"`
}

// UpdateJourneyStepsRequest sets or, with "steps": null, clears the curated steps.
type UpdateJourneyStepsRequest struct {
	Steps OptionalSteps `json:"steps"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=64"`
}

type LeadResponse struct {
	ID           string     `json:"id"`
	Source       *string    `json:"source"`
	Status       *string    `json:"status"`
	JourneySteps []string   `json:"journeySteps"`
	AccountID    *uuid.UUID `json:"accountId,omitempty"`
	ContactID    *uuid.UUID `json:"contactId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
