// Package events holds the in-process event bus and the events the leads
// and integrations modules publish.
package events

import (
	"github.com/google/uuid"
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a lead is minted by manual entry.
type LeadCreated struct {
	BaseEvent
	LeadID      string    `json:"leadId"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Source      string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadJourneyChanged is published when a lead's curated steps or status change.
type LeadJourneyChanged struct {
	BaseEvent
	LeadID      string    `json:"leadId"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Field       string    `json:"field"` // "journey_steps" or "status"
}

func (e LeadJourneyChanged) EventName() string { return "leads.journey.changed" }

// =============================================================================
// Integrations Domain Events
// =============================================================================

// IntegrationConnectionChanged is published when a provider is connected or disconnected.
type IntegrationConnectionChanged struct {
	BaseEvent
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Provider    string    `json:"provider"`
	Status      string    `json:"status"`
}

func (e IntegrationConnectionChanged) EventName() string { return "integrations.connection.changed" }
