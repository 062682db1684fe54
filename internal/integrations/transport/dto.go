package transport

import (
	"encoding/json"
	"time"
)

// UpsertConnectionRequest accepts the loose status shapes sync agents send:
// "connected", "active", true, 1 and so on. A missing status is rejected by
// the service since false is a valid value.
type UpsertConnectionRequest struct {
	Status   any             `json:"status"`
	Metadata json.RawMessage `json:"metadata"`
}

type IntegrationResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Status    string          `json:"status"`
	Connected bool            `json:"connected"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	UpdatedAt *time.Time      `json:"updatedAt,omitempty"`
}

type IntegrationListResponse struct {
	Integrations []IntegrationResponse `json:"integrations"`
}
