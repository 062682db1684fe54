package service

import (
	"encoding/json"

	"gtm_backend/internal/integrations/catalog"
	"gtm_backend/internal/integrations/domain"
	"gtm_backend/internal/integrations/repository"
	"gtm_backend/internal/integrations/transport"
)

func toIntegrationResponse(tool catalog.Tool, conn *repository.Connection) transport.IntegrationResponse {
	resp := transport.IntegrationResponse{
		ID:       tool.ID,
		Name:     tool.Name,
		Category: string(tool.Category),
		Status:   string(domain.StatusNotConnected),
	}
	if conn == nil {
		return resp
	}

	status := domain.NormalizeStatus(conn.Status)
	updatedAt := conn.UpdatedAt
	resp.Status = string(status)
	resp.Connected = status == domain.StatusConnected
	resp.UpdatedAt = &updatedAt
	if len(conn.Metadata) > 0 && json.Valid(conn.Metadata) {
		resp.Metadata = json.RawMessage(conn.Metadata)
	}
	return resp
}
