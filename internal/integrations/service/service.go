// Package service exposes workspace integrations: the tool catalog merged
// with stored connection state, and connection upserts from sync agents.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"gtm_backend/internal/events"
	"gtm_backend/internal/integrations/catalog"
	"gtm_backend/internal/integrations/domain"
	"gtm_backend/internal/integrations/repository"
	"gtm_backend/internal/integrations/transport"
	"gtm_backend/platform/apperr"

	"github.com/google/uuid"
)

const maxMetadataBytes = 16 << 10

// Repository is the data access the integrations service needs.
type Repository interface {
	repository.ConnectionReader
	repository.ConnectionWriter
}

type Service struct {
	repo     Repository
	catalog  *catalog.Catalog
	eventBus events.Bus
}

func New(repo Repository, cat *catalog.Catalog, eventBus events.Bus) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{repo: repo, catalog: cat, eventBus: eventBus}
}

// List returns every catalog tool with the workspace's connection state.
// Stored rows for providers no longer in the catalog are skipped.
func (s *Service) List(ctx context.Context, workspaceID uuid.UUID) (transport.IntegrationListResponse, error) {
	conns, err := s.repo.ListConnections(ctx, workspaceID)
	if err != nil {
		return transport.IntegrationListResponse{}, err
	}

	byID := make(map[string]*repository.Connection, len(conns))
	for i := range conns {
		if id, ok := s.catalog.Resolve(conns[i].Provider); ok {
			byID[id] = &conns[i]
		}
	}

	tools := s.catalog.All()
	out := make([]transport.IntegrationResponse, 0, len(tools))
	for _, tool := range tools {
		out = append(out, toIntegrationResponse(tool, byID[tool.ID]))
	}
	return transport.IntegrationListResponse{Integrations: out}, nil
}

// Upsert records the connection state of one provider. A status change
// publishes IntegrationConnectionChanged.
func (s *Service) Upsert(ctx context.Context, workspaceID uuid.UUID, provider string, req transport.UpsertConnectionRequest) (transport.IntegrationResponse, error) {
	if req.Status == nil {
		return transport.IntegrationResponse{}, apperr.Validation("status is required")
	}
	tool, status, err := domain.Normalize(s.catalog, provider, req.Status)
	if err != nil {
		return transport.IntegrationResponse{}, apperr.NotFound("integration not found")
	}

	metadata, err := normalizeMetadata(req.Metadata)
	if err != nil {
		return transport.IntegrationResponse{}, err
	}

	conn, changed, err := s.repo.UpsertConnection(ctx, repository.UpsertConnectionParams{
		WorkspaceID: workspaceID,
		Provider:    tool.ID,
		Status:      string(status),
		Metadata:    metadata,
	})
	if errors.Is(err, repository.ErrWorkspaceNotFound) {
		return transport.IntegrationResponse{}, apperr.NotFound("workspace not found")
	}
	if err != nil {
		return transport.IntegrationResponse{}, err
	}

	if changed && s.eventBus != nil {
		s.eventBus.Publish(ctx, events.IntegrationConnectionChanged{
			BaseEvent:   events.NewBaseEvent(),
			WorkspaceID: workspaceID,
			Provider:    tool.ID,
			Status:      string(status),
		})
	}
	return toIntegrationResponse(tool, &conn), nil
}

// normalizeMetadata accepts an absent or null value (keep stored metadata)
// or a JSON object. Other shapes are rejected.
func normalizeMetadata(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) > maxMetadataBytes {
		return nil, apperr.Validation("metadata is too large")
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, apperr.Validation("metadata must be a JSON object")
	}
	return trimmed, nil
}
