package repository

import (
	"context"

	"github.com/google/uuid"
)

// ConnectionReader reads stored connections.
type ConnectionReader interface {
	ListConnections(ctx context.Context, workspaceID uuid.UUID) ([]Connection, error)
}

// ConnectionWriter records connection state.
type ConnectionWriter interface {
	UpsertConnection(ctx context.Context, params UpsertConnectionParams) (Connection, bool, error)
}
