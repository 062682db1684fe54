package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrWorkspaceNotFound is returned when the workspace row does not exist.
var ErrWorkspaceNotFound = errors.New("workspace not found")

const pgForeignKeyViolation = "23503"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Connection struct {
	WorkspaceID uuid.UUID
	Provider    string
	Status      string
	Metadata    []byte
	UpdatedAt   time.Time
}

type UpsertConnectionParams struct {
	WorkspaceID uuid.UUID
	Provider    string
	Status      string
	Metadata    []byte // JSON object; nil keeps the stored metadata
}

func (r *Repository) ListConnections(ctx context.Context, workspaceID uuid.UUID) ([]Connection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT workspace_id, provider, status, metadata, updated_at
		FROM integration_connections
		WHERE workspace_id = $1
		ORDER BY provider
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var out []Connection
	for rows.Next() {
		var c Connection
		if err := rows.Scan(&c.WorkspaceID, &c.Provider, &c.Status, &c.Metadata, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertConnection stores the connection and reports whether the status
// differs from what was stored before.
func (r *Repository) UpsertConnection(ctx context.Context, params UpsertConnectionParams) (Connection, bool, error) {
	var (
		c        Connection
		previous *string
	)
	err := r.pool.QueryRow(ctx, `
		WITH prior AS (
			SELECT status FROM integration_connections
			WHERE workspace_id = $1 AND provider = $2
		)
		INSERT INTO integration_connections (workspace_id, provider, status, metadata, updated_at)
		VALUES ($1, $2, $3, COALESCE($4::jsonb, '{}'::jsonb), now())
		ON CONFLICT (workspace_id, provider) DO UPDATE
		SET status = EXCLUDED.status,
			metadata = COALESCE($4::jsonb, integration_connections.metadata),
			updated_at = now()
		RETURNING workspace_id, provider, status, metadata, updated_at, (SELECT status FROM prior)
	`, params.WorkspaceID, params.Provider, params.Status, params.Metadata).Scan(
		&c.WorkspaceID, &c.Provider, &c.Status, &c.Metadata, &c.UpdatedAt, &previous,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Connection{}, false, ErrWorkspaceNotFound
		}
		return Connection{}, false, fmt.Errorf("upsert connection: %w", err)
	}

	changed := previous == nil || *previous != c.Status
	return c, changed, nil
}

var (
	_ ConnectionReader = (*Repository)(nil)
	_ ConnectionWriter = (*Repository)(nil)
)
