package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("lead not found")
	ErrIDConflict        = errors.New("lead id already taken")
	ErrAccountNotFound   = errors.New("account not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID           string
	WorkspaceID  uuid.UUID
	Source       *string
	Status       *string
	JourneySteps *string
	AccountID    *uuid.UUID
	ContactID    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateContactParams struct {
	Name  string
	Email *string
	Phone *string
}

type CreateLeadParams struct {
	ID           string
	WorkspaceID  uuid.UUID
	Source       *string
	Status       *string
	JourneySteps *string
	AccountID    *uuid.UUID
	Contact      *CreateContactParams
}

const leadColumns = `id, workspace_id, source, status, journey_steps, account_id, contact_id, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.WorkspaceID, &l.Source, &l.Status, &l.JourneySteps, &l.AccountID, &l.ContactID, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts a lead and, when requested, its contact in one transaction.
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Lead{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if params.AccountID != nil {
		var exists bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1 AND workspace_id = $2)
		`, *params.AccountID, params.WorkspaceID).Scan(&exists); err != nil {
			return Lead{}, fmt.Errorf("check account: %w", err)
		}
		if !exists {
			return Lead{}, ErrAccountNotFound
		}
	}

	var contactID *uuid.UUID
	if params.Contact != nil {
		id := uuid.New()
		if _, err := tx.Exec(ctx, `
			INSERT INTO contacts (id, workspace_id, account_id, name, email, phone)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, params.WorkspaceID, params.AccountID, params.Contact.Name, params.Contact.Email, params.Contact.Phone); err != nil {
			if isPgCode(err, pgForeignKeyViolation) {
				return Lead{}, ErrWorkspaceNotFound
			}
			return Lead{}, fmt.Errorf("insert contact: %w", err)
		}
		contactID = &id
	}

	lead, err := scanLead(tx.QueryRow(ctx, `
		INSERT INTO leads (id, workspace_id, source, status, journey_steps, account_id, contact_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns,
		params.ID, params.WorkspaceID, params.Source, params.Status, params.JourneySteps, params.AccountID, contactID))
	if err != nil {
		switch {
		case isPgCode(err, pgUniqueViolation):
			return Lead{}, ErrIDConflict
		case isPgCode(err, pgForeignKeyViolation):
			// the account was checked above, so the workspace row is missing
			return Lead{}, ErrWorkspaceNotFound
		}
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, workspaceID uuid.UUID, id string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE workspace_id = $1 AND id = $2
	`, workspaceID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateJourneySteps replaces the stored step payload; nil clears it.
func (r *Repository) UpdateJourneySteps(ctx context.Context, workspaceID uuid.UUID, id string, steps *string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET journey_steps = $3, updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+leadColumns,
		workspaceID, id, steps))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) UpdateStatus(ctx context.Context, workspaceID uuid.UUID, id string, status string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING `+leadColumns,
		workspaceID, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}
