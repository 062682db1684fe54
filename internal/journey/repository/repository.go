package repository

import (
	"context"
	"errors"
	"fmt"

	"gtm_backend/internal/journey/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, workspace_id, source, status, journey_steps, account_id, contact_id, created_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(&l.ID, &l.WorkspaceID, &l.Source, &l.Status, &l.JourneySteps, &l.AccountID, &l.ContactID, &l.CreatedAt)
	return l, err
}

// ListRecentLeads returns the newest leads of a workspace, created_at DESC.
func (r *Repository) ListRecentLeads(ctx context.Context, workspaceID uuid.UUID, limit int) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE workspace_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, workspaceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0, limit)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *Repository) GetLead(ctx context.Context, workspaceID uuid.UUID, leadID string) (domain.Lead, error) {
	l, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE workspace_id = $1 AND id = $2
	`, workspaceID, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (r *Repository) CountLeads(ctx context.Context, workspaceID uuid.UUID) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE workspace_id = $1`, workspaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

// CountLeadsByStatus groups leads by their raw status text. Bucketing into
// funnel stages happens in the domain.
func (r *Repository) CountLeadsByStatus(ctx context.Context, workspaceID uuid.UUID) ([]domain.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM leads
		WHERE workspace_id = $1
		GROUP BY status
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusCount
	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

const dealColumns = `id, account_id, primary_contact_id, stage, closed_at, amount_cents, currency, updated_at`

func (r *Repository) queryDeals(ctx context.Context, query string, args ...any) ([]domain.Deal, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []domain.Deal
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(&d.ID, &d.AccountID, &d.PrimaryContactID, &d.Stage, &d.ClosedAt, &d.AmountCents, &d.Currency, &d.UpdatedAt); err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *Repository) ListDealsByAccounts(ctx context.Context, workspaceID uuid.UUID, accountIDs []uuid.UUID) ([]domain.Deal, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	deals, err := r.queryDeals(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE workspace_id = $1 AND account_id = ANY($2::uuid[])
	`, workspaceID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("list deals by account: %w", err)
	}
	return deals, nil
}

func (r *Repository) ListDealsByContacts(ctx context.Context, workspaceID uuid.UUID, contactIDs []uuid.UUID) ([]domain.Deal, error) {
	if len(contactIDs) == 0 {
		return nil, nil
	}
	deals, err := r.queryDeals(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE workspace_id = $1 AND primary_contact_id = ANY($2::uuid[])
	`, workspaceID, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("list deals by contact: %w", err)
	}
	return deals, nil
}

// ListClosedDeals returns every closed deal; won/lost is decided by the domain.
func (r *Repository) ListClosedDeals(ctx context.Context, workspaceID uuid.UUID) ([]domain.Deal, error) {
	deals, err := r.queryDeals(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE workspace_id = $1 AND closed_at IS NOT NULL
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list closed deals: %w", err)
	}
	return deals, nil
}

func (r *Repository) ListEnrollmentsByContacts(ctx context.Context, workspaceID uuid.UUID, contactIDs []uuid.UUID) ([]domain.SequenceEnrollment, error) {
	if len(contactIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, sequence_name
		FROM sequence_enrollments
		WHERE workspace_id = $1 AND contact_id = ANY($2::uuid[])
	`, workspaceID, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []domain.SequenceEnrollment
	for rows.Next() {
		var e domain.SequenceEnrollment
		if err := rows.Scan(&e.ID, &e.ContactID, &e.SequenceName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) ListConnectedProviders(ctx context.Context, workspaceID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT provider
		FROM integration_connections
		WHERE workspace_id = $1 AND status = 'connected'
		ORDER BY provider
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list connected providers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
