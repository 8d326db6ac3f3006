package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a Postgres-backed implementation.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	// created_at is written explicitly so due_at stays an exact
	// created_at + SLA window, not a clock re-read by the database.
	const query = `
        INSERT INTO tickets (code, creator_user_id, assignee_user_id, title, description, category, priority, status, due_at, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
        RETURNING id, version`
	return r.pool.QueryRow(ctx, query,
		ticket.Code,
		ticket.CreatorID,
		ticket.AssigneeID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.DueAt,
		ticket.CreatedAt,
	).Scan(&ticket.ID, &ticket.Version)
}

// Update writes mutable fields with a version check. When the versions do
// not match it distinguishes a lost race from a deleted row.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assignee_user_id=$1, status=$2, resolved_at=$3,
            version=version+1, updated_at=NOW()
        WHERE id=$4 AND version=$5
        RETURNING version, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.AssigneeID,
		ticket.Status,
		ticket.ResolvedAt,
		ticket.ID,
		ticket.Version,
	).Scan(&ticket.Version, &ticket.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var exists bool
	if checkErr := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE id=$1)`, ticket.ID,
	).Scan(&exists); checkErr != nil {
		return checkErr
	}
	if exists {
		return ErrVersionConflict
	}
	return ErrNotFound
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, code, creator_user_id, assignee_user_id, title, description,
               category, priority, status, due_at, resolved_at, version, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.DueAt,
		&ticket.ResolvedAt,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT id, code, creator_user_id, assignee_user_id, title, description,
                    category, priority, status, due_at, resolved_at, version, created_at, updated_at
             FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_user_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_user_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.CreatorID,
			&ticket.AssigneeID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.DueAt,
			&ticket.ResolvedAt,
			&ticket.Version,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
