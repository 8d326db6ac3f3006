package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict is returned when an update lost a race: the row's
// version no longer matches the version the caller read.
var ErrVersionConflict = errors.New("version conflict")

// TicketFilter captures listing constraints. Nil fields impose none;
// present fields compose with logical AND.
type TicketFilter struct {
	CreatorID  *string
	AssigneeID *string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Category   *domain.TicketCategory
	Limit      int
}

// TicketRepository encapsulates ticket persistence.
//
// Update performs a compare-and-swap on Ticket.Version: the write succeeds
// only if the stored version still equals the version on the passed ticket,
// and bumps it by one. A lost race surfaces as ErrVersionConflict.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository manages the append-only discussion thread.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

// UserRepository defines persistence access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
