// Package memory provides in-memory repository implementations. They back
// the test suite and let the service run without a database, with the same
// version-check semantics as the Postgres layer.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type ticketRepository struct {
	mu      sync.Mutex
	seq     int64
	order   map[string]int64
	tickets map[string]domain.Ticket
}

// NewTicketRepository returns an in-memory ticket store.
func NewTicketRepository() repository.TicketRepository {
	return &ticketRepository{
		order:   map[string]int64{},
		tickets: map[string]domain.Ticket{},
	}
}

func (r *ticketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = ticket.CreatedAt
	ticket.Version = 1
	r.seq++
	r.order[ticket.ID] = r.seq
	r.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *ticketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneTicket(stored)
	return &out, nil
}

func (r *ticketRepository) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, stored := range r.tickets {
		if !matches(filter, stored) {
			continue
		}
		result = append(result, cloneTicket(stored))
	}
	// Most recently created first; insertion order breaks timestamp ties.
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return r.order[result[i].ID] > r.order[result[j].ID]
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *ticketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	ticket.Version++
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *ticketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tickets, id)
	delete(r.order, id)
	return nil
}

func matches(filter repository.TicketFilter, ticket domain.Ticket) bool {
	if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
		return false
	}
	if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
		return false
	}
	if filter.Status != nil && ticket.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && ticket.Priority != *filter.Priority {
		return false
	}
	if filter.Category != nil && ticket.Category != *filter.Category {
		return false
	}
	return true
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	out := t
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		out.AssigneeID = &assignee
	}
	if t.ResolvedAt != nil {
		resolved := *t.ResolvedAt
		out.ResolvedAt = &resolved
	}
	out.Comments = append([]domain.Comment(nil), t.Comments...)
	return out
}

type commentRepository struct {
	mu       sync.Mutex
	byTicket map[string][]domain.Comment
}

// NewCommentRepository returns an in-memory comment store.
func NewCommentRepository() repository.CommentRepository {
	return &commentRepository{byTicket: map[string][]domain.Comment{}}
}

func (r *commentRepository) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.byTicket[comment.TicketID] = append(r.byTicket[comment.TicketID], *comment)
	return nil
}

func (r *commentRepository) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.Comment(nil), r.byTicket[ticketID]...), nil
}

type userRepository struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewUserRepository returns an in-memory user store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    map[string]domain.User{},
		byEmail: map[string]string{},
	}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.byEmail[strings.ToLower(user.Email)] = user.ID
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}
