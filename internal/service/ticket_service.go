package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/lifecycle"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates the ticket lifecycle: creation, transitions,
// comments, assignment and deletion, with every mutation gated by the
// authorization table and the status graph.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
}

// TicketListFilter describes optional listing filters. Each present field
// is an exact-match constraint; multiple fields compose with AND.
type TicketListFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Category *domain.TicketCategory
}

// Create validates the payload, derives the SLA deadline and stores a new
// open ticket owned by the actor.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !authz.CanCreateTicket(actor.Role) {
		return nil, apperrors.NewForbidden("only end-users raise tickets")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", map[string]any{"field": "title"})
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{"field": "description"})
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if !domain.ValidCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}

	createdAt := time.Now()
	dueAt, err := sla.DueDate(input.Priority, createdAt)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		Code:        generateTicketCode(),
		Title:       title,
		Description: description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		CreatorID:   actor.ID,
		CreatedAt:   createdAt,
		DueAt:       dueAt,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Code:     ticket.Code,
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
			DueAt:    ticket.DueAt,
		},
	})
	return ticket, nil
}

// Get returns the ticket with its comment thread when the actor's
// visibility scope includes it. Out-of-scope tickets surface as not-found
// so existence is never leaked.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error) {
	ticket, err := s.visibleTicket(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// List returns the actor's visible tickets, most recently created first,
// narrowed by the optional filters.
func (s *TicketService) List(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	repoFilter := repository.TicketFilter{
		Status:   filter.Status,
		Priority: filter.Priority,
		Category: filter.Category,
	}
	applyVisibilityScope(&repoFilter, actor)
	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateStatus applies a lifecycle transition. The edge is validated
// against the status read in this call; a concurrent writer winning the
// race surfaces as a conflict so the caller can re-read and retry.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, id string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	if !authz.CanTransition(actor.Role) {
		return nil, apperrors.NewForbidden("status changes require an agent or admin")
	}

	ticket, err := s.visibleTicket(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition(string(ticket.Status), string(newStatus))
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
		now := time.Now()
		ticket.ResolvedAt = &now
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapUpdateError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	if err := s.loadComments(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// AddComment appends to the ticket's discussion thread. Appends never
// conflict with each other or with status transitions.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, id, body string) (*domain.Ticket, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment text required", map[string]any{"field": "text"})
	}

	ticket, err := s.visibleTicket(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanComment(actor, ticket) {
		return nil, apperrors.NewForbidden("commenting not permitted")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		AuthorID: actor.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCommentedPayload{
			CommentID:   comment.ID,
			AuthorID:    comment.AuthorID,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	if err := s.loadComments(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Assign sets the ticket's assignee. Admins may hand a ticket to any staff
// member; agents may only claim a ticket for themselves.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, id, assigneeID string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !authz.CanAssign(actor.Role, assigneeID == actor.ID) {
		return nil, apperrors.NewForbidden("assignment not permitted")
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("assignee not found", map[string]any{"assignee_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Role.Staff() {
		return nil, apperrors.NewValidationError("assignee must be an agent or admin", map[string]any{"assignee_id": assigneeID})
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapUpdateError(err, id)
	}
	// Agents may claim unassigned tickets, so the assignment path checks
	// claimability instead of the read scope.
	if actor.Role == domain.RoleAgent && ticket.AssigneeID != nil && *ticket.AssigneeID != actor.ID {
		return nil, apperrors.NewForbidden("ticket already assigned")
	}

	ticket.AssigneeID = &assignee.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapUpdateError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketAssignedPayload{
			AssigneeID: ticket.AssigneeID,
		},
	})
	if err := s.loadComments(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Delete hard-removes a ticket. Admin only, irreversible, outside the
// lifecycle graph.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("actor required")
	}
	if !authz.CanDelete(actor.Role) {
		return apperrors.NewForbidden("deletion requires an admin")
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.MapError(err)
	}

	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload:  events.TicketDeletedPayload{Code: ticket.Code},
	})
	return nil
}

// visibleTicket loads a ticket and enforces the actor's visibility scope,
// collapsing out-of-scope access into not-found.
func (s *TicketService) visibleTicket(ctx context.Context, actor *domain.User, id string) (*domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !authz.CanView(actor, ticket) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return ticket, nil
}

func (s *TicketService) loadComments(ctx context.Context, ticket *domain.Ticket) error {
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	ticket.Comments = comments
	return nil
}

func applyVisibilityScope(filter *repository.TicketFilter, actor *domain.User) {
	switch actor.Role {
	case domain.RoleUser:
		filter.CreatorID = &actor.ID
	case domain.RoleAgent:
		filter.AssigneeID = &actor.ID
	case domain.RoleAdmin:
		// unrestricted
	}
}

func mapUpdateError(err error, ticketID string) error {
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict("ticket was modified concurrently; re-read and retry", map[string]any{"ticket_id": ticketID})
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	default:
		return apperrors.MapError(err)
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateTicketCode() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
