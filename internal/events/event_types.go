package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketCommented     EventType = "ticket_commented"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Code     string                `json:"code"`
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`
	DueAt    time.Time             `json:"due_at"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	CommentID   string `json:"comment_id"`
	AuthorID    string `json:"author_id"`
	BodyPreview string `json:"body_preview"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Code string `json:"code"`
}
