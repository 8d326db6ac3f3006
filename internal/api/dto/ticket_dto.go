package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketResponse provides the full ticket record.
type TicketResponse struct {
	ID          string                `json:"id"`
	Code        string                `json:"ticket_code"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatorID   string                `json:"creator_id"`
	AssigneeID  *string               `json:"assignee_id,omitempty"`
	Comments    []CommentResponse     `json:"comments"`
	CreatedAt   time.Time             `json:"created_at"`
	ResolvedAt  *time.Time            `json:"resolved_at,omitempty"`
	DueAt       time.Time             `json:"sla_due_at"`
	Overdue     bool                  `json:"overdue"`
}

// NewTicketResponse maps a domain ticket, deriving the overdue flag at
// render time.
func NewTicketResponse(ticket *domain.Ticket, now time.Time) TicketResponse {
	comments := make([]CommentResponse, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		comments = append(comments, CommentResponse{
			ID:        comment.ID,
			AuthorID:  comment.AuthorID,
			Text:      comment.Body,
			CreatedAt: comment.CreatedAt,
		})
	}
	return TicketResponse{
		ID:          ticket.ID,
		Code:        ticket.Code,
		Title:       ticket.Title,
		Description: ticket.Description,
		Category:    ticket.Category,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		CreatorID:   ticket.CreatorID,
		AssigneeID:  ticket.AssigneeID,
		Comments:    comments,
		CreatedAt:   ticket.CreatedAt,
		ResolvedAt:  ticket.ResolvedAt,
		DueAt:       ticket.DueAt,
		Overdue:     sla.IsOverdue(ticket, now),
	}
}

// NewTicketResponses maps a ticket list.
func NewTicketResponses(tickets []domain.Ticket, now time.Time) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i], now))
	}
	return items
}
