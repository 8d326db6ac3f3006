// Package sla maps ticket priority to the fixed response-time commitment
// and derives overdue status from the canonical timestamps. Nothing here
// is configurable and nothing here is ever persisted.
package sla

import (
	"fmt"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// responseWindows is the fixed priority -> response commitment table.
var responseWindows = map[domain.TicketPriority]time.Duration{
	domain.TicketPriorityCritical: 4 * time.Hour,
	domain.TicketPriorityHigh:     8 * time.Hour,
	domain.TicketPriorityMedium:   24 * time.Hour,
	domain.TicketPriorityLow:      48 * time.Hour,
}

// ResponseWindow returns the response commitment for a priority.
// Unknown priorities are a caller error, never silently defaulted.
func ResponseWindow(priority domain.TicketPriority) (time.Duration, error) {
	window, ok := responseWindows[priority]
	if !ok {
		return 0, fmt.Errorf("unknown priority %q", priority)
	}
	return window, nil
}

// DueDate computes the commitment deadline for a ticket created at createdAt.
func DueDate(priority domain.TicketPriority, createdAt time.Time) (time.Time, error) {
	window, err := ResponseWindow(priority)
	if err != nil {
		return time.Time{}, err
	}
	return createdAt.Add(window), nil
}

// IsOverdue reports whether the ticket has blown its deadline. Resolved and
// closed tickets are never overdue, regardless of their due date.
func IsOverdue(ticket *domain.Ticket, now time.Time) bool {
	if ticket == nil || ticket.Status.Terminal() {
		return false
	}
	return now.After(ticket.DueAt)
}
