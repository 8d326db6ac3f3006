// Package lifecycle owns the ticket status graph. Validity is checked here
// once, centrally, instead of being re-derived at each call site.
package lifecycle

import "github.com/spec-kit/helpdesk-service/internal/domain"

// transitions enumerates every permitted status edge. Closed is terminal.
var transitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusOpen},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

// CanTransition reports whether the edge current -> next exists in the graph.
func CanTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range transitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable in one step from current.
func NextStatuses(current domain.TicketStatus) []domain.TicketStatus {
	out := make([]domain.TicketStatus, len(transitions[current]))
	copy(out, transitions[current])
	return out
}
