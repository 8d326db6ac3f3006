package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketStatuses lists every valid status value.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s TicketStatus) bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status ends SLA tracking.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// TicketPriorities lists every valid priority value.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityCritical,
}

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	for _, candidate := range TicketPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// TicketCategory enumerates request categories.
type TicketCategory string

const (
	TicketCategoryIT      TicketCategory = "IT"
	TicketCategoryHR      TicketCategory = "HR"
	TicketCategoryGeneral TicketCategory = "General"
)

// TicketCategories lists every valid category value.
var TicketCategories = []TicketCategory{
	TicketCategoryIT,
	TicketCategoryHR,
	TicketCategoryGeneral,
}

// ValidCategory reports whether c is a known category value.
func ValidCategory(c TicketCategory) bool {
	for _, candidate := range TicketCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests.
//
// DueAt is derived from priority at creation and never recomputed.
// ResolvedAt is stamped on the first transition into Resolved and then
// fixed. Version backs the optimistic concurrency check on mutation.
type Ticket struct {
	ID          string
	Code        string
	Title       string
	Description string
	Category    TicketCategory
	Priority    TicketPriority
	Status      TicketStatus
	CreatorID   string
	AssigneeID  *string
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
	DueAt       time.Time
	Version     int64
}
