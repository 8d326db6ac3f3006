package domain

import "time"

// Comment is a single entry in a ticket's discussion thread.
// Comments are append-only: never edited, never deleted.
type Comment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}
