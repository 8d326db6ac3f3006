package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestResponseWindow(t *testing.T) {
	cases := []struct {
		priority domain.TicketPriority
		window   time.Duration
	}{
		{domain.TicketPriorityCritical, 4 * time.Hour},
		{domain.TicketPriorityHigh, 8 * time.Hour},
		{domain.TicketPriorityMedium, 24 * time.Hour},
		{domain.TicketPriorityLow, 48 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(string(tc.priority), func(t *testing.T) {
			window, err := ResponseWindow(tc.priority)
			require.NoError(t, err)
			assert.Equal(t, tc.window, window)
		})
	}
}

func TestResponseWindowUnknownPriority(t *testing.T) {
	_, err := ResponseWindow(domain.TicketPriority("Urgent"))
	assert.Error(t, err)

	_, err = ResponseWindow(domain.TicketPriority(""))
	assert.Error(t, err)
}

func TestDueDate(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	dueAt, err := DueDate(domain.TicketPriorityCritical, createdAt)
	require.NoError(t, err)
	assert.Equal(t, createdAt.Add(4*time.Hour), dueAt)

	dueAt, err = DueDate(domain.TicketPriorityLow, createdAt)
	require.NoError(t, err)
	assert.Equal(t, createdAt.Add(48*time.Hour), dueAt)

	_, err = DueDate(domain.TicketPriority("bogus"), createdAt)
	assert.Error(t, err)
}

func TestIsOverdue(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	dueAt := createdAt.Add(4 * time.Hour)

	ticket := &domain.Ticket{
		Status:    domain.TicketStatusOpen,
		CreatedAt: createdAt,
		DueAt:     dueAt,
	}

	assert.False(t, IsOverdue(ticket, dueAt.Add(-time.Minute)))
	assert.False(t, IsOverdue(ticket, dueAt), "deadline itself is not past due")
	assert.True(t, IsOverdue(ticket, dueAt.Add(time.Minute)))

	ticket.Status = domain.TicketStatusInProgress
	assert.True(t, IsOverdue(ticket, dueAt.Add(time.Hour)))

	// Resolved and closed tickets stop SLA tracking even past the deadline.
	ticket.Status = domain.TicketStatusResolved
	assert.False(t, IsOverdue(ticket, dueAt.Add(time.Hour)))

	ticket.Status = domain.TicketStatusClosed
	assert.False(t, IsOverdue(ticket, dueAt.Add(time.Hour)))

	assert.False(t, IsOverdue(nil, dueAt))
}
