package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func seedTicket(t *testing.T, repo repository.TicketRepository, ticket domain.Ticket) *domain.Ticket {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &ticket))
	return &ticket
}

func TestTicketCreateAssignsIDAndVersion(t *testing.T) {
	repo := NewTicketRepository()

	ticket := seedTicket(t, repo, domain.Ticket{Title: "printer jam", CreatorID: "u1"})

	assert.NotEmpty(t, ticket.ID)
	assert.EqualValues(t, 1, ticket.Version)
	assert.False(t, ticket.CreatedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "printer jam", stored.Title)
}

func TestTicketGetByIDNotFound(t *testing.T) {
	repo := NewTicketRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketUpdateVersionConflict(t *testing.T) {
	repo := NewTicketRepository()
	ticket := seedTicket(t, repo, domain.Ticket{Title: "vpn down", CreatorID: "u1", Status: domain.TicketStatusOpen})

	first, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)

	first.Status = domain.TicketStatusInProgress
	require.NoError(t, repo.Update(context.Background(), first))
	assert.EqualValues(t, 2, first.Version)

	// The stale copy loses the race.
	second.Status = domain.TicketStatusInProgress
	err = repo.Update(context.Background(), second)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)

	stored, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, stored.Status)
	assert.EqualValues(t, 2, stored.Version)
}

func TestTicketListMostRecentFirst(t *testing.T) {
	repo := NewTicketRepository()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	oldest := seedTicket(t, repo, domain.Ticket{Title: "first", CreatorID: "u1", CreatedAt: base})
	middle := seedTicket(t, repo, domain.Ticket{Title: "second", CreatorID: "u1", CreatedAt: base.Add(time.Hour)})
	newest := seedTicket(t, repo, domain.Ticket{Title: "third", CreatorID: "u1", CreatedAt: base.Add(2 * time.Hour)})

	tickets, err := repo.List(context.Background(), repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, newest.ID, tickets[0].ID)
	assert.Equal(t, middle.ID, tickets[1].ID)
	assert.Equal(t, oldest.ID, tickets[2].ID)
}

func TestTicketListTimestampTieBreaksByInsertion(t *testing.T) {
	repo := NewTicketRepository()
	createdAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	first := seedTicket(t, repo, domain.Ticket{Title: "a", CreatorID: "u1", CreatedAt: createdAt})
	second := seedTicket(t, repo, domain.Ticket{Title: "b", CreatorID: "u1", CreatedAt: createdAt})

	tickets, err := repo.List(context.Background(), repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, second.ID, tickets[0].ID)
	assert.Equal(t, first.ID, tickets[1].ID)
}

func TestTicketListFiltersComposeWithAnd(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	seedTicket(t, repo, domain.Ticket{
		Title: "laptop", CreatorID: "u1",
		Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, Category: domain.TicketCategoryIT,
	})
	match := seedTicket(t, repo, domain.Ticket{
		Title: "badge", CreatorID: "u1",
		Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh, Category: domain.TicketCategoryHR,
	})
	seedTicket(t, repo, domain.Ticket{
		Title: "payroll", CreatorID: "u2",
		Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityHigh, Category: domain.TicketCategoryHR,
	})

	status := domain.TicketStatusOpen
	priority := domain.TicketPriorityHigh
	category := domain.TicketCategoryHR
	tickets, err := repo.List(ctx, repository.TicketFilter{Status: &status, Priority: &priority, Category: &category})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, match.ID, tickets[0].ID)
}

func TestTicketListScopeFilters(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()
	agentID := "a1"

	mine := seedTicket(t, repo, domain.Ticket{Title: "mine", CreatorID: "u1"})
	assigned := seedTicket(t, repo, domain.Ticket{Title: "assigned", CreatorID: "u2", AssigneeID: &agentID})

	creator := "u1"
	tickets, err := repo.List(ctx, repository.TicketFilter{CreatorID: &creator})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, mine.ID, tickets[0].ID)

	tickets, err = repo.List(ctx, repository.TicketFilter{AssigneeID: &agentID})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, assigned.ID, tickets[0].ID)
}

func TestTicketDelete(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()
	ticket := seedTicket(t, repo, domain.Ticket{Title: "gone", CreatorID: "u1"})

	require.NoError(t, repo.Delete(ctx, ticket.ID))

	_, err := repo.GetByID(ctx, ticket.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ticket.ID), repository.ErrNotFound)
}

func TestCloneIsolation(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()
	assignee := "a1"
	ticket := seedTicket(t, repo, domain.Ticket{Title: "isolated", CreatorID: "u1", AssigneeID: &assignee})

	loaded, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	*loaded.AssigneeID = "tampered"
	loaded.Title = "tampered"

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "isolated", stored.Title)
	assert.Equal(t, "a1", *stored.AssigneeID)
}

func TestCommentsAppendInOrder(t *testing.T) {
	repo := NewCommentRepository()
	ctx := context.Background()

	first := &domain.Comment{TicketID: "t1", AuthorID: "u1", Body: "first"}
	second := &domain.Comment{TicketID: "t1", AuthorID: "a1", Body: "second"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &domain.Comment{TicketID: "t2", AuthorID: "u2", Body: "other thread"}))

	comments, err := repo.ListByTicket(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)
	assert.NotEmpty(t, comments[0].ID)
}

func TestUserLookupByEmailIsCaseInsensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	user := &domain.User{Name: "Dana", Email: "Dana@Example.com", Role: domain.RoleAgent}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.GetByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
