package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/repository/memory"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type fakeCache struct {
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func newAnalyticsFixture(t *testing.T, cache DashboardCache) (*AnalyticsService, repository.TicketRepository, repository.UserRepository) {
	t.Helper()
	tickets := memory.NewTicketRepository()
	users := memory.NewUserRepository()
	svc := NewAnalyticsService(AnalyticsDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		Cache:      cache,
		CacheTTL:   time.Minute,
	})
	return svc, tickets, users
}

func TestDashboardAdminOnly(t *testing.T) {
	svc, _, _ := newAnalyticsFixture(t, nil)
	ctx := context.Background()

	_, err := svc.Dashboard(ctx, &domain.User{ID: "u1", Role: domain.RoleUser})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.Dashboard(ctx, &domain.User{ID: "a1", Role: domain.RoleAgent})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.Dashboard(ctx, nil)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	summary, err := svc.Dashboard(ctx, &domain.User{ID: "adm", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalTickets)
}

func TestDashboardEmptySnapshot(t *testing.T) {
	svc, _, _ := newAnalyticsFixture(t, nil)

	summary, err := svc.Dashboard(context.Background(), &domain.User{ID: "adm", Role: domain.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalTickets)
	assert.Equal(t, 0, summary.ResolvedTickets)
	assert.Equal(t, 0, summary.ResolutionRate)
	assert.Equal(t, 0, summary.SLAComplianceRate)
	assert.Zero(t, summary.AvgResolutionHours)
	assert.Equal(t, 0, summary.OverdueTickets)
	assert.Empty(t, summary.TicketsByStatus)
	assert.Empty(t, summary.AgentPerformance)
	assert.Empty(t, summary.RecentTickets)
}

func TestComputeSummary(t *testing.T) {
	svc, _, users := newAnalyticsFixture(t, nil)
	ctx := context.Background()

	agentA := &domain.User{Name: "Alex", Email: "alex@example.com", Role: domain.RoleAgent}
	agentB := &domain.User{Name: "Blake", Email: "blake@example.com", Role: domain.RoleAgent}
	require.NoError(t, users.Create(ctx, agentA))
	require.NoError(t, users.Create(ctx, agentB))

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	now := base.Add(100 * time.Hour)
	resolvedAt := func(d time.Duration) *time.Time {
		ts := base.Add(d)
		return &ts
	}

	snapshot := []domain.Ticket{
		{ID: "t1", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium, Category: domain.TicketCategoryIT,
			CreatedAt: base, DueAt: base.Add(24 * time.Hour)},
		{ID: "t2", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium, Category: domain.TicketCategoryHR,
			CreatedAt: now.Add(-time.Hour), DueAt: now.Add(23 * time.Hour)},
		{ID: "t3", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityCritical, Category: domain.TicketCategoryIT,
			CreatedAt: base, DueAt: base.Add(4 * time.Hour)},
		{ID: "t4", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityCritical, Category: domain.TicketCategoryIT,
			CreatedAt: base, DueAt: base.Add(4 * time.Hour), ResolvedAt: resolvedAt(2 * time.Hour), AssigneeID: &agentA.ID},
		{ID: "t5", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityCritical, Category: domain.TicketCategoryGeneral,
			CreatedAt: base, DueAt: base.Add(4 * time.Hour), ResolvedAt: resolvedAt(6 * time.Hour), AssigneeID: &agentA.ID},
		{ID: "t6", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityMedium, Category: domain.TicketCategoryIT,
			CreatedAt: base, DueAt: base.Add(24 * time.Hour), ResolvedAt: resolvedAt(10 * time.Hour), AssigneeID: &agentB.ID},
	}

	summary := svc.computeSummary(ctx, snapshot, now)

	assert.Equal(t, 6, summary.TotalTickets)
	assert.Equal(t, 3, summary.ResolvedTickets, "resolved and closed both count")
	assert.Equal(t, 50, summary.ResolutionRate)
	assert.Equal(t, 67, summary.SLAComplianceRate, "2 of 3 resolved within their deadline")
	assert.InDelta(t, 6.0, summary.AvgResolutionHours, 1e-9)
	assert.Equal(t, 2, summary.OverdueTickets, "terminal tickets never count as overdue")

	assert.Equal(t, map[domain.TicketStatus]int{
		domain.TicketStatusOpen:       2,
		domain.TicketStatusInProgress: 1,
		domain.TicketStatusResolved:   2,
		domain.TicketStatusClosed:     1,
	}, summary.TicketsByStatus)
	assert.Equal(t, map[domain.TicketPriority]int{
		domain.TicketPriorityMedium:   3,
		domain.TicketPriorityCritical: 3,
	}, summary.TicketsByPriority)
	assert.Equal(t, map[domain.TicketCategory]int{
		domain.TicketCategoryIT:      4,
		domain.TicketCategoryHR:      1,
		domain.TicketCategoryGeneral: 1,
	}, summary.TicketsByCategory)

	require.Len(t, summary.AgentPerformance, 2)
	top := summary.AgentPerformance[0]
	assert.Equal(t, agentA.ID, top.AgentID)
	assert.Equal(t, "Alex", top.AgentName)
	assert.Equal(t, "alex@example.com", top.AgentEmail)
	assert.Equal(t, 2, top.TicketsResolved)
	assert.InDelta(t, 4.0, top.AvgResolutionHours, 1e-9)
	assert.Equal(t, agentB.ID, summary.AgentPerformance[1].AgentID)
	assert.Equal(t, 1, summary.AgentPerformance[1].TicketsResolved)

	require.Len(t, summary.RecentTickets, 6)
	assert.Equal(t, "t1", summary.RecentTickets[0].ID, "snapshot order is preserved")
}

func TestRecentTicketsCapped(t *testing.T) {
	svc, tickets, _ := newAnalyticsFixture(t, nil)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		ticket := domain.Ticket{
			Title:     fmt.Sprintf("ticket %d", i),
			Status:    domain.TicketStatusOpen,
			Priority:  domain.TicketPriorityLow,
			Category:  domain.TicketCategoryGeneral,
			CreatorID: "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			DueAt:     base.Add(time.Duration(i)*time.Hour + 48*time.Hour),
		}
		require.NoError(t, tickets.Create(ctx, &ticket))
	}

	summary, err := svc.Dashboard(ctx, &domain.User{ID: "adm", Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, summary.RecentTickets, 10)
	assert.Equal(t, "ticket 11", summary.RecentTickets[0].Title)
	assert.Equal(t, "ticket 2", summary.RecentTickets[9].Title)
}

func TestDashboardServedFromCache(t *testing.T) {
	cache := newFakeCache()
	svc, tickets, _ := newAnalyticsFixture(t, cache)
	ctx := context.Background()
	admin := &domain.User{ID: "adm", Role: domain.RoleAdmin}

	require.NoError(t, tickets.Create(ctx, &domain.Ticket{
		Title: "one", Status: domain.TicketStatusOpen,
		Priority: domain.TicketPriorityLow, Category: domain.TicketCategoryIT, CreatorID: "u1",
		DueAt: time.Now().Add(48 * time.Hour),
	}))

	first, err := svc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalTickets)
	assert.Equal(t, 1, cache.sets)

	// A new ticket is invisible until the cached summary expires.
	require.NoError(t, tickets.Create(ctx, &domain.Ticket{
		Title: "two", Status: domain.TicketStatusOpen,
		Priority: domain.TicketPriorityLow, Category: domain.TicketCategoryIT, CreatorID: "u1",
		DueAt: time.Now().Add(48 * time.Hour),
	}))

	second, err := svc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalTickets)
	assert.Equal(t, 1, cache.sets)

	delete(cache.data, dashboardCacheKey)
	third, err := svc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, third.TotalTickets)
}
