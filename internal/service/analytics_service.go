package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const dashboardCacheKey = "analytics:dashboard"

// DashboardCache caches computed summaries. The aggregation snapshot is
// allowed to be slightly stale, which is what makes caching safe here.
type DashboardCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// AgentPerformance summarizes one assignee's resolved workload.
type AgentPerformance struct {
	AgentID            string  `json:"agentId"`
	AgentName          string  `json:"agentName"`
	AgentEmail         string  `json:"agentEmail"`
	TicketsResolved    int     `json:"ticketsResolved"`
	AvgResolutionHours float64 `json:"avgResolutionTime"`
}

// AnalyticsSummary is the aggregate dashboard over the ticket snapshot.
type AnalyticsSummary struct {
	TotalTickets       int                            `json:"totalTickets"`
	ResolvedTickets    int                            `json:"resolvedTickets"`
	ResolutionRate     int                            `json:"resolutionRate"`
	AvgResolutionHours float64                        `json:"avgResolutionTime"`
	SLAComplianceRate  int                            `json:"slaComplianceRate"`
	OverdueTickets     int                            `json:"overdueTickets"`
	TicketsByStatus    map[domain.TicketStatus]int    `json:"ticketsByStatus"`
	TicketsByPriority  map[domain.TicketPriority]int  `json:"ticketsByPriority"`
	TicketsByCategory  map[domain.TicketCategory]int  `json:"ticketsByCategory"`
	AgentPerformance   []AgentPerformance             `json:"agentPerformance"`
	RecentTickets      []domain.Ticket                `json:"recentTickets"`
	GeneratedAt        time.Time                      `json:"generatedAt"`
}

// AnalyticsService computes read-only roll-ups over the ticket snapshot.
type AnalyticsService struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	cache       DashboardCache
	cacheTTL    time.Duration
	recentCount int
	logger      *zap.Logger
}

// AnalyticsDependencies bundles collaborators for the analytics service.
type AnalyticsDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	Cache       DashboardCache
	CacheTTL    time.Duration
	RecentCount int
	Logger      *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	recent := deps.RecentCount
	if recent <= 0 {
		recent = 10
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		tickets:     deps.TicketRepo,
		users:       deps.UserRepo,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		recentCount: recent,
		logger:      logger,
	}
}

// Dashboard computes the analytics summary for an admin actor. A cached
// summary inside its TTL is served as-is; staleness within the TTL is
// acceptable by design.
func (s *AnalyticsService) Dashboard(ctx context.Context, actor *domain.User) (*AnalyticsSummary, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("actor required")
	}
	if !authz.CanViewAnalytics(actor.Role) {
		return nil, apperrors.NewForbidden("analytics require an admin")
	}

	if cached := s.cachedSummary(ctx); cached != nil {
		return cached, nil
	}

	snapshot, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := s.computeSummary(ctx, snapshot, time.Now())
	s.storeSummary(ctx, summary)
	return summary, nil
}

func (s *AnalyticsService) computeSummary(ctx context.Context, snapshot []domain.Ticket, now time.Time) *AnalyticsSummary {
	summary := &AnalyticsSummary{
		TicketsByStatus:   map[domain.TicketStatus]int{},
		TicketsByPriority: map[domain.TicketPriority]int{},
		TicketsByCategory: map[domain.TicketCategory]int{},
		AgentPerformance:  []AgentPerformance{},
		GeneratedAt:       now,
	}
	summary.TotalTickets = len(snapshot)

	var resolutionTotal float64
	var resolutionSamples int
	var withinSLA int
	perAgentHours := map[string]float64{}
	perAgentCount := map[string]int{}

	for i := range snapshot {
		ticket := &snapshot[i]
		summary.TicketsByStatus[ticket.Status]++
		summary.TicketsByPriority[ticket.Priority]++
		summary.TicketsByCategory[ticket.Category]++

		if ticket.Status.Terminal() {
			summary.ResolvedTickets++
		}
		if sla.IsOverdue(ticket, now) {
			summary.OverdueTickets++
		}
		if ticket.ResolvedAt == nil {
			continue
		}

		hours := ticket.ResolvedAt.Sub(ticket.CreatedAt).Hours()
		resolutionTotal += hours
		resolutionSamples++
		if !ticket.ResolvedAt.After(ticket.DueAt) {
			withinSLA++
		}
		if ticket.AssigneeID != nil {
			perAgentHours[*ticket.AssigneeID] += hours
			perAgentCount[*ticket.AssigneeID]++
		}
	}

	summary.ResolutionRate = roundedPercent(summary.ResolvedTickets, summary.TotalTickets)
	summary.SLAComplianceRate = roundedPercent(withinSLA, resolutionSamples)
	if resolutionSamples > 0 {
		summary.AvgResolutionHours = resolutionTotal / float64(resolutionSamples)
	}
	summary.AgentPerformance = s.agentPerformance(ctx, perAgentHours, perAgentCount)
	summary.RecentTickets = recentTickets(snapshot, s.recentCount)
	return summary
}

func (s *AnalyticsService) agentPerformance(ctx context.Context, hours map[string]float64, counts map[string]int) []AgentPerformance {
	performance := make([]AgentPerformance, 0, len(counts))
	for agentID, resolved := range counts {
		entry := AgentPerformance{
			AgentID:            agentID,
			TicketsResolved:    resolved,
			AvgResolutionHours: hours[agentID] / float64(resolved),
		}
		if agent, err := s.users.GetByID(ctx, agentID); err == nil {
			entry.AgentName = agent.Name
			entry.AgentEmail = agent.Email
		} else {
			s.logger.Warn("assignee lookup failed", zap.String("agent_id", agentID), zap.Error(err))
		}
		performance = append(performance, entry)
	}
	sort.Slice(performance, func(i, j int) bool {
		if performance[i].TicketsResolved != performance[j].TicketsResolved {
			return performance[i].TicketsResolved > performance[j].TicketsResolved
		}
		return performance[i].AgentID < performance[j].AgentID
	})
	return performance
}

func (s *AnalyticsService) cachedSummary(ctx context.Context) *AnalyticsSummary {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", zap.Error(err))
		return nil
	}
	if raw == nil {
		return nil
	}
	var summary AnalyticsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		s.logger.Warn("dashboard cache decode failed", zap.Error(err))
		return nil
	}
	return &summary
}

func (s *AnalyticsService) storeSummary(ctx context.Context, summary *AnalyticsSummary) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// recentTickets assumes the snapshot is already most-recent-first, which
// the repositories guarantee.
func recentTickets(snapshot []domain.Ticket, n int) []domain.Ticket {
	if len(snapshot) < n {
		n = len(snapshot)
	}
	return append([]domain.Ticket(nil), snapshot[:n]...)
}

func roundedPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
