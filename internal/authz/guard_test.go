package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestRoleActionTable(t *testing.T) {
	assert.True(t, CanCreateTicket(domain.RoleUser))
	assert.False(t, CanCreateTicket(domain.RoleAgent))
	assert.False(t, CanCreateTicket(domain.RoleAdmin))

	assert.False(t, CanTransition(domain.RoleUser))
	assert.True(t, CanTransition(domain.RoleAgent))
	assert.True(t, CanTransition(domain.RoleAdmin))

	assert.False(t, CanDelete(domain.RoleUser))
	assert.False(t, CanDelete(domain.RoleAgent))
	assert.True(t, CanDelete(domain.RoleAdmin))

	assert.False(t, CanViewAnalytics(domain.RoleUser))
	assert.False(t, CanViewAnalytics(domain.RoleAgent))
	assert.True(t, CanViewAnalytics(domain.RoleAdmin))
}

func TestCanAssign(t *testing.T) {
	assert.True(t, CanAssign(domain.RoleAdmin, false))
	assert.True(t, CanAssign(domain.RoleAdmin, true))
	assert.True(t, CanAssign(domain.RoleAgent, true))
	assert.False(t, CanAssign(domain.RoleAgent, false))
	assert.False(t, CanAssign(domain.RoleUser, true))
	assert.False(t, CanAssign(domain.RoleUser, false))
}

func TestCanView(t *testing.T) {
	creator := &domain.User{ID: "u1", Role: domain.RoleUser}
	otherUser := &domain.User{ID: "u2", Role: domain.RoleUser}
	agent := &domain.User{ID: "a1", Role: domain.RoleAgent}
	otherAgent := &domain.User{ID: "a2", Role: domain.RoleAgent}
	admin := &domain.User{ID: "adm", Role: domain.RoleAdmin}

	assigneeID := agent.ID
	ticket := &domain.Ticket{ID: "t1", CreatorID: creator.ID, AssigneeID: &assigneeID}

	assert.True(t, CanView(creator, ticket))
	assert.False(t, CanView(otherUser, ticket))
	assert.True(t, CanView(agent, ticket))
	assert.False(t, CanView(otherAgent, ticket))
	assert.True(t, CanView(admin, ticket))

	unassigned := &domain.Ticket{ID: "t2", CreatorID: creator.ID}
	assert.False(t, CanView(agent, unassigned))
	assert.True(t, CanView(admin, unassigned))

	assert.False(t, CanView(nil, ticket))
	assert.False(t, CanView(creator, nil))
}

func TestCanCommentFollowsVisibility(t *testing.T) {
	creator := &domain.User{ID: "u1", Role: domain.RoleUser}
	agent := &domain.User{ID: "a1", Role: domain.RoleAgent}

	assigneeID := agent.ID
	ticket := &domain.Ticket{ID: "t1", CreatorID: creator.ID, AssigneeID: &assigneeID}

	assert.Equal(t, CanView(creator, ticket), CanComment(creator, ticket))
	assert.Equal(t, CanView(agent, ticket), CanComment(agent, ticket))
}
