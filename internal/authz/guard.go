// Package authz is the single authorization table for ticket actions.
// Every (role, action) decision lives here so workflow code never grows
// ad hoc role conditionals.
package authz

import "github.com/spec-kit/helpdesk-service/internal/domain"

// CanCreateTicket allows ticket creation. Agents and admins act on
// existing tickets, they do not raise their own.
func CanCreateTicket(role domain.Role) bool {
	return role == domain.RoleUser
}

// CanTransition allows status changes.
func CanTransition(role domain.Role) bool {
	return role.Staff()
}

// CanDelete allows the administrative hard delete.
func CanDelete(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanViewAnalytics allows access to the aggregate dashboard.
func CanViewAnalytics(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// CanAssign allows changing a ticket's assignee. Agents may only take a
// ticket themselves; admins may hand a ticket to anyone.
func CanAssign(role domain.Role, self bool) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return role == domain.RoleAgent && self
}

// CanView reports whether the actor's visibility scope includes the ticket:
// users see tickets they created, agents see tickets assigned to them,
// admins see everything.
func CanView(actor *domain.User, ticket *domain.Ticket) bool {
	if actor == nil || ticket == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent:
		return ticket.AssigneeID != nil && *ticket.AssigneeID == actor.ID
	case domain.RoleUser:
		return ticket.CreatorID == actor.ID
	default:
		return false
	}
}

// CanComment allows appending to the discussion thread. Commenting follows
// the visibility scope: the creator, the assignee, or an admin.
func CanComment(actor *domain.User, ticket *domain.Ticket) bool {
	return CanView(actor, ticket)
}
