package domain

import "time"

// Role enumerates actor roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is a known role value.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAgent || r == RoleAdmin
}

// Staff reports whether the role belongs to an operator.
func (r Role) Staff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is the domain model for everyone who touches tickets:
// requesters, agents and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
