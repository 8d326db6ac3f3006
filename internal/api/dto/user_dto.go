package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		CreatedAt:  user.CreatedAt,
	}
}
