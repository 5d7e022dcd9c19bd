package dto

import (
	"time"

	"github.com/SscSPs/wallet_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a user.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"` // bcrypt ignores bytes beyond 72
}

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
