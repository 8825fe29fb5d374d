package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Yousefaborizk/moonstar/internal/domain/identity"
)

// LoginRequest carries the credentials for a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest carries a password change for the acting user
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RegisterUserRequest carries the data for creating a back-office account
type RegisterUserRequest struct {
	Username    string            `json:"username" binding:"required"`
	Password    string            `json:"password" binding:"required,min=8"`
	DisplayName string            `json:"display_name"`
	Email       string            `json:"email" binding:"omitempty,email"`
	Role        identity.UserRole `json:"role"`
}

// UserResponse is the account representation, never carrying the hash
type UserResponse struct {
	ID          uuid.UUID         `json:"id"`
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Role        identity.UserRole `json:"role"`
	Active      bool              `json:"active"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// LoginResponse carries the issued tokens and the authenticated account
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// ToUserResponse converts a user aggregate to its representation
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
		Active:      user.Active,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
