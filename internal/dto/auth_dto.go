package dto

import "github.com/courtdesk/registry-api/internal/models"

// LoginRequest carries sign-in credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued bearer token and the account summary.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewLoginResponse builds the login payload.
func NewLoginResponse(user models.User, token string) LoginResponse {
	return LoginResponse{
		Token: token,
		User:  NewUserResponse(user),
	}
}

// ChangePasswordRequest carries a self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// MagicLinkRequest asks for a one-time sign-in link for an account.
type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SetPasswordRequest consumes a magic-link/reset token.
type SetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}
