package dto

import (
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/model"
)

// RegisterRequest is the body of POST /api/auth/createuser.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries a signed bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// AuthenticateRequest is the body of POST /api/auth/authenticate.
type AuthenticateRequest struct {
	Token string `json:"token"`
}

// UserResponse represents a user in API responses. The password hash is never included.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthenticateResponse wraps the resolved user.
type AuthenticateResponse struct {
	User UserResponse `json:"user"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
