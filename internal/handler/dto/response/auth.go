package response

import (
	"time"

	"rentyard/internal/domain/user"

	"github.com/google/uuid"
)

type RegisterResponse struct {
	ID uuid.UUID `json:"id"`
}

// OTPPendingResponse acknowledges the first login factor without revealing
// whether the email exists.
type OTPPendingResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID(),
		Email:       u.Email().String(),
		Name:        u.Name(),
		Role:        u.Role().String(),
		LastLoginAt: u.LastLoginAt(),
	}
}
