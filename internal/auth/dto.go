// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

// LoginRequest carries no length caps; imported accounts may hold longer
// names or passwords than the create form allows.
type LoginRequest struct {
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Identity is who a session belongs to and what it may open.
type Identity struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Pages []Page `json:"pages"`
}

type LoginResponse struct {
	Identity
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
