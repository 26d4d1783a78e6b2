package http

import "time"

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
}

// AuthUser models the sanitized user representation returned by auth endpoints.
type AuthUser struct {
	ID          string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Email       string    `json:"email" example:"user@example.com"`
	DisplayName *string   `json:"displayName,omitempty" example:"Ada"`
	Role        string    `json:"role" example:"customer"`
	CreatedAt   time.Time `json:"createdAt" example:"2024-01-01T12:00:00Z"`
	UpdatedAt   time.Time `json:"updatedAt" example:"2024-01-02T09:30:00Z"`
}

// AuthTokenResponse is returned by endpoints that issue JWT tokens.
type AuthTokenResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string   `json:"expiresAt" example:"2024-01-02T09:30:00Z"`
	User      AuthUser `json:"user"`
}

// AuthUserResponse wraps a user object.
type AuthUserResponse struct {
	User AuthUser `json:"user"`
}

// SuccessResponse denotes a simple success flag.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// RegisterRequest carries email registration fields.
type RegisterRequest struct {
	Email       string  `json:"email" example:"user@example.com"`
	Password    string  `json:"password" example:"StrongPass23"`
	DisplayName *string `json:"displayName,omitempty" example:"Ada"`
	Role        string  `json:"role,omitempty" example:"customer"`
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass23"`
}
