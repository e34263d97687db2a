package auth

import "github.com/google/uuid"

// LoginRequest is the payload for POST /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed credential back to the dashboard.
type LoginResponse struct {
	Token  string `json:"token"`
	RoleID int    `json:"roleId"`
}

// SignupRequest is the payload for POST /api/signup (and the admin users form).
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   int    `json:"roleId" validate:"required,min=1"`
}

// SignupResult reports the created identity.
type SignupResult struct {
	UserID uuid.UUID `json:"userId"`
}
