package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	RoleID int
}

// AccessTokenClaims represents the typed JWT issued to clients. The role id is
// a claim only; the role name is resolved from storage on every guarded
// request.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	RoleID int       `json:"role_id"`
	jwt.RegisteredClaims
}
