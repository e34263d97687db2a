package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/pkg/db/models"
)

// UserWithRole is the admin-panel row shape: credentials omitted, role joined.
type UserWithRole struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	RoleID    int       `json:"roleId"`
	RoleName  string    `json:"roleName"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	RoleID       int
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Username:     c.Username,
		PasswordHash: c.PasswordHash,
		RoleID:       c.RoleID,
	}
}
