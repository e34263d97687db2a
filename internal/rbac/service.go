package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/lcanales/stockdeck-backend/pkg/db/models"
	"github.com/lcanales/stockdeck-backend/pkg/enums"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"gorm.io/gorm"
)

type roleLookup interface {
	FindByID(ctx context.Context, id int) (*models.Role, error)
}

// Service resolves a caller's role name from storage per request and answers
// capability questions against the declarative table.
type Service struct {
	roles roleLookup
}

// ServiceParams bundles the dependencies required to build the rbac service.
type ServiceParams struct {
	RoleRepo roleLookup
}

// NewService constructs the rbac service.
func NewService(params ServiceParams) (*Service, error) {
	if params.RoleRepo == nil {
		return nil, fmt.Errorf("role repository is required")
	}
	return &Service{roles: params.RoleRepo}, nil
}

// ResolveRole turns a role id claim into a known role name. Unknown ids map to
// forbidden, not internal: a stale token should never 500.
func (s *Service) ResolveRole(ctx context.Context, roleID int) (enums.Role, error) {
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve role")
	}
	parsed, err := enums.ParseRole(role.Name)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role")
	}
	return parsed, nil
}

// Allows reports whether the role id may perform the action.
func (s *Service) Allows(ctx context.Context, roleID int, action Action) (bool, error) {
	role, err := s.ResolveRole(ctx, roleID)
	if err != nil {
		return false, err
	}
	return RoleAllows(role, action), nil
}

// ForRoleID returns the full capability set for a role id.
func (s *Service) ForRoleID(ctx context.Context, roleID int) (Capabilities, error) {
	role, err := s.ResolveRole(ctx, roleID)
	if err != nil {
		return Capabilities{}, err
	}
	caps, ok := CapabilitiesFor(role)
	if !ok {
		return Capabilities{}, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
	return caps, nil
}
