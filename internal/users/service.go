package users

import (
	"context"
	"fmt"

	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
)

// Service defines the behavior needed by the admin users controller.
type Service interface {
	List(ctx context.Context) ([]UserWithRole, error)
}

type listRepository interface {
	ListWithRoles(ctx context.Context) ([]UserWithRole, error)
}

type service struct {
	repo listRepository
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo listRepository
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context) ([]UserWithRole, error) {
	rows, err := s.repo.ListWithRoles(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return rows, nil
}
