package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/packarma/admin-api/internal/models"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/pagination"
)

type appUserRepository interface {
	List(ctx context.Context, filter models.AppUserFilter) ([]models.AppUser, int, error)
	FindByID(ctx context.Context, id string) (*models.AppUser, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) error
}

// AppUserService handles the customer list. Customers are created by the
// mobile app; the back office only inspects and (de)activates them.
type AppUserService struct {
	repo   appUserRepository
	logger *zap.Logger
}

// NewAppUserService constructs the service.
func NewAppUserService(repo appUserRepository, logger *zap.Logger) *AppUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppUserService{repo: repo, logger: logger}
}

// List returns customers with pagination metadata.
func (s *AppUserService) List(ctx context.Context, filter models.AppUserFilter) ([]models.AppUser, pagination.Info, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list app users")
	}
	return users, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one customer.
func (s *AppUserService) Get(ctx context.Context, id string) (*models.AppUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "app user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get app user")
	}
	return user, nil
}

// ToggleStatus flips a customer's status between active and inactive.
func (s *AppUserService) ToggleStatus(ctx context.Context, id string) (*models.AppUser, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := user.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update app user status")
	}
	user.Status = next
	return user, nil
}
