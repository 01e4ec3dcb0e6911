package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/packarma/admin-api/internal/models"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/pagination"
)

type packagingRepository interface {
	List(ctx context.Context, kind models.PackagingKind, filter models.PackagingFilter) ([]models.PackagingItem, int, error)
	FindByID(ctx context.Context, kind models.PackagingKind, id string) (*models.PackagingItem, error)
	ExistsByName(ctx context.Context, kind models.PackagingKind, name, excludeID string) (bool, error)
	Create(ctx context.Context, kind models.PackagingKind, item *models.PackagingItem) error
	Update(ctx context.Context, kind models.PackagingKind, item *models.PackagingItem) error
	UpdateStatus(ctx context.Context, kind models.PackagingKind, id string, status models.Status) error
	Delete(ctx context.Context, kind models.PackagingKind, id string) error
}

// PackagingService serves the packaging material, treatment and type masters
// through one kind-keyed implementation.
type PackagingService struct {
	repo      packagingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPackagingService constructs the service.
func NewPackagingService(repo packagingRepository, validate *validator.Validate, logger *zap.Logger) *PackagingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackagingService{repo: repo, validator: validate, logger: logger}
}

// PackagingRequest describes the create/update payload shared by the three
// taxonomies.
type PackagingRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
}

// List returns taxonomy entries with pagination metadata.
func (s *PackagingService) List(ctx context.Context, kind models.PackagingKind, filter models.PackagingFilter) ([]models.PackagingItem, pagination.Info, error) {
	items, total, err := s.repo.List(ctx, kind, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packaging entries")
	}
	return items, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one taxonomy entry.
func (s *PackagingService) Get(ctx context.Context, kind models.PackagingKind, id string) (*models.PackagingItem, error) {
	item, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "packaging entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get packaging entry")
	}
	return item, nil
}

// Create registers a new taxonomy entry.
func (s *PackagingService) Create(ctx context.Context, kind models.PackagingKind, req PackagingRequest) (*models.PackagingItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	taken, err := s.repo.ExistsByName(ctx, kind, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "name already exists")
	}

	item := &models.PackagingItem{Name: req.Name, Description: req.Description, Status: models.StatusActive}
	if err := s.repo.Create(ctx, kind, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create packaging entry")
	}
	return item, nil
}

// Update modifies a taxonomy entry.
func (s *PackagingService) Update(ctx context.Context, kind models.PackagingKind, id string, req PackagingRequest) (*models.PackagingItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	item, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByName(ctx, kind, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "name already exists")
	}

	item.Name = req.Name
	item.Description = req.Description
	if err := s.repo.Update(ctx, kind, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update packaging entry")
	}
	return item, nil
}

// ToggleStatus flips a taxonomy entry between active and inactive.
func (s *PackagingService) ToggleStatus(ctx context.Context, kind models.PackagingKind, id string) (*models.PackagingItem, error) {
	item, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	next := item.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, kind, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update packaging entry status")
	}
	item.Status = next
	return item, nil
}

// Delete removes a taxonomy entry.
func (s *PackagingService) Delete(ctx context.Context, kind models.PackagingKind, id string) error {
	if _, err := s.Get(ctx, kind, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, kind, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete packaging entry")
	}
	return nil
}
