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

type subCategoryRepository interface {
	List(ctx context.Context, filter models.SubCategoryFilter) ([]models.SubCategory, int, error)
	FindByID(ctx context.Context, id string) (*models.SubCategory, error)
	ExistsByName(ctx context.Context, categoryID, name, excludeID string) (bool, error)
	Create(ctx context.Context, sub *models.SubCategory) error
	Update(ctx context.Context, sub *models.SubCategory) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	Delete(ctx context.Context, id string) error
}

type parentCategoryFinder interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
}

// SubCategoryService handles sub-category workflows. Every sub-category must
// reference an existing category.
type SubCategoryService struct {
	repo       subCategoryRepository
	categories parentCategoryFinder
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSubCategoryService constructs the service.
func NewSubCategoryService(repo subCategoryRepository, categories parentCategoryFinder, validate *validator.Validate, logger *zap.Logger) *SubCategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubCategoryService{repo: repo, categories: categories, validator: validate, logger: logger}
}

// SubCategoryRequest describes the create/update payload.
type SubCategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid4"`
	Name       string `json:"name" validate:"required,max=120"`
	Image      string `json:"image" validate:"required"`
}

// List returns sub-categories with pagination metadata.
func (s *SubCategoryService) List(ctx context.Context, filter models.SubCategoryFilter) ([]models.SubCategory, pagination.Info, error) {
	subs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sub-categories")
	}
	return subs, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one sub-category.
func (s *SubCategoryService) Get(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sub-category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get sub-category")
	}
	return sub, nil
}

// Create registers a new sub-category under an existing category.
func (s *SubCategoryService) Create(ctx context.Context, req SubCategoryRequest) (*models.SubCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "parent category does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check parent category")
	}

	taken, err := s.repo.ExistsByName(ctx, req.CategoryID, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sub-category name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sub-category name already exists in this category")
	}

	sub := &models.SubCategory{CategoryID: req.CategoryID, Name: req.Name, Image: req.Image, Status: models.StatusActive}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sub-category")
	}
	return sub, nil
}

// Update modifies a sub-category, allowing moves between categories.
func (s *SubCategoryService) Update(ctx context.Context, id string, req SubCategoryRequest) (*models.SubCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "parent category does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check parent category")
	}

	taken, err := s.repo.ExistsByName(ctx, req.CategoryID, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sub-category name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sub-category name already exists in this category")
	}

	sub.CategoryID = req.CategoryID
	sub.Name = req.Name
	sub.Image = req.Image
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sub-category")
	}
	return sub, nil
}

// ToggleStatus flips a sub-category between active and inactive.
func (s *SubCategoryService) ToggleStatus(ctx context.Context, id string) (*models.SubCategory, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := sub.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sub-category status")
	}
	sub.Status = next
	return sub, nil
}

// Delete removes a sub-category.
func (s *SubCategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete sub-category")
	}
	return nil
}
