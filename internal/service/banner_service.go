package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/packarma/admin-api/internal/models"
	appErrors "github.com/packarma/admin-api/pkg/errors"
	"github.com/packarma/admin-api/pkg/pagination"
)

type bannerRepository interface {
	List(ctx context.Context, filter models.BannerFilter) ([]models.Banner, int, error)
	FindByID(ctx context.Context, id string) (*models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, banner *models.Banner) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	SwapSequence(ctx context.Context, id string, up bool) (bool, error)
	Delete(ctx context.Context, id string) error
}

// BannerService handles app banner workflows, including manual ordering.
type BannerService struct {
	repo      bannerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBannerService constructs the service.
func NewBannerService(repo bannerRepository, validate *validator.Validate, logger *zap.Logger) *BannerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BannerService{repo: repo, validator: validate, logger: logger}
}

// BannerRequest describes the create/update payload.
type BannerRequest struct {
	Title     string     `json:"title" validate:"required,max=160"`
	Image     string     `json:"image" validate:"required"`
	LinkURL   string     `json:"link_url" validate:"omitempty,url"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// ReorderResult reports whether a reorder request moved the record. Boundary
// moves succeed without moving anything.
type ReorderResult struct {
	Moved bool `json:"moved"`
}

// List returns banners with pagination metadata.
func (s *BannerService) List(ctx context.Context, filter models.BannerFilter) ([]models.Banner, pagination.Info, error) {
	banners, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list banners")
	}
	return banners, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one banner.
func (s *BannerService) Get(ctx context.Context, id string) (*models.Banner, error) {
	banner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "banner not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get banner")
	}
	return banner, nil
}

// Create registers a new banner at the end of the display order.
func (s *BannerService) Create(ctx context.Context, req BannerRequest) (*models.Banner, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}

	banner := &models.Banner{
		Title:     req.Title,
		Image:     req.Image,
		LinkURL:   req.LinkURL,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.StatusActive,
	}
	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create banner")
	}
	return banner, nil
}

// Update modifies a banner, leaving its display order unchanged.
func (s *BannerService) Update(ctx context.Context, id string, req BannerRequest) (*models.Banner, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}

	banner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	banner.Title = req.Title
	banner.Image = req.Image
	banner.LinkURL = req.LinkURL
	banner.StartDate = req.StartDate
	banner.EndDate = req.EndDate
	if err := s.repo.Update(ctx, banner); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update banner")
	}
	return banner, nil
}

// ToggleStatus flips a banner between active and inactive.
func (s *BannerService) ToggleStatus(ctx context.Context, id string) (*models.Banner, error) {
	banner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := banner.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update banner status")
	}
	banner.Status = next
	return banner, nil
}

// Reorder moves a banner one position up or down. Moving past either end of
// the list is a successful no-op.
func (s *BannerService) Reorder(ctx context.Context, id string, up bool) (ReorderResult, error) {
	moved, err := s.repo.SwapSequence(ctx, id, up)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReorderResult{}, appErrors.Clone(appErrors.ErrNotFound, "banner not found")
		}
		return ReorderResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reorder banner")
	}
	return ReorderResult{Moved: moved}, nil
}

// Delete removes a banner.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete banner")
	}
	return nil
}
