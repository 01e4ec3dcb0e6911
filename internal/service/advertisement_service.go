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

type advertisementRepository interface {
	List(ctx context.Context, filter models.AdvertisementFilter) ([]models.Advertisement, int, error)
	FindByID(ctx context.Context, id string) (*models.Advertisement, error)
	Create(ctx context.Context, ad *models.Advertisement) error
	Update(ctx context.Context, ad *models.Advertisement) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	SwapSequence(ctx context.Context, id string, up bool) (bool, error)
	Delete(ctx context.Context, id string) error
}

// AdvertisementService handles ad placement workflows, sequence-ordered like
// banners.
type AdvertisementService struct {
	repo      advertisementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdvertisementService constructs the service.
func NewAdvertisementService(repo advertisementRepository, validate *validator.Validate, logger *zap.Logger) *AdvertisementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvertisementService{repo: repo, validator: validate, logger: logger}
}

// AdvertisementRequest describes the create/update payload.
type AdvertisementRequest struct {
	Title      string     `json:"title" validate:"required,max=160"`
	Image      string     `json:"image" validate:"required"`
	LinkURL    string     `json:"link_url" validate:"omitempty,url"`
	Advertiser string     `json:"advertiser" validate:"required,max=160"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

// List returns advertisements with pagination metadata.
func (s *AdvertisementService) List(ctx context.Context, filter models.AdvertisementFilter) ([]models.Advertisement, pagination.Info, error) {
	ads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list advertisements")
	}
	return ads, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one advertisement.
func (s *AdvertisementService) Get(ctx context.Context, id string) (*models.Advertisement, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "advertisement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get advertisement")
	}
	return ad, nil
}

// Create registers a new advertisement at the end of the display order.
func (s *AdvertisementService) Create(ctx context.Context, req AdvertisementRequest) (*models.Advertisement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}

	ad := &models.Advertisement{
		Title:      req.Title,
		Image:      req.Image,
		LinkURL:    req.LinkURL,
		Advertiser: req.Advertiser,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     models.StatusActive,
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create advertisement")
	}
	return ad, nil
}

// Update modifies an advertisement, leaving its display order unchanged.
func (s *AdvertisementService) Update(ctx context.Context, id string, req AdvertisementRequest) (*models.Advertisement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be after start_date")
	}

	ad, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ad.Title = req.Title
	ad.Image = req.Image
	ad.LinkURL = req.LinkURL
	ad.Advertiser = req.Advertiser
	ad.StartDate = req.StartDate
	ad.EndDate = req.EndDate
	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update advertisement")
	}
	return ad, nil
}

// ToggleStatus flips an advertisement between active and inactive.
func (s *AdvertisementService) ToggleStatus(ctx context.Context, id string) (*models.Advertisement, error) {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := ad.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update advertisement status")
	}
	ad.Status = next
	return ad, nil
}

// Reorder moves an advertisement one position up or down. Moving past either
// end of the list is a successful no-op.
func (s *AdvertisementService) Reorder(ctx context.Context, id string, up bool) (ReorderResult, error) {
	moved, err := s.repo.SwapSequence(ctx, id, up)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReorderResult{}, appErrors.Clone(appErrors.ErrNotFound, "advertisement not found")
		}
		return ReorderResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reorder advertisement")
	}
	return ReorderResult{Moved: moved}, nil
}

// Delete removes an advertisement.
func (s *AdvertisementService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete advertisement")
	}
	return nil
}
