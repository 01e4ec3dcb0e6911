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

type measurementUnitRepository interface {
	List(ctx context.Context, filter models.MeasurementUnitFilter) ([]models.MeasurementUnit, int, error)
	FindByID(ctx context.Context, id string) (*models.MeasurementUnit, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, unit *models.MeasurementUnit) error
	Update(ctx context.Context, unit *models.MeasurementUnit) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	Delete(ctx context.Context, id string) error
}

// MeasurementUnitService handles the measurement unit master.
type MeasurementUnitService struct {
	repo      measurementUnitRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMeasurementUnitService constructs the service.
func NewMeasurementUnitService(repo measurementUnitRepository, validate *validator.Validate, logger *zap.Logger) *MeasurementUnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeasurementUnitService{repo: repo, validator: validate, logger: logger}
}

// MeasurementUnitRequest describes the create/update payload.
type MeasurementUnitRequest struct {
	Name   string `json:"name" validate:"required,max=80"`
	Symbol string `json:"symbol" validate:"required,max=16"`
}

// List returns units with pagination metadata.
func (s *MeasurementUnitService) List(ctx context.Context, filter models.MeasurementUnitFilter) ([]models.MeasurementUnit, pagination.Info, error) {
	units, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list units")
	}
	return units, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// Get returns one unit.
func (s *MeasurementUnitService) Get(ctx context.Context, id string) (*models.MeasurementUnit, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get unit")
	}
	return unit, nil
}

// Create registers a new unit.
func (s *MeasurementUnitService) Create(ctx context.Context, req MeasurementUnitRequest) (*models.MeasurementUnit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	taken, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check unit name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "unit name already exists")
	}

	unit := &models.MeasurementUnit{Name: req.Name, Symbol: req.Symbol, Status: models.StatusActive}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create unit")
	}
	return unit, nil
}

// Update modifies a unit.
func (s *MeasurementUnitService) Update(ctx context.Context, id string, req MeasurementUnitRequest) (*models.MeasurementUnit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	unit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check unit name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "unit name already exists")
	}

	unit.Name = req.Name
	unit.Symbol = req.Symbol
	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update unit")
	}
	return unit, nil
}

// ToggleStatus flips a unit between active and inactive.
func (s *MeasurementUnitService) ToggleStatus(ctx context.Context, id string) (*models.MeasurementUnit, error) {
	unit, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := unit.Status.Toggled()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update unit status")
	}
	unit.Status = next
	return unit, nil
}

// Delete removes a unit.
func (s *MeasurementUnitService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete unit")
	}
	return nil
}
