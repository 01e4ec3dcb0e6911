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

type subscriptionRepository interface {
	ListPlans(ctx context.Context, filter models.SubscriptionPlanFilter) ([]models.SubscriptionPlan, int, error)
	FindPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	PlanExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	UpdatePlanStatus(ctx context.Context, id string, status models.Status) error
	SwapPlanSequence(ctx context.Context, id string, up bool) (bool, error)
	DeletePlan(ctx context.Context, id string) error
	CountPurchases(ctx context.Context, planID string) (int, error)

	ListCreditPrices(ctx context.Context, filter models.CreditPriceFilter) ([]models.CreditPrice, int, error)
	FindCreditPriceByID(ctx context.Context, id string) (*models.CreditPrice, error)
	CreditPriceExistsByCurrency(ctx context.Context, currency, excludeID string) (bool, error)
	CreateCreditPrice(ctx context.Context, price *models.CreditPrice) error
	UpdateCreditPrice(ctx context.Context, price *models.CreditPrice) error
	UpdateCreditPriceStatus(ctx context.Context, id string, status models.Status) error
	DeleteCreditPrice(ctx context.Context, id string) error

	ListUserSubscriptions(ctx context.Context, filter models.UserSubscriptionFilter) ([]models.UserSubscription, int, error)
}

// SubscriptionService covers the three subscription-related screens: plan
// masters, credit prices and the read-only customer purchase list.
type SubscriptionService struct {
	repo      subscriptionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(repo subscriptionRepository, validate *validator.Validate, logger *zap.Logger) *SubscriptionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{repo: repo, validator: validate, logger: logger}
}

// SubscriptionPlanRequest describes the plan create/update payload.
type SubscriptionPlanRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Description  string  `json:"description" validate:"max=500"`
	DurationDays int     `json:"duration_days" validate:"required,min=1"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Credits      int     `json:"credits" validate:"min=0"`
}

// CreditPriceRequest describes the credit price create/update payload.
type CreditPriceRequest struct {
	Currency string  `json:"currency" validate:"required,len=3,alpha"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// ListPlans returns subscription plans with pagination metadata.
func (s *SubscriptionService) ListPlans(ctx context.Context, filter models.SubscriptionPlanFilter) ([]models.SubscriptionPlan, pagination.Info, error) {
	plans, total, err := s.repo.ListPlans(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	return plans, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// GetPlan returns one plan.
func (s *SubscriptionService) GetPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	plan, err := s.repo.FindPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get plan")
	}
	return plan, nil
}

// CreatePlan registers a new plan at the end of the display order.
func (s *SubscriptionService) CreatePlan(ctx context.Context, req SubscriptionPlanRequest) (*models.SubscriptionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	taken, err := s.repo.PlanExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plan name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "plan name already exists")
	}

	plan := &models.SubscriptionPlan{
		Name:         req.Name,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Credits:      req.Credits,
		Status:       models.StatusActive,
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	return plan, nil
}

// UpdatePlan modifies a plan.
func (s *SubscriptionService) UpdatePlan(ctx context.Context, id string, req SubscriptionPlanRequest) (*models.SubscriptionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.PlanExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plan name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "plan name already exists")
	}

	plan.Name = req.Name
	plan.Description = req.Description
	plan.DurationDays = req.DurationDays
	plan.Price = req.Price
	plan.Credits = req.Credits
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plan")
	}
	return plan, nil
}

// TogglePlanStatus flips a plan between active and inactive.
func (s *SubscriptionService) TogglePlanStatus(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	next := plan.Status.Toggled()
	if err := s.repo.UpdatePlanStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plan status")
	}
	plan.Status = next
	return plan, nil
}

// ReorderPlan moves a plan one position up or down.
func (s *SubscriptionService) ReorderPlan(ctx context.Context, id string, up bool) (ReorderResult, error) {
	moved, err := s.repo.SwapPlanSequence(ctx, id, up)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReorderResult{}, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return ReorderResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reorder plan")
	}
	return ReorderResult{Moved: moved}, nil
}

// DeletePlan removes a plan unless customer purchases still reference it.
func (s *SubscriptionService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.GetPlan(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountPurchases(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check plan purchases")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "plan has customer purchases")
	}

	if err := s.repo.DeletePlan(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	return nil
}

// ListCreditPrices returns credit prices with pagination metadata.
func (s *SubscriptionService) ListCreditPrices(ctx context.Context, filter models.CreditPriceFilter) ([]models.CreditPrice, pagination.Info, error) {
	prices, total, err := s.repo.ListCreditPrices(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list credit prices")
	}
	return prices, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}

// GetCreditPrice returns one credit price.
func (s *SubscriptionService) GetCreditPrice(ctx context.Context, id string) (*models.CreditPrice, error) {
	price, err := s.repo.FindCreditPriceByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "credit price not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get credit price")
	}
	return price, nil
}

// CreateCreditPrice registers the credit price for one currency.
func (s *SubscriptionService) CreateCreditPrice(ctx context.Context, req CreditPriceRequest) (*models.CreditPrice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	taken, err := s.repo.CreditPriceExistsByCurrency(ctx, req.Currency, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check currency")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "currency already has a credit price")
	}

	price := &models.CreditPrice{Currency: req.Currency, Price: req.Price, Status: models.StatusActive}
	if err := s.repo.CreateCreditPrice(ctx, price); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create credit price")
	}
	return price, nil
}

// UpdateCreditPrice modifies a credit price.
func (s *SubscriptionService) UpdateCreditPrice(ctx context.Context, id string, req CreditPriceRequest) (*models.CreditPrice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	price, err := s.GetCreditPrice(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.CreditPriceExistsByCurrency(ctx, req.Currency, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check currency")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "currency already has a credit price")
	}

	price.Currency = req.Currency
	price.Price = req.Price
	if err := s.repo.UpdateCreditPrice(ctx, price); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update credit price")
	}
	return price, nil
}

// ToggleCreditPriceStatus flips a credit price between active and inactive.
func (s *SubscriptionService) ToggleCreditPriceStatus(ctx context.Context, id string) (*models.CreditPrice, error) {
	price, err := s.GetCreditPrice(ctx, id)
	if err != nil {
		return nil, err
	}

	next := price.Status.Toggled()
	if err := s.repo.UpdateCreditPriceStatus(ctx, id, next); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update credit price status")
	}
	price.Status = next
	return price, nil
}

// DeleteCreditPrice removes a credit price.
func (s *SubscriptionService) DeleteCreditPrice(ctx context.Context, id string) error {
	if _, err := s.GetCreditPrice(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCreditPrice(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete credit price")
	}
	return nil
}

// ListUserSubscriptions returns customer purchases with pagination metadata.
func (s *SubscriptionService) ListUserSubscriptions(ctx context.Context, filter models.UserSubscriptionFilter) ([]models.UserSubscription, pagination.Info, error) {
	subs, total, err := s.repo.ListUserSubscriptions(ctx, filter)
	if err != nil {
		return nil, pagination.Info{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user subscriptions")
	}
	return subs, pagination.NewInfo(filter.Page, filter.Limit, total), nil
}
