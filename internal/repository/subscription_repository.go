package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
)

// SubscriptionRepository handles persistence for subscription plans and the
// read-only customer purchase list.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new repository instance.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

var subscriptionPlanSorts = map[string]string{
	"name":       "name",
	"price":      "price",
	"sequence":   "sequence",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ListPlans returns subscription plans matching filters.
func (r *SubscriptionRepository) ListPlans(ctx context.Context, filter models.SubscriptionPlanFilter) ([]models.SubscriptionPlan, int, error) {
	base := "FROM subscription_plans WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "name", "description")
	l.status("status", filter.Status)
	base += l.clause()

	ordering := filter.ListFilter
	if ordering.SortBy == "" {
		ordering.SortBy = "sequence"
		ordering.SortOrder = "ASC"
	}

	query := "SELECT id, name, description, duration_days, price, credits, sequence, status, created_at, updated_at " + base +
		orderAndLimit(ordering, subscriptionPlanSorts, "sequence")
	var plans []models.SubscriptionPlan
	if err := r.db.SelectContext(ctx, &plans, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list subscription plans: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count subscription plans: %w", err)
	}

	return plans, total, nil
}

// FindPlanByID returns a plan by id.
func (r *SubscriptionRepository) FindPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	const query = `SELECT id, name, description, duration_days, price, credits, sequence, status, created_at, updated_at FROM subscription_plans WHERE id = $1`
	var plan models.SubscriptionPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// PlanExistsByName checks uniqueness of the plan name.
func (r *SubscriptionRepository) PlanExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subscription_plans WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check plan name: %w", err)
	}
	return true, nil
}

// CreatePlan persists a new plan at the end of the sequence.
func (r *SubscriptionRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.Sequence == 0 {
		seq, err := nextSequence(ctx, r.db, "subscription_plans")
		if err != nil {
			return err
		}
		plan.Sequence = seq
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	const query = `INSERT INTO subscription_plans (id, name, description, duration_days, price, credits, sequence, status, created_at, updated_at)
		VALUES (:id, :name, :description, :duration_days, :price, :credits, :sequence, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// UpdatePlan modifies a plan.
func (r *SubscriptionRepository) UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subscription_plans SET name = :name, description = :description, duration_days = :duration_days, price = :price, credits = :credits, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// UpdatePlanStatus flips the status field only.
func (r *SubscriptionRepository) UpdatePlanStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE subscription_plans SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update plan status: %w", err)
	}
	return nil
}

// SwapPlanSequence moves a plan one position up or down.
func (r *SubscriptionRepository) SwapPlanSequence(ctx context.Context, id string, up bool) (bool, error) {
	direction := sequenceDown
	if up {
		direction = sequenceUp
	}
	return swapAdjacentSequence(ctx, r.db, "subscription_plans", id, direction)
}

// DeletePlan removes a plan record.
func (r *SubscriptionRepository) DeletePlan(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// CountPurchases returns the number of customer purchases referencing the
// plan, used as a delete guard.
func (r *SubscriptionRepository) CountPurchases(ctx context.Context, planID string) (int, error) {
	const query = `SELECT COUNT(*) FROM user_subscriptions WHERE plan_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, planID); err != nil {
		return 0, fmt.Errorf("count plan purchases: %w", err)
	}
	return count, nil
}

var creditPriceSorts = map[string]string{
	"currency":   "currency",
	"price":      "price",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ListCreditPrices returns per-currency credit prices matching filters.
func (r *SubscriptionRepository) ListCreditPrices(ctx context.Context, filter models.CreditPriceFilter) ([]models.CreditPrice, int, error) {
	base := "FROM credit_prices WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "currency")
	l.status("status", filter.Status)
	base += l.clause()

	query := "SELECT id, currency, price, status, created_at, updated_at " + base +
		orderAndLimit(filter.ListFilter, creditPriceSorts, "currency")
	var prices []models.CreditPrice
	if err := r.db.SelectContext(ctx, &prices, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list credit prices: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count credit prices: %w", err)
	}

	return prices, total, nil
}

// FindCreditPriceByID returns a credit price by id.
func (r *SubscriptionRepository) FindCreditPriceByID(ctx context.Context, id string) (*models.CreditPrice, error) {
	const query = `SELECT id, currency, price, status, created_at, updated_at FROM credit_prices WHERE id = $1`
	var price models.CreditPrice
	if err := r.db.GetContext(ctx, &price, query, id); err != nil {
		return nil, err
	}
	return &price, nil
}

// CreditPriceExistsByCurrency checks the one-price-per-currency rule.
func (r *SubscriptionRepository) CreditPriceExistsByCurrency(ctx context.Context, currency, excludeID string) (bool, error) {
	query := "SELECT 1 FROM credit_prices WHERE UPPER(currency) = UPPER($1)"
	args := []interface{}{currency}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check credit price currency: %w", err)
	}
	return true, nil
}

// CreateCreditPrice persists a new credit price.
func (r *SubscriptionRepository) CreateCreditPrice(ctx context.Context, price *models.CreditPrice) error {
	if price.ID == "" {
		price.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if price.CreatedAt.IsZero() {
		price.CreatedAt = now
	}
	price.UpdatedAt = now

	const query = `INSERT INTO credit_prices (id, currency, price, status, created_at, updated_at)
		VALUES (:id, :currency, :price, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, price); err != nil {
		return fmt.Errorf("create credit price: %w", err)
	}
	return nil
}

// UpdateCreditPrice modifies a credit price.
func (r *SubscriptionRepository) UpdateCreditPrice(ctx context.Context, price *models.CreditPrice) error {
	price.UpdatedAt = time.Now().UTC()
	const query = `UPDATE credit_prices SET currency = :currency, price = :price, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, price); err != nil {
		return fmt.Errorf("update credit price: %w", err)
	}
	return nil
}

// UpdateCreditPriceStatus flips the status field only.
func (r *SubscriptionRepository) UpdateCreditPriceStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE credit_prices SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update credit price status: %w", err)
	}
	return nil
}

// DeleteCreditPrice removes a credit price record.
func (r *SubscriptionRepository) DeleteCreditPrice(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM credit_prices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete credit price: %w", err)
	}
	return nil
}

var userSubscriptionSorts = map[string]string{
	"starts_at":  "us.starts_at",
	"expires_at": "us.expires_at",
	"amount":     "us.amount",
	"created_at": "us.created_at",
}

// ListUserSubscriptions returns customer purchases joined with customer and
// plan names.
func (r *SubscriptionRepository) ListUserSubscriptions(ctx context.Context, filter models.UserSubscriptionFilter) ([]models.UserSubscription, int, error) {
	base := `FROM user_subscriptions us
		JOIN app_users u ON u.id = us.user_id
		JOIN subscription_plans p ON p.id = us.plan_id
		WHERE 1=1`
	var l listArgs
	l.search(filter.Search, "u.name", "u.email", "p.name")
	l.status("us.status", filter.Status)
	l.dateRange("us.created_at", filter.From, filter.To)
	if filter.UserID != "" {
		l.equals("us.user_id", filter.UserID)
	}
	if filter.PlanID != "" {
		l.equals("us.plan_id", filter.PlanID)
	}
	base += l.clause()

	query := `SELECT us.id, us.user_id, u.name AS user_name, us.plan_id, p.name AS plan_name, us.starts_at, us.expires_at, us.amount, us.status, us.created_at ` + base +
		orderAndLimit(filter.ListFilter, userSubscriptionSorts, "us.created_at")
	var subs []models.UserSubscription
	if err := r.db.SelectContext(ctx, &subs, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list user subscriptions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count user subscriptions: %w", err)
	}

	return subs, total, nil
}
