package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
)

// AppUserRepository handles persistence for mobile-app customer accounts.
// Customers are created by the app; the back office only lists, inspects and
// (de)activates them.
type AppUserRepository struct {
	db *sqlx.DB
}

// NewAppUserRepository creates a new repository instance.
func NewAppUserRepository(db *sqlx.DB) *AppUserRepository {
	return &AppUserRepository{db: db}
}

var appUserSorts = map[string]string{
	"name":       "name",
	"email":      "email",
	"credits":    "credits",
	"last_seen":  "last_seen",
	"created_at": "created_at",
}

// List returns customers matching filters.
func (r *AppUserRepository) List(ctx context.Context, filter models.AppUserFilter) ([]models.AppUser, int, error) {
	base := "FROM app_users WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "name", "email", "phone", "referral_code")
	l.status("status", filter.Status)
	l.dateRange("created_at", filter.From, filter.To)
	base += l.clause()

	query := "SELECT id, name, email, phone, credits, referral_code, referred_by, status, last_seen, created_at, updated_at " + base +
		orderAndLimit(filter.ListFilter, appUserSorts, "created_at")
	var users []models.AppUser
	if err := r.db.SelectContext(ctx, &users, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list app users: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count app users: %w", err)
	}

	return users, total, nil
}

// FindByID returns a customer by id.
func (r *AppUserRepository) FindByID(ctx context.Context, id string) (*models.AppUser, error) {
	const query = `SELECT id, name, email, phone, credits, referral_code, referred_by, status, last_seen, created_at, updated_at FROM app_users WHERE id = $1`
	var user models.AppUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStatus flips the customer's status only. The back office never edits
// other customer fields.
func (r *AppUserRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE app_users SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update app user status: %w", err)
	}
	return nil
}
