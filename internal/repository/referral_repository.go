package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
)

// ReferralRepository handles the read-only referral report.
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository creates a new repository instance.
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

var referralSorts = map[string]string{
	"code":           "r.code",
	"credits_earned": "r.credits_earned",
	"created_at":     "r.created_at",
}

// List returns referrals joined with referrer and referred customer names.
func (r *ReferralRepository) List(ctx context.Context, filter models.ReferralFilter) ([]models.Referral, int, error) {
	base := `FROM referrals r
		JOIN app_users rr ON rr.id = r.referrer_id
		JOIN app_users rd ON rd.id = r.referred_id
		WHERE 1=1`
	var l listArgs
	l.search(filter.Search, "r.code", "rr.name", "rr.email", "rd.name", "rd.email")
	l.dateRange("r.created_at", filter.From, filter.To)
	if filter.Code != "" {
		l.equals("r.code", filter.Code)
	}
	base += l.clause()

	query := `SELECT r.id, r.code, r.referrer_id, rr.name AS referrer_name, r.referred_id, rd.name AS referred_name, r.credits_earned, r.created_at ` + base +
		orderAndLimit(filter.ListFilter, referralSorts, "r.created_at")
	var referrals []models.Referral
	if err := r.db.SelectContext(ctx, &referrals, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list referrals: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count referrals: %w", err)
	}

	return referrals, total, nil
}
