package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
)

// EnquiryRepository handles the read-only customer enquiry report.
type EnquiryRepository struct {
	db *sqlx.DB
}

// NewEnquiryRepository creates a new repository instance.
func NewEnquiryRepository(db *sqlx.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

var enquirySorts = map[string]string{
	"product":    "e.product",
	"category":   "e.category",
	"created_at": "e.created_at",
}

// List returns enquiries joined with the submitting customer.
func (r *EnquiryRepository) List(ctx context.Context, filter models.EnquiryFilter) ([]models.Enquiry, int, error) {
	base := `FROM enquiries e
		JOIN app_users u ON u.id = e.user_id
		WHERE 1=1`
	var l listArgs
	l.search(filter.Search, "e.product", "e.category", "u.name", "u.email")
	l.dateRange("e.created_at", filter.From, filter.To)
	base += l.clause()

	query := `SELECT e.id, e.user_id, u.name AS user_name, u.email AS user_email, e.product, e.category, e.description, e.created_at ` + base +
		orderAndLimit(filter.ListFilter, enquirySorts, "e.created_at")
	var enquiries []models.Enquiry
	if err := r.db.SelectContext(ctx, &enquiries, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list enquiries: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count enquiries: %w", err)
	}

	return enquiries, total, nil
}

// FindByID returns one enquiry with customer context.
func (r *EnquiryRepository) FindByID(ctx context.Context, id string) (*models.Enquiry, error) {
	const query = `SELECT e.id, e.user_id, u.name AS user_name, u.email AS user_email, e.product, e.category, e.description, e.created_at
		FROM enquiries e
		JOIN app_users u ON u.id = e.user_id
		WHERE e.id = $1`
	var enquiry models.Enquiry
	if err := r.db.GetContext(ctx, &enquiry, query, id); err != nil {
		return nil, err
	}
	return &enquiry, nil
}
