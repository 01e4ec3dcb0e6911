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

// PackagingRepository serves the three packaging taxonomy tables. The tables
// share a schema, so every method takes the kind and targets its table.
type PackagingRepository struct {
	db *sqlx.DB
}

// NewPackagingRepository creates a new repository instance.
func NewPackagingRepository(db *sqlx.DB) *PackagingRepository {
	return &PackagingRepository{db: db}
}

var packagingSorts = map[string]string{
	"name":       "name",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns taxonomy entries of the given kind matching filters.
func (r *PackagingRepository) List(ctx context.Context, kind models.PackagingKind, filter models.PackagingFilter) ([]models.PackagingItem, int, error) {
	base := fmt.Sprintf("FROM %s WHERE 1=1", kind)
	var l listArgs
	l.search(filter.Search, "name", "description")
	l.status("status", filter.Status)
	l.dateRange("created_at", filter.From, filter.To)
	base += l.clause()

	query := "SELECT id, name, description, status, created_at, updated_at " + base +
		orderAndLimit(filter.ListFilter, packagingSorts, "created_at")
	var items []models.PackagingItem
	if err := r.db.SelectContext(ctx, &items, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", kind, err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", kind, err)
	}

	return items, total, nil
}

// FindByID returns one taxonomy entry by id.
func (r *PackagingRepository) FindByID(ctx context.Context, kind models.PackagingKind, id string) (*models.PackagingItem, error) {
	query := fmt.Sprintf(`SELECT id, name, description, status, created_at, updated_at FROM %s WHERE id = $1`, kind)
	var item models.PackagingItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// ExistsByName checks name uniqueness within the kind's table.
func (r *PackagingRepository) ExistsByName(ctx context.Context, kind models.PackagingKind, name, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE LOWER(name) = LOWER($1)", kind)
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
		return false, fmt.Errorf("check %s name: %w", kind, err)
	}
	return true, nil
}

// Create persists a new taxonomy entry.
func (r *PackagingRepository) Create(ctx context.Context, kind models.PackagingKind, item *models.PackagingItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO %s (id, name, description, status, created_at, updated_at)
		VALUES (:id, :name, :description, :status, :created_at, :updated_at)`, kind)
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create %s: %w", kind, err)
	}
	return nil
}

// Update modifies a taxonomy entry.
func (r *PackagingRepository) Update(ctx context.Context, kind models.PackagingKind, item *models.PackagingItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := fmt.Sprintf(`UPDATE %s SET name = :name, description = :description, status = :status, updated_at = :updated_at WHERE id = :id`, kind)
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	return nil
}

// UpdateStatus flips the status field only.
func (r *PackagingRepository) UpdateStatus(ctx context.Context, kind models.PackagingKind, id string, status models.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $2, updated_at = $3 WHERE id = $1`, kind)
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update %s status: %w", kind, err)
	}
	return nil
}

// Delete removes a taxonomy entry.
func (r *PackagingRepository) Delete(ctx context.Context, kind models.PackagingKind, id string) error {
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, kind), id); err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}
