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

// SubCategoryRepository handles persistence for sub-categories.
type SubCategoryRepository struct {
	db *sqlx.DB
}

// NewSubCategoryRepository creates a new repository instance.
func NewSubCategoryRepository(db *sqlx.DB) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

var subCategorySorts = map[string]string{
	"name":       "s.name",
	"category":   "c.name",
	"status":     "s.status",
	"created_at": "s.created_at",
	"updated_at": "s.updated_at",
}

// List returns sub-categories joined with their parent category name.
func (r *SubCategoryRepository) List(ctx context.Context, filter models.SubCategoryFilter) ([]models.SubCategory, int, error) {
	base := "FROM sub_categories s JOIN categories c ON c.id = s.category_id WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "s.name", "c.name")
	l.status("s.status", filter.Status)
	if filter.CategoryID != "" {
		l.equals("s.category_id", filter.CategoryID)
	}
	base += l.clause()

	query := "SELECT s.id, s.category_id, c.name AS category_name, s.name, s.image, s.status, s.created_at, s.updated_at " + base +
		orderAndLimit(filter.ListFilter, subCategorySorts, "s.created_at")
	var subCategories []models.SubCategory
	if err := r.db.SelectContext(ctx, &subCategories, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list sub categories: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count sub categories: %w", err)
	}

	return subCategories, total, nil
}

// FindByID returns a sub-category by id.
func (r *SubCategoryRepository) FindByID(ctx context.Context, id string) (*models.SubCategory, error) {
	const query = `SELECT s.id, s.category_id, c.name AS category_name, s.name, s.image, s.status, s.created_at, s.updated_at
		FROM sub_categories s JOIN categories c ON c.id = s.category_id WHERE s.id = $1`
	var subCategory models.SubCategory
	if err := r.db.GetContext(ctx, &subCategory, query, id); err != nil {
		return nil, err
	}
	return &subCategory, nil
}

// ExistsByName checks name uniqueness within one parent category.
func (r *SubCategoryRepository) ExistsByName(ctx context.Context, categoryID, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM sub_categories WHERE category_id = $1 AND LOWER(name) = LOWER($2)"
	args := []interface{}{categoryID, name}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check sub category name: %w", err)
	}
	return true, nil
}

// Create persists a new sub-category.
func (r *SubCategoryRepository) Create(ctx context.Context, subCategory *models.SubCategory) error {
	if subCategory.ID == "" {
		subCategory.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subCategory.CreatedAt.IsZero() {
		subCategory.CreatedAt = now
	}
	subCategory.UpdatedAt = now

	const query = `INSERT INTO sub_categories (id, category_id, name, image, status, created_at, updated_at) VALUES (:id, :category_id, :name, :image, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subCategory); err != nil {
		return fmt.Errorf("create sub category: %w", err)
	}
	return nil
}

// Update modifies a sub-category.
func (r *SubCategoryRepository) Update(ctx context.Context, subCategory *models.SubCategory) error {
	subCategory.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sub_categories SET category_id = :category_id, name = :name, image = :image, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subCategory); err != nil {
		return fmt.Errorf("update sub category: %w", err)
	}
	return nil
}

// UpdateStatus flips the status field only.
func (r *SubCategoryRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE sub_categories SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update sub category status: %w", err)
	}
	return nil
}

// Delete removes a sub-category record.
func (r *SubCategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sub_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sub category: %w", err)
	}
	return nil
}
