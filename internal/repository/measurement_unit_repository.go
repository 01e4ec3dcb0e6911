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

// MeasurementUnitRepository handles persistence for measurement units.
type MeasurementUnitRepository struct {
	db *sqlx.DB
}

// NewMeasurementUnitRepository creates a new repository instance.
func NewMeasurementUnitRepository(db *sqlx.DB) *MeasurementUnitRepository {
	return &MeasurementUnitRepository{db: db}
}

var measurementUnitSorts = map[string]string{
	"name":       "name",
	"symbol":     "symbol",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns measurement units matching filters.
func (r *MeasurementUnitRepository) List(ctx context.Context, filter models.MeasurementUnitFilter) ([]models.MeasurementUnit, int, error) {
	base := "FROM measurement_units WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "name", "symbol")
	l.status("status", filter.Status)
	base += l.clause()

	query := "SELECT id, name, symbol, status, created_at, updated_at " + base +
		orderAndLimit(filter.ListFilter, measurementUnitSorts, "name")
	var units []models.MeasurementUnit
	if err := r.db.SelectContext(ctx, &units, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list measurement units: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count measurement units: %w", err)
	}

	return units, total, nil
}

// FindByID returns a unit by id.
func (r *MeasurementUnitRepository) FindByID(ctx context.Context, id string) (*models.MeasurementUnit, error) {
	const query = `SELECT id, name, symbol, status, created_at, updated_at FROM measurement_units WHERE id = $1`
	var unit models.MeasurementUnit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

// ExistsByName checks uniqueness of the unit name.
func (r *MeasurementUnitRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM measurement_units WHERE LOWER(name) = LOWER($1)"
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
		return false, fmt.Errorf("check unit name: %w", err)
	}
	return true, nil
}

// Create persists a new unit.
func (r *MeasurementUnitRepository) Create(ctx context.Context, unit *models.MeasurementUnit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.UpdatedAt = now

	const query = `INSERT INTO measurement_units (id, name, symbol, status, created_at, updated_at)
		VALUES (:id, :name, :symbol, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// Update modifies a unit.
func (r *MeasurementUnitRepository) Update(ctx context.Context, unit *models.MeasurementUnit) error {
	unit.UpdatedAt = time.Now().UTC()
	const query = `UPDATE measurement_units SET name = :name, symbol = :symbol, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// UpdateStatus flips the status field only.
func (r *MeasurementUnitRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE measurement_units SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update unit status: %w", err)
	}
	return nil
}

// Delete removes a unit record.
func (r *MeasurementUnitRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM measurement_units WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}
