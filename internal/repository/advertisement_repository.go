package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
)

// AdvertisementRepository handles persistence for advertisements.
type AdvertisementRepository struct {
	db *sqlx.DB
}

// NewAdvertisementRepository creates a new repository instance.
func NewAdvertisementRepository(db *sqlx.DB) *AdvertisementRepository {
	return &AdvertisementRepository{db: db}
}

var advertisementSorts = map[string]string{
	"title":      "title",
	"advertiser": "advertiser",
	"sequence":   "sequence",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns advertisements matching filters.
func (r *AdvertisementRepository) List(ctx context.Context, filter models.AdvertisementFilter) ([]models.Advertisement, int, error) {
	base := "FROM advertisements WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "title", "advertiser")
	l.status("status", filter.Status)
	l.dateRange("created_at", filter.From, filter.To)
	base += l.clause()

	ordering := filter.ListFilter
	if ordering.SortBy == "" {
		ordering.SortBy = "sequence"
		ordering.SortOrder = "ASC"
	}

	query := "SELECT id, title, image, link_url, advertiser, sequence, start_date, end_date, status, created_at, updated_at " + base +
		orderAndLimit(ordering, advertisementSorts, "sequence")
	var ads []models.Advertisement
	if err := r.db.SelectContext(ctx, &ads, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list advertisements: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count advertisements: %w", err)
	}

	return ads, total, nil
}

// FindByID returns an advertisement by id.
func (r *AdvertisementRepository) FindByID(ctx context.Context, id string) (*models.Advertisement, error) {
	const query = `SELECT id, title, image, link_url, advertiser, sequence, start_date, end_date, status, created_at, updated_at FROM advertisements WHERE id = $1`
	var ad models.Advertisement
	if err := r.db.GetContext(ctx, &ad, query, id); err != nil {
		return nil, err
	}
	return &ad, nil
}

// Create persists a new advertisement at the end of the sequence.
func (r *AdvertisementRepository) Create(ctx context.Context, ad *models.Advertisement) error {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	if ad.Sequence == 0 {
		seq, err := nextSequence(ctx, r.db, "advertisements")
		if err != nil {
			return err
		}
		ad.Sequence = seq
	}
	now := time.Now().UTC()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	ad.UpdatedAt = now

	const query = `INSERT INTO advertisements (id, title, image, link_url, advertiser, sequence, start_date, end_date, status, created_at, updated_at)
		VALUES (:id, :title, :image, :link_url, :advertiser, :sequence, :start_date, :end_date, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("create advertisement: %w", err)
	}
	return nil
}

// Update modifies an advertisement.
func (r *AdvertisementRepository) Update(ctx context.Context, ad *models.Advertisement) error {
	ad.UpdatedAt = time.Now().UTC()
	const query = `UPDATE advertisements SET title = :title, image = :image, link_url = :link_url, advertiser = :advertiser, start_date = :start_date, end_date = :end_date, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ad); err != nil {
		return fmt.Errorf("update advertisement: %w", err)
	}
	return nil
}

// UpdateStatus flips the status field only.
func (r *AdvertisementRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE advertisements SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update advertisement status: %w", err)
	}
	return nil
}

// SwapSequence moves an advertisement one position up or down.
func (r *AdvertisementRepository) SwapSequence(ctx context.Context, id string, up bool) (bool, error) {
	direction := sequenceDown
	if up {
		direction = sequenceUp
	}
	return swapAdjacentSequence(ctx, r.db, "advertisements", id, direction)
}

// Delete removes an advertisement record.
func (r *AdvertisementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM advertisements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete advertisement: %w", err)
	}
	return nil
}
