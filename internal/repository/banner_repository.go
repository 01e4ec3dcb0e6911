package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/packarma/admin-api/internal/models"
)

// BannerRepository handles persistence for app banners.
type BannerRepository struct {
	db *sqlx.DB
}

// NewBannerRepository creates a new repository instance.
func NewBannerRepository(db *sqlx.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

var bannerSorts = map[string]string{
	"title":      "title",
	"sequence":   "sequence",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns banners matching filters, ordered by sequence unless the
// caller sorts explicitly.
func (r *BannerRepository) List(ctx context.Context, filter models.BannerFilter) ([]models.Banner, int, error) {
	base := "FROM banners WHERE 1=1"
	var l listArgs
	l.search(filter.Search, "title")
	l.status("status", filter.Status)
	l.dateRange("created_at", filter.From, filter.To)
	base += l.clause()

	ordering := filter.ListFilter
	if ordering.SortBy == "" {
		ordering.SortBy = "sequence"
		ordering.SortOrder = "ASC"
	}

	query := "SELECT id, title, image, link_url, sequence, start_date, end_date, status, created_at, updated_at " + base +
		orderAndLimit(ordering, bannerSorts, "sequence")
	var banners []models.Banner
	if err := r.db.SelectContext(ctx, &banners, query, l.args...); err != nil {
		return nil, 0, fmt.Errorf("list banners: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, l.args...); err != nil {
		return nil, 0, fmt.Errorf("count banners: %w", err)
	}

	return banners, total, nil
}

// FindByID returns a banner by id.
func (r *BannerRepository) FindByID(ctx context.Context, id string) (*models.Banner, error) {
	const query = `SELECT id, title, image, link_url, sequence, start_date, end_date, status, created_at, updated_at FROM banners WHERE id = $1`
	var banner models.Banner
	if err := r.db.GetContext(ctx, &banner, query, id); err != nil {
		return nil, err
	}
	return &banner, nil
}

// Create persists a new banner at the end of the sequence.
func (r *BannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	if banner.ID == "" {
		banner.ID = uuid.NewString()
	}
	if banner.Sequence == 0 {
		seq, err := nextSequence(ctx, r.db, "banners")
		if err != nil {
			return err
		}
		banner.Sequence = seq
	}
	now := time.Now().UTC()
	if banner.CreatedAt.IsZero() {
		banner.CreatedAt = now
	}
	banner.UpdatedAt = now

	const query = `INSERT INTO banners (id, title, image, link_url, sequence, start_date, end_date, status, created_at, updated_at)
		VALUES (:id, :title, :image, :link_url, :sequence, :start_date, :end_date, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, banner); err != nil {
		return fmt.Errorf("create banner: %w", err)
	}
	return nil
}

// Update modifies a banner.
func (r *BannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	banner.UpdatedAt = time.Now().UTC()
	const query = `UPDATE banners SET title = :title, image = :image, link_url = :link_url, start_date = :start_date, end_date = :end_date, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, banner); err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	return nil
}

// UpdateStatus flips the status field only.
func (r *BannerRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	const query = `UPDATE banners SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update banner status: %w", err)
	}
	return nil
}

// SwapSequence moves a banner one position up or down. Boundary moves report
// false without touching any row.
func (r *BannerRepository) SwapSequence(ctx context.Context, id string, up bool) (bool, error) {
	direction := sequenceDown
	if up {
		direction = sequenceUp
	}
	return swapAdjacentSequence(ctx, r.db, "banners", id, direction)
}

// Delete removes a banner record.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}
