package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/models"
	appErrors "github.com/packarma/admin-api/pkg/errors"
)

type bannerRepoStub struct {
	items map[string]models.Banner
}

func (s *bannerRepoStub) List(ctx context.Context, filter models.BannerFilter) ([]models.Banner, int, error) {
	result := make([]models.Banner, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sequence < result[j].Sequence })
	return result, len(result), nil
}

func (s *bannerRepoStub) FindByID(ctx context.Context, id string) (*models.Banner, error) {
	if item, ok := s.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (s *bannerRepoStub) Create(ctx context.Context, banner *models.Banner) error {
	if s.items == nil {
		s.items = make(map[string]models.Banner)
	}
	if banner.ID == "" {
		banner.ID = "generated"
	}
	banner.Sequence = len(s.items) + 1
	s.items[banner.ID] = *banner
	return nil
}

func (s *bannerRepoStub) Update(ctx context.Context, banner *models.Banner) error {
	s.items[banner.ID] = *banner
	return nil
}

func (s *bannerRepoStub) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	item := s.items[id]
	item.Status = status
	s.items[id] = item
	return nil
}

func (s *bannerRepoStub) SwapSequence(ctx context.Context, id string, up bool) (bool, error) {
	current, ok := s.items[id]
	if !ok {
		return false, sql.ErrNoRows
	}
	var neighbor *models.Banner
	for key, item := range s.items {
		if key == id {
			continue
		}
		if up && item.Sequence < current.Sequence && (neighbor == nil || item.Sequence > neighbor.Sequence) {
			copied := item
			neighbor = &copied
		}
		if !up && item.Sequence > current.Sequence && (neighbor == nil || item.Sequence < neighbor.Sequence) {
			copied := item
			neighbor = &copied
		}
	}
	if neighbor == nil {
		return false, nil
	}
	current.Sequence, neighbor.Sequence = neighbor.Sequence, current.Sequence
	s.items[current.ID] = current
	s.items[neighbor.ID] = *neighbor
	return true, nil
}

func (s *bannerRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.items, id)
	return nil
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return ts
}

func TestBannerServiceReorderSwapsNeighbors(t *testing.T) {
	repo := &bannerRepoStub{items: map[string]models.Banner{
		"b1": {ID: "b1", Sequence: 1},
		"b2": {ID: "b2", Sequence: 2},
	}}
	svc := NewBannerService(repo, nil, nil)

	result, err := svc.Reorder(context.Background(), "b2", true)
	require.NoError(t, err)
	assert.True(t, result.Moved)
	assert.Equal(t, 1, repo.items["b2"].Sequence)
	assert.Equal(t, 2, repo.items["b1"].Sequence)
}

func TestBannerServiceReorderAtBoundaryIsNoOp(t *testing.T) {
	repo := &bannerRepoStub{items: map[string]models.Banner{
		"b1": {ID: "b1", Sequence: 1},
		"b2": {ID: "b2", Sequence: 2},
	}}
	svc := NewBannerService(repo, nil, nil)

	result, err := svc.Reorder(context.Background(), "b1", true)
	require.NoError(t, err)
	assert.False(t, result.Moved)
	assert.Equal(t, 1, repo.items["b1"].Sequence)
	assert.Equal(t, 2, repo.items["b2"].Sequence)
}

func TestBannerServiceReorderUnknownBanner(t *testing.T) {
	svc := NewBannerService(&bannerRepoStub{}, nil, nil)

	_, err := svc.Reorder(context.Background(), "missing", true)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestBannerServiceCreateRejectsInvertedDates(t *testing.T) {
	svc := NewBannerService(&bannerRepoStub{}, nil, nil)

	start := mustTime(t, "2026-02-01")
	end := mustTime(t, "2026-01-01")
	_, err := svc.Create(context.Background(), BannerRequest{Title: "Sale", Image: "sale.png", StartDate: &start, EndDate: &end})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestBannerServiceCreateAppendsToOrder(t *testing.T) {
	repo := &bannerRepoStub{items: map[string]models.Banner{
		"b1": {ID: "b1", Sequence: 1},
	}}
	svc := NewBannerService(repo, nil, nil)

	banner, err := svc.Create(context.Background(), BannerRequest{Title: "Sale", Image: "sale.png"})
	require.NoError(t, err)
	assert.Equal(t, 2, banner.Sequence)
	assert.Equal(t, models.StatusActive, banner.Status)
}
