package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/models"
	appErrors "github.com/packarma/admin-api/pkg/errors"
)

type categoryRepoStub struct {
	items     map[string]models.Category
	subCounts map[string]int
	total     int
	err       error
}

func (s *categoryRepoStub) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	result := make([]models.Category, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item)
	}
	total := s.total
	if total == 0 {
		total = len(result)
	}
	return result, total, nil
}

func (s *categoryRepoStub) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	if item, ok := s.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (s *categoryRepoStub) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for id, item := range s.items {
		if item.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	if s.items == nil {
		s.items = make(map[string]models.Category)
	}
	if category.ID == "" {
		category.ID = "generated"
	}
	s.items[category.ID] = *category
	return nil
}

func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	s.items[category.ID] = *category
	return nil
}

func (s *categoryRepoStub) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	item := s.items[id]
	item.Status = status
	s.items[id] = item
	return nil
}

func (s *categoryRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.items, id)
	return nil
}

func (s *categoryRepoStub) CountSubCategories(ctx context.Context, id string) (int, error) {
	return s.subCounts[id], nil
}

func TestCategoryServiceCreate(t *testing.T) {
	repo := &categoryRepoStub{}
	svc := NewCategoryService(repo, nil, nil)

	category, err := svc.Create(context.Background(), CategoryRequest{Name: "Food", Image: "food.png"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, category.Status)
	assert.NotEmpty(t, category.ID)
}

func TestCategoryServiceCreateRejectsDuplicateName(t *testing.T) {
	repo := &categoryRepoStub{items: map[string]models.Category{
		"c1": {ID: "c1", Name: "Food"},
	}}
	svc := NewCategoryService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CategoryRequest{Name: "Food", Image: "food.png"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCategoryServiceCreateValidatesPayload(t *testing.T) {
	svc := NewCategoryService(&categoryRepoStub{}, nil, nil)

	_, err := svc.Create(context.Background(), CategoryRequest{Name: "", Image: ""})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCategoryServiceGetNotFound(t *testing.T) {
	svc := NewCategoryService(&categoryRepoStub{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCategoryServiceToggleStatus(t *testing.T) {
	repo := &categoryRepoStub{items: map[string]models.Category{
		"c1": {ID: "c1", Name: "Food", Status: models.StatusActive},
	}}
	svc := NewCategoryService(repo, nil, nil)

	category, err := svc.ToggleStatus(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, category.Status)
	assert.Equal(t, models.StatusInactive, repo.items["c1"].Status)
}

func TestCategoryServiceDeleteGuardedBySubCategories(t *testing.T) {
	repo := &categoryRepoStub{
		items:     map[string]models.Category{"c1": {ID: "c1", Name: "Food"}},
		subCounts: map[string]int{"c1": 2},
	}
	svc := NewCategoryService(repo, nil, nil)

	err := svc.Delete(context.Background(), "c1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Contains(t, repo.items, "c1")
}

func TestCategoryServiceListPagination(t *testing.T) {
	repo := &categoryRepoStub{
		items: map[string]models.Category{"c1": {ID: "c1", Name: "Food"}},
		total: 42,
	}
	svc := NewCategoryService(repo, nil, nil)

	_, info, err := svc.List(context.Background(), models.CategoryFilter{ListFilter: models.ListFilter{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 42, info.TotalItems)
	assert.Equal(t, 5, info.TotalPages)
}
