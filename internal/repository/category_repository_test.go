package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/models"
)

func TestListCategories(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	now := time.Now()
	listRows := sqlmock.NewRows([]string{"id", "name", "image", "status", "created_at", "updated_at"}).
		AddRow("c1", "Food", "food.png", string(models.StatusActive), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, image, status, created_at, updated_at FROM categories WHERE 1=1 ORDER BY created_at DESC LIMIT 10 OFFSET 0")).
		WillReturnRows(listRows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories WHERE 1=1")).WillReturnRows(countRows)

	categories, total, err := repo.List(context.Background(), models.CategoryFilter{})
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategoriesWithSearchAndStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	now := time.Now()
	listRows := sqlmock.NewRows([]string{"id", "name", "image", "status", "created_at", "updated_at"}).
		AddRow("c1", "Food", "food.png", string(models.StatusActive), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, image, status, created_at, updated_at FROM categories WHERE 1=1 AND (LOWER(name) LIKE $1) AND status = $2 ORDER BY name ASC LIMIT 25 OFFSET 0")).
		WithArgs("%foo%", models.StatusActive).
		WillReturnRows(listRows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM categories WHERE 1=1 AND (LOWER(name) LIKE $1) AND status = $2")).
		WithArgs("%foo%", models.StatusActive).
		WillReturnRows(countRows)

	filter := models.CategoryFilter{ListFilter: models.ListFilter{
		Search:    "Foo",
		Status:    models.StatusActive,
		SortBy:    "name",
		SortOrder: "asc",
		Page:      1,
		Limit:     25,
	}}
	categories, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryExistsByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	rows := sqlmock.NewRows([]string{"?column?"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) LIMIT 1")).
		WithArgs("Food").
		WillReturnRows(rows)

	exists, err := repo.ExistsByName(context.Background(), "Food", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryExistsByNameExcludesSelf(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("Food", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByName(context.Background(), "Food", "c1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(1, 1))

	category := &models.Category{Name: "Food", Image: "food.png", Status: models.StatusActive}
	err := repo.Create(context.Background(), category)
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.False(t, category.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCategoryStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("c1", models.StatusInactive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "c1", models.StatusInactive)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSubCategoriesGuard(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM sub_categories WHERE category_id = $1")).
		WithArgs("c1").
		WillReturnRows(rows)

	count, err := repo.CountSubCategories(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
