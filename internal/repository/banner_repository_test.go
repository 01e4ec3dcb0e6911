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

func TestListBannersDefaultsToSequenceOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBannerRepository(db)

	now := time.Now()
	listRows := sqlmock.NewRows([]string{"id", "title", "image", "link_url", "sequence", "start_date", "end_date", "status", "created_at", "updated_at"}).
		AddRow("b1", "Sale", "sale.png", "https://example.com", 1, now, now, string(models.StatusActive), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, image, link_url, sequence, start_date, end_date, status, created_at, updated_at FROM banners WHERE 1=1 ORDER BY sequence ASC LIMIT 10 OFFSET 0")).
		WillReturnRows(listRows)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM banners WHERE 1=1")).WillReturnRows(countRows)

	banners, total, err := repo.List(context.Background(), models.BannerFilter{})
	require.NoError(t, err)
	assert.Len(t, banners, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBannerAppendsSequence(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBannerRepository(db)

	maxRows := sqlmock.NewRows([]string{"max"}).AddRow(4)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(sequence) FROM banners")).WillReturnRows(maxRows)
	mock.ExpectExec("INSERT INTO banners").WillReturnResult(sqlmock.NewResult(1, 1))

	banner := &models.Banner{Title: "Sale", Image: "sale.png", Status: models.StatusActive}
	err := repo.Create(context.Background(), banner)
	require.NoError(t, err)
	assert.Equal(t, 5, banner.Sequence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapSequenceUp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBannerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sequence FROM banners WHERE id = $1 FOR UPDATE")).
		WithArgs("b2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence"}).AddRow("b2", 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sequence FROM banners WHERE sequence < $1 ORDER BY sequence DESC LIMIT 1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence"}).AddRow("b1", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE banners SET sequence = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("b2", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE banners SET sequence = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("b1", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	moved, err := repo.SwapSequence(context.Background(), "b2", true)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapSequenceAtBoundary(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBannerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sequence FROM banners WHERE id = $1 FOR UPDATE")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence"}).AddRow("b1", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sequence FROM banners WHERE sequence < $1 ORDER BY sequence DESC LIMIT 1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence"}))
	mock.ExpectRollback()

	moved, err := repo.SwapSequence(context.Background(), "b1", true)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapSequenceDown(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBannerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sequence FROM banners WHERE id = $1 FOR UPDATE")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence"}).AddRow("b1", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, sequence FROM banners WHERE sequence > $1 ORDER BY sequence ASC LIMIT 1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sequence"}).AddRow("b2", 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE banners SET sequence = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("b1", 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE banners SET sequence = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("b2", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	moved, err := repo.SwapSequence(context.Background(), "b1", false)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}
