package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/pkg/pagination"
)

func filterForQuery(t *testing.T, rawQuery string) models.ListFilter {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/categories?"+rawQuery, nil)
	require.NoError(t, err)
	c.Request = req
	return parseListFilter(c)
}

func TestParseListFilterDefaults(t *testing.T) {
	filter := filterForQuery(t, "")

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, pagination.DefaultPageSize, filter.Limit)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Status)
	assert.Nil(t, filter.From)
	assert.Nil(t, filter.To)
}

func TestParseListFilterTrimsSearch(t *testing.T) {
	filter := filterForQuery(t, "search=%20%20boxes%20")
	assert.Equal(t, "boxes", filter.Search)
}

func TestParseListFilterRejectsUnknownStatus(t *testing.T) {
	assert.Empty(t, filterForQuery(t, "status=archived").Status)
	assert.Equal(t, models.StatusInactive, filterForQuery(t, "status=inactive").Status)
}

func TestParseListFilterUnsupportedLimitFallsBack(t *testing.T) {
	assert.Equal(t, pagination.DefaultPageSize, filterForQuery(t, "limit=37").Limit)
	assert.Equal(t, 50, filterForQuery(t, "limit=50").Limit)
}

func TestParseListFilterClampsPage(t *testing.T) {
	assert.Equal(t, 1, filterForQuery(t, "page=0").Page)
	assert.Equal(t, 1, filterForQuery(t, "page=abc").Page)
	assert.Equal(t, 7, filterForQuery(t, "page=7").Page)
}

func TestParseListFilterDates(t *testing.T) {
	filter := filterForQuery(t, "from=2026-01-01&to=not-a-date")
	require.NotNil(t, filter.From)
	assert.Equal(t, "2026-01-01", filter.From.Format(dateParamLayout))
	assert.Nil(t, filter.To)
}

func TestParseListFilterToCoversWholeDay(t *testing.T) {
	filter := filterForQuery(t, "to=2026-03-15")
	require.NotNil(t, filter.To)

	// A record created any time on the 15th must satisfy created_at <= to.
	noon := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)
	endOfDay := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	nextDay := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	assert.False(t, filter.To.Before(noon))
	assert.False(t, filter.To.Before(endOfDay))
	assert.True(t, filter.To.Before(nextDay))
}
