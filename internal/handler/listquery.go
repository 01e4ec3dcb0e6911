package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/models"
	"github.com/packarma/admin-api/pkg/pagination"
)

const dateParamLayout = "2006-01-02"

// parseListFilter reads the list query parameters shared by every paginated
// endpoint. Unsupported page sizes fall back to the default rather than
// erroring, and an unparseable date is ignored.
func parseListFilter(c *gin.Context) models.ListFilter {
	var filter models.ListFilter

	filter.Search = strings.TrimSpace(c.Query("search"))
	if status := models.Status(c.Query("status")); status.Valid() {
		filter.Status = status
	}
	if from, err := time.Parse(dateParamLayout, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(dateParamLayout, c.Query("to")); err == nil {
		// The upper bound is inclusive of the named day, so push it to the
		// last instant before midnight.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	filter.Page = 1
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	filter.Limit = pagination.DefaultPageSize
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && pagination.ValidPageSize(limit) {
		filter.Limit = limit
	}

	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}
