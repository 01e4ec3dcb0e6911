package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pages(window []WindowItem) []int {
	var out []int
	for _, item := range window {
		if item.Ellipsis {
			out = append(out, -1)
		} else {
			out = append(out, item.Page)
		}
	}
	return out
}

func TestNewInfoRoundsUpTotalPages(t *testing.T) {
	info := NewInfo(1, 10, 25)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 25, info.TotalItems)

	info = NewInfo(1, 10, 30)
	assert.Equal(t, 3, info.TotalPages)

	info = NewInfo(1, 10, 0)
	assert.Equal(t, 0, info.TotalPages)
}

func TestNormalizeClampsPageAndLimit(t *testing.T) {
	q := Normalize(ListQuery{Page: 0, Limit: 37})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.Limit)

	q = Normalize(ListQuery{Page: 3, Limit: 25})
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
}

func TestSetPageRejectsOutOfRange(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 2, TotalPages: 5, TotalItems: 50, ItemsPerPage: 10})

	assert.False(t, s.SetPage(0))
	assert.False(t, s.SetPage(6))
	assert.Equal(t, 2, s.Info().CurrentPage)

	assert.True(t, s.SetPage(5))
	assert.Equal(t, 5, s.Info().CurrentPage)
}

func TestSetPageAllowsPageOneWhenEmpty(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 1, TotalPages: 0, TotalItems: 0, ItemsPerPage: 10})

	assert.True(t, s.SetPage(1))
	assert.False(t, s.SetPage(2))
}

func TestSetPageSizeResetsToFirstPage(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 4, TotalPages: 10, TotalItems: 100, ItemsPerPage: 10})

	assert.False(t, s.SetPageSize(15))
	assert.Equal(t, 4, s.Info().CurrentPage)

	assert.True(t, s.SetPageSize(25))
	assert.Equal(t, 1, s.Info().CurrentPage)
	assert.Equal(t, 25, s.Info().ItemsPerPage)
}

func TestWindowCenteredWithBothEllipses(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 10, TotalPages: 20, TotalItems: 200, ItemsPerPage: 10})

	assert.Equal(t, []int{1, -1, 8, 9, 10, 11, 12, -1, 20}, pages(s.Window()))
}

func TestWindowNearStartHasOnlyTrailingEllipsis(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 2, TotalPages: 20, TotalItems: 200, ItemsPerPage: 10})

	assert.Equal(t, []int{1, 2, 3, 4, 5, -1, 20}, pages(s.Window()))
}

func TestWindowNearEndHasOnlyLeadingEllipsis(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 19, TotalPages: 20, TotalItems: 200, ItemsPerPage: 10})

	assert.Equal(t, []int{1, -1, 16, 17, 18, 19, 20}, pages(s.Window()))
}

func TestWindowNoEllipsesWhenEverythingFits(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 1, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10})

	assert.Equal(t, []int{1, 2, 3}, pages(s.Window()))
}

func TestWindowHiddenBelowThreshold(t *testing.T) {
	var s State
	s.Apply(Info{CurrentPage: 1, TotalPages: 1, TotalItems: 9, ItemsPerPage: 10})
	assert.Nil(t, s.Window())

	// The threshold is on item count, not page count.
	s.Apply(Info{CurrentPage: 1, TotalPages: 1, TotalItems: 9, ItemsPerPage: 25})
	assert.Nil(t, s.Window())
}

func TestListQueryValues(t *testing.T) {
	q := ListQuery{
		Page:    2,
		Limit:   25,
		Search:  "corrugated",
		Status:  "active",
		Filters: map[string]string{"category_id": "42", "ignored": ""},
	}

	values := q.Values()
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "25", values.Get("limit"))
	assert.Equal(t, "corrugated", values.Get("search"))
	assert.Equal(t, "active", values.Get("status"))
	assert.Equal(t, "42", values.Get("category_id"))
	assert.False(t, values.Has("ignored"))
}

func TestListQueryCloneDoesNotAliasFilters(t *testing.T) {
	q := ListQuery{Page: 1, Limit: 10, Filters: map[string]string{"category_id": "1"}}
	clone := q.Clone()
	clone.Filters["category_id"] = "2"

	require.Equal(t, "1", q.Filters["category_id"])
}
