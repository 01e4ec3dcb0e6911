// Package pagination holds the shared list-query and page-window logic used
// by every paginated resource, both server side (envelope metadata, limit
// clamping) and in the console controller (page navigation, window rendering).
package pagination

import (
	"net/url"
	"strconv"
)

// AllowedPageSizes is the closed set of accepted page sizes.
var AllowedPageSizes = []int{10, 25, 50}

const (
	// DefaultPageSize is applied when a request carries no limit or an
	// unsupported one.
	DefaultPageSize = 10

	// windowSpan is the maximum number of consecutive page numbers rendered
	// around the current page.
	windowSpan = 5

	// minItemsForControls is the threshold below which pagination controls
	// are suppressed entirely.
	minItemsForControls = 10
)

// Info contains the server-reported pagination metadata returned in list
// responses.
type Info struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// NewInfo derives pagination metadata from a page, limit and total count.
func NewInfo(page, limit, total int) Info {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return Info{CurrentPage: page, TotalPages: totalPages, TotalItems: total, ItemsPerPage: limit}
}

// ListQuery captures the parameters sent to a list endpoint.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
	From   string
	To     string

	// Filters holds domain-specific filter fields keyed by query parameter
	// name, e.g. category_id for the sub-category list.
	Filters map[string]string
}

// ValidPageSize reports whether n is one of the allowed page sizes.
func ValidPageSize(n int) bool {
	for _, size := range AllowedPageSizes {
		if n == size {
			return true
		}
	}
	return false
}

// Normalize clamps the query to the accepted page and limit ranges.
func Normalize(q ListQuery) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if !ValidPageSize(q.Limit) {
		q.Limit = DefaultPageSize
	}
	return q
}

// Clone returns a deep copy of the query, so stored snapshots are not aliased
// through the Filters map.
func (q ListQuery) Clone() ListQuery {
	out := q
	if q.Filters != nil {
		out.Filters = make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// Values encodes the query as URL query parameters.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.From != "" {
		values.Set("from", q.From)
	}
	if q.To != "" {
		values.Set("to", q.To)
	}
	for key, value := range q.Filters {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values
}

// State tracks pagination metadata for a single list view and validates page
// navigation against it.
type State struct {
	info Info
}

// Apply replaces the tracked metadata with a server-reported snapshot.
func (s *State) Apply(info Info) {
	s.info = info
}

// Info returns the tracked metadata.
func (s *State) Info() Info {
	return s.info
}

// SetPage moves to page n. The move is accepted only when n lies within
// [1, max(totalPages, 1)]; out-of-range values leave the state untouched.
func (s *State) SetPage(n int) bool {
	maxPage := s.info.TotalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if n < 1 || n > maxPage {
		return false
	}
	s.info.CurrentPage = n
	return true
}

// SetPageSize switches to one of the allowed page sizes and resets the
// current page to 1. Unsupported sizes are rejected.
func (s *State) SetPageSize(n int) bool {
	if !ValidPageSize(n) {
		return false
	}
	s.info.ItemsPerPage = n
	s.info.CurrentPage = 1
	return true
}

// WindowItem is a single entry of the rendered page window: either a page
// number or an ellipsis marker.
type WindowItem struct {
	Page     int
	Ellipsis bool
}

// Window computes the sequence of page numbers to render. Up to five
// consecutive pages are shown centered on the current page, clamped at the
// boundaries; a "1 …" prefix appears when the window starts past the first
// page and an "… N" suffix when it ends before the last. A nil window means
// the controls should not be rendered at all, which happens whenever the
// total item count is below one default page's worth of data.
func (s *State) Window() []WindowItem {
	info := s.info
	if info.TotalItems < minItemsForControls {
		return nil
	}
	if info.TotalPages < 1 {
		return nil
	}

	start := info.CurrentPage - windowSpan/2
	if start < 1 {
		start = 1
	}
	end := start + windowSpan - 1
	if end > info.TotalPages {
		end = info.TotalPages
		start = end - windowSpan + 1
		if start < 1 {
			start = 1
		}
	}

	var window []WindowItem
	if start > 1 {
		window = append(window, WindowItem{Page: 1}, WindowItem{Ellipsis: true})
	}
	for page := start; page <= end; page++ {
		window = append(window, WindowItem{Page: page})
	}
	if end < info.TotalPages {
		window = append(window, WindowItem{Ellipsis: true}, WindowItem{Page: info.TotalPages})
	}
	return window
}
