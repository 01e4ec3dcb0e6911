package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/internal/permission"
	"github.com/packarma/admin-api/pkg/pagination"
)

type category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
}

func writeList(w http.ResponseWriter, items []category, info pagination.Info) {
	payload := map[string]interface{}{
		"data":       items,
		"pagination": info,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data":  nil,
		"error": map[string]interface{}{"code": "ERR", "message": message, "status": status},
	})
}

func fullAccess() permission.Set {
	return permission.FullAccess()
}

func newTestController(t *testing.T, handler http.HandlerFunc, opts ...func(*Config[category])) (*Controller[category], *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := Config[category]{
		Resource:    "categories",
		Section:     permission.SectionMaster,
		Client:      NewClient(ClientConfig{BaseURL: srv.URL, Token: "test-token"}),
		Permissions: fullAccess(),
		Debounce:    25 * time.Millisecond,
		ID:          func(c category) string { return c.ID },
		Sequence:    func(c *category) *int { return &c.Sequence },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctrl := NewController(cfg)
	t.Cleanup(ctrl.Close)
	return ctrl, srv
}

func TestRefreshPopulatesItemsAndWindow(t *testing.T) {
	items := []category{
		{ID: "c1", Name: "Boxes", Sequence: 1},
		{ID: "c2", Name: "Pouches", Sequence: 2},
		{ID: "c3", Name: "Films", Sequence: 3},
		{ID: "c4", Name: "Labels", Sequence: 4},
		{ID: "c5", Name: "Cartons", Sequence: 5},
	}
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeList(w, items, pagination.NewInfo(1, 10, 25))
	})

	ctrl.Refresh(nil)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Items, 5)
	assert.Equal(t, "Boxes", snap.Items[0].Name)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
	assert.Equal(t, 3, snap.Pagination.TotalPages)

	require.Len(t, snap.Window, 3)
	for i, item := range snap.Window {
		assert.Equal(t, i+1, item.Page)
		assert.False(t, item.Ellipsis)
	}
}

func TestSearchDebouncesToSingleFetch(t *testing.T) {
	var mu sync.Mutex
	var searches []string
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		searches = append(searches, r.URL.Query().Get("search"))
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 10, 0))
	})

	ctrl.Search("b")
	ctrl.Search("bo")
	ctrl.Search("box")
	time.Sleep(120 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, searches, 1)
	assert.Equal(t, "box", searches[0])
	assert.Equal(t, "box", ctrl.Snapshot().Query.Search)
	assert.Equal(t, 1, ctrl.Snapshot().Query.Page)
}

func TestSearchAfterCloseDoesNotFetch(t *testing.T) {
	var calls int
	var mu sync.Mutex
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 10, 0))
	})

	ctrl.Search("pending")
	ctrl.Close()
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		if search == "slow" {
			select {
			case <-time.After(300 * time.Millisecond):
			case <-r.Context().Done():
				return
			}
		}
		writeList(w, []category{{ID: "c1", Name: search}}, pagination.NewInfo(1, 10, 20))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow := pagination.ListQuery{Page: 1, Limit: 10, Search: "slow"}
		ctrl.Refresh(&slow)
	}()
	time.Sleep(50 * time.Millisecond)
	fast := pagination.ListQuery{Page: 1, Limit: 10, Search: "fast"}
	ctrl.Refresh(&fast)
	wg.Wait()

	snap := ctrl.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "fast", snap.Items[0].Name)
	assert.Equal(t, "fast", snap.Query.Search)
	assert.Empty(t, snap.Err)
}

func TestSetPageSizeResetsToFirstPage(t *testing.T) {
	var mu sync.Mutex
	var last string
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		last = r.URL.RawQuery
		mu.Unlock()
		limit := 10
		if r.URL.Query().Get("limit") == "25" {
			limit = 25
		}
		writeList(w, nil, pagination.NewInfo(1, limit, 60))
	})

	ctrl.Refresh(nil)
	require.True(t, ctrl.SetPage(3))
	require.True(t, ctrl.SetPageSize(25))

	snap := ctrl.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	assert.Equal(t, 25, snap.Query.Limit)
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, last, "page=1")
	assert.Contains(t, last, "limit=25")
}

func TestSetPageSizeRejectsUnsupportedSize(t *testing.T) {
	var calls int
	var mu sync.Mutex
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 10, 60))
	})

	ctrl.Refresh(nil)
	assert.False(t, ctrl.SetPageSize(37))
	assert.Equal(t, pagination.DefaultPageSize, ctrl.Snapshot().Query.Limit)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestSetPageRejectsOutOfRange(t *testing.T) {
	var calls int
	var mu sync.Mutex
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 10, 30))
	})

	ctrl.Refresh(nil)
	assert.False(t, ctrl.SetPage(0))
	assert.False(t, ctrl.SetPage(4))
	assert.Equal(t, 1, ctrl.Snapshot().Query.Page)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestFetchErrorKeepsItems(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	var notes []Notification
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		failing := fail
		mu.Unlock()
		if failing {
			writeAPIError(w, http.StatusForbidden, "Forbidden")
			return
		}
		writeList(w, []category{{ID: "c1", Name: "Boxes"}}, pagination.NewInfo(1, 10, 20))
	}, func(cfg *Config[category]) {
		cfg.Notify = func(n Notification) {
			mu.Lock()
			notes = append(notes, n)
			mu.Unlock()
		}
	})

	ctrl.Refresh(nil)
	mu.Lock()
	fail = true
	mu.Unlock()
	ctrl.Refresh(nil)

	snap := ctrl.Snapshot()
	assert.Equal(t, "Forbidden", snap.Err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Boxes", snap.Items[0].Name)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, notes, 1)
	assert.False(t, notes[0].Success)
}

func TestPageShrinkClampsToFirstPage(t *testing.T) {
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "3" {
			writeList(w, nil, pagination.NewInfo(3, 10, 20))
			return
		}
		writeList(w, []category{{ID: "c1", Name: "Boxes"}}, pagination.NewInfo(1, 10, 20))
	})

	override := pagination.ListQuery{Page: 3, Limit: 10}
	ctrl.Refresh(&override)

	snap := ctrl.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	require.Len(t, snap.Items, 1)
}

func TestEmptiedCollectionClampsToFirstPage(t *testing.T) {
	var mu sync.Mutex
	var pages []string
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pages = append(pages, r.URL.Query().Get("page"))
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 10, 0))
	})

	override := pagination.ListQuery{Page: 3, Limit: 10}
	ctrl.Refresh(&override)

	snap := ctrl.Snapshot()
	assert.Equal(t, 1, snap.Query.Page)
	assert.Empty(t, snap.Items)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"3", "1"}, pages)
}

func TestClearFiltersDropsEverythingButPageSize(t *testing.T) {
	var mu sync.Mutex
	var last string
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		last = r.URL.RawQuery
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 25, 60))
	})

	ctrl.Refresh(nil)
	ctrl.SetPageSize(25)
	ctrl.SetStatus("inactive")
	ctrl.SetFilter("category_id", "c9")
	ctrl.SetDateRange("2026-01-01", "2026-06-30")
	ctrl.ClearFilters()

	snap := ctrl.Snapshot()
	assert.Empty(t, snap.Query.Search)
	assert.Empty(t, snap.Query.Status)
	assert.Empty(t, snap.Query.From)
	assert.Empty(t, snap.Query.Filters)
	assert.Equal(t, 25, snap.Query.Limit)
	assert.Equal(t, 1, snap.Query.Page)
	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, last, "status=")
	assert.NotContains(t, last, "category_id=")
	assert.Contains(t, last, "limit=25")
}

func TestMutationsRefreshAfterServerConfirms(t *testing.T) {
	var mu sync.Mutex
	var lists, creates int
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPost {
			creates++
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": category{ID: "c2"}})
			return
		}
		lists++
		writeList(w, []category{{ID: "c1"}, {ID: "c2"}}, pagination.NewInfo(1, 10, 2))
	})

	require.NoError(t, ctrl.Create(context.Background(), map[string]string{"name": "Pouches"}))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, lists)
}

func TestMutationFailureLeavesListUntouched(t *testing.T) {
	var mu sync.Mutex
	var notes []Notification
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeAPIError(w, http.StatusBadRequest, "name is required")
			return
		}
		writeList(w, []category{{ID: "c1", Name: "Boxes"}}, pagination.NewInfo(1, 10, 1))
	}, func(cfg *Config[category]) {
		cfg.Notify = func(n Notification) {
			mu.Lock()
			notes = append(notes, n)
			mu.Unlock()
		}
	})

	ctrl.Refresh(nil)
	err := ctrl.Create(context.Background(), map[string]string{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name is required", vErr.Message)

	snap := ctrl.Snapshot()
	require.Len(t, snap.Items, 1)
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, notes)
	assert.False(t, notes[len(notes)-1].Success)
}

func TestMutationsDeniedWithoutCapability(t *testing.T) {
	var calls int
	var mu sync.Mutex
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		writeList(w, nil, pagination.NewInfo(1, 10, 0))
	}, func(cfg *Config[category]) {
		cfg.Permissions = permission.Set{}
	})

	assert.Error(t, ctrl.Create(context.Background(), nil))
	assert.Error(t, ctrl.Update(context.Background(), "c1", nil))
	assert.Error(t, ctrl.Delete(context.Background(), "c1"))
	assert.Error(t, ctrl.ToggleStatus(context.Background(), "c1"))
	assert.False(t, ctrl.Allowed(permission.CanExport))
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestReorderSwapsAndPersistsBothRecords(t *testing.T) {
	var mu sync.Mutex
	var patches []string
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var body map[string]int
			_ = json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			patches = append(patches, fmt.Sprintf("%s=%d", r.URL.Path, body["sequence"]))
			mu.Unlock()
			writeList(w, nil, pagination.Info{})
			return
		}
		writeList(w, []category{
			{ID: "c1", Name: "Boxes", Sequence: 1},
			{ID: "c2", Name: "Pouches", Sequence: 2},
		}, pagination.NewInfo(1, 10, 2))
	})

	ctrl.Refresh(nil)
	require.NoError(t, ctrl.Reorder(context.Background(), 1, true))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "c2", snap.Items[0].ID)
	assert.Equal(t, 1, snap.Items[0].Sequence)
	assert.Equal(t, "c1", snap.Items[1].ID)
	assert.Equal(t, 2, snap.Items[1].Sequence)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, patches, 2)
	assert.Contains(t, patches, "/categories/c2/sequence=1")
	assert.Contains(t, patches, "/categories/c1/sequence=2")
}

func TestReorderBoundaryIsNoop(t *testing.T) {
	var mu sync.Mutex
	var patches int
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			mu.Lock()
			patches++
			mu.Unlock()
			writeList(w, nil, pagination.Info{})
			return
		}
		writeList(w, []category{
			{ID: "c1", Sequence: 1},
			{ID: "c2", Sequence: 2},
		}, pagination.NewInfo(1, 10, 2))
	})

	ctrl.Refresh(nil)
	require.NoError(t, ctrl.Reorder(context.Background(), 0, true))
	require.NoError(t, ctrl.Reorder(context.Background(), 1, false))
	require.NoError(t, ctrl.Reorder(context.Background(), 5, true))

	snap := ctrl.Snapshot()
	assert.Equal(t, "c1", snap.Items[0].ID)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, patches)
}

func TestReorderPartialFailureResyncs(t *testing.T) {
	var mu sync.Mutex
	var patches, lists int
	ctrl, _ := newTestController(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPatch {
			patches++
			if patches == 2 {
				writeAPIError(w, http.StatusInternalServerError, "write failed")
				return
			}
			writeList(w, nil, pagination.Info{})
			return
		}
		lists++
		writeList(w, []category{
			{ID: "c1", Sequence: 1},
			{ID: "c2", Sequence: 2},
		}, pagination.NewInfo(1, 10, 2))
	})

	ctrl.Refresh(nil)
	err := ctrl.Reorder(context.Background(), 0, false)

	require.Error(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, patches)
	assert.Equal(t, 2, lists)
}
