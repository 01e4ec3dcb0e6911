package console

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/packarma/admin-api/internal/permission"
	"github.com/packarma/admin-api/pkg/pagination"
)

// Notification is a user-facing outcome message for a mutation or a failed
// fetch. Success distinguishes toasts from error banners.
type Notification struct {
	Success bool
	Message string
}

// Config wires a Controller to one resource collection.
type Config[T any] struct {
	// Resource is the collection's URL segment, e.g. "categories".
	Resource string

	// Section names the permission section guarding this resource.
	Section string

	Client      *Client
	Permissions permission.Set

	// Debounce overrides the search input delay; zero means DefaultDebounce.
	Debounce time.Duration

	// Notify receives mutation outcomes and fetch failures. Optional.
	Notify func(Notification)

	// ID extracts a record's identifier, used to address mutations.
	ID func(item T) string

	// Sequence returns a pointer to a record's sort sequence. Controllers
	// for unordered resources leave it nil, which disables Reorder.
	Sequence func(item *T) *int

	Logger *zap.Logger
}

// Snapshot is a point-in-time copy of the controller's view state.
type Snapshot[T any] struct {
	Items      []T
	Loading    bool
	Err        string
	Pagination pagination.Info
	Query      pagination.ListQuery
	Window     []pagination.WindowItem
}

// Controller drives a paginated, searchable, filterable list of T. All fetch
// paths converge on Refresh, and only the most recently issued request may
// publish its result: each fetch carries a monotonic sequence and cancels the
// previous in-flight request, and responses tagged with a superseded sequence
// are discarded.
type Controller[T any] struct {
	cfg       Config[T]
	debouncer *Debouncer
	logger    *zap.Logger

	mu      sync.Mutex
	query   pagination.ListQuery
	state   pagination.State
	items   []T
	loading bool
	errMsg  string
	seq     uint64
	cancel  context.CancelFunc
	closed  bool
}

// NewController builds a controller starting at page 1 with the default page
// size. Nothing is fetched until the first Refresh.
func NewController[T any](cfg Config[T]) *Controller[T] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	c := &Controller[T]{
		cfg:    cfg,
		logger: cfg.Logger,
		query:  pagination.ListQuery{Page: 1, Limit: pagination.DefaultPageSize},
	}
	c.debouncer = NewDebouncer(cfg.Debounce, func(value string) {
		c.applySearch(value)
	})
	return c
}

// Refresh fetches the current page. A non-nil override replaces the stored
// query wholesale before fetching, which is how ClearFilters produces a
// clean-slate fetch rather than mutating stored state field by field.
func (c *Controller[T]) Refresh(override *pagination.ListQuery) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if override != nil {
		c.query = pagination.Normalize(override.Clone())
	}
	q := c.query.Clone()
	c.loading = true
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	raw, info, err := c.cfg.Client.List(ctx, c.cfg.Resource, q)

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.logger.Warn("list fetch failed",
			zap.String("resource", c.cfg.Resource),
			zap.Int("page", q.Page),
			zap.Error(err))
		c.post(Notification{Message: err.Error()})
		return
	}

	var items []T
	if len(raw) > 0 {
		if uerr := json.Unmarshal(raw, &items); uerr != nil {
			c.errMsg = "malformed list payload"
			c.mu.Unlock()
			return
		}
	}
	c.errMsg = ""
	c.items = items
	c.state.Apply(info)

	// Deleting the tail of a collection can leave the stored page past the
	// end; snap back to the first page and fetch it. An emptied collection
	// reports zero pages, which still clamps anything beyond page one.
	clamp := q.Page > 1 && q.Page > info.TotalPages
	if clamp {
		c.query.Page = 1
	}
	c.mu.Unlock()
	if clamp {
		c.Refresh(nil)
	}
}

// Snapshot returns a copy of the current view state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Items:      items,
		Loading:    c.loading,
		Err:        c.errMsg,
		Pagination: c.state.Info(),
		Query:      c.query.Clone(),
		Window:     c.state.Window(),
	}
}

// SetPage navigates to page n and fetches it. Out-of-range pages are
// rejected without a fetch.
func (c *Controller[T]) SetPage(n int) bool {
	c.mu.Lock()
	if c.closed || !c.state.SetPage(n) {
		c.mu.Unlock()
		return false
	}
	c.query.Page = n
	c.mu.Unlock()
	c.Refresh(nil)
	return true
}

// SetPageSize switches the page size and returns to page 1. Sizes outside
// the allowed set are rejected without a fetch.
func (c *Controller[T]) SetPageSize(n int) bool {
	c.mu.Lock()
	if c.closed || !c.state.SetPageSize(n) {
		c.mu.Unlock()
		return false
	}
	c.query.Limit = n
	c.query.Page = 1
	c.mu.Unlock()
	c.Refresh(nil)
	return true
}

// Search feeds one keystroke's worth of input to the debouncer. The fetch
// fires once, with the final value, after the input has been quiet for the
// debounce interval.
func (c *Controller[T]) Search(input string) {
	c.debouncer.Input(input)
}

func (c *Controller[T]) applySearch(value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query.Search = strings.TrimSpace(value)
	c.query.Page = 1
	c.mu.Unlock()
	c.Refresh(nil)
}

// SetStatus filters by record status and returns to page 1.
func (c *Controller[T]) SetStatus(status string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query.Status = status
	c.query.Page = 1
	c.mu.Unlock()
	c.Refresh(nil)
}

// SetDateRange filters by creation date and returns to page 1. Empty strings
// clear the corresponding bound.
func (c *Controller[T]) SetDateRange(from, to string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query.From = from
	c.query.To = to
	c.query.Page = 1
	c.mu.Unlock()
	c.Refresh(nil)
}

// SetFilter sets a resource-specific filter key and returns to page 1. An
// empty value removes the key.
func (c *Controller[T]) SetFilter(key, value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.query.Filters == nil {
		c.query.Filters = map[string]string{}
	}
	if value == "" {
		delete(c.query.Filters, key)
	} else {
		c.query.Filters[key] = value
	}
	c.query.Page = 1
	c.mu.Unlock()
	c.Refresh(nil)
}

// ClearFilters drops search, status, dates and every custom filter in one
// step, keeping only the page size, and fetches page 1. The reset rides an
// explicit override so no stale stored field can leak into the request.
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	override := pagination.ListQuery{Page: 1, Limit: c.query.Limit}
	c.mu.Unlock()
	c.Refresh(&override)
}

// Allowed reports whether the current operator holds the capability for this
// controller's section. Unknown sections and missing grants deny.
func (c *Controller[T]) Allowed(capability permission.Capability) bool {
	return c.cfg.Permissions.Can(c.cfg.Section, capability)
}

// Create posts a new record and refreshes the list on success. The list is
// never updated ahead of the server's confirmation.
func (c *Controller[T]) Create(ctx context.Context, payload interface{}) error {
	if !c.Allowed(permission.CanCreate) {
		return &ServerError{Status: 403, Message: "not permitted"}
	}
	if _, err := c.cfg.Client.Create(ctx, c.cfg.Resource, payload); err != nil {
		c.post(Notification{Message: err.Error()})
		return err
	}
	c.post(Notification{Success: true, Message: "record created"})
	c.Refresh(nil)
	return nil
}

// Update replaces a record and refreshes the list on success.
func (c *Controller[T]) Update(ctx context.Context, id string, payload interface{}) error {
	if !c.Allowed(permission.CanUpdate) {
		return &ServerError{Status: 403, Message: "not permitted"}
	}
	if _, err := c.cfg.Client.Update(ctx, c.cfg.Resource, id, payload); err != nil {
		c.post(Notification{Message: err.Error()})
		return err
	}
	c.post(Notification{Success: true, Message: "record updated"})
	c.Refresh(nil)
	return nil
}

// ToggleStatus flips a record between active and inactive and refreshes on
// success.
func (c *Controller[T]) ToggleStatus(ctx context.Context, id string) error {
	if !c.Allowed(permission.CanUpdate) {
		return &ServerError{Status: 403, Message: "not permitted"}
	}
	if _, err := c.cfg.Client.Patch(ctx, c.cfg.Resource, id, "status", nil); err != nil {
		c.post(Notification{Message: err.Error()})
		return err
	}
	c.post(Notification{Success: true, Message: "status updated"})
	c.Refresh(nil)
	return nil
}

// Delete removes a record and refreshes on success. A refresh that lands on
// a now-empty page snaps back to page 1 via the clamp in Refresh.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if !c.Allowed(permission.CanDelete) {
		return &ServerError{Status: 403, Message: "not permitted"}
	}
	if err := c.cfg.Client.Delete(ctx, c.cfg.Resource, id); err != nil {
		c.post(Notification{Message: err.Error()})
		return err
	}
	c.post(Notification{Success: true, Message: "record deleted"})
	c.Refresh(nil)
	return nil
}

// Reorder swaps the record at index with its neighbor above (up) or below,
// applying the swap to the local list immediately and then persisting each
// record's new sequence with its own update call. Moving the first record up
// or the last record down is a silent no-op. If the second write fails after
// the first succeeded the server is left mid-swap; the follow-up Refresh
// resyncs the visible order with whatever the server now holds.
func (c *Controller[T]) Reorder(ctx context.Context, index int, up bool) error {
	if c.cfg.Sequence == nil || c.cfg.ID == nil {
		return nil
	}
	if !c.Allowed(permission.CanUpdate) {
		return &ServerError{Status: 403, Message: "not permitted"}
	}

	c.mu.Lock()
	if c.closed || index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return nil
	}
	neighbor := index + 1
	if up {
		neighbor = index - 1
	}
	if neighbor < 0 || neighbor >= len(c.items) {
		c.mu.Unlock()
		return nil
	}

	a, b := &c.items[index], &c.items[neighbor]
	seqA, seqB := c.cfg.Sequence(a), c.cfg.Sequence(b)
	*seqA, *seqB = *seqB, *seqA
	c.items[index], c.items[neighbor] = c.items[neighbor], c.items[index]

	idA, newSeqA := c.cfg.ID(c.items[neighbor]), *c.cfg.Sequence(&c.items[neighbor])
	idB, newSeqB := c.cfg.ID(c.items[index]), *c.cfg.Sequence(&c.items[index])
	c.mu.Unlock()

	errA := c.persistSequence(ctx, idA, newSeqA)
	errB := c.persistSequence(ctx, idB, newSeqB)
	if errA != nil || errB != nil {
		err := errA
		if err == nil {
			err = errB
		}
		c.post(Notification{Message: "reorder failed: " + err.Error()})
		c.Refresh(nil)
		return err
	}
	return nil
}

func (c *Controller[T]) persistSequence(ctx context.Context, id string, sequence int) error {
	_, err := c.cfg.Client.Patch(ctx, c.cfg.Resource, id, "sequence", map[string]int{"sequence": sequence})
	return err
}

// Close cancels any pending debounce and in-flight fetch. A closed
// controller ignores further calls.
func (c *Controller[T]) Close() {
	c.debouncer.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller[T]) post(n Notification) {
	if c.cfg.Notify != nil {
		c.cfg.Notify(n)
	}
}
