package console

import (
	"sync"
	"time"
)

// DefaultDebounce is the trailing-edge delay applied to search input.
const DefaultDebounce = 350 * time.Millisecond

// Debouncer coalesces a burst of values into a single callback fired on the
// trailing edge: each Input resets the timer, so the callback runs once with
// the final value after the input has been quiet for the full interval.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	fn       func(string)
	closed   bool
}

// NewDebouncer builds a debouncer firing fn after interval of quiet.
// A non-positive interval falls back to DefaultDebounce.
func NewDebouncer(interval time.Duration, fn func(string)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Debouncer{interval: interval, fn: fn}
}

// Input records a new value and restarts the quiet timer. Pending values
// from earlier calls are dropped.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if !closed {
			d.fn(value)
		}
	})
}

// Flush fires any pending value immediately instead of waiting out the
// interval. Used for explicit submit actions.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	timer := d.timer
	d.timer = nil
	d.mu.Unlock()
	if timer != nil && timer.Stop() {
		timer.Reset(0)
	}
}

// Close cancels any pending callback. The debouncer accepts no input after
// Close.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
