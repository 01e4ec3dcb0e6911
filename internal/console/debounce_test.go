package console

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerFiresOnTrailingEdge(t *testing.T) {
	var mu sync.Mutex
	var fired []string
	d := NewDebouncer(60*time.Millisecond, func(v string) {
		mu.Lock()
		fired = append(fired, v)
		mu.Unlock()
	})
	defer d.Close()

	// Each input lands before the previous timer expires, so only the last
	// value survives.
	d.Input("p")
	time.Sleep(20 * time.Millisecond)
	d.Input("po")
	time.Sleep(20 * time.Millisecond)
	d.Input("pouch")
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	assert.Equal(t, "pouch", fired[0])
}

func TestDebouncerCloseDropsPendingValue(t *testing.T) {
	var mu sync.Mutex
	var count int
	d := NewDebouncer(40*time.Millisecond, func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	d.Input("abandoned")
	d.Close()
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, count)
}

func TestDebouncerFlushFiresImmediately(t *testing.T) {
	var mu sync.Mutex
	var fired []string
	d := NewDebouncer(500*time.Millisecond, func(v string) {
		mu.Lock()
		fired = append(fired, v)
		mu.Unlock()
	})
	defer d.Close()

	d.Input("submit")
	d.Flush()
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, fired, 1)
	assert.Equal(t, "submit", fired[0])
}
