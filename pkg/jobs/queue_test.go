package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var done []string

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		done = append(done, job.ID)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 2})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "export"}))
	require.NoError(t, q.Enqueue(Job{ID: "b", Type: "export"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(done) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var mu sync.Mutex
	attempts := 0

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: 5 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "audit"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 3
	}, time.Second, 10*time.Millisecond)
}

func TestQueueBuffersJobsEnqueuedBeforeStart(t *testing.T) {
	var mu sync.Mutex
	var done []string

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		mu.Lock()
		done = append(done, job.ID)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 1})

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "export"}))
	assert.Equal(t, 1, q.Depth())

	q.Start(context.Background())
	defer q.Stop()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(done) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestQueueRejectsEnqueueWhenStoppedBufferFull(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{Workers: 1, BufferSize: 1})
	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	require.Error(t, q.Enqueue(Job{ID: "b"}))
}
