package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsSubmittedTask(t *testing.T) {
	done := make(chan Task, 1)
	q := NewQueue("test", func(ctx context.Context, task Task) error {
		done <- task
		return nil
	}, Options{})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Submit(Task{ID: "t-1", Kind: "noop"}))

	select {
	case task := <-done:
		assert.Equal(t, "t-1", task.ID)
		assert.False(t, task.Submitted.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("task was not run")
	}
}

func TestQueueRetriesFailedTask(t *testing.T) {
	attempts := make(chan int, 4)
	q := NewQueue("test", func(ctx context.Context, task Task) error {
		attempts <- task.Attempt
		if task.Attempt == 0 {
			return fmt.Errorf("transient")
		}
		return nil
	}, Options{Retries: 2, Backoff: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Submit(Task{ID: "t-2", Kind: "flaky"}))

	var seen []int
	for len(seen) < 2 {
		select {
		case a := <-attempts:
			seen = append(seen, a)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected a retry, saw attempts %v", seen)
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
}

func TestQueueSubmitBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, task Task) error { return nil }, Options{})
	assert.Error(t, q.Submit(Task{ID: "t-3"}))
}
