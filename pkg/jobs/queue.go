package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of background work.
type Task struct {
	ID        string
	Kind      string
	Attempt   int
	Submitted time.Time
}

// Runner executes a task.
type Runner func(context.Context, Task) error

// Options tune the worker pool.
type Options struct {
	Workers int
	Buffer  int
	Retries int
	Backoff time.Duration
	Logger  *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Buffer <= 0 {
		o.Buffer = o.Workers * 4
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Queue runs tasks on a fixed pool of goroutines with bounded retries.
// Tasks are held in memory only; a restart drops anything pending.
type Queue struct {
	name   string
	run    Runner
	opts   Options
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
}

// NewQueue builds a queue; Start must be called before Submit.
func NewQueue(name string, run Runner, opts Options) *Queue {
	opts = opts.withDefaults()
	return &Queue{
		name:  name,
		run:   run,
		opts:  opts,
		tasks: make(chan Task, opts.Buffer),
	}
}

// Start spins up the workers. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.started = true
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	q.opts.Logger.Info("queue started",
		zap.String("queue", q.name), zap.Int("workers", q.opts.Workers))
}

// Stop cancels the workers and blocks until they exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()

	q.wg.Wait()
	q.opts.Logger.Info("queue stopped", zap.String("queue", q.name))
}

// Submit hands a task to the pool, blocking while the buffer is full.
func (q *Queue) Submit(task Task) error {
	q.mu.Lock()
	ctx, started := q.ctx, q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s: not started", q.name)
	}
	if task.Submitted.IsZero() {
		task.Submitted = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s: %w", q.name, ctx.Err())
	case q.tasks <- task:
		return nil
	}
}

func (q *Queue) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case task := <-q.tasks:
			if err := q.run(q.ctx, task); err != nil {
				q.retry(task, err)
			}
		}
	}
}

func (q *Queue) retry(task Task, cause error) {
	log := q.opts.Logger.With(
		zap.String("queue", q.name),
		zap.String("task_id", task.ID),
		zap.String("kind", task.Kind),
	)

	task.Attempt++
	if task.Attempt > q.opts.Retries {
		log.Error("task failed permanently", zap.Int("attempts", task.Attempt), zap.Error(cause))
		return
	}
	log.Warn("task failed, will retry", zap.Int("attempt", task.Attempt), zap.Error(cause))

	go func() {
		timer := time.NewTimer(q.opts.Backoff)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.Submit(task); err != nil {
				log.Error("resubmit failed", zap.Error(err))
			}
		}
	}()
}
