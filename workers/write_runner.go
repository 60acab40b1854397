package workers

import (
	"context"
	"errors"
	"log"
	"time"
)

var errQueueFull = errors.New("write queue full, task dropped")

type writeTask struct {
	name string
	fn   func(ctx context.Context) error
}

// WriteRunner executes remote writes in the background, one at a time,
// in enqueue order. Callers never learn whether a write landed; a
// failed write is logged through OnError and abandoned, no retry.
type WriteRunner struct {
	tasks   chan writeTask
	timeout time.Duration

	// OnError observes failures. Defaults to log.Printf.
	OnError func(name string, err error)
}

func NewWriteRunner(buffer int) *WriteRunner {
	if buffer <= 0 {
		buffer = 64
	}
	return &WriteRunner{
		tasks:   make(chan writeTask, buffer),
		timeout: 30 * time.Second,
		OnError: func(name string, err error) {
			log.Printf("[WriteRunner] %s failed: %v", name, err)
		},
	}
}

// Start consumes tasks until ctx is cancelled.
func (r *WriteRunner) Start(ctx context.Context) {
	log.Println("Starting remote write runner...")
	for {
		select {
		case <-ctx.Done():
			log.Println("[WriteRunner] stopping")
			return
		case task := <-r.tasks:
			taskCtx, cancel := context.WithTimeout(ctx, r.timeout)
			if err := task.fn(taskCtx); err != nil {
				r.OnError(task.name, err)
			}
			cancel()
		}
	}
}

// Do queues a write. When the queue is full the task is dropped and
// reported through OnError, matching the no-backpressure contract.
func (r *WriteRunner) Do(name string, fn func(ctx context.Context) error) {
	select {
	case r.tasks <- writeTask{name: name, fn: fn}:
	default:
		r.OnError(name, errQueueFull)
	}
}
