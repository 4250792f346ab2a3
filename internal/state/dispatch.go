package state

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher runs background writes. Dispatch must not block on the write.
type Dispatcher interface {
	Dispatch(name string, fn func(context.Context) error)
}

const writeTimeout = 10 * time.Second

type task struct {
	name string
	fn   func(context.Context) error
}

// AsyncDispatcher runs tasks one at a time, in submission order, on a single
// background goroutine. Failures are logged and dropped.
type AsyncDispatcher struct {
	logger zerolog.Logger

	mu     sync.Mutex
	queue  []task
	closed bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncDispatcher starts the worker goroutine. Call Close to drain it.
func NewAsyncDispatcher(logger zerolog.Logger) *AsyncDispatcher {
	d := &AsyncDispatcher{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues fn. Tasks dispatched after Close are dropped.
func (d *AsyncDispatcher) Dispatch(name string, fn func(context.Context) error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Debug().Str("task", name).Msg("dispatcher closed, dropping write")
		return
	}
	d.queue = append(d.queue, task{name: name, fn: fn})
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Close waits for queued tasks to finish and stops the worker.
func (d *AsyncDispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		select {
		case d.wake <- struct{}{}:
		default:
		}
	})
	<-d.done
}

func (d *AsyncDispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			closed := d.closed
			d.mu.Unlock()
			if closed {
				return
			}
			<-d.wake
			continue
		}
		next := d.queue[0]
		d.queue[0] = task{}
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.execute(next)
	}
}

func (d *AsyncDispatcher) execute(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		d.logger.Warn().Err(err).Str("task", t.name).Msg("background write failed")
		return
	}
	d.logger.Debug().Str("task", t.name).Dur("took", time.Since(start)).Msg("background write done")
}
