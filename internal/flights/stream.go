package flights

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/flightsearch/internal/flightdb"
)

// Stream is a lazy, push-based result sequence. Each Subscribe starts an
// independent subscription that calls onNext with every new result until the
// returned cancel func is called. Cancel is idempotent and never affects
// other subscriptions.
type Stream[T any] interface {
	Subscribe(onNext func(T)) (cancel func())
}

// StreamFunc adapts a function to Stream.
type StreamFunc[T any] func(onNext func(T)) (cancel func())

// Subscribe implements Stream.
func (f StreamFunc[T]) Subscribe(onNext func(T)) func() {
	return f(onNext)
}

// Empty returns a stream that never emits and holds no resources.
func Empty[T any]() Stream[T] {
	return StreamFunc[T](func(func(T)) func() {
		return func() {}
	})
}

// Changes is the table notification source a live query listens to.
type Changes interface {
	Subscribe(table flightdb.Table, fn func()) (cancel func())
}

// liveQuery runs load once per subscription and again after every change to
// table. A failed load is logged and the previous emission stands.
func liveQuery[T any](parent context.Context, changes Changes, table flightdb.Table, logger zerolog.Logger, name string, load func(context.Context) (T, error)) Stream[T] {
	return StreamFunc[T](func(onNext func(T)) func() {
		ctx, cancel := context.WithCancel(parent)
		wake := make(chan struct{}, 1)
		wake <- struct{}{}

		unsubscribe := changes.Subscribe(table, func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})

		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-wake:
				}
				result, err := load(ctx)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					logger.Warn().Err(err).Str("query", name).Msg("live query failed")
					continue
				}
				onNext(result)
			}
		}()

		var once sync.Once
		return func() {
			once.Do(func() {
				unsubscribe()
				cancel()
			})
		}
	})
}

// Debounce delivers an emission only once window has passed without a newer
// one. Superseded emissions are dropped, not queued, and a pending emission is
// dropped when the subscription is cancelled. A non-positive window returns s
// unchanged.
func Debounce[T any](s Stream[T], window time.Duration) Stream[T] {
	if window <= 0 {
		return s
	}
	return StreamFunc[T](func(onNext func(T)) func() {
		var (
			mu      sync.Mutex
			timer   *time.Timer
			seq     uint64
			stopped bool
		)

		cancelInner := s.Subscribe(func(v T) {
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			if timer != nil {
				timer.Stop()
			}
			seq++
			mine := seq
			timer = time.AfterFunc(window, func() {
				mu.Lock()
				current := !stopped && mine == seq
				mu.Unlock()
				if current {
					onNext(v)
				}
			})
		})

		var once sync.Once
		return func() {
			once.Do(func() {
				mu.Lock()
				stopped = true
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				cancelInner()
			})
		}
	})
}
