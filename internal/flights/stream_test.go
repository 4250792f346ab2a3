package flights

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// pushStream is a hand-driven Stream for exercising operators.
type pushStream[T any] struct {
	mu   sync.Mutex
	subs map[int]func(T)
	next int
}

func (p *pushStream[T]) Subscribe(onNext func(T)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs == nil {
		p.subs = make(map[int]func(T))
	}
	id := p.next
	p.next++
	p.subs[id] = onNext
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *pushStream[T]) emit(v T) {
	p.mu.Lock()
	subs := make([]func(T), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()
	for _, fn := range subs {
		fn(v)
	}
}

func TestDebounce_DeliversOnlySettledValue(t *testing.T) {
	src := &pushStream[string]{}
	ch, _ := collect(t, Debounce[string](src, 60*time.Millisecond))

	for _, v := range []string{"s", "se", "sea"} {
		src.emit(v)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, "sea", next(t, ch))
	assertQuiet(t, ch, 120*time.Millisecond)
}

func TestDebounce_SeparateBurstsEachDeliver(t *testing.T) {
	src := &pushStream[int]{}
	ch, _ := collect(t, Debounce[int](src, 20*time.Millisecond))

	src.emit(1)
	assert.Equal(t, 1, next(t, ch))
	src.emit(2)
	assert.Equal(t, 2, next(t, ch))
}

func TestDebounce_CancelDropsPending(t *testing.T) {
	src := &pushStream[int]{}
	ch, cancel := collect(t, Debounce[int](src, 30*time.Millisecond))

	src.emit(7)
	cancel()

	assertQuiet(t, ch, 100*time.Millisecond)
	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Empty(t, src.subs, "cancel should unsubscribe from the source")
}

func TestDebounce_NonPositiveWindowIsPassthrough(t *testing.T) {
	src := &pushStream[int]{}
	assert.Same(t, Stream[int](src), Debounce[int](src, 0))
}

func TestEmpty_NeverEmits(t *testing.T) {
	called := false
	cancel := Empty[int]().Subscribe(func(int) { called = true })
	cancel()
	assert.False(t, called)
}
