package flightdb

import (
	"sort"
	"sync"
)

// Notifier fans table change events out to subscribers. The zero value is
// ready to use.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[Table]map[int]func()
}

// Subscribe registers fn to run after every change to table. Callbacks run on
// the publisher's goroutine and must not block. The returned func removes the
// subscription and is safe to call more than once.
func (n *Notifier) Subscribe(table Table, fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[Table]map[int]func())
	}
	if n.subs[table] == nil {
		n.subs[table] = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[table][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[table], id)
		})
	}
}

// Publish notifies subscribers of each table. Subscribers of several listed
// tables are called once per table.
func (n *Notifier) Publish(tables ...Table) {
	for _, table := range tables {
		for _, fn := range n.listeners(table) {
			fn()
		}
	}
}

// Subscribers returns the number of live subscriptions on table.
func (n *Notifier) Subscribers(table Table) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[table])
}

func (n *Notifier) listeners(table Table) []func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	ids := make([]int, 0, len(n.subs[table]))
	for id := range n.subs[table] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.subs[table][id])
	}
	return fns
}
