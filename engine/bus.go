package engine

import (
	"sync"
	"sync/atomic"
)

// Bus is an in-process broadcast channel. Every published value is copied
// into each current subscriber's private bounded queue; a full queue evicts
// its oldest unread value and counts the loss on that subscriber's lag
// counter, so a publisher never blocks on a slow consumer. Values published
// before Subscribe are never seen by that subscription.
type Bus[T any] struct {
	name     string
	capacity int

	mu   sync.RWMutex
	subs []*Subscription[T]
}

// Subscription is a private delivery queue attached to one bus. Delivery
// order equals publish order, with gaps only from eviction.
type Subscription[T any] struct {
	name string
	ch   chan T
	lag  atomic.Uint64
}

func NewBus[T any](name string, capacity int) *Bus[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus[T]{name: name, capacity: capacity}
}

func (b *Bus[T]) Name() string {
	return b.name
}

// Subscribe attaches a new empty queue to the bus. There is no backfill.
func (b *Bus[T]) Subscribe(name string) *Subscription[T] {
	sub := &Subscription[T]{
		name: name,
		ch:   make(chan T, b.capacity),
	}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub
}

// Publish enqueues v into every current subscription without blocking. A
// subscription at capacity loses its oldest unread value first.
func (b *Bus[T]) Publish(v T) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.push(v)
	}
}

func (b *Bus[T]) Subscriptions() []*Subscription[T] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Subscription[T]{}, b.subs...)
}

func (s *Subscription[T]) push(v T) {
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		// Queue full: evict the oldest unread value and retry. The
		// receiver may have drained concurrently, in which case the
		// eviction is a no-op and the retry succeeds.
		select {
		case <-s.ch:
			s.lag.Add(1)
		default:
		}
	}
}

// C is the receive side of the subscription's queue.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Lag reports how many values this subscription has lost to eviction.
func (s *Subscription[T]) Lag() uint64 {
	return s.lag.Load()
}

func (s *Subscription[T]) Name() string {
	return s.name
}

func (s *Subscription[T]) Len() int {
	return len(s.ch)
}
