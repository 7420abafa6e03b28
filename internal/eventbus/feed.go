// Package eventbus fans out simulation events to subscribers without ever
// blocking the publisher.
package eventbus

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the channel capacity used when Subscribe gets n <= 0.
const DefaultBuffer = 16

// Feed is a type-safe, non-blocking publish/subscribe fan-out. A subscriber
// that falls behind loses events; the loss is counted per subscription.
type Feed[T any] struct {
	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	closed bool
}

// Subscription receives the events published after it was created.
type Subscription[T any] struct {
	feed    *Feed[T]
	ch      chan T
	dropped atomic.Uint64
	once    sync.Once
}

// NewFeed creates an empty Feed.
func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Publish hands e to every subscriber with room in its buffer.
func (f *Feed[T]) Publish(e T) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return
	}
	for s := range f.subs {
		select {
		case s.ch <- e:
		default:
			s.dropped.Add(1)
		}
	}
}

// Subscribe registers a subscriber with a buffer of n events.
func (f *Feed[T]) Subscribe(n int) *Subscription[T] {
	if n <= 0 {
		n = DefaultBuffer
	}
	s := &Subscription[T]{feed: f, ch: make(chan T, n)}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	f.subs[s] = struct{}{}
	return s
}

// Len returns the number of active subscriptions.
func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Close ends every subscription. Publishing afterwards is a no-op.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for s := range f.subs {
		s.once.Do(func() { close(s.ch) })
	}
	f.subs = nil
}

// C is closed when the subscription or its feed ends.
func (s *Subscription[T]) C() <-chan T { return s.ch }

// Dropped is the number of events lost because the buffer was full.
func (s *Subscription[T]) Dropped() uint64 { return s.dropped.Load() }

// Cancel removes the subscription and closes its channel. It is safe to
// call more than once and after the feed was closed.
func (s *Subscription[T]) Cancel() {
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	delete(s.feed.subs, s)
	s.once.Do(func() { close(s.ch) })
}
