// Package stream holds observable values shared between one writer and many readers.
package stream

import (
	"context"
	"sync"
)

// Value is a single observable value. New subscribers receive the current value
// first. Each subscriber has a one-slot buffer; a slow reader skips stale values
// but always ends up with the latest one.
type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	set    bool
	subs   map[uint64]chan T
	nextID uint64
	closed bool
}

func NewValue[T any]() *Value[T] {
	return &Value[T]{subs: make(map[uint64]chan T)}
}

// NewValueOf returns a Value that already holds v.
func NewValueOf[T any](v T) *Value[T] {
	s := NewValue[T]()
	s.cur = v
	s.set = true
	return s
}

// Publish replaces the value and notifies every subscriber.
func (s *Value[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cur = v
	s.set = true
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel of values that is closed when ctx ends or the
// Value is closed.
func (s *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if s.set {
		ch <- s.cur
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}()

	return ch
}

// Close closes every subscriber channel. Later publishes are ignored.
func (s *Value[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// offer drops a stale buffered value so the send never blocks. Callers hold mu,
// which is the only path that sends on ch.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
