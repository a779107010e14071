// Package state provides an observable value holder for view-model state.
package state

import (
	"context"
	"sync"
)

// Value holds the latest value of T and notifies subscribers of changes.
// Subscribers are conflated: a slow reader skips intermediate values and
// always receives the most recent one.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	version uint64
	subs    map[*subscriber[T]]struct{}
}

type subscriber[T any] struct {
	ch     chan T
	notify chan struct{}
}

// NewValue returns a Value initialised to v.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{current: v, subs: map[*subscriber[T]]struct{}{}}
}

// Get returns the current value.
func (s *Value[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the current value and wakes subscribers.
func (s *Value[T]) Set(v T) {
	s.mu.Lock()
	s.setLocked(v)
	s.mu.Unlock()
}

// SetIfVersion replaces the value only if no Set happened since version was read.
func (s *Value[T]) SetIfVersion(version uint64, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return false
	}
	s.setLocked(v)
	return true
}

func (s *Value[T]) setLocked(v T) {
	s.current = v
	s.version++
	for sub := range s.subs {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// Version counts Set calls. It lets callers detect a change without comparing values.
func (s *Value[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe delivers the current value immediately and then every later value
// until ctx is done, at which point the channel is closed.
func (s *Value[T]) Subscribe(ctx context.Context) <-chan T {
	sub := &subscriber[T]{ch: make(chan T), notify: make(chan struct{}, 1)}
	sub.notify <- struct{}{}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			close(sub.ch)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.notify:
			}
			select {
			case <-ctx.Done():
				return
			case sub.ch <- s.Get():
			}
		}
	}()
	return sub.ch
}

// WaitFor blocks until pred holds for the current value or ctx is done.
func (s *Value[T]) WaitFor(ctx context.Context, pred func(T) bool) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for v := range s.Subscribe(ctx) {
		if pred(v) {
			return v, nil
		}
	}
	var zero T
	return zero, ctx.Err()
}
