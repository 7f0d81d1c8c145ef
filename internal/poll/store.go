// Package poll runs a fetch function on a fixed interval and keeps the newest
// result. Cycles never overlap and a stale result never replaces a newer one.
package poll

import (
	"errors"
	"sync"
	"time"
)

// ErrNoSnapshot is returned by Current before the first entry is published.
var ErrNoSnapshot = errors.New("no snapshot yet")

// Entry is a published value tagged with the cycle that produced it.
type Entry[T any] struct {
	Seq   uint64
	Value T
	At    time.Time
}

// Store holds the newest accepted entry. Values are shared with every
// reader and subscriber, so they must be treated as immutable once published.
type Store[T any] struct {
	mu     sync.RWMutex
	latest Entry[T]
	has    bool
	subs   []func(Entry[T])
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

// Publish stores e if its sequence number is higher than the current one and
// then notifies subscribers. It reports whether e was accepted.
func (s *Store[T]) Publish(e Entry[T]) bool {
	s.mu.Lock()
	if s.has && e.Seq <= s.latest.Seq {
		s.mu.Unlock()
		return false
	}
	s.latest = e
	s.has = true
	subs := append([]func(Entry[T])(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
	return true
}

// Latest returns the newest entry, or false if nothing has been published.
func (s *Store[T]) Latest() (Entry[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.has
}

// Current is Latest with ErrNoSnapshot in place of the boolean.
func (s *Store[T]) Current() (Entry[T], error) {
	e, ok := s.Latest()
	if !ok {
		return Entry[T]{}, ErrNoSnapshot
	}
	return e, nil
}

// Subscribe registers fn to be called after every accepted Publish. fn runs
// on the publishing goroutine and must not block for long.
func (s *Store[T]) Subscribe(fn func(Entry[T])) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
