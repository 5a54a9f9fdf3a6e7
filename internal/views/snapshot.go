// Package views holds the read side of the admin screens: fetched
// collections, the detail dialog opened from a row, and table rendering.
package views

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound   = errors.New("views: no such entity")
	ErrSuperseded = errors.New("views: load superseded by a newer one")
	ErrClosed     = errors.New("views: closed")
)

// Snapshot is a fetched collection. Every fetch replaces it whole; it is
// never merged.
type Snapshot[T any] struct {
	id func(T) string

	mu    sync.RWMutex
	items []T
	gen   uint64
}

func NewSnapshot[T any](id func(T) string) *Snapshot[T] {
	return &Snapshot[T]{id: id}
}

func (s *Snapshot[T]) Replace(items []T) {
	cp := append([]T(nil), items...)
	s.mu.Lock()
	s.items = cp
	s.gen++
	s.mu.Unlock()
}

// Items returns a copy.
func (s *Snapshot[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

func (s *Snapshot[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Generation counts replacements; zero means never loaded.
func (s *Snapshot[T]) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *Snapshot[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if s.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Loader fills a Snapshot. Starting a load cancels the one in flight, and
// only the latest load may replace the snapshot. After Close nothing is
// replaced any more.
type Loader[T any] struct {
	snap  *Snapshot[T]
	fetch FetchFunc[T]

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

func NewLoader[T any](snap *Snapshot[T], fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{snap: snap, fetch: fetch}
}

func (l *Loader[T]) Snapshot() *Snapshot[T] { return l.snap }

func (l *Loader[T]) Load(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.seq++
	id := l.seq
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	items, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.closed:
		return ErrClosed
	case id != l.seq:
		return ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		return err
	}
	l.snap.Replace(items)
	return nil
}

// Close cancels the load in flight; later loads fail with ErrClosed.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
