package views

import (
	"context"
	"fmt"
	"sync"
)

// Dialog shows the full detail of one row. Row actions call Open directly;
// OnOpen and OnClose are the callback props the host screen passes in.
type Dialog[T any] struct {
	snap    *Snapshot[T]
	OnOpen  func(T)
	OnClose func()

	mu       sync.Mutex
	selected *T
}

func NewDialog[T any](snap *Snapshot[T]) *Dialog[T] {
	return &Dialog[T]{snap: snap}
}

func (d *Dialog[T]) Open(id string) (T, error) {
	it, ok := d.snap.Find(id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.mu.Lock()
	d.selected = &it
	onOpen := d.OnOpen
	d.mu.Unlock()

	if onOpen != nil {
		onOpen(it)
	}
	return it, nil
}

func (d *Dialog[T]) Close() {
	d.mu.Lock()
	was := d.selected != nil
	d.selected = nil
	onClose := d.OnClose
	d.mu.Unlock()

	if was && onClose != nil {
		onClose()
	}
}

func (d *Dialog[T]) Selected() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected == nil {
		var zero T
		return zero, false
	}
	return *d.selected, true
}

// Toggle runs a status change and then reloads the whole collection. No
// optimistic update: what is shown is what the backend returned.
func Toggle[T any](ctx context.Context, l *Loader[T], change func(ctx context.Context) error) error {
	if err := change(ctx); err != nil {
		return err
	}
	return l.Load(ctx)
}
