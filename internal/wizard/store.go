package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"silicon.com/app/internal/form"
)

var ErrNotFound = errors.New("wizard: not found")

// Flow is an instantiated wizard: a controller plus the drafts its steps
// submit. Drafts live only as long as the flow.
type Flow interface {
	Kind() string
	Controller() *Controller
	// Edit runs fn against the field group bound to the given step's draft.
	// Edits never interleave with a submission reading the same draft.
	Edit(step int, fn func(g *form.Group) error) error
	// Draft is a copy of the given step's draft, for display.
	Draft(step int) any
}

type entry struct {
	flow    Flow
	owner   string
	touched time.Time
}

// Store keeps live flows in memory, keyed by a random id and scoped to the
// user that started them. Idle flows expire after ttl.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, entries: map[string]*entry{}}
}

// WithClock swaps the time source (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Put registers f for owner and returns its id. The flow leaves the store
// on its own once it completes.
func (s *Store) Put(owner string, f Flow) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = &entry{flow: f, owner: owner, touched: s.now()}
	s.mu.Unlock()

	f.Controller().OnTeardown(func() { s.remove(id) })
	return id
}

func (s *Store) Get(id, owner string) (Flow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.owner != owner {
		return nil, ErrNotFound
	}
	if s.ttl > 0 && s.now().Sub(e.touched) > s.ttl {
		return nil, ErrNotFound
	}
	e.touched = s.now()
	return e.flow, nil
}

// Delete closes and forgets the flow.
func (s *Store) Delete(id, owner string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok || e.owner != owner {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.entries, id)
	s.mu.Unlock()

	e.flow.Controller().Close()
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep closes flows idle for longer than ttl and returns how many it closed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	var expired []Flow
	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.touched) > s.ttl {
			expired = append(expired, e.flow)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, f := range expired {
		f.Controller().Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes what is left.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

func (s *Store) closeAll() {
	s.mu.Lock()
	flows := make([]Flow, 0, len(s.entries))
	for id, e := range s.entries {
		flows = append(flows, e.flow)
		delete(s.entries, id)
	}
	s.mu.Unlock()
	for _, f := range flows {
		f.Controller().Close()
	}
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}
