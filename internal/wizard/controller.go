// Package wizard sequences multi-step catalog creation. Each step submits a
// draft and yields completion tokens consumed by later steps; a step can
// only be entered once every step before it has produced its tokens.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"silicon.com/app/internal/mutation"
)

var (
	ErrOutOfOrder    = errors.New("wizard: step is not the active step")
	ErrCompleted     = errors.New("wizard: already completed")
	ErrClosed        = errors.New("wizard: closed")
	ErrAtFirstStep   = errors.New("wizard: already at the first step")
	ErrMissingTokens = errors.New("wizard: missing step tokens")
	ErrNoSuchStep    = errors.New("wizard: no such step")
	ErrBusy          = errors.New("wizard: a submission is in flight")
)

type call struct {
	tokens Tokens
	update bool
}

// StepInfo is a read-only view of one step.
type StepInfo struct {
	Index    int            `json:"index"`
	Name     string         `json:"name"`
	Enabled  bool           `json:"enabled"`
	Complete bool           `json:"complete"`
	Active   bool           `json:"active"`
	State    mutation.State `json:"state"`
	Error    string         `json:"error,omitempty"`
}

// Controller is safe for concurrent use.
type Controller struct {
	steps     []Step
	mutations []*mutation.Wrapper[call, any]

	base   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	active    int
	done      []bool
	tokens    Tokens
	completed bool
	closed    bool
	// busy is set from the start of Submit until it returns; while set,
	// Submit and Retreat are refused.
	busy bool

	teardownOnce sync.Once
	teardown     []func()
}

func New(steps ...Step) *Controller {
	if len(steps) == 0 {
		panic("wizard: at least one step is required")
	}
	base, cancel := context.WithCancel(context.Background())
	c := &Controller{
		steps:  steps,
		base:   base,
		cancel: cancel,
		done:   make([]bool, len(steps)),
		tokens: Tokens{},
	}
	c.mutations = make([]*mutation.Wrapper[call, any], len(steps))
	for i := range steps {
		st := steps[i]
		c.mutations[i] = mutation.New(func(ctx context.Context, in call) (any, error) {
			if in.update {
				return st.update(ctx, in.tokens)
			}
			return st.submit(ctx, in.tokens)
		})
	}
	return c
}

// OnTeardown registers fn to run once, when the last step completes or the
// controller is closed, whichever happens first.
func (c *Controller) OnTeardown(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardown = append(c.teardown, fn)
}

func (c *Controller) Len() int { return len(c.steps) }

func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// Pending reports whether a submission is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) Tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.clone()
}

func (c *Controller) Token(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens[key]
}

// IsStepEnabled is true iff every step strictly before step has produced
// its tokens.
func (c *Controller) IsStepEnabled(step int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabledLocked(step)
}

func (c *Controller) enabledLocked(step int) bool {
	if step < 0 || step >= len(c.steps) {
		return false
	}
	for j := 0; j < step; j++ {
		if !c.completeLocked(j) {
			return false
		}
	}
	return true
}

func (c *Controller) completeLocked(step int) bool {
	return c.done[step] && c.tokens.Has(c.steps[step].produces...)
}

func (c *Controller) Steps() []StepInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]StepInfo, len(c.steps))
	for i := range c.steps {
		out[i] = c.infoLocked(i)
	}
	return out
}

// ActiveStep describes the step the user is on. After completion it is
// the last step.
func (c *Controller) ActiveStep() StepInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.infoLocked(c.active)
}

func (c *Controller) infoLocked(i int) StepInfo {
	info := StepInfo{
		Index:    i,
		Name:     c.steps[i].name,
		Enabled:  c.enabledLocked(i),
		Complete: c.completeLocked(i),
		Active:   i == c.active && !c.completed,
		State:    c.mutations[i].State(),
	}
	if err := c.mutations[i].Err(); err != nil {
		info.Error = err.Error()
	}
	return info
}

// Snapshot is the whole controller state, as sent to the dashboard.
type Snapshot struct {
	Active    int        `json:"active"`
	Completed bool       `json:"completed"`
	Tokens    Tokens     `json:"tokens"`
	Steps     []StepInfo `json:"steps"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Active:    c.active,
		Completed: c.completed,
		Tokens:    c.tokens.clone(),
		Steps:     make([]StepInfo, len(c.steps)),
	}
	for i := range c.steps {
		snap.Steps[i] = c.infoLocked(i)
	}
	return snap
}

// Advance takes the result of the active step's submission, stores the
// tokens it carries and moves to the next step. Calls for any other step
// are rejected and change nothing.
func (c *Controller) Advance(step int, result any) error {
	if step < 0 || step >= len(c.steps) {
		return ErrNoSuchStep
	}
	got, err := c.steps[step].extract(result)
	if err != nil {
		return err
	}
	return c.advance(step, got)
}

func (c *Controller) advance(step int, got Tokens) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.completed:
		c.mu.Unlock()
		return ErrCompleted
	case step != c.active:
		c.mu.Unlock()
		return fmt.Errorf("%w: got %d, active %d", ErrOutOfOrder, step, c.active)
	}

	merged := c.tokens.clone()
	for k, v := range got {
		if v != "" {
			merged[k] = v
		}
	}
	if missing := merged.Missing(c.steps[step].produces...); len(missing) > 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: step %q did not return %v", ErrMissingTokens, c.steps[step].name, missing)
	}

	c.tokens = merged
	c.done[step] = true
	last := step == len(c.steps)-1
	if last {
		c.completed = true
	} else {
		c.active++
	}
	c.mu.Unlock()

	if last {
		c.runTeardown()
	}
	return nil
}

// Retreat moves back one step. Tokens already acquired are kept.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return ErrClosed
	case c.completed:
		return ErrCompleted
	case c.busy:
		return ErrBusy
	case c.active == 0:
		return ErrAtFirstStep
	}
	c.active--
	return nil
}

// Submit validates and submits the active step. On failure the active step
// is unchanged and the error is returned as is; drafts are never touched
// here, so the caller can fix them and submit again. Only one submission
// runs at a time; a concurrent Submit gets ErrBusy.
func (c *Controller) Submit(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.completed:
		c.mu.Unlock()
		return ErrCompleted
	case c.busy:
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	i := c.active
	st := c.steps[i]
	tokens := c.tokens.clone()
	resubmit := c.completeLocked(i)
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	if missing := tokens.Missing(st.requires...); len(missing) > 0 {
		return fmt.Errorf("%w: step %q needs %v", ErrMissingTokens, st.name, missing)
	}
	if st.validate != nil {
		if err := st.validate(tokens); err != nil {
			return err
		}
	}
	if resubmit && st.update == nil {
		return c.advance(i, nil)
	}

	// Closing the controller aborts the call.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.base, cancel)
	defer stop()

	out, err := c.mutations[i].Execute(ctx, call{tokens: tokens, update: resubmit}, nil, nil)
	if err != nil {
		return err
	}
	return c.Advance(i, out)
}

// Reset starts over from the first step and forgets every token.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = 0
	c.completed = false
	c.tokens = Tokens{}
	for i := range c.done {
		c.done[i] = false
		c.mutations[i].Reset()
	}
}

// Close aborts in-flight submissions and runs teardown hooks.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.runTeardown()
}

func (c *Controller) runTeardown() {
	c.teardownOnce.Do(func() {
		c.mu.Lock()
		hooks := append([]func(){}, c.teardown...)
		c.mu.Unlock()
		for _, fn := range hooks {
			fn()
		}
	})
}
