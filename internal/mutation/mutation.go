// Package mutation tracks a single asynchronous submission as
// idle, pending, success or failed.
package mutation

import (
	"context"
	"sync"
)

type State string

const (
	Idle    State = "idle"
	Pending State = "pending"
	Success State = "success"
	Failed  State = "failed"
)

type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Wrapper is safe for concurrent use. Only the latest Execute owns the
// tracked state; concurrent calls are not deduplicated or queued.
type Wrapper[In, Out any] struct {
	fn Func[In, Out]

	mu     sync.Mutex
	seq    uint64
	state  State
	result Out
	err    error
}

func New[In, Out any](fn Func[In, Out]) *Wrapper[In, Out] {
	return &Wrapper[In, Out]{fn: fn, state: Idle}
}

// Execute runs the call and invokes exactly one of onSuccess/onError once.
// Either continuation may be nil.
func (w *Wrapper[In, Out]) Execute(ctx context.Context, in In, onSuccess func(Out), onError func(error)) (Out, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	w.mu.Lock()
	w.seq++
	id := w.seq
	w.state = Pending
	w.err = nil
	w.mu.Unlock()

	out, err := w.fn(ctx, in)

	w.mu.Lock()
	if id == w.seq {
		if err != nil {
			var zero Out
			w.state, w.result, w.err = Failed, zero, err
		} else {
			w.state, w.result, w.err = Success, out, nil
		}
	}
	w.mu.Unlock()

	if err != nil {
		if onError != nil {
			onError(err)
		}
		return out, err
	}
	if onSuccess != nil {
		onSuccess(out)
	}
	return out, nil
}

func (w *Wrapper[In, Out]) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wrapper[In, Out]) Pending() bool { return w.State() == Pending }

// Err is the error of the last tracked submission, nil unless Failed.
func (w *Wrapper[In, Out]) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Result is the output of the last tracked submission, zero unless Success.
func (w *Wrapper[In, Out]) Result() Out {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Reset returns the wrapper to Idle. An in-flight call finishing after
// Reset no longer updates the state.
func (w *Wrapper[In, Out]) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	var zero Out
	w.seq++
	w.state, w.result, w.err = Idle, zero, nil
}
