package wizard

import (
	"context"
	"fmt"
	"sort"
)

// Tokens are the identifiers handed back by completed steps (productId,
// modelId, ...). Later steps read them to address what earlier steps created.
type Tokens map[string]string

func (t Tokens) Has(keys ...string) bool {
	for _, k := range keys {
		if t[k] == "" {
			return false
		}
	}
	return true
}

func (t Tokens) Missing(keys ...string) []string {
	var out []string
	for _, k := range keys {
		if t[k] == "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (t Tokens) clone() Tokens {
	out := make(Tokens, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Spec describes one step. R is whatever the backend hands back on submit.
type Spec[R any] struct {
	Name string
	// Requires lists the tokens the step reads; they must exist before submit.
	Requires []string
	// Produces lists the tokens that must come back for the step to complete.
	Produces []string
	// Validate checks the step's draft before any network call.
	Validate func(tokens Tokens) error
	Submit   func(ctx context.Context, tokens Tokens) (R, error)
	// Update resubmits a step that already holds its tokens. Without it,
	// submitting a completed step moves on without a call.
	Update  func(ctx context.Context, tokens Tokens) (R, error)
	Extract func(result R) Tokens
}

// Step is a type-erased Spec, so steps with different results share a list.
type Step struct {
	name     string
	requires []string
	produces []string
	validate func(Tokens) error
	submit   func(context.Context, Tokens) (any, error)
	update   func(context.Context, Tokens) (any, error)
	extract  func(any) (Tokens, error)
}

func NewStep[R any](s Spec[R]) Step {
	if s.Name == "" {
		panic("wizard: step name cannot be empty")
	}
	if s.Submit == nil {
		panic(fmt.Sprintf("wizard: step %q has no submit func", s.Name))
	}
	st := Step{
		name:     s.Name,
		requires: append([]string(nil), s.Requires...),
		produces: append([]string(nil), s.Produces...),
		validate: s.Validate,
		submit: func(ctx context.Context, t Tokens) (any, error) {
			return s.Submit(ctx, t)
		},
		extract: func(v any) (Tokens, error) {
			if s.Extract == nil {
				return nil, nil
			}
			r, ok := v.(R)
			if !ok {
				var zero R
				return nil, fmt.Errorf("wizard: step %q got result %T, want %T", s.Name, v, zero)
			}
			return s.Extract(r), nil
		},
	}
	if s.Update != nil {
		st.update = func(ctx context.Context, t Tokens) (any, error) {
			return s.Update(ctx, t)
		}
	}
	return st
}

func (s Step) Name() string { return s.name }
