// Package form binds draft struct fields by name so that handlers and
// interactive prompts can edit a draft without knowing its Go type.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotList      = errors.New("field is not a list")
	ErrNotScalar    = errors.New("field is not a scalar")
	ErrMinItems     = errors.New("list cannot have fewer items")
	ErrIndexRange   = errors.New("list index out of range")
	ErrUnknownPart  = errors.New("unknown item part")
)

type scalar interface {
	set(value string) error
	get() string
}

type list interface {
	size() int
	floor() int
	add()
	remove(i int)
	setItem(i int, part, value string) error
	partNames() []string
}

// Group is a set of named bindings onto one draft.
type Group struct {
	scalars map[string]scalar
	lists   map[string]list
}

func NewGroup() *Group {
	return &Group{scalars: map[string]scalar{}, lists: map[string]list{}}
}

// Fields returns every bound name, sorted.
func (g *Group) Fields() []string {
	out := make([]string, 0, len(g.scalars)+len(g.lists))
	for k := range g.scalars {
		out = append(out, k)
	}
	for k := range g.lists {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsList reports whether name is bound as a list field.
func (g *Group) IsList(name string) bool {
	_, ok := g.lists[name]
	return ok
}

// SetField replaces the value of a scalar field.
func (g *Group) SetField(name, value string) error {
	s, ok := g.scalars[name]
	if !ok {
		if _, isList := g.lists[name]; isList {
			return fmt.Errorf("%s: %w", name, ErrNotScalar)
		}
		return fmt.Errorf("%s: %w", name, ErrUnknownField)
	}
	if err := s.set(value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Field returns the current value of a scalar field in its string form.
func (g *Group) Field(name string) (string, error) {
	s, ok := g.scalars[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrUnknownField)
	}
	return s.get(), nil
}

// AddListItem appends an empty element to a list field.
func (g *Group) AddListItem(name string) error {
	l, err := g.list(name)
	if err != nil {
		return err
	}
	l.add()
	return nil
}

// RemoveListItem deletes the element at index. A list never shrinks below
// the floor it was bound with.
func (g *Group) RemoveListItem(name string, index int) error {
	l, err := g.list(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= l.size() {
		return fmt.Errorf("%s[%d]: %w", name, index, ErrIndexRange)
	}
	if l.size() <= l.floor() {
		return fmt.Errorf("%s: %w than %d", name, ErrMinItems, l.floor())
	}
	l.remove(index)
	return nil
}

// SetListItem edits one part of the element at index.
func (g *Group) SetListItem(name string, index int, part, value string) error {
	l, err := g.list(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= l.size() {
		return fmt.Errorf("%s[%d]: %w", name, index, ErrIndexRange)
	}
	if err := l.setItem(index, part, value); err != nil {
		return fmt.Errorf("%s[%d]: %w", name, index, err)
	}
	return nil
}

// ListLen returns the number of elements in a list field.
func (g *Group) ListLen(name string) (int, error) {
	l, err := g.list(name)
	if err != nil {
		return 0, err
	}
	return l.size(), nil
}

func (g *Group) list(name string) (list, error) {
	l, ok := g.lists[name]
	if !ok {
		if _, isScalar := g.scalars[name]; isScalar {
			return nil, fmt.Errorf("%s: %w", name, ErrNotList)
		}
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownField)
	}
	return l, nil
}

type scalarFunc struct {
	setFn func(string) error
	getFn func() string
}

func (s scalarFunc) set(v string) error { return s.setFn(v) }
func (s scalarFunc) get() string        { return s.getFn() }

func String(g *Group, name string, dst *string) {
	g.scalars[name] = scalarFunc{
		setFn: func(v string) error { *dst = strings.TrimSpace(v); return nil },
		getFn: func() string { return *dst },
	}
}

func Float(g *Group, name string, dst *float64) {
	g.scalars[name] = scalarFunc{
		setFn: func(v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				*dst = 0
				return nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			*dst = f
			return nil
		},
		getFn: func() string { return strconv.FormatFloat(*dst, 'f', -1, 64) },
	}
}

func Int(g *Group, name string, dst *int) {
	g.scalars[name] = scalarFunc{
		setFn: func(v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				*dst = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			*dst = n
			return nil
		},
		getFn: func() string { return strconv.Itoa(*dst) },
	}
}

func Bool(g *Group, name string, dst *bool) {
	g.scalars[name] = scalarFunc{
		setFn: func(v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("not a boolean: %q", v)
			}
			*dst = b
			return nil
		},
		getFn: func() string { return strconv.FormatBool(*dst) },
	}
}

type listBinding[T any] struct {
	dst    *[]T
	min    int
	parts  []string
	setter func(item *T, part, value string) error
}

func (l *listBinding[T]) partNames() []string { return append([]string(nil), l.parts...) }

func (l *listBinding[T]) size() int  { return len(*l.dst) }
func (l *listBinding[T]) floor() int { return l.min }

func (l *listBinding[T]) add() {
	var zero T
	*l.dst = append(*l.dst, zero)
}

func (l *listBinding[T]) remove(i int) {
	s := *l.dst
	*l.dst = append(s[:i:i], s[i+1:]...)
}

func (l *listBinding[T]) setItem(i int, part, value string) error {
	return l.setter(&(*l.dst)[i], part, value)
}

// List binds a list field. min is the number of elements the list keeps at
// all times; the list is padded with zero elements up to min on bind.
// parts names the editable parts of one element; none means the element is
// a single value.
func List[T any](g *Group, name string, dst *[]T, min int, setter func(item *T, part, value string) error, parts ...string) {
	if min < 0 {
		min = 0
	}
	for len(*dst) < min {
		var zero T
		*dst = append(*dst, zero)
	}
	g.lists[name] = &listBinding[T]{dst: dst, min: min, parts: parts, setter: setter}
}

// Strings binds a list of plain strings; the part argument is ignored.
func Strings(g *Group, name string, dst *[]string, min int) {
	List(g, name, dst, min, func(item *string, _ string, value string) error {
		*item = strings.TrimSpace(value)
		return nil
	})
}

// Parts returns the part names of a list field's elements.
func (g *Group) Parts(name string) ([]string, error) {
	l, err := g.list(name)
	if err != nil {
		return nil, err
	}
	return l.partNames(), nil
}

// Pair is a key/value list element (specifications, feature pairs).
type Pair struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// Pairs binds a list of key/value pairs; parts are "key" and "value".
func Pairs(g *Group, name string, dst *[]Pair, min int) {
	List(g, name, dst, min, func(item *Pair, part, value string) error {
		switch part {
		case "key":
			item.Key = strings.TrimSpace(value)
		case "value":
			item.Value = strings.TrimSpace(value)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownPart, part)
		}
		return nil
	}, "key", "value")
}

// ParseInt parses a list part into dst; blank means zero.
func ParseInt(value string, dst *int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*dst = 0
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("not an integer: %q", value)
	}
	*dst = n
	return nil
}

func UnknownPart(part string) error {
	return fmt.Errorf("%w: %q", ErrUnknownPart, part)
}
