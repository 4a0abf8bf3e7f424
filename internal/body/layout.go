// Package body defines the contract with the parametric body model: its static
// topology and skinning data, the fixed-layout parameter vectors the fitter
// optimizes, and the forward-evaluation interface.
package body

import (
	"errors"
	"fmt"
)

// ErrUnknownParameter is returned when a parameter name is not among the
// model's declared labels.
var ErrUnknownParameter = errors.New("unknown parameter name")

// Layout maps parameter names to stable column indices. The column order is
// the declaration order of the labels and never changes after construction,
// so Jacobian columns and vector entries can be indexed consistently.
type Layout struct {
	names []string
	index map[string]int
}

// NewLayout builds a layout from an ordered label list.
func NewLayout(names []string) *Layout {
	l := &Layout{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, name := range l.names {
		l.index[name] = i
	}
	return l
}

// Len returns the number of labels.
func (l *Layout) Len() int { return len(l.names) }

// Names returns the labels in column order. The returned slice must not be
// modified.
func (l *Layout) Names() []string { return l.names }

// Name returns the label at column i.
func (l *Layout) Name(i int) string { return l.names[i] }

// Index returns the column for a label.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Resolve returns the column for a label, or ErrUnknownParameter.
func (l *Layout) Resolve(name string) (int, error) {
	i, ok := l.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return i, nil
}
