package reducer

import (
	"github.com/aretw0/moto/pkg/domain"
)

type describer interface {
	Describe() Description
}

type compiledField[S, A any] struct {
	name        string
	transitions []string
	sub         describer
	dispatch    func(s *S, a A) bool
}

// Node is the composed reducer for state shape S.
type Node[S, A any] struct {
	name   string
	fields []compiledField[S, A]
}

// Dispatch applies action to every bound field of s and reports whether any
// transition, here or in a nested node, reported a change. Every field runs
// exactly once; there is no short-circuit.
func (n *Node[S, A]) Dispatch(s *S, action A) bool {
	changed := false
	for i := range n.fields {
		if n.fields[i].dispatch(s, action) {
			changed = true
		}
	}
	return changed
}

// Name returns the shape name given to the builder.
func (n *Node[S, A]) Name() string {
	return n.name
}

// Description is a resolved, printable view of a reducer tree.
type Description struct {
	Name   string             `json:"name" yaml:"name"`
	Fields []FieldDescription `json:"fields" yaml:"fields"`
}

// FieldDescription describes one bound field.
type FieldDescription struct {
	Name        string       `json:"name" yaml:"name"`
	Transitions []string     `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Sub         *Description `json:"sub,omitempty" yaml:"sub,omitempty"`
}

// Describe returns the resolved bindings in declaration order.
func (n *Node[S, A]) Describe() Description {
	d := Description{Name: n.name, Fields: make([]FieldDescription, len(n.fields))}
	for i, f := range n.fields {
		fd := FieldDescription{Name: f.name, Transitions: f.transitions}
		if f.sub != nil {
			sub := f.sub.Describe()
			fd.Sub = &sub
		}
		d.Fields[i] = fd
	}
	return d
}

// fieldDispatch threads the field value through ts and writes it back once.
// A faulting transition leaves *get(s) untouched.
func fieldDispatch[S, T, A any](path string, get func(*S) *T, ts []transition[T, A]) func(*S, A) bool {
	return func(s *S, action A) bool {
		ptr := access(path, get, s)
		v := *ptr
		changed := false
		for _, t := range ts {
			out := apply(path, t, v, action)
			v = out.Value
			if out.Changed {
				changed = true
			}
		}
		*ptr = v
		return changed
	}
}

// accessorName is reported as the transition of a fault raised by a field accessor.
const accessorName = "(accessor)"

// access resolves a field pointer. A panicking accessor or a nil pointer is
// raised as a fault on path, like a faulting transition.
func access[S, T any](path string, get func(*S) *T, s *S) (ptr *T) {
	defer func() {
		if r := recover(); r != nil {
			panic(&domain.FaultError{Path: path, Transition: accessorName, Cause: r})
		}
	}()
	ptr = get(s)
	if ptr == nil {
		panic("accessor returned a nil pointer")
	}
	return ptr
}

func apply[T, A any](path string, t transition[T, A], v T, action A) domain.Outcome[T] {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*domain.FaultError); ok {
				panic(fe)
			}
			panic(&domain.FaultError{Path: path, Transition: t.name, Cause: r})
		}
	}()
	return t.fn(v, action)
}
