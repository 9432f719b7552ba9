package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/moto/pkg/domain"
)

// Kind separates the namespaces of registered functions.
type Kind string

const (
	KindTransition Kind = "transition"
	KindMiddleware Kind = "middleware"
)

// Entry is a named function together with the capabilities it relies on.
type Entry struct {
	Name     string
	Kind     Kind
	Fn       any
	Requires domain.Requirements
}

// Registry manages the functions that declarative bindings refer to by name.
// It is consulted only while composing; dispatch never touches it.
type Registry struct {
	mu      sync.RWMutex
	entries map[Kind]map[string]Entry
	parent  *Registry
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		entries: map[Kind]map[string]Entry{
			KindTransition: {},
			KindMiddleware: {},
		},
	}
}

// Overlay creates an empty registry layered over parent. Lookups fall back to
// parent; registrations stay in the overlay and never reach parent.
func Overlay(parent *Registry) *Registry {
	r := New()
	r.parent = parent
	return r
}

// Register adds a function to the registry.
// If a function with the same name and kind exists, it is overwritten.
func (r *Registry) Register(name string, kind Kind, fn any) {
	r.RegisterWithRequirements(name, kind, fn, domain.Requirements{})
}

// RegisterWithRequirements adds a function that relies on capabilities of the
// state or action type. Composition rejects it unless the store declares them.
func (r *Registry) RegisterWithRequirements(name string, kind Kind, fn any, req domain.Requirements) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[kind] == nil {
		r.entries[kind] = make(map[string]Entry)
	}
	r.entries[kind][name] = Entry{
		Name: name,
		Kind: kind,
		Fn:   fn,
		Requires: domain.Requirements{
			State:  slices.Clone(req.State),
			Action: slices.Clone(req.Action),
		},
	}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(kind Kind, name string) (Entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[kind][name]
	r.mu.RUnlock()
	if !ok && r.parent != nil {
		return r.parent.Lookup(kind, name)
	}
	return e, ok
}

// Names lists registered names of the given kind in sorted order.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries[kind]))
	for name := range r.entries[kind] {
		names = append(names, name)
	}
	r.mu.RUnlock()
	if r.parent != nil {
		names = append(names, r.parent.Names(kind)...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Resolve looks up name and asserts its function to F.
// A missing name yields domain.ErrUnresolvedName; a function of another
// signature yields domain.ErrTypeMismatch.
func Resolve[F any](r *Registry, kind Kind, subject, name string) (F, Entry, error) {
	var zero F
	if r == nil {
		return zero, Entry{}, domain.NewCompositionError(subject, name,
			fmt.Errorf("%w: no registry configured", domain.ErrUnresolvedName))
	}
	e, ok := r.Lookup(kind, name)
	if !ok {
		return zero, Entry{}, domain.NewCompositionError(subject, name,
			fmt.Errorf("%w: no %s registered", domain.ErrUnresolvedName, kind))
	}
	fn, ok := e.Fn.(F)
	if !ok {
		return zero, e, domain.NewCompositionError(subject, name,
			fmt.Errorf("%w: registered %s is %T, want %T", domain.ErrTypeMismatch, kind, e.Fn, zero))
	}
	return fn, e, nil
}
