package reducer

import (
	"fmt"
	"maps"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/aretw0/moto/internal/compiler"
	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/registry"
)

// Configurable is implemented by every Builder. It lets declarative metadata
// attach names to declared fields without knowing the state or action types.
type Configurable interface {
	Name() string
	FieldNames() []string
	Lookup(field string) (Binding, bool)
}

// Binding is the untyped view of a declared field.
type Binding interface {
	Field() string
	// Reducers appends a comma-separated list of transition names.
	Reducers(decl string)
	// Child returns the nested builder when the field is a sub-reducer.
	Child() (Configurable, bool)
}

type slot[S, A any] interface {
	Binding
	compile(path string, reg *registry.Registry) (compiledField[S, A], error)
	clone() slot[S, A]
}

// Builder declares the reducer bindings of state shape S for action type A.
type Builder[S, A any] struct {
	name  string
	slots []slot[S, A]
	index map[string]int
	errs  []error
}

// New creates a builder for a state shape. The name prefixes field paths in
// errors and fault reports.
func New[S, A any](name string) *Builder[S, A] {
	return &Builder[S, A]{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the shape name.
func (b *Builder[S, A]) Name() string {
	return b.name
}

// FieldNames lists declared fields in declaration order.
func (b *Builder[S, A]) FieldNames() []string {
	names := make([]string, len(b.slots))
	for i, s := range b.slots {
		names[i] = s.Field()
	}
	return names
}

// Lookup returns the binding declared for field.
func (b *Builder[S, A]) Lookup(field string) (Binding, bool) {
	i, ok := b.index[field]
	if !ok {
		return nil, false
	}
	return b.slots[i], true
}

// Clone returns a builder with the same declarations whose bindings can be
// extended without affecting b. Nested builders are cloned too.
func (b *Builder[S, A]) Clone() *Builder[S, A] {
	c := &Builder[S, A]{
		name:  b.name,
		slots: make([]slot[S, A], len(b.slots)),
		index: maps.Clone(b.index),
		errs:  slices.Clone(b.errs),
	}
	for i, s := range b.slots {
		c.slots[i] = s.clone()
	}
	return c
}

func (b *Builder[S, A]) add(s slot[S, A]) {
	name := s.Field()
	if _, dup := b.index[name]; dup {
		b.errs = append(b.errs, domain.NewCompositionError(b.name, name,
			fmt.Errorf("%w: field declared more than once", domain.ErrMalformedDeclaration)))
		return
	}
	b.index[name] = len(b.slots)
	b.slots = append(b.slots, s)
}

// Build resolves every binding against reg and returns the composed node.
// All composition errors found are reported together.
func (b *Builder[S, A]) Build(reg *registry.Registry) (*Node[S, A], error) {
	return b.compile(b.name, reg)
}

func (b *Builder[S, A]) compile(path string, reg *registry.Registry) (*Node[S, A], error) {
	errs := append([]error(nil), b.errs...)

	if t := reflect.TypeFor[S](); t.Kind() != reflect.Struct {
		errs = append(errs, domain.NewCompositionError(path, t.String(),
			fmt.Errorf("%w: only struct shapes can be reduced, got %s", domain.ErrUnsupportedShape, t.Kind())))
	}

	if len(b.slots) == 0 {
		errs = append(errs, domain.NewCompositionError(path, "",
			fmt.Errorf("%w: shape has no bound fields", domain.ErrMalformedDeclaration)))
	}

	node := &Node[S, A]{name: b.name, fields: make([]compiledField[S, A], 0, len(b.slots))}
	for _, s := range b.slots {
		f, err := s.compile(path+"."+s.Field(), reg)
		if err != nil {
			errs = append(errs, domain.CompositionErrors(err)...)
			continue
		}
		node.fields = append(node.fields, f)
	}

	if err := domain.Join(errs); err != nil {
		return nil, err
	}
	return node, nil
}

// Register adds a transition function to reg under name.
func Register[T, A any](reg *registry.Registry, name string, fn domain.TransitionFunc[T, A]) {
	reg.Register(name, registry.KindTransition, fn)
}

type entry[T, A any] struct {
	decl string // comma-separated names, resolved at build time
	fn   transition[T, A]
}

type transition[T, A any] struct {
	name string
	fn   domain.TransitionFunc[T, A]
}

// FieldBinding binds one field of S (of type T) to transition functions.
type FieldBinding[S, T, A any] struct {
	name    string
	get     func(*S) *T
	entries []entry[T, A]
}

// Field declares a field governed by transition functions.
// get must return a pointer to the field inside the given state.
func Field[S, T, A any](b *Builder[S, A], name string, get func(*S) *T) *FieldBinding[S, T, A] {
	f := &FieldBinding[S, T, A]{name: name, get: get}
	b.add(f)
	return f
}

// Field returns the field name.
func (f *FieldBinding[S, T, A]) Field() string {
	return f.name
}

// Reducers appends transitions by registry name, e.g. "add_todo, toggle_todo".
func (f *FieldBinding[S, T, A]) Reducers(decl string) {
	f.entries = append(f.entries, entry[T, A]{decl: decl})
}

// With is the chaining form of Reducers.
func (f *FieldBinding[S, T, A]) With(decl string) *FieldBinding[S, T, A] {
	f.Reducers(decl)
	return f
}

// Funcs appends transitions by value. They are named after the Go function.
func (f *FieldBinding[S, T, A]) Funcs(fns ...domain.TransitionFunc[T, A]) *FieldBinding[S, T, A] {
	for _, fn := range fns {
		f.entries = append(f.entries, entry[T, A]{fn: transition[T, A]{name: funcName(fn), fn: fn}})
	}
	return f
}

// Child always reports false: a transition field has no nested builder.
func (f *FieldBinding[S, T, A]) Child() (Configurable, bool) {
	return nil, false
}

func (f *FieldBinding[S, T, A]) clone() slot[S, A] {
	c := *f
	c.entries = slices.Clone(f.entries)
	return &c
}

func (f *FieldBinding[S, T, A]) compile(path string, reg *registry.Registry) (compiledField[S, A], error) {
	if f.get == nil {
		return compiledField[S, A]{}, domain.NewCompositionError(path, "",
			fmt.Errorf("%w: nil field accessor", domain.ErrMalformedDeclaration))
	}
	if len(f.entries) == 0 {
		return compiledField[S, A]{}, domain.NewCompositionError(path, "",
			fmt.Errorf("%w: field has no transitions", domain.ErrMalformedDeclaration))
	}

	parser := &compiler.Parser{AllowDuplicates: true}
	var (
		ts   []transition[T, A]
		errs []error
	)
	for _, e := range f.entries {
		if e.decl == "" && e.fn.fn != nil {
			ts = append(ts, e.fn)
			continue
		}
		names, err := parser.ParseNames(path, e.decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range names {
			fn, err := resolveTransition[T, A](reg, path, name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			ts = append(ts, transition[T, A]{name: name, fn: fn})
		}
	}
	if err := domain.Join(errs); err != nil {
		return compiledField[S, A]{}, err
	}

	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.name
	}
	return compiledField[S, A]{
		name:        f.name,
		transitions: names,
		dispatch:    fieldDispatch(path, f.get, ts),
	}, nil
}

func resolveTransition[T, A any](reg *registry.Registry, path, name string) (domain.TransitionFunc[T, A], error) {
	fn, e, err := registry.Resolve[domain.TransitionFunc[T, A]](reg, registry.KindTransition, path, name)
	if err == nil {
		return fn, nil
	}
	// Plain func literals registered without the named type are accepted too.
	if raw, ok := e.Fn.(func(T, A) domain.Outcome[T]); ok {
		return raw, nil
	}
	return nil, err
}

// SubBinding marks a field of S as governed by a nested reducer over T.
type SubBinding[S, T, A any] struct {
	name  string
	get   func(*S) *T
	child *Builder[T, A]
	decls []string
}

// Sub declares a field governed by a nested builder.
func Sub[S, T, A any](b *Builder[S, A], name string, get func(*S) *T, child *Builder[T, A]) *SubBinding[S, T, A] {
	f := &SubBinding[S, T, A]{name: name, get: get, child: child}
	b.add(f)
	return f
}

// Field returns the field name.
func (f *SubBinding[S, T, A]) Field() string {
	return f.name
}

// Reducers records transition names on a sub-reducer field. A field is either
// a sub-reducer or bound to transitions, so Build rejects it.
func (f *SubBinding[S, T, A]) Reducers(decl string) {
	f.decls = append(f.decls, decl)
}

// Child returns the nested builder.
func (f *SubBinding[S, T, A]) Child() (Configurable, bool) {
	if f.child == nil {
		return nil, false
	}
	return f.child, true
}

func (f *SubBinding[S, T, A]) clone() slot[S, A] {
	c := *f
	c.decls = slices.Clone(f.decls)
	if f.child != nil {
		c.child = f.child.Clone()
	}
	return &c
}

func (f *SubBinding[S, T, A]) compile(path string, reg *registry.Registry) (compiledField[S, A], error) {
	if len(f.decls) > 0 {
		return compiledField[S, A]{}, domain.NewCompositionError(path, strings.Join(f.decls, ", "),
			fmt.Errorf("%w: a sub-reducer field cannot also bind transitions", domain.ErrMalformedDeclaration))
	}
	if f.get == nil || f.child == nil {
		return compiledField[S, A]{}, domain.NewCompositionError(path, "",
			fmt.Errorf("%w: sub-reducer needs an accessor and a builder", domain.ErrMalformedDeclaration))
	}

	child, err := f.child.compile(path, reg)
	if err != nil {
		return compiledField[S, A]{}, err
	}
	get := f.get
	return compiledField[S, A]{
		name: f.name,
		sub:  child,
		dispatch: func(s *S, a A) bool {
			return child.Dispatch(access(path, get, s), a)
		},
	}, nil
}

func funcName(fn any) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return "func"
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
