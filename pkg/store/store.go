package store

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/moto/internal/compiler"
	"github.com/aretw0/moto/internal/logging"
	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/google/uuid"
)

// Store owns the root state S and is the only way to change it.
type Store[S, A any] struct {
	id         string
	state      S
	root       *reducer.Node[S, A]
	entry      Next[S, A]
	middleware []string
	subs       []*subscription[S, A]
	lastToken  domain.Token
	depth      int
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
}

// New composes the middleware chain and binds it to initial state.
// Every composition error is reported together; no store is returned with one.
func New[S, A any](initial S, root *reducer.Node[S, A], opts ...Option) (*Store[S, A], error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	var errs []error
	if root == nil {
		errs = append(errs, domain.NewCompositionError("store", "",
			fmt.Errorf("%w: no root reducer", domain.ErrMalformedDeclaration)))
	}
	if err := cfg.stateBounds.Check("state_bounds", reflect.TypeFor[S]()); err != nil {
		errs = append(errs, domain.CompositionErrors(err)...)
	}
	if err := cfg.actionBounds.Check("action_bounds", reflect.TypeFor[A]()); err != nil {
		errs = append(errs, domain.CompositionErrors(err)...)
	}

	mws, names, err := resolveChain[S, A](cfg)
	if err != nil {
		errs = append(errs, domain.CompositionErrors(err)...)
	}
	if err := domain.Join(errs); err != nil {
		return nil, err
	}

	s := &Store[S, A]{
		id:         cfg.id,
		state:      initial,
		root:       root,
		entry:      Compose(reduce[S, A], mws...),
		middleware: names,
		logger:     cfg.logger.With("store", cfg.id),
		hooks:      cfg.hooks,
	}
	s.logger.Debug("store composed",
		"root", root.Name(),
		"middleware", names,
		"state_bounds", cfg.stateBounds,
		"action_bounds", cfg.actionBounds,
	)
	return s, nil
}

func resolveChain[S, A any](cfg *config) ([]Middleware[S, A], []string, error) {
	var (
		mws   []Middleware[S, A]
		names []string
		errs  []error
	)
	seen := make(map[string]bool)
	parser := compiler.NewParser()

	for _, spec := range cfg.chain {
		if spec.fn != nil {
			mw, ok := spec.fn.(Middleware[S, A])
			if !ok {
				errs = append(errs, domain.NewCompositionError("middleware", spec.name,
					fmt.Errorf("%w: %T is not middleware for this store", domain.ErrTypeMismatch, spec.fn)))
				continue
			}
			mws = append(mws, mw)
			names = append(names, spec.name)
			continue
		}

		declared, err := parser.ParseNames("middleware", spec.decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range declared {
			if seen[name] {
				errs = append(errs, domain.NewCompositionError("middleware", name,
					fmt.Errorf("%w: declared more than once", domain.ErrMalformedDeclaration)))
				continue
			}
			seen[name] = true

			mw, err := resolveMiddleware[S, A](cfg, name)
			if err != nil {
				errs = append(errs, domain.CompositionErrors(err)...)
				continue
			}
			mws = append(mws, mw)
			names = append(names, name)
		}
	}
	return mws, names, domain.Join(errs)
}

func resolveMiddleware[S, A any](cfg *config, name string) (Middleware[S, A], error) {
	subject := "middleware " + name
	fn, e, err := registry.Resolve[Middleware[S, A]](cfg.registry, registry.KindMiddleware, "middleware", name)
	if err != nil {
		switch raw := e.Fn.(type) {
		case func(*Store[S, A], Next[S, A], A):
			fn, err = raw, nil
		case GenericMiddleware:
			fn, err = Adapt[S, A](raw), nil
		case func(View, GenericNext, any):
			fn, err = Adapt[S, A](raw), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := e.Requires.MissingFrom(subject, cfg.stateBounds, cfg.actionBounds); err != nil {
		return nil, err
	}
	return fn, nil
}

// reduce is the innermost link of every chain.
func reduce[S, A any](s *Store[S, A], action A) {
	changed := s.root.Dispatch(&s.state, action)
	s.emit(s.hooks.OnReduce, domain.EventReduce, action, changed, 0)
	if !changed {
		return
	}
	s.notify(action)
}

// notify runs every subscriber registered when the pass starts, in order.
// Subscribers removed during the pass are skipped.
func (s *Store[S, A]) notify(action A) {
	pass := slices.Clone(s.subs)
	s.emit(s.hooks.OnNotify, domain.EventNotify, action, true, len(pass))
	for _, sub := range pass {
		if sub.removed {
			continue
		}
		sub.sub.Update(s)
	}
}

// Dispatch runs action through the middleware chain. It returns once the
// chain, the reducers and every notified subscriber have finished.
func (s *Store[S, A]) Dispatch(action A) {
	s.depth++
	defer func() {
		s.depth--
		if r := recover(); r != nil {
			if fe, ok := r.(*domain.FaultError); ok {
				s.logger.Error("transition fault", "path", fe.Path, "transition", fe.Transition, "err", fe.Cause)
			}
			panic(r)
		}
	}()
	s.emit(s.hooks.OnDispatch, domain.EventDispatch, action, false, 0)
	s.entry(s, action)
}

func (s *Store[S, A]) emit(hook func(*domain.DispatchEvent), t domain.EventType, action A, changed bool, subs int) {
	if hook == nil {
		return
	}
	hook(&domain.DispatchEvent{
		Timestamp:   time.Now(),
		Type:        t,
		StoreID:     s.id,
		Action:      action,
		Depth:       s.depth,
		Changed:     changed,
		Subscribers: subs,
	})
}

// State returns a copy of the current root state. Reference-typed fields
// (slices, maps) share storage with the store and must not be mutated.
func (s *Store[S, A]) State() S {
	return s.state
}

// Subscribe appends sub to the notification list and returns a token for Unsubscribe.
func (s *Store[S, A]) Subscribe(sub Subscriber[S, A]) domain.Token {
	s.lastToken++
	s.subs = append(s.subs, &subscription[S, A]{token: s.lastToken, sub: sub})
	return s.lastToken
}

// SubscribeFunc is Subscribe for a plain function.
func (s *Store[S, A]) SubscribeFunc(fn func(s *Store[S, A])) domain.Token {
	return s.Subscribe(SubscriberFunc[S, A](fn))
}

// Unsubscribe removes the subscription identified by token, keeping the order
// of the others. It reports whether the token was found.
func (s *Store[S, A]) Unsubscribe(token domain.Token) bool {
	i := slices.IndexFunc(s.subs, func(sub *subscription[S, A]) bool { return sub.token == token })
	if i < 0 {
		return false
	}
	s.subs[i].removed = true
	s.subs = slices.Delete(s.subs, i, i+1)
	return true
}

// Subscribers returns the number of active subscriptions.
func (s *Store[S, A]) Subscribers() int {
	return len(s.subs)
}

// Middleware returns the names of the composed middleware, outermost first.
func (s *Store[S, A]) Middleware() []string {
	return slices.Clone(s.middleware)
}

// Reducer returns the root reducer node.
func (s *Store[S, A]) Reducer() *reducer.Node[S, A] {
	return s.root
}

// Depth returns how many dispatches are in progress, counting re-entrant ones.
func (s *Store[S, A]) Depth() int {
	return s.depth
}

// Logger returns the store's logger, already tagged with the store ID.
func (s *Store[S, A]) Logger() *slog.Logger {
	return s.logger
}

// ID identifies the store in logs and events.
func (s *Store[S, A]) ID() string {
	return s.id
}

// StateValue implements View.
func (s *Store[S, A]) StateValue() any {
	return s.state
}

// DispatchValue implements View. It panics if action is not of type A.
func (s *Store[S, A]) DispatchValue(action any) {
	a, ok := action.(A)
	if !ok {
		panic(fmt.Sprintf("store %s: cannot dispatch %T", s.id, action))
	}
	s.Dispatch(a)
}

func funcName(fn any) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return "middleware"
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
