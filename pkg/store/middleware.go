package store

// Next is one link of a composed dispatch chain.
type Next[S, A any] func(s *Store[S, A], action A)

// Middleware wraps the next link. It decides whether, when and how often to
// call next.
type Middleware[S, A any] func(s *Store[S, A], next Next[S, A], action A)

// Compose builds the chain for mws around base. Links are built from the last
// middleware to the first, so the returned entry point runs mws[0] first and
// base last. With no middleware it returns base itself.
func Compose[S, A any](base Next[S, A], mws ...Middleware[S, A]) Next[S, A] {
	next := base
	for i := len(mws) - 1; i >= 0; i-- {
		mw, inner := mws[i], next
		next = func(s *Store[S, A], action A) {
			mw(s, inner, action)
		}
	}
	return next
}

// View is the type-erased side of a store, used by middleware that works over
// any state and action types.
type View interface {
	ID() string
	// StateValue returns a copy of the current root state.
	StateValue() any
	// DispatchValue dispatches action, which must be of the store's action type.
	DispatchValue(action any)
}

// GenericNext is the type-erased form of Next.
type GenericNext func(v View, action any)

// GenericMiddleware is middleware written against View. Capability bounds
// declared on the store are what such middleware may rely on.
type GenericMiddleware func(v View, next GenericNext, action any)

// Adapt turns generic middleware into middleware for a concrete store type.
func Adapt[S, A any](g GenericMiddleware) Middleware[S, A] {
	return func(s *Store[S, A], next Next[S, A], action A) {
		g(s, func(_ View, a any) { next(s, a.(A)) }, action)
	}
}
