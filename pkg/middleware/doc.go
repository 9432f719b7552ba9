/*
Package middleware provides cross-cutting middleware for moto stores.

Everything here is written against store.View so it works for any state and
action types. Each middleware declares the capabilities it relies on; Register
records them so a store that names the middleware must declare matching
bounds, and composition fails otherwise.

	reg := registry.New()
	middleware.Register(reg, middleware.Defaults{Logger: logger, Metrics: metrics})

	s, err := store.New(initial, root,
		store.WithRegistry(reg),
		store.WithActionBounds(domain.CapDebug, domain.CapStringer),
		store.WithStateBounds(domain.CapDebug),
		store.WithMiddlewareNames("logger, metrics"),
	)
*/
package middleware
