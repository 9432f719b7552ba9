package store

import (
	"log/slog"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/registry"
)

// Option configures a Store at construction.
type Option func(*config)

type chainSpec struct {
	decl string // comma-separated registry names
	fn   any    // a Middleware[S, A] value
	name string
}

type config struct {
	id           string
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	registry     *registry.Registry
	stateBounds  domain.Bounds
	actionBounds domain.Bounds
	chain        []chainSpec
}

// WithID sets the store identifier used in logs and events. Defaults to a random UUID.
func WithID(id string) Option {
	return func(c *config) {
		c.id = id
	}
}

// WithLogger sets a custom structured logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithRegistry sets the registry named middleware is resolved against.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithStateBounds declares capabilities of the state type that middleware may rely on.
func WithStateBounds(caps ...domain.Capability) Option {
	return func(c *config) {
		c.stateBounds = append(c.stateBounds, caps...)
	}
}

// WithActionBounds declares capabilities of the action type that middleware may rely on.
func WithActionBounds(caps ...domain.Capability) Option {
	return func(c *config) {
		c.actionBounds = append(c.actionBounds, caps...)
	}
}

// WithMiddlewareNames appends middleware by registry name, e.g. "logger, metrics".
// Options that add middleware are applied in the order given.
func WithMiddlewareNames(decl string) Option {
	return func(c *config) {
		c.chain = append(c.chain, chainSpec{decl: decl})
	}
}

// WithMiddleware appends middleware values.
func WithMiddleware[S, A any](mws ...Middleware[S, A]) Option {
	return func(c *config) {
		for _, mw := range mws {
			c.chain = append(c.chain, chainSpec{fn: mw, name: funcName(mw)})
		}
	}
}
