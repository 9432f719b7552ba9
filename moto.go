package moto

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/moto/internal/logging"
	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/manifest"
	"github.com/aretw0/moto/pkg/middleware"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/aretw0/moto/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMetricsNamespace prefixes every metric registered through WithMetrics.
const DefaultMetricsNamespace = "moto"

type settings struct {
	registry     *registry.Registry
	manifest     *manifest.Manifest
	manifestPath string
	middleware   []string
	logger       *slog.Logger
	metrics      prometheus.Registerer
	namespace    string
	filters      []middleware.Predicate
	hooks        domain.LifecycleHooks
	storeOpts    []store.Option
}

// Option defines a functional option for New.
type Option func(*settings)

// WithRegistry sets the registry transitions and middleware are resolved
// against. New never writes to it: the built-in middleware lives in an
// overlay, shadowed by any function of the same name registered here.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *settings) {
		s.registry = reg
	}
}

// WithManifest applies declarative bindings to the builder and the store.
func WithManifest(m *manifest.Manifest) Option {
	return func(s *settings) {
		s.manifest = m
	}
}

// WithManifestFile loads a YAML or JSON manifest from path.
func WithManifestFile(path string) Option {
	return func(s *settings) {
		s.manifestPath = path
	}
}

// WithMiddlewareNames appends middleware by registry name, after any the
// manifest declares.
func WithMiddlewareNames(decl string) Option {
	return func(s *settings) {
		s.middleware = append(s.middleware, decl)
	}
}

// WithLogger sets the logger used by the store and the "logger" middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMetrics registers Prometheus collectors with reg and makes the
// "metrics" middleware available.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) {
		s.metrics = reg
	}
}

// WithMetricsNamespace overrides DefaultMetricsNamespace.
func WithMetricsNamespace(ns string) Option {
	return func(s *settings) {
		s.namespace = ns
	}
}

// WithFilter makes the "filter" middleware available with the given predicates.
func WithFilter(preds ...middleware.Predicate) Option {
	return func(s *settings) {
		s.filters = append(s.filters, preds...)
	}
}

// WithLifecycleHooks registers observability hooks. They run after the
// metrics hooks when both are configured.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithStoreOptions passes options straight to store.New. They are appended
// last, after everything New derives.
func WithStoreOptions(opts ...store.Option) Option {
	return func(s *settings) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// New composes a store: it applies the manifest to a copy of b, builds the
// reducer tree, registers the built-in middleware and resolves the chain.
// Neither b nor the registry passed with WithRegistry is modified, so both
// can be reused for further stores.
// Every composition error found is returned together.
func New[S, A any](initial S, b *reducer.Builder[S, A], opts ...Option) (*store.Store[S, A], error) {
	cfg := &settings{namespace: DefaultMetricsNamespace}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = registry.New()
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	if cfg.manifestPath != "" {
		m, err := manifest.Load(cfg.manifestPath)
		if err != nil {
			return nil, err
		}
		cfg.manifest = m
	}

	defaults := middleware.Defaults{Logger: cfg.logger, Filter: cfg.filters}
	hooks := cfg.hooks
	if cfg.metrics != nil {
		m, err := middleware.NewMetrics(cfg.metrics, cfg.namespace)
		if err != nil {
			return nil, err
		}
		defaults.Metrics = m
		hooks = chainHooks(m.Hooks(), cfg.hooks)
	}
	reg := registerDefaults(cfg.registry, defaults)

	storeOpts := []store.Option{
		store.WithRegistry(reg),
		store.WithLogger(cfg.logger),
		store.WithLifecycleHooks(hooks),
	}
	if b != nil {
		b = b.Clone()
	}
	var errs []error
	if cfg.manifest != nil {
		err := cfg.manifest.Validate()
		if err == nil && b != nil {
			err = cfg.manifest.Apply(b)
		}
		if err != nil {
			errs = append(errs, domain.CompositionErrors(err)...)
		}
		mOpts, err := cfg.manifest.StoreOptions()
		if err != nil {
			errs = append(errs, domain.CompositionErrors(err)...)
		}
		storeOpts = append(storeOpts, mOpts...)
	}
	for _, decl := range cfg.middleware {
		storeOpts = append(storeOpts, store.WithMiddlewareNames(decl))
	}
	storeOpts = append(storeOpts, cfg.storeOpts...)

	if b == nil {
		errs = append(errs, domain.NewCompositionError("moto", "",
			fmt.Errorf("%w: no reducer builder", domain.ErrMalformedDeclaration)))
		return nil, domain.Join(errs)
	}
	node, err := b.Build(reg)
	if err != nil {
		errs = append(errs, domain.CompositionErrors(err)...)
	}
	if err := domain.Join(errs); err != nil {
		return nil, err
	}
	return store.New(initial, node, storeOpts...)
}

// registerDefaults returns an overlay of user holding the built-in middleware
// for one store. Names the user registered keep resolving to the user's
// functions.
func registerDefaults(user *registry.Registry, d middleware.Defaults) *registry.Registry {
	builtins := registry.New()
	middleware.Register(builtins, d)
	reg := registry.Overlay(user)
	for _, name := range builtins.Names(registry.KindMiddleware) {
		if _, taken := user.Lookup(registry.KindMiddleware, name); taken {
			continue
		}
		e, _ := builtins.Lookup(registry.KindMiddleware, name)
		reg.RegisterWithRequirements(name, e.Kind, e.Fn, e.Requires)
	}
	return reg
}

func chainHooks(first, second domain.LifecycleHooks) domain.LifecycleHooks {
	join := func(a, b func(*domain.DispatchEvent)) func(*domain.DispatchEvent) {
		switch {
		case a == nil:
			return b
		case b == nil:
			return a
		}
		return func(e *domain.DispatchEvent) {
			a(e)
			b(e)
		}
	}
	return domain.LifecycleHooks{
		OnDispatch: join(first.OnDispatch, second.OnDispatch),
		OnReduce:   join(first.OnReduce, second.OnReduce),
		OnNotify:   join(first.OnNotify, second.OnNotify),
	}
}
