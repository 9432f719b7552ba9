package middleware_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/middleware"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/aretw0/moto/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Action string

func (a Action) String() string { return string(a) }

const (
	Inc  Action = "inc"
	Noop Action = "noop"
)

type State struct {
	Counter int
}

func newStore(t *testing.T, reg *registry.Registry, opts ...store.Option) *store.Store[State, Action] {
	t.Helper()
	b := reducer.New[State, Action]("state")
	reducer.Field(b, "counter", func(s *State) *int { return &s.Counter }).
		Funcs(func(v int, a Action) domain.Outcome[int] {
			if a == Inc {
				return domain.Changed(v + 1)
			}
			return domain.Unchanged(v)
		})
	node, err := b.Build(reg)
	require.NoError(t, err)

	opts = append([]store.Option{store.WithRegistry(reg), store.WithID("test")}, opts...)
	s, err := store.New(State{}, node, opts...)
	require.NoError(t, err)
	return s
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := registry.New()
	middleware.Register(reg, middleware.Defaults{Logger: logger})

	s := newStore(t, reg,
		store.WithStateBounds(domain.CapDebug),
		store.WithActionBounds(domain.CapDebug),
		store.WithMiddlewareNames("logger"),
	)
	s.Dispatch(Inc)

	out := buf.String()
	assert.Contains(t, out, "msg=dispatching")
	assert.Contains(t, out, "action=inc")
	assert.Contains(t, out, `msg="next state"`)
	assert.Contains(t, out, "Counter:1")
}

func TestLogger_RequiresDebugBounds(t *testing.T) {
	reg := registry.New()
	middleware.Register(reg, middleware.Defaults{Logger: slog.Default()})

	b := reducer.New[State, Action]("state")
	reducer.Field(b, "counter", func(s *State) *int { return &s.Counter }).
		Funcs(func(v int, _ Action) domain.Outcome[int] { return domain.Unchanged(v) })
	node, err := b.Build(reg)
	require.NoError(t, err)

	_, err = store.New(State{}, node, store.WithRegistry(reg), store.WithMiddlewareNames("logger"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBoundsViolation)
	assert.Len(t, domain.CompositionErrors(err), 2, "both the state and the action bound are missing")
}

func TestMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(promReg, "moto")
	require.NoError(t, err)

	reg := registry.New()
	middleware.Register(reg, middleware.Defaults{Metrics: metrics})

	s := newStore(t, reg,
		store.WithActionBounds(domain.CapStringer),
		store.WithMiddlewareNames("metrics"),
		store.WithLifecycleHooks(metrics.Hooks()),
	)
	s.SubscribeFunc(func(*store.Store[State, Action]) {})
	s.SubscribeFunc(func(*store.Store[State, Action]) {})

	s.Dispatch(Inc)
	s.Dispatch(Inc)
	s.Dispatch(Noop)

	expected := `
# HELP moto_dispatch_total Total number of dispatched actions.
# TYPE moto_dispatch_total counter
moto_dispatch_total{action="inc",store="test"} 2
moto_dispatch_total{action="noop",store="test"} 1
# HELP moto_reduce_total Total number of reductions by outcome.
# TYPE moto_reduce_total counter
moto_reduce_total{changed="false",store="test"} 1
moto_reduce_total{changed="true",store="test"} 2
# HELP moto_subscriber_notifications_total Total number of subscriber updates.
# TYPE moto_subscriber_notifications_total counter
moto_subscriber_notifications_total{store="test"} 4
`
	err = testutil.GatherAndCompare(promReg, bytes.NewBufferString(expected),
		"moto_dispatch_total", "moto_reduce_total", "moto_subscriber_notifications_total")
	assert.NoError(t, err)
	count, err := testutil.GatherAndCount(promReg, "moto_dispatch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	promReg := prometheus.NewRegistry()
	_, err := middleware.NewMetrics(promReg, "moto")
	require.NoError(t, err)

	_, err = middleware.NewMetrics(promReg, "moto")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	reg := registry.New()
	middleware.Register(reg, middleware.Defaults{
		Filter: []middleware.Predicate{middleware.AllowAll(), middleware.Deny(Inc)},
	})

	s := newStore(t, reg,
		store.WithActionBounds(domain.CapComparable),
		store.WithMiddlewareNames("filter"),
	)
	calls := 0
	s.SubscribeFunc(func(*store.Store[State, Action]) { calls++ })

	s.Dispatch(Inc)
	assert.Equal(t, 0, s.State().Counter)
	assert.Zero(t, calls)
}

func TestFilter_Adapted(t *testing.T) {
	seen := 0
	onlyNoop := func(a any) bool { seen++; return a == Noop }

	s := newStore(t, registry.New(),
		store.WithMiddleware(store.Adapt[State, Action](middleware.Filter(nil, onlyNoop))),
	)
	s.Dispatch(Inc)
	s.Dispatch(Noop)
	assert.Equal(t, 2, seen)
	assert.Equal(t, 0, s.State().Counter)
}
