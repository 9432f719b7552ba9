package middleware

import (
	"fmt"
	"time"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRequirements are the bounds Metrics relies on: actions are labeled
// by their String form, which keeps label cardinality bounded.
var MetricsRequirements = domain.Requirements{
	Action: domain.Bounds{domain.CapStringer},
}

// Metrics collects Prometheus metrics about dispatches.
// The middleware measures the chain; the lifecycle hooks count reducer
// outcomes and notification passes, which middleware cannot observe.
type Metrics struct {
	dispatches    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	reductions    *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of dispatched actions.",
		}, []string{"store", "action"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent in the middleware chain, reducers and subscribers.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"store", "action"}),
		reductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reduce_total",
			Help:      "Total number of reductions by outcome.",
		}, []string{"store", "changed"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriber_notifications_total",
			Help:      "Total number of subscriber updates.",
		}, []string{"store"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.dispatches, m.duration, m.reductions, m.notifications} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Middleware returns the measuring middleware.
func (m *Metrics) Middleware() store.GenericMiddleware {
	return func(v store.View, next store.GenericNext, action any) {
		label := actionLabel(action)
		start := time.Now()
		next(v, action)
		m.dispatches.WithLabelValues(v.ID(), label).Inc()
		m.duration.WithLabelValues(v.ID(), label).Observe(time.Since(start).Seconds())
	}
}

// Hooks returns lifecycle hooks that count reductions and notifications.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReduce: func(e *domain.DispatchEvent) {
			m.reductions.WithLabelValues(e.StoreID, fmt.Sprint(e.Changed)).Inc()
		},
		OnNotify: func(e *domain.DispatchEvent) {
			m.notifications.WithLabelValues(e.StoreID).Add(float64(e.Subscribers))
		},
	}
}

func actionLabel(action any) string {
	if s, ok := action.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", action)
}
