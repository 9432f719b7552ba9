package middleware

import (
	"log/slog"

	"github.com/aretw0/moto/pkg/registry"
)

// Defaults selects the built-in middleware Register makes available by name.
type Defaults struct {
	Logger  *slog.Logger // "logger"
	Metrics *Metrics     // "metrics", skipped when nil
	Filter  []Predicate  // "filter", skipped when empty
}

// Register adds the built-in middleware to reg together with the bounds each
// relies on.
func Register(reg *registry.Registry, d Defaults) {
	reg.RegisterWithRequirements("logger", registry.KindMiddleware, Logger(d.Logger), LoggerRequirements)
	if d.Metrics != nil {
		reg.RegisterWithRequirements("metrics", registry.KindMiddleware, d.Metrics.Middleware(), MetricsRequirements)
	}
	if len(d.Filter) > 0 {
		reg.RegisterWithRequirements("filter", registry.KindMiddleware, Filter(d.Logger, d.Filter...), FilterRequirements)
	}
}
