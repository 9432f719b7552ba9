package middleware

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/store"
)

// LoggerRequirements are the bounds Logger relies on: it formats both the
// action and the resulting state.
var LoggerRequirements = domain.Requirements{
	State:  domain.Bounds{domain.CapDebug},
	Action: domain.Bounds{domain.CapDebug},
}

// Logger logs each action before it is dispatched and the state after the
// rest of the chain has run.
func Logger(logger *slog.Logger) store.GenericMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(v store.View, next store.GenericNext, action any) {
		logger.Info("dispatching", "store", v.ID(), "action", fmt.Sprintf("%+v", action))
		next(v, action)
		logger.Debug("next state", "store", v.ID(), "state", fmt.Sprintf("%+v", v.StateValue()))
	}
}
