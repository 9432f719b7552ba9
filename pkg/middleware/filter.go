package middleware

import (
	"log/slog"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/store"
)

// Predicate decides whether an action may reach the reducers.
type Predicate func(action any) bool

// FilterRequirements are the bounds Filter relies on when used with Deny.
var FilterRequirements = domain.Requirements{
	Action: domain.Bounds{domain.CapComparable},
}

// Filter drops actions that any predicate rejects. A dropped action never
// reaches the reducers, so no subscriber runs.
func Filter(logger *slog.Logger, preds ...Predicate) store.GenericMiddleware {
	allow := All(preds...)
	return func(v store.View, next store.GenericNext, action any) {
		if !allow(action) {
			if logger != nil {
				logger.Debug("action filtered", "store", v.ID(), "action", action)
			}
			return
		}
		next(v, action)
	}
}

// All combines predicates; the result allows an action only if each does.
func All(preds ...Predicate) Predicate {
	return func(action any) bool {
		for _, p := range preds {
			if !p(action) {
				return false
			}
		}
		return true
	}
}

// AllowAll allows everything.
func AllowAll() Predicate {
	return func(any) bool { return true }
}

// Deny rejects actions equal to any of the given values.
func Deny(actions ...any) Predicate {
	return func(action any) bool {
		for _, a := range actions {
			if a == action {
				return false
			}
		}
		return true
	}
}
