package domain

// Outcome is the result of applying a transition to a field value.
// Both arms carry the value; Changed distinguishes them.
type Outcome[T any] struct {
	Value   T
	Changed bool
}

// Unchanged reports that the transition did not alter the value.
func Unchanged[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Changed reports that the transition produced a new value.
func Changed[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Changed: true}
}

// Get unpacks the outcome.
func (o Outcome[T]) Get() (T, bool) {
	return o.Value, o.Changed
}

// TransitionFunc is a pure function bound to one field of a state shape.
// It must be total over A and return Unchanged(value) for actions it does not handle.
type TransitionFunc[T, A any] func(value T, action A) Outcome[T]

// Token identifies a subscription so it can be removed later.
type Token uint64
