package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedName is returned when a transition or middleware name is not registered.
	ErrUnresolvedName = errors.New("unresolved name")

	// ErrMalformedDeclaration is returned for empty or syntactically invalid binding metadata.
	ErrMalformedDeclaration = errors.New("malformed declaration")

	// ErrUnsupportedShape is returned when a state shape cannot be governed by a reducer node.
	ErrUnsupportedShape = errors.New("unsupported state shape")

	// ErrBoundsViolation is returned when a capability bound is missing or unsatisfied.
	ErrBoundsViolation = errors.New("capability bounds violation")

	// ErrTypeMismatch is returned when a registered function does not match the expected signature.
	ErrTypeMismatch = errors.New("type mismatch")
)

// CompositionError describes a failure while resolving declarative bindings
// into a reducer tree or a middleware chain.
type CompositionError struct {
	Subject string // e.g. "todos.visibility" or "middleware"
	Name    string // offending name, if any
	Err     error
}

func (e *CompositionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Subject, e.Err)
	}
	return fmt.Sprintf("%s: %q: %v", e.Subject, e.Name, e.Err)
}

// Unwrap enables errors.Is against the sentinel errors above.
func (e *CompositionError) Unwrap() error {
	return e.Err
}

// NewCompositionError wraps err with the subject and name it concerns.
func NewCompositionError(subject, name string, err error) *CompositionError {
	return &CompositionError{Subject: subject, Name: name, Err: err}
}

// AggregateError collects every composition failure found in one pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d composition errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Join returns nil for no errors, the error itself for one, and an AggregateError otherwise.
func Join(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &AggregateError{Errors: errs}
	}
}

// CompositionErrors returns all errors if err is an AggregateError,
// a single-element slice for any other error, and nil for nil.
func CompositionErrors(err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return []error{err}
}

// FaultError is the panic value raised when a transition faults while
// computing a new value. The field it was bound to keeps its prior value.
type FaultError struct {
	Path       string // dotted field path, e.g. "thing.sub_state.toggle"
	Transition string
	Cause      any
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("transition %q on %s faulted: %v", e.Transition, e.Path, e.Cause)
}

// Unwrap returns the cause when it is an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
