package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Capability is a named bound a store declares for its state or action type.
// Middleware that relies on a capability may only be composed into a store
// that declares it.
type Capability string

const (
	// CapDebug is satisfied by every Go type: any value can be formatted with %v.
	CapDebug Capability = "debug"
	// CapStringer requires the type (or a pointer to it) to implement fmt.Stringer.
	CapStringer Capability = "stringer"
	// CapComparable requires the type to be usable with ==.
	CapComparable Capability = "comparable"
	// CapJSON requires the type to be encodable with encoding/json.
	CapJSON Capability = "json"
)

var knownCapabilities = []Capability{CapDebug, CapStringer, CapComparable, CapJSON}

// ParseCapability resolves a bound name case-insensitively.
func ParseCapability(name string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(knownCapabilities, c) {
		return "", NewCompositionError("bounds", name, ErrUnresolvedName)
	}
	return c, nil
}

var (
	stringerType      = reflect.TypeFor[fmt.Stringer]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// SatisfiedBy reports whether t satisfies the capability.
func (c Capability) SatisfiedBy(t reflect.Type) bool {
	switch c {
	case CapDebug:
		return true
	case CapStringer:
		return t.Implements(stringerType) || reflect.PointerTo(t).Implements(stringerType)
	case CapComparable:
		return t.Comparable()
	case CapJSON:
		return jsonEncodable(t, map[reflect.Type]bool{})
	default:
		return false
	}
}

func jsonEncodable(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return true
	}
	seen[t] = true
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return false
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return jsonEncodable(t.Elem(), seen)
	case reflect.Map:
		switch t.Key().Kind() {
		case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		default:
			if !t.Key().Implements(textMarshalerType) {
				return false
			}
		}
		return jsonEncodable(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("json") == "-" {
				continue
			}
			if !jsonEncodable(f.Type, seen) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Bounds is the set of capabilities declared for one type.
type Bounds []Capability

// Has reports whether c was declared.
func (b Bounds) Has(c Capability) bool {
	return slices.Contains(b, c)
}

// Check verifies every declared capability against t.
func (b Bounds) Check(subject string, t reflect.Type) error {
	var errs []error
	for _, c := range b {
		if !c.SatisfiedBy(t) {
			errs = append(errs, NewCompositionError(subject, string(c),
				fmt.Errorf("%w: %s does not satisfy %s", ErrBoundsViolation, t, c)))
		}
	}
	return Join(errs)
}

// Requirements are the capabilities a middleware relies on, per type.
type Requirements struct {
	State  Bounds
	Action Bounds
}

// MissingFrom returns an error for every required capability not declared in
// the given bounds.
func (r Requirements) MissingFrom(subject string, state, action Bounds) error {
	var errs []error
	for _, c := range r.State {
		if !state.Has(c) {
			errs = append(errs, NewCompositionError(subject, string(c),
				fmt.Errorf("%w: requires state bound %s", ErrBoundsViolation, c)))
		}
	}
	for _, c := range r.Action {
		if !action.Has(c) {
			errs = append(errs, NewCompositionError(subject, string(c),
				fmt.Errorf("%w: requires action bound %s", ErrBoundsViolation, c)))
		}
	}
	return Join(errs)
}
