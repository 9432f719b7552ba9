package registry

import (
	"testing"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inc func(int, string) int

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := New()
	r.Register("inc", KindTransition, inc(func(v int, _ string) int { return v + 1 }))
	r.RegisterWithRequirements("logger", KindMiddleware, "not-a-func", domain.Requirements{
		Action: domain.Bounds{domain.CapDebug},
	})

	fn, e, err := Resolve[inc](r, KindTransition, "counter", "inc")
	require.NoError(t, err)
	assert.Equal(t, 2, fn(1, ""))
	assert.Equal(t, "inc", e.Name)

	_, e, err = Resolve[string](r, KindMiddleware, "middleware", "logger")
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{domain.CapDebug}, e.Requires.Action)
	assert.Empty(t, e.Requires.State)
}

func TestRegistry_NamespacesAreSeparate(t *testing.T) {
	r := New()
	r.Register("logger", KindMiddleware, 1)

	_, ok := r.Lookup(KindTransition, "logger")
	assert.False(t, ok)

	_, _, err := Resolve[int](r, KindTransition, "counter", "logger")
	assert.ErrorIs(t, err, domain.ErrUnresolvedName)
}

func TestRegistry_TypeMismatch(t *testing.T) {
	r := New()
	r.Register("inc", KindTransition, func(v int) int { return v })

	_, _, err := Resolve[inc](r, KindTransition, "counter", "inc")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.Contains(t, err.Error(), `"inc"`)
}

func TestRegistry_Overwrite(t *testing.T) {
	r := New()
	r.Register("x", KindTransition, 1)
	r.Register("x", KindTransition, 2)

	v, _, err := Resolve[int](r, KindTransition, "s", "x")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"x"}, r.Names(KindTransition))
}

func TestRegistry_Overlay(t *testing.T) {
	base := New()
	base.Register("x", KindTransition, 1)
	base.Register("y", KindTransition, 2)

	over := Overlay(base)
	over.Register("y", KindTransition, 20)
	over.Register("z", KindTransition, 30)

	v, _, err := Resolve[int](over, KindTransition, "s", "x")
	require.NoError(t, err)
	assert.Equal(t, 1, v, "missing names fall back to the parent")

	v, _, err = Resolve[int](over, KindTransition, "s", "y")
	require.NoError(t, err)
	assert.Equal(t, 20, v, "overlay entries shadow the parent")

	assert.Equal(t, []string{"x", "y", "z"}, over.Names(KindTransition))

	_, ok := base.Lookup(KindTransition, "z")
	assert.False(t, ok, "registrations must not leak into the parent")
	v, _, err = Resolve[int](base, KindTransition, "s", "y")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestResolve_NilRegistry(t *testing.T) {
	_, _, err := Resolve[int](nil, KindTransition, "s", "x")
	assert.ErrorIs(t, err, domain.ErrUnresolvedName)
}
