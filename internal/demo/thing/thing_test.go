package thing_test

import (
	"testing"

	"github.com/aretw0/moto/internal/demo/thing"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/aretw0/moto/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*store.Store[thing.Thing, thing.Action], *int) {
	t.Helper()
	reg := registry.New()
	thing.Register(reg)
	node, err := thing.Builder().Build(reg)
	require.NoError(t, err)
	s, err := store.New(thing.Thing{}, node)
	require.NoError(t, err)

	changes := 0
	s.SubscribeFunc(func(*store.Store[thing.Thing, thing.Action]) { changes++ })
	return s, &changes
}

func TestThing_Sequence(t *testing.T) {
	s, changes := newStore(t)

	s.Dispatch(thing.Action{Kind: thing.Inc})
	assert.Equal(t, int64(1), s.State().Counter)
	assert.True(t, s.State().SubState.Toggle)

	s.Dispatch(thing.Action{Kind: thing.Dec})
	assert.Equal(t, int64(0), s.State().Counter)
	assert.False(t, s.State().SubState.Toggle)

	s.Dispatch(thing.Action{Kind: thing.Append, Text: "foo"})
	assert.Equal(t, "foo", s.State().Appender)

	assert.Equal(t, 3, *changes)
}

func TestThing_NothingIsUnchanged(t *testing.T) {
	s, changes := newStore(t)

	s.Dispatch(thing.Action{Kind: thing.Nothing})

	assert.Equal(t, thing.Thing{}, s.State())
	assert.Equal(t, 0, *changes)
}

func TestDeclare_RequiresBindings(t *testing.T) {
	reg := registry.New()
	thing.Register(reg)

	_, err := thing.Declare().Build(reg)
	assert.Error(t, err)
}

func TestParseAction(t *testing.T) {
	a, err := thing.ParseAction("append hello world")
	require.NoError(t, err)
	assert.Equal(t, thing.Action{Kind: thing.Append, Text: "hello world"}, a)

	a, err = thing.ParseAction("INC")
	require.NoError(t, err)
	assert.Equal(t, thing.Inc, a.Kind)

	_, err = thing.ParseAction("jump")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Append", thing.Action{Kind: thing.Append, Text: "x"}.String())
	assert.Equal(t, "Kind(9)", thing.Kind(9).String())
}

func TestMarkdown(t *testing.T) {
	md := thing.Markdown(thing.Thing{Counter: 2, Appender: "ab", SubState: thing.Sub{Toggle: true}})
	assert.Contains(t, md, "| counter | 2 |")
	assert.Contains(t, md, `| appender | "ab" |`)
	assert.Contains(t, md, "| sub_state.toggle | true |")
}
