package compiler

import (
	"testing"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ParseNames(t *testing.T) {
	p := NewParser()

	names, err := p.ParseNames("middleware", " foo,logger ,  metrics")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "logger", "metrics"}, names)

	names, err = p.ParseNames("todos", "add_todo")
	require.NoError(t, err)
	assert.Equal(t, []string{"add_todo"}, names)
}

func TestParser_RejectsMalformed(t *testing.T) {
	p := NewParser()

	cases := map[string]string{
		"empty":          "",
		"blank":          "   ",
		"trailing comma": "a, b,",
		"empty entry":    "a,,b",
		"spaces in name": "add todo",
		"leading digit":  "1st",
		"duplicate":      "logger, logger",
	}
	for name, decl := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.ParseNames("subject", decl)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedDeclaration)

			var ce *domain.CompositionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "subject", ce.Subject)
		})
	}
}

func TestParser_AllowDuplicates(t *testing.T) {
	p := &Parser{AllowDuplicates: true}

	names, err := p.ParseNames("counter", "inc, inc")
	require.NoError(t, err)
	assert.Equal(t, []string{"inc", "inc"}, names)
}

func TestParser_ParseBounds(t *testing.T) {
	p := NewParser()

	bounds, err := p.ParseBounds("state_bounds", "Debug, json")
	require.NoError(t, err)
	assert.Equal(t, domain.Bounds{domain.CapDebug, domain.CapJSON}, bounds)

	bounds, err = p.ParseBounds("state_bounds", "")
	require.NoError(t, err)
	assert.Empty(t, bounds)

	_, err = p.ParseBounds("action_bounds", "printable")
	assert.ErrorIs(t, err, domain.ErrUnresolvedName)
}
