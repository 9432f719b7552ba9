package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/moto/internal/demo/thing"
	"github.com/aretw0/moto/internal/presentation/graph"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	root := reducer.Description{
		Name: "thing",
		Fields: []reducer.FieldDescription{
			{Name: "counter", Transitions: []string{"counter", "clamp"}},
			{Name: "sub-state", Sub: &reducer.Description{
				Name:   "sub",
				Fields: []reducer.FieldDescription{{Name: "toggle", Transitions: []string{"toggle"}}},
			}},
		},
	}

	tests := []struct {
		name       string
		middleware []string
		contains   []string
	}{
		{
			name: "No Middleware",
			contains: []string{
				"dispatch --> thing\n",
				"thing[\"thing\"]",
				"thing_counter[/\"counter <br/> counter → clamp\"/]",
				"thing --> thing_counter",
			},
		},
		{
			name:       "Middleware Chain Outermost First",
			middleware: []string{"logger", "my.metrics"},
			contains: []string{
				"mw_logger[[\"logger\"]]",
				"dispatch --> mw_logger",
				"mw_logger --> mw_my_metrics",
				"mw_my_metrics --> thing",
			},
		},
		{
			name: "Nested Reducer As Subgraph",
			contains: []string{
				"subgraph thing_sub_state_sub [\"sub-state\"]",
				"thing_sub_state[\"sub\"]",
				"thing_sub_state_toggle[/\"toggle <br/> toggle\"/]",
				"thing -. sub .-> thing_sub_state",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(root, tt.middleware)
			assert.True(t, strings.HasPrefix(out, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

// TestGenerateMermaid_Golden renders the composed thing demo.
// Regenerate with: go test ./internal/presentation/graph -update
func TestGenerateMermaid_Golden(t *testing.T) {
	reg := registry.New()
	thing.Register(reg)
	node, err := thing.Builder().Build(reg)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "thing", []byte(graph.GenerateMermaid(node.Describe(), []string{"logger"})))
}
