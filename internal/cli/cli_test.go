package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todoScript = `
# a short session
add write docs
add ship
toggle 0
show completed
show completed
`

func TestRun_Todo(t *testing.T) {
	var out, logs bytes.Buffer
	err := Run(RunOptions{
		Demo:     DemoTodo,
		In:       strings.NewReader(todoScript),
		Out:      &out,
		Err:      &logs,
		LogLevel: "debug",
	})
	require.NoError(t, err)

	// Four changes, the repeated "show completed" is a no-op.
	assert.Equal(t, 4, strings.Count(out.String(), "# Todos"))
	assert.Contains(t, out.String(), "- [x] write docs (#0)")
	assert.Contains(t, logs.String(), "reduced")
}

func TestRun_TodoWithManifestAndMetrics(t *testing.T) {
	var out, logs bytes.Buffer
	err := Run(RunOptions{
		Demo:     DemoTodo,
		Manifest: "../../examples/manifests/todo.yaml",
		In:       strings.NewReader("add a\nshow all\n"),
		Out:      &out,
		Err:      &logs,
		LogLevel: "info",
		Metrics:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out.String(), "# Todos"))
	assert.Contains(t, out.String(), `moto_dispatch_total{action="Add",store="todos"} 1`)
	assert.Contains(t, out.String(), `moto_reduce_total{changed="false",store="todos"} 1`)
	assert.Contains(t, logs.String(), "dispatching")
}

func TestRun_Thing(t *testing.T) {
	var out bytes.Buffer
	err := Run(RunOptions{
		Demo:       DemoThing,
		Middleware: "logger",
		In:         strings.NewReader("inc\nnothing\nappend foo\n"),
		Out:        &out,
		Err:        &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out.String(), "| counter |"))
	assert.Contains(t, out.String(), `| appender | "foo" |`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts RunOptions
		want string
	}{
		{"unknown demo", RunOptions{Demo: "chess"}, "unknown demo"},
		{"bad command", RunOptions{Demo: DemoTodo, In: strings.NewReader("add x\nfly\n")}, "line 2"},
		{"bad log level", RunOptions{LogLevel: "loud"}, "unknown log level"},
		{"unknown middleware", RunOptions{Demo: DemoThing, Middleware: "audit"}, "audit"},
		{"broken manifest", RunOptions{Demo: DemoTodo, Manifest: "../../examples/manifests/broken.yaml"}, "remove_todo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Out = &bytes.Buffer{}
			tt.opts.Err = &bytes.Buffer{}
			if tt.opts.In == nil {
				tt.opts.In = strings.NewReader("")
			}
			err := Run(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	report, err := Validate(DemoTodo, "../../examples/manifests/todo.yaml")
	require.NoError(t, err)
	assert.Equal(t, "todos", report.Store)
	assert.Equal(t, []string{"logger", "metrics"}, report.Middleware)
	assert.Equal(t, []reducer.FieldDescription{
		{Name: "todos", Transitions: []string{"add_todo", "toggle_todo"}},
		{Name: "visibility", Transitions: []string{"set_visibility"}},
	}, report.Reducer.Fields)

	report, err = Validate(DemoThing, "../../examples/manifests/thing.yaml")
	require.NoError(t, err)
	require.Len(t, report.Reducer.Fields, 3)
	require.NotNil(t, report.Reducer.Fields[2].Sub)
	assert.Equal(t, "toggle", report.Reducer.Fields[2].Sub.Fields[0].Name)

	_, err = Validate(DemoTodo, "../../examples/manifests/broken.yaml")
	assert.ErrorIs(t, err, domain.ErrUnresolvedName)

	_, err = Validate("chess", "../../examples/manifests/todo.yaml")
	assert.Error(t, err)
}
