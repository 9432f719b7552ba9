package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/moto/internal/logging"
	"github.com/aretw0/moto/pkg/domain"
)

// Demo names accepted by Run and Validate.
const (
	DemoTodo  = "todo"
	DemoThing = "thing"
)

// RunOptions configures Run.
type RunOptions struct {
	Demo       string // DemoTodo or DemoThing
	Manifest   string // optional manifest path; replaces the demo's default bindings
	Middleware string // extra middleware names, appended after the manifest's
	LogLevel   string
	LogJSON    bool
	Plain      bool // never style output, even on a terminal
	Metrics    bool // print Prometheus metrics after the script

	In  io.Reader // script, one command per line
	Out io.Writer
	Err io.Writer // logs
}

func (o *RunOptions) defaults() {
	if o.Demo == "" {
		o.Demo = DemoTodo
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
}

// createLogger writes to Err so that rendered state on Out stays clean.
// An empty level disables logging.
func createLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	if level == "" {
		return logging.NewNop(), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, lvl, asJSON), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReduce: func(e *domain.DispatchEvent) {
			logger.Debug("reduced", "action", fmt.Sprint(e.Action), "changed", e.Changed, "depth", e.Depth)
		},
		OnNotify: func(e *domain.DispatchEvent) {
			logger.Debug("notifying", "subscribers", e.Subscribers)
		},
	}
}
