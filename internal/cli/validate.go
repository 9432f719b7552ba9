package cli

import (
	"fmt"

	"github.com/aretw0/moto"
	"github.com/aretw0/moto/internal/demo/thing"
	"github.com/aretw0/moto/internal/demo/todo"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// Report is the resolved form of a manifest that composed successfully.
type Report struct {
	Store      string              `json:"store" yaml:"store"`
	Middleware []string            `json:"middleware,omitempty" yaml:"middleware,omitempty"`
	Reducer    reducer.Description `json:"reducer" yaml:"reducer"`
}

// Validate composes the demo's store from the manifest at path without
// dispatching anything. Every composition error is returned together.
func Validate(demo, path string) (*Report, error) {
	opts := []moto.Option{
		moto.WithManifestFile(path),
		moto.WithMetrics(prometheus.NewRegistry()),
	}

	switch demo {
	case DemoTodo, "":
		reg := registry.New()
		todo.Register(reg)
		s, err := moto.New(todo.State{}, todo.Declare(), append(opts, moto.WithRegistry(reg))...)
		if err != nil {
			return nil, err
		}
		return &Report{Store: s.ID(), Middleware: s.Middleware(), Reducer: s.Reducer().Describe()}, nil
	case DemoThing:
		reg := registry.New()
		thing.Register(reg)
		s, err := moto.New(thing.Thing{}, thing.Declare(), append(opts, moto.WithRegistry(reg))...)
		if err != nil {
			return nil, err
		}
		return &Report{Store: s.ID(), Middleware: s.Middleware(), Reducer: s.Reducer().Describe()}, nil
	}
	return nil, fmt.Errorf("unknown demo %q (want %s or %s)", demo, DemoTodo, DemoThing)
}
