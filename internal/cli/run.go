package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/moto"
	"github.com/aretw0/moto/internal/demo/thing"
	"github.com/aretw0/moto/internal/demo/todo"
	"github.com/aretw0/moto/internal/presentation/tui"
	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/registry"
	"github.com/aretw0/moto/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Run dispatches every command read from opts.In to the selected demo store,
// printing the state after each change.
func Run(opts RunOptions) error {
	opts.defaults()
	logger, err := createLogger(opts.Err, opts.LogLevel, opts.LogJSON)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	motoOpts := []moto.Option{
		moto.WithLogger(logger),
		moto.WithMetrics(promReg),
		moto.WithLifecycleHooks(createDebugHooks(logger)),
	}
	if opts.Manifest != "" {
		motoOpts = append(motoOpts, moto.WithManifestFile(opts.Manifest))
	}
	if opts.Middleware != "" {
		motoOpts = append(motoOpts, moto.WithMiddlewareNames(opts.Middleware))
	}

	render := tui.Renderer(tui.Plain)
	if f, ok := opts.Out.(*os.File); ok {
		render = tui.RendererFor(f, opts.Plain)
	}

	switch opts.Demo {
	case DemoTodo:
		err = runTodo(opts, render, motoOpts)
	case DemoThing:
		err = runThing(opts, render, motoOpts)
	default:
		err = fmt.Errorf("unknown demo %q (want %s or %s)", opts.Demo, DemoTodo, DemoThing)
	}
	if err != nil {
		return err
	}

	if opts.Metrics {
		return writeMetrics(opts.Out, promReg)
	}
	return nil
}

func runTodo(opts RunOptions, render tui.Renderer, motoOpts []moto.Option) error {
	reg := registry.New()
	todo.Register(reg)
	motoOpts = append(motoOpts, moto.WithRegistry(reg))

	b := todo.Declare()
	if opts.Manifest == "" {
		b = todo.Builder()
		motoOpts = append(motoOpts, moto.WithStoreOptions(
			store.WithID("todos"),
			store.WithStateBounds(domain.CapDebug, domain.CapJSON),
			store.WithActionBounds(domain.CapDebug, domain.CapStringer, domain.CapComparable),
		))
	}

	s, err := moto.New(todo.State{}, b, motoOpts...)
	if err != nil {
		return err
	}
	s.Subscribe(&tui.Printer[todo.State, todo.Action]{Out: opts.Out, Render: render, Markdown: todo.Markdown})

	return drive(opts.In, s, func(line string, state todo.State) (todo.Action, error) {
		return todo.ParseAction(line, todo.NextID(state))
	})
}

func runThing(opts RunOptions, render tui.Renderer, motoOpts []moto.Option) error {
	reg := registry.New()
	thing.Register(reg)
	motoOpts = append(motoOpts, moto.WithRegistry(reg))

	b := thing.Declare()
	if opts.Manifest == "" {
		b = thing.Builder()
		motoOpts = append(motoOpts, moto.WithStoreOptions(
			store.WithID("thing"),
			store.WithStateBounds(domain.CapDebug, domain.CapJSON, domain.CapComparable),
			store.WithActionBounds(domain.CapDebug, domain.CapStringer, domain.CapComparable),
		))
	}

	s, err := moto.New(thing.Thing{}, b, motoOpts...)
	if err != nil {
		return err
	}
	s.Subscribe(&tui.Printer[thing.Thing, thing.Action]{Out: opts.Out, Render: render, Markdown: thing.Markdown})

	return drive(opts.In, s, func(line string, _ thing.Thing) (thing.Action, error) {
		return thing.ParseAction(line)
	})
}

// drive parses and dispatches one command per line. Blank lines and lines
// starting with # are skipped.
func drive[S, A any](in io.Reader, s *store.Store[S, A], parse func(line string, state S) (A, error)) error {
	sc := bufio.NewScanner(in)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := parse(line, s.State())
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if err := dispatch(s, a); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// dispatch turns a transition fault into an error so the command can exit
// cleanly. Any other panic propagates.
func dispatch[S, A any](s *store.Store[S, A], a A) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*domain.FaultError)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()
	s.Dispatch(a)
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
