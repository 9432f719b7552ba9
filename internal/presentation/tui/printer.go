package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/moto/pkg/store"
)

// Printer is a store subscriber that renders the state after every change.
type Printer[S, A any] struct {
	Out      io.Writer
	Render   Renderer
	Markdown func(S) string
}

// Update implements store.Subscriber.
func (p *Printer[S, A]) Update(s *store.Store[S, A]) {
	render := p.Render
	if render == nil {
		render = Plain
	}
	md := p.Markdown(s.State())
	out, err := render(md)
	if err != nil {
		s.Logger().Warn("render failed", "err", err)
		out = md
	}
	fmt.Fprint(p.Out, out)
}
