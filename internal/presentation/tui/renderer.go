package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// Plain returns markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// NewRenderer returns a glamour renderer that detects a light or dark
// background, falling back to Plain if glamour cannot be initialized.
func NewRenderer() Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return Plain
	}
	return r.Render
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RendererFor picks NewRenderer for terminals and Plain otherwise.
func RendererFor(f *os.File, plain bool) Renderer {
	if plain || !IsTerminal(f) {
		return Plain
	}
	return NewRenderer()
}
