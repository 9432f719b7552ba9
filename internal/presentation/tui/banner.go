package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the moto banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"                 _        ", "#34d399"},
		{"  _ __ ___   ___ | |_ ___  ", "#2dd4bf"},
		{" | '_ ` _ \\ / _ \\| __/ _ \\ ", "#22d3ee"},
		{" | | | | | | (_) | || (_) |", "#38bdf8"},
		{" |_| |_| |_|\\___/ \\__\\___/ ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
