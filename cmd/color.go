package cmd

import (
	"io"
	"os"

	"github.com/xyproto/env/v2"
	"golang.org/x/term"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// paint returns a function coloring text for w, or leaving it alone when
// w is not a terminal or NO_COLOR is set.
func paint(w io.Writer, color string) func(string) string {
	f, ok := w.(*os.File)
	if !ok || env.Has("NO_COLOR") || !term.IsTerminal(int(f.Fd())) {
		return func(s string) string { return s }
	}
	return func(s string) string { return color + s + colorReset }
}
