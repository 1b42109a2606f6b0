package compiler

import (
	"fmt"
	"strings"
)

const indentUnit = "    "

// jsWriter manages indented JavaScript output for the code generator.
type jsWriter struct {
	sb     strings.Builder
	indent int
}

// Linef writes an indented, formatted line with a trailing newline.
func (w *jsWriter) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Line writes s as one or more indented lines. Every line of a multi-line
// s gets the current indentation.
func (w *jsWriter) Line(s string) {
	for _, line := range strings.Split(s, "\n") {
		w.sb.WriteString(strings.Repeat(indentUnit, w.indent))
		w.sb.WriteString(line)
		w.sb.WriteByte('\n')
	}
}

// Indent increases the indentation level.
func (w *jsWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *jsWriter) Dedent() { w.indent-- }

// Block writes header, runs body one level deeper and closes with footer.
func (w *jsWriter) Block(header, footer string, body func()) {
	w.Line(header)
	w.Indent()
	body()
	w.Dedent()
	w.Line(footer)
}

// String returns the accumulated output without the final newline.
func (w *jsWriter) String() string { return strings.TrimSuffix(w.sb.String(), "\n") }

// indentLines prefixes every non-empty line of s with one indentation unit.
func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indentUnit + l
		}
	}
	return strings.Join(lines, "\n")
}
