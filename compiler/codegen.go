package compiler

import (
	"strings"

	"github.com/vpdb/vbsc/ast"
)

// selectVar holds the evaluated discriminant of a Select Case block.
const selectVar = "__select"

// errVar is the exception caught by a statement guard.
const errVar = "__err"

type codeGen struct {
	w  *jsWriter
	ns ast.Namespaces

	// guard wraps each statement of the current body so a fault
	// recorded under On Error Resume Next skips to the next statement.
	guard  bool
	loops  []loopFrame
	labels int
}

// loopFrame is an enclosing loop. label is empty unless an Exit inside
// has to cross a loop of another kind to reach it.
type loopFrame struct {
	kind  string
	label string
}

// Generate serializes a resolved program to JavaScript statements. The
// result has no trailing newline.
func Generate(prog *ast.Program, ns ast.Namespaces) string {
	g := &codeGen{w: &jsWriter{}, ns: ns, guard: resumesNext(prog.Body)}
	g.stmts(prog.Body)
	return g.w.String()
}

// Wrap binds body to an arrow function taking the namespace parameters:
//
//	[container.]name = (__scope, __items, ...) => {
//	    body
//	};
func Wrap(name, container string, body string, ns ast.Namespaces) string {
	target := name
	if container != "" {
		target = container + "." + name
	}
	var sb strings.Builder
	sb.WriteString(target)
	sb.WriteString(" = (")
	sb.WriteString(strings.Join(ns.Params(), ", "))
	sb.WriteString(") => {\n")
	if body != "" {
		sb.WriteString(indentLines(body))
		sb.WriteByte('\n')
	}
	sb.WriteString("};")
	return sb.String()
}
