package compiler

import (
	"fmt"
	"strings"

	"github.com/vpdb/vbsc/ast"
)

func (g *codeGen) stmts(body []ast.Statement) {
	for _, s := range body {
		g.stmt(s)
	}
}

// block writes header { body } at the current indentation.
func (g *codeGen) block(header string, body []ast.Statement) {
	g.w.Block(header+" {", "}", func() { g.stmts(body) })
}

// stmt writes s, inside a statement guard when the body resumes on
// errors.
func (g *codeGen) stmt(s ast.Statement) {
	if !g.guard || !guarded(s) {
		g.statement(s)
		return
	}
	g.w.Line("try {")
	g.w.Indent()
	g.statement(s)
	g.w.Dedent()
	g.w.Linef("} catch (%s) {", errVar)
	g.w.Indent()
	g.w.Linef("if (!%s.resumable(%s)) throw %s;", g.ns.Helper, errVar, errVar)
	g.w.Dedent()
	g.w.Line("}")
}

func (g *codeGen) statement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		g.declaration(st)
	case *ast.ReDimStatement:
		for _, t := range st.Targets {
			args := append([]string{t.ID.Name, fmt.Sprint(st.Preserve)}, g.exprList(t.Bounds)...)
			g.w.Linef("%s = %s.redim(%s);", t.ID.Name, g.ns.Helper, strings.Join(args, ", "))
		}
	case *ast.EraseStatement:
		for _, id := range st.Targets {
			g.w.Linef("%s = %s.erase(%s);", id.Name, g.ns.Helper, id.Name)
		}
	case *ast.ExpressionStatement:
		g.w.Line(g.expr(st.Expression) + ";")
	case *ast.AssignmentStatement:
		g.w.Line(g.assignment(st) + ";")
	case *ast.FunctionDeclaration:
		g.function(st)
	case *ast.IfStatement:
		g.ifStmt(st, "if")
	case *ast.ForStatement:
		g.loop(st, st.Body, func(label string) {
			g.block(fmt.Sprintf("%sfor (%s; %s; %s)", label, g.inline(st.Init), g.expr(st.Test), g.inline(st.Update)), st.Body)
		})
	case *ast.ForOfStatement:
		g.loop(st, st.Body, func(label string) {
			g.block(fmt.Sprintf("%sfor (%s of %s)", label, st.Left.Name, g.expr(st.Right)), st.Body)
		})
	case *ast.ForNextStatement, *ast.ForEachStatement:
		// desugared before generation; reaching here means the pass was skipped
		panic(fmt.Sprintf("codegen: %T must be desugared", st))
	case *ast.DoLoopStatement:
		g.loop(st, st.Body, func(label string) { g.doLoop(st, label) })
	case *ast.SelectStatement:
		g.selectStmt(st)
	case *ast.ExitStatement:
		g.w.Line(g.exit(st))
	case *ast.ReturnStatement:
		if st.Argument != nil {
			g.w.Linef("return %s;", g.expr(st.Argument))
		} else {
			g.w.Line("return;")
		}
	case *ast.OnErrorStatement:
		method := "OnErrorGoto0"
		if st.ResumeNext {
			method = "OnErrorResumeNext"
		}
		g.w.Linef("%s.Err.%s();", g.ns.Stdlib, method)
	case *ast.StopStatement:
		g.w.Line("debugger;")
	case *ast.MetadataStatement:
		for _, line := range strings.Split(st.Text, "\n") {
			g.w.Line(strings.TrimRight("// "+line, " "))
		}
	default:
		panic(fmt.Sprintf("codegen: unhandled statement %T", s))
	}
}

func (g *codeGen) declaration(d *ast.VariableDeclaration) {
	keyword := "let"
	if d.Kind == ast.DeclConst {
		keyword = "const"
	}
	parts := make([]string, len(d.Declarations))
	for i, decl := range d.Declarations {
		var init string
		switch {
		case decl.Init != nil:
			init = g.expr(decl.Init)
		case decl.IsArray:
			init = fmt.Sprintf("%s.dim(%s)", g.ns.Helper, strings.Join(g.exprList(decl.Bounds), ", "))
		default:
			init = "null"
		}
		parts[i] = decl.ID.Name + " = " + init
	}
	g.w.Linef("%s %s;", keyword, strings.Join(parts, ", "))
}

func (g *codeGen) assignment(a *ast.AssignmentStatement) string {
	return fmt.Sprintf("%s %s %s", g.expr(a.Target), a.Operator, g.expr(a.Value))
}

// inline renders a for-loop header clause.
func (g *codeGen) inline(s ast.Statement) string {
	switch st := s.(type) {
	case *ast.AssignmentStatement:
		return g.assignment(st)
	case *ast.ExpressionStatement:
		return g.expr(st.Expression)
	case nil:
		return ""
	}
	panic(fmt.Sprintf("codegen: %T in loop header", s))
}

// function writes a procedure and publishes it on the scope namespace so
// the host can dispatch events to it by name.
func (g *codeGen) function(fn *ast.FunctionDeclaration) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.ID.Name
		if p.Default != nil {
			params[i] += " = " + g.expr(p.Default)
		}
	}
	header := fmt.Sprintf("function %s(%s) {", fn.Name.Name, strings.Join(params, ", "))
	outer := g.guard
	g.guard = resumesNext(fn.Body)
	defer func() { g.guard = outer }()
	g.w.Block(header, "}", func() {
		if !fn.IsSub {
			g.w.Linef("let %s = null;", ast.ResultName)
		}
		g.stmts(fn.Body)
		if !fn.IsSub {
			g.w.Linef("return %s;", ast.ResultName)
		}
	})
	g.w.Linef("%s.%s = %s;", g.ns.Scope, fn.Name.Name, fn.Name.Name)
}

// ifStmt writes an If chain. An Else branch holding only another If is
// written as else if.
func (g *codeGen) ifStmt(st *ast.IfStatement, keyword string) {
	g.w.Linef("%s (%s) {", keyword, g.expr(st.Test))
	g.w.Indent()
	g.stmts(st.Consequent)
	g.w.Dedent()
	if len(st.Alternate) == 1 {
		if nested, ok := st.Alternate[0].(*ast.IfStatement); ok {
			g.ifStmt(nested, "} else if")
			return
		}
	}
	if len(st.Alternate) > 0 {
		g.w.Line("} else {")
		g.w.Indent()
		g.stmts(st.Alternate)
		g.w.Dedent()
	}
	g.w.Line("}")
}

func (g *codeGen) loopCondition(st *ast.DoLoopStatement) string {
	if st.Test == nil {
		return "true"
	}
	if st.Until {
		return "!(" + g.expr(st.Test) + ")"
	}
	return g.expr(st.Test)
}

func (g *codeGen) doLoop(st *ast.DoLoopStatement, label string) {
	if st.TestAfter {
		g.w.Block(label+"do {", fmt.Sprintf("} while (%s);", g.loopCondition(st)), func() { g.stmts(st.Body) })
		return
	}
	g.block(fmt.Sprintf("%swhile (%s)", label, g.loopCondition(st)), st.Body)
}

// loop writes a loop through emit, passing the label prefix the loop
// needs, and tracks it as the target of Exit statements in its body.
func (g *codeGen) loop(s ast.Statement, body []ast.Statement, emit func(label string)) {
	kind, _ := loopKind(s)
	frame := loopFrame{kind: kind}
	prefix := ""
	if exitsAcross(body, kind, false) {
		g.labels++
		frame.label = fmt.Sprintf("__loop%d", g.labels)
		prefix = frame.label + ": "
	}
	g.loops = append(g.loops, frame)
	emit(prefix)
	g.loops = g.loops[:len(g.loops)-1]
}

// exit breaks out of the nearest loop of the kind st names.
func (g *codeGen) exit(st *ast.ExitStatement) string {
	for i := len(g.loops) - 1; i >= 0; i-- {
		f := g.loops[i]
		if f.kind != st.Loop {
			continue
		}
		if i == len(g.loops)-1 || f.label == "" {
			return "break;"
		}
		return "break " + f.label + ";"
	}
	return "break;"
}

// loopKind names the kind of loop an Exit statement refers to. While/Wend
// loops have a kind no Exit names.
func loopKind(s ast.Statement) (string, bool) {
	switch st := s.(type) {
	case *ast.ForStatement, *ast.ForOfStatement, *ast.ForNextStatement, *ast.ForEachStatement:
		return "For", true
	case *ast.DoLoopStatement:
		if st.Wend {
			return "While", true
		}
		return "Do", true
	}
	return "", false
}

// childBodies lists the statement lists nested directly in s.
func childBodies(s ast.Statement) [][]ast.Statement {
	switch st := s.(type) {
	case *ast.IfStatement:
		return [][]ast.Statement{st.Consequent, st.Alternate}
	case *ast.ForStatement:
		return [][]ast.Statement{st.Body}
	case *ast.ForOfStatement:
		return [][]ast.Statement{st.Body}
	case *ast.DoLoopStatement:
		return [][]ast.Statement{st.Body}
	case *ast.SelectStatement:
		out := make([][]ast.Statement, len(st.Cases))
		for i, c := range st.Cases {
			out[i] = c.Body
		}
		return out
	}
	return nil
}

// exitsAcross reports whether an Exit of kind in body has to cross a loop
// of another kind to leave, which takes a labeled break. crossed tells
// whether body already sits inside such a loop.
func exitsAcross(body []ast.Statement, kind string, crossed bool) bool {
	for _, s := range body {
		if x, ok := s.(*ast.ExitStatement); ok && x.Loop == kind && crossed {
			return true
		}
		inner := crossed
		if k, ok := loopKind(s); ok {
			if k == kind {
				continue
			}
			inner = true
		}
		for _, b := range childBodies(s) {
			if exitsAcross(b, kind, inner) {
				return true
			}
		}
	}
	return false
}

// resumesNext reports whether body turns on On Error Resume Next. Nested
// procedures are left out; they get their own guards.
func resumesNext(body []ast.Statement) bool {
	found := false
	for _, s := range body {
		ast.Inspect(s, func(n, _ ast.Node) bool {
			switch x := n.(type) {
			case *ast.FunctionDeclaration:
				return false
			case *ast.OnErrorStatement:
				found = found || x.ResumeNext
			}
			return !found
		})
	}
	return found
}

// guarded reports whether s can fault at run time and so runs inside a
// statement guard.
func guarded(s ast.Statement) bool {
	switch s.(type) {
	case *ast.VariableDeclaration, *ast.FunctionDeclaration, *ast.OnErrorStatement,
		*ast.MetadataStatement, *ast.ExitStatement, *ast.ReturnStatement, *ast.StopStatement:
		return false
	}
	return true
}

// selectStmt evaluates the discriminant once into a block-scoped constant
// and tests it with an if chain.
func (g *codeGen) selectStmt(st *ast.SelectStatement) {
	g.w.Block("{", "}", func() {
		g.w.Linef("const %s = %s;", selectVar, g.expr(st.Discriminant))
		for i, c := range st.Cases {
			switch {
			case c.Tests == nil && i == 0:
				g.block("if (true)", c.Body)
				return
			case c.Tests == nil:
				g.w.Line("} else {")
			case i == 0:
				g.w.Linef("if (%s) {", g.caseTests(c.Tests))
			default:
				g.w.Linef("} else if (%s) {", g.caseTests(c.Tests))
			}
			g.w.Indent()
			g.stmts(c.Body)
			g.w.Dedent()
		}
		if len(st.Cases) > 0 {
			g.w.Line("}")
		}
	})
}

func (g *codeGen) caseTests(tests []*ast.CaseTest) string {
	sel := &ast.Identifier{Name: selectVar}
	var alts []ast.Expr
	for _, t := range tests {
		switch t.Op {
		case "":
			alts = append(alts, &ast.BinaryExpression{Operator: "=", Left: sel, Right: t.Value})
		case "To":
			alts = append(alts, &ast.BinaryExpression{
				Operator: "And",
				Left:     &ast.BinaryExpression{Operator: ">=", Left: sel, Right: t.Value},
				Right:    &ast.BinaryExpression{Operator: "<=", Left: sel, Right: t.High},
			})
		default:
			alts = append(alts, &ast.BinaryExpression{Operator: t.Op, Left: sel, Right: t.Value})
		}
	}
	test := alts[0]
	for _, a := range alts[1:] {
		test = &ast.BinaryExpression{Operator: "Or", Left: test, Right: a}
	}
	return g.expr(test)
}
