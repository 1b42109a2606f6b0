package ast

// Visitor observes and rewrites a tree during Replace.
//
// Enter runs before a node's children are visited, with the node's parent
// (nil for the root). It returns the node to keep in place, which may be a
// replacement, and whether to descend into that node's children. Leave
// runs after the children with the final node.
type Visitor interface {
	Enter(n, parent Node) (Node, bool)
	Leave(n, parent Node)
}

// VisitorFuncs adapts plain functions to Visitor. Nil functions are no-ops.
type VisitorFuncs struct {
	EnterFunc func(n, parent Node) (Node, bool)
	LeaveFunc func(n, parent Node)
}

func (v VisitorFuncs) Enter(n, parent Node) (Node, bool) {
	if v.EnterFunc == nil {
		return n, true
	}
	return v.EnterFunc(n, parent)
}

func (v VisitorFuncs) Leave(n, parent Node) {
	if v.LeaveFunc != nil {
		v.LeaveFunc(n, parent)
	}
}

// Replace walks prog depth-first in source order and returns the rewritten
// program. The input is never mutated: a node is copied only when one of
// its children was replaced, so untouched subtrees are shared.
//
// Children of a node see the node as it was entered as their parent, so
// identity checks such as parent.Callee == n hold for original children.
func Replace(prog *Program, v Visitor) *Program {
	r := &replacer{v: v}
	return r.node(prog, nil).(*Program)
}

// Inspect calls fn for every node under root in depth-first order. When fn
// returns false the node's children are skipped.
func Inspect(root Node, fn func(n, parent Node) bool) {
	r := &replacer{v: VisitorFuncs{EnterFunc: func(n, parent Node) (Node, bool) {
		return n, fn(n, parent)
	}}}
	r.node(root, nil)
}

type replacer struct {
	v Visitor
}

func (r *replacer) node(n, parent Node) Node {
	n, descend := r.v.Enter(n, parent)
	if descend {
		n = r.children(n)
	}
	r.v.Leave(n, parent)
	return n
}

func (r *replacer) expr(e Expr, parent Node) Expr {
	if e == nil {
		return nil
	}
	return r.node(e, parent).(Expr)
}

func (r *replacer) stmt(s Statement, parent Node) Statement {
	if s == nil {
		return nil
	}
	return r.node(s, parent).(Statement)
}

func (r *replacer) ident(id *Identifier, parent Node) *Identifier {
	if id == nil {
		return nil
	}
	return r.node(id, parent).(*Identifier)
}

func (r *replacer) stmts(body []Statement, parent Node) ([]Statement, bool) {
	return mapSlice(body, func(s Statement) Statement { return r.stmt(s, parent) })
}

func (r *replacer) exprs(list []Expr, parent Node) ([]Expr, bool) {
	return mapSlice(list, func(e Expr) Expr { return r.expr(e, parent) })
}

// children rewrites the children of n, copying n if any of them changed.
func (r *replacer) children(n Node) Node {
	switch x := n.(type) {
	case *Program:
		if body, ok := r.stmts(x.Body, x); ok {
			cp := *x
			cp.Body = body
			return &cp
		}

	case *VariableDeclaration:
		decls, ok := mapSlice(x.Declarations, func(d *VariableDeclarator) *VariableDeclarator {
			return r.node(d, x).(*VariableDeclarator)
		})
		if ok {
			cp := *x
			cp.Declarations = decls
			return &cp
		}

	case *VariableDeclarator:
		id := r.ident(x.ID, x)
		init := r.expr(x.Init, x)
		bounds, ok := r.exprs(x.Bounds, x)
		if ok || id != x.ID || init != x.Init {
			cp := *x
			cp.ID, cp.Init, cp.Bounds = id, init, bounds
			return &cp
		}

	case *ReDimStatement:
		targets, ok := mapSlice(x.Targets, func(t *ReDimTarget) *ReDimTarget {
			return r.node(t, x).(*ReDimTarget)
		})
		if ok {
			cp := *x
			cp.Targets = targets
			return &cp
		}

	case *ReDimTarget:
		id := r.ident(x.ID, x)
		bounds, ok := r.exprs(x.Bounds, x)
		if ok || id != x.ID {
			return &ReDimTarget{ID: id, Bounds: bounds}
		}

	case *EraseStatement:
		targets, ok := mapSlice(x.Targets, func(id *Identifier) *Identifier { return r.ident(id, x) })
		if ok {
			cp := *x
			cp.Targets = targets
			return &cp
		}

	case *ExpressionStatement:
		if e := r.expr(x.Expression, x); e != x.Expression {
			cp := *x
			cp.Expression = e
			return &cp
		}

	case *AssignmentStatement:
		target := r.expr(x.Target, x)
		value := r.expr(x.Value, x)
		if target != x.Target || value != x.Value {
			cp := *x
			cp.Target, cp.Value = target, value
			return &cp
		}

	case *FunctionDeclaration:
		name := r.ident(x.Name, x)
		params, pok := mapSlice(x.Params, func(p *Parameter) *Parameter {
			return r.node(p, x).(*Parameter)
		})
		body, bok := r.stmts(x.Body, x)
		if pok || bok || name != x.Name {
			cp := *x
			cp.Name, cp.Params, cp.Body = name, params, body
			return &cp
		}

	case *Parameter:
		id := r.ident(x.ID, x)
		def := r.expr(x.Default, x)
		if id != x.ID || def != x.Default {
			cp := *x
			cp.ID, cp.Default = id, def
			return &cp
		}

	case *IfStatement:
		test := r.expr(x.Test, x)
		cons, cok := r.stmts(x.Consequent, x)
		alt, aok := r.stmts(x.Alternate, x)
		if cok || aok || test != x.Test {
			cp := *x
			cp.Test, cp.Consequent, cp.Alternate = test, cons, alt
			return &cp
		}

	case *ForNextStatement:
		v := r.ident(x.Var, x)
		from := r.expr(x.From, x)
		to := r.expr(x.To, x)
		step := r.expr(x.Step, x)
		body, ok := r.stmts(x.Body, x)
		if ok || v != x.Var || from != x.From || to != x.To || step != x.Step {
			cp := *x
			cp.Var, cp.From, cp.To, cp.Step, cp.Body = v, from, to, step, body
			return &cp
		}

	case *ForEachStatement:
		v := r.ident(x.Var, x)
		coll := r.expr(x.Collection, x)
		body, ok := r.stmts(x.Body, x)
		if ok || v != x.Var || coll != x.Collection {
			cp := *x
			cp.Var, cp.Collection, cp.Body = v, coll, body
			return &cp
		}

	case *ForStatement:
		init := r.stmt(x.Init, x)
		test := r.expr(x.Test, x)
		update := r.stmt(x.Update, x)
		body, ok := r.stmts(x.Body, x)
		if ok || init != x.Init || test != x.Test || update != x.Update {
			cp := *x
			cp.Init, cp.Test, cp.Update, cp.Body = init, test, update, body
			return &cp
		}

	case *ForOfStatement:
		left := r.ident(x.Left, x)
		right := r.expr(x.Right, x)
		body, ok := r.stmts(x.Body, x)
		if ok || left != x.Left || right != x.Right {
			cp := *x
			cp.Left, cp.Right, cp.Body = left, right, body
			return &cp
		}

	case *DoLoopStatement:
		test := r.expr(x.Test, x)
		body, ok := r.stmts(x.Body, x)
		if ok || test != x.Test {
			cp := *x
			cp.Test, cp.Body = test, body
			return &cp
		}

	case *SelectStatement:
		disc := r.expr(x.Discriminant, x)
		cases, ok := mapSlice(x.Cases, func(c *SelectCase) *SelectCase {
			return r.node(c, x).(*SelectCase)
		})
		if ok || disc != x.Discriminant {
			cp := *x
			cp.Discriminant, cp.Cases = disc, cases
			return &cp
		}

	case *SelectCase:
		tests, tok := mapSlice(x.Tests, func(t *CaseTest) *CaseTest {
			return r.node(t, x).(*CaseTest)
		})
		body, bok := r.stmts(x.Body, x)
		if tok || bok {
			return &SelectCase{Tests: tests, Body: body}
		}

	case *CaseTest:
		value := r.expr(x.Value, x)
		high := r.expr(x.High, x)
		if value != x.Value || high != x.High {
			return &CaseTest{Op: x.Op, Value: value, High: high}
		}

	case *ReturnStatement:
		if arg := r.expr(x.Argument, x); arg != x.Argument {
			cp := *x
			cp.Argument = arg
			return &cp
		}

	case *MemberExpression:
		obj := r.expr(x.Object, x)
		prop := r.expr(x.Property, x)
		if obj != x.Object || prop != x.Property {
			return &MemberExpression{Object: obj, Property: prop, Computed: x.Computed}
		}

	case *CallExpression:
		callee := r.expr(x.Callee, x)
		args, ok := r.exprs(x.Arguments, x)
		if ok || callee != x.Callee {
			return &CallExpression{Callee: callee, Arguments: args}
		}

	case *BinaryExpression:
		left := r.expr(x.Left, x)
		right := r.expr(x.Right, x)
		if left != x.Left || right != x.Right {
			return &BinaryExpression{Operator: x.Operator, Left: left, Right: right}
		}

	case *UnaryExpression:
		if arg := r.expr(x.Argument, x); arg != x.Argument {
			return &UnaryExpression{Operator: x.Operator, Argument: arg}
		}

	case *ConditionalExpression:
		test := r.expr(x.Test, x)
		cons := r.expr(x.Consequent, x)
		alt := r.expr(x.Alternate, x)
		if test != x.Test || cons != x.Consequent || alt != x.Alternate {
			return &ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
		}
	}
	// Leaves: Identifier, Literal, ThisExpression, ExitStatement,
	// OnErrorStatement, StopStatement, MetadataStatement.
	return n
}
