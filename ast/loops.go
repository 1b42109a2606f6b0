package ast

// DesugarLoops rewrites the source loop forms into their target forms:
//
//	For j = a To b [Step s]  ->  for (j = a; test; j += s)
//	For Each x In c          ->  for (x of c)
//
// Without a Step the test is j <= b and the step is 1. With a Step the
// direction is only known at run time, so the test becomes
// s < 0 ? j >= b : j <= b. Loop bodies are carried over unchanged.
func DesugarLoops(prog *Program) *Program {
	f := NewFactory()
	return Replace(prog, VisitorFuncs{EnterFunc: func(n, _ Node) (Node, bool) {
		switch x := n.(type) {
		case *ForNextStatement:
			return &ForStatement{
				BaseStmt: x.BaseStmt,
				Init:     f.Assign(x.Var, x.From, x.SourceLine),
				Test:     loopTest(f, x),
				Update:   f.CompoundAssign("+=", x.Var, loopStep(f, x), x.SourceLine),
				Body:     x.Body,
			}, true
		case *ForEachStatement:
			return &ForOfStatement{
				BaseStmt: x.BaseStmt,
				Left:     x.Var,
				Right:    x.Collection,
				Body:     x.Body,
			}, true
		}
		return n, true
	}})
}

func loopStep(f *Factory, x *ForNextStatement) Expr {
	if x.Step == nil {
		return f.Int(1)
	}
	return x.Step
}

func loopTest(f *Factory, x *ForNextStatement) Expr {
	ascending := f.Binary("<=", x.Var, x.To)
	if x.Step == nil {
		return ascending
	}
	return f.Conditional(
		f.Binary("<", x.Step, f.Int(0)),
		f.Binary(">=", x.Var, x.To),
		ascending,
	)
}
