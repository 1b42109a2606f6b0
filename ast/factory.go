package ast

import "strconv"

// Factory centralizes AST node creation for the parser and transform
// passes. Synthesized nodes are always well-formed: members carry an
// identifier property unless computed, literals carry their raw spelling.
type Factory struct{}

// NewFactory returns a new Factory.
func NewFactory() *Factory { return &Factory{} }

// --- Names ---

// Ident creates an unbound identifier.
func (f *Factory) Ident(name string) *Identifier {
	return &Identifier{Name: name}
}

// LocalIdent creates an identifier already bound to a declaration.
func (f *Factory) LocalIdent(name string) *Identifier {
	return &Identifier{Name: name, Local: true}
}

// Member creates obj.name.
func (f *Factory) Member(obj Expr, name string) *MemberExpression {
	return &MemberExpression{Object: obj, Property: f.Ident(name)}
}

// Qualify creates ns.name, the form every resolved reference takes.
func (f *Factory) Qualify(ns, name string) *MemberExpression {
	return f.Member(f.Ident(ns), name)
}

// Index creates obj[i][j]... for each index in order.
func (f *Factory) Index(obj Expr, indexes ...Expr) Expr {
	for _, idx := range indexes {
		obj = &MemberExpression{Object: obj, Property: idx, Computed: true}
	}
	return obj
}

// Call creates callee(args...).
func (f *Factory) Call(callee Expr, args ...Expr) *CallExpression {
	return &CallExpression{Callee: callee, Arguments: args}
}

// --- Literals ---

// Number creates a numeric literal from its target spelling.
func (f *Factory) Number(raw string) *Literal {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// 0x and 0o radix spellings
		n, _ := strconv.ParseInt(raw, 0, 64)
		v = float64(n)
	}
	return &Literal{Kind: LitNumber, Value: v, Raw: raw}
}

// Int creates a numeric literal from an integer.
func (f *Factory) Int(n int) *Literal {
	return &Literal{Kind: LitNumber, Value: float64(n), Raw: strconv.Itoa(n)}
}

// String creates a string literal holding the unescaped value.
func (f *Factory) String(s string) *Literal {
	return &Literal{Kind: LitString, Value: s}
}

// Bool creates True or False.
func (f *Factory) Bool(b bool) *Literal {
	return &Literal{Kind: LitBool, Value: b}
}

// Null creates Nothing/Null.
func (f *Factory) Null() *Literal { return &Literal{Kind: LitNull} }

// Undefined creates Empty.
func (f *Factory) Undefined() *Literal { return &Literal{Kind: LitUndefined} }

// --- Operators ---

// Binary creates left op right.
func (f *Factory) Binary(op string, left, right Expr) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// Unary creates op arg.
func (f *Factory) Unary(op string, arg Expr) *UnaryExpression {
	return &UnaryExpression{Operator: op, Argument: arg}
}

// Conditional creates test ? consequent : alternate.
func (f *Factory) Conditional(test, consequent, alternate Expr) *ConditionalExpression {
	return &ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}
}

// --- Statements ---

// Assign creates target = value.
func (f *Factory) Assign(target, value Expr, line int) *AssignmentStatement {
	return f.CompoundAssign("=", target, value, line)
}

// CompoundAssign creates target op value, e.g. j += 1.
func (f *Factory) CompoundAssign(op string, target, value Expr, line int) *AssignmentStatement {
	return &AssignmentStatement{BaseStmt: BaseStmt{SourceLine: line}, Target: target, Value: value, Operator: op}
}

// ExprStmt wraps an expression in a statement.
func (f *Factory) ExprStmt(e Expr, line int) *ExpressionStatement {
	return &ExpressionStatement{BaseStmt: BaseStmt{SourceLine: line}, Expression: e}
}

// Declare creates a mutable declaration of the given names without
// initializers.
func (f *Factory) Declare(line int, names ...string) *VariableDeclaration {
	decl := &VariableDeclaration{BaseStmt: BaseStmt{SourceLine: line}, Kind: DeclLet}
	for _, name := range names {
		decl.Declarations = append(decl.Declarations, &VariableDeclarator{ID: f.LocalIdent(name)})
	}
	return decl
}

// --- Copy helpers ---

// ProgramFrom creates a new Program copying metadata from src with a new body.
func (f *Factory) ProgramFrom(src *Program, body []Statement) *Program {
	return &Program{Body: body, Source: src.Source}
}

// FunctionWithBody creates a shallow copy of a FunctionDeclaration with a new body.
func (f *Factory) FunctionWithBody(src *FunctionDeclaration, body []Statement) *FunctionDeclaration {
	cp := *src
	cp.Body = body
	return &cp
}
