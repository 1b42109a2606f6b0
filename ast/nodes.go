package ast

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt()
	StmtLine() int
}

// BaseStmt provides common fields for all statements.
type BaseStmt struct {
	SourceLine int // line in the normalized source
}

func (b BaseStmt) StmtLine() int { return b.SourceLine }

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
}

// Program is the root node.
type Program struct {
	Body   []Statement
	Source string // normalized source the program was parsed from
}

func (p *Program) node() {}

// DeclKind distinguishes mutable from constant declarations.
type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclConst
)

// VariableDeclaration represents Dim, Private, Public and Const.
type VariableDeclaration struct {
	BaseStmt
	Kind         DeclKind
	Declarations []*VariableDeclarator
}

func (d *VariableDeclaration) node() {}
func (d *VariableDeclaration) stmt() {}

// VariableDeclarator is a single declared name. Bounds holds the upper
// bounds of a fixed-size array; IsArray is also set for "Dim a()".
type VariableDeclarator struct {
	ID       *Identifier
	Init     Expr
	TypeName string
	Bounds   []Expr
	IsArray  bool
}

func (d *VariableDeclarator) node() {}

// ReDimStatement resizes one or more arrays.
type ReDimStatement struct {
	BaseStmt
	Preserve bool
	Targets  []*ReDimTarget
}

func (r *ReDimStatement) node() {}
func (r *ReDimStatement) stmt() {}

// ReDimTarget is one array of a ReDim statement with its new upper bounds.
type ReDimTarget struct {
	ID     *Identifier
	Bounds []Expr
}

func (r *ReDimTarget) node() {}

// EraseStatement resets arrays to their default contents.
type EraseStatement struct {
	BaseStmt
	Targets []*Identifier
}

func (e *EraseStatement) node() {}
func (e *EraseStatement) stmt() {}

// ExpressionStatement wraps an expression evaluated for its side effects,
// usually a call.
type ExpressionStatement struct {
	BaseStmt
	Expression Expr
}

func (e *ExpressionStatement) node() {}
func (e *ExpressionStatement) stmt() {}

// AssignmentStatement represents target = value. Operator is "=" for
// source assignments; desugared loop updates use "+=".
type AssignmentStatement struct {
	BaseStmt
	Target   Expr
	Value    Expr
	Operator string
	Set      bool // assigned with Set
}

func (a *AssignmentStatement) node() {}
func (a *AssignmentStatement) stmt() {}

// FunctionDeclaration represents Sub and Function procedures.
type FunctionDeclaration struct {
	BaseStmt
	Name   *Identifier
	Params []*Parameter
	Body   []Statement
	IsSub  bool
}

func (f *FunctionDeclaration) node() {}
func (f *FunctionDeclaration) stmt() {}

// Parameter is a formal parameter of a procedure.
type Parameter struct {
	ID       *Identifier
	ByVal    bool
	Optional bool
	Default  Expr
	IsArray  bool // declared as name()
	TypeName string
}

func (p *Parameter) node() {}

// IfStatement represents block and single-line If. An ElseIf chain is a
// nested IfStatement as the only alternate statement.
type IfStatement struct {
	BaseStmt
	Test       Expr
	Consequent []Statement
	Alternate  []Statement
}

func (i *IfStatement) node() {}
func (i *IfStatement) stmt() {}

// ForNextStatement is the counted source loop For v = from To to [Step s].
type ForNextStatement struct {
	BaseStmt
	Var  *Identifier
	From Expr
	To   Expr
	Step Expr // nil when omitted
	Body []Statement
}

func (f *ForNextStatement) node() {}
func (f *ForNextStatement) stmt() {}

// ForEachStatement is the collection source loop For Each v In c.
type ForEachStatement struct {
	BaseStmt
	Var        *Identifier
	Collection Expr
	Body       []Statement
}

func (f *ForEachStatement) node() {}
func (f *ForEachStatement) stmt() {}

// ForStatement is the three-part target loop.
type ForStatement struct {
	BaseStmt
	Init   Statement
	Test   Expr
	Update Statement
	Body   []Statement
}

func (f *ForStatement) node() {}
func (f *ForStatement) stmt() {}

// ForOfStatement is the for-of target loop.
type ForOfStatement struct {
	BaseStmt
	Left  *Identifier
	Right Expr
	Body  []Statement
}

func (f *ForOfStatement) node() {}
func (f *ForOfStatement) stmt() {}

// DoLoopStatement represents Do/Loop and While/Wend. A nil Test loops
// forever. TestAfter places the test after the body (Loop While/Until).
// Wend marks a While/Wend loop, which Exit Do does not leave.
type DoLoopStatement struct {
	BaseStmt
	Test      Expr
	Until     bool
	TestAfter bool
	Wend      bool
	Body      []Statement
}

func (d *DoLoopStatement) node() {}
func (d *DoLoopStatement) stmt() {}

// SelectStatement represents Select Case.
type SelectStatement struct {
	BaseStmt
	Discriminant Expr
	Cases        []*SelectCase
}

func (s *SelectStatement) node() {}
func (s *SelectStatement) stmt() {}

// SelectCase is one Case clause. Tests is empty for Case Else.
type SelectCase struct {
	Tests []*CaseTest
	Body  []Statement
}

func (c *SelectCase) node() {}

// CaseTest is one comma-separated test of a Case clause: a plain value
// (Op ""), a range (Op "To", Value To High) or a comparison (Case Is < 5).
type CaseTest struct {
	Op    string
	Value Expr
	High  Expr
}

func (c *CaseTest) node() {}

// ExitStatement leaves the nearest enclosing loop of the named kind,
// crossing any loops of the other kind in between.
type ExitStatement struct {
	BaseStmt
	Loop string // "For" or "Do"
}

func (e *ExitStatement) node() {}
func (e *ExitStatement) stmt() {}

// ReturnStatement leaves the current procedure.
type ReturnStatement struct {
	BaseStmt
	Argument Expr
}

func (r *ReturnStatement) node() {}
func (r *ReturnStatement) stmt() {}

// OnErrorStatement switches the runtime error mode.
type OnErrorStatement struct {
	BaseStmt
	ResumeNext bool
}

func (o *OnErrorStatement) node() {}
func (o *OnErrorStatement) stmt() {}

// StopStatement breaks into the debugger.
type StopStatement struct{ BaseStmt }

func (s *StopStatement) node() {}
func (s *StopStatement) stmt() {}

// MetadataStatement carries prolog, Attribute and Option lines through the
// pipeline untouched.
type MetadataStatement struct {
	BaseStmt
	Kind string // "prolog", "attribute" or "option"
	Text string
}

func (m *MetadataStatement) node() {}
func (m *MetadataStatement) stmt() {}

// --- Expressions ---

// Identifier is a name reference. Local is set once the name is bound to
// a declaration, which excludes it from namespace resolution.
type Identifier struct {
	Name       string
	Escaped    bool // written as [name]
	TypeSuffix byte // legacy type character, 0 if none
	Local      bool
}

func (i *Identifier) node() {}
func (i *Identifier) expr() {}

// LitKind classifies literals.
type LitKind int

const (
	LitNumber LitKind = iota
	LitString
	LitBool
	LitNull      // Nothing and Null
	LitUndefined // Empty
)

// Literal is a constant. Raw holds the target spelling of numbers.
type Literal struct {
	Kind  LitKind
	Value any
	Raw   string
}

func (l *Literal) node() {}
func (l *Literal) expr() {}

// MemberExpression represents obj.prop and, when Computed, obj[prop]
// (dictionary access obj!key and array indexing).
type MemberExpression struct {
	Object   Expr
	Property Expr
	Computed bool
}

func (m *MemberExpression) node() {}
func (m *MemberExpression) expr() {}

// CallExpression represents a call. A nil argument is an omitted slot.
type CallExpression struct {
	Callee    Expr
	Arguments []Expr
}

func (c *CallExpression) node() {}
func (c *CallExpression) expr() {}

// BinaryExpression holds a source operator (e.g. "&", "Mod", "<>", "And").
type BinaryExpression struct {
	Operator string
	Left     Expr
	Right    Expr
}

func (b *BinaryExpression) node() {}
func (b *BinaryExpression) expr() {}

// UnaryExpression holds "-", "+" or "Not".
type UnaryExpression struct {
	Operator string
	Argument Expr
}

func (u *UnaryExpression) node() {}
func (u *UnaryExpression) expr() {}

// ConditionalExpression is test ? consequent : alternate.
type ConditionalExpression struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (c *ConditionalExpression) node() {}
func (c *ConditionalExpression) expr() {}

// ThisExpression is Me.
type ThisExpression struct{}

func (t *ThisExpression) node() {}
func (t *ThisExpression) expr() {}
