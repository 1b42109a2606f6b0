package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpdb/vbsc/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	require.NoError(t, err)
	return prog
}

func TestParse_EmptyInput(t *testing.T) {
	for _, src := range []string{"", "\n\n", ":\n"} {
		_, err := Parse(src)
		var empty *EmptyInputError
		assert.True(t, errors.As(err, &empty), "%q: got %v", src, err)
	}
}

func TestParse_BareCallWithArgumentsAfterParens(t *testing.T) {
	_, err := Parse("test()\ntest2\ntest3() 1,2\n")
	var syn *SyntaxError
	require.True(t, errors.As(err, &syn), "got %v", err)
	assert.Equal(t, 3, syn.Pos.Line)
	assert.Equal(t, "test3() 1,2", syn.Line)
	assert.Contains(t, syn.Error(), "|> test3() 1,2")
}

func TestParse_ColonSeparatedStatements(t *testing.T) {
	prog := mustParse(t, "SLLPos=0:Me.TimerEnabled=1:\n")
	require.Len(t, prog.Body, 2)

	first := prog.Body[0].(*ast.AssignmentStatement)
	assert.Equal(t, "SLLPos", first.Target.(*ast.Identifier).Name)

	second := prog.Body[1].(*ast.AssignmentStatement)
	member := second.Target.(*ast.MemberExpression)
	assert.IsType(t, &ast.ThisExpression{}, member.Object)
	assert.Equal(t, "TimerEnabled", member.Property.(*ast.Identifier).Name)
}

func TestParse_Declarations(t *testing.T) {
	prog := mustParse(t, "Dim a,b(3),c As Integer\nConst Pi=3.14,E=2.71\nPrivate Const X=1\n")
	require.Len(t, prog.Body, 3)

	dim := prog.Body[0].(*ast.VariableDeclaration)
	assert.Equal(t, ast.DeclLet, dim.Kind)
	require.Len(t, dim.Declarations, 3)
	assert.Equal(t, "a", dim.Declarations[0].ID.Name)
	assert.True(t, dim.Declarations[1].IsArray)
	require.Len(t, dim.Declarations[1].Bounds, 1)
	assert.Equal(t, "Integer", dim.Declarations[2].TypeName)

	consts := prog.Body[1].(*ast.VariableDeclaration)
	assert.Equal(t, ast.DeclConst, consts.Kind)
	require.Len(t, consts.Declarations, 2)
	assert.Equal(t, "3.14", consts.Declarations[0].Init.(*ast.Literal).Raw)

	assert.Equal(t, ast.DeclConst, prog.Body[2].(*ast.VariableDeclaration).Kind)
}

func TestParse_EscapedIdentifiersAndSuffixes(t *testing.T) {
	prog := mustParse(t, "Dim [to],[next],[item],record:[to]=12:[next]=13\nname$=\"x\"\n")
	require.Len(t, prog.Body, 4)

	dim := prog.Body[0].(*ast.VariableDeclaration)
	assert.Equal(t, "to", dim.Declarations[0].ID.Name)
	assert.True(t, dim.Declarations[0].ID.Escaped)
	assert.False(t, dim.Declarations[3].ID.Escaped)

	assign := prog.Body[1].(*ast.AssignmentStatement)
	assert.Equal(t, "to", assign.Target.(*ast.Identifier).Name)

	suffixed := prog.Body[3].(*ast.AssignmentStatement).Target.(*ast.Identifier)
	assert.Equal(t, "name", suffixed.Name)
	assert.Equal(t, byte('$'), suffixed.TypeSuffix)
}

func TestParse_CallForms(t *testing.T) {
	prog := mustParse(t, "Foo\nFoo 1,,3\nFoo(1)\nCall Foo(1,2)\nFoo (1),2\nobj.Bar\nobj.Bar \"x\"\n")
	require.Len(t, prog.Body, 7)

	args := func(i int) []ast.Expr {
		return prog.Body[i].(*ast.ExpressionStatement).Expression.(*ast.CallExpression).Arguments
	}
	assert.Empty(t, args(0))
	require.Len(t, args(1), 3)
	assert.Nil(t, args(1)[1])
	assert.Len(t, args(2), 1)
	assert.Len(t, args(3), 2)
	assert.Len(t, args(4), 2)
	assert.Empty(t, args(5))
	assert.Len(t, args(6), 1)

	callee := prog.Body[5].(*ast.ExpressionStatement).Expression.(*ast.CallExpression).Callee
	assert.IsType(t, &ast.MemberExpression{}, callee)
}

func TestParse_DictionaryAccess(t *testing.T) {
	prog := mustParse(t, "x=d!key\n")
	member := prog.Body[0].(*ast.AssignmentStatement).Value.(*ast.MemberExpression)
	assert.True(t, member.Computed)
	assert.Equal(t, "key", member.Property.(*ast.Literal).Value)
}

func TestParse_Precedence(t *testing.T) {
	prog := mustParse(t, "x=1+2*3&\"a\"\ny=-2^2\nz=a=b And Not c\n")

	concat := prog.Body[0].(*ast.AssignmentStatement).Value.(*ast.BinaryExpression)
	assert.Equal(t, "&", concat.Operator)
	sum := concat.Left.(*ast.BinaryExpression)
	assert.Equal(t, "+", sum.Operator)
	assert.Equal(t, "*", sum.Right.(*ast.BinaryExpression).Operator)

	neg := prog.Body[1].(*ast.AssignmentStatement).Value.(*ast.UnaryExpression)
	assert.Equal(t, "-", neg.Operator)
	assert.Equal(t, "^", neg.Argument.(*ast.BinaryExpression).Operator)

	and := prog.Body[2].(*ast.AssignmentStatement).Value.(*ast.BinaryExpression)
	assert.Equal(t, "And", and.Operator)
	assert.Equal(t, "=", and.Left.(*ast.BinaryExpression).Operator)
	assert.Equal(t, "Not", and.Right.(*ast.UnaryExpression).Operator)
}

func TestParse_Literals(t *testing.T) {
	prog := mustParse(t, "a=&HFF\nb=\"say \"\"hi\"\"\"\nc=Nothing\nd=Empty\ne=True\nf=.5\n")
	value := func(i int) *ast.Literal {
		return prog.Body[i].(*ast.AssignmentStatement).Value.(*ast.Literal)
	}
	assert.Equal(t, "0xFF", value(0).Raw)
	assert.Equal(t, `say "hi"`, value(1).Value)
	assert.Equal(t, ast.LitNull, value(2).Kind)
	assert.Equal(t, ast.LitUndefined, value(3).Kind)
	assert.Equal(t, true, value(4).Value)
	assert.Equal(t, 0.5, value(5).Value)
}

func TestParse_Loops(t *testing.T) {
	prog := mustParse(t, "For j=1 To 20 Step 3\nx=j\nNext\nFor Each s In students\nFoo s\nNext s\nDo While x<3\nx=x+1\nLoop\nDo\nx=x-1\nLoop Until x=0\nWhile x\nWend\n")
	require.Len(t, prog.Body, 5)

	forNext := prog.Body[0].(*ast.ForNextStatement)
	assert.Equal(t, "j", forNext.Var.Name)
	assert.NotNil(t, forNext.Step)
	assert.Len(t, forNext.Body, 1)

	each := prog.Body[1].(*ast.ForEachStatement)
	assert.Equal(t, "students", each.Collection.(*ast.Identifier).Name)

	pre := prog.Body[2].(*ast.DoLoopStatement)
	assert.False(t, pre.TestAfter)
	assert.False(t, pre.Until)

	post := prog.Body[3].(*ast.DoLoopStatement)
	assert.True(t, post.TestAfter)
	assert.True(t, post.Until)
	assert.False(t, post.Wend)

	wend := prog.Body[4].(*ast.DoLoopStatement)
	assert.True(t, wend.Wend)
	assert.Empty(t, wend.Body)
}

func TestParse_If(t *testing.T) {
	prog := mustParse(t, "If a Then\nx=1\nElseIf b Then\nx=2\nElse\nx=3\nEnd If\nIf a Then x=1:y=2 Else x=3\n")
	require.Len(t, prog.Body, 2)

	block := prog.Body[0].(*ast.IfStatement)
	assert.Len(t, block.Consequent, 1)
	require.Len(t, block.Alternate, 1)
	nested := block.Alternate[0].(*ast.IfStatement)
	assert.Len(t, nested.Alternate, 1)

	single := prog.Body[1].(*ast.IfStatement)
	assert.Len(t, single.Consequent, 2)
	assert.Len(t, single.Alternate, 1)
}

func TestParse_SelectCase(t *testing.T) {
	prog := mustParse(t, "Select Case n\nCase 1,2\nx=1\nCase 3 To 5\nx=2\nCase Is>10\nx=3\nCase Else\nx=4\nEnd Select\n")
	sel := prog.Body[0].(*ast.SelectStatement)
	require.Len(t, sel.Cases, 4)
	assert.Len(t, sel.Cases[0].Tests, 2)
	assert.Equal(t, "To", sel.Cases[1].Tests[0].Op)
	assert.NotNil(t, sel.Cases[1].Tests[0].High)
	assert.Equal(t, ">", sel.Cases[2].Tests[0].Op)
	assert.Nil(t, sel.Cases[3].Tests)
}

func TestParse_Procedures(t *testing.T) {
	src := "Function Add(ByVal a,Optional b=1)\nAdd=a+b\nIf a=0 Then Exit Function\nEnd Function\n" +
		"Sub Kicker_Hit(arr())\nExit Sub\nEnd Sub\n"
	prog := mustParse(t, src)
	require.Len(t, prog.Body, 2)

	fn := prog.Body[0].(*ast.FunctionDeclaration)
	assert.False(t, fn.IsSub)
	require.Len(t, fn.Params, 2)
	assert.True(t, fn.Params[0].ByVal)
	assert.True(t, fn.Params[1].Optional)
	assert.NotNil(t, fn.Params[1].Default)

	result := fn.Body[0].(*ast.AssignmentStatement).Target.(*ast.Identifier)
	assert.Equal(t, ast.ResultName, result.Name)
	ret := fn.Body[1].(*ast.IfStatement).Consequent[0].(*ast.ReturnStatement)
	assert.Equal(t, ast.ResultName, ret.Argument.(*ast.Identifier).Name)

	sub := prog.Body[1].(*ast.FunctionDeclaration)
	assert.True(t, sub.IsSub)
	assert.True(t, sub.Params[0].IsArray)
	assert.Nil(t, sub.Body[0].(*ast.ReturnStatement).Argument)
}

func TestParse_ErrorHandlingAndArrays(t *testing.T) {
	prog := mustParse(t, "On Error Resume Next\nOn Error GoTo 0\nReDim Preserve a(5),b(2,3)\nErase a\nSet x=y\nStop\n")
	require.Len(t, prog.Body, 6)
	assert.True(t, prog.Body[0].(*ast.OnErrorStatement).ResumeNext)
	assert.False(t, prog.Body[1].(*ast.OnErrorStatement).ResumeNext)

	redim := prog.Body[2].(*ast.ReDimStatement)
	assert.True(t, redim.Preserve)
	require.Len(t, redim.Targets, 2)
	assert.Len(t, redim.Targets[1].Bounds, 2)

	assert.Len(t, prog.Body[3].(*ast.EraseStatement).Targets, 1)
	assert.True(t, prog.Body[4].(*ast.AssignmentStatement).Set)
	assert.IsType(t, &ast.StopStatement{}, prog.Body[5])
}

func TestParse_Metadata(t *testing.T) {
	src := "VERSION 1.0 CLASS\nBEGIN\nMultiUse=-1\nEnd\nAttribute VB_Name=\"Table\"\nOption Explicit\nx=1\n"
	prog := mustParse(t, src)
	require.Len(t, prog.Body, 5)

	version := prog.Body[0].(*ast.MetadataStatement)
	assert.Equal(t, "prolog", version.Kind)
	assert.Equal(t, "VERSION 1.0 CLASS", version.Text)

	block := prog.Body[1].(*ast.MetadataStatement)
	assert.Equal(t, "prolog", block.Kind)
	assert.Equal(t, "BEGIN\nMultiUse=-1\nEnd", block.Text)

	assert.Equal(t, "attribute", prog.Body[2].(*ast.MetadataStatement).Kind)
	assert.Equal(t, "Option Explicit", prog.Body[3].(*ast.MetadataStatement).Text)
	assert.IsType(t, &ast.AssignmentStatement{}, prog.Body[4])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unterminated if", "If a Then\nx=1\n", "unterminated If"},
		{"unterminated string", "x=\"abc\n", "unterminated string"},
		{"class", "Class Foo\nEnd Class\n", "not supported"},
		{"with", "With obj\n.x=1\nEnd With\n", "not supported"},
		{"new", "Set x=New Foo\n", "New is not supported"},
		{"date", "x=#1/1/2000#\n", "date literals"},
		{"eqv", "x=a Eqv b\n", "Eqv is not supported"},
		{"nested", "Sub A\nSub B\nEnd Sub\nEnd Sub\n", "nested procedures"},
		{"goto label", "On Error GoTo handler\n", "GoTo 0"},
		{"bad exit", "Exit While\n", "after Exit"},
		{"case after else", "Select Case x\nCase Else\nCase 1\nEnd Select\n", "Case after Case Else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("table.vbs", tt.src)
			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "got %v", err)
			assert.Contains(t, syn.Msg, tt.msg)
			assert.Equal(t, "table.vbs", syn.Pos.Filename)
		})
	}
}

func TestLex_Tokens(t *testing.T) {
	toks, err := lex("", "x=a.Dim&H10&\"s\"<>b\n")
	require.NoError(t, err)
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	// a.Dim: a word after '.' is a member name, not a keyword
	assert.Equal(t, []Kind{IDENT, EQ, IDENT, DOT, IDENT, AMP, IDENT, AMP, STRING, NE, IDENT, NEWLINE, EOF}, kinds)
	assert.Equal(t, "Dim", toks[4].Text)
}

func TestLex_RadixAfterOperator(t *testing.T) {
	toks, err := lex("", "x=&H1F+&O17\n")
	require.NoError(t, err)
	assert.Equal(t, "0x1F", toks[2].Text)
	assert.Equal(t, "0o17", toks[4].Text)
}
