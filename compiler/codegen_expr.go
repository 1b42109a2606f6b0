package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vpdb/vbsc/ast"
)

// JavaScript operator precedence, higher binds tighter.
const (
	precConditional = 2
	precOr          = 3
	precAnd         = 4
	precBitXor      = 6
	precEquality    = 8
	precRelational  = 9
	precAdditive    = 11
	precMultiply    = 12
	precPower       = 13
	precUnary       = 14
	precPostfix     = 17
	precAtom        = 20
)

type binaryOp struct {
	js   string
	prec int
}

// binaryOps maps VBScript operators to their JavaScript spelling. & and \
// have no direct equivalent and are handled separately.
var binaryOps = map[string]binaryOp{
	"Xor": {"^", precBitXor},
	"Or":  {"||", precOr},
	"And": {"&&", precAnd},
	"=":   {"==", precEquality},
	"<>":  {"!=", precEquality},
	"Is":  {"===", precEquality},
	"<":   {"<", precRelational},
	">":   {">", precRelational},
	"<=":  {"<=", precRelational},
	">=":  {">=", precRelational},
	"+":   {"+", precAdditive},
	"-":   {"-", precAdditive},
	"*":   {"*", precMultiply},
	"/":   {"/", precMultiply},
	"Mod": {"%", precMultiply},
	"^":   {"**", precPower},
}

var unaryOps = map[string]string{"-": "-", "+": "+", "Not": "!"}

// expr renders e at any precedence.
func (g *codeGen) expr(e ast.Expr) string {
	s, _ := g.exprPrec(e)
	return s
}

// operand renders e, parenthesized when it binds looser than min.
func (g *codeGen) operand(e ast.Expr, min int) string {
	s, prec := g.exprPrec(e)
	if prec < min {
		return "(" + s + ")"
	}
	return s
}

func (g *codeGen) exprList(list []ast.Expr) []string {
	out := make([]string, len(list))
	for i, e := range list {
		if e == nil {
			out[i] = "undefined"
			continue
		}
		out[i] = g.expr(e)
	}
	return out
}

func (g *codeGen) exprPrec(e ast.Expr) (string, int) {
	switch x := e.(type) {
	case *ast.Identifier:
		return x.Name, precAtom
	case *ast.Literal:
		return literal(x), precAtom
	case *ast.ThisExpression:
		return "this", precAtom
	case *ast.MemberExpression:
		obj := g.operand(x.Object, precPostfix)
		if x.Computed {
			return obj + "[" + g.expr(x.Property) + "]", precPostfix
		}
		return obj + "." + g.expr(x.Property), precPostfix
	case *ast.CallExpression:
		return g.operand(x.Callee, precPostfix) + "(" + strings.Join(g.exprList(x.Arguments), ", ") + ")", precPostfix
	case *ast.UnaryExpression:
		arg := g.operand(x.Argument, precUnary)
		op := unaryOps[x.Operator]
		if op != "!" && strings.HasPrefix(arg, op) {
			// - -x must not become the decrement operator
			arg = " " + arg
		}
		return op + arg, precUnary
	case *ast.ConditionalExpression:
		return fmt.Sprintf("%s ? %s : %s",
			g.operand(x.Test, precConditional+1),
			g.operand(x.Consequent, precConditional),
			g.operand(x.Alternate, precConditional)), precConditional
	case *ast.BinaryExpression:
		return g.binary(x)
	}
	panic(fmt.Sprintf("codegen: unhandled expression %T", e))
}

func (g *codeGen) binary(x *ast.BinaryExpression) (string, int) {
	switch x.Operator {
	case "&":
		return g.concat(x), precAdditive
	case "\\":
		return fmt.Sprintf("Math.trunc(%s / %s)",
			g.operand(x.Left, precMultiply), g.operand(x.Right, precMultiply+1)), precPostfix
	case "^":
		// ** is right-associative and rejects a unary left operand
		left := g.operand(x.Left, precUnary+1)
		return left + " ** " + g.operand(x.Right, precPower), precPower
	}
	op, ok := binaryOps[x.Operator]
	if !ok {
		panic(fmt.Sprintf("codegen: unknown operator %q", x.Operator))
	}
	return g.operand(x.Left, op.prec) + " " + op.js + " " + g.operand(x.Right, op.prec+1), op.prec
}

// concat renders a & b as string addition. An empty string is prepended
// unless one side is already known to be a string, so that 1 & 2 is "12".
func (g *codeGen) concat(x *ast.BinaryExpression) string {
	left := g.operand(x.Left, precAdditive)
	right := g.operand(x.Right, precAdditive+1)
	if stringy(x.Left) || stringy(x.Right) {
		return left + " + " + right
	}
	return `"" + ` + g.operand(x.Left, precAdditive+1) + " + " + right
}

func stringy(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.Literal:
		return x.Kind == ast.LitString
	case *ast.BinaryExpression:
		return x.Operator == "&"
	}
	return false
}

func literal(l *ast.Literal) string {
	switch l.Kind {
	case ast.LitNumber:
		if l.Raw != "" {
			return l.Raw
		}
		return strconv.FormatFloat(l.Value.(float64), 'g', -1, 64)
	case ast.LitString:
		return quote(l.Value.(string))
	case ast.LitBool:
		return strconv.FormatBool(l.Value.(bool))
	case ast.LitNull:
		return "null"
	}
	return "undefined"
}

// quote renders s as a double-quoted JavaScript string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"' || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&sb, `\x%02x`, s[i])
		case r < 0x20 || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
		i += size
	}
	sb.WriteByte('"')
	return sb.String()
}
