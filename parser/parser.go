// Package parser turns normalized VBScript into an AST.
//
// Grammar (statement forms live in parser_stmt.go):
//
//	program     = { separator } { statement separator } EOF
//	separator   = NEWLINE | ":"
//	expression  = xor
//	xor         = or { "Xor" or }
//	or          = and { "Or" and }
//	and         = not { "And" not }
//	not         = "Not" not | comparison
//	comparison  = concat { ("=" | "<>" | "<" | ">" | "<=" | ">=" | "Is") concat }
//	concat      = additive { "&" additive }
//	additive    = modulo { ("+" | "-") modulo }
//	modulo      = intdiv { "Mod" intdiv }
//	intdiv      = term { "\" term }
//	term        = unary { ("*" | "/") unary }
//	unary       = ("-" | "+") unary | power
//	power       = postfix { "^" [ "-" | "+" ] postfix }
//	postfix     = primary { "." name | "!" name | "(" [ args ] ")" }
//	args        = [ expression ] { "," [ expression ] }
package parser

import (
	"github.com/vpdb/vbsc/ast"
)

// Parser consumes the token slice produced by the lexer and builds an AST.
type Parser struct {
	tokens   []Token
	pos      int
	src      string
	filename string
	f        *ast.Factory

	// procedure being parsed, for return value assignments
	fnName string
	inFunc bool
}

// Parse parses normalized source text.
func Parse(src string) (*ast.Program, error) {
	return ParseFile("", src)
}

// ParseFile parses normalized source text, naming filename in errors.
// It fails with *EmptyInputError when src holds no statements and with
// *SyntaxError on malformed input.
func ParseFile(filename, src string) (*ast.Program, error) {
	toks, err := lex(filename, src)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: toks, src: src, filename: filename, f: ast.NewFactory()}
	body, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &EmptyInputError{Filename: filename}
	}
	return &ast.Program{Body: body, Source: src}, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return newSyntaxError(p.filename, p.src, tok.Offset, tok.Line, tok.Col, format, args...)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) at(k Kind) bool { return p.peek().Kind == k }

func (p *Parser) atKeyword(kw string) bool { return p.peek().Is(kw) }

// accept consumes the current token if it has kind k.
func (p *Parser) accept(k Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// acceptKeyword consumes the current token if it is keyword kw.
func (p *Parser) acceptKeyword(kw string) bool {
	if p.atKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it has kind k, otherwise fails.
func (p *Parser) expect(k Kind) (Token, error) {
	tok := p.peek()
	if tok.Kind != k {
		return tok, p.errorf(tok, "expected %s, got %s", k, tok)
	}
	return p.advance(), nil
}

// expectKeyword consumes keyword kw or fails.
func (p *Parser) expectKeyword(kw string) error {
	tok := p.peek()
	if !tok.Is(kw) {
		return p.errorf(tok, "expected %q, got %s", kw, tok)
	}
	p.advance()
	return nil
}

// atSeparator reports whether the current token ends a statement.
func (p *Parser) atSeparator() bool {
	switch p.peek().Kind {
	case NEWLINE, COLON, EOF:
		return true
	}
	return false
}

// softKeywords may be used as plain names outside their statements.
var softKeywords = map[string]bool{
	"Attribute": true, "Base": true, "Compare": true, "Error": true,
	"Explicit": true, "Get": true, "Property": true,
}

// atName reports whether the current token can serve as a name.
func (p *Parser) atName() bool {
	tok := p.peek()
	return tok.Kind == IDENT || (tok.Kind == KEYWORD && softKeywords[tok.Text])
}

// name consumes an identifier.
func (p *Parser) name() (*ast.Identifier, error) {
	if !p.atName() {
		tok := p.peek()
		return nil, p.errorf(tok, "expected identifier, got %s", tok)
	}
	return p.identFrom(p.advance()), nil
}

func (p *Parser) identFrom(tok Token) *ast.Identifier {
	return &ast.Identifier{Name: tok.Text, Escaped: tok.Escaped, TypeSuffix: tok.Suffix}
}

// --- Expressions ---

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops func(Token) (string, bool)) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops(p.peek())
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = p.f.Binary(op, left, right)
	}
}

func keywordOp(kws ...string) func(Token) (string, bool) {
	return func(t Token) (string, bool) {
		for _, kw := range kws {
			if t.Is(kw) {
				return kw, true
			}
		}
		return "", false
	}
}

func kindOp(m map[Kind]string) func(Token) (string, bool) {
	return func(t Token) (string, bool) {
		op, ok := m[t.Kind]
		return op, ok
	}
}

var (
	comparisonOps = map[Kind]string{EQ: "=", NE: "<>", LT: "<", GT: ">", LE: "<=", GE: ">="}
	additiveOps   = map[Kind]string{PLUS: "+", MINUS: "-"}
	termOps       = map[Kind]string{STAR: "*", SLASH: "/"}
)

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (ast.Expr, error) {
	if tok := p.peek(); tok.Is("Eqv") || tok.Is("Imp") {
		return nil, p.errorf(tok, "%s is not supported", tok.Text)
	}
	e, err := p.binaryLevel(p.parseOr, keywordOp("Xor"))
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Is("Eqv") || tok.Is("Imp") {
		return nil, p.errorf(tok, "%s is not supported", tok.Text)
	}
	return e, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseAnd, keywordOp("Or"))
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseNot, keywordOp("And"))
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.acceptKeyword("Not") {
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return p.f.Unary("Not", arg), nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	return p.binaryLevel(p.parseConcat, func(t Token) (string, bool) {
		if t.Is("Is") {
			return "Is", true
		}
		op, ok := comparisonOps[t.Kind]
		return op, ok
	})
}

func (p *Parser) parseConcat() (ast.Expr, error) {
	return p.binaryLevel(p.parseAdditive, kindOp(map[Kind]string{AMP: "&"}))
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.binaryLevel(p.parseModulo, kindOp(additiveOps))
}

func (p *Parser) parseModulo() (ast.Expr, error) {
	return p.binaryLevel(p.parseIntDiv, keywordOp("Mod"))
}

func (p *Parser) parseIntDiv() (ast.Expr, error) {
	return p.binaryLevel(p.parseTerm, kindOp(map[Kind]string{BACKSLASH: "\\"}))
}

func (p *Parser) parseTerm() (ast.Expr, error) {
	return p.binaryLevel(p.parseUnary, kindOp(termOps))
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if op, ok := additiveOps[p.peek().Kind]; ok {
		p.advance()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.f.Unary(op, arg), nil
	}
	return p.parsePower()
}

// parsePower handles ^, which binds tighter than unary minus on its left
// but accepts a signed right operand (2^-1).
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.accept(CARET) {
		var right ast.Expr
		if op, ok := additiveOps[p.peek().Kind]; ok {
			p.advance()
			arg, err := p.parsePostfix()
			if err != nil {
				return nil, err
			}
			right = p.f.Unary(op, arg)
		} else if right, err = p.parsePostfix(); err != nil {
			return nil, err
		}
		left = p.f.Binary("^", left, right)
	}
	return left, nil
}

// parsePostfix handles member access, dictionary access and calls.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case DOT:
			p.advance()
			prop, err := p.memberName()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: prop}
		case BANG:
			p.advance()
			prop, err := p.memberName()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Object: expr, Property: p.f.String(prop.Name), Computed: true}
		case LPAREN:
			p.advance()
			args, err := p.parseArgs(RPAREN)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			expr = p.f.Call(expr, args...)
		default:
			return expr, nil
		}
	}
}

// memberName reads the name after '.' or '!'. The lexer never produces a
// keyword there.
func (p *Parser) memberName() (*ast.Identifier, error) {
	tok := p.peek()
	if tok.Kind != IDENT {
		return nil, p.errorf(tok, "expected member name, got %s", tok)
	}
	return p.identFrom(p.advance()), nil
}

// parseArgs parses a comma-separated argument list up to (not including)
// a token of kind end or a statement separator. Empty slots are nil.
func (p *Parser) parseArgs(end Kind) ([]ast.Expr, error) {
	stop := func() bool { return p.at(end) || p.atSeparator() }
	if stop() {
		return nil, nil
	}
	var args []ast.Expr
	for {
		var arg ast.Expr
		if !p.at(COMMA) && !stop() {
			var err error
			if arg, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		args = append(args, arg)
		if !p.accept(COMMA) {
			return args, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case NUMBER:
		p.advance()
		return p.f.Number(tok.Text), nil
	case STRING:
		p.advance()
		return p.f.String(tok.Text), nil
	case IDENT:
		p.advance()
		return p.identFrom(tok), nil
	case LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case KEYWORD:
		switch tok.Text {
		case "True", "False":
			p.advance()
			return p.f.Bool(tok.Text == "True"), nil
		case "Nothing", "Null":
			p.advance()
			return p.f.Null(), nil
		case "Empty":
			p.advance()
			return p.f.Undefined(), nil
		case "Me":
			p.advance()
			return &ast.ThisExpression{}, nil
		case "New":
			return nil, p.errorf(tok, "object creation with New is not supported")
		}
		if softKeywords[tok.Text] {
			p.advance()
			return p.identFrom(tok), nil
		}
	case DOT:
		return nil, p.errorf(tok, "With blocks are not supported")
	}
	return nil, p.errorf(tok, "unexpected %s", tok)
}
