package parser

import (
	"strings"

	"github.com/vpdb/vbsc/ast"
)

func (p *Parser) skipSeparators() {
	for p.at(NEWLINE) || p.at(COLON) {
		p.advance()
	}
}

// endSeparator requires the statement just parsed to be followed by a
// separator.
func (p *Parser) endSeparator() error {
	if !p.atSeparator() {
		tok := p.peek()
		return p.errorf(tok, "unexpected %s after statement", tok)
	}
	return nil
}

func (p *Parser) parseProgram() ([]ast.Statement, error) {
	var body []ast.Statement
	for {
		p.skipSeparators()
		if p.at(EOF) {
			return body, nil
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if err := p.endSeparator(); err != nil {
			return nil, err
		}
		body = append(body, st)
	}
}

// parseBlock parses statements until done reports a terminator at the
// start of a statement. The terminator is not consumed.
func (p *Parser) parseBlock(what string, done func() bool) ([]ast.Statement, error) {
	var body []ast.Statement
	start := p.peek()
	for {
		p.skipSeparators()
		if done() {
			return body, nil
		}
		if p.at(EOF) {
			return nil, p.errorf(start, "unterminated %s", what)
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if err := p.endSeparator(); err != nil {
			return nil, err
		}
		body = append(body, st)
	}
}

// atEnd reports whether the next tokens are "End <kw>".
func (p *Parser) atEnd(kw string) bool {
	return p.atKeyword("End") && p.peekAt(1).Is(kw)
}

func (p *Parser) expectEnd(kw string) error {
	if !p.atEnd(kw) {
		tok := p.peek()
		return p.errorf(tok, "expected \"End %s\", got %s", kw, tok)
	}
	p.advance()
	p.advance()
	return nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	line := tok.Line
	if tok.Kind == IDENT && !tok.Escaped {
		switch {
		case strings.EqualFold(tok.Text, "VERSION") && p.peekAt(1).Kind == NUMBER:
			return p.parseMetadata("prolog")
		case strings.EqualFold(tok.Text, "BEGIN") && p.peekAt(1).Kind == NEWLINE:
			return p.parsePrologBlock()
		}
	}
	if tok.Kind != KEYWORD || softKeywords[tok.Text] && !p.atSoftStatement() {
		return p.parseSimpleStatement()
	}

	switch tok.Text {
	case "Dim":
		p.advance()
		return p.parseDeclaration(line, ast.DeclLet)
	case "Private", "Public":
		p.advance()
		switch {
		case p.atKeyword("Sub") || p.atKeyword("Function"):
			return p.parseProcedure()
		case p.acceptKeyword("Const"):
			return p.parseDeclaration(line, ast.DeclConst)
		}
		return p.parseDeclaration(line, ast.DeclLet)
	case "Const":
		p.advance()
		return p.parseDeclaration(line, ast.DeclConst)
	case "ReDim":
		return p.parseReDim()
	case "Erase":
		return p.parseErase()
	case "Set":
		p.advance()
		st, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		assign, ok := st.(*ast.AssignmentStatement)
		if !ok {
			return nil, p.errorf(tok, "expected assignment after Set")
		}
		assign.Set = true
		return assign, nil
	case "Let":
		p.advance()
		return p.parseSimpleStatement()
	case "Call":
		return p.parseCall()
	case "If":
		return p.parseIf()
	case "For":
		return p.parseFor()
	case "Do":
		return p.parseDo()
	case "While":
		return p.parseWhile()
	case "Select":
		return p.parseSelect()
	case "Sub", "Function":
		return p.parseProcedure()
	case "Exit":
		return p.parseExit()
	case "On":
		return p.parseOnError()
	case "Option":
		return p.parseMetadata("option")
	case "Attribute":
		return p.parseMetadata("attribute")
	case "Stop":
		p.advance()
		return &ast.StopStatement{BaseStmt: ast.BaseStmt{SourceLine: line}}, nil
	case "Class", "With", "GoTo", "Property", "Resume":
		return nil, p.errorf(tok, "%s statements are not supported", tok.Text)
	case "True", "False", "Nothing", "Null", "Empty", "Me":
		return p.parseSimpleStatement()
	}
	return nil, p.errorf(tok, "unexpected %s", tok)
}

// atSoftStatement reports whether a soft keyword starts its own statement
// rather than naming a variable.
func (p *Parser) atSoftStatement() bool {
	next := p.peekAt(1)
	switch p.peek().Text {
	case "Attribute":
		return next.Kind == IDENT
	case "Property":
		return next.Is("Get") || next.Is("Let") || next.Is("Set")
	}
	return false
}

// parseSimpleStatement parses an assignment or a call statement.
func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	start := p.peek()
	line := start.Line
	target, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}

	if p.accept(EQ) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if id, ok := target.(*ast.Identifier); ok && p.inFunc && strings.EqualFold(id.Name, p.fnName) {
			target = p.f.LocalIdent(ast.ResultName)
		}
		return p.f.Assign(target, value, line), nil
	}

	if p.atSeparator() || p.atKeyword("Else") || p.atEnd("If") {
		return p.callStatement(start, target, nil, line)
	}

	// paren-less call with arguments: Foo a, , b
	if call, ok := target.(*ast.CallExpression); ok {
		// Foo (a), b: the parenthesized first argument was taken as a call
		if len(call.Arguments) == 1 && call.Arguments[0] != nil && p.accept(COMMA) {
			rest, err := p.parseArgs(EOF)
			if err != nil {
				return nil, err
			}
			if len(rest) == 0 {
				rest = []ast.Expr{nil}
			}
			return p.f.ExprStmt(p.f.Call(call.Callee, append(call.Arguments, rest...)...), line), nil
		}
		tok := p.peek()
		return nil, p.errorf(tok, "unexpected %s after call", tok)
	}
	args, err := p.parseArgs(EOF)
	if err != nil {
		return nil, err
	}
	return p.callStatement(start, target, args, line)
}

// callStatement turns target into a call statement. A bare name or member
// is a call without arguments.
func (p *Parser) callStatement(start Token, target ast.Expr, args []ast.Expr, line int) (ast.Statement, error) {
	switch t := target.(type) {
	case *ast.CallExpression:
		return p.f.ExprStmt(t, line), nil
	case *ast.Identifier, *ast.MemberExpression:
		return p.f.ExprStmt(p.f.Call(t, args...), line), nil
	}
	return nil, p.errorf(start, "expected statement")
}

// parseCall parses Call Foo(args) and the lenient Call Foo args.
func (p *Parser) parseCall() (ast.Statement, error) {
	line := p.advance().Line
	start := p.peek()
	target, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.atSeparator() {
		if _, ok := target.(*ast.CallExpression); ok {
			tok := p.peek()
			return nil, p.errorf(tok, "unexpected %s after call", tok)
		}
		if args, err = p.parseArgs(EOF); err != nil {
			return nil, err
		}
	}
	return p.callStatement(start, target, args, line)
}

// parseDeclaration parses the names of Dim, Private, Public and Const.
func (p *Parser) parseDeclaration(line int, kind ast.DeclKind) (ast.Statement, error) {
	decl := &ast.VariableDeclaration{BaseStmt: ast.BaseStmt{SourceLine: line}, Kind: kind}
	for {
		id, err := p.name()
		if err != nil {
			return nil, err
		}
		d := &ast.VariableDeclarator{ID: id}
		if p.accept(LPAREN) {
			d.IsArray = true
			if d.Bounds, err = p.parseArgs(RPAREN); err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
		}
		if d.TypeName, err = p.parseAsType(); err != nil {
			return nil, err
		}
		if kind == ast.DeclConst {
			if _, err := p.expect(EQ); err != nil {
				return nil, err
			}
			if d.Init, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.accept(COMMA) {
			return decl, nil
		}
	}
}

// parseAsType parses an optional "As Type[.Sub]" annotation.
func (p *Parser) parseAsType() (string, error) {
	if !p.acceptKeyword("As") {
		return "", nil
	}
	id, err := p.name()
	if err != nil {
		return "", err
	}
	name := id.Name
	for p.accept(DOT) {
		sub, err := p.memberName()
		if err != nil {
			return "", err
		}
		name += "." + sub.Name
	}
	return name, nil
}

func (p *Parser) parseReDim() (ast.Statement, error) {
	st := &ast.ReDimStatement{BaseStmt: ast.BaseStmt{SourceLine: p.advance().Line}}
	st.Preserve = p.acceptKeyword("Preserve")
	for {
		id, err := p.name()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(LPAREN); err != nil {
			return nil, err
		}
		bounds, err := p.parseArgs(RPAREN)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		if _, err := p.parseAsType(); err != nil {
			return nil, err
		}
		st.Targets = append(st.Targets, &ast.ReDimTarget{ID: id, Bounds: bounds})
		if !p.accept(COMMA) {
			return st, nil
		}
	}
}

func (p *Parser) parseErase() (ast.Statement, error) {
	st := &ast.EraseStatement{BaseStmt: ast.BaseStmt{SourceLine: p.advance().Line}}
	for {
		id, err := p.name()
		if err != nil {
			return nil, err
		}
		st.Targets = append(st.Targets, id)
		if !p.accept(COMMA) {
			return st, nil
		}
	}
}

// parseIf parses both the block form and the single-line form
// (If c Then a : b Else d).
func (p *Parser) parseIf() (ast.Statement, error) {
	line := p.advance().Line
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("Then"); err != nil {
		return nil, err
	}
	if !p.at(NEWLINE) && !p.at(EOF) {
		return p.parseSingleLineIf(line, test)
	}
	return p.parseIfBlock(line, test)
}

func (p *Parser) parseIfBlock(line int, test ast.Expr) (ast.Statement, error) {
	st := &ast.IfStatement{BaseStmt: ast.BaseStmt{SourceLine: line}, Test: test}
	var err error
	st.Consequent, err = p.parseBlock("If", func() bool {
		return p.atKeyword("ElseIf") || p.atKeyword("Else") || p.atEnd("If")
	})
	if err != nil {
		return nil, err
	}
	switch {
	case p.atKeyword("ElseIf"):
		line := p.advance().Line
		test, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("Then"); err != nil {
			return nil, err
		}
		nested, err := p.parseIfBlock(line, test)
		if err != nil {
			return nil, err
		}
		st.Alternate = []ast.Statement{nested}
		return st, nil // the nested If consumed End If
	case p.acceptKeyword("Else"):
		st.Alternate, err = p.parseBlock("If", func() bool { return p.atEnd("If") })
		if err != nil {
			return nil, err
		}
	}
	return st, p.expectEnd("If")
}

func (p *Parser) parseSingleLineIf(line int, test ast.Expr) (ast.Statement, error) {
	st := &ast.IfStatement{BaseStmt: ast.BaseStmt{SourceLine: line}, Test: test}
	var err error
	if st.Consequent, err = p.parseInlineStatements(true); err != nil {
		return nil, err
	}
	if p.acceptKeyword("Else") {
		if st.Alternate, err = p.parseInlineStatements(false); err != nil {
			return nil, err
		}
	}
	if p.atEnd("If") {
		p.advance()
		p.advance()
	}
	return st, nil
}

// parseInlineStatements parses colon-separated statements up to the end
// of the line, an Else (when stopAtElse) or a trailing End If.
func (p *Parser) parseInlineStatements(stopAtElse bool) ([]ast.Statement, error) {
	var body []ast.Statement
	for {
		for p.accept(COLON) {
		}
		if p.at(NEWLINE) || p.at(EOF) || p.atEnd("If") || (stopAtElse && p.atKeyword("Else")) {
			return body, nil
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, st)
		if !p.atSeparator() && !p.atKeyword("Else") && !p.atEnd("If") {
			tok := p.peek()
			return nil, p.errorf(tok, "unexpected %s after statement", tok)
		}
	}
}

// parseNext consumes Next with an optional loop variable.
func (p *Parser) parseNext() error {
	if err := p.expectKeyword("Next"); err != nil {
		return err
	}
	if p.atName() {
		p.advance()
	}
	return nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	line := p.advance().Line
	if p.acceptKeyword("Each") {
		v, err := p.name()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("In"); err != nil {
			return nil, err
		}
		coll, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock("For Each", func() bool { return p.atKeyword("Next") })
		if err != nil {
			return nil, err
		}
		return &ast.ForEachStatement{BaseStmt: ast.BaseStmt{SourceLine: line}, Var: v, Collection: coll, Body: body}, p.parseNext()
	}

	st := &ast.ForNextStatement{BaseStmt: ast.BaseStmt{SourceLine: line}}
	var err error
	if st.Var, err = p.name(); err != nil {
		return nil, err
	}
	if _, err := p.expect(EQ); err != nil {
		return nil, err
	}
	if st.From, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("To"); err != nil {
		return nil, err
	}
	if st.To, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if p.acceptKeyword("Step") {
		if st.Step, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if st.Body, err = p.parseBlock("For", func() bool { return p.atKeyword("Next") }); err != nil {
		return nil, err
	}
	return st, p.parseNext()
}

// parseLoopCondition parses an optional While/Until condition.
func (p *Parser) parseLoopCondition() (test ast.Expr, until bool, err error) {
	switch {
	case p.acceptKeyword("While"):
	case p.acceptKeyword("Until"):
		until = true
	default:
		return nil, false, nil
	}
	test, err = p.parseExpression()
	return test, until, err
}

func (p *Parser) parseDo() (ast.Statement, error) {
	st := &ast.DoLoopStatement{BaseStmt: ast.BaseStmt{SourceLine: p.advance().Line}}
	var err error
	if st.Test, st.Until, err = p.parseLoopCondition(); err != nil {
		return nil, err
	}
	if st.Body, err = p.parseBlock("Do", func() bool { return p.atKeyword("Loop") }); err != nil {
		return nil, err
	}
	loop := p.advance()
	if st.Test == nil {
		if st.Test, st.Until, err = p.parseLoopCondition(); err != nil {
			return nil, err
		}
		st.TestAfter = st.Test != nil
	} else if p.atKeyword("While") || p.atKeyword("Until") {
		return nil, p.errorf(loop, "Do loop cannot test at both ends")
	}
	return st, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	st := &ast.DoLoopStatement{BaseStmt: ast.BaseStmt{SourceLine: p.advance().Line}, Wend: true}
	var err error
	if st.Test, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if st.Body, err = p.parseBlock("While", func() bool { return p.atKeyword("Wend") }); err != nil {
		return nil, err
	}
	p.advance()
	return st, nil
}

func (p *Parser) parseSelect() (ast.Statement, error) {
	line := p.advance().Line
	if err := p.expectKeyword("Case"); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	st := &ast.SelectStatement{BaseStmt: ast.BaseStmt{SourceLine: line}, Discriminant: disc}
	p.skipSeparators()
	for !p.atEnd("Select") {
		caseTok := p.peek()
		if err := p.expectKeyword("Case"); err != nil {
			return nil, err
		}
		if n := len(st.Cases); n > 0 && st.Cases[n-1].Tests == nil {
			return nil, p.errorf(caseTok, "Case after Case Else")
		}
		c := &ast.SelectCase{}
		if !p.acceptKeyword("Else") {
			if c.Tests, err = p.parseCaseTests(); err != nil {
				return nil, err
			}
		}
		if c.Body, err = p.parseBlock("Select Case", func() bool {
			return p.atKeyword("Case") || p.atEnd("Select")
		}); err != nil {
			return nil, err
		}
		st.Cases = append(st.Cases, c)
	}
	return st, p.expectEnd("Select")
}

func (p *Parser) parseCaseTests() ([]*ast.CaseTest, error) {
	var tests []*ast.CaseTest
	for {
		t := &ast.CaseTest{}
		var err error
		if p.acceptKeyword("Is") {
			op, ok := comparisonOps[p.peek().Kind]
			if !ok {
				tok := p.peek()
				return nil, p.errorf(tok, "expected comparison operator, got %s", tok)
			}
			p.advance()
			t.Op = op
			if t.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
		} else {
			if t.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
			if p.acceptKeyword("To") {
				t.Op = "To"
				if t.High, err = p.parseExpression(); err != nil {
					return nil, err
				}
			}
		}
		tests = append(tests, t)
		if !p.accept(COMMA) {
			return tests, nil
		}
	}
}

// parseProcedure parses Sub and Function declarations.
func (p *Parser) parseProcedure() (ast.Statement, error) {
	kw := p.advance()
	if p.fnName != "" {
		return nil, p.errorf(kw, "nested procedures are not allowed")
	}
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDeclaration{BaseStmt: ast.BaseStmt{SourceLine: kw.Line}, Name: name, IsSub: kw.Text == "Sub"}
	if p.accept(LPAREN) {
		if fn.Params, err = p.parseParams(); err != nil {
			return nil, err
		}
	}
	if _, err := p.parseAsType(); err != nil {
		return nil, err
	}

	p.inFunc, p.fnName = !fn.IsSub, name.Name
	defer func() { p.inFunc, p.fnName = false, "" }()
	if fn.Body, err = p.parseBlock(kw.Text, func() bool { return p.atEnd(kw.Text) }); err != nil {
		return nil, err
	}
	return fn, p.expectEnd(kw.Text)
}

func (p *Parser) parseParams() ([]*ast.Parameter, error) {
	var params []*ast.Parameter
	if p.accept(RPAREN) {
		return nil, nil
	}
	for {
		param := &ast.Parameter{}
		param.Optional = p.acceptKeyword("Optional")
		switch {
		case p.acceptKeyword("ByVal"):
			param.ByVal = true
		case p.acceptKeyword("ByRef"):
		}
		var err error
		if param.ID, err = p.name(); err != nil {
			return nil, err
		}
		if p.accept(LPAREN) {
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			param.IsArray = true
		}
		if param.TypeName, err = p.parseAsType(); err != nil {
			return nil, err
		}
		if p.accept(EQ) {
			if param.Default, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		params = append(params, param)
		if !p.accept(COMMA) {
			break
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseExit() (ast.Statement, error) {
	line := p.advance().Line
	tok := p.advance()
	base := ast.BaseStmt{SourceLine: line}
	switch {
	case tok.Is("Sub"):
		return &ast.ReturnStatement{BaseStmt: base}, nil
	case tok.Is("Function"):
		return &ast.ReturnStatement{BaseStmt: base, Argument: p.f.LocalIdent(ast.ResultName)}, nil
	case tok.Is("For"), tok.Is("Do"):
		return &ast.ExitStatement{BaseStmt: base, Loop: tok.Text}, nil
	}
	return nil, p.errorf(tok, "expected Sub, Function, For or Do after Exit, got %s", tok)
}

// parseOnError parses On Error Resume Next and On Error GoTo 0.
func (p *Parser) parseOnError() (ast.Statement, error) {
	line := p.advance().Line
	if err := p.expectKeyword("Error"); err != nil {
		return nil, err
	}
	st := &ast.OnErrorStatement{BaseStmt: ast.BaseStmt{SourceLine: line}}
	if p.acceptKeyword("Resume") {
		if err := p.expectKeyword("Next"); err != nil {
			return nil, err
		}
		st.ResumeNext = true
		return st, nil
	}
	if err := p.expectKeyword("GoTo"); err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.Kind != NUMBER || tok.Text != "0" {
		return nil, p.errorf(tok, "only On Error GoTo 0 is supported")
	}
	p.advance()
	return st, nil
}

// parseMetadata consumes the rest of the statement as opaque text.
func (p *Parser) parseMetadata(kind string) (ast.Statement, error) {
	start := p.peek()
	for !p.atSeparator() {
		p.advance()
	}
	text := strings.TrimSpace(p.src[start.Offset:p.peek().Offset])
	return &ast.MetadataStatement{BaseStmt: ast.BaseStmt{SourceLine: start.Line}, Kind: kind, Text: text}, nil
}

// parsePrologBlock consumes a BEGIN ... End section, which may nest.
func (p *Parser) parsePrologBlock() (ast.Statement, error) {
	start := p.peek()
	depth := 0
	for {
		tok := p.peek()
		atLineStart := p.pos == 0 || p.peekAt(-1).Kind == NEWLINE
		switch {
		case tok.Kind == EOF:
			return nil, p.errorf(start, "unterminated BEGIN block")
		case atLineStart && tok.Kind == IDENT && strings.EqualFold(tok.Text, "BEGIN"):
			depth++
		case atLineStart && tok.Is("End") && p.peekAt(1).Kind == NEWLINE || atLineStart && tok.Is("End") && p.peekAt(1).Kind == EOF:
			depth--
		}
		p.advance()
		if depth == 0 {
			text := p.src[start.Offset:p.peek().Offset]
			return &ast.MetadataStatement{BaseStmt: ast.BaseStmt{SourceLine: start.Line}, Kind: "prolog", Text: text}, nil
		}
	}
}
