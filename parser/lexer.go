package parser

import (
	"strings"

	"github.com/vpdb/vbsc/preprocess"
	"github.com/vpdb/vbsc/scanner"
)

// lexer turns normalized source into tokens. It tolerates unnormalized
// input as well: spaces and tabs are skipped wherever they appear.
type lexer struct {
	src       string
	filename  string
	pos       int
	line      int
	lineStart int
	toks      []Token
}

func lex(filename, src string) ([]Token, error) {
	l := &lexer{src: src, filename: filename, line: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, tok)
		if tok.Kind == EOF {
			return l.toks, nil
		}
	}
}

func (l *lexer) prev() Token {
	if len(l.toks) == 0 {
		return Token{Kind: NEWLINE}
	}
	return l.toks[len(l.toks)-1]
}

func (l *lexer) peekAt(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func (l *lexer) errorAt(offset int, format string, args ...any) error {
	return newSyntaxError(l.filename, l.src, offset, l.line, offset-l.lineStart+1, format, args...)
}

func (l *lexer) next() (Token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\r') {
		l.pos++
	}
	start := l.pos
	tok := Token{Offset: start, Line: l.line, Col: start - l.lineStart + 1}
	if l.pos >= len(l.src) {
		tok.Kind = EOF
		return tok, nil
	}

	ch := l.src[l.pos]
	switch {
	case ch == '\n':
		l.pos++
		l.line++
		l.lineStart = l.pos
		tok.Kind = NEWLINE
		return tok, nil

	case ch == '"':
		return l.string(tok)

	case ch == '[':
		end := strings.IndexAny(l.src[l.pos:], "]\n")
		if end < 0 || l.src[l.pos+end] != ']' {
			return tok, l.errorAt(start, "unterminated escaped identifier")
		}
		tok.Kind = IDENT
		tok.Text = l.src[l.pos+1 : l.pos+end]
		tok.Escaped = true
		l.pos += end + 1
		return tok, nil

	case scanner.IsDigit(ch) || (ch == '.' && scanner.IsDigit(l.peekAt(l.pos+1)) && !l.prev().operand()):
		return l.number(tok), nil

	case ch == '&' && !l.prev().operand() && isRadixPrefix(l.peekAt(l.pos+1)):
		return l.radix(tok)

	case scanner.IsLetter(ch) || ch == '_':
		return l.word(tok), nil

	case ch == '#':
		return tok, l.errorAt(start, "date literals are not supported")
	}

	l.pos++
	switch ch {
	case ':':
		tok.Kind = COLON
	case '(':
		tok.Kind = LPAREN
	case ')':
		tok.Kind = RPAREN
	case ',':
		tok.Kind = COMMA
	case '.':
		tok.Kind = DOT
	case '!':
		tok.Kind = BANG
	case '=':
		tok.Kind = EQ
	case '<':
		switch l.peekAt(l.pos) {
		case '>':
			l.pos++
			tok.Kind = NE
		case '=':
			l.pos++
			tok.Kind = LE
		default:
			tok.Kind = LT
		}
	case '>':
		tok.Kind = GT
		if l.peekAt(l.pos) == '=' {
			l.pos++
			tok.Kind = GE
		}
	case '+':
		tok.Kind = PLUS
	case '-':
		tok.Kind = MINUS
	case '*':
		tok.Kind = STAR
	case '/':
		tok.Kind = SLASH
	case '\\':
		tok.Kind = BACKSLASH
	case '^':
		tok.Kind = CARET
	case '&':
		tok.Kind = AMP
	default:
		return tok, l.errorAt(start, "unexpected character %q", ch)
	}
	return tok, nil
}

// string reads a double-quoted literal; "" inside stands for one quote.
func (l *lexer) string(tok Token) (Token, error) {
	var sb strings.Builder
	i := l.pos + 1
	for {
		if i >= len(l.src) || l.src[i] == '\n' {
			return tok, l.errorAt(tok.Offset, "unterminated string literal")
		}
		if l.src[i] == '"' {
			if l.peekAt(i+1) == '"' {
				sb.WriteByte('"')
				i += 2
				continue
			}
			break
		}
		sb.WriteByte(l.src[i])
		i++
	}
	l.pos = i + 1
	tok.Kind = STRING
	tok.Text = sb.String()
	return tok, nil
}

func (l *lexer) number(tok Token) Token {
	start := l.pos
	digits := func() {
		for l.pos < len(l.src) && scanner.IsDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	digits()
	fraction := false
	if l.peekAt(l.pos) == '.' && scanner.IsDigit(l.peekAt(l.pos+1)) {
		fraction = true
		l.pos++
		digits()
	}
	if c := l.peekAt(l.pos); c == 'e' || c == 'E' {
		j := l.pos + 1
		if s := l.peekAt(j); s == '+' || s == '-' {
			j++
		}
		if scanner.IsDigit(l.peekAt(j)) {
			fraction = true
			l.pos = j
			digits()
		}
	}
	raw := l.src[start:l.pos]
	if !fraction && len(raw) > 1 {
		// a leading zero would make the literal octal in the target
		raw = strings.TrimLeft(raw, "0")
		if raw == "" {
			raw = "0"
		}
	}
	if scanner.TypeSuffixAt(l.src, l.pos) {
		l.pos++
	}
	tok.Kind = NUMBER
	tok.Text = raw
	return tok
}

func isRadixPrefix(c byte) bool {
	return c == 'h' || c == 'H' || c == 'o' || c == 'O'
}

func isHexDigit(c byte) bool {
	return scanner.IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// radix reads &Hff and &O17 literals, with an optional trailing &.
func (l *lexer) radix(tok Token) (Token, error) {
	hex := l.src[l.pos+1] == 'h' || l.src[l.pos+1] == 'H'
	i := l.pos + 2
	for i < len(l.src) && (hex && isHexDigit(l.src[i]) || !hex && l.src[i] >= '0' && l.src[i] <= '7') {
		i++
	}
	if i == l.pos+2 {
		return tok, l.errorAt(tok.Offset, "malformed number literal")
	}
	digits := l.src[l.pos+2 : i]
	if l.peekAt(i) == '&' {
		i++
	}
	l.pos = i
	tok.Kind = NUMBER
	if hex {
		tok.Text = "0x" + strings.ToUpper(digits)
	} else {
		tok.Text = "0o" + digits
	}
	return tok, nil
}

// word reads an identifier or keyword. A word after '.' or '!' is always a
// member name, and a word carrying a type suffix is always an identifier.
func (l *lexer) word(tok Token) Token {
	start := l.pos
	for l.pos < len(l.src) && scanner.IsIdentByte(l.src[l.pos]) {
		l.pos++
	}
	tok.Text = l.src[start:l.pos]
	tok.Kind = IDENT
	if scanner.TypeSuffixAt(l.src, l.pos) {
		tok.Suffix = l.src[l.pos]
		l.pos++
		return tok
	}
	if p := l.prev().Kind; p == DOT || p == BANG {
		return tok
	}
	if kw, ok := preprocess.Keyword(tok.Text); ok {
		tok.Kind = KEYWORD
		tok.Text = kw
	}
	return tok
}
