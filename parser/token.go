package parser

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	NEWLINE
	COLON
	IDENT
	KEYWORD
	NUMBER
	STRING

	LPAREN
	RPAREN
	COMMA
	DOT
	BANG

	EQ
	NE
	LT
	GT
	LE
	GE

	PLUS
	MINUS
	STAR
	SLASH
	BACKSLASH
	CARET
	AMP
)

var kindNames = [...]string{
	EOF:       "end of input",
	NEWLINE:   "end of line",
	COLON:     "':'",
	IDENT:     "identifier",
	KEYWORD:   "keyword",
	NUMBER:    "number",
	STRING:    "string",
	LPAREN:    "'('",
	RPAREN:    "')'",
	COMMA:     "','",
	DOT:       "'.'",
	BANG:      "'!'",
	EQ:        "'='",
	NE:        "'<>'",
	LT:        "'<'",
	GT:        "'>'",
	LE:        "'<='",
	GE:        "'>='",
	PLUS:      "'+'",
	MINUS:     "'-'",
	STAR:      "'*'",
	SLASH:     "'/'",
	BACKSLASH: "'\\'",
	CARET:     "'^'",
	AMP:       "'&'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a lexical unit.
//
// Text is the canonical keyword spelling for KEYWORD, the bare name for
// IDENT (without brackets or type suffix), the unescaped value for STRING
// and the target spelling for NUMBER.
type Token struct {
	Kind    Kind
	Text    string
	Escaped bool // IDENT written as [name]
	Suffix  byte // IDENT type character
	Offset  int
	Line    int
	Col     int
}

// Is reports whether the token is the given keyword.
func (t Token) Is(keyword string) bool {
	return t.Kind == KEYWORD && t.Text == keyword
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, KEYWORD, NUMBER:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	case STRING:
		return fmt.Sprintf("string %q", t.Text)
	}
	return t.Kind.String()
}

// operand reports whether the token can end an operand, which decides
// how an ambiguous '&' or '.' that follows it is read.
func (t Token) operand() bool {
	switch t.Kind {
	case IDENT, NUMBER, STRING, RPAREN:
		return true
	case KEYWORD:
		switch t.Text {
		case "True", "False", "Nothing", "Null", "Empty", "Me":
			return true
		}
	}
	return false
}
