// Package preprocess normalizes VBScript source before parsing. The output
// is a canonical text form: comments removed, continuation lines joined,
// whitespace collapsed and keywords re-cased, one logical line per output
// line. Normalizing is idempotent.
package preprocess

import (
	"strings"

	"github.com/vpdb/vbsc/scanner"
)

// Keywords maps the lower-case spelling of every reserved word to its
// canonical casing.
var Keywords = map[string]string{}

func init() {
	for _, kw := range []string{
		"And", "As", "Attribute", "Base", "ByRef", "ByVal", "Call", "Case",
		"Class", "Compare", "Const", "Dim", "Do", "Each", "Else", "ElseIf",
		"Empty", "End", "Eqv", "Erase", "Error", "Exit", "Explicit", "False",
		"For", "Function", "Get", "GoTo", "If", "Imp", "In", "Is", "Let",
		"Loop", "Me", "Mod", "New", "Next", "Not", "Nothing", "Null", "On",
		"Option", "Optional", "Or", "Preserve", "Private", "Property",
		"Public", "ReDim", "Rem", "Resume", "Select", "Set", "Step", "Stop",
		"Sub", "Then", "To", "True", "Until", "Wend", "While", "With", "Xor",
	} {
		Keywords[strings.ToLower(kw)] = kw
	}
}

// Keyword returns the canonical spelling of word if it is a reserved word.
func Keyword(word string) (string, bool) {
	kw, ok := Keywords[strings.ToLower(word)]
	return kw, ok
}

// Format returns the normalized text of src. Blank lines are dropped and
// every output line is newline-terminated, so an empty result means the
// source had no statements.
func Format(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	src = JoinContinuations(StripComments(src))

	var sb strings.Builder
	for _, line := range strings.Split(src, "\n") {
		if f := formatLine(line); f != "" {
			sb.WriteString(f)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// StripComments removes ' comments and Rem comments, respecting string and
// bracket boundaries. Rem only starts a comment at the beginning of a
// statement.
func StripComments(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	sc := scanner.New(src)
	stmtStart := true
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InLiteral() {
			stmtStart = false
			sb.WriteByte(ch)
			continue
		}
		switch {
		case ch == '\'' || (stmtStart && sc.LookingAtFold("rem")):
			for next, ok := sc.Peek(); ok && next != '\n'; next, ok = sc.Peek() {
				sc.Next()
			}
			continue
		case ch == '\n' || ch == ':':
			stmtStart = true
		case ch != ' ' && ch != '\t':
			stmtStart = false
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// JoinContinuations merges lines ending in the " _" continuation marker
// with the line that follows. The number of lines shrinks accordingly.
func JoinContinuations(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	var pending strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if endsWithContinuation(trimmed) {
			pending.WriteString(trimmed[:len(trimmed)-1])
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		out = append(out, pending.String())
		pending.Reset()
	}
	if pending.Len() > 0 {
		out = append(out, pending.String())
	}
	return strings.Join(out, "\n")
}

func endsWithContinuation(line string) bool {
	n := len(line)
	if n == 0 || line[n-1] != '_' {
		return false
	}
	if n > 1 && scanner.IsIdentByte(line[n-2]) {
		return false
	}
	sc := scanner.New(line)
	sc.Skip(n)
	return sc.InCode()
}

// formatLine collapses the whitespace of a single logical line and
// canonicalizes keyword casing. A space survives only where removing it
// would glue two words together.
func formatLine(line string) string {
	var sb strings.Builder
	sc := scanner.New(line)
	space := false    // whitespace seen since the last emitted byte
	lastWord := false // last emitted byte ends a word-like token
	member := false   // last emitted byte is a member access operator

	emit := func(s string, startsWord, endsWord bool) {
		if space && lastWord && startsWord {
			sb.WriteByte(' ')
		}
		space = false
		sb.WriteString(s)
		lastWord = endsWord
	}

	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InLiteral() {
			emit(line[sc.Pos():sc.Pos()+1], true, true)
			member = false
			continue
		}
		if ch == ' ' || ch == '\t' {
			space = true
			continue
		}
		if scanner.IsIdentByte(ch) {
			start := sc.Pos()
			for next, ok := sc.Peek(); ok && scanner.IsIdentByte(next); next, ok = sc.Peek() {
				sc.Next()
			}
			word := line[start : sc.Pos()+1]
			if !member && !scanner.IsDigit(word[0]) && !scanner.TypeSuffixAt(line, sc.Pos()+1) {
				if kw, ok := Keyword(word); ok {
					word = kw
				}
			}
			emit(word, true, true)
			member = false
			continue
		}
		suffix := scanner.TypeSuffixAt(line, sc.Pos())
		emit(line[sc.Pos():sc.Pos()+1], ch == '(', suffix || ch == ')')
		member = ch == '.' || (ch == '!' && !suffix)
	}
	return sb.String()
}
