// Package scanner provides string-boundary-aware scanning for the VBScript
// normalizer. It tracks double-quoted string literals (including the doubled
// quote escape) and bracket-escaped identifiers such as [to], so callers can
// ask InCode() instead of maintaining their own inString/inBracket flags.
package scanner

import "strings"

// closingKind tracks which literal delimiter was just closed.
type closingKind byte

const (
	noClosing      closingKind = iota
	closingString              // just closed a "..." string
	closingBracket             // just closed a [...] identifier
)

// CodeScanner iterates byte-by-byte over source text, tracking string and
// escaped-identifier boundaries. VBScript literals never span lines, so a
// newline always resets the state.
//
// InString() returns true for the entire string span including both quotes.
// A doubled quote inside a string closes and reopens it, so both of its
// bytes report InString() as well.
type CodeScanner struct {
	src     string
	pos     int
	line    int
	inStr   bool
	inBrk   bool
	closing closingKind
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1, line: 1}
}

// Next advances to the next byte, updating literal state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]
	switch {
	case ch == '\n':
		s.line++
		s.inStr, s.inBrk = false, false
	case ch == '"' && !s.inBrk:
		if s.inStr {
			s.closing = closingString
		}
		s.inStr = !s.inStr
	case ch == '[' && !s.inStr && !s.inBrk:
		s.inBrk = true
	case ch == ']' && s.inBrk:
		s.inBrk = false
		s.closing = closingBracket
	}
	return ch, true
}

// InString reports whether the current byte belongs to a string literal,
// delimiters included.
func (s *CodeScanner) InString() bool { return s.inStr || s.closing == closingString }

// InBracket reports whether the current byte belongs to a bracket-escaped
// identifier, brackets included.
func (s *CodeScanner) InBracket() bool { return s.inBrk || s.closing == closingBracket }

// InLiteral reports whether the current byte must be copied verbatim.
func (s *CodeScanner) InLiteral() bool { return s.InString() || s.InBracket() }

// InCode reports whether the current position is outside all literals.
func (s *CodeScanner) InCode() bool { return !s.InLiteral() }

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// Line returns the current 1-based line number.
func (s *CodeScanner) Line() int { return s.line }

// Src returns the full source text being scanned.
func (s *CodeScanner) Src() string { return s.src }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// LookingAtFold checks case-insensitively whether src[pos:] starts with
// the given word and the word is not followed by another identifier byte.
func (s *CodeScanner) LookingAtFold(word string) bool {
	if s.pos < 0 || s.pos+len(word) > len(s.src) {
		return false
	}
	if !strings.EqualFold(s.src[s.pos:s.pos+len(word)], word) {
		return false
	}
	end := s.pos + len(word)
	return end == len(s.src) || !IsIdentByte(s.src[end])
}

// Skip advances past n bytes without returning them. Literal state is
// updated for each skipped byte. Returns the number of bytes actually
// skipped (may be less than n at end of input).
func (s *CodeScanner) Skip(n int) int {
	skipped := 0
	for i := 0; i < n; i++ {
		if _, ok := s.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// IsIdentByte reports whether ch may appear inside an identifier or a
// number.
func IsIdentByte(ch byte) bool {
	return ch == '_' || IsLetter(ch) || IsDigit(ch)
}

// IsLetter reports whether ch is an ASCII letter.
func IsLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// IsDigit reports whether ch is an ASCII digit.
func IsDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// IsTypeSuffix reports whether ch is one of the legacy type declaration
// characters ($ % & ! # @).
func IsTypeSuffix(ch byte) bool {
	switch ch {
	case '$', '%', '&', '!', '#', '@':
		return true
	}
	return false
}

// TypeSuffixAt reports whether src[i] is a type suffix attached to the
// identifier that ends at i-1. The ambiguous characters need context:
// '&' is also the concatenation operator and '!' the dictionary access
// operator, so they only count as suffixes when nothing operand-like
// follows them.
func TypeSuffixAt(src string, i int) bool {
	if i <= 0 || i >= len(src) || !IsTypeSuffix(src[i]) || !IsIdentByte(src[i-1]) {
		return false
	}
	switch src[i] {
	case '&', '!':
		if i+1 == len(src) {
			return true
		}
		switch src[i+1] {
		case ' ', '\t', '\n', ',', ')', ':', '=':
			return true
		}
		return false
	}
	return true
}
