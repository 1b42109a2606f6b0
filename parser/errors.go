package parser

import (
	"fmt"
	"strings"

	"modernc.org/token"
)

// EmptyInputError is returned when the source contains no statements.
type EmptyInputError struct {
	Filename string
}

func (e *EmptyInputError) Error() string {
	if e.Filename != "" {
		return e.Filename + ": empty script"
	}
	return "empty script"
}

// SyntaxError reports a grammar violation with the offending line.
type SyntaxError struct {
	Pos  token.Position
	Line string // source text of the offending line
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s\n  |> %s", e.Pos, e.Msg, e.Line)
}

func newSyntaxError(filename, src string, offset, line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pos:  token.Position{Filename: filename, Offset: offset, Line: line, Column: col},
		Line: sourceLine(src, offset),
		Msg:  fmt.Sprintf(format, args...),
	}
}

// sourceLine returns the line of src containing offset.
func sourceLine(src string, offset int) string {
	if offset > len(src) {
		offset = len(src)
	}
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : offset+end]
}
