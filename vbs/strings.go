package vbs

import (
	"strings"
	"unicode/utf8"
)

// Comparison modes taken by InStr, Replace and Split.
const (
	BinaryCompare = 0
	TextCompare   = 1
)

func init() {
	register("Len", 1, 1, strLen)
	register("Left", 2, 2, strLeft)
	register("Right", 2, 2, strRight)
	register("Mid", 2, 3, strMid)
	register("UCase", 1, 1, mapString(strings.ToUpper))
	register("LCase", 1, 1, mapString(strings.ToLower))
	register("Trim", 1, 1, mapString(func(s string) string { return strings.Trim(s, " ") }))
	register("LTrim", 1, 1, mapString(func(s string) string { return strings.TrimLeft(s, " ") }))
	register("RTrim", 1, 1, mapString(func(s string) string { return strings.TrimRight(s, " ") }))
	register("InStr", 2, 4, strInStr)
	register("Replace", 3, 6, strReplace)
	register("Chr", 1, 1, strChr)
	register("Asc", 1, 1, strAsc)
	register("Space", 1, 1, strSpace)
	register("String", 2, 2, strString)
}

func mapString(fn func(string) string) Impl {
	return func(args []any) (any, error) {
		if isNull(args[0]) {
			return Null, nil
		}
		s, err := ToString(args[0])
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

// count reads a non-negative length argument.
func count(v any) (int, error) {
	n, err := ToInt(v, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, NewFault(ErrIllegalCall, "")
	}
	return int(n), nil
}

func strLen(args []any) (any, error) {
	if isNull(args[0]) {
		return Null, nil
	}
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	return int64(utf8.RuneCountInString(s)), nil
}

func strLeft(args []any) (any, error) {
	if isNull(args[0]) {
		return Null, nil
	}
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	n, err := count(args[1])
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	return string(r[:min(n, len(r))]), nil
}

func strRight(args []any) (any, error) {
	if isNull(args[0]) {
		return Null, nil
	}
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	n, err := count(args[1])
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	return string(r[len(r)-min(n, len(r)):]), nil
}

func strMid(args []any) (any, error) {
	if isNull(args[0]) {
		return Null, nil
	}
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	start, err := ToInt(args[1], 32)
	if err != nil {
		return nil, err
	}
	if start < 1 {
		return nil, NewFault(ErrIllegalCall, "")
	}
	r := []rune(s)
	from := min(int(start)-1, len(r))
	length := len(r) - from
	if v := arg(args, 2, nil); v != nil {
		n, err := count(v)
		if err != nil {
			return nil, err
		}
		length = min(n, length)
	}
	return string(r[from : from+length]), nil
}

// foldCase prepares both sides of a text comparison.
func foldCase(mode int64, a, b string) (string, string) {
	if mode == TextCompare {
		return strings.ToLower(a), strings.ToLower(b)
	}
	return a, b
}

// strInStr implements InStr([start,] haystack, needle[, compare]). The
// result is 1-based, 0 when needle is absent.
func strInStr(args []any) (any, error) {
	start := int64(1)
	if len(args) >= 3 {
		var err error
		if start, err = ToInt(args[0], 32); err != nil {
			return nil, err
		}
		if start < 1 {
			return nil, NewFault(ErrIllegalCall, "")
		}
		args = args[1:]
	}
	if isNull(args[0]) || isNull(args[1]) {
		return Null, nil
	}
	hay, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	needle, err := ToString(args[1])
	if err != nil {
		return nil, err
	}
	mode, err := ToInt(arg(args, 2, BinaryCompare), 32)
	if err != nil {
		return nil, err
	}
	r := []rune(hay)
	if int(start) > len(r) {
		if needle == "" && int(start) == len(r)+1 {
			return start, nil
		}
		return int64(0), nil
	}
	h, n := foldCase(mode, string(r[start-1:]), needle)
	i := strings.Index(h, n)
	if i < 0 {
		return int64(0), nil
	}
	return start + int64(utf8.RuneCountInString(h[:i])), nil
}

// strReplace implements Replace(expr, find, with[, start[, count[, compare]]]).
// As in VBScript, the result starts at start.
func strReplace(args []any) (any, error) {
	if isNull(args[0]) {
		return Null, nil
	}
	var parts [3]string
	for i := range parts {
		s, err := ToString(args[i])
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	start, err := ToInt(arg(args, 3, 1), 32)
	if err != nil {
		return nil, err
	}
	limit, err := ToInt(arg(args, 4, -1), 32)
	if err != nil {
		return nil, err
	}
	mode, err := ToInt(arg(args, 5, BinaryCompare), 32)
	if err != nil {
		return nil, err
	}
	if start < 1 || limit < -1 {
		return nil, NewFault(ErrIllegalCall, "")
	}
	r := []rune(parts[0])
	if int(start) > len(r) {
		return "", nil
	}
	return replace(string(r[start-1:]), parts[1], parts[2], int(limit), mode), nil
}

func replace(s, find, with string, limit int, mode int64) string {
	if find == "" || limit == 0 {
		return s
	}
	if mode != TextCompare {
		return strings.Replace(s, find, with, limit)
	}
	lower, lfind := strings.ToLower(s), strings.ToLower(find)
	var sb strings.Builder
	for limit != 0 {
		i := strings.Index(lower, lfind)
		if i < 0 {
			break
		}
		sb.WriteString(s[:i])
		sb.WriteString(with)
		s, lower = s[i+len(find):], lower[i+len(lfind):]
		limit--
	}
	sb.WriteString(s)
	return sb.String()
}

func strChr(args []any) (any, error) {
	n, err := ToInt(args[0], 32)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > utf8.MaxRune {
		return nil, NewFault(ErrIllegalCall, "")
	}
	return string(rune(n)), nil
}

func strAsc(args []any) (any, error) {
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, NewFault(ErrIllegalCall, "")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return int64(r), nil
}

func strSpace(args []any) (any, error) {
	n, err := count(args[0])
	if err != nil {
		return nil, err
	}
	return strings.Repeat(" ", n), nil
}

// strString implements String(n, char), where char is a character code or
// a string whose first character is repeated.
func strString(args []any) (any, error) {
	n, err := count(args[0])
	if err != nil {
		return nil, err
	}
	var ch string
	switch c := args[1].(type) {
	case string:
		if c == "" {
			return nil, NewFault(ErrIllegalCall, "")
		}
		r, _ := utf8.DecodeRuneInString(c)
		ch = string(r)
	default:
		code, err := ToInt(c, 32)
		if err != nil {
			return nil, err
		}
		ch = string(rune(code % 256))
	}
	return strings.Repeat(ch, n), nil
}
