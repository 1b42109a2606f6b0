package vbs

import (
	"math"
	"strconv"
	"strings"
)

// NullValue is the type of Null.
type NullValue struct{}

func (NullValue) String() string { return "Null" }

// Null is the VBScript Null value. Empty is represented by nil.
var Null = NullValue{}

func isNull(v any) bool {
	_, ok := v.(NullValue)
	return ok
}

// ToFloat converts v to a number. Empty is 0 and True is -1.
func ToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case NullValue:
		return 0, NewFault(ErrInvalidNull, "")
	case bool:
		if x {
			return -1, nil
		}
		return 0, nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		if f, ok := parseNumber(x); ok {
			return f, nil
		}
	}
	return 0, NewFault(ErrTypeMismatch, "")
}

// parseNumber accepts decimal, &H hex and &O octal spellings.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if len(s) > 2 && s[0] == '&' {
		base := 0
		switch s[1] {
		case 'h', 'H':
			base = 16
		case 'o', 'O':
			base = 8
		}
		if base != 0 {
			n, err := strconv.ParseInt(strings.TrimSuffix(s[2:], "&"), base, 64)
			return float64(n), err == nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ToInt converts v to an integer with banker's rounding and checks it fits
// in bits.
func ToInt(v any, bits int) (int64, error) {
	f, err := ToFloat(v)
	if err != nil {
		return 0, err
	}
	r := math.RoundToEven(f)
	limit := math.Ldexp(1, bits-1)
	if r < -limit || r >= limit {
		return 0, NewFault(ErrOverflow, "")
	}
	return int64(r), nil
}

// ToString converts v to its display text.
func ToString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case NullValue:
		return "", NewFault(ErrInvalidNull, "")
	case string:
		return x, nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	}
	return "", NewFault(ErrTypeMismatch, "")
}

func formatFloat(f float64) string {
	if a := math.Abs(f); a != 0 && (a >= 1e15 || a < 1e-15) {
		return strings.ToUpper(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToBool converts v to a truth value. Numbers are true when non-zero.
func ToBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	f, err := ToFloat(v)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

// number returns f as an integer value when it has no fraction.
func number(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
