package vbs

import "strings"

func init() {
	register("Array", 0, 1<<16, arrArray)
	register("UBound", 1, 2, arrUBound)
	register("LBound", 1, 2, arrLBound)
	register("Split", 1, 4, arrSplit)
	register("Join", 1, 2, arrJoin)
	register("IsArray", 1, 1, func(args []any) (any, error) {
		_, ok := args[0].(*Array)
		return ok, nil
	})
}

func arrArray(args []any) (any, error) {
	return ArrayOf(args...), nil
}

func asArray(v any) (*Array, error) {
	a, ok := v.(*Array)
	if !ok {
		return nil, NewFault(ErrTypeMismatch, "")
	}
	return a, nil
}

func dimension(args []any) (int, error) {
	n, err := ToInt(arg(args, 1, 1), 32)
	return int(n), err
}

func arrUBound(args []any) (any, error) {
	a, err := asArray(args[0])
	if err != nil {
		return nil, err
	}
	dim, err := dimension(args)
	if err != nil {
		return nil, err
	}
	ub, err := a.UBound(dim)
	return int64(ub), err
}

func arrLBound(args []any) (any, error) {
	a, err := asArray(args[0])
	if err != nil {
		return nil, err
	}
	dim, err := dimension(args)
	if err != nil {
		return nil, err
	}
	if _, err := a.UBound(dim); err != nil {
		return nil, err
	}
	return int64(0), nil
}

// arrSplit implements Split(expr[, delimiter[, count[, compare]]]). An
// empty expression gives an empty array.
func arrSplit(args []any) (any, error) {
	s, err := ToString(args[0])
	if err != nil {
		return nil, err
	}
	delim, err := ToString(arg(args, 1, " "))
	if err != nil {
		return nil, err
	}
	limit, err := ToInt(arg(args, 2, -1), 32)
	if err != nil {
		return nil, err
	}
	mode, err := ToInt(arg(args, 3, BinaryCompare), 32)
	if err != nil {
		return nil, err
	}
	if limit < -1 {
		return nil, NewFault(ErrIllegalCall, "")
	}
	if s == "" || limit == 0 {
		return ArrayOf(), nil
	}
	if delim == "" {
		return ArrayOf(s), nil
	}
	var parts []string
	if mode == TextCompare {
		parts = splitFold(s, delim, int(limit))
	} else {
		parts = strings.SplitN(s, delim, int(limit))
	}
	values := make([]any, len(parts))
	for i, p := range parts {
		values[i] = p
	}
	return ArrayOf(values...), nil
}

func splitFold(s, delim string, limit int) []string {
	lower, ldelim := strings.ToLower(s), strings.ToLower(delim)
	var out []string
	for limit < 0 || len(out) < limit-1 {
		i := strings.Index(lower, ldelim)
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s, lower = s[i+len(delim):], lower[i+len(ldelim):]
	}
	return append(out, s)
}

func arrJoin(args []any) (any, error) {
	a, err := asArray(args[0])
	if err != nil {
		return nil, err
	}
	if a.Dims() > 1 {
		return nil, NewFault(ErrSubscript, "")
	}
	delim, err := ToString(arg(args, 1, " "))
	if err != nil {
		return nil, err
	}
	parts := make([]string, a.Len())
	for i, v := range a.values {
		if parts[i], err = ToString(v); err != nil {
			return nil, err
		}
	}
	return strings.Join(parts, delim), nil
}
