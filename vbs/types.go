package vbs

import "math"

func init() {
	register("CStr", 1, 1, convCStr)
	register("CInt", 1, 1, integer(16))
	register("CLng", 1, 1, integer(32))
	register("CDbl", 1, 1, convCDbl)
	register("CBool", 1, 1, convCBool)
	register("IsEmpty", 1, 1, func(args []any) (any, error) { return args[0] == nil, nil })
	register("IsNull", 1, 1, func(args []any) (any, error) { return isNull(args[0]), nil })
	register("IsNumeric", 1, 1, typeIsNumeric)
	register("IsObject", 1, 1, func(args []any) (any, error) { return isObject(args[0]), nil })
	register("TypeName", 1, 1, func(args []any) (any, error) { return TypeName(args[0]), nil })
}

func convCStr(args []any) (any, error) {
	return ToString(args[0])
}

func integer(bits int) Impl {
	return func(args []any) (any, error) {
		return ToInt(args[0], bits)
	}
}

func convCDbl(args []any) (any, error) {
	return ToFloat(args[0])
}

func convCBool(args []any) (any, error) {
	return ToBool(args[0])
}

func typeIsNumeric(args []any) (any, error) {
	switch x := args[0].(type) {
	case nil, bool, int, int32, int64, float32, float64:
		return true, nil
	case string:
		_, ok := parseNumber(x)
		return ok, nil
	}
	return false, nil
}

func isObject(v any) bool {
	switch v.(type) {
	case nil, NullValue, bool, int, int32, int64, float32, float64, string, *Array:
		return false
	}
	return true
}

// TypeName returns the VBScript type name of v.
func TypeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "Empty"
	case NullValue:
		return "Null"
	case bool:
		return "Boolean"
	case string:
		return "String"
	case *Array:
		return "Variant()"
	case int, int32, int64:
		n, _ := ToFloat(x)
		return integerType(n)
	case float32, float64:
		return "Double"
	}
	return "Object"
}

func integerType(n float64) string {
	switch {
	case n >= math.MinInt16 && n <= math.MaxInt16:
		return "Integer"
	case n >= math.MinInt32 && n <= math.MaxInt32:
		return "Long"
	}
	return "Double"
}
