package vbs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpdb/vbsc/catalog"
)

func call(t *testing.T, name string, args ...any) any {
	t.Helper()
	f, ok := Lookup(name)
	require.True(t, ok, "%s is not registered", name)
	v, err := f.Call(args...)
	require.NoError(t, err)
	return v
}

func callFault(t *testing.T, name string, args ...any) *Fault {
	t.Helper()
	f, ok := Lookup(name)
	require.True(t, ok, "%s is not registered", name)
	_, err := f.Call(args...)
	require.Error(t, err)
	fault, ok := err.(*Fault)
	require.True(t, ok, "expected a fault, got %T", err)
	return fault
}

func TestRegistry(t *testing.T) {
	f, ok := Lookup("ubound")
	require.True(t, ok)
	assert.Equal(t, "UBound", f.Name)

	_, ok = Lookup("ExecuteGlobal")
	assert.False(t, ok, "dynamic evaluation is compiled, not called")

	names := Names()
	assert.True(t, len(names) > 40)
	assert.Contains(t, names, "Split")
	assert.IsIncreasing(t, names)
}

func TestRegistry_Register(t *testing.T) {
	before := Catalog().(catalog.Digester).Digest()
	Register(&Func{Name: "TestDouble", MinArgs: 1, MaxArgs: 1, Impl: func(args []any) (any, error) {
		f, err := ToFloat(args[0])
		return f * 2, err
	}})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, "testdouble")
		registryMu.Unlock()
	})
	assert.Equal(t, 8.0, call(t, "testdouble", 4))

	cat := Catalog()
	name, ok := cat.ResolveName("TESTDOUBLE")
	assert.True(t, ok)
	assert.Equal(t, "TestDouble", name)
	assert.NotEqual(t, before, cat.(catalog.Digester).Digest(), "registering a function changes the catalog digest")
}

func TestFunc_ArgumentCount(t *testing.T) {
	fault := callFault(t, "Left", "abc")
	assert.Equal(t, ErrArgumentCount, fault.Number)
	assert.Equal(t, "Left", fault.Source)
}

func TestCatalog(t *testing.T) {
	cat := Catalog()
	name, ok := cat.ResolveName("lcase")
	assert.True(t, ok)
	assert.Equal(t, "LCase", name)

	name, ok = cat.ResolveName("err")
	assert.True(t, ok)
	assert.Equal(t, "Err", name)

	prop, ok := cat.ResolvePropertyName("Err", "number")
	assert.True(t, ok)
	assert.Equal(t, "Number", prop)

	_, ok = cat.ResolveName("PlaySound")
	assert.False(t, ok)
}

func TestStrings(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want any
	}{
		{"Len", []any{"héllo"}, int64(5)},
		{"Len", []any{nil}, int64(0)},
		{"Len", []any{Null}, Null},
		{"Left", []any{"abcdef", 3}, "abc"},
		{"Left", []any{"ab", 5}, "ab"},
		{"Right", []any{"abcdef", 2}, "ef"},
		{"Mid", []any{"abcdef", 2, 3}, "bcd"},
		{"Mid", []any{"abcdef", 4}, "def"},
		{"Mid", []any{"abc", 10}, ""},
		{"UCase", []any{"abc"}, "ABC"},
		{"LCase", []any{"ABC"}, "abc"},
		{"Trim", []any{"  a b  "}, "a b"},
		{"LTrim", []any{"  a "}, "a "},
		{"RTrim", []any{" a  "}, " a"},
		{"InStr", []any{"abcabc", "c"}, int64(3)},
		{"InStr", []any{4, "abcabc", "c"}, int64(6)},
		{"InStr", []any{1, "ABC", "b", TextCompare}, int64(2)},
		{"InStr", []any{"abc", "x"}, int64(0)},
		{"Replace", []any{"a-b-c", "-", "+"}, "a+b+c"},
		{"Replace", []any{"a-b-c", "-", "+", 1, 1}, "a+b-c"},
		{"Replace", []any{"a-b-c", "-", "+", 3}, "b+c"},
		{"Replace", []any{"aXbxc", "x", "_", 1, -1, TextCompare}, "a_b_c"},
		{"Chr", []any{65}, "A"},
		{"Asc", []any{"A"}, int64(65)},
		{"Space", []any{3}, "   "},
		{"String", []any{3, "xy"}, "xxx"},
		{"String", []any{2, 65}, "AA"},
		{"CStr", []any{true}, "True"},
		{"CStr", []any{int64(42)}, "42"},
		{"CStr", []any{2.5}, "2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, tt.name, tt.args...))
		})
	}
}

func TestStrings_Faults(t *testing.T) {
	assert.Equal(t, ErrIllegalCall, callFault(t, "Mid", "abc", 0).Number)
	assert.Equal(t, ErrIllegalCall, callFault(t, "Left", "abc", -1).Number)
	assert.Equal(t, ErrIllegalCall, callFault(t, "Asc", "").Number)
	assert.Equal(t, ErrInvalidNull, callFault(t, "CStr", Null).Number)
}

func TestMath(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want any
	}{
		{"Abs", []any{-3}, int64(3)},
		{"Int", []any{-2.5}, int64(-3)},
		{"Fix", []any{-2.5}, int64(-2)},
		{"Sgn", []any{-7}, int64(-1)},
		{"Sgn", []any{0}, int64(0)},
		{"Sqr", []any{16}, int64(4)},
		{"Round", []any{2.5}, int64(2)},
		{"Round", []any{3.5}, int64(4)},
		{"Round", []any{1.2345, 2}, 1.23},
		{"Hex", []any{255}, "FF"},
		{"Hex", []any{-1}, "FFFFFFFF"},
		{"Oct", []any{8}, "10"},
		{"CInt", []any{"2.5"}, int64(2)},
		{"CLng", []any{100000.4}, int64(100000)},
		{"CDbl", []any{"&H10"}, 16.0},
		{"CBool", []any{"false"}, false},
		{"CBool", []any{3}, true},
		{"Atn", []any{0}, int64(0)},
		{"Cos", []any{0}, int64(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, tt.name, tt.args...))
		})
	}
}

func TestMath_Faults(t *testing.T) {
	assert.Equal(t, ErrIllegalCall, callFault(t, "Sqr", -1).Number)
	assert.Equal(t, ErrIllegalCall, callFault(t, "Log", 0).Number)
	assert.Equal(t, ErrOverflow, callFault(t, "CInt", 40000).Number)
	assert.Equal(t, ErrTypeMismatch, callFault(t, "CDbl", "abc").Number)
}

func TestRnd(t *testing.T) {
	call(t, "Randomize", 42)
	a := call(t, "Rnd").(float64)
	assert.GreaterOrEqual(t, a, 0.0)
	assert.Less(t, a, 1.0)
	assert.Equal(t, a, call(t, "Rnd", 0), "Rnd 0 repeats the last value")

	first := call(t, "Rnd", -1)
	second := call(t, "Rnd", -1)
	assert.Equal(t, first, second, "a negative argument reseeds")
}

func TestArrays(t *testing.T) {
	arr := call(t, "Array", 1, 2, 3).(*Array)
	assert.Equal(t, int64(2), call(t, "UBound", arr))
	assert.Equal(t, int64(0), call(t, "LBound", arr))
	assert.Equal(t, true, call(t, "IsArray", arr))
	assert.Equal(t, "1-2-3", call(t, "Join", arr, "-"))

	grid, _ := NewArray(2, 4)
	assert.Equal(t, int64(4), call(t, "UBound", grid, 2))
	assert.Equal(t, ErrSubscript, callFault(t, "UBound", grid, 3).Number)
	assert.Equal(t, ErrTypeMismatch, callFault(t, "UBound", "abc").Number)

	parts := call(t, "Split", "a,b,,c", ",").(*Array)
	assert.Equal(t, []any{"a", "b", "", "c"}, parts.Values())
	parts = call(t, "Split", "a b c").(*Array)
	assert.Equal(t, 3, parts.Len())
	parts = call(t, "Split", "a,b,c", ",", 2).(*Array)
	assert.Equal(t, []any{"a", "b,c"}, parts.Values())
	parts = call(t, "Split", "aXbxc", "x", -1, TextCompare).(*Array)
	assert.Equal(t, []any{"a", "b", "c"}, parts.Values())
	assert.Equal(t, int64(-1), call(t, "UBound", call(t, "Split", "")))
}

func TestTypes(t *testing.T) {
	assert.Equal(t, true, call(t, "IsEmpty", nil))
	assert.Equal(t, false, call(t, "IsEmpty", ""))
	assert.Equal(t, true, call(t, "IsNull", Null))
	assert.Equal(t, true, call(t, "IsNumeric", " 12.5 "))
	assert.Equal(t, false, call(t, "IsNumeric", "12a"))
	assert.Equal(t, true, call(t, "IsObject", struct{}{}))
	assert.Equal(t, false, call(t, "IsObject", "x"))

	names := map[string]any{
		"Empty":     nil,
		"Null":      Null,
		"Boolean":   true,
		"Integer":   int64(12),
		"Long":      int64(70000),
		"Double":    1.5,
		"String":    "s",
		"Variant()": ArrayOf(),
		"Object":    &strings.Builder{},
	}
	for want, v := range names {
		assert.Equal(t, want, call(t, "TypeName", v))
	}
}
