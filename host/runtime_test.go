package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpdb/vbsc/catalog"
	"github.com/vpdb/vbsc/compiler"
	"github.com/vpdb/vbsc/parser"
	"github.com/vpdb/vbsc/vbs"
)

// recorder collects the arguments of every Result call a script makes.
type recorder struct {
	got []any
}

func (rec *recorder) globals() map[string]any {
	return map[string]any{"Result": func(args ...any) { rec.got = append(rec.got, args...) }}
}

func stdlibCompiler() *compiler.Compiler {
	return compiler.New(compiler.Catalogs{Stdlib: vbs.Catalog()})
}

func run(t *testing.T, src string, opts ...Option) []any {
	t.Helper()
	rec := &recorder{}
	require.NoError(t, Execute(stdlibCompiler(), src, "runTableScript", rec.globals(), opts...))
	return rec.got
}

func TestExecute_InjectsGlobals(t *testing.T) {
	calls := 0
	err := Execute(nil, "Spy\n", "global", map[string]any{"Spy": func() { calls++ }})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecute_CompileErrors(t *testing.T) {
	err := Execute(nil, "", "global", nil)
	var empty *parser.EmptyInputError
	assert.True(t, errors.As(err, &empty), "got %v", err)
}

func TestExecute_Arrays(t *testing.T) {
	got := run(t, "Dim a(2)\na(1) = 5\nResult a(1), a(0)\n")
	assert.Equal(t, []any{int64(5), nil}, got)

	got = run(t, "Dim g(1, 2)\ng(1, 2) = 7\nResult g(1, 2), UBound(g, 2)\n")
	assert.Equal(t, []any{int64(7), int64(2)}, got)

	got = run(t, "ReDim a(2)\na(2) = \"z\"\nReDim Preserve a(4)\nResult UBound(a), a(2)\n")
	assert.Equal(t, []any{int64(4), "z"}, got)

	got = run(t, "parts = Split(\"a,b,c\", \",\")\nResult UBound(parts), parts(1)\n")
	assert.Equal(t, []any{int64(2), "b"}, got)
}

func TestExecute_ForEach(t *testing.T) {
	got := run(t, "For Each x In Array(1, 2, 3)\nResult x * 2\nNext\n")
	assert.Equal(t, []any{int64(2), int64(4), int64(6)}, got)
}

func TestExecute_Loops(t *testing.T) {
	got := run(t, "For i = 3 To 1 Step -1\nResult i\nNext\n")
	assert.Equal(t, []any{int64(3), int64(2), int64(1)}, got)

	got = run(t, "n = 0\nDo Until n = 3\nn = n + 1\nLoop\nResult n\n")
	assert.Equal(t, []any{int64(3)}, got)
}

func TestExecute_SubscriptFaultThrows(t *testing.T) {
	rec := &recorder{}
	err := Execute(stdlibCompiler(), "Dim a(1)\nx = a(5)\nResult 1\n", "runTableScript", rec.globals())
	var fault *vbs.Fault
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, vbs.ErrSubscript, fault.Number)
	assert.Empty(t, rec.got)
}

func TestExecute_ResumeNextRecordsFault(t *testing.T) {
	got := run(t, "On Error Resume Next\nDim a(1)\nx = a(5)\nResult Err.Number, Err.Description\n")
	assert.Equal(t, []any{int64(9), "Subscript out of range"}, got)

	got = run(t, "On Error Resume Next\nx = CInt(\"abc\")\nResult Err.Number\nErr.Clear\nResult Err.Number\n")
	assert.Equal(t, []any{int64(13), int64(0)}, got)
}

func TestExecute_ResumeNextSkipsFaultingStatement(t *testing.T) {
	got := run(t, "On Error Resume Next\nDim a(1)\nx = 7\nx = a(10)\nResult x, Err.Number\n")
	assert.Equal(t, []any{int64(7), int64(9)}, got)

	got = run(t, "On Error Resume Next\nDim a(1)\nResult a(10)\nResult \"next\"\n")
	assert.Equal(t, []any{"next"}, got)

	got = run(t, "On Error Resume Next\nDim a(1)\nFor i = 1 To 2\nx = a(9)\nResult i\nNext\n")
	assert.Equal(t, []any{int64(1), int64(2)}, got)
}

func TestExecute_ResumeNextUnwindsCallee(t *testing.T) {
	src := "Sub Fill()\nDim a(1)\nResult 1\nx = a(5)\nResult 2\nEnd Sub\n" +
		"On Error Resume Next\nFill\nResult 3\n"
	assert.Equal(t, []any{int64(1), int64(3)}, run(t, src))
}

func TestExecute_FaultBeforeResumeNextThrows(t *testing.T) {
	rec := &recorder{}
	err := Execute(stdlibCompiler(), "Dim a(1)\nx = a(9)\nOn Error Resume Next\nResult 1\n", "runTableScript", rec.globals())
	var fault *vbs.Fault
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, vbs.ErrSubscript, fault.Number)
	assert.Empty(t, rec.got)
}

func TestExecute_UseBeforeDim(t *testing.T) {
	got := run(t, "Sub F()\nscore = 3\nResult score\nEnd Sub\nF\nDim score\n")
	assert.Equal(t, []any{int64(3)}, got)
}

func TestExecute_ExitLeavesNamedLoop(t *testing.T) {
	got := run(t, "n = 0\nFor i = 1 To 3\nDo\nExit For\nLoop\nn = n + 1\nNext\nResult n\n")
	assert.Equal(t, []any{int64(0)}, got)

	got = run(t, "n = 0\nDo\nWhile True\nExit Do\nWend\nn = 1\nLoop\nResult n\n")
	assert.Equal(t, []any{int64(0)}, got)

	got = run(t, "n = 0\nFor i = 1 To 3\nFor j = 1 To 3\nExit For\nNext\nn = n + 1\nNext\nResult n\n")
	assert.Equal(t, []any{int64(3)}, got)
}

func TestExecute_Raise(t *testing.T) {
	got := run(t, "On Error Resume Next\nErr.Raise 1000, \"table\", \"boom\"\nResult Err.Number, Err.Source, Err.Description\n")
	assert.Equal(t, []any{int64(1000), "table", "boom"}, got)

	err := Execute(stdlibCompiler(), "Err.Raise 1000\n", "runTableScript", nil)
	var fault *vbs.Fault
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, 1000, fault.Number)
}

func TestExecute_SharedErrState(t *testing.T) {
	errs := &vbs.ErrState{}
	run(t, "On Error Resume Next\nx = Sqr(-1)\n", WithErrState(errs))
	assert.Equal(t, vbs.Suppressed, errs.Mode())
	assert.Equal(t, vbs.ErrIllegalCall, errs.Number())
}

func TestExecute_Eval(t *testing.T) {
	got := run(t, "ExecuteGlobal \"Result 42\"\n")
	assert.Equal(t, []any{int64(42)}, got)

	got = run(t, "code = \"n = 5\"\nExecuteGlobal code\nResult n\n")
	assert.Equal(t, []any{int64(5)}, got)
}

type kicker struct {
	Strength int
	kicks    []int
}

func (k *kicker) Kick(strength int) { k.kicks = append(k.kicks, strength) }

func TestExecute_Namespaces(t *testing.T) {
	k := &kicker{Strength: 3}
	items := catalog.Objects{"Kicker1": k}
	enums := catalog.Objects{"ImageAlignment": map[string]any{"ImageAlignTopLeft": 1}}
	c := compiler.New(compiler.Catalogs{Items: items, Enums: enums, Stdlib: vbs.Catalog()})

	rec := &recorder{}
	src := "kicker1.kick kicker1.strength + 1\nResult imagealignment.imagealigntopleft\n"
	err := Execute(c, src, "runTableScript", rec.globals(), WithItems(items), WithEnums(enums))
	require.NoError(t, err)
	assert.Equal(t, []int{4}, k.kicks)
	assert.Equal(t, []any{int64(1)}, rec.got)
}

func TestRuntime_Call(t *testing.T) {
	r := New(nil)
	require.NoError(t, r.Run("Function Double(n)\nDouble = n * 2\nEnd Function\nSub Reset()\nEnd Sub\n", "table"))

	v, err := r.Call("double", 21)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = r.Call("RESET")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = r.Call("Missing")
	assert.EqualError(t, err, "call Missing: no such procedure")
}

func TestRuntime_Stubs(t *testing.T) {
	cat := catalog.NewStatic(
		map[string][]string{"BallRelease": {"CreateBall", "Enabled"}},
		map[string]map[string]int64{"SequencerState": {"AllOn": 1}},
		map[string][]string{"PlaySound": nil, "Controller": {"Switch"}},
	)
	c := compiler.New(compiler.Catalogs{Items: cat.Items(), Enums: cat.Enums(), Global: cat.Global(), Stdlib: vbs.Catalog()})

	rec := &recorder{}
	r := New(c, WithStubs(cat))
	require.NoError(t, r.SetGlobals(rec.globals()))
	src := "BallRelease.CreateBall\nBallRelease.Enabled = True\nPlaySound \"fx\", 1\n" +
		"Controller.Switch 5\nResult BallRelease.Enabled, SequencerState.AllOn\n"
	require.NoError(t, r.Run(src, "runTableScript"))
	assert.Equal(t, []any{true, int64(1)}, rec.got)
}
