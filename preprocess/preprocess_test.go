package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"whitespace", "Dim   x", "Dim x\n"},
		{"comment", "Dim   x ' Test comment", "Dim x\n"},
		{"rem comment", "Rem header\nx = 1 : REM trailing", "x=1:\n"},
		{"rem prefix is not a comment", "Remove = 1", "Remove=1\n"},
		{"keywords", "ReDiM x(2) : DiM x2", "ReDim x(2):Dim x2\n"},
		{"continuation", "x = x +_\n5", "x=x+5\n"},
		{"continuation with spaces", "Call Foo(a, _\n   b)", "Call Foo(a,b)\n"},
		{"underscore identifier", "my_\nx = 1", "my_\nx=1\n"},
		{"blank lines", "x = x + 5\n\n\nx = x + 10\n\n\n", "x=x+5\nx=x+10\n"},
		{"crlf", "x = 1\r\ny = 2\r\n", "x=1\ny=2\n"},
		{"escaped identifiers", "Dim [to],[next],[item],record : [to] = 12 : [next] = 13\n", "Dim [to],[next],[item],record:[to]=12:[next]=13\n"},
		{"option compare", "Option Compare Database", "Option Compare Database\n"},
		{"two options", "Option Compare Database: Option Explicit", "Option Compare Database:Option Explicit\n"},
		{"dim as", "Dim a as String, b,c as Integer, d as Date, e as MyClass.Subclass", "Dim a As String,b,c As Integer,d As Date,e As MyClass.Subclass\n"},
		{"call without parens", "call MyFunc x, y, z", "Call MyFunc x,y,z\n"},
		{"call with parens", "call MyFunc(x, y, z)", "Call MyFunc(x,y,z)\n"},
		{"omitted arguments", "call MyFunc , , z", "Call MyFunc,,z\n"},
		{"prolog", "\nVERSION 1.0 CLASS\nBEGIN\n  MultiUse = -1  'True\nEND\nAttribute VB_Name = \"Form_frmAddScopeRec\"\nAttribute VB_GlobalNameSpace = False\n",
			"VERSION 1.0 Class\nBEGIN\nMultiUse=-1\nEnd\nAttribute VB_Name=\"Form_frmAddScopeRec\"\nAttribute VB_GlobalNameSpace=False\n"},
		{"type suffixes", "Dim a$, j#, for$\n", "Dim a$,j#,for$\n"},
		{"typed params", "Function x(a as Integer, b as String): return a: End Function", "Function x(a As Integer,b As String):return a:End Function\n"},
		{"typed signature", "Function x(a as Integer, b as String) as Integer: return a: End Function", "Function x(a As Integer,b As String) As Integer:return a:End Function\n"},
		{"doubled quote", `s = "he said ""this should work"""`, "s=\"he said \"\"this should work\"\"\"\n"},
		{"concat", `s = "s1" & x & "s2"`, "s=\"s1\"&x&\"s2\"\n"},
		{"dictionary access", `s = obj!key`, "s=obj!key\n"},
		{"member keeps case", "x = obj.END", "x=obj.END\n"},
		{"comment quote in string", `s = "it's" ' real comment`, "s=\"it's\"\n"},
		{"spaces in string", `s = "a   b"`, "s=\"a   b\"\n"},
		{"trailing colon", "SLLPos=0:Me.TimerEnabled=1:\n", "SLLPos=0:Me.TimerEnabled=1:\n"},
		{"empty", "", ""},
		{"only comments", "' nothing\n\n  ' here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.src))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	srcs := []string{
		"Dim   x ' Test comment",
		"x = x +_\n5",
		"If a And b Then c = d & \"e\" Else f",
		"Dim a$, j#, for$\n",
		"Sub Foo (a , b)\n  Bar a ,  , b\nEnd Sub",
		"s = \"a\" \"b\"",
	}
	for _, src := range srcs {
		once := Format(src)
		assert.Equal(t, once, Format(once), src)
	}
}

func TestKeyword(t *testing.T) {
	kw, ok := Keyword("elseif")
	assert.True(t, ok)
	assert.Equal(t, "ElseIf", kw)

	_, ok = Keyword("Database")
	assert.False(t, ok)
}

func TestStripComments_PreservesLines(t *testing.T) {
	assert.Equal(t, "a\n\nb", StripComments("a\n' x\nb"))
}

func TestJoinContinuations(t *testing.T) {
	assert.Equal(t, "a  b\nc", JoinContinuations("a _\nb\nc"))
	assert.Equal(t, "s = \"x _", JoinContinuations("s = \"x _"))
}

func FuzzFormatIdempotent(f *testing.F) {
	for _, seed := range []string{
		"Dim x",
		"x = x +_\n5",
		"Rem a\nb ' c",
		"Dim [to],[next]:[to]=1",
		"s = \"he said \"\"hi\"\"\"",
		"s = obj!key & a&",
		"VERSION 1.0 CLASS\nBEGIN\nEND",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, src string) {
		once := Format(src)
		if twice := Format(once); twice != once {
			t.Errorf("Format not idempotent for %q:\n once: %q\ntwice: %q", src, once, twice)
		}
	})
}
