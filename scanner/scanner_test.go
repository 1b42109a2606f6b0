package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func split(src string) (code, lit string) {
	sc := New(src)
	var c, l []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InLiteral() {
			l = append(l, ch)
		} else {
			c = append(c, ch)
		}
	}
	return string(c), string(l)
}

func TestScanner_BasicIteration(t *testing.T) {
	sc := New("ab")
	ch, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), ch)
	assert.Equal(t, 0, sc.Pos())

	peek, ok := sc.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('b'), peek)

	sc.Next()
	_, ok = sc.Next()
	assert.False(t, ok)
}

func TestScanner_LineTracking(t *testing.T) {
	sc := New("a\nb")
	sc.Next()
	assert.Equal(t, 1, sc.Line())
	sc.Next()
	assert.Equal(t, 2, sc.Line())
}

func TestScanner_String(t *testing.T) {
	code, lit := split(`x = "it's" & y`)
	assert.Equal(t, `x =  & y`, code)
	assert.Equal(t, `"it's"`, lit)
}

func TestScanner_DoubledQuote(t *testing.T) {
	code, lit := split(`s = "he said ""hi""" : t`)
	assert.Equal(t, `s =  : t`, code)
	assert.Equal(t, `"he said ""hi"""`, lit)
}

func TestScanner_Bracket(t *testing.T) {
	code, lit := split(`Dim [to], x`)
	assert.Equal(t, `Dim , x`, code)
	assert.Equal(t, `[to]`, lit)
}

func TestScanner_QuoteInsideBracket(t *testing.T) {
	_, lit := split(`[a"b] = 1`)
	assert.Equal(t, `[a"b]`, lit)
}

func TestScanner_NewlineResetsString(t *testing.T) {
	sc := New("\"abc\nx")
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if ch == 'x' {
			assert.True(t, sc.InCode())
		}
	}
}

func TestScanner_LookingAtFold(t *testing.T) {
	sc := New("REM hello")
	sc.Next()
	assert.True(t, sc.LookingAtFold("rem"))

	sc = New("Remove")
	sc.Next()
	assert.False(t, sc.LookingAtFold("rem"))
}

func TestScanner_Skip(t *testing.T) {
	sc := New("abc")
	assert.Equal(t, 2, sc.Skip(2))
	assert.Equal(t, 1, sc.Pos())
	assert.Equal(t, 1, sc.Skip(5))
}

func TestTypeSuffixAt(t *testing.T) {
	tests := []struct {
		src  string
		i    int
		want bool
	}{
		{"a$", 1, true},
		{"j#,x", 1, true},
		{"n%", 1, true},
		{"a&", 1, true},
		{"a& = 1", 1, true},
		{"a&b", 1, false},
		{`a&"x"`, 1, false},
		{"a& b", 1, true},
		{"obj!key", 3, false},
		{"x!)", 1, true},
		{"= #1", 2, false},
		{"$", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeSuffixAt(tt.src, tt.i))
		})
	}
}
