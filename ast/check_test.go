package ast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpdb/vbsc/ast"
)

func TestRedefinitions(t *testing.T) {
	checks := ast.CheckChain{ast.Redefinitions{}}

	tests := []struct {
		name string
		src  string
		bad  string
		line int
	}{
		{"distinct", "Dim a, b\nConst c = 1\nSub a2()\nDim a\nEnd Sub\n", "", 0},
		{"redim after dim", "Dim a()\nReDim a(3)\n", "", 0},
		{"same name in two procedures", "Sub x()\nDim t\nEnd Sub\nSub y()\nDim t\nEnd Sub\n", "", 0},
		{"dim twice", "Dim a\nDim A\n", "A", 2},
		{"one statement", "Dim a, b, a\n", "a", 1},
		{"const and dim", "Const Max = 1\nIf x Then\nDim max\nEnd If\n", "max", 3},
		{"procedure and variable", "Dim Reset\nSub reset()\nEnd Sub\n", "reset", 2},
		{"parameter", "Function f(n)\nDim N\nEnd Function\n", "N", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checks.Run(parse(t, tt.src))
			if tt.bad == "" {
				assert.NoError(t, err)
				return
			}
			var redefined *ast.RedefinedError
			require.True(t, errors.As(err, &redefined), "got %v", err)
			assert.Equal(t, tt.bad, redefined.Name)
			assert.Equal(t, tt.line, redefined.Line)
		})
	}
}
