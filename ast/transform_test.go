package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainEmpty(t *testing.T) {
	prog := &Program{Source: "x=1\n"}
	result := Chain().Transform(prog)
	assert.Same(t, prog, result, "empty chain returns same program")
}

func TestChainOrdering(t *testing.T) {
	var order []string
	step := func(name string) Transform {
		return TransformFunc{N: name, F: func(prog *Program) *Program {
			order = append(order, name)
			return prog
		}}
	}
	Chain(step("first"), step("second"), step("third")).Transform(&Program{})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestChainOfChains(t *testing.T) {
	appendTransform := func(name, suffix string) Transform {
		return TransformFunc{
			N: name,
			F: func(prog *Program) *Program {
				return &Program{Source: prog.Source + suffix}
			},
		}
	}
	inner := Chain(appendTransform("a", "+a"), appendTransform("b", "+b"))
	outer := Chain(inner, appendTransform("c", "+c"))
	result := outer.Transform(&Program{Source: "start"})
	assert.Equal(t, "start+a+b+c", result.Source)
}

func TestTransformNames(t *testing.T) {
	assert.Equal(t, "chain", Chain().Name())
	assert.Equal(t, "resolve", Resolver(ResolveContext{}).Name())
	tf := TransformFunc{N: "my-transform", F: func(p *Program) *Program { return p }}
	assert.Equal(t, "my-transform", tf.Name())
}

func TestMapSlice(t *testing.T) {
	a, b := &Identifier{Name: "a"}, &Identifier{Name: "b"}
	in := []*Identifier{a, b}

	out, changed := mapSlice(in, func(id *Identifier) *Identifier { return id })
	assert.False(t, changed)
	assert.Equal(t, in, out)

	c := &Identifier{Name: "c"}
	out, changed = mapSlice(in, func(id *Identifier) *Identifier {
		if id == b {
			return c
		}
		return id
	})
	assert.True(t, changed)
	assert.Same(t, a, out[0])
	assert.Same(t, c, out[1])
	assert.Same(t, b, in[1], "input slice untouched")
}
