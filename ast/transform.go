package ast

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("vbsc.ast")

// Transform is one compiler pass over a program. A pass returns a new
// program and leaves its input untouched.
type Transform interface {
	Name() string
	Transform(prog *Program) *Program
}

// TransformFunc adapts a named function to the Transform interface.
type TransformFunc struct {
	N string
	F func(*Program) *Program
}

func (t TransformFunc) Name() string                     { return t.N }
func (t TransformFunc) Transform(prog *Program) *Program { return t.F(prog) }

// Chain runs transforms in order as one Transform, feeding each the
// program the previous one returned.
func Chain(transforms ...Transform) Transform {
	return TransformFunc{
		N: "chain",
		F: func(prog *Program) *Program {
			for _, t := range transforms {
				log.Debugf("pass %s", t.Name())
				prog = t.Transform(prog)
			}
			return prog
		},
	}
}

// mapSlice rewrites a list of child nodes for the copy-on-write walker.
// The input is returned as is, with false, when fn hands back every
// element unchanged; the first replacement copies the list.
func mapSlice[T any](items []T, fn func(T) T) ([]T, bool) {
	var out []T
	for i, item := range items {
		next := fn(item)
		if out == nil && any(next) != any(item) {
			out = make([]T, len(items))
			copy(out, items[:i])
		}
		if out != nil {
			out[i] = next
		}
	}
	if out == nil {
		return items, false
	}
	return out, true
}
