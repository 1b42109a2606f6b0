package ast

import (
	"fmt"
	"strings"

	"github.com/vpdb/vbsc/catalog"
)

// Namespaces holds the identifiers generated code uses to reach each
// namespace. They are part of the contract with host glue code.
type Namespaces struct {
	Scope  string
	Items  string
	Enums  string
	Global string
	Stdlib string
	Helper string
}

// DefaultNamespaces returns the standard namespace identifiers.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Scope:  "__scope",
		Items:  "__items",
		Enums:  "__enums",
		Global: "__global",
		Stdlib: "__stdlib",
		Helper: "__vbsHelper",
	}
}

// Params returns the namespace identifiers in wrapper parameter order.
func (ns Namespaces) Params() []string {
	return []string{ns.Scope, ns.Items, ns.Enums, ns.Global, ns.Stdlib, ns.Helper}
}

// Has reports whether name is one of the namespace identifiers.
func (ns Namespaces) Has(name string) bool {
	for _, p := range ns.Params() {
		if p == name {
			return true
		}
	}
	return false
}

// Warning is a non-fatal resolution problem.
type Warning struct {
	Line int
	Msg  string
}

func (w Warning) String() string { return fmt.Sprintf("line %d: %s", w.Line, w.Msg) }

// ResolveContext bundles the catalogs consulted by Resolve. Any catalog
// may be nil, which skips its sub-pass.
type ResolveContext struct {
	Items     catalog.Items
	Enums     catalog.Enums
	Stdlib    catalog.Names
	Global    catalog.Names
	Names     Namespaces
	OnWarning func(Warning)
}

// evalBuiltins are the callees rewritten to dynamic evaluation.
var evalBuiltins = map[string]bool{"executeglobal": true, "execute": true}

// Resolve rewrites free identifiers into namespace members. Each namespace
// is a separate traversal of the whole tree, in this order: items, enums,
// stdlib, global, eval. A reference qualified by an earlier traversal is
// recognized by its parent and never rewritten again.
func Resolve(prog *Program, ctx ResolveContext) *Program {
	r := &resolver{ctx: ctx, f: NewFactory()}
	if ctx.Items != nil {
		prog = r.pass(prog, r.items)
	}
	if ctx.Enums != nil {
		prog = r.pass(prog, r.enums)
	}
	if ctx.Stdlib != nil {
		prog = r.pass(prog, r.stdlib)
	}
	if ctx.Global != nil {
		prog = r.pass(prog, r.global)
	}
	return r.pass(prog, r.eval)
}

// Resolver returns Resolve as a pipeline pass.
func Resolver(ctx ResolveContext) Transform {
	return TransformFunc{N: "resolve", F: func(prog *Program) *Program { return Resolve(prog, ctx) }}
}

type resolver struct {
	ctx  ResolveContext
	f    *Factory
	line int
}

func (r *resolver) pass(prog *Program, enter func(n, parent Node) Node) *Program {
	return Replace(prog, VisitorFuncs{EnterFunc: func(n, parent Node) (Node, bool) {
		if s, ok := n.(Statement); ok {
			r.line = s.StmtLine()
		}
		return enter(n, parent), true
	}})
}

func (r *resolver) warn(format string, args ...any) {
	w := Warning{Line: r.line, Msg: fmt.Sprintf(format, args...)}
	log.Warningf("%s", w)
	if r.ctx.OnWarning != nil {
		r.ctx.OnWarning(w)
	}
}

// known reports whether n already hangs off a namespace identifier.
func (r *resolver) known(parent Node) bool {
	m, ok := parent.(*MemberExpression)
	if !ok {
		return false
	}
	obj, ok := m.Object.(*Identifier)
	return ok && r.ctx.Names.Has(obj.Name)
}

// candidate returns n as a free identifier eligible for qualification,
// or nil.
func (r *resolver) candidate(n, parent Node) *Identifier {
	id, ok := n.(*Identifier)
	if !ok || id.Local || r.ctx.Names.Has(id.Name) || r.known(parent) {
		return nil
	}
	switch p := parent.(type) {
	case *MemberExpression:
		if p.Property == n && !p.Computed {
			return nil
		}
	case *CallExpression:
		if p.Callee == n && evalBuiltins[strings.ToLower(id.Name)] {
			return nil
		}
	case *VariableDeclarator, *Parameter, *ReDimTarget, *FunctionDeclaration, *EraseStatement:
		return nil
	case *ForNextStatement:
		if p.Var == n {
			return nil
		}
	case *ForEachStatement:
		if p.Var == n {
			return nil
		}
	case *ForOfStatement:
		if p.Left == n {
			return nil
		}
	}
	return id
}

// objectCandidate matches obj.prop where obj is a free identifier.
func (r *resolver) objectCandidate(n Node) (*MemberExpression, *Identifier, *Identifier) {
	m, ok := n.(*MemberExpression)
	if !ok || m.Computed {
		return nil, nil, nil
	}
	obj := r.candidate(m.Object, m)
	prop, _ := m.Property.(*Identifier)
	if obj == nil || prop == nil {
		return nil, nil, nil
	}
	return m, obj, prop
}

// qualify builds ns.name, re-casing prop through props when the
// reference is the object of a member access.
func (r *resolver) qualify(n Node, ns, name string, props func(name, prop string) (string, bool)) Node {
	q := r.f.Qualify(ns, name)
	m, _, prop := r.objectCandidate(n)
	if m == nil {
		return q
	}
	if props != nil {
		if canon, ok := props(name, prop.Name); ok && canon != prop.Name {
			cp := *prop
			cp.Name = canon
			prop = &cp
		}
	}
	return &MemberExpression{Object: q, Property: prop}
}

func (r *resolver) items(n, parent Node) Node {
	if m, obj, _ := r.objectCandidate(n); m != nil {
		if name, ok := r.ctx.Items.ResolveElementName(obj.Name); ok {
			return r.qualify(n, r.ctx.Names.Items, name, r.ctx.Items.ResolvePropertyName)
		}
		return n
	}
	if id := r.candidate(n, parent); id != nil {
		if name, ok := r.ctx.Items.ResolveElementName(id.Name); ok {
			return r.f.Qualify(r.ctx.Names.Items, name)
		}
	}
	return n
}

func (r *resolver) enums(n, parent Node) Node {
	m, obj, prop := r.objectCandidate(n)
	if m == nil {
		return n
	}
	if call, ok := parent.(*CallExpression); ok && call.Callee == n {
		return n
	}
	enum, ok := r.ctx.Enums.ResolveEnumName(obj.Name)
	if !ok {
		return n
	}
	value, ok := r.ctx.Enums.ResolveValueName(enum, prop.Name)
	if !ok {
		r.warn("unknown value %q of enum %s", prop.Name, enum)
		return n
	}
	return r.f.Member(r.f.Qualify(r.ctx.Names.Enums, enum), value)
}

func (r *resolver) stdlib(n, parent Node) Node {
	return r.names(n, parent, r.ctx.Stdlib, r.ctx.Names.Stdlib, true)
}

func (r *resolver) global(n, parent Node) Node {
	return r.names(n, parent, r.ctx.Global, r.ctx.Names.Global, false)
}

func (r *resolver) names(n, parent Node, c catalog.Names, ns string, recase bool) Node {
	var props func(name, prop string) (string, bool)
	if recase {
		props = c.ResolvePropertyName
	}
	if m, obj, _ := r.objectCandidate(n); m != nil {
		if name, ok := c.ResolveName(obj.Name); ok {
			return r.qualify(n, ns, name, props)
		}
		return n
	}
	if id := r.candidate(n, parent); id != nil {
		if name, ok := c.ResolveName(id.Name); ok {
			return r.f.Qualify(ns, name)
		}
	}
	return n
}

// eval rewrites ExecuteGlobal src into
// eval(<helper>.transpileInline(src)), which runs the compiled text in the
// caller's scope.
func (r *resolver) eval(n, _ Node) Node {
	call, ok := n.(*CallExpression)
	if !ok || len(call.Arguments) == 0 || call.Arguments[0] == nil {
		return n
	}
	callee, ok := call.Callee.(*Identifier)
	if !ok || callee.Local || !evalBuiltins[strings.ToLower(callee.Name)] {
		return n
	}
	inline := r.f.Call(r.f.Qualify(r.ctx.Names.Helper, "transpileInline"), call.Arguments[0])
	return r.f.Call(r.f.LocalIdent("eval"), inline)
}
