package ast

import "strings"

// ResultName is the local holding a Function's return value. Assignments
// to the function's own name are parsed into assignments to it.
const ResultName = "__result"

// jsReserved lists target-language words that cannot name a variable.
var jsReserved = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "else": true, "enum": true,
	"eval": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true,
	"implements": true, "import": true, "in": true, "instanceof": true,
	"interface": true, "let": true, "new": true, "null": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "undefined": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true,
}

// arrayBuiltins are the functions known to return arrays.
var arrayBuiltins = map[string]bool{"array": true, "split": true}

type binding struct {
	name string
}

// scope holds the names declared in the program body or in one procedure.
// Lookups fall back to the enclosing scope.
type scope struct {
	outer  *scope
	names  map[string]*binding
	arrays map[string]bool
	hoist  []string // ReDim targets without a declaration
}

func newScope(outer *scope) *scope {
	return &scope{outer: outer, names: map[string]*binding{}, arrays: map[string]bool{}}
}

func (s *scope) declare(name string) {
	key := strings.ToLower(name)
	if _, ok := s.names[key]; ok {
		return
	}
	if jsReserved[name] {
		name += "_"
	}
	s.names[key] = &binding{name: name}
}

func (s *scope) lookup(name string) *binding {
	key := strings.ToLower(name)
	for sc := s; sc != nil; sc = sc.outer {
		if b, ok := sc.names[key]; ok {
			return b
		}
	}
	return nil
}

func (s *scope) isArray(name string) bool {
	key := strings.ToLower(name)
	for sc := s; sc != nil; sc = sc.outer {
		if _, ok := sc.names[key]; ok || sc.arrays[key] {
			return sc.arrays[key]
		}
	}
	return false
}

// BindLocals binds references to declared names. VBScript names are
// case-insensitive while the target is not, so every reference to a
// declared name is re-cased to its declaration spelling and marked Local,
// which keeps it out of namespace resolution.
//
// Along the way it turns calls on known arrays into index expressions
// (a(i, j) becomes a[i][j]), turns call-shaped assignment targets into
// index targets, and hoists a declaration for arrays that are only ever
// created by ReDim.
//
// Dim and Const statements are lifted to the front of their scope body:
// a VBScript declaration covers the whole script or procedure, including
// code that runs before the Dim line.
func BindLocals(prog *Program) *Program {
	global := newScope(nil)
	scopes := map[*FunctionDeclaration]*scope{}
	collectScope(global, prog.Body, func(fn *FunctionDeclaration) {
		global.declare(fn.Name.Name)
		fs := newScope(global)
		for _, p := range fn.Params {
			fs.declare(p.ID.Name)
			if p.IsArray {
				fs.arrays[strings.ToLower(p.ID.Name)] = true
			}
		}
		collectScope(fs, fn.Body, nil)
		scopes[fn] = fs
	})

	f := NewFactory()
	current := global
	v := VisitorFuncs{
		EnterFunc: func(n, parent Node) (Node, bool) {
			switch x := n.(type) {
			case *Program:
				body, lifted := liftDeclarations(x.Body)
				if len(global.hoist) > 0 {
					return f.ProgramFrom(x, prepend(f.Declare(0, global.hoist...), body)), true
				}
				if lifted {
					return f.ProgramFrom(x, body), true
				}
			case *FunctionDeclaration:
				fs := scopes[x]
				if fs == nil {
					return n, false
				}
				current = fs
				body, lifted := liftDeclarations(x.Body)
				if len(fs.hoist) > 0 {
					return f.FunctionWithBody(x, prepend(f.Declare(x.SourceLine, fs.hoist...), body)), true
				}
				if lifted {
					return f.FunctionWithBody(x, body), true
				}
			case *AssignmentStatement:
				if call, ok := x.Target.(*CallExpression); ok && !hasOmitted(call.Arguments) {
					cp := *x
					cp.Target = f.Index(call.Callee, call.Arguments...)
					return &cp, true
				}
			case *CallExpression:
				if id, ok := x.Callee.(*Identifier); ok && len(x.Arguments) > 0 &&
					!hasOmitted(x.Arguments) && current.isArray(id.Name) {
					return f.Index(x.Callee, x.Arguments...), true
				}
			case *Identifier:
				if m, ok := parent.(*MemberExpression); ok && m.Property == n && !m.Computed {
					return n, false
				}
				if b := current.lookup(x.Name); b != nil && (x.Name != b.name || !x.Local) {
					cp := *x
					cp.Name, cp.Local = b.name, true
					return &cp, false
				}
			}
			return n, true
		},
		LeaveFunc: func(n, _ Node) {
			if _, ok := n.(*FunctionDeclaration); ok {
				current = global
			}
		},
	}
	return Replace(prog, v)
}

// collectScope records the declarations of body into s. Explicit
// declarations are gathered first so that ReDim and loop variables only
// introduce names nothing else declares.
func collectScope(s *scope, body []Statement, onFunc func(*FunctionDeclaration)) {
	var later []Node
	visit := func(n, _ Node) bool {
		switch x := n.(type) {
		case *FunctionDeclaration:
			if onFunc != nil {
				onFunc(x)
			}
			return false
		case *VariableDeclaration:
			for _, d := range x.Declarations {
				s.declare(d.ID.Name)
				if len(d.Bounds) > 0 || d.IsArray {
					s.arrays[strings.ToLower(d.ID.Name)] = true
				}
			}
		case *ReDimStatement, *ForNextStatement, *ForEachStatement, *AssignmentStatement:
			later = append(later, n)
		}
		return true
	}
	for _, st := range body {
		Inspect(st, visit)
	}

	for _, n := range later {
		switch x := n.(type) {
		case *ReDimStatement:
			for _, t := range x.Targets {
				if s.lookup(t.ID.Name) == nil {
					s.declare(t.ID.Name)
					s.hoist = append(s.hoist, s.names[strings.ToLower(t.ID.Name)].name)
				}
				s.arrays[strings.ToLower(t.ID.Name)] = true
			}
		case *ForNextStatement:
			if s.lookup(x.Var.Name) == nil {
				s.declare(x.Var.Name)
			}
		case *ForEachStatement:
			if s.lookup(x.Var.Name) == nil {
				s.declare(x.Var.Name)
			}
		case *AssignmentStatement:
			target, ok := x.Target.(*Identifier)
			call, isCall := x.Value.(*CallExpression)
			if !ok || !isCall {
				continue
			}
			if callee, ok := call.Callee.(*Identifier); ok && arrayBuiltins[strings.ToLower(callee.Name)] {
				s.arrays[strings.ToLower(target.Name)] = true
			}
		}
	}
}

func hasOmitted(args []Expr) bool {
	for _, a := range args {
		if a == nil {
			return true
		}
	}
	return false
}

func prepend(s Statement, body []Statement) []Statement {
	out := make([]Statement, 0, len(body)+1)
	return append(append(out, s), body...)
}

// liftDeclarations moves the declarations of a scope body, including those
// nested in blocks, to its front in source order. It reports whether the
// order changed.
func liftDeclarations(body []Statement) ([]Statement, bool) {
	var decls []Statement
	rest := pluckDeclarations(body, &decls)
	if len(decls) == 0 {
		return body, false
	}
	for i, d := range decls {
		if body[i] != d {
			return append(decls, rest...), true
		}
	}
	return body, false
}

// pluckDeclarations returns body without its declarations, which are
// appended to decls. Blocks holding a declaration are copied.
func pluckDeclarations(body []Statement, decls *[]Statement) []Statement {
	if body == nil {
		return nil
	}
	out := make([]Statement, 0, len(body))
	for _, orig := range body {
		s, before := orig, len(*decls)
		switch x := s.(type) {
		case *VariableDeclaration:
			*decls = append(*decls, x)
			continue
		case *IfStatement:
			cp := *x
			cp.Consequent = pluckDeclarations(x.Consequent, decls)
			cp.Alternate = pluckDeclarations(x.Alternate, decls)
			s = &cp
		case *ForNextStatement:
			cp := *x
			cp.Body = pluckDeclarations(x.Body, decls)
			s = &cp
		case *ForEachStatement:
			cp := *x
			cp.Body = pluckDeclarations(x.Body, decls)
			s = &cp
		case *DoLoopStatement:
			cp := *x
			cp.Body = pluckDeclarations(x.Body, decls)
			s = &cp
		case *SelectStatement:
			cp := *x
			cp.Cases = make([]*SelectCase, len(x.Cases))
			for i, c := range x.Cases {
				cc := *c
				cc.Body = pluckDeclarations(c.Body, decls)
				cp.Cases[i] = &cc
			}
			s = &cp
		}
		if len(*decls) == before {
			s = orig
		}
		out = append(out, s)
	}
	return out
}
