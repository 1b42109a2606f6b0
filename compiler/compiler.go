// Package compiler turns VBScript source into a JavaScript callable unit.
//
// The pipeline is: normalize (preprocess.Format), parse, bind locals,
// desugar loops, resolve references against the catalogs, generate code
// and wrap it in an arrow function taking the namespace parameters.
package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/vpdb/vbsc/ast"
	"github.com/vpdb/vbsc/catalog"
	"github.com/vpdb/vbsc/parser"
	"github.com/vpdb/vbsc/preprocess"
)

var log = commonlog.GetLogger("vbsc.compiler")

// checks run on every parsed program before it is transformed.
var checks = ast.CheckChain{ast.Redefinitions{}}

// Catalogs are the name catalogs consulted during reference resolution.
// A nil catalog is skipped.
type Catalogs struct {
	Items  catalog.Items
	Enums  catalog.Enums
	Stdlib catalog.Names
	Global catalog.Names
}

// digest fingerprints the catalogs that can report a digest. Catalogs
// that cannot are identified by presence only.
func (c Catalogs) digest() []string {
	out := make([]string, 0, 4)
	for _, v := range []any{c.Items, c.Enums, c.Stdlib, c.Global} {
		switch d := v.(type) {
		case nil:
			out = append(out, "")
		case catalog.Digester:
			out = append(out, d.Digest())
		default:
			out = append(out, fmt.Sprintf("%T", v))
		}
	}
	return out
}

// Unit is a compiled script: the generated source and the parameter names
// its wrapping function expects, in order.
type Unit struct {
	Source   string
	Params   []string
	Warnings []ast.Warning
}

// Compiler runs the pipeline. The zero value compiles without catalogs
// using the default namespace identifiers. A Compiler is safe for
// concurrent use as long as its catalogs are.
type Compiler struct {
	Catalogs Catalogs
	// Names overrides the namespace identifiers; zero means defaults.
	Names ast.Namespaces
	// Cache, when set, stores compiled units on disk.
	Cache *Cache
}

// New returns a Compiler resolving against catalogs.
func New(catalogs Catalogs) *Compiler {
	return &Compiler{Catalogs: catalogs}
}

func (c *Compiler) names() ast.Namespaces {
	if c.Names == (ast.Namespaces{}) {
		return ast.DefaultNamespaces()
	}
	return c.Names
}

// Format normalizes src without compiling it.
func Format(src string) string {
	return preprocess.Format(src)
}

// Transpile compiles src into a unit assigned to exportName, optionally as
// a property of container, and returns its source.
func (c *Compiler) Transpile(src, exportName string, container ...string) (string, error) {
	var obj string
	if len(container) > 0 {
		obj = container[0]
	}
	unit, err := c.Compile(src, exportName, obj)
	if err != nil {
		return "", err
	}
	return unit.Source, nil
}

// Compile compiles src into a unit assigned to [container.]exportName.
func (c *Compiler) Compile(src, exportName, container string) (*Unit, error) {
	return c.compile(src, exportName, container, false)
}

// TranspileInline compiles src without the wrapping function. The result
// is meant for dynamic evaluation inside an already running unit, where the
// namespace parameters are in scope.
func (c *Compiler) TranspileInline(src string) (string, error) {
	unit, err := c.compile(src, "", "", true)
	if err != nil {
		return "", err
	}
	return unit.Source, nil
}

func (c *Compiler) compile(src, exportName, container string, inline bool) (*Unit, error) {
	normalized := preprocess.Format(src)
	names := c.names()

	var key string
	if c.Cache != nil {
		key = c.Cache.Key(normalized, exportName, container, inline, names, c.Catalogs)
		if unit, ok := c.Cache.Get(key); ok {
			log.Debugf("cache hit %s", key[:12])
			return unit, nil
		}
	}

	prog, err := parser.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("transpile: %w", err)
	}
	if err := checks.Run(prog); err != nil {
		return nil, fmt.Errorf("transpile: %w", err)
	}

	unit := &Unit{Params: names.Params()}
	pipeline := ast.Chain(
		ast.TransformFunc{N: "locals", F: ast.BindLocals},
		ast.TransformFunc{N: "loops", F: ast.DesugarLoops},
		ast.Resolver(ast.ResolveContext{
			Items:     c.Catalogs.Items,
			Enums:     c.Catalogs.Enums,
			Stdlib:    c.Catalogs.Stdlib,
			Global:    c.Catalogs.Global,
			Names:     names,
			OnWarning: func(w ast.Warning) { unit.Warnings = append(unit.Warnings, w) },
		}),
	)
	prog = pipeline.Transform(prog)

	body := Generate(prog, names)
	if inline {
		unit.Source = body
	} else {
		unit.Source = Wrap(exportName, container, body, names)
	}

	if c.Cache != nil {
		if err := c.Cache.Put(key, unit); err != nil {
			log.Warningf("cache store: %s", err)
		}
	}
	return unit, nil
}
