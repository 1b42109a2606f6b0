// Package host runs compiled scripts in an embedded JavaScript engine. It
// builds the namespace objects generated code expects, backs the stdlib
// namespace with the vbs shim and dispatches calls into script procedures.
package host

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/tliron/commonlog"

	"github.com/vpdb/vbsc/compiler"
	"github.com/vpdb/vbsc/vbs"
)

var log = commonlog.GetLogger("vbsc.host")

// Runtime is one script execution context. It is not safe for concurrent
// use.
type Runtime struct {
	vm       *goja.Runtime
	compiler *compiler.Compiler
	errs     *vbs.ErrState
	scope    *goja.Object

	items  map[string]any
	enums  map[string]any
	global map[string]any
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithItems exposes the table elements.
func WithItems(items map[string]any) Option {
	return func(r *Runtime) { r.items = items }
}

// WithEnums exposes the enums. Each value is an object whose properties
// are the enum values, such as a map[string]any.
func WithEnums(enums map[string]any) Option {
	return func(r *Runtime) { r.enums = enums }
}

// WithGlobal exposes the global API.
func WithGlobal(global map[string]any) Option {
	return func(r *Runtime) { r.global = global }
}

// WithErrState shares an Err object with the caller.
func WithErrState(errs *vbs.ErrState) Option {
	return func(r *Runtime) { r.errs = errs }
}

// New returns a Runtime compiling with c. A nil c compiles without
// catalogs.
func New(c *compiler.Compiler, opts ...Option) *Runtime {
	if c == nil {
		c = &compiler.Compiler{}
	}
	r := &Runtime{vm: goja.New(), compiler: c}
	for _, opt := range opts {
		opt(r)
	}
	if r.errs == nil {
		r.errs = &vbs.ErrState{}
	}
	r.scope = r.vm.NewObject()
	return r
}

// Err returns the Err object of this runtime.
func (r *Runtime) Err() *vbs.ErrState { return r.errs }

// VM returns the underlying engine.
func (r *Runtime) VM() *goja.Runtime { return r.vm }

// SetGlobals injects values into the script's global environment.
func (r *Runtime) SetGlobals(globals map[string]any) error {
	for k, v := range globals {
		if err := r.vm.Set(k, r.toJS(v)); err != nil {
			return fmt.Errorf("set global %s: %w", k, err)
		}
	}
	return nil
}

// Run compiles src into a unit bound to scopeLabel on the global object
// and invokes it with the namespace objects.
func (r *Runtime) Run(src, scopeLabel string) error {
	unit, err := r.compiler.Compile(src, scopeLabel, "")
	if err != nil {
		return err
	}
	for _, w := range unit.Warnings {
		log.Warningf("%s: %s", scopeLabel, w)
	}
	log.Debugf("running %s", scopeLabel)
	if _, err := r.vm.RunScript(scopeLabel+".js", unit.Source); err != nil {
		return fmt.Errorf("load %s: %w", scopeLabel, scriptError(err))
	}
	fn, ok := goja.AssertFunction(r.vm.Get(scopeLabel))
	if !ok {
		return fmt.Errorf("load %s: unit is not a function", scopeLabel)
	}
	if _, err := fn(goja.Undefined(), r.namespaces()...); err != nil {
		return fmt.Errorf("run %s: %w", scopeLabel, scriptError(err))
	}
	return nil
}

// namespaces returns the wrapper arguments in parameter order.
func (r *Runtime) namespaces() []goja.Value {
	return []goja.Value{
		r.scope,
		r.objectOf(r.items),
		r.objectOf(r.enums),
		r.objectOf(r.global),
		r.stdlibObject(),
		r.helperObject(),
	}
}

// Call invokes the script procedure name, matched without regard to case.
func (r *Runtime) Call(name string, args ...any) (any, error) {
	var fn goja.Callable
	for _, k := range r.scope.Keys() {
		if strings.EqualFold(k, name) {
			fn, _ = goja.AssertFunction(r.scope.Get(k))
			break
		}
	}
	if fn == nil {
		return nil, fmt.Errorf("call %s: no such procedure", name)
	}
	in := make([]goja.Value, len(args))
	for i, a := range args {
		in[i] = r.toJS(a)
	}
	v, err := fn(goja.Undefined(), in...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", name, scriptError(err))
	}
	return r.fromJS(v), nil
}

// Execute compiles src, injects globals into the global environment and
// runs the unit once.
func Execute(c *compiler.Compiler, src, scopeLabel string, globals map[string]any, opts ...Option) error {
	r := New(c, opts...)
	if err := r.SetGlobals(globals); err != nil {
		return err
	}
	return r.Run(src, scopeLabel)
}
