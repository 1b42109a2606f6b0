package host

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/vpdb/vbsc/vbs"
)

// objectOf builds a plain script object from a map of host values.
func (r *Runtime) objectOf(values map[string]any) *goja.Object {
	obj := r.vm.NewObject()
	for k, v := range values {
		if err := obj.Set(k, r.toJS(v)); err != nil {
			log.Warningf("cannot expose %s: %s", k, err)
		}
	}
	return obj
}

// stdlibObject exposes every registered shim function plus the Err
// object under their canonical names.
func (r *Runtime) stdlibObject() *goja.Object {
	obj := r.vm.NewObject()
	for _, name := range vbs.Names() {
		f, _ := vbs.Lookup(name)
		obj.Set(name, r.stdlibFunc(f))
	}
	obj.Set(vbs.ErrObject, r.vm.NewDynamicObject(&errObject{r: r}))
	return obj
}

func (r *Runtime) stdlibFunc(f *vbs.Func) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = r.fromJS(a)
		}
		v, err := f.Call(args...)
		if err != nil {
			return r.throw(err)
		}
		return r.toJS(v)
	}
}

// errObject is the script face of vbs.ErrState.
type errObject struct {
	r *Runtime
}

func (e *errObject) Get(key string) goja.Value {
	r, errs := e.r, e.r.errs
	switch key {
	case "Number":
		return r.vm.ToValue(errs.Number())
	case "Description":
		return r.vm.ToValue(errs.Description())
	case "Source":
		return r.vm.ToValue(errs.Source())
	case "Clear":
		return r.vm.ToValue(func() { errs.Clear() })
	case "OnErrorResumeNext":
		return r.vm.ToValue(func() { errs.OnErrorResumeNext() })
	case "OnErrorGoto0":
		return r.vm.ToValue(func() { errs.OnErrorGoto0() })
	case "Raise":
		return r.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			number, err := vbs.ToInt(r.fromJS(call.Argument(0)), 32)
			if err != nil {
				return r.throw(err)
			}
			source, _ := vbs.ToString(r.fromJS(call.Argument(1)))
			desc, _ := vbs.ToString(r.fromJS(call.Argument(2)))
			f := vbs.NewFault(int(number), source)
			if desc != "" {
				f.Description = desc
			}
			return r.throw(f)
		})
	}
	return goja.Undefined()
}

func (e *errObject) Set(string, goja.Value) bool { return false }
func (e *errObject) Has(key string) bool {
	for _, p := range vbs.ErrProperties {
		if p == key {
			return true
		}
	}
	return false
}
func (e *errObject) Delete(string) bool { return false }
func (e *errObject) Keys() []string     { return vbs.ErrProperties }

// helperObject holds the functions generated code calls for arrays,
// dynamic evaluation and statement guards.
func (r *Runtime) helperObject() *goja.Object {
	obj := r.vm.NewObject()
	obj.Set("transpileInline", func(call goja.FunctionCall) goja.Value {
		src, err := vbs.ToString(r.fromJS(call.Argument(0)))
		if err != nil {
			return r.throw(err)
		}
		out, err := r.compiler.TranspileInline(src)
		if err != nil {
			panic(r.vm.NewGoError(fmt.Errorf("execute: %w", err)))
		}
		return r.vm.ToValue(out)
	})
	obj.Set("resumable", func(call goja.FunctionCall) goja.Value {
		return r.vm.ToValue(resumable(call.Argument(0)))
	})
	obj.Set("dim", func(call goja.FunctionCall) goja.Value {
		bounds, err := r.bounds(call.Arguments)
		if err != nil {
			return r.throw(err)
		}
		arr, err := vbs.NewArray(bounds...)
		if err != nil {
			return r.throw(err)
		}
		return r.toJS(arr)
	})
	obj.Set("redim", func(call goja.FunctionCall) goja.Value {
		bounds, err := r.bounds(call.Arguments[min(2, len(call.Arguments)):])
		if err != nil {
			return r.throw(err)
		}
		if arr, ok := r.fromJS(call.Argument(0)).(*vbs.Array); ok {
			if err := arr.Resize(call.Argument(1).ToBoolean(), bounds...); err != nil {
				return r.throw(err)
			}
			return call.Argument(0)
		}
		arr, err := vbs.NewDynamicArray(bounds...)
		if err != nil {
			return r.throw(err)
		}
		return r.toJS(arr)
	})
	obj.Set("erase", func(call goja.FunctionCall) goja.Value {
		arr, ok := r.fromJS(call.Argument(0)).(*vbs.Array)
		if !ok {
			return r.throw(vbs.NewFault(vbs.ErrTypeMismatch, "Erase"))
		}
		arr.Erase()
		return call.Argument(0)
	})
	return obj
}

func (r *Runtime) bounds(args []goja.Value) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := vbs.ToInt(r.fromJS(a), 32)
		if err != nil {
			return nil, err
		}
		out[i] = int(n)
	}
	return out, nil
}
