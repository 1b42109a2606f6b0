package host

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/vpdb/vbsc/vbs"
)

// toJS converts a shim value for the script.
func (r *Runtime) toJS(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Undefined()
	case vbs.NullValue:
		return goja.Null()
	case *vbs.Array:
		return r.vm.NewDynamicArray(&arrayView{r: r, arr: x})
	case goja.Value:
		return x
	}
	return r.vm.ToValue(v)
}

// fromJS converts a script value for the shim. undefined is Empty and null
// is Null.
func (r *Runtime) fromJS(v goja.Value) any {
	switch {
	case v == nil || goja.IsUndefined(v):
		return nil
	case goja.IsNull(v):
		return vbs.Null
	}
	switch x := v.Export().(type) {
	case *arrayView:
		if len(x.prefix) == 0 {
			return x.arr
		}
		return x
	case []any:
		return vbs.ArrayOf(x...)
	default:
		return x
	}
}

// resumed carries a fault recorded while errors are suppressed. It unwinds
// the faulting statement; the statement guard around it swallows it and
// execution continues with the next statement.
type resumed struct {
	err error
}

func (e *resumed) Error() string { return e.err.Error() }
func (e *resumed) Unwrap() error { return e.err }

// throw hands err to the Err object and raises it as a script exception.
// A fault the Err object suppresses is raised as resumed.
func (r *Runtime) throw(err error) goja.Value {
	if r.errs.Fault(err) == nil {
		err = &resumed{err: err}
	}
	panic(r.vm.NewGoError(err))
}

// resumable reports whether a caught script exception is a suppressed
// fault.
func resumable(v goja.Value) bool {
	var res *resumed
	return errors.As(goError(v), &res)
}

// goError returns the Go error a thrown value carries, or nil.
func goError(v goja.Value) error {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	if inner := obj.Get("value"); inner != nil {
		if err, ok := inner.Export().(error); ok {
			return err
		}
	}
	return nil
}

// scriptError extracts the Go error carried by a script exception.
func scriptError(err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}
	if inner := goError(ex.Value()); inner != nil {
		return inner
	}
	return err
}

// arrayView exposes a vbs.Array to scripts. A multi-dimensional array is
// indexed one dimension at a time: a[i] on a two-dimensional array is a
// view with i fixed, so a[i][j] reaches the element.
type arrayView struct {
	r      *Runtime
	arr    *vbs.Array
	prefix []int
}

func (v *arrayView) dim() int { return len(v.prefix) + 1 }

func (v *arrayView) index(i int) []int {
	return append(append(make([]int, 0, v.dim()), v.prefix...), i)
}

func (v *arrayView) Len() int {
	ub, err := v.arr.UBound(v.dim())
	if err != nil {
		return 0
	}
	return ub + 1
}

func (v *arrayView) Get(i int) goja.Value {
	if v.dim() < v.arr.Dims() {
		if i < 0 || i >= v.Len() {
			return v.r.throw(vbs.NewFault(vbs.ErrSubscript, ""))
		}
		return v.r.vm.NewDynamicArray(&arrayView{r: v.r, arr: v.arr, prefix: v.index(i)})
	}
	val, err := v.arr.Get(v.index(i)...)
	if err != nil {
		return v.r.throw(err)
	}
	return v.r.toJS(val)
}

func (v *arrayView) Set(i int, val goja.Value) bool {
	if err := v.arr.Set(v.r.fromJS(val), v.index(i)...); err != nil {
		v.r.throw(err)
	}
	return true
}

// SetLen refuses: arrays change size through ReDim only.
func (v *arrayView) SetLen(int) bool { return false }
