package vbs

import "fmt"

// Array is a VBScript array: one or more dimensions, each indexed from 0
// to its upper bound. Elements are stored row-major and start out Empty
// (nil). A fixed array, created by Dim with bounds, cannot be resized.
type Array struct {
	bounds []int
	values []any
	fixed  bool
}

// NewArray returns a fixed array with the given upper bounds. With no
// bounds it returns an unallocated dynamic array, as Dim a() does.
func NewArray(bounds ...int) (*Array, error) {
	if len(bounds) == 0 {
		return &Array{}, nil
	}
	a := &Array{fixed: true}
	if err := a.alloc(bounds); err != nil {
		return nil, err
	}
	return a, nil
}

// NewDynamicArray returns a resizable array with the given upper bounds.
func NewDynamicArray(bounds ...int) (*Array, error) {
	a := &Array{}
	if len(bounds) == 0 {
		return a, nil
	}
	if err := a.alloc(bounds); err != nil {
		return nil, err
	}
	return a, nil
}

// ArrayOf returns a one-dimensional dynamic array holding values.
func ArrayOf(values ...any) *Array {
	v := make([]any, len(values))
	copy(v, values)
	return &Array{bounds: []int{len(values) - 1}, values: v}
}

func (a *Array) alloc(bounds []int) error {
	size := 1
	for _, b := range bounds {
		if b < -1 {
			return NewFault(ErrSubscript, "")
		}
		size *= b + 1
	}
	a.bounds = append([]int(nil), bounds...)
	a.values = make([]any, size)
	return nil
}

// Dims is the number of dimensions, 0 for an unallocated array.
func (a *Array) Dims() int { return len(a.bounds) }

// Fixed reports whether the array was declared with bounds.
func (a *Array) Fixed() bool { return a.fixed }

// Len is the total number of elements.
func (a *Array) Len() int { return len(a.values) }

// UBound returns the upper bound of dimension dim, counted from 1.
func (a *Array) UBound(dim int) (int, error) {
	if dim < 1 || dim > len(a.bounds) {
		return 0, NewFault(ErrSubscript, "UBound")
	}
	return a.bounds[dim-1], nil
}

func (a *Array) offset(idx []int) (int, error) {
	if len(idx) != len(a.bounds) {
		return 0, NewFault(ErrSubscript, "")
	}
	off := 0
	for i, n := range idx {
		if n < 0 || n > a.bounds[i] {
			return 0, NewFault(ErrSubscript, "")
		}
		off = off*(a.bounds[i]+1) + n
	}
	return off, nil
}

// Get returns the element at idx.
func (a *Array) Get(idx ...int) (any, error) {
	off, err := a.offset(idx)
	if err != nil {
		return nil, err
	}
	return a.values[off], nil
}

// Set stores v at idx.
func (a *Array) Set(v any, idx ...int) error {
	off, err := a.offset(idx)
	if err != nil {
		return err
	}
	a.values[off] = v
	return nil
}

// Values returns a copy of the elements in storage order.
func (a *Array) Values() []any {
	return append([]any(nil), a.values...)
}

// Resize reallocates the array with new upper bounds. Without preserve all
// elements are reset. With preserve only the last dimension may change and
// the elements that still fit keep their values.
func (a *Array) Resize(preserve bool, bounds ...int) error {
	if a.fixed {
		return NewFault(ErrFixedArray, "ReDim")
	}
	if len(bounds) == 0 {
		return NewFault(ErrSubscript, "ReDim")
	}
	if !preserve || len(a.bounds) == 0 {
		return a.alloc(bounds)
	}
	last := len(bounds) - 1
	if len(bounds) != len(a.bounds) {
		return NewFault(ErrSubscript, "ReDim")
	}
	for i := 0; i < last; i++ {
		if bounds[i] != a.bounds[i] {
			return NewFault(ErrSubscript, "ReDim")
		}
	}
	old, oldWidth := a.values, a.bounds[last]+1
	if err := a.alloc(bounds); err != nil {
		return err
	}
	width := bounds[last] + 1
	keep := min(width, oldWidth)
	for row := 0; row*oldWidth < len(old); row++ {
		copy(a.values[row*width:row*width+keep], old[row*oldWidth:row*oldWidth+keep])
	}
	return nil
}

// Erase empties a fixed array in place and deallocates a dynamic one.
func (a *Array) Erase() {
	if a.fixed {
		clear(a.values)
		return
	}
	a.bounds, a.values = nil, nil
}

func (a *Array) String() string {
	return fmt.Sprintf("Array%v", a.bounds)
}
