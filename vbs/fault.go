// Package vbs is the runtime shim compiled scripts call into: the Err
// object, VBScript arrays and the standard library functions.
package vbs

import "fmt"

// Runtime error numbers raised by the shim.
const (
	ErrIllegalCall    = 5
	ErrOverflow       = 6
	ErrSubscript      = 9
	ErrFixedArray     = 10
	ErrDivisionByZero = 11
	ErrTypeMismatch   = 13
	ErrInvalidNull    = 94
	ErrObjectRequired = 424
	ErrArgumentCount  = 450
)

var descriptions = map[int]string{
	ErrIllegalCall:    "Invalid procedure call or argument",
	ErrOverflow:       "Overflow",
	ErrSubscript:      "Subscript out of range",
	ErrFixedArray:     "This array is fixed or temporarily locked",
	ErrDivisionByZero: "Division by zero",
	ErrTypeMismatch:   "Type mismatch",
	ErrInvalidNull:    "Invalid use of Null",
	ErrObjectRequired: "Object required",
	ErrArgumentCount:  "Wrong number of arguments or invalid property assignment",
}

// Fault is a structured runtime error.
type Fault struct {
	Number      int
	Description string
	Source      string
}

func (f *Fault) Error() string {
	if f.Source != "" {
		return fmt.Sprintf("%s: %s (%d)", f.Source, f.Description, f.Number)
	}
	return fmt.Sprintf("%s (%d)", f.Description, f.Number)
}

// NewFault returns the fault for number with its standard description.
func NewFault(number int, source string) *Fault {
	desc, ok := descriptions[number]
	if !ok {
		desc = "Unknown runtime error"
	}
	return &Fault{Number: number, Description: desc, Source: source}
}
