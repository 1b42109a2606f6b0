package vbs

import (
	"errors"
	"sync"
)

// ErrorMode is the error handling mode selected by On Error.
type ErrorMode int

const (
	// Throwing propagates faults to the caller. It is the default.
	Throwing ErrorMode = iota
	// Suppressed records faults and continues (On Error Resume Next).
	Suppressed
)

func (m ErrorMode) String() string {
	if m == Suppressed {
		return "Suppressed"
	}
	return "Throwing"
}

// ErrState is the Err object: the error handling mode and the last
// recorded fault. The zero value is ready to use.
type ErrState struct {
	mu   sync.Mutex
	mode ErrorMode
	last Fault
}

// Mode returns the current error handling mode.
func (e *ErrState) Mode() ErrorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// OnErrorResumeNext switches to Suppressed and clears the last fault.
func (e *ErrState) OnErrorResumeNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = Suppressed
	e.last = Fault{}
}

// OnErrorGoto0 switches back to Throwing and clears the last fault.
func (e *ErrState) OnErrorGoto0() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = Throwing
	e.last = Fault{}
}

// Fault records err and returns nil when suppressed, or returns err when
// throwing. Errors that are not a *Fault are host errors; they are always
// returned unchanged.
func (e *ErrState) Fault(err error) error {
	if err == nil {
		return nil
	}
	var f *Fault
	if !errors.As(err, &f) {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = *f
	if e.mode == Suppressed {
		return nil
	}
	return f
}

// Raise raises a user-defined fault. An empty description takes the
// standard text for number.
func (e *ErrState) Raise(number int, source, description string) error {
	f := NewFault(number, source)
	if description != "" {
		f.Description = description
	}
	return e.Fault(f)
}

// Clear resets the last fault.
func (e *ErrState) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = Fault{}
}

// Number is the last fault number, 0 when none is recorded.
func (e *ErrState) Number() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last.Number
}

// Description is the last fault description.
func (e *ErrState) Description() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last.Description
}

// Source is the last fault source.
func (e *ErrState) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last.Source
}

// ErrProperties are the members of the Err object visible to scripts.
var ErrProperties = []string{
	"Number", "Description", "Source", "Raise", "Clear",
	"OnErrorResumeNext", "OnErrorGoto0",
}
