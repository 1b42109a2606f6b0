package vbs

import (
	"sort"
	"strings"
	"sync"

	"github.com/vpdb/vbsc/catalog"
)

// Impl implements a standard library function. Optional arguments the
// caller omitted are absent from args, not nil.
type Impl func(args []any) (any, error)

// Func describes a standard library function.
type Func struct {
	// Name is the canonical spelling scripts are re-cased to.
	Name string
	// MinArgs and MaxArgs bound the argument count.
	MinArgs, MaxArgs int
	Impl             Impl
}

// Call checks the argument count and runs the function. Faults carry the
// function name as their source.
func (f *Func) Call(args ...any) (any, error) {
	if len(args) < f.MinArgs || len(args) > f.MaxArgs {
		return nil, NewFault(ErrArgumentCount, f.Name)
	}
	v, err := f.Impl(args)
	if fault, ok := err.(*Fault); ok && fault.Source == "" {
		fault.Source = f.Name
	}
	return v, err
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Func)
)

// Register adds f to the standard library, replacing any function with
// the same name.
func Register(f *Func) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(f.Name)] = f
}

// Lookup returns the function registered under name, ignoring case.
func Lookup(name string) (*Func, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Names returns the canonical names of all registered functions, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, f := range registry {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// ErrObject is the name of the Err object in the standard library.
const ErrObject = "Err"

// Catalog returns the standard library as a name catalog: every
// registered function plus the Err object and its members.
func Catalog() catalog.Names {
	globals := map[string][]string{ErrObject: ErrProperties}
	for _, name := range Names() {
		globals[name] = nil
	}
	return catalog.NewStatic(nil, nil, globals).Global()
}

func register(name string, minArgs, maxArgs int, impl Impl) {
	Register(&Func{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Impl: impl})
}

// arg returns args[i], or def when the caller omitted it.
func arg(args []any, i int, def any) any {
	if i < len(args) && args[i] != nil {
		return args[i]
	}
	return def
}
