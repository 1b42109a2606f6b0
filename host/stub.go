package host

import (
	"sort"
	"strings"

	"github.com/dop251/goja"

	"github.com/vpdb/vbsc/catalog"
)

// Stub stands in for a host object during dry runs. Assigned properties
// read back; any other property is a function that logs its calls.
type Stub struct {
	r     *Runtime
	name  string
	props map[string]goja.Value
}

// WithStubs exposes a catalog for a dry run: elements and global objects
// become stubs, other global names logging functions, and enums their
// declared values.
func WithStubs(cat *catalog.Static) Option {
	return func(r *Runtime) {
		r.items = make(map[string]any, len(cat.Elements))
		for name := range cat.Elements {
			r.items[name] = r.NewStub(name)
		}
		r.enums = make(map[string]any, len(cat.EnumValues))
		for name, values := range cat.EnumValues {
			m := make(map[string]any, len(values))
			for k, v := range values {
				m[k] = v
			}
			r.enums[name] = m
		}
		r.global = make(map[string]any, len(cat.Globals))
		for name, props := range cat.Globals {
			if len(props) > 0 {
				r.global[name] = r.NewStub(name)
			} else {
				r.global[name] = r.StubFunc(name)
			}
		}
	}
}

// NewStub returns a script object named name backed by a Stub.
func (r *Runtime) NewStub(name string) goja.Value {
	return r.vm.NewDynamicObject(&Stub{r: r, name: name, props: map[string]goja.Value{}})
}

// StubFunc returns a function that logs its calls under name.
func (r *Runtime) StubFunc(name string) goja.Value {
	return r.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.String()
		}
		log.Infof("%s(%s)", name, strings.Join(args, ", "))
		return goja.Undefined()
	})
}

func (s *Stub) Get(key string) goja.Value {
	if v, ok := s.props[key]; ok {
		return v
	}
	return s.r.StubFunc(s.name + "." + key)
}

func (s *Stub) Set(key string, val goja.Value) bool {
	log.Debugf("%s.%s = %s", s.name, key, val)
	s.props[key] = val
	return true
}

func (s *Stub) Has(key string) bool {
	_, ok := s.props[key]
	return ok
}

func (s *Stub) Delete(key string) bool {
	delete(s.props, key)
	return true
}

func (s *Stub) Keys() []string {
	keys := make([]string, 0, len(s.props))
	for k := range s.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
