package catalog

import (
	"reflect"
	"sort"
	"strings"
)

// Objects resolves names against live Go values. Names are the map keys;
// the properties of an entry are the exported methods and fields of its
// value, or the keys of a map[string]any value.
//
// Objects satisfies Items, Enums and Names, so the same map of host
// objects can back any namespace.
type Objects map[string]any

func (o Objects) ResolveName(name string) (string, bool) {
	if _, ok := o[name]; ok {
		return name, true
	}
	// keys differing only in case resolve to the first in sorted order
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

func (o Objects) ResolvePropertyName(name, prop string) (string, bool) {
	v, ok := o[name]
	if !ok {
		return "", false
	}
	for _, p := range Properties(v) {
		if strings.EqualFold(p, prop) {
			return p, true
		}
	}
	return "", false
}

func (o Objects) ResolveElementName(name string) (string, bool) { return o.ResolveName(name) }
func (o Objects) ResolveEnumName(name string) (string, bool)    { return o.ResolveName(name) }

func (o Objects) ResolveValueName(enum, value string) (string, bool) {
	return o.ResolvePropertyName(enum, value)
}

// Digest fingerprints the entry names and their property names.
func (o Objects) Digest() string {
	shape := make(map[string][]string, len(o))
	for k, v := range o {
		shape[k] = Properties(v)
	}
	return digest(shape)
}

// Properties lists the property names v exposes, sorted.
func Properties(v any) []string {
	var out []string
	if m, ok := v.(map[string]any); ok {
		for k := range m {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		out = append(out, rt.Method(i).Name)
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() == reflect.Struct {
		for i := 0; i < rt.NumField(); i++ {
			if f := rt.Field(i); f.IsExported() && !f.Anonymous {
				out = append(out, f.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}
