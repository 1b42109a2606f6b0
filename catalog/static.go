package catalog

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// Static is an in-memory catalog set, typically loaded from a TOML file:
//
//	[items]
//	BallRelease = ["CreateBall", "Kick"]
//
//	[enums.ImageAlignment]
//	ImageAlignWorld = 0
//	ImageAlignTopLeft = 1
//
//	[global]
//	PlaySound = []
//	GetTextFile = []
type Static struct {
	Elements   map[string][]string         `toml:"items"`
	EnumValues map[string]map[string]int64 `toml:"enums"`
	Globals    map[string][]string         `toml:"global"`

	items   fold
	props   map[string]fold
	enums   fold
	values  map[string]fold
	globals fold
	gprops  map[string]fold
}

// NewStatic builds a Static from the given maps. Nil maps are allowed.
func NewStatic(elements map[string][]string, enums map[string]map[string]int64, globals map[string][]string) *Static {
	s := &Static{Elements: elements, EnumValues: enums, Globals: globals}
	s.index()
	return s
}

// Load parses a TOML catalog.
func Load(data []byte) (*Static, error) {
	var s Static
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	s.index()
	return &s, nil
}

// LoadFile reads and parses a TOML catalog file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Static) index() {
	s.items, s.props = indexNested(s.Elements)
	s.globals, s.gprops = indexNested(s.Globals)

	s.enums = newFold(keys(s.EnumValues))
	s.values = make(map[string]fold, len(s.EnumValues))
	for name, values := range s.EnumValues {
		s.values[name] = newFold(keys(values))
	}
}

func indexNested(m map[string][]string) (fold, map[string]fold) {
	props := make(map[string]fold, len(m))
	for name, list := range m {
		props[name] = newFold(list)
	}
	return newFold(keys(m)), props
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Items returns the element catalog view.
func (s *Static) Items() Items { return staticItems{s} }

// Enums returns the enum catalog view.
func (s *Static) Enums() Enums { return staticEnums{s} }

// Global returns the global API catalog view.
func (s *Static) Global() Names { return staticGlobal{s} }

// Digest fingerprints the whole catalog set.
func (s *Static) Digest() string {
	return digest(map[string]any{
		"items":  s.Elements,
		"enums":  s.EnumValues,
		"global": s.Globals,
	})
}

type staticItems struct{ s *Static }

func (v staticItems) ResolveElementName(name string) (string, bool) { return v.s.items.lookup(name) }

func (v staticItems) ResolvePropertyName(element, prop string) (string, bool) {
	return v.s.props[element].lookup(prop)
}

func (v staticItems) Digest() string { return digest(v.s.Elements) }

type staticEnums struct{ s *Static }

func (v staticEnums) ResolveEnumName(name string) (string, bool) { return v.s.enums.lookup(name) }

func (v staticEnums) ResolveValueName(enum, value string) (string, bool) {
	return v.s.values[enum].lookup(value)
}

func (v staticEnums) Digest() string { return digest(v.s.EnumValues) }

type staticGlobal struct{ s *Static }

func (v staticGlobal) ResolveName(name string) (string, bool) { return v.s.globals.lookup(name) }

func (v staticGlobal) ResolvePropertyName(name, prop string) (string, bool) {
	return v.s.gprops[name].lookup(prop)
}

func (v staticGlobal) Digest() string { return digest(v.s.Globals) }
