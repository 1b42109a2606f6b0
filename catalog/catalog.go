// Package catalog defines the read-only name catalogs the resolver consults
// and provides two implementations: Static, loaded from TOML, and Objects,
// which inspects live Go values.
//
// Every lookup is case-insensitive and returns the canonical spelling.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Items resolves table element names and the properties of each element.
type Items interface {
	ResolveElementName(name string) (string, bool)
	ResolvePropertyName(element, prop string) (string, bool)
}

// Enums resolves enum names and their values.
type Enums interface {
	ResolveEnumName(name string) (string, bool)
	ResolveValueName(enum, value string) (string, bool)
}

// Names resolves the standard library and the global API. Entries that
// are objects may also resolve their own property names.
type Names interface {
	ResolveName(name string) (string, bool)
	ResolvePropertyName(name, prop string) (string, bool)
}

// Digester is implemented by catalogs able to fingerprint their contents.
// Compiled units depend on the catalogs they were resolved against, so
// caches mix the digest into their keys.
type Digester interface {
	Digest() string
}

// fold indexes names by their lower-case spelling.
type fold map[string]string

func newFold(names []string) fold {
	f := make(fold, len(names))
	for _, n := range names {
		f[strings.ToLower(n)] = n
	}
	return f
}

func (f fold) lookup(name string) (string, bool) {
	c, ok := f[strings.ToLower(name)]
	return c, ok
}

var digestMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	digestMode = em
}

// digest hashes the canonical CBOR encoding of v. Canonical mode sorts map
// keys, so equal contents always produce equal digests.
func digest(v any) string {
	data, err := digestMode.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
