// Package graph defines the identity types the hoisting engine is built
// around: package names, opaque version references, and the Locator/Ident
// split that lets two differently-virtualized instances of the same
// underlying package compare equal for correctness purposes.
package graph

import "strings"

// PackageName is a human-visible package name, e.g. "lodash" or "@scope/pkg".
type PackageName string

// Reference is an opaque version/resolution string. It may carry a "#"
// marker whose prefix is a virtual decoration (e.g. "virtual:abcd#npm:1.0.0")
// that must be stripped before two references are compared for identity.
type Reference string

// realReference strips any virtual decoration, returning the portion of
// the reference after the last "#". A reference with no "#" is already real.
func (r Reference) realReference() Reference {
	if idx := strings.LastIndex(string(r), "#"); idx != -1 {
		return Reference(r[idx+1:])
	}
	return r
}

// Locator uniquely identifies one package instance including any virtual
// decoration: two nodes with equal Locators are the same node.
type Locator struct {
	Name      PackageName
	Reference Reference
}

func (l Locator) String() string {
	return string(l.Name) + "@" + string(l.Reference)
}

// Ident identifies a package instance modulo virtualization: two nodes
// with equal Idents are interchangeable for correctness, even if their
// Locators (and therefore their References) differ.
type Ident struct {
	Name      PackageName
	Reference Reference
}

func (i Ident) String() string {
	return string(i.Name) + "@" + string(i.Reference)
}

// MakeIdent builds the Ident for a (name, reference) pair, stripping any
// virtual decoration from reference. The Locator built from the same pair
// retains the decoration; only the Ident does not.
func MakeIdent(name PackageName, reference Reference) Ident {
	return Ident{Name: name, Reference: reference.realReference()}
}
