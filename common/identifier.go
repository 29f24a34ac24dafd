// Package common holds the small cross-cutting helpers shared by the
// type table, the AST layer, the path resolver, and the checker: names,
// generic maps, a hash-set wrapper, and the assert/recover helpers that
// keep internal-bug panics separate from user-facing diagnostics.
package common

// Ident is an interned-by-value identifier. Two Idents with the same
// Value are the same name; declaration identity (not name identity) is
// what distinguishes shadowed bindings, so Ident is deliberately a plain
// comparable value rather than a pointer.
type Ident struct {
	Value string
}

// Blank is the "_" binder: never defined, never looked up.
var Blank = Ident{Value: "_"}

func NewIdent(name string) Ident {
	return Ident{Value: name}
}

func (i Ident) String() string {
	return i.Value
}

func (i Ident) IsBlank() bool {
	return i.Value == "_"
}
