package ast

import "github.com/arborlang/sema/common"

// Module is a node in the module tree (spec §4.3's "Module type"):
// declarations plus a parent link for the `super` path marker. This
// replaces the teacher's source.Package/FileDef (an import-path-keyed,
// multi-file Go package graph) with the simpler tree this language's
// modules actually form — see DESIGN.md's "Dropped teacher packages".
type Module struct {
	declBase
	Parent   *Module
	Decls    []Decl
	Children map[common.Ident]*Module
}

func NewModule(name common.Ident, parent *Module) *Module {
	return &Module{
		declBase: declBase{Name: name},
		Parent:   parent,
		Children: map[common.Ident]*Module{},
	}
}

// Lookup finds a direct member declaration by name: either a child
// module or a Decl in Decls.
func (m *Module) Lookup(name common.Ident) (Decl, bool) {
	if child, ok := m.Children[name]; ok {
		return child, true
	}
	for _, d := range m.Decls {
		if d.DeclIdent() == name {
			return d, true
		}
	}
	return nil, false
}

// Super returns the parent module, or nil at the root.
func (m *Module) Super() *Module { return m.Parent }
