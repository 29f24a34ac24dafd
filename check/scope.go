package check

import (
	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/types"
)

// ScopeKind mirrors the teacher's check/checker_scope.go, trimmed to
// the scopes this checker actually forks: a module, a declaration's
// type-parameter scope, a function body, and a block.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeType
	ScopeFunction
	ScopeBlock
)

// VarScope is a parent-chained value-name scope, grounded directly on
// the teacher's VarContext (Fork/Lookup/Def).
type VarScope struct {
	Kind   ScopeKind
	Parent *VarScope
	Vars   map[common.Ident]types.Type
}

func NewVarScope() *VarScope {
	return &VarScope{Vars: map[common.Ident]types.Type{}}
}

func (s *VarScope) Fork(kind ScopeKind) *VarScope {
	return &VarScope{Kind: kind, Parent: s, Vars: map[common.Ident]types.Type{}}
}

func (s *VarScope) Lookup(name common.Ident) (types.Type, bool) {
	if ty, ok := s.Vars[name]; ok {
		return ty, true
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil, false
}

// Def binds name at ty. Redefining a name already bound in this exact
// scope is a bug in whoever drives declaration checking, not a user
// error (shadowing across scopes is legal and goes through Fork).
func (s *VarScope) Def(name common.Ident, ty types.Type) {
	if name.IsBlank() {
		return
	}
	common.Assert(!s.hasLocal(name), "redefined in the same scope: "+name.String())
	s.Vars[name] = ty
}

func (s *VarScope) hasLocal(name common.Ident) bool {
	_, ok := s.Vars[name]
	return ok
}

// TypeScope is the analogous parent-chained scope for type-level
// bindings (type parameters currently in view), grounded on the
// teacher's TypeContext.
type TypeScope struct {
	Parent *TypeScope
	Vars   map[common.Ident]*types.TypeVar
}

func (s *TypeScope) Fork() *TypeScope {
	return &TypeScope{Parent: s, Vars: map[common.Ident]*types.TypeVar{}}
}

func (s *TypeScope) Lookup(name common.Ident) (*types.TypeVar, bool) {
	if s == nil {
		return nil, false
	}
	if v, ok := s.Vars[name]; ok {
		return v, true
	}
	return s.Parent.Lookup(name)
}

func (s *TypeScope) Def(name common.Ident, v *types.TypeVar) {
	s.Vars[name] = v
}

// ModuleScope additionally remembers the ast.Module being checked, so
// that `use`/`super` resolution and module-typed path elements can walk
// the declaration tree (spec §4.3's Module case, dispatched through the
// resolve.ModuleMember callback that Session implements over
// ast.Module.Lookup + TypeOfDecl — see decls.go). It doubles as a
// types.NominalDecl and a resolve.ModuleParent, so that
// table.Module(scope) and resolve's superOf work without types or
// resolve ever importing ast.
type ModuleScope struct {
	Module *ast.Module
	Parent *ModuleScope
	table  *types.Table
}

func NewModuleScope(table *types.Table, mod *ast.Module, parent *ModuleScope) *ModuleScope {
	return &ModuleScope{Module: mod, Parent: parent, table: table}
}

// Super implements resolve.ModuleParent.
func (m *ModuleScope) Super() types.Type {
	if m.Parent == nil {
		return nil
	}
	return m.table.Module(m.Parent)
}

// DeclIdent implements types.NominalDecl.
func (m *ModuleScope) DeclIdent() common.Ident { return m.Module.DeclIdent() }

// Type returns this scope's own *types.Module.
func (m *ModuleScope) Type() types.Type { return m.table.Module(m) }
