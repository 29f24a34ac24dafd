package ast

import (
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/types"
)

// TypeParamDecl is a declared type parameter `T` or `T: L..U`, bound by
// the enclosing FuncDecl/StructDecl/EnumDecl/AliasDecl (spec §4.5).
// ResolvedVar is filled in once, the first time the checker needs a
// types.TypeVar for this declaration, and is keyed by this struct's own
// pointer when calling types.Table.TypeVar.
type TypeParamDecl struct {
	declBase
	Lower TypeExpr // nil = unbounded (Bottom)
	Upper TypeExpr // nil = unbounded (Top)

	ResolvedVar *types.TypeVar
}

// FuncDecl is `fn name[TPs](param) -> ret = body`. Param is the one
// function parameter, already pattern-shaped so that destructuring
// parameters (spec grammar) fall out of the same pattern-checking code
// as `let`.
type FuncDecl struct {
	declBase
	typeSlot
	TypeParams []*TypeParamDecl
	Param      Pattern
	RetType    TypeExpr // nil if unannotated
	Body       Expr
	Filter     Expr // nil if absent; must check bool and pass filter validation (spec §4.7)
	Attrs      []Attribute
}

func (d *FuncDecl) TypeVars() []*types.TypeVar {
	vars := make([]*types.TypeVar, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if tp.ResolvedVar != nil {
			vars = append(vars, tp.ResolvedVar)
		}
	}
	return vars
}

// FieldDecl is one struct field or tuple-like struct member.
type FieldDecl struct {
	declBase
	Type TypeExpr
}

// StructDecl is `struct Name[TPs] { fields... }`, or a tuple-like
// struct when IsTupleLit.
type StructDecl struct {
	declBase
	typeSlot
	TypeParams []*TypeParamDecl
	Fields     []*FieldDecl
	IsTupleLit bool
	Attrs      []Attribute
}

func (d *StructDecl) TypeParamsResolved() []*types.TypeVar {
	vars := make([]*types.TypeVar, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if tp.ResolvedVar != nil {
			vars = append(vars, tp.ResolvedVar)
		}
	}
	return vars
}

// EnumOptionDecl is one option of an EnumDecl: unit (no fields), tuple
// (positional Fields, the first one unnamed, named "_", or named by its
// index such as "_0"), or record (named Fields).
type EnumOptionDecl struct {
	declBase
	Fields []*FieldDecl
}

type EnumDecl struct {
	declBase
	typeSlot
	TypeParams []*TypeParamDecl
	Options    []*EnumOptionDecl
	Attrs      []Attribute
}

func (d *EnumDecl) TypeParamsResolved() []*types.TypeVar {
	vars := make([]*types.TypeVar, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if tp.ResolvedVar != nil {
			vars = append(vars, tp.ResolvedVar)
		}
	}
	return vars
}

// AliasDecl is `type A[TPs] = B` (spec §4.5: "parameterized aliases
// are substituted on every application").
type AliasDecl struct {
	declBase
	typeSlot
	TypeParams []*TypeParamDecl
	Body       TypeExpr
}

func (d *AliasDecl) TypeParamsResolved() []*types.TypeVar {
	vars := make([]*types.TypeVar, 0, len(d.TypeParams))
	for _, tp := range d.TypeParams {
		if tp.ResolvedVar != nil {
			vars = append(vars, tp.ResolvedVar)
		}
	}
	return vars
}

// StaticDecl is `static x: T = init;`. Init must be a compile-time
// constant (spec §4.5); AliasGroup, when non-empty, names the other
// static members that must unify with the chosen type (SPEC_FULL §9,
// supplemented from original_source/'s static-initializer groups).
type StaticDecl struct {
	declBase
	typeSlot
	Type       TypeExpr
	Init       Expr
	AliasGroup []*StaticDecl
	Attrs      []Attribute
}

// UseDecl is `use p;`; p must resolve to a module type (spec §4.5).
type UseDecl struct {
	declBase
	Path *Path
}

// BuiltinTypeDecl is the StartDecl name resolution attaches to a bare
// primitive type name (`i32`, `u64`, `bool`, ...): there is no
// declaration site in the source for these, so the external name
// resolver (spec §1) is expected to hand the path resolver one of these
// instead of a struct/enum/alias declaration. Kind carries the
// classification directly; TypeOfDecl reads it without any check pass.
type BuiltinTypeDecl struct {
	declBase
	Kind types.PrimitiveKind
}

func NewBuiltinTypeDecl(kind types.PrimitiveKind) *BuiltinTypeDecl {
	return &BuiltinTypeDecl{declBase: declBase{Name: common.NewIdent(kind.String())}, Kind: kind}
}

// Attribute is a named attribute with string-valued arguments, e.g.
// `#[import(cc: "C", name: "memcpy")]` or `#[export(name: "main")]`
// (SPEC_FULL §9, grounded on original_source/check.cpp's
// NamedAttr::check).
type Attribute struct {
	Name common.Ident
	Args map[string]string
}
