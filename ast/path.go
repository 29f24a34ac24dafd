package ast

import "github.com/arborlang/sema/common"

// PathElem is one segment of a dotted/double-colon path (spec §4.3):
// a name, an optional explicit type-argument list, and whether it is
// the `super` marker shifting the walk to the parent module.
type PathElem struct {
	Name     common.Ident
	TypeArgs []TypeExpr
	IsSuper  bool
}

// Path is a sequence of PathElems with a resolver-supplied start
// declaration. StartDecl is opaque to this package (produced by name
// resolution, an external collaborator per spec §1); package resolve
// knows how to use it.
type Path struct {
	exprBase
	Elems     []PathElem
	StartDecl any
}

// PathTypeExpr is a type written as a path, e.g. `Option[u64]` or
// `mymodule::Point`. Like ast.Path, StartDecl is supplied by name
// resolution (spec §6: "each Path already has a start_decl pointer") —
// the grammar does not distinguish a type-position path from a
// value-position one structurally, only valueExpected at resolve time
// does.
type PathTypeExpr struct {
	typeExprBase
	Elems     []PathElem
	StartDecl any
}

// TupleTypeExpr is `(A, B, C)` syntax; zero elements is unit.
type TupleTypeExpr struct {
	typeExprBase
	Elems []TypeExpr
}

// SizedArrayTypeExpr is `[T * N]`, or `<T * N>` when IsSIMD.
type SizedArrayTypeExpr struct {
	typeExprBase
	Elem   TypeExpr
	Size   uint64
	IsSIMD bool
}

// UnsizedArrayTypeExpr is `[T]`, legal only behind PointerTypeExpr.
type UnsizedArrayTypeExpr struct {
	typeExprBase
	Elem TypeExpr
}

// PointerTypeExpr is `ptr T` / `ptr mut T`, optionally address-space
// qualified.
type PointerTypeExpr struct {
	typeExprBase
	Pointee   TypeExpr
	IsMut     bool
	AddrSpace string
}

// FunctionTypeExpr is `fn A -> B`.
type FunctionTypeExpr struct {
	typeExprBase
	Dom   TypeExpr
	Codom TypeExpr
}

// ImplicitParamTypeExpr is `implicit T`, surface syntax for
// types.ImplicitParam.
type ImplicitParamTypeExpr struct {
	typeExprBase
	Underlying TypeExpr
}
