// Package ast is the AST annotation layer (component C): every node
// carries a nullable resolved-type slot, set at most once by the
// checker. Grounded on tree/nodes.go's shape (one interface per
// syntactic category, a *Base embedding a marker method, one struct
// per node kind) but the node kinds are this language's grammar, not
// Go's: expressions, patterns, declarations and the module tree spec
// §2-3 describe.
//
// Parsing, lexing and name resolution are external collaborators
// (spec §1); this package only defines the shapes those collaborators
// are expected to produce and the slot the checker fills in.
package ast

import (
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// Node is the marker every AST node implements.
type Node interface {
	Pos() diag.Pos
}

type base struct {
	pos diag.Pos
}

func (b *base) Pos() diag.Pos { return b.pos }

// SetPos is used by whatever constructs the tree (the external parser,
// or a test fixture) to attach a source location.
func (b *base) SetPos(p diag.Pos) { b.pos = p }

// typeSlot is embedded by every Expr and Pattern. Resolve panics if
// called twice: a second check/infer of an already-resolved node is an
// internal bug (spec §3 invariant 2, §8 "single-assignment"), not a
// user diagnostic, mirroring the teacher's common.Assert.
type typeSlot struct {
	ty types.Type
}

func (s *typeSlot) Resolved() types.Type { return s.ty }

func (s *typeSlot) IsResolved() bool { return s.ty != nil }

func (s *typeSlot) Resolve(t types.Type) {
	common.Assert(s.ty == nil, "node type resolved twice")
	common.Assert(t != nil, "cannot resolve a node to a nil type")
	s.ty = t
}

// Expr is any syntactic construct infer/check assigns a Type to.
type Expr interface {
	Node
	exprNode()
	Resolved() types.Type
	IsResolved() bool
	Resolve(types.Type)
}

type exprBase struct {
	base
	typeSlot
}

func (*exprBase) exprNode() {}

// Pattern is any syntactic construct infer_ptrn/check_ptrn assigns a
// Type to (spec §4.4 "Patterns").
type Pattern interface {
	Node
	patternNode()
	Resolved() types.Type
	IsResolved() bool
	Resolve(types.Type)
}

type patternBase struct {
	base
	typeSlot
}

func (*patternBase) patternNode() {}

// Stmt is a block-level statement (spec §4.4 "Blocks").
type Stmt interface {
	Node
	stmtNode()
}

type stmtBase struct {
	base
}

func (*stmtBase) stmtNode() {}

// Decl is a module-level or nested declaration (spec §4.5).
type Decl interface {
	Node
	declNode()
	DeclIdent() common.Ident
}

type declBase struct {
	base
	Name common.Ident
}

func (*declBase) declNode() {}

func (d *declBase) DeclIdent() common.Ident { return d.Name }

// TypeExpr is a syntactic reference to a type, as written by the user,
// before the path resolver (package resolve) turns it into a
// types.Type. Only PathTypeExpr needs resolver help; the structural
// kinds below are built directly into a types.Type by the checker.
type TypeExpr interface {
	Node
	typeExprNode()
}

type typeExprBase struct {
	base
}

func (*typeExprBase) typeExprNode() {}
