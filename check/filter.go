package check

import (
	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// checkFuncFilter checks a function's optional `filter` guard (spec
// §4.7): it must resolve to bool like any other expression, and its
// shape must pass CheckFilterExpr's purity validation so that it stays
// safe to re-evaluate speculatively. Grounded on original_source's
// Filter::check, which runs both steps together rather than splitting
// them across the caller.
func (s *Session) checkFuncFilter(filter ast.Expr) {
	if filter == nil {
		return
	}
	s.Check(filter, s.Table.Primitive(types.Bool))
	s.CheckFilterExpr(filter)
}

// CheckFilterExpr implements spec §4.7's filter-expression purity
// validation: a filter guard may only read locals, dereference
// pointers, do arithmetic/comparison, project fields, and index arrays
// — it may call nothing and may not observe a mutable reference,
// keeping it safe to re-evaluate speculatively. Grounded on
// original_source/check.cpp's filter-expression pass, which walks the
// same surface grammar for the same reason.
func (s *Session) CheckFilterExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
	case *ast.Path:
		s.checkFilterPath(e)
	case *ast.UnaryExpr:
		s.CheckFilterExpr(e.Operand)
	case *ast.DerefExpr:
		s.CheckFilterExpr(e.Operand)
	case *ast.AddressExpr:
		s.CheckFilterExpr(e.Operand)
	case *ast.FieldExpr:
		s.CheckFilterExpr(e.Base)
	case *ast.PositionalExpr:
		s.CheckFilterExpr(e.Base)
	case *ast.IndexExpr:
		s.CheckFilterExpr(e.Base)
		s.CheckFilterExpr(e.Index)
	case *ast.TupleExpr:
		for _, elem := range e.Elems {
			s.CheckFilterExpr(elem)
		}
	case *ast.BinaryExpr:
		s.checkFilterBinaryExpr(e)
	case *ast.CallExpr:
		s.report(diag.CodeIncompatibleContext, e.Pos(),
			"filter expressions may only call array indexing, not functions")
	default:
		s.report(diag.CodeIncompatibleContext, e.Pos(), "expression is not allowed in a filter")
	}
}

func (s *Session) checkFilterBinaryExpr(e *ast.BinaryExpr) {
	switch e.Op {
	case ast.OpAssign:
		s.report(diag.CodeIncompatibleContext, e.Pos(), "assignment is not allowed in a filter")
		return
	case ast.OpLogAnd:
		s.Sink.Report(diag.NewError(diag.CodeIncompatibleContext, e.Pos(),
			"short-circuit && is not allowed in a filter").
			WithFixIt("use & instead", "&"))
		return
	case ast.OpLogOr:
		s.Sink.Report(diag.NewError(diag.CodeIncompatibleContext, e.Pos(),
			"short-circuit || is not allowed in a filter").
			WithFixIt("use | instead", "|"))
		return
	}
	s.CheckFilterExpr(e.Left)
	s.CheckFilterExpr(e.Right)
}

// checkFilterPath requires that a bare-name path does not resolve to a
// mutable reference, since re-evaluating a filter speculatively must
// never observe a write in progress.
func (s *Session) checkFilterPath(p *ast.Path) {
	ty, ok := s.lookupLocalPath(p)
	if !ok {
		return
	}
	if ref, isRef := ty.(*types.Reference); isRef && ref.IsMut {
		s.report(diag.CodeIncompatibleContext, p.Pos(), "filter expressions may not observe a mutable reference")
	}
}
