package check

import (
	"fmt"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// Deref implements spec §4.4's deref(expr): infer expr, and if the
// result is a Reference, wrap expr in an implicit-cast node carrying
// the pointee type. slot is the field on the parent node holding expr,
// so that the wrap can replace it in place (spec §3 "in-place
// replacement of child pointers to insert implicit-cast ... nodes").
func (s *Session) Deref(slot *ast.Expr) types.Type {
	ty := s.Infer(*slot)
	return s.derefType(slot, ty)
}

func (s *Session) derefType(slot *ast.Expr, ty types.Type) types.Type {
	ref, ok := ty.(*types.Reference)
	if !ok {
		return ty
	}
	cast := &ast.ImplicitCastExpr{Inner: *slot}
	cast.Resolve(ref.Pointee)
	*slot = cast
	return ref.Pointee
}

// isUnitTupleExpr reports whether e syntactically is the unit literal
// `()`, the trigger for Coerce rule 1's implicit-param summon.
func isUnitTupleExpr(e ast.Expr) bool {
	t, ok := e.(*ast.TupleExpr)
	return ok && len(t.Elems) == 0
}

// Coerce implements spec §4.4's coerce(expr, expected).
func (s *Session) Coerce(slot *ast.Expr, expected types.Type) types.Type {
	if ip, ok := expected.(*types.ImplicitParam); ok && isUnitTupleExpr(*slot) {
		summon := &ast.SummonExpr{}
		summon.Resolve(ip.Underlying)
		*slot = summon
		return ip.Underlying
	}

	if tup, ok := expected.(*types.Tuple); ok && tupleHasImplicitParam(tup) {
		return s.coerceImplicitTuple(slot, tup)
	}

	// An untyped literal (see isUntypedLiteral) is checked against a
	// primitive expected type rather than inferred to its default first.
	if _, isPrim := expected.(*types.Primitive); isPrim && isUntypedLiteral(*slot) && !(*slot).IsResolved() {
		return s.Check(*slot, expected)
	}

	ty := s.Infer(*slot)
	if _, isErr := ty.(*types.TypeErr); isErr {
		return ty
	}
	if _, isErr := expected.(*types.TypeErr); isErr {
		return expected
	}
	if _, isRef := expected.(*types.Reference); !isRef {
		ty = s.derefType(slot, ty)
	}

	if types.Identical(ty, expected) {
		return ty
	}
	if types.Subtype(ty, expected) {
		cast := &ast.ImplicitCastExpr{Inner: *slot}
		cast.Resolve(expected)
		*slot = cast
		return expected
	}

	return s.errType(diag.CodeIncompatibleTypes, (*slot).Pos(),
		fmt.Sprintf("type %s where %s expected", ty, expected))
}

func tupleHasImplicitParam(t *types.Tuple) bool {
	for _, e := range t.Elems {
		if _, ok := e.(*types.ImplicitParam); ok {
			return true
		}
	}
	return false
}

// coerceImplicitTuple implements spec §4.4 Coerce rule 2: rebuild expr
// as a tuple by zipping given arguments to positions, auto-summoning
// missing implicit positions. Positions not backed by an implicit
// param and not supplied by the caller are a shortfall, diagnosed.
func (s *Session) coerceImplicitTuple(slot *ast.Expr, expected *types.Tuple) types.Type {
	given, _ := (*slot).(*ast.TupleExpr)
	var givenElems []ast.Expr
	if given != nil {
		givenElems = given.Elems
	} else if !isUnitTupleExpr(*slot) {
		givenElems = []ast.Expr{*slot}
	}

	rebuilt := make([]ast.Expr, len(expected.Elems))
	gi := 0
	for i, elemTy := range expected.Elems {
		if ip, ok := elemTy.(*types.ImplicitParam); ok && gi >= len(givenElems) {
			summon := &ast.SummonExpr{}
			summon.Resolve(ip.Underlying)
			rebuilt[i] = summon
			continue
		}
		if gi >= len(givenElems) {
			s.report(diag.CodeCannotInfer, (*slot).Pos(), "not enough arguments to fill implicit-parameter tuple")
			rebuilt[i] = &ast.TupleExpr{}
			rebuilt[i].Resolve(s.Table.Err())
			continue
		}
		rebuilt[i] = givenElems[gi]
		gi++
		s.Coerce(&rebuilt[i], elemTy)
	}

	tuple := &ast.TupleExpr{Elems: rebuilt}
	tuple.Resolve(expected)
	*slot = tuple
	return expected
}

// TryCoerce implements spec §4.4's try-coerce: literals still default
// in context even though the expected type may carry unresolved type
// variables. No call site in this package uses it; inferCallExpr derefs
// a generic call's argument before resolving the callee, so the
// argument is not try-coerced against the callee's domain.
func (s *Session) TryCoerce(slot *ast.Expr, expected types.Type) types.Type {
	if tup, ok := expected.(*types.Tuple); ok {
		if exprTup, ok := (*slot).(*ast.TupleExpr); ok && len(exprTup.Elems) == len(tup.Elems) {
			elems := make([]types.Type, len(exprTup.Elems))
			for i := range exprTup.Elems {
				elems[i] = s.TryCoerce(&exprTup.Elems[i], tup.Elems[i])
			}
			ty := s.Table.Tuple(elems)
			exprTup.Resolve(ty)
			return ty
		}
	}
	if len(types.FreeVars(expected)) == 0 {
		return s.Coerce(slot, expected)
	}
	return s.Deref(slot)
}

// JoinBranches implements spec §4.4's "Join on branches": deref each
// branch and join their types, reporting incompatible-types at the
// second branch on failure.
func (s *Session) JoinBranches(first, second *ast.Expr) types.Type {
	t1 := s.Deref(first)
	t2 := s.Deref(second)
	joined := types.Join(t1, t2)
	if types.IsTop(joined) {
		return s.errType(diag.CodeIncompatibleTypes, (*second).Pos(),
			fmt.Sprintf("type %s incompatible with branch type %s", t2, t1))
	}
	return joined
}
