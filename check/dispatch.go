package check

import (
	"fmt"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// Check implements spec §4.4's check(expr, expected): the checking
// direction of bidirectional type checking, dispatching to a per-kind
// override where the expected type changes how a node's children are
// checked (a literal's defaulting, an if/match's branches, a block's
// trailing expression, a tuple/array literal's elementwise coercion),
// and otherwise falling back to infer-then-require-subtype.
func (s *Session) Check(e ast.Expr, expected types.Type) types.Type {
	if e.IsResolved() {
		return e.Resolved()
	}
	ty := s.checkDispatch(e, expected)
	if !e.IsResolved() {
		e.Resolve(ty)
	}
	return ty
}

func (s *Session) checkDispatch(e ast.Expr, expected types.Type) types.Type {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return s.checkLiteralExpr(e, expected)
	case *ast.IfExpr:
		return s.checkIfExpr(e, expected)
	case *ast.IfLetExpr:
		return s.checkIfLetExpr(e, expected)
	case *ast.MatchExpr:
		return s.checkMatchExpr(e, expected)
	case *ast.BlockExpr:
		return s.checkBlockExpr(e, expected)
	case *ast.TupleExpr:
		return s.checkTupleExpr(e, expected)
	case *ast.ArrayLitExpr:
		return s.checkArrayLitExpr(e, expected)
	default:
		return s.checkBySubtype(e, expected)
	}
}

// checkBySubtype is the default check rule: infer e plainly (deref-ing
// unless expected is itself a Reference, mirroring Coerce), and accept
// it if its type is a subtype of expected.
func (s *Session) checkBySubtype(e ast.Expr, expected types.Type) types.Type {
	ty := s.Infer(e)
	if _, isErr := ty.(*types.TypeErr); isErr {
		return ty
	}
	if _, isErr := expected.(*types.TypeErr); isErr {
		return expected
	}
	if _, isRef := expected.(*types.Reference); !isRef {
		if ref, ok := ty.(*types.Reference); ok {
			ty = ref.Pointee
		}
	}
	if types.Identical(ty, expected) || types.Subtype(ty, expected) {
		return expected
	}
	return s.errType(diag.CodeIncompatibleTypes, e.Pos(),
		fmt.Sprintf("type %s where %s expected", ty, expected))
}

// checkLiteralExpr implements spec §4.4's literal-defaulting rule under
// an expected type: an int/float/bool/char literal is accepted directly
// against a matching primitive, and a string literal is accepted
// against any array type its default null-terminated u8 array is a
// subtype of.
func (s *Session) checkLiteralExpr(e *ast.LiteralExpr, expected types.Type) types.Type {
	prim, isPrim := expected.(*types.Primitive)
	switch e.Kind {
	case ast.LitInt:
		if isPrim && (prim.Kind.IsInteger() || prim.Kind.IsFloat()) {
			return expected
		}
	case ast.LitFloat:
		if isPrim && prim.Kind.IsFloat() {
			return expected
		}
	case ast.LitBool:
		if isPrim && prim.Kind == types.Bool {
			return expected
		}
	case ast.LitChar:
		if isPrim && prim.Kind.IsInteger() {
			return expected
		}
	case ast.LitString:
		defaultTy := literalDefaultType(s, e)
		if types.Identical(defaultTy, expected) || types.Subtype(defaultTy, expected) {
			return expected
		}
	}
	return s.errType(diag.CodeIncompatibleTypes, e.Pos(),
		fmt.Sprintf("literal is not compatible with expected type %s", expected))
}

func (s *Session) checkIfExpr(e *ast.IfExpr, expected types.Type) types.Type {
	s.Check(e.Cond, s.Table.Primitive(types.Bool))
	blockScope := s.BeginBlockScope()
	blockScope.Check(e.Then, expected)
	if e.Else == nil {
		if !typeIsUnit(expected) {
			s.report(diag.CodeIncompatibleTypes, e.Pos(), "one-armed if requires unit context")
		}
		return expected
	}
	elseScope := s.BeginBlockScope()
	elseScope.Check(e.Else, expected)
	return expected
}

func (s *Session) checkIfLetExpr(e *ast.IfLetExpr, expected types.Type) types.Type {
	scrutTy := s.Deref(&e.Scrutinee)
	thenScope := s.BeginBlockScope()
	thenScope.InferPattern(e.Pattern, scrutTy)
	thenScope.Check(e.Then, expected)
	if e.Else == nil {
		if !typeIsUnit(expected) {
			s.report(diag.CodeIncompatibleTypes, e.Pos(), "one-armed if let requires unit context")
		}
		return expected
	}
	elseScope := s.BeginBlockScope()
	elseScope.Check(e.Else, expected)
	return expected
}

func (s *Session) checkMatchExpr(e *ast.MatchExpr, expected types.Type) types.Type {
	scrutTy := s.Deref(&e.Scrutinee)
	for i := range e.Arms {
		arm := &e.Arms[i]
		armScope := s.BeginBlockScope()
		armScope.InferPattern(arm.Pattern, scrutTy)
		if arm.Guard != nil {
			armScope.Check(arm.Guard, armScope.Table.Primitive(types.Bool))
		}
		armScope.Check(arm.Body, expected)
	}
	s.checkExhaustiveness(e, scrutTy)
	return expected
}

// checkBlockExpr mirrors inferBlockExpr, but the trailing expression is
// coerced against expected rather than inferred plainly; a forced-unit
// trailing (TrailingSemicolon, or no trailing at all) still derefs the
// trailing expression for diagnostics, and requires expected itself be
// unit.
func (s *Session) checkBlockExpr(e *ast.BlockExpr, expected types.Type) types.Type {
	blockScope := s.BeginBlockScope()
	blockScope.checkStmts(e.Stmts)

	if e.Trailing == nil || e.TrailingSemicolon {
		if e.Trailing != nil {
			blockScope.Deref(&e.Trailing)
		}
		if !typeIsUnit(expected) {
			s.report(diag.CodeIncompatibleTypes, e.Pos(),
				fmt.Sprintf("block has type unit, expected %s", expected))
		}
		return expected
	}
	blockScope.Coerce(&e.Trailing, expected)
	return expected
}

// checkTupleExpr/checkArrayLitExpr take a fast path matching expected's
// shape so that an untyped literal element defaults against the
// expected element type instead of its own bare default (spec §4.4's
// literal defaulting only kicks in when the expected type is known,
// which plain subtype-checking after inference cannot express — an
// inferred `i32` is not a Subtype of `i64`). Anything that does not
// match expected's shape falls back to infer-then-subtype, so a
// legitimately-subtyped tuple/array still succeeds.
func (s *Session) checkTupleExpr(e *ast.TupleExpr, expected types.Type) types.Type {
	tup, ok := expected.(*types.Tuple)
	if !ok || len(tup.Elems) != len(e.Elems) {
		return s.checkBySubtype(e, expected)
	}
	for i := range e.Elems {
		s.Coerce(&e.Elems[i], tup.Elems[i])
	}
	return expected
}

func (s *Session) checkArrayLitExpr(e *ast.ArrayLitExpr, expected types.Type) types.Type {
	arr, ok := expected.(*types.SizedArray)
	if !ok || uint64(len(e.Elems)) != arr.Size || arr.IsSIMD != e.IsSIMD {
		return s.checkBySubtype(e, expected)
	}
	for i := range e.Elems {
		s.Coerce(&e.Elems[i], arr.Elem)
	}
	return expected
}
