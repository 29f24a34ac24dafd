package check

import (
	"fmt"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// opClass is the accepted-primitive-set table spec §4.4 describes
// ("each operator prescribes a subset of primitive (and optionally
// SIMD) element types it accepts"), grounded on the teacher's
// check/builtin.go "one Def* call per builtin" shape, repurposed from
// Go's fixed operand rules into a per-operator predicate table.
type opClass struct {
	accepts   func(types.PrimitiveKind) bool
	allowSIMD bool
	isCompare bool
	isLogic   bool
	isAssign  bool
}

func numericOrFloat(k types.PrimitiveKind) bool { return k.IsInteger() || k.IsFloat() }
func integerOnly(k types.PrimitiveKind) bool    { return k.IsInteger() }
func boolOnly(k types.PrimitiveKind) bool        { return k == types.Bool }

var binaryOpClasses = map[ast.BinaryOp]opClass{
	ast.OpAdd: {accepts: numericOrFloat, allowSIMD: true},
	ast.OpSub: {accepts: numericOrFloat, allowSIMD: true},
	ast.OpMul: {accepts: numericOrFloat, allowSIMD: true},
	ast.OpQuo: {accepts: numericOrFloat, allowSIMD: true},
	ast.OpRem: {accepts: integerOnly, allowSIMD: true},

	ast.OpEq:  {accepts: func(types.PrimitiveKind) bool { return true }, allowSIMD: true, isCompare: true},
	ast.OpNeq: {accepts: func(types.PrimitiveKind) bool { return true }, allowSIMD: true, isCompare: true},
	ast.OpLt:  {accepts: numericOrFloat, allowSIMD: true, isCompare: true},
	ast.OpLte: {accepts: numericOrFloat, allowSIMD: true, isCompare: true},
	ast.OpGt:  {accepts: numericOrFloat, allowSIMD: true, isCompare: true},
	ast.OpGte: {accepts: numericOrFloat, allowSIMD: true, isCompare: true},

	ast.OpBitAnd: {accepts: integerOnly, allowSIMD: true},
	ast.OpBitOr:  {accepts: integerOnly, allowSIMD: true},
	ast.OpBitXor: {accepts: integerOnly, allowSIMD: true},
	ast.OpShl:    {accepts: integerOnly, allowSIMD: true},
	ast.OpShr:    {accepts: integerOnly, allowSIMD: true},

	ast.OpLogAnd: {accepts: boolOnly, isLogic: true},
	ast.OpLogOr:  {accepts: boolOnly, isLogic: true},

	ast.OpAssign: {accepts: func(types.PrimitiveKind) bool { return true }, allowSIMD: true, isAssign: true},
}

var unaryOpClasses = map[ast.UnaryOp]opClass{
	ast.OpPos:    {accepts: numericOrFloat, allowSIMD: true},
	ast.OpNeg:    {accepts: numericOrFloat, allowSIMD: true},
	ast.OpNot:    {accepts: boolOnly},
	ast.OpBitNot: {accepts: integerOnly, allowSIMD: true},
}

func elementKind(t types.Type) (types.PrimitiveKind, bool, bool) {
	switch t := t.(type) {
	case *types.Primitive:
		return t.Kind, true, false
	case *types.SizedArray:
		if p, ok := t.Elem.(*types.Primitive); ok {
			return p.Kind, true, t.IsSIMD
		}
	}
	return 0, false, false
}

// InferBinaryExpr implements spec §4.4's binary-operator rule and the
// "smart literal inference" special case for untyped literal operands.
func (s *Session) InferBinaryExpr(e *ast.BinaryExpr) types.Type {
	class, ok := binaryOpClasses[e.Op]
	if !ok {
		panic(fmt.Sprintf("unreachable: unknown binary operator %v", e.Op))
	}

	if e.Op == ast.OpAssign {
		return s.inferAssign(e)
	}
	if class.isLogic {
		s.Check(e.Left, s.Table.Primitive(types.Bool))
		s.Check(e.Right, s.Table.Primitive(types.Bool))
		return s.Table.Primitive(types.Bool)
	}

	// Smart literal inference: an untyped operand on either side defers
	// to the other side's type (spec §4.4).
	if isUntypedLiteral(e.Left) && !isUntypedLiteral(e.Right) {
		rightTy := s.Deref(&e.Right)
		s.Check(e.Left, rightTy)
		return s.applyBinaryResult(e, class, rightTy)
	}

	leftTy := s.Deref(&e.Left)
	rightTy := s.Coerce(&e.Right, leftTy)
	_ = rightTy
	return s.applyBinaryResult(e, class, leftTy)
}

func (s *Session) applyBinaryResult(e *ast.BinaryExpr, class opClass, commonTy types.Type) types.Type {
	if _, isErr := commonTy.(*types.TypeErr); isErr {
		return commonTy
	}
	kind, isPrim, isSIMD := elementKind(commonTy)
	if !isPrim || !class.accepts(kind) || (isSIMD && !class.allowSIMD) {
		return s.errType(diag.CodeIncompatibleContext, e.Pos(),
			fmt.Sprintf("operator %s does not accept %s", e.Op, commonTy))
	}
	if class.isCompare {
		if isSIMD {
			boolElem := s.Table.Primitive(types.Bool)
			arr, err := s.Table.SizedArray(boolElem, commonTy.(*types.SizedArray).Size, true)
			if err != nil {
				return s.errType(diag.CodeInvalidSIMDElement, e.Pos(), err.Error())
			}
			return arr
		}
		return s.Table.Primitive(types.Bool)
	}
	return commonTy
}

func (s *Session) inferAssign(e *ast.BinaryExpr) types.Type {
	lhsTy := s.Infer(e.Left)
	ref, ok := lhsTy.(*types.Reference)
	if !ok || !ref.IsMut {
		return s.errType(diag.CodeMutableExpected, e.Left.Pos(), "assignment target must be a mutable reference")
	}
	s.Coerce(&e.Right, ref.Pointee)
	return s.Table.Unit()
}

// isUntypedLiteral detects an untyped integer/float literal, possibly
// wrapped in a one-element block or a unary +/- (spec §4.4 "Smart
// literal inference").
func isUntypedLiteral(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return e.IsUntypedNumeric()
	case *ast.UnaryExpr:
		return (e.Op == ast.OpPos || e.Op == ast.OpNeg) && isUntypedLiteral(e.Operand)
	case *ast.BlockExpr:
		return len(e.Stmts) == 0 && e.Trailing != nil && !e.TrailingSemicolon && isUntypedLiteral(e.Trailing)
	default:
		return false
	}
}

// InferUnaryExpr implements spec §4.4's unary-operator rule (address-of
// and deref are handled separately by InferAddressExpr/InferDerefExpr).
func (s *Session) InferUnaryExpr(e *ast.UnaryExpr) types.Type {
	class, ok := unaryOpClasses[e.Op]
	if !ok {
		panic(fmt.Sprintf("unreachable: unknown unary operator %v", e.Op))
	}
	operandTy := s.Deref(&e.Operand)
	kind, isPrim, isSIMD := elementKind(operandTy)
	if !isPrim || !class.accepts(kind) || (isSIMD && !class.allowSIMD) {
		return s.errType(diag.CodeIncompatibleContext, e.Pos(),
			fmt.Sprintf("operator %s does not accept %s", e.Op, operandTy))
	}
	return operandTy
}
