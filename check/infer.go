package check

import (
	"fmt"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/resolve"
	"github.com/arborlang/sema/types"
	"github.com/davecgh/go-spew/spew"
)

// Infer implements spec §4.4's infer(expr): dispatch on e's kind, then
// resolve e's own type slot with the result, guarded so that re-
// inferring an already-resolved node (Coerce/Deref re-entering after an
// earlier wrap) is a no-op rather than the double-resolve panic
// typeSlot.Resolve raises.
func (s *Session) Infer(e ast.Expr) types.Type {
	if e.IsResolved() {
		return e.Resolved()
	}
	ty := s.inferDispatch(e)
	if !e.IsResolved() {
		e.Resolve(ty)
	}
	return ty
}

func (s *Session) inferDispatch(e ast.Expr) types.Type {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return s.inferLiteralExpr(e)
	case *ast.BinaryExpr:
		return s.InferBinaryExpr(e)
	case *ast.UnaryExpr:
		return s.InferUnaryExpr(e)
	case *ast.AddressExpr:
		return s.InferAddressExpr(e)
	case *ast.DerefExpr:
		return s.InferDerefExpr(e)
	case *ast.CallExpr:
		return s.inferCallExpr(e)
	case *ast.FieldExpr:
		return s.inferFieldExpr(e)
	case *ast.PositionalExpr:
		return s.inferPositionalExpr(e)
	case *ast.IndexExpr:
		return s.inferIndexExpr(e)
	case *ast.CastExpr:
		return s.inferCastExpr(e)
	case *ast.TupleExpr:
		return s.inferTupleExpr(e)
	case *ast.ArrayLitExpr:
		return s.inferArrayLitExpr(e)
	case *ast.StructLitExpr:
		return s.inferStructLitExpr(e)
	case *ast.IfExpr:
		return s.inferIfExpr(e)
	case *ast.IfLetExpr:
		return s.inferIfLetExpr(e)
	case *ast.WhileExpr:
		return s.inferWhileExpr(e)
	case *ast.WhileLetExpr:
		return s.inferWhileLetExpr(e)
	case *ast.ForExpr:
		return s.inferForExpr(e)
	case *ast.MatchExpr:
		return s.inferMatchExpr(e)
	case *ast.BlockExpr:
		return s.inferBlockExpr(e)
	case *ast.ReturnExpr:
		return s.inferReturnExpr(e)
	case *ast.BreakExpr:
		return s.inferBreakExpr(e)
	case *ast.ContinueExpr:
		return s.inferContinueExpr(e)
	case *ast.FuncLitExpr:
		return s.inferFuncLitExpr(e)
	case *ast.Path:
		return s.inferPathExpr(e)
	case *ast.ImplicitCastExpr:
		return e.Resolved()
	case *ast.SummonExpr:
		return e.Resolved()
	default:
		spew.Dump(e)
		panic("unreachable")
	}
}

// lookupLocalPath reports the type of p when p is a bare unqualified
// name bound by some enclosing pattern (a `let`, function parameter, or
// match/if-let/while-let arm) rather than a module-level declaration:
// mirroring the teacher's Checker.Lookup, which always consults VarCtx
// before falling back to a named declaration, since a pattern binding
// has no ast.Decl for Path.StartDecl to point at in the first place.
func (s *Session) lookupLocalPath(p *ast.Path) (types.Type, bool) {
	if len(p.Elems) != 1 {
		return nil, false
	}
	elem := p.Elems[0]
	if elem.IsSuper || len(elem.TypeArgs) != 0 {
		return nil, false
	}
	return s.LookupVar(elem.Name)
}

// inferPathExpr resolves a bare value path (not the callee of a Call,
// which inferCallExpr handles specially so that the adjacent argument
// can drive last-element type-argument inference). A local binding
// shadows a same-named declaration, per lookupLocalPath.
func (s *Session) inferPathExpr(p *ast.Path) types.Type {
	if ty, ok := s.lookupLocalPath(p); ok {
		return ty
	}
	return s.ResolvePath(p, true, nil)
}

func literalDefaultType(s *Session, e *ast.LiteralExpr) types.Type {
	switch e.Kind {
	case ast.LitInt:
		return s.Table.Primitive(types.I32)
	case ast.LitFloat:
		return s.Table.Primitive(types.F64)
	case ast.LitBool:
		return s.Table.Primitive(types.Bool)
	case ast.LitChar:
		return s.Table.Primitive(types.U8)
	case ast.LitString:
		arr, err := s.Table.SizedArray(s.Table.Primitive(types.U8), uint64(len(e.StringValue))+1, false)
		if err != nil {
			return s.errType(diag.CodeInvalidSIMDElement, e.Pos(), err.Error())
		}
		return arr
	default:
		panic("unreachable")
	}
}

// inferLiteralExpr implements spec §4.4's literal defaulting: an
// untyped literal defaults to i32/f64/bool/u8/a null-terminated u8
// array when it is never coerced to a concrete type by its context.
func (s *Session) inferLiteralExpr(e *ast.LiteralExpr) types.Type {
	return literalDefaultType(s, e)
}

// InferAddressExpr implements spec §4.4 "Addressing": &e/&mut e on a
// reference produces a pointer of matching mutability; &mut requires
// the operand itself be a mutable reference.
func (s *Session) InferAddressExpr(e *ast.AddressExpr) types.Type {
	operandTy := s.Infer(e.Operand)
	ref, ok := operandTy.(*types.Reference)
	if !ok {
		return s.errType(diag.CodeKindExpected, e.Pos(), "& requires an addressable (reference-typed) operand")
	}
	if e.IsMut && !ref.IsMut {
		return s.errType(diag.CodeMutableExpected, e.Pos(), "&mut requires a mutable reference")
	}
	return s.Table.Pointer(ref.Pointee, e.IsMut, ref.AddrSpace)
}

// InferDerefExpr implements spec §4.4 "Addressing": *e on ptr T -> ref
// T, the surface-syntax counterpart to the checker's own implicit deref.
func (s *Session) InferDerefExpr(e *ast.DerefExpr) types.Type {
	operandTy := s.Deref(&e.Operand)
	ptr, ok := operandTy.(*types.Pointer)
	if !ok {
		return s.errType(diag.CodeKindExpected, e.Pos(), "* requires a pointer operand")
	}
	return s.Table.Reference(ptr.Pointee, ptr.IsMut, ptr.AddrSpace)
}

// projectionBase implements the ref/pointer-stripping rule shared by
// FieldExpr and PositionalExpr (spec §4.4 "Projection"): a reference to
// a struct projects through to a reference to the member; a pointer to
// a struct requires one more explicit `*` before it can be projected
// through (a reference-to-pointer is never silently double-stripped).
func (s *Session) projectionBase(slot *ast.Expr, pos diag.Pos) (unwrapped types.Type, wrap bool, isMut bool, space types.AddrSpace, ok bool) {
	baseTy := s.Infer(*slot)
	wasRef, isRef := baseTy.(*types.Reference)
	base := s.derefType(slot, baseTy)

	if _, stillPtr := base.(*types.Pointer); stillPtr && isRef {
		s.report(diag.CodeKindExpected, pos, "cannot project through a reference to a pointer; deref it explicitly first")
		return nil, false, false, types.DefaultAddrSpace, false
	}

	if ptr, isPtr := base.(*types.Pointer); isPtr {
		return ptr.Pointee, true, ptr.IsMut, ptr.AddrSpace, true
	}
	if isRef {
		return base, true, wasRef.IsMut, wasRef.AddrSpace, true
	}
	return base, false, false, types.DefaultAddrSpace, true
}

func (s *Session) wrapProjection(memberTy types.Type, wrap bool, isMut bool, space types.AddrSpace) types.Type {
	if !wrap {
		return memberTy
	}
	return s.Table.Reference(memberTy, isMut, space)
}

func (s *Session) inferFieldExpr(e *ast.FieldExpr) types.Type {
	base, wrap, isMut, space, ok := s.projectionBase(&e.Base, e.Pos())
	if !ok {
		return s.Table.Err()
	}
	memberTy, found := types.Member(base, e.Name)
	if !found {
		return s.errType(diag.CodeUnknownMember, e.Pos(), "unknown field \""+e.Name.String()+"\"")
	}
	return s.wrapProjection(memberTy, wrap, isMut, space)
}

func (s *Session) inferPositionalExpr(e *ast.PositionalExpr) types.Type {
	base, wrap, isMut, space, ok := s.projectionBase(&e.Base, e.Pos())
	if !ok {
		return s.Table.Err()
	}
	memberTy, found := types.Positional(base, e.Index)
	if !found {
		return s.errType(diag.CodeUnknownMember, e.Pos(), fmt.Sprintf("no element at position %d", e.Index))
	}
	return s.wrapProjection(memberTy, wrap, isMut, space)
}

// arrayElemType requires t be a sized or unsized array, per spec
// §4.4's "Call" step 3 / plain indexing rule.
func arrayElemType(t types.Type) (types.Type, bool) {
	switch t := t.(type) {
	case *types.SizedArray:
		return t.Elem, true
	case *types.UnsizedArray:
		return t.Elem, true
	default:
		return nil, false
	}
}

// indexInto implements the array-indexing rule shared by IndexExpr
// (e[i]) and applyCall's non-function fallback (e(i) on an array or
// pointer-to-array, spec §4.4 "Call" step 3): strip one reference and
// then one pointer layer, require the remainder be an array, require
// the index be an integer primitive, and rewrap the element type the
// same way projectionBase does.
func (s *Session) indexInto(pos diag.Pos, baseSlot *ast.Expr, baseTy types.Type, indexSlot *ast.Expr) types.Type {
	wasRef, isRef := baseTy.(*types.Reference)
	base := s.derefType(baseSlot, baseTy)

	wrap, isMut, space := false, false, types.DefaultAddrSpace
	if ptr, isPtr := base.(*types.Pointer); isPtr {
		base = ptr.Pointee
		wrap, isMut, space = true, ptr.IsMut, ptr.AddrSpace
	} else if isRef {
		wrap, isMut, space = true, wasRef.IsMut, wasRef.AddrSpace
	}

	elemTy, ok := arrayElemType(base)
	if !ok {
		return s.errType(diag.CodeKindExpected, pos, "indexing requires an array")
	}

	indexTy := s.Deref(indexSlot)
	kind, isPrim, _ := elementKind(indexTy)
	if !isPrim || !kind.IsInteger() {
		return s.errType(diag.CodeIncompatibleTypes, (*indexSlot).Pos(), "array index must be an integer")
	}

	return s.wrapProjection(elemTy, wrap, isMut, space)
}

func (s *Session) inferIndexExpr(e *ast.IndexExpr) types.Type {
	baseTy := s.Infer(e.Base)
	return s.indexInto(e.Pos(), &e.Base, baseTy, &e.Index)
}

// inferCallExpr implements spec §4.3 step 1 / §4.4 "Call": a path
// callee resolves with the argument's type in hand, so that the last
// path element's type arguments can be inferred from it; any other
// callee is inferred plainly and then applied.
func (s *Session) inferCallExpr(e *ast.CallExpr) types.Type {
	if path, ok := e.Callee.(*ast.Path); ok {
		if ty, ok := s.lookupLocalPath(path); ok {
			if !path.IsResolved() {
				path.Resolve(ty)
			}
			return s.applyCall(e, ty)
		}
		argTy := s.Deref(&e.Arg)
		callArg := &resolve.CallArg{Type: argTy, Infer: s.InferTypeArgs}
		fnTy := s.ResolvePath(path, true, callArg)
		if !path.IsResolved() {
			path.Resolve(fnTy)
		}
		return s.applyCall(e, fnTy)
	}
	calleeTy := s.Infer(e.Callee)
	return s.applyCall(e, calleeTy)
}

// applyCall implements spec §4.4 "Call" steps 2-3: a function-typed
// callee (possibly behind one Reference) coerces the argument against
// its domain; anything else falls back to array indexing, sharing
// indexInto's ref/pointer-stripping rule with e[i].
func (s *Session) applyCall(e *ast.CallExpr, calleeTy types.Type) types.Type {
	peek := calleeTy
	if ref, ok := peek.(*types.Reference); ok {
		peek = ref.Pointee
	}
	if fn, ok := peek.(*types.Function); ok {
		if calleeTy != peek {
			s.derefType(&e.Callee, calleeTy)
		}
		s.Coerce(&e.Arg, fn.Dom)
		return fn.Codom
	}
	return s.indexInto(e.Pos(), &e.Callee, calleeTy, &e.Arg)
}

func validCast(src, dst types.Type) bool {
	if types.Identical(src, dst) || types.Subtype(src, dst) {
		return true
	}
	_, srcPrim := src.(*types.Primitive)
	_, dstPrim := dst.(*types.Primitive)
	if srcPrim && dstPrim {
		return true
	}
	_, srcPtr := src.(*types.Pointer)
	_, dstPtr := dst.(*types.Pointer)
	return srcPtr && dstPtr
}

func (s *Session) inferCastExpr(e *ast.CastExpr) types.Type {
	srcTy := s.Deref(&e.Operand)
	dstTy := s.ResolveTypeExpr(e.Target)
	if !validCast(srcTy, dstTy) {
		return s.errType(diag.CodeInvalidCast, e.Pos(), fmt.Sprintf("cannot cast %s to %s", srcTy, dstTy))
	}
	return dstTy
}

func (s *Session) inferTupleExpr(e *ast.TupleExpr) types.Type {
	elems := make([]types.Type, len(e.Elems))
	for i := range e.Elems {
		elems[i] = s.Deref(&e.Elems[i])
	}
	return s.Table.Tuple(elems)
}

func literalIsFloat(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return e.Kind == ast.LitFloat
	case *ast.UnaryExpr:
		return (e.Op == ast.OpPos || e.Op == ast.OpNeg) && literalIsFloat(e.Operand)
	case *ast.BlockExpr:
		return len(e.Stmts) == 0 && e.Trailing != nil && !e.TrailingSemicolon && literalIsFloat(e.Trailing)
	default:
		return false
	}
}

// inferArrayLitExpr joins element types pairwise (this module's own
// rule; spec §4.4 does not itself define an array literal's
// element-unification rule): every pairwise join must succeed, and an
// empty literal cannot be inferred without context.
func (s *Session) inferArrayLitExpr(e *ast.ArrayLitExpr) types.Type {
	if len(e.Elems) == 0 {
		return s.errType(diag.CodeCannotInfer, e.Pos(), "cannot infer the element type of an empty array literal")
	}
	elemTy := s.Deref(&e.Elems[0])
	for i := 1; i < len(e.Elems); i++ {
		next := s.Deref(&e.Elems[i])
		joined := types.Join(elemTy, next)
		if types.IsTop(joined) {
			return s.errType(diag.CodeIncompatibleTypes, e.Elems[i].Pos(),
				fmt.Sprintf("array element type %s incompatible with %s", next, elemTy))
		}
		elemTy = joined
	}
	arr, err := s.Table.SizedArray(elemTy, uint64(len(e.Elems)), e.IsSIMD)
	if err != nil {
		return s.errType(diag.CodeInvalidSIMDElement, e.Pos(), err.Error())
	}
	return arr
}

func (s *Session) inferStructLitExpr(e *ast.StructLitExpr) types.Type {
	ty := s.ResolveTypeExpr(e.Type)
	supplied := map[string]bool{}
	for i := range e.Fields {
		f := &e.Fields[i]
		fieldTy, ok := types.Member(ty, f.Name)
		if !ok {
			s.report(diag.CodeUnknownMember, e.Pos(), "unknown field \""+f.Name.String()+"\"")
			s.Deref(&f.Value)
			continue
		}
		supplied[f.Name.String()] = true
		s.Coerce(&f.Value, fieldTy)
	}
	for _, f := range structFields(ty) {
		if !supplied[f.Name.String()] {
			s.report(diag.CodeUnknownMember, e.Pos(), "missing field \""+f.Name.String()+"\"")
		}
	}
	return ty
}

// joinIfBranches implements spec §4.4's smart literal inference for
// `if`: if both branches are untyped literals, default by kind (float
// defaults to f64, otherwise i32) and check both against it; if only
// one side is untyped and the other derefs to a numeric primitive,
// check the untyped side against that type; otherwise fall back to the
// ordinary branch join.
func (s *Session) joinIfBranches(first, second *ast.Expr) types.Type {
	firstUntyped := isUntypedLiteral(*first)
	secondUntyped := isUntypedLiteral(*second)

	if firstUntyped && secondUntyped {
		kind := types.I32
		if literalIsFloat(*first) || literalIsFloat(*second) {
			kind = types.F64
		}
		ty := s.Table.Primitive(kind)
		s.Check(*first, ty)
		s.Check(*second, ty)
		return ty
	}
	if firstUntyped != secondUntyped {
		typedSlot, untypedSlot := second, first
		if secondUntyped {
			typedSlot, untypedSlot = first, second
		}
		typedTy := s.Deref(typedSlot)
		if prim, isPrim := typedTy.(*types.Primitive); isPrim && (prim.Kind.IsInteger() || prim.Kind.IsFloat()) {
			s.Check(*untypedSlot, typedTy)
			return typedTy
		}
	}
	return s.JoinBranches(first, second)
}

func (s *Session) inferIfExpr(e *ast.IfExpr) types.Type {
	s.Check(e.Cond, s.Table.Primitive(types.Bool))
	blockScope := s.BeginBlockScope()
	if e.Else == nil {
		blockScope.Check(e.Then, blockScope.Table.Unit())
		return blockScope.Table.Unit()
	}
	return blockScope.joinIfBranches(&e.Then, &e.Else)
}

func (s *Session) inferIfLetExpr(e *ast.IfLetExpr) types.Type {
	scrutTy := s.Deref(&e.Scrutinee)
	thenScope := s.BeginBlockScope()
	thenScope.InferPattern(e.Pattern, scrutTy)
	if e.Else == nil {
		thenScope.Check(e.Then, thenScope.Table.Unit())
		return thenScope.Table.Unit()
	}
	elseScope := s.BeginBlockScope()
	return crossScopeJoin(thenScope, elseScope, &e.Then, &e.Else)
}

// crossScopeJoin joins two branches checked in different scopes (an
// if-let's then-branch sees the pattern's bindings, its else-branch
// does not), so it cannot reuse Session.joinIfBranches, which assumes a
// single scope for both slots.
func crossScopeJoin(thenScope, elseScope *Session, thenSlot, elseSlot *ast.Expr) types.Type {
	t1 := thenScope.Deref(thenSlot)
	t2 := elseScope.Deref(elseSlot)
	joined := types.Join(t1, t2)
	if types.IsTop(joined) {
		return thenScope.errType(diag.CodeIncompatibleTypes, (*elseSlot).Pos(),
			fmt.Sprintf("type %s incompatible with branch type %s", t2, t1))
	}
	return joined
}

func (s *Session) inferWhileExpr(e *ast.WhileExpr) types.Type {
	s.Check(e.Cond, s.Table.Primitive(types.Bool))
	bodyScope := s.BeginBlockScope()
	bodyScope.Check(e.Body, bodyScope.Table.Unit())
	return s.Table.Unit()
}

func (s *Session) inferWhileLetExpr(e *ast.WhileLetExpr) types.Type {
	scrutTy := s.Deref(&e.Scrutinee)
	bodyScope := s.BeginBlockScope()
	bodyScope.InferPattern(e.Pattern, scrutTy)
	bodyScope.Check(e.Body, bodyScope.Table.Unit())
	return s.Table.Unit()
}

// inferForExpr types only the desugared call, per ForExpr's own doc
// comment: `for p in iter(args) body` is parsed directly into a call
// wrapping a lambda, and that call is the thing the checker sees.
func (s *Session) inferForExpr(e *ast.ForExpr) types.Type {
	return s.Infer(e.DesugaredCall)
}

func (s *Session) inferMatchExpr(e *ast.MatchExpr) types.Type {
	scrutTy := s.Deref(&e.Scrutinee)
	var result types.Type
	for i := range e.Arms {
		arm := &e.Arms[i]
		armScope := s.BeginBlockScope()
		armScope.InferPattern(arm.Pattern, scrutTy)
		if arm.Guard != nil {
			armScope.Check(arm.Guard, armScope.Table.Primitive(types.Bool))
		}
		bodyTy := armScope.Deref(&arm.Body)
		if result == nil {
			result = bodyTy
			continue
		}
		joined := types.Join(result, bodyTy)
		if types.IsTop(joined) {
			s.report(diag.CodeIncompatibleTypes, arm.Body.Pos(),
				fmt.Sprintf("match arm type %s incompatible with %s", bodyTy, result))
			continue
		}
		result = joined
	}
	s.checkExhaustiveness(e, scrutTy)
	if result == nil {
		return s.Table.Unit()
	}
	return result
}

// checkExhaustiveness implements SPEC_FULL §9's weaker, warning-only
// exhaustiveness pass: once an arm with no guard covers the scrutinee's
// full remaining shape, every following arm is dead. For an enum
// scrutinee this is tracked precisely as the running set of option
// names a trivial ctor/record pattern (or a plain wildcard/id) has
// covered; for any other scrutinee kind it degrades to "a guard-less
// trivial pattern was already seen".
func (s *Session) checkExhaustiveness(e *ast.MatchExpr, scrutinee types.Type) {
	enum, isEnum := asEnumScrutinee(scrutinee)
	covered := map[string]bool{}
	allCovered := false

	for _, arm := range e.Arms {
		if allCovered {
			s.warn(diag.CodeDeadArm, arm.Pattern.Pos(), "unreachable match arm")
			continue
		}
		if arm.Guard != nil {
			continue
		}
		if ast.IsTrivial(arm.Pattern) {
			allCovered = true
			continue
		}
		if isEnum {
			if name, ok := enumOptionCoveredBy(arm.Pattern); ok {
				covered[name.String()] = true
				if len(covered) >= len(enum.Options) {
					allCovered = true
				}
			}
		}
	}
}

func asEnumScrutinee(t types.Type) (*types.Enum, bool) {
	switch t := t.(type) {
	case *types.Enum:
		return t, true
	case *types.TypeApp:
		if en, ok := t.Applied.(*types.Enum); ok {
			return en, true
		}
	}
	return nil, false
}

// enumOptionCoveredBy reports the enum option name a record or
// constructor pattern with only trivial sub-patterns names, so
// checkExhaustiveness can track which options have already been covered
// by an earlier guard-less arm.
func enumOptionCoveredBy(p ast.Pattern) (common.Ident, bool) {
	switch p := p.(type) {
	case *ast.RecordPattern:
		for _, f := range p.Fields {
			if !ast.IsTrivial(f.Pattern) {
				return common.Ident{}, false
			}
		}
		return soleName(p.Type.Elems)
	case *ast.CtorPattern:
		for _, a := range p.Args {
			if !ast.IsTrivial(a) {
				return common.Ident{}, false
			}
		}
		return soleName(p.Type.Elems)
	default:
		return common.Ident{}, false
	}
}

// soleName returns the name of a path's last element, the option/field
// name a record or constructor pattern's type path ultimately names
// (spec §4.4's patterns always name their option with the path's final
// segment; any module-qualification before it is irrelevant here).
func soleName(elems []ast.PathElem) (common.Ident, bool) {
	if len(elems) == 0 {
		return common.Ident{}, false
	}
	return elems[len(elems)-1].Name, true
}

func (s *Session) inferBlockExpr(e *ast.BlockExpr) types.Type {
	blockScope := s.BeginBlockScope()
	blockScope.checkStmts(e.Stmts)
	if e.Trailing == nil {
		return blockScope.Table.Unit()
	}
	trailingTy := blockScope.Deref(&e.Trailing)
	if e.TrailingSemicolon {
		return blockScope.Table.Unit()
	}
	return trailingTy
}

// diverges reports whether ty is a continuation type `cn T` (spec §4.4:
// return/break/continue are typed `cn T`, i.e. fn T -> !), the shape
// that marks everything lexically after it as unreachable.
func diverges(ty types.Type) bool {
	fn, ok := ty.(*types.Function)
	if !ok {
		return false
	}
	_, isNoRet := fn.Codom.(*types.NoRet)
	return isNoRet
}

// checkStmts implements spec §4.4 "Blocks": statements execute in
// order, and anything syntactically after a diverging statement is
// unreachable.
func (s *Session) checkStmts(stmts []ast.Stmt) {
	unreachableFrom := -1
	for i, stmt := range stmts {
		if unreachableFrom >= 0 {
			s.warn(diag.CodeUnreachableCode, stmt.Pos(), "unreachable code")
		}
		ty := s.checkStmt(stmt)
		if unreachableFrom < 0 && diverges(ty) {
			unreachableFrom = i
		}
	}
}

func (s *Session) checkStmt(stmt ast.Stmt) types.Type {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		return s.checkLetStmt(stmt)
	case *ast.ExprStmt:
		return s.checkExprStmt(stmt)
	case *ast.DeclStmt:
		s.ensureDeclChecked(stmt.Decl)
		return s.Table.Unit()
	default:
		spew.Dump(stmt)
		panic("unreachable")
	}
}

func (s *Session) checkLetStmt(stmt *ast.LetStmt) types.Type {
	if declared := tryDeclaredPatternTypeNoError(s, stmt.Pattern); declared != nil {
		s.Coerce(&stmt.Init, declared)
		s.CheckPattern(stmt.Pattern, declared, MustBeTrivial)
		return s.Table.Unit()
	}
	initTy := s.Deref(&stmt.Init)
	s.CheckPattern(stmt.Pattern, initTy, MustBeTrivial)
	return s.Table.Unit()
}

// tryDeclaredPatternTypeNoError reports whether p carries a top-level
// type annotation without emitting a diagnostic when it does not —
// an unannotated `let` infers from its initializer instead (spec §4.5),
// which is a legal shape, not an error.
func tryDeclaredPatternTypeNoError(s *Session, p ast.Pattern) types.Type {
	switch p := p.(type) {
	case *ast.TypedPattern:
		return s.ResolveTypeExpr(p.Type)
	case *ast.ImplicitParamPattern:
		if inner, ok := p.Inner.(*ast.TypedPattern); ok {
			return s.Table.ImplicitParam(s.ResolveTypeExpr(inner.Type))
		}
		return nil
	default:
		return nil
	}
}

// isPureExpr is the conservative structural predicate behind spec
// §4.4's "pure expression-statements that have no side effect warn":
// anything that might call a function, assign, or otherwise have an
// effect is treated as impure, even though some such calls are in fact
// pure, since purity is not otherwise tracked by this type system.
func isPureExpr(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.LiteralExpr, *ast.Path, *ast.FuncLitExpr:
		return true
	case *ast.BinaryExpr:
		return e.Op != ast.OpAssign && isPureExpr(e.Left) && isPureExpr(e.Right)
	case *ast.UnaryExpr:
		return isPureExpr(e.Operand)
	case *ast.DerefExpr:
		return isPureExpr(e.Operand)
	case *ast.AddressExpr:
		return isPureExpr(e.Operand)
	case *ast.FieldExpr:
		return isPureExpr(e.Base)
	case *ast.PositionalExpr:
		return isPureExpr(e.Base)
	case *ast.IndexExpr:
		return isPureExpr(e.Base) && isPureExpr(e.Index)
	case *ast.TupleExpr:
		for _, elem := range e.Elems {
			if !isPureExpr(elem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (s *Session) checkExprStmt(stmt *ast.ExprStmt) types.Type {
	ty := s.Infer(stmt.Expr)
	if isPureExpr(stmt.Expr) {
		s.warn(diag.CodeNoEffect, stmt.Pos(), "expression has no effect")
	}
	return ty
}

func typeIsUnit(t types.Type) bool {
	tup, ok := t.(*types.Tuple)
	return ok && tup.IsUnit()
}

// inferReturnExpr/inferBreakExpr/inferContinueExpr implement spec
// §4.4's `return`/`break`/`continue`, each typed `cn T` where T is the
// operand's type (Unit for a bare form). A `return` additionally
// requires the enclosing function's codomain, which may not exist yet
// for an unannotated function still inferring its body (spec §4.5) —
// that shape reports cannot-infer rather than attempting iterative flow
// inference, which spec §1's Non-goals excludes.
//
// break/continue are deliberately not cross-checked against the
// desugared for-loop's iterate-function shape: spec §4.4 only says they
// are typed by "inspecting the callee's function type", without pinning
// down that type's exact nesting, and a for-loop's body never yields a
// value regardless, so both are simply `cn Unit`.
func (s *Session) inferReturnExpr(e *ast.ReturnExpr) types.Type {
	s.AssertInFunctionScope()

	if !s.RetBox.declared {
		if e.Value != nil {
			s.Deref(&e.Value)
		}
		s.report(diag.CodeCannotInfer, e.Pos(), "cannot infer return type; annotate the function's return type")
		return s.Table.Continuation(s.Table.Err())
	}
	if e.Value != nil {
		s.Coerce(&e.Value, s.RetBox.ty)
	} else if !typeIsUnit(s.RetBox.ty) {
		s.report(diag.CodeIncompatibleTypes, e.Pos(), fmt.Sprintf("bare return in a function returning %s", s.RetBox.ty))
	}
	return s.Table.Continuation(s.RetBox.ty)
}

func (s *Session) inferBreakExpr(e *ast.BreakExpr) types.Type {
	if e.Value != nil {
		s.Deref(&e.Value)
	}
	return s.Table.Continuation(s.Table.Unit())
}

func (s *Session) inferContinueExpr(e *ast.ContinueExpr) types.Type {
	return s.Table.Continuation(s.Table.Unit())
}

// inferFuncLitExpr does not fork a new return-scope: a lambda's `return`
// (if the grammar even reaches one, since FuncLitExpr exists primarily
// for for-loop desugaring) still targets the nearest enclosing named
// function. The lambda's own Ret annotation, when present, only governs
// how its body is checked.
func (s *Session) inferFuncLitExpr(e *ast.FuncLitExpr) types.Type {
	paramScope := s.BeginBlockScope()
	domTy := paramScope.declaredPatternType(e.Param)
	paramScope.CheckPattern(e.Param, domTy, MustBeTrivial)
	paramScope.checkFuncFilter(e.Filter)

	if e.Ret != nil {
		codomTy := paramScope.ResolveTypeExpr(e.Ret)
		paramScope.Check(e.Body, codomTy)
		return s.Table.Function(domTy, codomTy)
	}
	codomTy := paramScope.Infer(e.Body)
	return s.Table.Function(domTy, codomTy)
}
