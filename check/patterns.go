package check

import (
	"fmt"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// Refutability is the context classification of spec §4.4
// "Refutability": a let-binding or function parameter must be trivial,
// while if-let/while-let/match arms may be refutable.
type Refutability int

const (
	MustBeTrivial Refutability = iota
	MayBeRefutable
)

// CheckPattern implements check_ptrn(p, t): requires t <: type(p), the
// inverted direction relative to expressions (spec §4.4).
func (s *Session) CheckPattern(p ast.Pattern, expected types.Type, ctx Refutability) types.Type {
	ty := s.InferPattern(p, expected)
	if !types.Subtype(expected, ty) && !types.Identical(expected, ty) {
		return s.errType(diag.CodeIncompatibleTypes, p.Pos(),
			fmt.Sprintf("pattern requires %s, scrutinee has type %s", ty, expected))
	}
	s.enforceRefutability(p, ctx)
	p.Resolve(ty)
	return ty
}

func (s *Session) enforceRefutability(p ast.Pattern, ctx Refutability) {
	if ctx == MustBeTrivial && !ast.IsTrivial(p) {
		s.Sink.Report(diag.NewError(diag.CodeRefutabilityMismatch, p.Pos(),
			"pattern must be irrefutable here").
			WithFixIt("use a `match` or `if let` to handle the other cases", ""))
	}
}

// InferPattern implements infer_ptrn(p), dispatching on p's kind and
// (for patterns whose shape depends on the scrutinee) consulting
// scrutinee, the type check_ptrn's caller already knows.
func (s *Session) InferPattern(p ast.Pattern, scrutinee types.Type) types.Type {
	switch p := p.(type) {
	case *ast.IdPattern:
		return s.inferIdPattern(p, scrutinee)
	case *ast.WildcardPattern:
		return scrutinee
	case *ast.LiteralPattern:
		return s.inferLiteralPattern(p)
	case *ast.TuplePattern:
		return s.inferTuplePattern(p, scrutinee)
	case *ast.ArrayPattern:
		return s.inferArrayPattern(p, scrutinee)
	case *ast.RecordPattern:
		return s.inferRecordPattern(p)
	case *ast.CtorPattern:
		return s.inferCtorPattern(p)
	case *ast.TypedPattern:
		return s.inferTypedPattern(p)
	case *ast.ImplicitParamPattern:
		return s.InferPattern(p.Inner, scrutinee)
	default:
		panic(fmt.Sprintf("unreachable: unknown pattern kind %T", p))
	}
}

func (s *Session) inferIdPattern(p *ast.IdPattern, scrutinee types.Type) types.Type {
	ty := scrutinee
	if p.IsMut {
		ty = s.Table.Reference(scrutinee, true, types.DefaultAddrSpace)
	}
	s.DefVar(p.Name, ty)
	return scrutinee
}

func (s *Session) inferLiteralPattern(p *ast.LiteralPattern) types.Type {
	switch p.Kind {
	case ast.LitInt:
		return s.Table.Primitive(types.I32)
	case ast.LitBool:
		return s.Table.Primitive(types.Bool)
	case ast.LitChar:
		return s.Table.Primitive(types.U8)
	case ast.LitString:
		arr, _ := s.Table.SizedArray(s.Table.Primitive(types.U8), uint64(len(p.StringValue))+1, false)
		return arr
	default:
		return s.errType(diag.CodeIncompatibleContext, p.Pos(), "float literal patterns are not allowed")
	}
}

func (s *Session) inferTuplePattern(p *ast.TuplePattern, scrutinee types.Type) types.Type {
	tup, ok := scrutinee.(*types.Tuple)
	if !ok || len(tup.Elems) != len(p.Elems) {
		return s.errType(diag.CodeBadArity, p.Pos(), "tuple pattern arity mismatch")
	}
	elems := make([]types.Type, len(p.Elems))
	for i, elem := range p.Elems {
		elems[i] = s.InferPattern(elem, tup.Elems[i])
	}
	return s.Table.Tuple(elems)
}

func (s *Session) inferArrayPattern(p *ast.ArrayPattern, scrutinee types.Type) types.Type {
	switch arr := scrutinee.(type) {
	case *types.SizedArray:
		if uint64(len(p.Elems)) != arr.Size {
			return s.errType(diag.CodeBadArity, p.Pos(), "array pattern arity mismatch")
		}
		for _, elem := range p.Elems {
			s.InferPattern(elem, arr.Elem)
		}
		return arr
	default:
		return s.errType(diag.CodeKindExpected, p.Pos(), "array pattern requires a sized array scrutinee")
	}
}

// inferRecordPattern dispatches a record pattern through the same path
// resolver the checker uses for paths generally, then matches fields by
// name (spec §4.4: "each field is resolved by name exactly once; ...
// allows omitted fields").
func (s *Session) inferRecordPattern(p *ast.RecordPattern) types.Type {
	ty := s.resolvePatternTypePath(p.Type)
	p.Type.Resolve(ty)
	matched := common.NewSet[common.Ident]()
	for _, fp := range p.Fields {
		fieldTy, ok := types.Member(ty, fp.Name)
		if !ok {
			s.report(diag.CodeUnknownMember, p.Pos(), "unknown field \""+fp.Name.String()+"\"")
			continue
		}
		matched.Insert(fp.Name)
		s.InferPattern(fp.Pattern, fieldTy)
	}
	if !p.HasRest {
		for _, f := range structFields(ty) {
			if !matched.Contains(f.Name) {
				s.report(diag.CodeUnknownMember, p.Pos(), "missing field \""+f.Name.String()+"\"")
			}
		}
	}
	return ty
}

func structFields(t types.Type) []types.Field {
	switch t := t.(type) {
	case *types.Struct:
		return t.Fields
	case *types.TypeApp:
		if s, ok := t.Applied.(*types.Struct); ok {
			return s.Fields
		}
	}
	return nil
}

func (s *Session) inferCtorPattern(p *ast.CtorPattern) types.Type {
	ty, optFields := s.resolveCtorPatternTypePath(p.Type)
	p.Type.Resolve(ty)
	for i, arg := range p.Args {
		var elemTy types.Type
		var ok bool
		if optFields != nil {
			if i < len(optFields) {
				elemTy, ok = optFields[i].Type, true
			}
		} else {
			elemTy, ok = types.Positional(ty, i)
		}
		if !ok {
			s.report(diag.CodeBadArity, p.Pos(), "constructor pattern arity mismatch")
			break
		}
		s.InferPattern(arg, elemTy)
	}
	return ty
}

func (s *Session) inferTypedPattern(p *ast.TypedPattern) types.Type {
	ty := s.ResolveTypeExpr(p.Type)
	return s.CheckPattern(p.Inner, ty, MayBeRefutable)
}

// resolvePatternTypePath resolves a pattern's type-naming Path to the
// structural type it names (spec §4.4's record/constructor patterns
// "dispatch to the matching nominal type"), via the same path resolver
// the checker uses for value paths, but expecting a type result.
func (s *Session) resolvePatternTypePath(p *ast.Path) types.Type {
	return s.ResolvePath(p, false, nil)
}

// resolveCtorPatternTypePath is resolvePatternTypePath's counterpart
// for CtorPattern: its Path always names a tuple-lit struct or a
// tuple-shaped enum option, both of which resolve.Resolve classifies
// as a value (the constructor function) rather than a plain type, so
// it must ask for a value and then unwrap the ctor function's codomain
// to get back the type the pattern's Args index into.
//
// For a tuple-lit struct the codomain already is that struct, whose own
// Fields carry the exact positional types. A tuple-shaped enum option's
// codomain is the whole enum, shared across every other option, since
// constructing `Cons(1, rest)` as an expression really does produce a
// plain `List` — so the option's own Fields (needed only for typing
// this pattern's Args, never for typing an expression) are returned
// alongside it rather than folded into the enum type itself.
func (s *Session) resolveCtorPatternTypePath(p *ast.Path) (types.Type, []types.Field) {
	ty := s.ResolvePath(p, true, nil)
	fn, ok := ty.(*types.Function)
	if !ok {
		return ty, nil
	}
	if enum, isEnum := enumOf(fn.Codom); isEnum && len(p.Elems) > 0 {
		optName := p.Elems[len(p.Elems)-1].Name
		if opt, found := types.Option(enum, optName); found {
			return fn.Codom, types.OptionFields(fn.Codom, opt)
		}
	}
	return fn.Codom, nil
}

// enumOf unwraps a tuple-shaped ctor pattern's codomain to the bare
// enum it names, looking through a TypeApp so a parameterized enum's
// (e.g. List[i32]) pattern still finds its option by name.
func enumOf(t types.Type) (*types.Enum, bool) {
	switch t := t.(type) {
	case *types.Enum:
		return t, true
	case *types.TypeApp:
		if enum, ok := t.Applied.(*types.Enum); ok {
			return enum, true
		}
	}
	return nil, false
}
