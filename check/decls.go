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

// ResolveTypeExpr turns a syntactic type (as written by the user) into
// a types.Type, dispatching on te's kind. Only the Path case needs the
// full resolver; the other kinds build directly into the table, mirroring
// checker_resolve.go's ResolveType but over this language's type grammar
// instead of Go's.
func (s *Session) ResolveTypeExpr(te ast.TypeExpr) types.Type {
	switch te := te.(type) {
	case *ast.PathTypeExpr:
		p := &ast.Path{Elems: te.Elems, StartDecl: te.StartDecl}
		p.SetPos(te.Pos())
		return s.ResolvePath(p, false, nil)
	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(te.Elems))
		for i, e := range te.Elems {
			elems[i] = s.ResolveTypeExpr(e)
		}
		return s.Table.Tuple(elems)
	case *ast.SizedArrayTypeExpr:
		elemTy := s.ResolveTypeExpr(te.Elem)
		arr, err := s.Table.SizedArray(elemTy, te.Size, te.IsSIMD)
		if err != nil {
			return s.errType(diag.CodeInvalidSIMDElement, te.Pos(), err.Error())
		}
		return arr
	case *ast.UnsizedArrayTypeExpr:
		return s.Table.UnsizedArray(s.ResolveTypeExpr(te.Elem))
	case *ast.PointerTypeExpr:
		return s.Table.Pointer(s.ResolveTypeExpr(te.Pointee), te.IsMut, types.AddrSpace(te.AddrSpace))
	case *ast.FunctionTypeExpr:
		return s.Table.Function(s.ResolveTypeExpr(te.Dom), s.ResolveTypeExpr(te.Codom))
	case *ast.ImplicitParamTypeExpr:
		return s.Table.ImplicitParam(s.ResolveTypeExpr(te.Underlying))
	default:
		spew.Dump(te)
		panic("unreachable")
	}
}

// resolveOptionalType is ResolveTypeExpr for a nil-able TypeExpr slot
// (an unannotated function return type, a bare tuple element), since
// nil is meaningful at several call sites below.
func resolveOptionalType(s *Session, te ast.TypeExpr) types.Type {
	if te == nil {
		return nil
	}
	return s.ResolveTypeExpr(te)
}

// ResolvePath implements spec §4.3's path resolver entry point: it
// elaborates p's explicit type arguments (the only part only the
// checker's scope can do, since a PathTypeExpr needs ResolveTypeExpr)
// and hands the rest to package resolve. call carries the adjacent
// argument's type for step 1's last-element inference; callers that
// are not resolving a call's callee pass nil.
func (s *Session) ResolvePath(p *ast.Path, valueExpected bool, call *resolve.CallArg) types.Type {
	explicit := func(elemIndex int) []types.Type {
		if elemIndex >= len(p.Elems) || len(p.Elems[elemIndex].TypeArgs) == 0 {
			return nil
		}
		te := p.Elems[elemIndex].TypeArgs
		args := make([]types.Type, len(te))
		for i, t := range te {
			args[i] = s.ResolveTypeExpr(t)
		}
		return args
	}
	res := resolve.Resolve(s.Table, s.Sink, s, p, explicit, valueExpected, call, s.moduleMember)
	return res.Type
}

// moduleMember implements resolve.ModuleMember: a module's members are
// AST declarations until TypeOfDecl runs on them, so this walks
// ast.Module.Lookup and types the result through TypeOfDecl.
func (s *Session) moduleMember(mod *types.Module, name common.Ident) (types.Type, bool, bool, bool) {
	scope, ok := mod.Decl.(*ModuleScope)
	if !ok {
		return nil, false, false, false
	}
	decl, ok := scope.Module.Lookup(name)
	if !ok {
		return nil, false, false, false
	}
	ty, isValue, isCtor := s.TypeOfDecl(decl)
	return ty, isValue, isCtor, true
}

// typedDecl is implemented by the five declaration kinds that carry
// their own typeSlot (FuncDecl, StructDecl, EnumDecl, AliasDecl,
// StaticDecl). ast.Module, ast.UseDecl and ast.TypeParamDecl are typed
// a different way (see TypeOfDecl) and so are handled separately by
// ensureDeclChecked.
type typedDecl interface {
	ast.Decl
	Resolved() types.Type
	IsResolved() bool
	Resolve(types.Type)
}

// ensureDeclChecked type-checks d if it has not already been, guarding
// against mutual recursion with the recursion set (spec §5). It is the
// single choke point every path through a not-yet-checked declaration
// — a module-level walk, or a path/member lookup reaching it early —
// goes through.
func (s *Session) ensureDeclChecked(d ast.Decl) {
	if use, ok := d.(*ast.UseDecl); ok {
		s.checkUseDecl(use)
		return
	}
	td, ok := d.(typedDecl)
	if !ok {
		return
	}
	if td.IsResolved() {
		return
	}
	if s.EnterRecursionGuard(d) {
		s.report(diag.CodeRecursiveDeclaration, d.Pos(), "declaration recursively depends on its own type")
		return
	}
	defer s.ExitRecursionGuard(d)
	s.CheckDecl(d)
}

// TypeOfDecl implements resolve.DeclTyper (spec §4.3's StartDecl
// classification step): it types d, triggering its check if necessary,
// and reports whether d names a value, and whether it is additionally a
// constructor reference.
func (s *Session) TypeOfDecl(d ast.Decl) (types.Type, bool, bool) {
	switch d := d.(type) {
	case *ast.Module:
		return s.moduleScopeFor(d).Type(), false, false
	case *ast.UseDecl:
		s.checkUseDecl(d)
		return d.Path.Resolved(), false, false
	case *ast.TypeParamDecl:
		return s.TypeVarFor(d), false, false
	case *ast.BuiltinTypeDecl:
		return s.Table.Primitive(d.Kind), false, false
	case *ast.FuncDecl:
		return s.typeOfTypedDecl(d, true)
	case *ast.StructDecl:
		return s.typeOfTypedDecl(d, false)
	case *ast.EnumDecl:
		return s.typeOfTypedDecl(d, false)
	case *ast.AliasDecl:
		return s.typeOfTypedDecl(d, false)
	case *ast.StaticDecl:
		return s.typeOfTypedDecl(d, true)
	default:
		spew.Dump(d)
		panic("unreachable")
	}
}

// typeOfTypedDecl finishes TypeOfDecl's typedDecl cases: if
// ensureDeclChecked bailed out early on a detected recursion, d is
// still unresolved (CheckDecl never ran this time around, and the
// in-progress outer call still owns resolving it), so this reports the
// poison type rather than returning a nil types.Type.
func (s *Session) typeOfTypedDecl(d typedDecl, isValue bool) (types.Type, bool, bool) {
	s.ensureDeclChecked(d)
	if !d.IsResolved() {
		return s.Table.Err(), false, false
	}
	return d.Resolved(), isValue, false
}

var _ resolve.ModuleMember = (*Session)(nil).moduleMember

// CheckModule implements spec §6's check_module(module_root) -> bool:
// check every declaration reachable from root, recovering from any
// internal panic into a single CodeInternal diagnostic rather than
// crashing the caller (common.Try, documented for exactly this use).
// The bool result mirrors a Collector's OK(): true iff no error
// diagnostic was reported.
func CheckModule(table *types.Table, sink diag.Sink, root *ast.Module) bool {
	return NewSession(table, sink, root).CheckModule()
}

type oker interface{ OK() bool }

func (s *Session) CheckModule() bool {
	_, err, stack := common.Try(func() any {
		s.checkModuleDecls(s.Mod.Module)
		return nil
	})
	if err != nil {
		s.report(diag.CodeInternal, diag.Pos{}, err.Error()+"\n"+stack)
	}
	if ok, isOker := s.Sink.(oker); isOker {
		return ok.OK()
	}
	return err == nil
}

// checkModuleDecls walks one module's own declarations and recurses
// into its children (spec §4.5: modules are the outermost declaration
// scope; nested modules fork a fresh ModuleScope).
func (s *Session) checkModuleDecls(mod *ast.Module) {
	scoped := s.BeginModuleScope(mod)
	for _, d := range mod.Decls {
		scoped.ensureDeclChecked(d)
	}
	for _, child := range mod.Children {
		scoped.checkModuleDecls(child)
	}
}

// CheckDecl implements spec §4.5's per-kind declaration checker,
// dispatching on d's kind. Callers needing d's type rather than just
// its side effect should go through TypeOfDecl/ensureDeclChecked
// instead, which additionally cache and guard recursion.
func (s *Session) CheckDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.FuncDecl:
		s.checkFuncDecl(d)
	case *ast.StructDecl:
		s.checkStructDecl(d)
	case *ast.EnumDecl:
		s.checkEnumDecl(d)
	case *ast.AliasDecl:
		s.checkAliasDecl(d)
	case *ast.StaticDecl:
		s.checkStaticDecl(d)
	case *ast.UseDecl:
		s.checkUseDecl(d)
	case *ast.Module:
		s.checkModuleDecls(d)
	default:
		spew.Dump(d)
		panic("unreachable")
	}
}

// bindTypeParams registers decl's type parameters as fresh TypeVars in
// tyScope, resolving each one's declared bound (spec §4.5's generic-
// declaration registration step). Lower/Upper default to NoRet/Top per
// spec §4.2 when left unannotated.
func (s *Session) bindTypeParams(params []*ast.TypeParamDecl) map[*types.TypeVar]types.Bound {
	bounds := map[*types.TypeVar]types.Bound{}
	for _, tp := range params {
		v := s.TypeVarFor(tp)
		s.DefTypeVar(tp.DeclIdent(), v)
	}
	for _, tp := range params {
		v := s.TypeVarFor(tp)
		bounds[v] = types.Bound{
			Lower: resolveOptionalType(s, tp.Lower),
			Upper: resolveOptionalType(s, tp.Upper),
		}
	}
	return bounds
}

// wrapForall wraps body in a Forall over vars when vars is non-empty,
// per spec §4.5's "generic declarations are forall-quantified".
func (s *Session) wrapForall(vars []*types.TypeVar, bounds map[*types.TypeVar]types.Bound, body types.Type) types.Type {
	if len(vars) == 0 {
		return body
	}
	return s.Table.Forall(vars, bounds, body)
}

// declaredPatternType reads a pattern's annotation without binding any
// names, for contexts (a function parameter) that need the declared
// domain type before the body — and hence the pattern's bindings — are
// in scope (spec §4.5: "fn's parameter pattern must carry a top-level
// type annotation").
func (s *Session) declaredPatternType(p ast.Pattern) types.Type {
	switch p := p.(type) {
	case *ast.TypedPattern:
		return s.ResolveTypeExpr(p.Type)
	case *ast.ImplicitParamPattern:
		inner, ok := p.Inner.(*ast.TypedPattern)
		if !ok {
			return s.errType(diag.CodeCannotInfer, p.Pos(), "implicit parameter pattern must carry a type annotation")
		}
		return s.Table.ImplicitParam(s.ResolveTypeExpr(inner.Type))
	default:
		return s.errType(diag.CodeCannotInfer, p.Pos(), "parameter pattern must carry a type annotation")
	}
}

// checkFuncDecl implements spec §4.5's two-phase function typing: if
// ret is annotated, the full fn dom -> codom (or its Forall) is
// resolved and set on d *before* the body is checked, so a `return`
// inside can see it; otherwise the codomain is only known after
// inferring the body, and any `return` encountered along the way
// reports cannot-infer (see Session.RetBox, check/session.go).
func (s *Session) checkFuncDecl(d *ast.FuncDecl) {
	tyScope := s.BeginTypeScope()
	bounds := tyScope.bindTypeParams(d.TypeParams)
	domTy := tyScope.declaredPatternType(d.Param)

	if d.RetType != nil {
		codomTy := tyScope.ResolveTypeExpr(d.RetType)
		fnTy := tyScope.wrapForall(d.TypeVars(), bounds, tyScope.Table.Function(domTy, codomTy))
		d.Resolve(fnTy)

		bodyScope := tyScope.BeginFunctionScope(d)
		bodyScope.RetBox.declared = true
		bodyScope.RetBox.ty = codomTy
		paramScope := bodyScope.BeginBlockScope()
		paramScope.CheckPattern(d.Param, domTy, MustBeTrivial)
		paramScope.checkFuncFilter(d.Filter)
		paramScope.Check(d.Body, codomTy)
	} else {
		bodyScope := tyScope.BeginFunctionScope(d)
		bodyScope.RetBox.declared = false
		paramScope := bodyScope.BeginBlockScope()
		paramScope.CheckPattern(d.Param, domTy, MustBeTrivial)
		paramScope.checkFuncFilter(d.Filter)
		codomTy := paramScope.Infer(d.Body)
		fnTy := tyScope.wrapForall(d.TypeVars(), bounds, tyScope.Table.Function(domTy, codomTy))
		d.Resolve(fnTy)
	}

	s.checkAttributes(d.Attrs, "fn", d.Pos())
}

// optionShape classifies an enum option's field list per ast/decl.go's
// doc comment on EnumOptionDecl: no fields is unit; a first field that
// is unnamed, blank ("_"), or named by its position ("_0") marks the
// positional (tuple) shape; anything else is the named (record) shape.
func optionShape(fields []*ast.FieldDecl) types.EnumOptionShape {
	if len(fields) == 0 {
		return types.OptionUnit
	}
	name := fields[0].DeclIdent().Value
	positional := name == "" || name[0] == '_'
	for i := 1; positional && i < len(name); i++ {
		positional = name[i] >= '0' && name[i] <= '9'
	}
	if positional {
		return types.OptionTuple
	}
	return types.OptionRecord
}

// checkStructDecl registers decl and its fields, using the two-phase
// self-reference pattern spec §4.1 requires for nominal types: the
// canonical *types.Struct pointer is cached with empty Fields and
// resolved onto d first (so that a field type referencing the struct
// through a Pointer finds d already typed and sees the same pointer
// this call returns), then Fields is filled in once every field type
// has been resolved.
func (s *Session) checkStructDecl(d *ast.StructDecl) {
	tyScope := s.BeginTypeScope()
	bounds := tyScope.bindTypeParams(d.TypeParams)

	st := tyScope.Table.Struct(d, nil, d.IsTupleLit)
	ty := s.wrapForall(d.TypeParamsResolved(), bounds, st)
	d.Resolve(ty)

	fields := make([]types.Field, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = types.Field{Name: f.DeclIdent(), Type: tyScope.ResolveTypeExpr(f.Type)}
	}
	st.Fields = fields

	if types.Unsized(st) {
		s.report(diag.CodeUnsizedType, d.Pos(), "type is infinitely sized")
	}
	s.checkAttributes(d.Attrs, "struct", d.Pos())
}

// checkEnumDecl mirrors checkStructDecl's two-phase registration for
// the Enum nominal kind.
func (s *Session) checkEnumDecl(d *ast.EnumDecl) {
	tyScope := s.BeginTypeScope()
	bounds := tyScope.bindTypeParams(d.TypeParams)

	en := tyScope.Table.Enum(d, nil)
	ty := s.wrapForall(d.TypeParamsResolved(), bounds, en)
	d.Resolve(ty)

	options := make([]types.EnumOption, len(d.Options))
	for i, opt := range d.Options {
		fields := make([]types.Field, len(opt.Fields))
		for j, f := range opt.Fields {
			fields[j] = types.Field{Name: f.DeclIdent(), Type: tyScope.ResolveTypeExpr(f.Type)}
		}
		options[i] = types.EnumOption{Name: opt.DeclIdent(), Shape: optionShape(opt.Fields), Fields: fields}
	}
	en.Options = options

	if types.Unsized(en) {
		s.report(diag.CodeUnsizedType, d.Pos(), "type is infinitely sized")
	}
	s.checkAttributes(d.Attrs, "enum", d.Pos())
}

// checkAliasDecl implements spec §4.5's "parameterized aliases are
// substituted on every application": unlike Struct/Enum, an Alias's
// Body can be fully resolved in one pass since aliases are never
// self-referential (spec §4.2 forbids an alias cycle, caught here by
// the ordinary recursion guard rather than a sizedness check).
func (s *Session) checkAliasDecl(d *ast.AliasDecl) {
	tyScope := s.BeginTypeScope()
	tyScope.bindTypeParams(d.TypeParams)
	body := tyScope.ResolveTypeExpr(d.Body)
	alias := s.Table.Alias(d, d.TypeParamsResolved(), body)
	d.Resolve(alias)
}

// checkStaticDecl implements spec §4.5's static declaration: the
// annotated type, a structural compile-time-constant check on Init, and
// — when AliasGroup is non-empty (SPEC_FULL §9) — unification against
// every sibling static in the group.
func (s *Session) checkStaticDecl(d *ast.StaticDecl) {
	ty := s.ResolveTypeExpr(d.Type)
	d.Resolve(ty)
	s.Coerce(&d.Init, ty)
	s.checkConstantExpr(d.Init)

	for _, sibling := range d.AliasGroup {
		s.ensureDeclChecked(sibling)
		if !types.Identical(sibling.Resolved(), ty) {
			s.report(diag.CodeIncompatibleTypes, sibling.Pos(),
				fmt.Sprintf("static alias group member has type %s, expected %s", sibling.Resolved(), ty))
		}
	}

	s.checkAttributes(d.Attrs, "static", d.Pos())
}

// checkConstantExpr implements spec §4.5's "init must be a compile-time
// constant (literal tree)" requirement: e must be built entirely out of
// literals, non-assignment/non-logic operators over constants, and
// structural literals (tuples, arrays, structs), or a path (accepted
// whatever it names). This reproduces the shape of original_source/'s
// eval_const recursion without folding to an actual value — the spec
// only asks that the initializer be syntactically constant, not that
// its value be computed at this stage.
func (s *Session) checkConstantExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
	case *ast.UnaryExpr:
		s.checkConstantExpr(e.Operand)
	case *ast.BinaryExpr:
		if e.Op == ast.OpAssign || e.Op.IsLogic() {
			s.report(diag.CodeIncompatibleContext, e.Pos(), "static initializer must be a compile-time constant")
			return
		}
		s.checkConstantExpr(e.Left)
		s.checkConstantExpr(e.Right)
	case *ast.TupleExpr:
		for _, elem := range e.Elems {
			s.checkConstantExpr(elem)
		}
	case *ast.ArrayLitExpr:
		for _, elem := range e.Elems {
			s.checkConstantExpr(elem)
		}
	case *ast.StructLitExpr:
		for _, f := range e.Fields {
			s.checkConstantExpr(f.Value)
		}
	case *ast.CastExpr:
		s.checkConstantExpr(e.Operand)
	case *ast.Path:
		// any path is accepted as constant; whether it names another
		// static is not checked here.
	default:
		s.report(diag.CodeIncompatibleContext, e.Pos(), "static initializer must be a compile-time constant")
	}
}

// checkUseDecl resolves p's path to a module type exactly once (spec
// §4.5: "use p; requires p to resolve to a module type"). Idempotent so
// that it is safe to call both from checkModuleDecls's module walk and
// from TypeOfDecl when some other path's member lookup reaches this
// declaration first.
func (s *Session) checkUseDecl(d *ast.UseDecl) {
	if d.Path.IsResolved() {
		return
	}
	ty := s.ResolvePath(d.Path, false, nil)
	if _, ok := ty.(*types.Module); !ok {
		s.report(diag.CodeKindExpected, d.Pos(), "use requires a module")
	}
	d.Path.Resolve(ty)
}

// attributeSchema describes one named attribute's fixed string-valued
// argument list and which declaration kinds it may be attached to
// (SPEC_FULL §9, grounded on original_source/check.cpp's
// NamedAttr::check).
type attributeSchema struct {
	args  []string
	kinds map[string]bool
}

var attributeSchemas = map[string]attributeSchema{
	"import": {args: []string{"cc", "name"}, kinds: map[string]bool{"fn": true}},
	"export": {args: []string{"name"}, kinds: map[string]bool{"fn": true, "static": true}},
	"intern": {args: []string{"name"}, kinds: map[string]bool{"fn": true, "struct": true, "enum": true}},
}

// checkAttributes validates attrs against attributeSchemas: unknown
// name, wrong declaration kind, or an argument-shape mismatch all report
// CodeInvalidAttribute (spec §4.7/§9 "attributes are validation rules
// only" — this performs no semantic action beyond the check itself).
func (s *Session) checkAttributes(attrs []ast.Attribute, kind string, pos diag.Pos) {
	for _, a := range attrs {
		schema, ok := attributeSchemas[a.Name.String()]
		if !ok {
			s.report(diag.CodeInvalidAttribute, pos, "unknown attribute \""+a.Name.String()+"\"")
			continue
		}
		if !schema.kinds[kind] {
			s.report(diag.CodeInvalidAttribute, pos, "attribute \""+a.Name.String()+"\" is not allowed on this declaration")
			continue
		}
		if len(a.Args) != len(schema.args) {
			s.report(diag.CodeInvalidAttribute, pos, "attribute \""+a.Name.String()+"\" has the wrong number of arguments")
			continue
		}
		for _, argName := range schema.args {
			if _, ok := a.Args[argName]; !ok {
				s.report(diag.CodeInvalidAttribute, pos, "attribute \""+a.Name.String()+"\" missing argument \""+argName+"\"")
			}
		}
	}
}
