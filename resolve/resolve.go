// Package resolve is the path resolver's typing side (component D):
// given a path whose elements already carry a name-resolution-supplied
// start declaration, it applies type arguments, walks member lookups
// through modules/enums/structs, and classifies the result as a value,
// a type, or a constructor (spec §4.3).
//
// resolve does not import check: the inference-engine step (§4.3 step
// 1, "invoke §4.6 to infer the rest from the argument's coerced type")
// is supplied by the caller as an InferFunc, so that check can own the
// actual bounds/variance algorithm while resolve only calls it at the
// one point the path grammar needs it. Likewise, explicit type
// arguments are passed in already elaborated (the checker turns each
// PathElem's TypeExpr list into []types.Type before calling Resolve,
// since only the checker's scope can resolve a PathTypeExpr). Grounded
// on checker_names.go/checker_resolve.go (scope lookup, ResolveType
// indirection) and checker_members.go (member lookup through a type),
// generalized from Go's single-step selector into the multi-element,
// type-argument-carrying walk spec §4.3 describes.
package resolve

import (
	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// InferFunc computes the missing type arguments of a generic call from
// the callee's Forall, the argument type (check derefs the argument; it
// is not try-coerced against the callee's domain first), and
// whatever type arguments the user supplied explicitly (spec §4.6).
// check.InferTypeArgs implements this.
type InferFunc func(forall *types.Forall, argType types.Type, explicit []types.Type) ([]types.Type, error)

// CallArg bundles the adjacent call argument available for last-
// element inference (spec §4.3 step 1).
type CallArg struct {
	Type  types.Type
	Infer InferFunc
}

// Result is the path resolver's classification output (spec §4.3:
// "(type, is_value, is_ctor)").
type Result struct {
	Type    types.Type
	IsValue bool
	IsCtor  bool
}

// DeclTyper resolves an ast.Decl (the path's StartDecl) to its type and
// value/type/ctor classification, without walking any further path
// elements. check implements this over its own declaration-checking
// logic (a declaration's type is often only known after CheckDecl has
// run on it, which is why this is a callback rather than a method on
// ast.Decl itself).
type DeclTyper interface {
	TypeOfDecl(d ast.Decl) (types.Type, bool, bool)
}

// ExplicitArgs supplies, per path element index, the already-elaborated
// type arguments the user wrote at that element (empty/nil if none).
type ExplicitArgs func(elemIndex int) []types.Type

// ModuleMember resolves a named member of a module type (spec §4.3 step
// 3's Module case: "resolve named member"). check implements this over
// ast.Module.Lookup followed by DeclTyper.TypeOfDecl, since a module's
// members are AST declarations, not types.Type members, until
// TypeOfDecl has run on them — resolve itself never sees an ast.Module.
type ModuleMember func(mod *types.Module, name common.Ident) (ty types.Type, isValue, isCtor, ok bool)

// Resolve walks path, applying type arguments and member lookups per
// spec §4.3, and requires the final classification's IsValue to match
// valueExpected.
func Resolve(table *types.Table, sink diag.Sink, typer DeclTyper, path *ast.Path, explicit ExplicitArgs, valueExpected bool, call *CallArg, moduleMember ModuleMember) Result {
	if len(path.Elems) == 0 {
		return Result{Type: table.Err()}
	}
	startDecl, ok := path.StartDecl.(ast.Decl)
	if !ok {
		sink.Report(diag.NewError(diag.CodeCannotInfer, path.Pos(), "path has no resolved start declaration"))
		return Result{Type: table.Err()}
	}

	cur, isValue, isCtor := typer.TypeOfDecl(startDecl)

	// elem[0] is already the identity StartDecl named (name resolution's
	// job, external to this package); every later element is reached by
	// a member step using *that* element's own name against the type
	// the previous iteration left in cur, before elem's own type
	// arguments (if any) are applied to the result.
	for i, elem := range path.Elems {
		last := i == len(path.Elems)-1

		switch {
		case elem.IsSuper:
			mod, ok := cur.(*types.Module)
			if !ok {
				sink.Report(diag.NewError(diag.CodeKindExpected, path.Pos(), "super requires a module"))
				return Result{Type: table.Err()}
			}
			parent, ok := superOf(mod)
			if !ok {
				sink.Report(diag.NewError(diag.CodeUnknownMember, path.Pos(), "module has no parent"))
				return Result{Type: table.Err()}
			}
			cur, isValue, isCtor = parent, false, false
		case i > 0:
			var ok bool
			if mod, isMod := cur.(*types.Module); isMod {
				if moduleMember == nil {
					sink.Report(diag.NewError(diag.CodeUnknownMember, path.Pos(), "unknown member \""+elem.Name.String()+"\""))
					return Result{Type: table.Err()}
				}
				cur, isValue, isCtor, ok = moduleMember(mod, elem.Name)
			} else {
				cur, isValue, isCtor, ok = memberStep(table, cur, elem.Name)
			}
			if !ok {
				sink.Report(diag.NewError(diag.CodeUnknownMember, path.Pos(), "unknown member \""+elem.Name.String()+"\""))
				return Result{Type: table.Err()}
			}
		}

		var args []types.Type
		if explicit != nil {
			args = explicit(i)
		}

		cur, isValue, isCtor = applyArgs(table, sink, path, cur, isValue, isCtor, args, last, call)
		if _, isErr := cur.(*types.TypeErr); isErr {
			return Result{Type: cur}
		}
	}

	if isValue != valueExpected {
		msg := "type expected"
		if valueExpected {
			msg = "value expected"
		}
		sink.Report(diag.NewError(diag.CodeKindExpected, path.Pos(), msg))
		return Result{Type: table.Err()}
	}

	return Result{Type: cur, IsValue: isValue, IsCtor: isCtor}
}

// applyArgs implements spec §4.3 step 1 (type-argument application,
// with last-element inference) and step 2 (constructor synthesis for a
// tuple-like struct reference).
func applyArgs(table *types.Table, sink diag.Sink, path *ast.Path, cur types.Type, isValue, isCtor bool, explicit []types.Type, last bool, call *CallArg) (types.Type, bool, bool) {
	if forall, ok := cur.(*types.Forall); ok {
		switch {
		case len(explicit) == len(forall.Params):
			cur = instantiate(table, forall.Body, forall.Params, explicit)
		case len(explicit) < len(forall.Params) && last && call != nil:
			inferred, err := call.Infer(forall, call.Type, explicit)
			if err != nil {
				sink.Report(diag.NewError(diag.CodeCannotInfer, path.Pos(), err.Error()))
				return table.Err(), false, false
			}
			cur = instantiate(table, forall.Body, forall.Params, inferred)
		default:
			sink.Report(diag.NewError(diag.CodeBadArity, path.Pos(), "expected a different number of type arguments"))
			return table.Err(), false, false
		}
	} else if len(explicit) > 0 {
		sink.Report(diag.NewError(diag.CodeBadArity, path.Pos(), "expected 0 type arguments"))
		return table.Err(), false, false
	}

	if s, ok := tupleLitStruct(cur); ok && s.IsTupleLit && len(s.Fields) >= 1 {
		return table.Function(tupleCtorDomain(table, cur, s), cur), true, true
	}

	return cur, isValue, isCtor
}

// instantiate applies a Forall's type arguments to its body (spec §4.3
// step 1). A nominal struct/enum body is kept as a TypeApp rather than
// substituted structurally, since types.Replace's default case leaves
// *Struct/*Enum untouched (they're nominal, not structural) and only
// types.Member/Positional/Option know how to substitute through a
// TypeApp lazily, at the point a field/option is actually looked up.
// Any other body (chiefly a generic function's *types.Function) has no
// such nominal identity to preserve, so it substitutes structurally as
// before.
func instantiate(table *types.Table, body types.Type, params []*types.TypeVar, args []types.Type) types.Type {
	switch body.(type) {
	case *types.Struct, *types.Enum:
		return table.TypeApp(body, args)
	default:
		return types.Replace(body, substMap(params, args))
	}
}

// tupleLitStruct unwraps cur to the bare *types.Struct backing a
// tuple-literal constructor, looking through a TypeApp so a
// parameterized struct (e.g. Box[i32]) is still recognized.
func tupleLitStruct(cur types.Type) (*types.Struct, bool) {
	switch t := cur.(type) {
	case *types.Struct:
		return t, true
	case *types.TypeApp:
		if s, ok := t.Applied.(*types.Struct); ok {
			return s, true
		}
	}
	return nil, false
}

// tupleCtorDomain computes a tuple-literal constructor's domain from
// s's fields, substituted through cur when cur is a TypeApp (so
// Box[i32]'s constructor takes i32, not T) via types.Positional, which
// already knows how to apply a TypeApp's substitution.
func tupleCtorDomain(table *types.Table, cur types.Type, s *types.Struct) types.Type {
	if len(s.Fields) == 1 {
		ty, _ := types.Positional(cur, 0)
		return ty
	}
	elems := make([]types.Type, len(s.Fields))
	for i := range s.Fields {
		ty, _ := types.Positional(cur, i)
		elems[i] = ty
	}
	return table.Tuple(elems)
}

func substMap(params []*types.TypeVar, args []types.Type) map[*types.TypeVar]types.Type {
	subst := common.NewMap[*types.TypeVar, types.Type]()
	for i, p := range params {
		if i < len(args) {
			subst.Set(p, args[i])
		}
	}
	return subst
}

func structDom(table *types.Table, fields []types.Field) types.Type {
	if len(fields) == 1 {
		return fields[0].Type
	}
	elems := make([]types.Type, len(fields))
	for i, f := range fields {
		elems[i] = f.Type
	}
	return table.Tuple(elems)
}

// memberStep implements spec §4.3 step 3's Enum case. The Module case
// is dispatched by Resolve's caller via the ModuleMember callback
// before memberStep is ever reached (a module's members are AST
// declarations, not types.Type members, until TypeOfDecl runs on them).
func memberStep(table *types.Table, cur types.Type, name common.Ident) (types.Type, bool, bool, bool) {
	enum, app := asEnum(cur)
	if enum == nil {
		return nil, false, false, false
	}
	opt, ok := types.Option(enum, name)
	if !ok {
		return nil, false, false, false
	}
	return enumOptionType(table, enum, opt, app)
}

func asEnum(t types.Type) (*types.Enum, *types.TypeApp) {
	switch t := t.(type) {
	case *types.Enum:
		return t, nil
	case *types.TypeApp:
		if enum, ok := t.Applied.(*types.Enum); ok {
			return enum, t
		}
	}
	return nil, nil
}

// enumOptionType implements spec §4.3 step 3's enum case: record-shaped
// options become their struct type (kept as a TypeApp if app is
// non-nil, so a parameterized enum's option fields substitute lazily
// the same way a plain struct member does), tuple-shaped options become
// either the enum type itself (unit option) or a constructor function.
// app carries the type arguments a parameterized enum (e.g. E[i32])
// was applied with; nil for a non-generic enum.
func enumOptionType(table *types.Table, enum *types.Enum, opt types.EnumOption, app *types.TypeApp) (types.Type, bool, bool, bool) {
	codomain := enumCodomain(enum, app)
	switch opt.Shape {
	case types.OptionRecord:
		s := table.Struct(&optionDecl{enum: enum, name: opt.Name}, opt.Fields, false)
		if app != nil {
			return table.TypeApp(s, app.Args), false, false, true
		}
		return s, false, false, true
	case types.OptionTuple:
		if len(opt.Fields) == 0 {
			return codomain, true, false, true
		}
		dom := structDom(table, types.OptionFields(codomain, opt))
		return table.Function(dom, codomain), true, true, true
	default: // OptionUnit
		return codomain, true, false, true
	}
}

// enumCodomain is the type an enum option's constructor returns: the
// bare enum, or the same TypeApp (e.g. E[i32]) the path applied to
// reach it.
func enumCodomain(enum *types.Enum, app *types.TypeApp) types.Type {
	if app != nil {
		return app
	}
	return enum
}

// genericDecl mirrors the exported method types.Member/Positional/
// Option use internally (via their own unexported interface of the
// same shape) to find a nominal declaration's own type parameters.
// Declared again here since that interface isn't exported: optionDecl
// below forwards to it so a TypeApp wrapping a record-shaped option
// struct (spec §4.3 step 3) substitutes correctly once types.Member
// reaches it.
type genericDecl interface {
	TypeParamsResolved() []*types.TypeVar
}

// optionDecl gives a record-shaped enum option its own declaration
// identity for Table.Struct's nominal cache, distinct from the parent
// Enum's identity. It forwards TypeParamsResolved to the enclosing
// enum's own declaration so a TypeApp wrapping the option struct (spec
// §4.3 step 3) substitutes its fields the same way a TypeApp wrapping
// the enum itself would.
type optionDecl struct {
	enum *types.Enum
	name common.Ident
}

func (d *optionDecl) DeclIdent() common.Ident { return d.name }

func (d *optionDecl) TypeParamsResolved() []*types.TypeVar {
	if decl, ok := d.enum.Decl.(genericDecl); ok {
		return decl.TypeParamsResolved()
	}
	return nil
}

// ModuleParent is implemented by types.NominalDecl values that wrap an
// ast.Module, letting resolve walk `super` without importing ast.
type ModuleParent interface {
	Super() types.Type
}

// superOf reports the parent module type of mod, or false at the root
// (spec §4.3 step 4).
func superOf(mod *types.Module) (types.Type, bool) {
	parent, ok := mod.Decl.(ModuleParent)
	if !ok {
		return nil, false
	}
	p := parent.Super()
	if p == nil {
		return nil, false
	}
	return p, true
}
