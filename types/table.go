package types

import (
	"fmt"
	"strings"

	"github.com/arborlang/sema/common"
	"github.com/pkg/errors"
)

// Table is the type table of spec §4.1: it exposes one constructor per
// type kind, each of which either returns an existing canonical
// instance or installs a freshly allocated one. Grounded on the shape
// of the teacher's VarContext/TypeContext (a struct owning maps, with
// constructor methods) — gobid itself never hash-conses (it compares
// types structurally via Identical/Unify on demand); this Table does
// the interning spec.md §9 calls for directly, so that equality for
// non-nominal kinds is a pointer compare.
type Table struct {
	unit     *Tuple
	noRet    *NoRet
	typeErr  *TypeErr
	prims    [11]*Primitive
	tuples   map[string]*Tuple
	sized    map[string]*SizedArray
	unsized  map[string]*UnsizedArray
	pointers map[string]*Pointer
	refs     map[string]*Reference
	funcs    map[string]*Function
	implicit map[string]*ImplicitParam

	structs map[NominalDecl]*Struct
	enums   map[NominalDecl]*Enum
	aliases map[NominalDecl]*Alias
	modules map[NominalDecl]*Module
	vars    map[any]*TypeVar

	nextVarID uintptr
}

func NewTable() *Table {
	return &Table{
		tuples:   map[string]*Tuple{},
		sized:    map[string]*SizedArray{},
		unsized:  map[string]*UnsizedArray{},
		pointers: map[string]*Pointer{},
		refs:     map[string]*Reference{},
		funcs:    map[string]*Function{},
		implicit: map[string]*ImplicitParam{},
		structs:  map[NominalDecl]*Struct{},
		enums:    map[NominalDecl]*Enum{},
		aliases:  map[NominalDecl]*Alias{},
		modules:  map[NominalDecl]*Module{},
		vars:     map[any]*TypeVar{},
	}
}

// ptrKey renders a slice of already-interned types into a map key by
// their pointer identities, so that structural consing of a compound
// type only needs to compare pointers, never walk components.
func ptrKey(parts ...any) string {
	b := strings.Builder{}
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%p", p)
	}
	return b.String()
}

func (t *Table) Primitive(kind PrimitiveKind) Type {
	if t.prims[kind] == nil {
		t.prims[kind] = &Primitive{Kind: kind}
	}
	return t.prims[kind]
}

func (t *Table) Unit() Type {
	if t.unit == nil {
		t.unit = &Tuple{Elems: nil}
	}
	return t.unit
}

func (t *Table) NoRet() Type {
	if t.noRet == nil {
		t.noRet = &NoRet{}
	}
	return t.noRet
}

func (t *Table) Err() Type {
	if t.typeErr == nil {
		t.typeErr = &TypeErr{}
	}
	return t.typeErr
}

func (t *Table) Tuple(elems []Type) Type {
	if len(elems) == 0 {
		return t.Unit()
	}
	key := ptrKey(toAny(elems)...)
	if existing, ok := t.tuples[key]; ok {
		return existing
	}
	fresh := &Tuple{Elems: elems}
	t.tuples[key] = fresh
	return fresh
}

func (t *Table) SizedArray(elem Type, size uint64, isSIMD bool) (Type, error) {
	if isSIMD {
		if _, ok := elem.(*Primitive); !ok {
			return nil, errors.Errorf("SIMD array element must be primitive, got %s", elem)
		}
	}
	key := fmt.Sprintf("%p|%d|%v", elem, size, isSIMD)
	if existing, ok := t.sized[key]; ok {
		return existing, nil
	}
	fresh := &SizedArray{Elem: elem, Size: size, IsSIMD: isSIMD}
	t.sized[key] = fresh
	return fresh, nil
}

func (t *Table) UnsizedArray(elem Type) Type {
	key := fmt.Sprintf("%p", elem)
	if existing, ok := t.unsized[key]; ok {
		return existing
	}
	fresh := &UnsizedArray{Elem: elem}
	t.unsized[key] = fresh
	return fresh
}

func (t *Table) Pointer(pointee Type, isMut bool, space AddrSpace) Type {
	key := fmt.Sprintf("%p|%v|%s", pointee, isMut, space)
	if existing, ok := t.pointers[key]; ok {
		return existing
	}
	fresh := &Pointer{Pointee: pointee, IsMut: isMut, AddrSpace: space}
	t.pointers[key] = fresh
	return fresh
}

func (t *Table) Reference(pointee Type, isMut bool, space AddrSpace) Type {
	key := fmt.Sprintf("%p|%v|%s", pointee, isMut, space)
	if existing, ok := t.refs[key]; ok {
		return existing
	}
	fresh := &Reference{Pointee: pointee, IsMut: isMut, AddrSpace: space}
	t.refs[key] = fresh
	return fresh
}

func (t *Table) Function(dom, codom Type) Type {
	key := ptrKey(dom, codom)
	if existing, ok := t.funcs[key]; ok {
		return existing
	}
	fresh := &Function{Dom: dom, Codom: codom}
	t.funcs[key] = fresh
	return fresh
}

// Continuation builds `cn T = fn T -> !` (spec §3).
func (t *Table) Continuation(dom Type) Type {
	return t.Function(dom, t.NoRet())
}

func (t *Table) ImplicitParam(underlying Type) Type {
	key := fmt.Sprintf("%p", underlying)
	if existing, ok := t.implicit[key]; ok {
		return existing
	}
	fresh := &ImplicitParam{Underlying: underlying}
	t.implicit[key] = fresh
	return fresh
}

// Struct returns the canonical *Struct for decl, building it (and
// caching it) on first use. The caller supplies fields because a
// struct's field types may themselves reference the struct being built
// (through a pointer), so construction happens outside the Table and
// is only registered here.
func (t *Table) Struct(decl NominalDecl, fields []Field, isTupleLit bool) *Struct {
	if existing, ok := t.structs[decl]; ok {
		return existing
	}
	fresh := &Struct{Decl: decl, Fields: fields, IsTupleLit: isTupleLit}
	t.structs[decl] = fresh
	return fresh
}

func (t *Table) Enum(decl NominalDecl, options []EnumOption) *Enum {
	if existing, ok := t.enums[decl]; ok {
		return existing
	}
	fresh := &Enum{Decl: decl, Options: options}
	t.enums[decl] = fresh
	return fresh
}

func (t *Table) Module(decl NominalDecl) *Module {
	if existing, ok := t.modules[decl]; ok {
		return existing
	}
	fresh := &Module{Decl: decl}
	t.modules[decl] = fresh
	return fresh
}

func (t *Table) Alias(decl NominalDecl, params []*TypeVar, body Type) *Alias {
	if existing, ok := t.aliases[decl]; ok {
		return existing
	}
	fresh := &Alias{Decl: decl, Params: params, Body: body}
	t.aliases[decl] = fresh
	return fresh
}

// TypeVar returns the canonical TypeVar for a declaration-site key
// (typically the *ast.TypeParamDecl pointer the variable is bound by).
// types does not import ast, so the key is an opaque comparable value
// supplied by the caller; name is only used for display.
func (t *Table) TypeVar(declKey any, name common.Ident) *TypeVar {
	if existing, ok := t.vars[declKey]; ok {
		return existing
	}
	t.nextVarID++
	fresh := &TypeVar{Decl: name, id: t.nextVarID}
	t.vars[declKey] = fresh
	return fresh
}

func (t *Table) Forall(params []*TypeVar, bounds map[*TypeVar]Bound, body Type) Type {
	return &Forall{Params: params, Bounds: bounds, Body: body}
}

// TypeApp, like Forall above, is not interned: per spec §4.1, applying
// a TypeAlias eagerly substitutes and returns the expanded body, so the
// result is never itself a TypeApp; applying a Struct/Enum always
// allocates a fresh TypeApp (never reused even for equal args), since
// two TypeApps are compared via Subtype/Identical, not pointer equality.
func (t *Table) TypeApp(applied Type, args []Type) Type {
	if alias, ok := applied.(*Alias); ok {
		subst := map[*TypeVar]Type{}
		for i, p := range alias.Params {
			if i < len(args) {
				subst[p] = args[i]
			}
		}
		return Replace(alias.Body, subst)
	}
	return &TypeApp{Applied: applied, Args: args}
}

func toAny(ts []Type) []any {
	out := make([]any, len(ts))
	for i, t := range ts {
		out[i] = t
	}
	return out
}
