// Package types is the hash-consed type table and type algebra
// (components A and B): every type the checker produces is a value
// behind the Type interface, canonicalized through a Table so that
// equality between two non-nominal types can be tested by comparing Go
// pointers.
//
// Grounded on the teacher's tree.Type (one interface, one *Base per
// kind, a String method per kind); the kinds themselves come from this
// language's type system, not Go's.
package types

import (
	"fmt"
	"strings"

	"github.com/arborlang/sema/common"
)

// Type is the common interface every type kind implements.
type Type interface {
	fmt.Stringer
	_Type()
}

type base struct{}

func (base) _Type() {}

// AddrSpace is the address-space qualifier carried by pointers and
// references (spec §3: Pointer/Reference "(pointee, is_mut,
// addr_space)"). The language's address spaces are opaque names to this
// module; "" is the default/generic space.
type AddrSpace string

const DefaultAddrSpace AddrSpace = ""

// PrimitiveKind enumerates the eleven primitive tags of spec §3.
type PrimitiveKind int

const (
	Bool PrimitiveKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
)

func (k PrimitiveKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "?primitive"
	}
}

func (k PrimitiveKind) IsInteger() bool {
	switch k {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

func (k PrimitiveKind) IsFloat() bool {
	return k == F32 || k == F64
}

func (k PrimitiveKind) IsUnsigned() bool {
	switch k {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// Primitive is one of the eleven scalar kinds. Primitives are
// hash-consed singletons: there are only ever eleven *Primitive
// instances for the lifetime of a Table.
type Primitive struct {
	base
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return p.Kind.String() }

// Tuple is an ordered, possibly-empty sequence of element types. The
// zero-element Tuple is the canonical unit type and is a Table
// singleton (spec §3 invariant: "Unit is unique").
type Tuple struct {
	base
	Elems []Type
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) IsUnit() bool { return len(t.Elems) == 0 }

// SizedArray is `[elem * N]`, optionally flagged as a SIMD vector
// (spec §3: "SIMD flag ⇒ element type is primitive").
type SizedArray struct {
	base
	Elem   Type
	Size   uint64
	IsSIMD bool
}

func (a *SizedArray) String() string {
	if a.IsSIMD {
		return fmt.Sprintf("<%s * %d>", a.Elem, a.Size)
	}
	return fmt.Sprintf("[%s * %d]", a.Elem, a.Size)
}

// UnsizedArray is `[elem]`. Per spec §3 invariant 4 it is a legal value
// type only behind a Pointer; the checker never lets one stand alone.
type UnsizedArray struct {
	base
	Elem Type
}

func (a *UnsizedArray) String() string {
	return fmt.Sprintf("[%s]", a.Elem)
}

// Pointer is a first-class `ptr`/`ptr mut` type in the given address
// space.
type Pointer struct {
	base
	Pointee   Type
	IsMut     bool
	AddrSpace AddrSpace
}

func (p *Pointer) String() string {
	mut := ""
	if p.IsMut {
		mut = "mut "
	}
	space := ""
	if p.AddrSpace != DefaultAddrSpace {
		space = fmt.Sprintf("<%s> ", p.AddrSpace)
	}
	return fmt.Sprintf("ptr %s%s%s", space, mut, p.Pointee)
}

// Reference is the internal, non-surface `ref`/`ref mut` type marking
// an l-value (spec §3 invariant 3). It is structurally identical to
// Pointer but is never a valid value type on its own: every checker
// entry point that returns a value type must first deref it.
type Reference struct {
	base
	Pointee   Type
	IsMut     bool
	AddrSpace AddrSpace
}

func (r *Reference) String() string {
	mut := ""
	if r.IsMut {
		mut = "mut "
	}
	space := ""
	if r.AddrSpace != DefaultAddrSpace {
		space = fmt.Sprintf("<%s> ", r.AddrSpace)
	}
	return fmt.Sprintf("ref %s%s%s", space, mut, r.Pointee)
}

// Function is `fn dom -> codom`. A continuation `cn T` is the shorthand
// `fn T -> NoRet` and is represented directly as a Function whose
// Codom is the NoRet singleton, never as a distinct kind.
type Function struct {
	base
	Dom   Type
	Codom Type
}

func (f *Function) String() string {
	return fmt.Sprintf("fn %s -> %s", f.Dom, f.Codom)
}

// NoRet (`!`) is the bottom type returned by return/break/continue; it
// is a subtype of every type and a Table singleton.
type NoRet struct{ base }

func (*NoRet) String() string { return "!" }

// TypeErr is the poison type. Any further diagnostic produced from an
// expression whose type is TypeErr is suppressed (spec §3 invariant 6).
// It is a Table singleton.
type TypeErr struct{ base }

func (*TypeErr) String() string { return "<error>" }

// TypeVar is a type variable bound by some TypeParam declaration node.
// Two TypeVars are the same type iff they wrap the same declaration
// node (nominal identity, not structural).
type TypeVar struct {
	base
	Decl common.Ident
	// id disambiguates TypeVars that share a surface name across
	// distinct declarations (shadowing, or two generic functions that
	// both call their parameter T).
	id uintptr
}

func (v *TypeVar) String() string { return v.Decl.String() }

// Forall is universal quantification over a list of TypeVars, wrapping
// the body type of a generic function or alias.
type Forall struct {
	base
	Params []*TypeVar
	Bounds map[*TypeVar]Bound
	Body   Type
}

func (f *Forall) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("forall[%s] %s", strings.Join(parts, ", "), f.Body)
}

// Bound is a type parameter's declared constraint interval, distinct
// from the inferred Interval of §4.6: a Bound is user-written
// (`T: L..U`), an Interval is computed per call site.
type Bound struct {
	Lower Type // nil means unbounded (Bottom)
	Upper Type // nil means unbounded (Top)
}

// NominalDecl is the minimal view of a declaration node this package
// needs to key nominal types by identity. ast.StructDecl, ast.EnumDecl
// and ast.AliasDecl implement it.
type NominalDecl interface {
	DeclIdent() common.Ident
}

// Struct is a nominal struct type. IsTupleLit distinguishes struct
// declarations carrying named fields from tuple-like ones carrying
// positional members (spec §4.3 step 2:
// "constructor reference for a tuple-like struct").
type Struct struct {
	base
	Decl       NominalDecl
	Fields     []Field
	IsTupleLit bool
}

type Field struct {
	Name common.Ident
	Type Type
}

func (s *Struct) String() string { return s.Decl.DeclIdent().String() }

// Enum is a nominal sum type; each Option is either unit, tuple-like
// (positional Fields), or record-like (named Fields) — spec §4.3 step 3.
type Enum struct {
	base
	Decl    NominalDecl
	Options []EnumOption
}

type EnumOptionShape int

const (
	OptionUnit EnumOptionShape = iota
	OptionTuple
	OptionRecord
)

type EnumOption struct {
	Name   common.Ident
	Shape  EnumOptionShape
	Fields []Field
}

func (e *Enum) String() string { return e.Decl.DeclIdent().String() }

// Alias is a nominal `type A[TPs] = B` declaration. Per spec §4.1,
// Alias values are only ever seen before application; TypeApp(Alias,
// args) always expands to the substituted body and is never itself an
// Alias or a TypeApp.
type Alias struct {
	base
	Decl   NominalDecl
	Params []*TypeVar
	Body   Type
}

func (a *Alias) String() string { return a.Decl.DeclIdent().String() }

// TypeApp is `applied[args]` where applied is a Struct or Enum (never
// an Alias — see Table.TypeApp). It is never interned structurally:
// two TypeApps with equal Applied/Args are still distinct Go values,
// since applying an Alias argument list can itself require expansion.
type TypeApp struct {
	base
	Applied Type // *Struct or *Enum
	Args    []Type
}

func (t *TypeApp) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", t.Applied, strings.Join(parts, ", "))
}

// ImplicitParam wraps an underlying type to mark "summon a value of
// Underlying at this position" (spec §3, §4.4 Coerce rule 1).
type ImplicitParam struct {
	base
	Underlying Type
}

func (p *ImplicitParam) String() string {
	return fmt.Sprintf("implicit %s", p.Underlying)
}

// Module is the type of a module value: the path resolver's Module
// case (spec §4.3 step 3, "Module type -> resolve named member").
// It is nominal, keyed by the module declaration's identity, the same
// way Struct/Enum/Alias are.
type Module struct {
	base
	Decl NominalDecl
}

func (m *Module) String() string { return m.Decl.DeclIdent().String() }
