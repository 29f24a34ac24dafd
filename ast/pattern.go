package ast

import "github.com/arborlang/sema/common"

// IdPattern binds Name at the checked type (spec §4.4 "Patterns": "id
// binds a name at the checked type, wrapping in ref mut for mut
// bindings").
type IdPattern struct {
	patternBase
	Name  common.Ident
	IsMut bool
}

// WildcardPattern is `_`: always trivial, binds nothing.
type WildcardPattern struct {
	patternBase
}

// LiteralPattern matches a literal value. Per spec §4.4, literal
// patterns infer like literal expressions but forbid float.
type LiteralPattern struct {
	patternBase
	Kind        LiteralKind
	IntValue    int64
	BoolValue   bool
	CharValue   byte
	StringValue string
}

// TuplePattern splits a tuple arity-wise.
type TuplePattern struct {
	patternBase
	Elems []Pattern
}

// ArrayPattern is the pattern analogue of ArrayLitExpr, with the SIMD
// flag preserved from the scrutinee's type rather than chosen by the
// pattern.
type ArrayPattern struct {
	patternBase
	Elems []Pattern
}

// FieldPattern is one `name: pattern` entry of a RecordPattern.
type FieldPattern struct {
	Name    common.Ident
	Pattern Pattern
}

// RecordPattern matches a record-shaped struct/enum-option by name;
// HasRest marks a trailing `...` allowing omitted fields (spec §4.4).
type RecordPattern struct {
	patternBase
	Type    *Path
	Fields  []FieldPattern
	HasRest bool
}

// CtorPattern matches a tuple-like struct/enum-option positionally.
type CtorPattern struct {
	patternBase
	Type *Path
	Args []Pattern
}

// TypedPattern is `p: T`: infers T, then checks p against it.
type TypedPattern struct {
	patternBase
	Inner Pattern
	Type  TypeExpr
}

// ImplicitParamPattern wraps an underlying pattern (spec §4.4
// "Patterns": "Implicit-param pattern wraps its underlying").
type ImplicitParamPattern struct {
	patternBase
	Inner Pattern
}

// IsTrivial reports whether p covers every value of its type (spec
// §4.4 "Refutability"). Grounded directly on the per-kind rule there:
// id/wildcard/tuple-of-trivial/array-of-trivial-same-arity/typed-
// trivial/implicit-wrapping-trivial are trivial; literal, record and
// constructor patterns are refutable (a record/ctor pattern always
// names one option of a multi-option enum, or a struct with no
// alternative shape to fail against — but sum-type member patterns
// are treated conservatively as refutable here since distinguishing
// "only option of a single-option enum" from a general struct pattern
// needs the enum's full Option list, which this structural predicate
// does not have; the checker does not make that distinction either).
func IsTrivial(p Pattern) bool {
	switch p := p.(type) {
	case *IdPattern, *WildcardPattern:
		return true
	case *TuplePattern:
		for _, e := range p.Elems {
			if !IsTrivial(e) {
				return false
			}
		}
		return true
	case *ArrayPattern:
		for _, e := range p.Elems {
			if !IsTrivial(e) {
				return false
			}
		}
		return true
	case *TypedPattern:
		return IsTrivial(p.Inner)
	case *ImplicitParamPattern:
		return IsTrivial(p.Inner)
	default:
		return false
	}
}
