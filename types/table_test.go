package types

import (
	"testing"

	"github.com/arborlang/sema/common"
)

func TestUnitIsUnique(t *testing.T) {
	table := NewTable()
	u1 := table.Unit()
	u2 := table.Tuple(nil)
	if u1 != u2 {
		t.Fatalf("unit() and tuple([]) are not pointer-identical")
	}
}

func TestInterningStructuralEquality(t *testing.T) {
	table := NewTable()
	i32 := table.Primitive(I32)
	a := table.Tuple([]Type{i32, i32})
	b := table.Tuple([]Type{i32, i32})
	if a != b {
		t.Fatalf("two structurally equal tuples were not interned to the same object")
	}
}

func TestSubtypeReflexiveAndNoRet(t *testing.T) {
	table := NewTable()
	i32 := table.Primitive(I32)
	if !Subtype(i32, i32) {
		t.Fatalf("expected t <: t")
	}
	if !Subtype(table.NoRet(), i32) {
		t.Fatalf("expected NoRet <: t")
	}
}

func TestAliasEliminationOnApplication(t *testing.T) {
	table := NewTable()
	u64 := table.Primitive(U64)
	decl := &fakeDecl{name: "Id"}
	param := table.TypeVar(decl, decl.DeclIdent())
	alias := table.Alias(decl, []*TypeVar{param}, param)
	applied := table.TypeApp(alias, []Type{u64})
	if _, isApp := applied.(*TypeApp); isApp {
		t.Fatalf("type_app(alias, args) must never be a TypeApp")
	}
	if applied != u64 {
		t.Fatalf("expected alias application to substitute through to u64, got %v", applied)
	}
}

func TestPointerDoesNotWidenToMutPointer(t *testing.T) {
	table := NewTable()
	i32 := table.Primitive(I32)
	nonMut := table.Pointer(i32, false, DefaultAddrSpace)
	mut := table.Pointer(i32, true, DefaultAddrSpace)
	if Subtype(nonMut, mut) {
		t.Fatalf("non-mut pointer must never be a subtype of a mut pointer")
	}
	if !Subtype(mut, nonMut) {
		t.Fatalf("&mut T <: &U should hold when T <: U")
	}
}

func TestSizedArraySubtypeUnsizedArray(t *testing.T) {
	table := NewTable()
	i32 := table.Primitive(I32)
	sized, err := table.SizedArray(i32, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	unsized := table.UnsizedArray(i32)
	if !Subtype(sized, unsized) {
		t.Fatalf("sized non-SIMD array must be a subtype of the unsized array")
	}
}

func TestSIMDRequiresPrimitiveElement(t *testing.T) {
	table := NewTable()
	decl := &fakeDecl{name: "Pair"}
	pair := table.Struct(decl, nil, false)
	if _, err := table.SizedArray(pair, 4, true); err == nil {
		t.Fatalf("expected an error constructing a SIMD array of a non-primitive element")
	}
}

func TestUnsizedRecursionDetected(t *testing.T) {
	table := NewTable()
	declL := &fakeDecl{name: "L"}
	// struct L { next: L }
	selfField := Field{Name: common.NewIdent("next")}
	l := table.Struct(declL, []Field{selfField}, false)
	selfField.Type = l
	l.Fields[0] = selfField
	if !Unsized(l) {
		t.Fatalf("struct L { next: L } should be unsized")
	}

	declP := &fakeDecl{name: "P"}
	p := table.Struct(declP, nil, false)
	ptrField := Field{Name: common.NewIdent("next"), Type: table.Pointer(p, false, DefaultAddrSpace)}
	p.Fields = append(p.Fields, ptrField)
	if Unsized(p) {
		t.Fatalf("struct P { next: &P } should be sized")
	}
}

type fakeDecl struct{ name string }

func (d *fakeDecl) DeclIdent() common.Ident { return common.NewIdent(d.name) }
