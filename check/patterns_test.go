package check

import (
	"testing"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

func TestInferIdPatternBindsPlainAndMut(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)

	ty := s.InferPattern(idPat("x"), i32)
	if ty != i32 {
		t.Fatalf("expected id pattern to return the scrutinee, got %v", ty)
	}
	bound, ok := s.LookupVar(common.NewIdent("x"))
	if !ok || bound != i32 {
		t.Fatalf("expected x bound to %v, got %v (ok=%v)", i32, bound, ok)
	}

	s.InferPattern(mutIdPat("y"), i32)
	boundMut, ok := s.LookupVar(common.NewIdent("y"))
	if !ok {
		t.Fatalf("expected y to be bound")
	}
	ref, ok := boundMut.(*types.Reference)
	if !ok || !ref.IsMut || ref.Pointee != i32 {
		t.Fatalf("expected y bound to a mut reference to %v, got %v", i32, boundMut)
	}
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestInferWildcardPatternReturnsScrutinee(t *testing.T) {
	s, _ := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	if ty := s.InferPattern(&ast.WildcardPattern{}, i32); ty != i32 {
		t.Fatalf("expected wildcard pattern to return the scrutinee, got %v", ty)
	}
}

func TestInferLiteralPatternKinds(t *testing.T) {
	s, sink := newTestSession(t)
	cases := []struct {
		p    ast.Pattern
		kind types.PrimitiveKind
	}{
		{&ast.LiteralPattern{Kind: ast.LitInt, IntValue: 1}, types.I32},
		{&ast.LiteralPattern{Kind: ast.LitBool, BoolValue: true}, types.Bool},
		{&ast.LiteralPattern{Kind: ast.LitChar, CharValue: 'a'}, types.U8},
	}
	for _, c := range cases {
		ty := s.InferPattern(c.p, nil)
		if primitiveKindOf(t, ty) != c.kind {
			t.Fatalf("expected %v, got %v", c.kind, ty)
		}
	}
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}

	arr := s.InferPattern(&ast.LiteralPattern{Kind: ast.LitString, StringValue: "hi"}, nil)
	if _, ok := arr.(*types.SizedArray); !ok {
		t.Fatalf("expected a sized array for a string literal pattern, got %T", arr)
	}
}

func TestInferLiteralPatternFloatIsRejected(t *testing.T) {
	s, sink := newTestSession(t)
	s.InferPattern(&ast.LiteralPattern{Kind: ast.LitFloat}, nil)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for a float literal pattern, got %+v", sink.Diagnostics())
	}
}

func TestInferTuplePatternMatchesElemsAndArity(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	boolTy := s.Table.Primitive(types.Bool)
	tup := s.Table.Tuple([]types.Type{i32, boolTy})

	p := &ast.TuplePattern{Elems: []ast.Pattern{idPat("a"), idPat("b")}}
	ty := s.InferPattern(p, tup)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	if _, ok := ty.(*types.Tuple); !ok {
		t.Fatalf("expected *types.Tuple, got %T", ty)
	}
	a, _ := s.LookupVar(common.NewIdent("a"))
	b, _ := s.LookupVar(common.NewIdent("b"))
	if a != i32 || b != boolTy {
		t.Fatalf("expected a:i32, b:bool, got a=%v b=%v", a, b)
	}
}

func TestInferTuplePatternArityMismatchReportsBadArity(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	tup := s.Table.Tuple([]types.Type{i32, i32})

	p := &ast.TuplePattern{Elems: []ast.Pattern{idPat("a")}}
	s.InferPattern(p, tup)
	if !hasCode(sink.Diagnostics(), diag.CodeBadArity) {
		t.Fatalf("expected bad-arity diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestInferArrayPatternMatchesSizeAndRejectsNonArray(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	arrTy, err := s.Table.SizedArray(i32, 2, false)
	if err != nil {
		t.Fatalf("unexpected error building array type: %v", err)
	}

	ok := &ast.ArrayPattern{Elems: []ast.Pattern{idPat("a"), idPat("b")}}
	ty := s.InferPattern(ok, arrTy)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	if ty != arrTy {
		t.Fatalf("expected the array pattern to return the scrutinee array type, got %v", ty)
	}

	mismatched := &ast.ArrayPattern{Elems: []ast.Pattern{idPat("a")}}
	s.InferPattern(mismatched, arrTy)
	if !hasCode(sink.Diagnostics(), diag.CodeBadArity) {
		t.Fatalf("expected bad-arity diagnostic for the size mismatch, got %+v", sink.Diagnostics())
	}

	s2, sink2 := newTestSession(t)
	s2.InferPattern(&ast.ArrayPattern{Elems: []ast.Pattern{idPat("a")}}, i32)
	if !hasCode(sink2.Diagnostics(), diag.CodeKindExpected) {
		t.Fatalf("expected kind-expected diagnostic against a non-array scrutinee, got %+v", sink2.Diagnostics())
	}
}

func TestInferRecordPatternMatchesFieldsAndRequiresCompleteness(t *testing.T) {
	// struct Point { x: i32, y: i32 }
	s, sink := newTestSession(t)
	point := &ast.StructDecl{}
	setIdent(point, "Point")
	point.Fields = []*ast.FieldDecl{
		fieldDecl("x", primTypeExpr(types.I32)),
		fieldDecl("y", primTypeExpr(types.I32)),
	}
	s.CheckDecl(point)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics checking Point: %+v", sink.Diagnostics())
	}

	complete := &ast.RecordPattern{
		Type: namedPath(point, "Point"),
		Fields: []ast.FieldPattern{
			{Name: common.NewIdent("x"), Pattern: idPat("px")},
			{Name: common.NewIdent("y"), Pattern: idPat("py")},
		},
	}
	s.InferPattern(complete, nil)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}

	s2, sink2 := newTestSession(t)
	s2.ensureDeclChecked(point)
	incomplete := &ast.RecordPattern{
		Type:   namedPath(point, "Point"),
		Fields: []ast.FieldPattern{{Name: common.NewIdent("x"), Pattern: idPat("px")}},
	}
	s2.InferPattern(incomplete, nil)
	if !hasCode(sink2.Diagnostics(), diag.CodeUnknownMember) {
		t.Fatalf("expected an unknown-member diagnostic for the missing field y, got %+v", sink2.Diagnostics())
	}

	s3, sink3 := newTestSession(t)
	s3.ensureDeclChecked(point)
	withRest := &ast.RecordPattern{
		Type:    namedPath(point, "Point"),
		Fields:  []ast.FieldPattern{{Name: common.NewIdent("x"), Pattern: idPat("px")}},
		HasRest: true,
	}
	s3.InferPattern(withRest, nil)
	if !sink3.OK() {
		t.Fatalf("expected `...` to excuse the missing y field, got %+v", sink3.Diagnostics())
	}
}

// TestInferRecordPatternThroughEnumRecordOptionMultiElementPath exercises
// a two-element path (Shape::Circle) through resolve.Resolve, confirming
// the member step at the transition into element 1 uses element 1's own
// name ("Circle") against the type element 0 ("Shape") left behind,
// rather than re-using element 0's own name for that step.
func TestInferRecordPatternThroughEnumRecordOptionMultiElementPath(t *testing.T) {
	s, sink := newTestSession(t)
	shape := &ast.EnumDecl{}
	setIdent(shape, "Shape")
	shape.Options = []*ast.EnumOptionDecl{
		optionDecl("Circle", []*ast.FieldDecl{fieldDecl("radius", primTypeExpr(types.I32))}),
	}
	s.CheckDecl(shape)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics checking Shape: %+v", sink.Diagnostics())
	}

	p := &ast.RecordPattern{
		Type:   namedPath(shape, "Shape", "Circle"),
		Fields: []ast.FieldPattern{{Name: common.NewIdent("radius"), Pattern: idPat("r")}},
	}
	ty := s.InferPattern(p, nil)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	st, ok := ty.(*types.Struct)
	if !ok || len(st.Fields) != 1 || st.Fields[0].Name != common.NewIdent("radius") {
		t.Fatalf("expected Circle's record option to resolve to a 1-field struct, got %v", ty)
	}
	r, ok := s.LookupVar(common.NewIdent("r"))
	if !ok || primitiveKindOf(t, r) != types.I32 {
		t.Fatalf("expected r bound to i32, got %v (ok=%v)", r, ok)
	}
}

func TestInferCtorPatternTupleLitStruct(t *testing.T) {
	// struct Pair(i32, bool);
	s, sink := newTestSession(t)
	pair := &ast.StructDecl{
		IsTupleLit: true,
		Fields: []*ast.FieldDecl{
			fieldDecl("_0", primTypeExpr(types.I32)),
			fieldDecl("_1", primTypeExpr(types.Bool)),
		},
	}
	setIdent(pair, "Pair")
	s.CheckDecl(pair)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics checking Pair: %+v", sink.Diagnostics())
	}

	p := &ast.CtorPattern{Type: namedPath(pair, "Pair"), Args: []ast.Pattern{idPat("a"), idPat("b")}}
	ty := s.InferPattern(p, nil)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	if _, ok := ty.(*types.Struct); !ok {
		t.Fatalf("expected the ctor pattern to type as the struct itself, got %T", ty)
	}
	a, _ := s.LookupVar(common.NewIdent("a"))
	b, _ := s.LookupVar(common.NewIdent("b"))
	if primitiveKindOf(t, a) != types.I32 || primitiveKindOf(t, b) != types.Bool {
		t.Fatalf("expected a:i32, b:bool, got a=%v b=%v", a, b)
	}
}

// TestInferCtorPatternTupleShapedEnumOption exercises a tuple-shaped
// enum option constructor pattern: its path's codomain is the bare
// enum (shared by every option), so this only types correctly if the
// option's own field list is threaded through separately from that
// codomain rather than read back off it positionally.
func TestInferCtorPatternTupleShapedEnumOption(t *testing.T) {
	s, sink := newTestSession(t)
	list := &ast.EnumDecl{}
	setIdent(list, "List")
	list.Options = []*ast.EnumOptionDecl{
		optionDecl("Nil", nil),
		optionDecl("Cons", []*ast.FieldDecl{
			fieldDecl("_0", primTypeExpr(types.I32)),
			fieldDecl("_1", &ast.PointerTypeExpr{Pointee: namedTypeExpr(list), IsMut: false}),
		}),
	}
	s.CheckDecl(list)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics checking List: %+v", sink.Diagnostics())
	}

	p := &ast.CtorPattern{Type: namedPath(list, "List", "Cons"), Args: []ast.Pattern{idPat("x"), idPat("rest")}}
	ty := s.InferPattern(p, nil)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	listTy, ok := ty.(*types.Enum)
	if !ok {
		t.Fatalf("expected the ctor pattern to type as the enum itself, got %T", ty)
	}
	x, _ := s.LookupVar(common.NewIdent("x"))
	rest, _ := s.LookupVar(common.NewIdent("rest"))
	if primitiveKindOf(t, x) != types.I32 {
		t.Fatalf("expected x bound to i32, got %v", x)
	}
	ptr, ok := rest.(*types.Pointer)
	if !ok || ptr.Pointee != listTy {
		t.Fatalf("expected rest bound to a pointer back to the same List, got %v", rest)
	}
}

func TestInferCtorPatternArityMismatchReportsBadArity(t *testing.T) {
	s, sink := newTestSession(t)
	list := &ast.EnumDecl{}
	setIdent(list, "List")
	list.Options = []*ast.EnumOptionDecl{
		optionDecl("Cons", []*ast.FieldDecl{
			fieldDecl("_0", primTypeExpr(types.I32)),
			fieldDecl("_1", &ast.PointerTypeExpr{Pointee: namedTypeExpr(list), IsMut: false}),
		}),
	}
	s.CheckDecl(list)

	p := &ast.CtorPattern{
		Type: namedPath(list, "List", "Cons"),
		Args: []ast.Pattern{idPat("a"), idPat("b"), idPat("c")},
	}
	s.InferPattern(p, nil)
	if !hasCode(sink.Diagnostics(), diag.CodeBadArity) {
		t.Fatalf("expected bad-arity diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestInferTypedPatternResolvesAnnotationAndChecksInner(t *testing.T) {
	s, sink := newTestSession(t)
	p := typedPat(idPat("x"), primTypeExpr(types.I32))
	ty := s.InferPattern(p, nil)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	if primitiveKindOf(t, ty) != types.I32 {
		t.Fatalf("expected i32, got %v", ty)
	}
	x, ok := s.LookupVar(common.NewIdent("x"))
	if !ok || primitiveKindOf(t, x) != types.I32 {
		t.Fatalf("expected x bound to i32, got %v (ok=%v)", x, ok)
	}
}

func TestInferImplicitParamPatternDelegatesToInner(t *testing.T) {
	s, _ := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	p := &ast.ImplicitParamPattern{Inner: idPat("x")}
	ty := s.InferPattern(p, i32)
	if ty != i32 {
		t.Fatalf("expected the implicit-param pattern to return the scrutinee, got %v", ty)
	}
}

func TestCheckPatternMustBeTrivialRejectsLiteralPattern(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	s.CheckPattern(&ast.LiteralPattern{Kind: ast.LitInt, IntValue: 1}, i32, MustBeTrivial)
	if !hasCode(sink.Diagnostics(), diag.CodeRefutabilityMismatch) {
		t.Fatalf("expected refutability-mismatch diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestCheckPatternMayBeRefutableAllowsLiteralPattern(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	s.CheckPattern(&ast.LiteralPattern{Kind: ast.LitInt, IntValue: 1}, i32, MayBeRefutable)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestCheckPatternIncompatibleTypesReported(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	s.CheckPattern(&ast.LiteralPattern{Kind: ast.LitBool, BoolValue: true}, i32, MayBeRefutable)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleTypes) {
		t.Fatalf("expected incompatible-types diagnostic, got %+v", sink.Diagnostics())
	}
}

// TestCheckPatternArityMismatchSuppressesIncompatibleTypes covers the
// case the above test used to (incorrectly) exercise: a tuple-pattern
// arity mismatch reports CodeBadArity and resolves to types.Err(), and
// CheckPattern's own Subtype/Identical check must not pile a second
// CodeIncompatibleTypes diagnostic on top of an operand that already
// failed to type (spec §3 invariant 6).
func TestCheckPatternArityMismatchSuppressesIncompatibleTypes(t *testing.T) {
	s, sink := newTestSession(t)
	i32 := s.Table.Primitive(types.I32)
	tup := s.Table.Tuple([]types.Type{i32, i32})
	s.CheckPattern(&ast.TuplePattern{Elems: []ast.Pattern{idPat("a")}}, tup, MayBeRefutable)
	if !hasCode(sink.Diagnostics(), diag.CodeBadArity) {
		t.Fatalf("expected bad-arity diagnostic, got %+v", sink.Diagnostics())
	}
	if hasCode(sink.Diagnostics(), diag.CodeIncompatibleTypes) {
		t.Fatalf("did not expect a cascaded incompatible-types diagnostic, got %+v", sink.Diagnostics())
	}
}
