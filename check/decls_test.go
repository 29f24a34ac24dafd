package check

import (
	"testing"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

func TestCheckFuncDeclAnnotatedReturn(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:   typedPat(idPat("x"), primTypeExpr(types.I32)),
		RetType: primTypeExpr(types.I32),
		Body:    &ast.BlockExpr{Trailing: localPath("x")},
	}
	s.CheckDecl(fn)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	fnTy, ok := fn.Resolved().(*types.Function)
	if !ok {
		t.Fatalf("expected *types.Function, got %T", fn.Resolved())
	}
	if primitiveKindOf(t, fnTy.Dom) != types.I32 || primitiveKindOf(t, fnTy.Codom) != types.I32 {
		t.Fatalf("expected (i32) -> i32, got %v", fnTy)
	}
}

// TestCheckFuncDeclFilterValidatesPurity covers spec §4.7's filter
// surface now being reachable from CheckDecl (previously only
// check/filter_test.go's direct CheckFilterExpr calls exercised it): a
// filter that calls a function must be rejected, in the same
// annotated-return path checkFuncDecl uses to resolve d before the
// body is checked.
func TestCheckFuncDeclFilterValidatesPurity(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:   typedPat(idPat("x"), primTypeExpr(types.I32)),
		RetType: primTypeExpr(types.I32),
		Body:    &ast.BlockExpr{Trailing: localPath("x")},
		Filter:  &ast.CallExpr{Callee: localPath("f"), Arg: &ast.TupleExpr{}},
	}
	s.CheckDecl(fn)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for the filter, got %+v", sink.Diagnostics())
	}
}

// TestCheckFuncDeclUnannotatedFilterValidatesPurity covers the same
// wiring in checkFuncDecl's unannotated-return branch.
func TestCheckFuncDeclUnannotatedFilterValidatesPurity(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:  unitParam(),
		Body:   &ast.BlockExpr{Trailing: litBool(true)},
		Filter: &ast.BinaryExpr{Op: ast.OpAssign, Left: localPath("x"), Right: litInt(1)},
	}
	s.CheckDecl(fn)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for the filter, got %+v", sink.Diagnostics())
	}
}

func TestCheckFuncDeclUnannotatedReturnInfersFromBody(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param: unitParam(),
		Body:  &ast.BlockExpr{Trailing: litBool(true)},
	}
	s.CheckDecl(fn)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	fnTy, ok := fn.Resolved().(*types.Function)
	if !ok || primitiveKindOf(t, fnTy.Codom) != types.Bool {
		t.Fatalf("expected codomain bool, got %v", fn.Resolved())
	}
}

func TestCheckFuncDeclReturnMismatchReportsIncompatibleTypes(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:   unitParam(),
		RetType: primTypeExpr(types.Bool),
		Body:    &ast.BlockExpr{Trailing: litInt(1)},
	}
	s.CheckDecl(fn)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleTypes) {
		t.Fatalf("expected incompatible-types diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestCheckStructDeclFieldTypesAndSelfReference(t *testing.T) {
	// struct Node { value: i32, next: *Node }
	s, sink := newTestSession(t)
	node := &ast.StructDecl{}
	setIdent(node, "Node")
	node.Fields = []*ast.FieldDecl{
		fieldDecl("value", primTypeExpr(types.I32)),
		fieldDecl("next", &ast.PointerTypeExpr{Pointee: namedTypeExpr(node), IsMut: false}),
	}

	s.CheckDecl(node)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	st, ok := node.Resolved().(*types.Struct)
	if !ok {
		t.Fatalf("expected *types.Struct, got %T", node.Resolved())
	}
	if len(st.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(st.Fields))
	}
	ptr, ok := st.Fields[1].Type.(*types.Pointer)
	if !ok || ptr.Pointee != st {
		t.Fatalf("expected next field to point back at the same *types.Struct, got %v", st.Fields[1].Type)
	}
}

func TestCheckStructDeclTupleLitClassifiesAsCtor(t *testing.T) {
	// struct Pair(i32, bool);
	s, sink := newTestSession(t)
	decl := &ast.StructDecl{
		IsTupleLit: true,
		Fields: []*ast.FieldDecl{
			fieldDecl("_0", primTypeExpr(types.I32)),
			fieldDecl("_1", primTypeExpr(types.Bool)),
		},
	}
	setIdent(decl, "Pair")
	s.CheckDecl(decl)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}

	ty := s.ResolvePath(namedPath(decl, "Pair"), true, nil)
	fn, ok := ty.(*types.Function)
	if !ok {
		t.Fatalf("expected the tuple-lit struct to resolve as a constructor function, got %T", ty)
	}
	tup, ok := fn.Dom.(*types.Tuple)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("expected a 2-element tuple domain, got %v", fn.Dom)
	}
}

func TestCheckEnumDeclOptionShapesAndSelfReference(t *testing.T) {
	// enum List { Nil, Cons(i32, *List) }
	s, sink := newTestSession(t)
	en := &ast.EnumDecl{}
	setIdent(en, "List")
	en.Options = []*ast.EnumOptionDecl{
		optionDecl("Nil", nil),
		optionDecl("Cons", []*ast.FieldDecl{
			fieldDecl("_0", primTypeExpr(types.I32)),
			fieldDecl("_1", &ast.PointerTypeExpr{Pointee: namedTypeExpr(en), IsMut: false}),
		}),
	}

	s.CheckDecl(en)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	enTy, ok := en.Resolved().(*types.Enum)
	if !ok {
		t.Fatalf("expected *types.Enum, got %T", en.Resolved())
	}
	if enTy.Options[0].Shape != types.OptionUnit {
		t.Fatalf("expected Nil to be unit-shaped, got %v", enTy.Options[0].Shape)
	}
	if enTy.Options[1].Shape != types.OptionTuple {
		t.Fatalf("expected Cons to be tuple-shaped, got %v", enTy.Options[1].Shape)
	}
	ptr, ok := enTy.Options[1].Fields[1].Type.(*types.Pointer)
	if !ok || ptr.Pointee != enTy {
		t.Fatalf("expected Cons's second field to point back at the same *types.Enum, got %v", enTy.Options[1].Fields[1].Type)
	}
}

func TestCheckEnumDeclUnsizedReportsUnsizedType(t *testing.T) {
	// enum Bad { Self(Bad) } -- a non-pointer self-reference can never
	// terminate, so types.Unsized must flag it rather than recursing forever.
	s, sink := newTestSession(t)
	en := &ast.EnumDecl{}
	setIdent(en, "Bad")
	en.Options = []*ast.EnumOptionDecl{
		optionDecl("Self", []*ast.FieldDecl{fieldDecl("_0", namedTypeExpr(en))}),
	}
	s.CheckDecl(en)
	if !hasCode(sink.Diagnostics(), diag.CodeUnsizedType) {
		t.Fatalf("expected unsized-type diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestCheckAliasDecl(t *testing.T) {
	// type IntPair = (i32, i32);
	s, sink := newTestSession(t)
	alias := &ast.AliasDecl{Body: &ast.TupleTypeExpr{Elems: []ast.TypeExpr{primTypeExpr(types.I32), primTypeExpr(types.I32)}}}
	setIdent(alias, "IntPair")
	s.CheckDecl(alias)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
	if _, ok := alias.Resolved().(*types.Alias); !ok {
		t.Fatalf("expected *types.Alias, got %T", alias.Resolved())
	}
}

func TestCheckStaticDeclConstantInit(t *testing.T) {
	s, sink := newTestSession(t)
	static := &ast.StaticDecl{
		Type: primTypeExpr(types.I32),
		Init: &ast.BinaryExpr{Op: ast.OpAdd, Left: litInt(1), Right: litInt(2)},
	}
	setIdent(static, "N")
	s.CheckDecl(static)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestCheckStaticDeclNonConstantInitReportsIncompatibleContext(t *testing.T) {
	s, sink := newTestSession(t)
	fnTy := s.Table.Function(s.Table.Unit(), s.Table.Primitive(types.I32))
	s.DefVar(common.NewIdent("f"), fnTy)
	static := &ast.StaticDecl{
		Type: primTypeExpr(types.I32),
		Init: &ast.CallExpr{Callee: localPath("f"), Arg: &ast.TupleExpr{}},
	}
	setIdent(static, "N")
	s.CheckDecl(static)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestCheckStaticDeclAliasGroupMismatchReportsIncompatibleTypes(t *testing.T) {
	s, sink := newTestSession(t)
	sibling := &ast.StaticDecl{Type: primTypeExpr(types.Bool), Init: litBool(true)}
	setIdent(sibling, "Other")
	static := &ast.StaticDecl{
		Type:       primTypeExpr(types.I32),
		Init:       litInt(1),
		AliasGroup: []*ast.StaticDecl{sibling},
	}
	setIdent(static, "N")
	s.CheckDecl(static)
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleTypes) {
		t.Fatalf("expected incompatible-types diagnostic for the alias-group mismatch, got %+v", sink.Diagnostics())
	}
}

func TestCheckAttributesUnknownNameReportsInvalidAttribute(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:   unitParam(),
		RetType: &ast.TupleTypeExpr{},
		Body:    &ast.BlockExpr{Trailing: &ast.TupleExpr{}},
		Attrs:   []ast.Attribute{{Name: common.NewIdent("nope"), Args: map[string]string{}}},
	}
	s.CheckDecl(fn)
	if !hasCode(sink.Diagnostics(), diag.CodeInvalidAttribute) {
		t.Fatalf("expected invalid-attribute diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestCheckAttributesWrongKindReportsInvalidAttribute(t *testing.T) {
	s, sink := newTestSession(t)
	st := &ast.StructDecl{
		Attrs: []ast.Attribute{{Name: common.NewIdent("import"), Args: map[string]string{"cc": "C", "name": "x"}}},
	}
	setIdent(st, "S")
	s.CheckDecl(st)
	if !hasCode(sink.Diagnostics(), diag.CodeInvalidAttribute) {
		t.Fatalf("expected invalid-attribute diagnostic (import is fn-only), got %+v", sink.Diagnostics())
	}
}

func TestCheckAttributesWrongArityReportsInvalidAttribute(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:   unitParam(),
		RetType: &ast.TupleTypeExpr{},
		Body:    &ast.BlockExpr{Trailing: &ast.TupleExpr{}},
		Attrs:   []ast.Attribute{{Name: common.NewIdent("export"), Args: map[string]string{}}},
	}
	s.CheckDecl(fn)
	if !hasCode(sink.Diagnostics(), diag.CodeInvalidAttribute) {
		t.Fatalf("expected invalid-attribute diagnostic for the missing \"name\" argument, got %+v", sink.Diagnostics())
	}
}

func TestCheckAttributesValidImportPasses(t *testing.T) {
	s, sink := newTestSession(t)
	fn := &ast.FuncDecl{
		Param:   unitParam(),
		RetType: &ast.TupleTypeExpr{},
		Body:    &ast.BlockExpr{Trailing: &ast.TupleExpr{}},
		Attrs:   []ast.Attribute{{Name: common.NewIdent("import"), Args: map[string]string{"cc": "C", "name": "memcpy"}}},
	}
	s.CheckDecl(fn)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestRecursiveDeclarationDetection(t *testing.T) {
	// static A: i32 = B; static B: i32 = A;  -- neither carries an
	// annotation-free type-inference cycle to ground on (statics are
	// always annotated here), so model the cycle through a self-typed
	// alias instead: type A = A;
	s, sink := newTestSession(t)
	alias := &ast.AliasDecl{}
	setIdent(alias, "A")
	alias.Body = namedTypeExpr(alias)

	s.ensureDeclChecked(alias)
	if !hasCode(sink.Diagnostics(), diag.CodeRecursiveDeclaration) {
		t.Fatalf("expected recursive-declaration diagnostic, got %+v", sink.Diagnostics())
	}
}

func TestCheckModuleWalksDeclsAndChildren(t *testing.T) {
	table := types.NewTable()
	sink := diag.NewCollector()
	root := ast.NewModule(common.NewIdent("root"), nil)

	alias := &ast.AliasDecl{Body: primTypeExpr(types.I32)}
	setIdent(alias, "Int32")
	root.Decls = append(root.Decls, alias)

	child := ast.NewModule(common.NewIdent("child"), root)
	childAlias := &ast.AliasDecl{Body: primTypeExpr(types.Bool)}
	setIdent(childAlias, "Flag")
	child.Decls = append(child.Decls, childAlias)
	root.Children[common.NewIdent("child")] = child

	ok := CheckModule(table, sink, root)
	if !ok {
		t.Fatalf("expected CheckModule to succeed, got diagnostics: %+v", sink.Diagnostics())
	}
	if !alias.IsResolved() || !childAlias.IsResolved() {
		t.Fatalf("expected both the root and nested module's declarations to be checked")
	}
}

// fieldDecl and optionDecl build field/option fixtures named up front;
// setIdent handles the remaining case, a struct/enum declared first as
// a bare pointer so a self-referential field type can name it before
// the name itself is set.
func fieldDecl(name string, te ast.TypeExpr) *ast.FieldDecl {
	f := &ast.FieldDecl{Type: te}
	setIdent(f, name)
	return f
}

func optionDecl(name string, fields []*ast.FieldDecl) *ast.EnumOptionDecl {
	o := &ast.EnumOptionDecl{Fields: fields}
	setIdent(o, name)
	return o
}

// setIdent assigns a Decl's promoted Name field via ordinary selector
// syntax: Name is exported even though declBase itself is not, so this
// is just a type switch over the declaration kinds this file uses.
func setIdent(d ast.Decl, name string) {
	ident := common.NewIdent(name)
	switch d := d.(type) {
	case *ast.FieldDecl:
		d.Name = ident
	case *ast.EnumOptionDecl:
		d.Name = ident
	case *ast.StructDecl:
		d.Name = ident
	case *ast.EnumDecl:
		d.Name = ident
	case *ast.AliasDecl:
		d.Name = ident
	case *ast.StaticDecl:
		d.Name = ident
	default:
		panic("setIdent: unsupported decl kind")
	}
}
