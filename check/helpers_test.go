package check

import (
	"testing"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

// newTestSession builds a fresh Session over an empty, unnamed root
// module, plus the Collector it reports through — the shape every test
// in this file and its siblings starts from, mirroring how gobid's own
// tests (and diag/sink.go's doc comment) expect a Collector underneath.
func newTestSession(t *testing.T) (*Session, *diag.Collector) {
	t.Helper()
	table := types.NewTable()
	sink := diag.NewCollector()
	root := ast.NewModule(common.NewIdent("root"), nil)
	return NewSession(table, sink, root), sink
}

func primTypeExpr(kind types.PrimitiveKind) ast.TypeExpr {
	return &ast.PathTypeExpr{
		Elems:     []ast.PathElem{{Name: common.NewIdent(kind.String())}},
		StartDecl: ast.NewBuiltinTypeDecl(kind),
	}
}

func namedTypeExpr(decl ast.Decl, typeArgs ...ast.TypeExpr) ast.TypeExpr {
	return &ast.PathTypeExpr{
		Elems:     []ast.PathElem{{Name: decl.DeclIdent(), TypeArgs: typeArgs}},
		StartDecl: decl,
	}
}

func namedPath(decl ast.Decl, elemNames ...string) *ast.Path {
	elems := make([]ast.PathElem, len(elemNames))
	for i, n := range elemNames {
		elems[i] = ast.PathElem{Name: common.NewIdent(n)}
	}
	return &ast.Path{Elems: elems, StartDecl: decl}
}

func localPath(name string) *ast.Path {
	return &ast.Path{Elems: []ast.PathElem{{Name: common.NewIdent(name)}}}
}

func idPat(name string) ast.Pattern {
	return &ast.IdPattern{Name: common.NewIdent(name)}
}

func mutIdPat(name string) ast.Pattern {
	return &ast.IdPattern{Name: common.NewIdent(name), IsMut: true}
}

func typedPat(inner ast.Pattern, te ast.TypeExpr) ast.Pattern {
	return &ast.TypedPattern{Inner: inner, Type: te}
}

// unitParam is the parameter pattern for a test fn that ignores its
// argument: a fn's parameter pattern must carry a top-level type
// annotation (spec §4.5), so a bare wildcard is not by itself legal.
func unitParam() ast.Pattern {
	return typedPat(idPat("_"), &ast.TupleTypeExpr{})
}

func litInt(n int64) *ast.LiteralExpr { return &ast.LiteralExpr{Kind: ast.LitInt, IntValue: n} }
func litFloat(f float64) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.LitFloat, FloatValue: f}
}
func litBool(b bool) *ast.LiteralExpr { return &ast.LiteralExpr{Kind: ast.LitBool, BoolValue: b} }
func litStr(str string) *ast.LiteralExpr {
	return &ast.LiteralExpr{Kind: ast.LitString, StringValue: str}
}

func hasCode(diags []diag.Diagnostic, code diag.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func primitiveKindOf(t testing.TB, ty types.Type) types.PrimitiveKind {
	t.Helper()
	prim, ok := ty.(*types.Primitive)
	if !ok {
		t.Fatalf("expected *types.Primitive, got %T (%v)", ty, ty)
	}
	return prim.Kind
}
