package check

import (
	"testing"

	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/types"
)

func TestCheckFilterExprAllowsPureSurface(t *testing.T) {
	s, sink := newTestSession(t)
	s.DefVar(common.NewIdent("x"), s.Table.Primitive(types.I32))

	e := &ast.BinaryExpr{
		Op:   ast.OpAdd,
		Left: &ast.UnaryExpr{Op: ast.OpNeg, Operand: localPath("x")},
		Right: &ast.IndexExpr{
			Base:  &ast.DerefExpr{Operand: &ast.AddressExpr{Operand: localPath("x")}},
			Index: litInt(0),
		},
	}
	s.CheckFilterExpr(e)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestCheckFilterExprAllowsProjectionsAndTuples(t *testing.T) {
	s, sink := newTestSession(t)
	e := &ast.TupleExpr{Elems: []ast.Expr{
		&ast.FieldExpr{Base: localPath("x"), Name: common.NewIdent("y")},
		&ast.PositionalExpr{Base: localPath("x"), Index: 0},
	}}
	s.CheckFilterExpr(e)
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}

func TestCheckFilterExprRejectsCall(t *testing.T) {
	s, sink := newTestSession(t)
	s.CheckFilterExpr(&ast.CallExpr{Callee: localPath("f"), Arg: &ast.TupleExpr{}})
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for a call, got %+v", sink.Diagnostics())
	}
}

func TestCheckFilterExprRejectsAssignment(t *testing.T) {
	s, sink := newTestSession(t)
	s.CheckFilterExpr(&ast.BinaryExpr{Op: ast.OpAssign, Left: localPath("x"), Right: litInt(1)})
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for an assignment, got %+v", sink.Diagnostics())
	}
}

func TestCheckFilterExprRejectsShortCircuitLogicWithFixIt(t *testing.T) {
	s, sink := newTestSession(t)
	s.CheckFilterExpr(&ast.BinaryExpr{Op: ast.OpLogAnd, Left: litBool(true), Right: litBool(false)})
	diags := sink.Diagnostics()
	if !hasCode(diags, diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for &&, got %+v", diags)
	}
	found := false
	for _, d := range diags {
		if d.FixIt != nil && d.FixIt.Replacement == "&" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a FixIt suggesting & in place of &&, got %+v", diags)
	}

	s2, sink2 := newTestSession(t)
	s2.CheckFilterExpr(&ast.BinaryExpr{Op: ast.OpLogOr, Left: litBool(true), Right: litBool(false)})
	diags2 := sink2.Diagnostics()
	found2 := false
	for _, d := range diags2 {
		if d.FixIt != nil && d.FixIt.Replacement == "|" {
			found2 = true
		}
	}
	if !found2 {
		t.Fatalf("expected a FixIt suggesting | in place of ||, got %+v", diags2)
	}
}

func TestCheckFilterExprRejectsUnknownForm(t *testing.T) {
	s, sink := newTestSession(t)
	s.CheckFilterExpr(&ast.CastExpr{Operand: litInt(1), Target: primTypeExpr(types.I32)})
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for a cast, got %+v", sink.Diagnostics())
	}
}

func TestCheckFilterPathRejectsMutableReference(t *testing.T) {
	s, sink := newTestSession(t)
	refTy := s.Table.Reference(s.Table.Primitive(types.I32), true, types.DefaultAddrSpace)
	s.DefVar(common.NewIdent("m"), refTy)
	s.CheckFilterExpr(localPath("m"))
	if !hasCode(sink.Diagnostics(), diag.CodeIncompatibleContext) {
		t.Fatalf("expected incompatible-context diagnostic for a mutable-reference path, got %+v", sink.Diagnostics())
	}
}

func TestCheckFilterPathAllowsPlainAndImmutableReference(t *testing.T) {
	s, sink := newTestSession(t)
	s.DefVar(common.NewIdent("x"), s.Table.Primitive(types.I32))
	s.CheckFilterExpr(localPath("x"))
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics for a plain local: %+v", sink.Diagnostics())
	}

	s2, sink2 := newTestSession(t)
	refTy := s2.Table.Reference(s2.Table.Primitive(types.I32), false, types.DefaultAddrSpace)
	s2.DefVar(common.NewIdent("r"), refTy)
	s2.CheckFilterExpr(localPath("r"))
	if !sink2.OK() {
		t.Fatalf("unexpected diagnostics for an immutable-reference local: %+v", sink2.Diagnostics())
	}
}

func TestCheckFilterPathIgnoresUnboundLocal(t *testing.T) {
	s, sink := newTestSession(t)
	// an unbound name has nothing for checkFilterPath's mutable-reference
	// rule to say about it; that classification belongs to the ordinary
	// path resolver, not here.
	s.CheckFilterExpr(localPath("undefined"))
	if !sink.OK() {
		t.Fatalf("unexpected diagnostics: %+v", sink.Diagnostics())
	}
}
