package check

import (
	"testing"

	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/types"
)

// TestInferTypeArgsCovariantIdentity covers `id[T](x:T)->T` called as
// `id(true)`: the lone type parameter occurs once in the domain (a
// contravariant position) and once in the covariant codomain, so the
// inferred argument must be the call argument's own type, not `!`
// (spec §4.6 steps 1-2).
func TestInferTypeArgsCovariantIdentity(t *testing.T) {
	s, _ := newTestSession(t)
	tv := s.Table.TypeVar("id.T", common.NewIdent("T"))
	fn := s.Table.Function(tv, tv)
	forall := s.Table.Forall([]*types.TypeVar{tv}, nil, fn)

	boolTy := s.Table.Primitive(types.Bool)
	result, err := s.InferTypeArgs(forall.(*types.Forall), boolTy, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 inferred type argument, got %d", len(result))
	}
	if _, isBottom := result[0].(*types.NoRet); isBottom {
		t.Fatalf("inferred T as bottom (!), want %s", boolTy)
	}
	if !types.Identical(result[0], boolTy) {
		t.Fatalf("inferred T = %s, want %s", result[0], boolTy)
	}
}

// TestInferTypeArgsCovariantInsideTuple covers `foo[T](x:(T,u64))->T`
// called with a tuple argument whose first element is i32: T occurs
// inside a tuple-shaped domain position, still contravariant overall,
// so its lower bound must still come from the argument's first element.
func TestInferTypeArgsCovariantInsideTuple(t *testing.T) {
	s, _ := newTestSession(t)
	tv := s.Table.TypeVar("foo.T", common.NewIdent("T"))
	u64 := s.Table.Primitive(types.U64)
	dom := s.Table.Tuple([]types.Type{tv, u64})
	fn := s.Table.Function(dom, tv)
	forall := s.Table.Forall([]*types.TypeVar{tv}, nil, fn)

	i32 := s.Table.Primitive(types.I32)
	argType := s.Table.Tuple([]types.Type{i32, u64})
	result, err := s.InferTypeArgs(forall.(*types.Forall), argType, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 inferred type argument, got %d", len(result))
	}
	if !types.Identical(result[0], i32) {
		t.Fatalf("inferred T = %s, want %s", result[0], i32)
	}
}
