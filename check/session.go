// Package check is the bidirectional checker (components E and F):
// infer/check dispatch over every expression/pattern/declaration kind,
// the deref/coerce/try-coerce machinery, operator typing, and the
// bounds-directed generic inference engine. Grounded on the teacher's
// Checker/VarContext/TypeContext (checker.go, checker_scope.go,
// context.go) — same Copy-and-fork-scope idiom — generalized from Go's
// single-pass, package-at-a-time checking into the recursive
// module-tree walk spec §5 describes.
package check

import (
	"github.com/arborlang/sema/ast"
	"github.com/arborlang/sema/common"
	"github.com/arborlang/sema/diag"
	"github.com/arborlang/sema/resolve"
	"github.com/arborlang/sema/types"
)

// Session is the gobid Checker's equivalent: an immutable-by-convention
// value threaded through the recursive traversal, copied (not mutated
// in place) every time a new scope is entered, so that a sibling
// branch of the traversal never sees a scope change made by another
// branch.
type Session struct {
	Table *types.Table
	Sink  diag.Sink
	Trace *Trace

	VarCtx *VarScope
	TyCtx  *TypeScope
	Mod    *ModuleScope

	CurFn  *ast.FuncDecl
	RetBox *retBox

	// inferring is the recursion guard of spec §5: declarations
	// currently being inferred, so that a mutually recursive untyped
	// `let` reports CodeRecursiveDeclaration instead of looping forever.
	inferring *common.Set[ast.Decl]

	// moduleScopes caches the *ModuleScope wrapper for each ast.Module
	// reachable from the root, keyed by pointer identity, so that
	// table.Module(...) sees the same NominalDecl for a given module on
	// every lookup regardless of traversal order.
	moduleScopes map[*ast.Module]*ModuleScope
}

// NewSession starts a fresh top-level session over an empty module
// scope. root is the module being checked; it has no parent.
func NewSession(table *types.Table, sink diag.Sink, root *ast.Module) *Session {
	s := &Session{
		Table:        table,
		Sink:         sink,
		Trace:        &Trace{},
		VarCtx:       NewVarScope(),
		TyCtx:        &TypeScope{Vars: map[common.Ident]*types.TypeVar{}},
		inferring:    common.NewSet[ast.Decl](),
		moduleScopes: map[*ast.Module]*ModuleScope{},
	}
	s.Mod = s.moduleScopeFor(root)
	return s
}

// moduleScopeFor returns the cached *ModuleScope wrapping m, building
// it (and its ancestors) on first use by walking m.Parent.
func (s *Session) moduleScopeFor(m *ast.Module) *ModuleScope {
	if m == nil {
		return nil
	}
	if sc, ok := s.moduleScopes[m]; ok {
		return sc
	}
	sc := NewModuleScope(s.Table, m, s.moduleScopeFor(m.Parent))
	s.moduleScopes[m] = sc
	return sc
}

// Copy returns a shallow copy of s: new fields (VarCtx, TyCtx, Mod,
// CurFn) can be overwritten on the copy without disturbing s, while the
// shared Table/Sink/Trace/inferring pointers keep pointing at the same
// underlying state (spec §5: "the type table is the sole mutable store
// besides AST type slots").
func (s *Session) Copy() *Session {
	cp := *s
	return &cp
}

func (s *Session) beginScope(kind ScopeKind) *Session {
	cp := s.Copy()
	cp.VarCtx = s.VarCtx.Fork(kind)
	cp.TyCtx = s.TyCtx.Fork()
	return cp
}

// BeginModuleScope enters mod, forking both the module and variable
// scopes (spec §4.5: modules are the outermost declaration scope).
func (s *Session) BeginModuleScope(mod *ast.Module) *Session {
	cp := s.beginScope(ScopeModule)
	cp.Mod = s.moduleScopeFor(mod)
	return cp
}

// BeginTypeScope enters a struct/enum/alias/fn's type-parameter scope
// (spec §4.5's generic declarations).
func (s *Session) BeginTypeScope() *Session {
	return s.beginScope(ScopeType)
}

// BeginFunctionScope enters fn's body scope, recording fn as CurFn so
// that a `return` inside can find the enclosing function's codomain
// (spec §4.4 "Control-flow expressions").
func (s *Session) BeginFunctionScope(fn *ast.FuncDecl) *Session {
	cp := s.beginScope(ScopeFunction)
	cp.CurFn = fn
	cp.RetBox = &retBox{}
	return cp
}

// retBox carries the enclosing function's codomain, known upfront when
// the return type is annotated (spec §4.5: "if ret is annotated,
// pre-build fn dom -> ret ... Set the declaration's type before the
// body is walked so return inside has context") or still unset
// otherwise, in which case a `return` inside reports cannot-infer
// rather than attempting the iterative flow inference spec §1's
// Non-goals excludes ("inference is strictly local and directed").
type retBox struct {
	declared bool
	ty       types.Type
}

// BeginBlockScope enters a nested `{ ... }` block (spec §4.4 "Blocks").
func (s *Session) BeginBlockScope() *Session {
	return s.beginScope(ScopeBlock)
}

// AssertInFunctionScope panics (an internal bug, not a user diagnostic)
// if called outside a function body — mirrors the teacher's identically
// named helper.
func (s *Session) AssertInFunctionScope() *ast.FuncDecl {
	common.Assert(s.CurFn != nil, "not in function scope")
	return s.CurFn
}

// DefVar binds name at ty in the current variable scope (spec §4.5,
// §4.4 "Patterns": "id binds a name at the checked type").
func (s *Session) DefVar(name common.Ident, ty types.Type) {
	s.VarCtx.Def(name, ty)
}

func (s *Session) LookupVar(name common.Ident) (types.Type, bool) {
	return s.VarCtx.Lookup(name)
}

// DefTypeVar binds a declared type parameter's name to its TypeVar in
// the current type scope. ResolveTypeExpr does not consult this scope:
// a PathTypeExpr naming a type parameter resolves through package
// resolve, via TypeOfDecl's TypeParamDecl case.
func (s *Session) DefTypeVar(name common.Ident, v *types.TypeVar) {
	s.TyCtx.Def(name, v)
}

func (s *Session) LookupTypeVar(name common.Ident) (*types.TypeVar, bool) {
	return s.TyCtx.Lookup(name)
}

// TypeVarFor returns the canonical *types.TypeVar for decl, allocating
// it in the table on first use (spec §4.5's generic-declaration
// registration step).
func (s *Session) TypeVarFor(decl *ast.TypeParamDecl) *types.TypeVar {
	if decl.ResolvedVar == nil {
		decl.ResolvedVar = s.Table.TypeVar(decl, decl.DeclIdent())
	}
	return decl.ResolvedVar
}

// report is a small convenience wrapper so call sites don't repeat
// diag.NewError(...).WithSpan(...) boilerplate for the common
// no-secondary-span case.
func (s *Session) report(code diag.Code, pos diag.Pos, message string) {
	s.Sink.Report(diag.NewError(code, pos, message))
}

func (s *Session) warn(code diag.Code, pos diag.Pos, message string) {
	s.Sink.Report(diag.NewWarning(code, pos, message))
}

// errType reports an error diagnostic at pos and returns the poison
// type, per spec §3 invariant 6 ("downstream uses of TypeError are
// suppressed").
func (s *Session) errType(code diag.Code, pos diag.Pos, message string) types.Type {
	s.report(code, pos, message)
	return s.Table.Err()
}

var _ resolve.DeclTyper = (*Session)(nil)
