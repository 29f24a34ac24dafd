package check

import "github.com/arborlang/sema/ast"

// EnterRecursionGuard and ExitRecursionGuard bracket the inference of
// one declaration (spec §5: "a set of declarations currently being
// inferred is maintained. Entering a declaration already in the set
// signals an uninferable recursion"). The teacher has no equivalent:
// Go's checker never recurses into an unannotated mutually-recursive
// value declaration the way this language's `let`/`static` can, since
// Go requires either an explicit type or a literal initializer that
// never refers to the binding being declared.
//
// EnterRecursionGuard reports whether decl was already being inferred
// — true means the caller must emit CodeRecursiveDeclaration instead of
// recursing into its body; the re-entering use then sees table.Err() as
// decl's type (typeOfTypedDecl), while decl itself stays unresolved
// until the outer check finishes.
func (s *Session) EnterRecursionGuard(decl ast.Decl) (alreadyInferring bool) {
	if s.inferring.Contains(decl) {
		return true
	}
	s.inferring.Insert(decl)
	return false
}

func (s *Session) ExitRecursionGuard(decl ast.Decl) {
	s.inferring.Remove(decl)
}
