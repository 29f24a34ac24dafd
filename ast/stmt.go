package ast

// LetStmt is `let p = e;` (spec §4.5).
type LetStmt struct {
	stmtBase
	Pattern Pattern
	Init    Expr
}

// ExprStmt is a bare expression statement. The checker warns when the
// expression is pure, with no side effect (spec §4.4 "Blocks").
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// DeclStmt hoists a nested declaration (a local `struct`, `enum`,
// `type alias`, or `static`) into block scope.
type DeclStmt struct {
	stmtBase
	Decl Decl
}
