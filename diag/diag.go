// Package diag is the structured diagnostics sink the checker reports
// through. The teacher has no equivalent package: gobid panics on every
// user-facing type error and lets common.Try at the top level turn the
// panic into a single Go error. This module instead collects
// diagnostics and keeps going, per spec §7 ("diagnostics are emitted but
// checking continues").
package diag

// Severity is how serious a Diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Style is a text-styling hint attached to a labeled span. It is not a
// color: rendering a Style to ANSI, to HTML, or to a language-server
// SemanticTokens list is left to the caller (spec §4.9).
type Style int

const (
	Plain Style = iota
	Keyword
	Literal
	ErrorSpan
)

// Pos is an opaque source location, supplied by whatever produced the
// AST this module is checking (spec §1: AST construction is an external
// collaborator). The checker never constructs a Pos from scratch; it
// copies one off the node it is reporting against.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

// Code is a stable identifier for one of the fifteen error kinds in
// spec §7, plus the internal-error, dead-arm-warning and no-effect
// warning codes this module's expansion adds (SPEC_FULL §4.10, §9).
type Code string

const (
	CodeIncompatibleTypes            Code = "incompatible-types"
	CodeIncompatibleContext          Code = "incompatible-context"
	CodeKindExpected                 Code = "kind-expected"
	CodeUnknownMember                Code = "unknown-member"
	CodeCannotInfer                  Code = "cannot-infer"
	CodeUnreachableCode              Code = "unreachable-code"
	CodeMutableExpected              Code = "mutable-expected"
	CodeBadArity                     Code = "bad-arity"
	CodeInvalidCast                  Code = "invalid-cast"
	CodeInvalidSIMDElement           Code = "invalid-simd-element"
	CodeRefutabilityMismatch         Code = "refutability-mismatch"
	CodeInvalidTypeArgumentConstraint Code = "invalid-type-argument-constraint"
	CodeInvalidAttribute             Code = "invalid-attribute"
	CodeUnsizedType                  Code = "unsized-type"
	CodeRecursiveDeclaration         Code = "recursive-declaration"

	// CodeDeadArm is a warning (SPEC_FULL §9, supplemented from
	// original_source/check.cpp's exhaustiveness pass): a match arm whose
	// pattern can never be reached given the arms before it.
	CodeDeadArm Code = "dead-match-arm"

	// CodeInternal marks a diagnostic synthesized from a recovered
	// internal panic (common.Try), not from a §7 error kind.
	CodeInternal Code = "internal-error"

	// CodeNoEffect is a warning for a pure expression-statement with no
	// side effect (spec §4.4 "Blocks").
	CodeNoEffect Code = "no-effect"
)

// LabeledSpan is a secondary location folded into a Diagnostic's
// message, carrying its own Style (spec §6: "simple text-styling
// hints").
type LabeledSpan struct {
	Pos   Pos
	Label string
	Style Style
}

// FixIt is a suggested edit attached to a Diagnostic. Refutability
// mismatches (§7.11) and filter-validation violations (§4.7) are the
// two call sites that attach one.
type FixIt struct {
	Message     string
	Replacement string
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Pos      Pos
	Message  string
	Spans    []LabeledSpan
	FixIt    *FixIt
}

func (d Diagnostic) WithSpan(pos Pos, label string, style Style) Diagnostic {
	d.Spans = append(d.Spans, LabeledSpan{Pos: pos, Label: label, Style: style})
	return d
}

func (d Diagnostic) WithFixIt(message, replacement string) Diagnostic {
	d.FixIt = &FixIt{Message: message, Replacement: replacement}
	return d
}

func NewError(code Code, pos Pos, message string) Diagnostic {
	return Diagnostic{Severity: Error, Code: code, Pos: pos, Message: message}
}

func NewWarning(code Code, pos Pos, message string) Diagnostic {
	return Diagnostic{Severity: Warning, Code: code, Pos: pos, Message: message}
}

func NewNote(code Code, pos Pos, message string) Diagnostic {
	return Diagnostic{Severity: Note, Code: code, Pos: pos, Message: message}
}
