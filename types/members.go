package types

import "github.com/arborlang/sema/common"

// Member looks up a named member on a struct or a record-shaped enum
// option carrier, the structural half of spec §4.3 step 3 ("Module ...
// Enum type ... Anything else -> error"); the module/enum-option
// dispatch itself lives in package resolve, which calls this for the
// "resolve option by name" and struct-field sub-steps.
func Member(t Type, name common.Ident) (Type, bool) {
	switch t := t.(type) {
	case *Struct:
		for _, f := range t.Fields {
			if f.Name == name {
				return f.Type, true
			}
		}
	case *TypeApp:
		if applied, ok := Member(t.Applied, name); ok {
			subst := substForApp(t)
			return Replace(applied, subst), true
		}
	}
	return nil, false
}

// Positional looks up the i'th positional member of a tuple or
// tuple-like struct (spec §4.4 "Projection": "index by position in
// tuple or tuple-like struct").
func Positional(t Type, index int) (Type, bool) {
	switch t := t.(type) {
	case *Tuple:
		if index < 0 || index >= len(t.Elems) {
			return nil, false
		}
		return t.Elems[index], true
	case *Struct:
		if !t.IsTupleLit || index < 0 || index >= len(t.Fields) {
			return nil, false
		}
		return t.Fields[index].Type, true
	case *TypeApp:
		if positional, ok := Positional(t.Applied, index); ok {
			return Replace(positional, substForApp(t)), true
		}
	}
	return nil, false
}

// Option looks up a named enum option (spec §4.3 step 3 "Enum type ->
// resolve option by name").
func Option(t Type, name common.Ident) (EnumOption, bool) {
	switch t := t.(type) {
	case *Enum:
		for _, opt := range t.Options {
			if opt.Name == name {
				return opt, true
			}
		}
	case *TypeApp:
		if enum, ok := t.Applied.(*Enum); ok {
			return Option(enum, name)
		}
	}
	return EnumOption{}, false
}

// OptionFields returns opt's fields substituted through t, which may
// be the bare Enum opt came from or a TypeApp wrapping it (spec §4.3
// step 3: a parameterized enum's tuple/record option fields substitute
// the same way a struct member reached through a TypeApp does).
// Callers that only need the option's shape/name, not its fields'
// concrete types, can keep using EnumOption.Fields directly.
func OptionFields(t Type, opt EnumOption) []Field {
	app, ok := t.(*TypeApp)
	if !ok {
		return opt.Fields
	}
	subst := substForApp(app)
	fields := make([]Field, len(opt.Fields))
	for i, f := range opt.Fields {
		fields[i] = Field{Name: f.Name, Type: Replace(f.Type, subst)}
	}
	return fields
}

func substForApp(app *TypeApp) map[*TypeVar]Type {
	subst := map[*TypeVar]Type{}
	var params []*TypeVar
	switch applied := app.Applied.(type) {
	case *Struct:
		if decl, ok := applied.Decl.(genericDecl); ok {
			params = decl.TypeParamsResolved()
		}
	case *Enum:
		if decl, ok := applied.Decl.(genericDecl); ok {
			params = decl.TypeParamsResolved()
		}
	}
	for i, p := range params {
		if i < len(app.Args) {
			subst[p] = app.Args[i]
		}
	}
	return subst
}

// genericDecl is implemented by nominal declarations that carry their
// own type parameter list, needed here to substitute a TypeApp's Args
// into a member's type.
type genericDecl interface {
	TypeParamsResolved() []*TypeVar
}
