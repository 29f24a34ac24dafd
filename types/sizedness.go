package types

import "github.com/arborlang/sema/algos"

// Unsized reports whether t is a nominal aggregate that is recursive
// without going through a pointer (spec §4.2 "Sizedness", spec §4.5
// "finally check that the type is sized"). Grounded on algos.cycle.go's
// HasSelfCycle, with the edge function restricted to direct, non-pointer
// member types, exactly as the teacher's FindCycle is used over
// dependency graphs elsewhere in gobid.
func Unsized(t Type) bool {
	switch t := t.(type) {
	case *Struct:
		return algos.HasSelfCycle(Type(t), directMembers)
	case *Enum:
		return algos.HasSelfCycle(Type(t), directMembers)
	default:
		return false
	}
}

// directMembers yields the member types of t that count as edges for
// sizedness purposes: types reachable without going through a Pointer
// (spec §4.2: "without going through a pointer"). A struct/enum's
// fields are the graph's nominal nodes; a Tuple/SizedArray/UnsizedArray/
// ImplicitParam a field's type happens to be is not itself a node worth
// comparing against the cycle's start, so its own elements are emitted
// as further edges instead of the aggregate itself — otherwise
// HasSelfCycle's dfs would only ever see the wrapping aggregate and
// never the embedded self-reference, exactly as original_source's
// TupleType::is_sized/ArrayType::is_sized recurse through their
// elements rather than stopping at the aggregate.
func directMembers(t Type) []Type {
	var out []Type
	add := func(member Type) {
		switch member.(type) {
		case *Pointer:
			return
		default:
			out = append(out, member)
		}
	}
	switch t := t.(type) {
	case *Struct:
		for _, f := range t.Fields {
			add(f.Type)
		}
	case *Enum:
		for _, opt := range t.Options {
			for _, f := range opt.Fields {
				add(f.Type)
			}
		}
	case *TypeApp:
		add(t.Applied)
	case *Tuple:
		for _, e := range t.Elems {
			add(e)
		}
	case *SizedArray:
		add(t.Elem)
	case *UnsizedArray:
		add(t.Elem)
	case *ImplicitParam:
		add(t.Underlying)
	}
	return out
}
