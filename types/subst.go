package types

import "github.com/arborlang/sema/algos"

// Replace substitutes subst throughout t, structure-preserving (spec
// §4.2 "Replace"). Grounded closely on checker_subst.go's ApplySubst:
// one case per kind, recursing into every component, returning the
// input unchanged when nothing under it mentions a substituted
// variable. It does not hash-cons its result: callers that need the
// result interned pass it back through a Table constructor (e.g.
// Table.TypeApp, which calls Replace directly when expanding an
// Alias and never re-interns the tuple/array/etc. types it contains,
// matching the teacher's ApplySubst which also never re-interns).
func Replace(t Type, subst map[*TypeVar]Type) Type {
	if len(subst) == 0 {
		return t
	}
	switch t := t.(type) {
	case *TypeVar:
		if repl, ok := subst[t]; ok {
			return repl
		}
		return t
	case *Tuple:
		elems := make([]Type, len(t.Elems))
		changed := false
		for i, e := range t.Elems {
			elems[i] = Replace(e, subst)
			changed = changed || elems[i] != e
		}
		if !changed {
			return t
		}
		return &Tuple{Elems: elems}
	case *SizedArray:
		elem := Replace(t.Elem, subst)
		if elem == t.Elem {
			return t
		}
		return &SizedArray{Elem: elem, Size: t.Size, IsSIMD: t.IsSIMD}
	case *UnsizedArray:
		elem := Replace(t.Elem, subst)
		if elem == t.Elem {
			return t
		}
		return &UnsizedArray{Elem: elem}
	case *Pointer:
		pointee := Replace(t.Pointee, subst)
		if pointee == t.Pointee {
			return t
		}
		return &Pointer{Pointee: pointee, IsMut: t.IsMut, AddrSpace: t.AddrSpace}
	case *Reference:
		pointee := Replace(t.Pointee, subst)
		if pointee == t.Pointee {
			return t
		}
		return &Reference{Pointee: pointee, IsMut: t.IsMut, AddrSpace: t.AddrSpace}
	case *Function:
		dom := Replace(t.Dom, subst)
		codom := Replace(t.Codom, subst)
		if dom == t.Dom && codom == t.Codom {
			return t
		}
		return &Function{Dom: dom, Codom: codom}
	case *TypeApp:
		args := make([]Type, len(t.Args))
		changed := false
		for i, a := range t.Args {
			args[i] = Replace(a, subst)
			changed = changed || args[i] != a
		}
		applied := Replace(t.Applied, subst)
		if !changed && applied == t.Applied {
			return t
		}
		return &TypeApp{Applied: applied, Args: args}
	case *ImplicitParam:
		underlying := Replace(t.Underlying, subst)
		if underlying == t.Underlying {
			return t
		}
		return &ImplicitParam{Underlying: underlying}
	case *Forall:
		// A Forall introduces its own Params; substituting a variable
		// that it rebinds would capture, so strip any subst entries for
		// t.Params before recursing into Body.
		inner := subst
		for _, p := range t.Params {
			if _, shadowed := subst[p]; shadowed {
				inner = withoutKeys(subst, t.Params)
				break
			}
		}
		body := Replace(t.Body, inner)
		if body == t.Body {
			return t
		}
		return &Forall{Params: t.Params, Bounds: t.Bounds, Body: body}
	default:
		// Primitive, NoRet, TypeErr, Struct, Enum, Alias: nominal or
		// atomic, nothing to substitute into.
		return t
	}
}

func withoutKeys(subst map[*TypeVar]Type, keys []*TypeVar) map[*TypeVar]Type {
	out := map[*TypeVar]Type{}
	for k, v := range subst {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// FreeVars returns the free type variables occurring in t, deduped,
// in first-occurrence order (check.TryCoerce uses it to decide whether
// an expected type still mentions type variables). The walk collects
// every occurrence, duplicates included (a `(T, T)` parameter visits T
// twice), and algos.Uniq dedups the result in one pass afterward.
func FreeVars(t Type) []*TypeVar {
	var out []*TypeVar
	var walk func(Type)
	walk = func(t Type) {
		switch t := t.(type) {
		case *TypeVar:
			out = append(out, t)
		case *Tuple:
			for _, e := range t.Elems {
				walk(e)
			}
		case *SizedArray:
			walk(t.Elem)
		case *UnsizedArray:
			walk(t.Elem)
		case *Pointer:
			walk(t.Pointee)
		case *Reference:
			walk(t.Pointee)
		case *Function:
			walk(t.Dom)
			walk(t.Codom)
		case *TypeApp:
			walk(t.Applied)
			for _, a := range t.Args {
				walk(a)
			}
		case *ImplicitParam:
			walk(t.Underlying)
		case *Forall:
			walk(t.Body)
		}
	}
	walk(t)
	return algos.Uniq(out)
}
