package types

// Identical is structural identity for non-nominal kinds (after
// interning these should already be pointer-equal; Identical exists
// for values built outside the Table, e.g. test fixtures, and for
// nominal kinds where pointer identity already coincides with
// declaration identity). Grounded on checker_eq.go's Identical, one
// case per kind.
func Identical(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *Primitive:
		b, ok := b.(*Primitive)
		return ok && a.Kind == b.Kind
	case *Tuple:
		b, ok := b.(*Tuple)
		if !ok || len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Identical(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case *SizedArray:
		b, ok := b.(*SizedArray)
		return ok && a.Size == b.Size && a.IsSIMD == b.IsSIMD && Identical(a.Elem, b.Elem)
	case *UnsizedArray:
		b, ok := b.(*UnsizedArray)
		return ok && Identical(a.Elem, b.Elem)
	case *Pointer:
		b, ok := b.(*Pointer)
		return ok && a.IsMut == b.IsMut && a.AddrSpace == b.AddrSpace && Identical(a.Pointee, b.Pointee)
	case *Reference:
		b, ok := b.(*Reference)
		return ok && a.IsMut == b.IsMut && a.AddrSpace == b.AddrSpace && Identical(a.Pointee, b.Pointee)
	case *Function:
		b, ok := b.(*Function)
		return ok && Identical(a.Dom, b.Dom) && Identical(a.Codom, b.Codom)
	case *NoRet:
		_, ok := b.(*NoRet)
		return ok
	case *TypeErr:
		_, ok := b.(*TypeErr)
		return ok
	case *TypeVar:
		b, ok := b.(*TypeVar)
		return ok && a.id == b.id
	case *Struct:
		b, ok := b.(*Struct)
		return ok && a.Decl == b.Decl
	case *Enum:
		b, ok := b.(*Enum)
		return ok && a.Decl == b.Decl
	case *Alias:
		b, ok := b.(*Alias)
		return ok && a.Decl == b.Decl
	case *TypeApp:
		b, ok := b.(*TypeApp)
		if !ok || len(a.Args) != len(b.Args) || !Identical(a.Applied, b.Applied) {
			return false
		}
		for i := range a.Args {
			if !Identical(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *ImplicitParam:
		b, ok := b.(*ImplicitParam)
		return ok && Identical(a.Underlying, b.Underlying)
	case *Forall:
		b, ok := b.(*Forall)
		return ok && len(a.Params) == len(b.Params) && Identical(a.Body, b.Body)
	default:
		return false
	}
}
