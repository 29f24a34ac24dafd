package types

// Subtype implements spec §4.2's subtyping relation t <: u. Grounded on
// the per-kind-switch shape of the teacher's checker_unify.go
// (UnifySubtype), but direct and boolean rather than constraint-
// emitting: this module's inference is local (spec §1 Non-goals), so
// subtyping never needs to defer a relation for later solving.
func Subtype(t, u Type) bool {
	if _, ok := t.(*NoRet); ok {
		return true
	}
	// a poisoned operand is compatible with anything downstream (spec §3
	// invariant 6: "downstream uses of TypeError are suppressed").
	if _, ok := t.(*TypeErr); ok {
		return true
	}
	if _, ok := u.(*TypeErr); ok {
		return true
	}
	if ref, ok := t.(*Reference); ok {
		return Subtype(ref.Pointee, u)
	}
	if Identical(t, u) {
		return true
	}
	switch u := u.(type) {
	case *Reference:
		if !u.IsMut {
			return Subtype(t, u.Pointee)
		}
		return false
	case *Pointer:
		tp, ok := t.(*Pointer)
		if !ok {
			return false
		}
		if tp.AddrSpace != u.AddrSpace {
			return false
		}
		if u.IsMut {
			// spec §4.2 states &mut T <: &mut U requires T <: U; this
			// requires Identical(T, U) instead. A merely-covariant mut
			// pointer would let a &mut Dog be used where &mut Animal is
			// expected, then have a Cat written through it — unsound
			// aliasing the literal reading would admit. See DESIGN.md.
			return tp.IsMut && Identical(tp.Pointee, u.Pointee)
		}
		return Subtype(tp.Pointee, u.Pointee)
	case *UnsizedArray:
		ta, ok := t.(*SizedArray)
		if !ok || ta.IsSIMD {
			return false
		}
		return Identical(ta.Elem, u.Elem)
	}
	switch t := t.(type) {
	case *Tuple:
		u, ok := u.(*Tuple)
		if !ok || len(t.Elems) != len(u.Elems) {
			return false
		}
		for i := range t.Elems {
			if !Subtype(t.Elems[i], u.Elems[i]) {
				return false
			}
		}
		return len(t.Elems) > 0
	}
	return false
}

// topMarker is Join's "incompatible" result (spec §4.2: "otherwise the
// marker Top").
type topMarker struct{ base }

func (*topMarker) String() string { return "⊤" }

var top Type = &topMarker{}

// Top is the singleton incompatibility marker Join returns when no
// least upper bound exists.
func Top() Type { return top }

func IsTop(t Type) bool {
	_, ok := t.(*topMarker)
	return ok
}

// Join computes t ⊔ u, the least upper bound in the subtype lattice, or
// Top if the pair is incomparable.
func Join(t, u Type) Type {
	// a poisoned operand contributes nothing to the join; the other
	// side's type (real or also poisoned) wins outright, regardless of
	// argument order (spec §3 invariant 6).
	if _, ok := t.(*TypeErr); ok {
		return u
	}
	if _, ok := u.(*TypeErr); ok {
		return t
	}
	if Identical(t, u) {
		return t
	}
	if Subtype(t, u) {
		return u
	}
	if Subtype(u, t) {
		return t
	}
	return top
}

// Variance classifies how a type variable's occurrence affects
// subtyping of the enclosing type.
type Variance int

const (
	Constant Variance = iota
	Covariant
	Contravariant
	Invariant
)

func (v Variance) join(other Variance) Variance {
	if v == other {
		return v
	}
	if v == Constant {
		return other
	}
	if other == Constant {
		return v
	}
	return Invariant
}

// VarianceOf walks t and returns, for every free TypeVar it contains,
// the Variance of that occurrence (spec §4.2 "Variance"). covariant
// is the polarity of the position t itself is read from; function
// domains flip polarity for their subtree, references/pointers/arrays
// are covariant under read and invariant under mutable access.
func VarianceOf(t Type, covariant bool) map[*TypeVar]Variance {
	out := map[*TypeVar]Variance{}
	varianceWalk(t, covariant, out)
	return out
}

func varianceWalk(t Type, covariant bool, out map[*TypeVar]Variance) {
	record := func(v *TypeVar, vr Variance) {
		out[v] = out[v].join(vr)
	}
	polarity := func(cov bool) Variance {
		if cov {
			return Covariant
		}
		return Contravariant
	}
	switch t := t.(type) {
	case *TypeVar:
		record(t, polarity(covariant))
	case *Tuple:
		for _, e := range t.Elems {
			varianceWalk(e, covariant, out)
		}
	case *SizedArray:
		varianceWalk(t.Elem, covariant, out)
	case *UnsizedArray:
		varianceWalk(t.Elem, covariant, out)
	case *Pointer:
		if t.IsMut {
			varianceInvariant(t.Pointee, out)
		} else {
			varianceWalk(t.Pointee, covariant, out)
		}
	case *Reference:
		if t.IsMut {
			varianceInvariant(t.Pointee, out)
		} else {
			varianceWalk(t.Pointee, covariant, out)
		}
	case *Function:
		varianceWalk(t.Dom, !covariant, out)
		varianceWalk(t.Codom, covariant, out)
	case *TypeApp:
		for _, a := range t.Args {
			varianceInvariant(a, out)
		}
	case *Forall:
		varianceWalk(t.Body, covariant, out)
	}
}

func varianceInvariant(t Type, out map[*TypeVar]Variance) {
	for v := range VarianceOf(t, true) {
		out[v] = Invariant
	}
}

// Interval is a type parameter's inferred bound, computed per call site
// (spec §4.6), distinct from the user-declared Bound of §4.5.
type Interval struct {
	Lower Type // nil means Bottom (NoRet)
	Upper Type // nil means Top
}

// Bounds implements spec §4.2's dom.bounds(arg_type): matching dom
// against arg_type produces, for each free variable in dom, an
// Interval derived from the variable's variance at that occurrence.
// The walk is seeded covariant=false: dom is the callee's *domain*, a
// contravariant position (spec §4.2 "Variance"), so a bare domain type
// variable must widen its lower bound from the argument (arg <: param),
// not narrow an upper bound — matching the covariant codomain's
// "result = lower bound" rule in InferTypeArgs instead of fighting it.
func Bounds(dom, argType Type) map[*TypeVar]Interval {
	out := map[*TypeVar]Interval{}
	boundsWalk(dom, argType, false, out)
	return out
}

func widenLower(out map[*TypeVar]Interval, v *TypeVar, t Type) {
	b := out[v]
	if b.Lower == nil {
		b.Lower = t
	} else {
		b.Lower = Join(b.Lower, t)
	}
	out[v] = b
}

func narrowUpper(out map[*TypeVar]Interval, v *TypeVar, t Type) {
	b := out[v]
	if b.Upper == nil {
		b.Upper = t
	} else if Subtype(t, b.Upper) {
		b.Upper = t
	}
	out[v] = b
}

func pinBoth(out map[*TypeVar]Interval, v *TypeVar, t Type) {
	b := out[v]
	b.Lower, b.Upper = t, t
	out[v] = b
}

// boundsWalk matches dom against arg shape-for-shape; covariant
// occurrences contribute an upper bound on the variable, contravariant
// a lower bound, invariant occurrences pin both (spec §4.2).
func boundsWalk(dom, arg Type, covariant bool, out map[*TypeVar]Interval) {
	if v, ok := dom.(*TypeVar); ok {
		if covariant {
			narrowUpper(out, v, arg)
		} else {
			widenLower(out, v, arg)
		}
		return
	}
	switch dom := dom.(type) {
	case *Tuple:
		argT, ok := arg.(*Tuple)
		if !ok || len(argT.Elems) != len(dom.Elems) {
			return
		}
		for i, e := range dom.Elems {
			boundsWalk(e, argT.Elems[i], covariant, out)
		}
	case *SizedArray:
		if argA, ok := arg.(*SizedArray); ok {
			boundsWalk(dom.Elem, argA.Elem, covariant, out)
		}
	case *UnsizedArray:
		if argA, ok := arg.(*UnsizedArray); ok {
			boundsWalk(dom.Elem, argA.Elem, covariant, out)
		}
	case *Pointer:
		argP, ok := arg.(*Pointer)
		if !ok {
			return
		}
		if dom.IsMut {
			pinFree(dom.Pointee, argP.Pointee, out)
		} else {
			boundsWalk(dom.Pointee, argP.Pointee, covariant, out)
		}
	case *Reference:
		argR, ok := arg.(*Reference)
		if !ok {
			return
		}
		if dom.IsMut {
			pinFree(dom.Pointee, argR.Pointee, out)
		} else {
			boundsWalk(dom.Pointee, argR.Pointee, covariant, out)
		}
	case *Function:
		argF, ok := arg.(*Function)
		if !ok {
			return
		}
		boundsWalk(dom.Dom, argF.Dom, !covariant, out)
		boundsWalk(dom.Codom, argF.Codom, covariant, out)
	case *TypeApp:
		argApp, ok := arg.(*TypeApp)
		if !ok || len(argApp.Args) != len(dom.Args) {
			return
		}
		for i, a := range dom.Args {
			pinFree(a, argApp.Args[i], out)
		}
	}
}

func pinFree(dom, arg Type, out map[*TypeVar]Interval) {
	if v, ok := dom.(*TypeVar); ok {
		pinBoth(out, v, arg)
		return
	}
	boundsWalk(dom, arg, true, out)
	boundsWalk(dom, arg, false, out)
}

// Order is the maximum function-arrow nesting depth of t (spec §4.2):
// first-order values are 0.
func Order(t Type) int {
	switch t := t.(type) {
	case *Function:
		d := Order(t.Dom)
		if c := Order(t.Codom); c > d {
			d = c
		}
		return d + 1
	case *Tuple:
		max := 0
		for _, e := range t.Elems {
			if o := Order(e); o > max {
				max = o
			}
		}
		return max
	case *Reference:
		return Order(t.Pointee)
	case *Pointer:
		return Order(t.Pointee)
	default:
		return 0
	}
}
