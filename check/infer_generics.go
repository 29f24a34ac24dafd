package check

import (
	"fmt"

	"github.com/arborlang/sema/types"
)

// InferTypeArgs implements resolve.InferFunc: spec §4.6's bounds-
// directed inference engine. gobid's checker_unify.go/checker_generics.go
// solve generics through global iterative constraint unification
// (Verify/Unify/Subst fixpoint, grounded on Go's much richer generic
// constraint language); spec §1 Non-goals explicitly excludes "full
// Hindley-Milner unification... inference is strictly local and
// directed", so this is a direct one-pass computation instead, built
// straight from spec §4.6's four numbered steps.
func (s *Session) InferTypeArgs(forall *types.Forall, argType types.Type, explicit []types.Type) ([]types.Type, error) {
	fn, ok := forall.Body.(*types.Function)
	if !ok {
		return nil, fmt.Errorf("generic callee is not a function type")
	}

	bounds := types.Bounds(fn.Dom, argType)
	variance := types.VarianceOf(fn.Codom, true)

	result := make([]types.Type, len(forall.Params))
	for i, p := range forall.Params {
		if i < len(explicit) {
			result[i] = explicit[i]
			continue
		}

		iv := bounds[p]
		lower, upper := iv.Lower, iv.Upper
		if lower == nil {
			lower = s.Table.NoRet()
		}
		if upper == nil {
			upper = types.Top()
		}

		if types.IsTop(lower) {
			return nil, fmt.Errorf("cannot infer type argument for %s: no common lower bound", p)
		}
		if _, isBottom := upper.(*types.NoRet); isBottom {
			return nil, fmt.Errorf("cannot infer type argument for %s: no valid upper bound", p)
		}
		if !types.IsTop(upper) && !types.Subtype(lower, upper) {
			return nil, fmt.Errorf("cannot infer type argument for %s: %s is not a subtype of %s", p, lower, upper)
		}

		switch variance[p] {
		case types.Contravariant:
			if types.IsTop(upper) {
				return nil, fmt.Errorf("cannot infer type argument for %s", p)
			}
			result[i] = upper
		default: // Covariant, Constant, Invariant
			result[i] = lower
		}
	}

	// Step 3: user-supplied arguments must respect the computed bounds.
	for i, p := range forall.Params {
		if i >= len(explicit) {
			continue
		}
		iv := bounds[p]
		if iv.Lower != nil && !types.Subtype(iv.Lower, result[i]) {
			return nil, fmt.Errorf("type argument for %s violates its lower bound", p)
		}
		if iv.Upper != nil && !types.Subtype(result[i], iv.Upper) {
			return nil, fmt.Errorf("type argument for %s violates its upper bound", p)
		}
	}

	for i, r := range result {
		if r == nil {
			return nil, fmt.Errorf("cannot infer type argument for %s", forall.Params[i])
		}
	}
	return result, nil
}
