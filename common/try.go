package common

import (
	"runtime/debug"

	"github.com/pkg/errors"
)

// Try runs f and converts an internal-bug panic (an Assert failure, a
// double-resolve of an AST node's type slot, an unreachable type switch
// arm) into an error plus a stack trace, instead of letting it crash the
// host process. check.Session.CheckModule wraps its top-level traversal
// in this so that a checker bug degrades to a single internal-error
// diagnostic rather than taking down an embedding language server.
func Try[T any](f func() T) (result T, err error, stack string) {
	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case error:
				err = r
			default:
				err = errors.Errorf("%v", r)
			}
			stack = string(debug.Stack())
		}
	}()
	return f(), nil, ""
}
