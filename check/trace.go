package check

import (
	"fmt"
	"io"
)

// Trace is the field-based equivalent of the teacher's package-global
// flag.Bool debug switches (check/debug.go): this package is a library
// embedded by callers, not a cmd/main, so the gates live on Session
// instead of on os.Args (spec §4.8).
type Trace struct {
	Resolve bool
	Infer   bool
	General bool
	Out     io.Writer
}

func (t *Trace) resolvef(format string, args ...any) {
	if t != nil && t.Resolve && t.Out != nil {
		fmt.Fprintf(t.Out, "[resolve] "+format+"\n", args...)
	}
}

func (t *Trace) inferf(format string, args ...any) {
	if t != nil && t.Infer && t.Out != nil {
		fmt.Fprintf(t.Out, "[infer] "+format+"\n", args...)
	}
}

func (t *Trace) generalf(format string, args ...any) {
	if t != nil && t.General && t.Out != nil {
		fmt.Fprintf(t.Out, "[general] "+format+"\n", args...)
	}
}
