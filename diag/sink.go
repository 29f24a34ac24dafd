package diag

// Sink is what the checker reports through. spec §1 treats the
// diagnostics sink as an external collaborator ("the checker calls an
// abstract report(level, loc, msg) collaborator"); this module gives
// that collaborator a concrete Go shape so the rest of the tree has
// something to call and something to assert against in tests.
type Sink interface {
	Report(Diagnostic)
}

// Collector is the default in-memory Sink: every test in this repo,
// and check.Session.CheckModule's bool return, go through one of these.
type Collector struct {
	diagnostics []Diagnostic
	errorCount  int
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
	if d.Severity == Error {
		c.errorCount++
	}
}

func (c *Collector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *Collector) ErrorCount() int {
	return c.errorCount
}

// OK reports whether zero errors were collected — the predicate behind
// check_module's bool return (spec §6).
func (c *Collector) OK() bool {
	return c.errorCount == 0
}

// Limiter wraps a Sink and stops forwarding once max errors have been
// reported. Spec §5 permits, but does not require, stopping after N
// errors; this is the optional wrapper that implements it without
// baking a limit into the checker itself.
type Limiter struct {
	Sink Sink
	Max  int

	errorCount int
}

func NewLimiter(sink Sink, max int) *Limiter {
	return &Limiter{Sink: sink, Max: max}
}

func (l *Limiter) Report(d Diagnostic) {
	if d.Severity == Error {
		if l.Max > 0 && l.errorCount >= l.Max {
			return
		}
		l.errorCount++
	}
	l.Sink.Report(d)
}
