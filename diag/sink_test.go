package diag

import "testing"

func TestCollectorOK(t *testing.T) {
	c := NewCollector()
	if !c.OK() {
		t.Fatalf("expected OK on empty collector")
	}
	c.Report(NewWarning(CodeDeadArm, Pos{}, "arm never matches"))
	if !c.OK() {
		t.Fatalf("expected OK with only warnings")
	}
	c.Report(NewError(CodeIncompatibleTypes, Pos{}, "type mismatch"))
	if c.OK() {
		t.Fatalf("expected !OK after an error")
	}
	if c.ErrorCount() != 1 {
		t.Fatalf("got ErrorCount %d, want 1", c.ErrorCount())
	}
	if len(c.Diagnostics()) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(c.Diagnostics()))
	}
}

func TestLimiterStopsForwardingErrors(t *testing.T) {
	c := NewCollector()
	l := NewLimiter(c, 1)
	l.Report(NewError(CodeBadArity, Pos{}, "first"))
	l.Report(NewError(CodeBadArity, Pos{}, "second"))
	if got := len(c.Diagnostics()); got != 1 {
		t.Fatalf("got %d diagnostics forwarded, want 1", got)
	}
}

func TestLimiterPassesWarningsThroughUnlimited(t *testing.T) {
	c := NewCollector()
	l := NewLimiter(c, 1)
	l.Report(NewError(CodeBadArity, Pos{}, "first"))
	l.Report(NewWarning(CodeDeadArm, Pos{}, "warn one"))
	l.Report(NewWarning(CodeDeadArm, Pos{}, "warn two"))
	if got := len(c.Diagnostics()); got != 3 {
		t.Fatalf("got %d diagnostics, want 3 (1 error + 2 warnings)", got)
	}
}
