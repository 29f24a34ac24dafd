package algos

import "testing"

func TestHasSelfCycleDetectsCycle(t *testing.T) {
	edges := map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
	}
	if !HasSelfCycle("A", func(k string) []string { return edges[k] }) {
		t.Fatalf("expected A -> B -> C -> A to be detected as a self-cycle")
	}
}

func TestHasSelfCycleNoCycle(t *testing.T) {
	edges := map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {},
	}
	if HasSelfCycle("A", func(k string) []string { return edges[k] }) {
		t.Fatalf("expected A -> B -> C to not be a self-cycle")
	}
}

func TestHasSelfCycleIgnoresUnrelatedCycle(t *testing.T) {
	// a cycle elsewhere in the graph (B -> C -> B) must not be mistaken
	// for start itself being reachable from itself.
	edges := map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"B"},
	}
	if HasSelfCycle("A", func(k string) []string { return edges[k] }) {
		t.Fatalf("expected a cycle not involving A to not be reported")
	}
}
