// Package algos holds the small graph algorithms shared by the type
// algebra (sizedness, spec §4.2) and the inference engine (bounds/
// variance dedup, spec §4.6). It has no dependency on types or ast so
// that both can import it without a cycle.
package algos

// HasSelfCycle reports whether start is reachable from itself via one or
// more edges, i.e. whether following edges (member types that do not go
// through a pointer indirection, per spec §4.2 "Sizedness") ever leads
// back to start.
func HasSelfCycle[K comparable](start K, edges func(K) []K) bool {
	seen := map[K]bool{}
	var dfs func(K) bool
	dfs = func(k K) bool {
		for _, dep := range edges(k) {
			if dep == start {
				return true
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if dfs(dep) {
				return true
			}
		}
		return false
	}
	return dfs(start)
}
