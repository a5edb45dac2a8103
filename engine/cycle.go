package engine

// wouldCycle reports whether start can reach itself through dependents and
// range observers. It must run after the pending edit's edges are installed.
func (g *graph) wouldCycle(start int) bool {
	stack := g.successors(start)
	seen := make(map[int]struct{})
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == start {
			return true
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		stack = append(stack, g.successors(n)...)
	}
	return false
}
