package engine

import "slices"

// recalcOrder returns start and every cell downstream of it in topological
// order, start first. The graph must be acyclic.
func (g *graph) recalcOrder(start int) []int {
	type frame struct {
		cell int
		next []int
	}

	visited := map[int]struct{}{start: {}}
	stack := []frame{{cell: start, next: g.successors(start)}}
	var post []int
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.next) == 0 {
			post = append(post, top.cell)
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.next[0]
		top.next = top.next[1:]
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		stack = append(stack, frame{cell: n, next: g.successors(n)})
	}
	slices.Reverse(post)
	return post
}
