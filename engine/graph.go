package engine

import (
	"slices"

	"github.com/witanlabs/gridcalc/formula"
)

// graph is the dependency graph. Single-cell edges are indexed both ways by
// dense cell index; a range formula is stored once as a rectangle and its
// members are found geometrically.
type graph struct {
	dims
	dependents map[int]map[int]struct{}
	precedents map[int]map[int]struct{}
	ranges     map[int]formula.Rect
}

// graphSnapshot is a cell's outgoing state: what it reads.
type graphSnapshot struct {
	precedents []int
	rect       formula.Rect
	hasRange   bool
}

func newGraph(d dims) *graph {
	return &graph{
		dims:       d,
		dependents: make(map[int]map[int]struct{}),
		precedents: make(map[int]map[int]struct{}),
		ranges:     make(map[int]formula.Rect),
	}
}

func (g *graph) addEdge(precedent, dependent int) {
	link(g.dependents, precedent, dependent)
	link(g.precedents, dependent, precedent)
}

func (g *graph) removeAllPrecedents(cell int) {
	for p := range g.precedents[cell] {
		unlink(g.dependents, p, cell)
	}
	delete(g.precedents, cell)
}

func (g *graph) setRange(cell int, r formula.Rect) { g.ranges[cell] = r }

func (g *graph) clearRange(cell int) { delete(g.ranges, cell) }

// dependentsOf returns the cells that reference cell directly, sorted.
func (g *graph) dependentsOf(cell int) []int { return sortedKeys(g.dependents[cell]) }

func (g *graph) precedentsOf(cell int) []int { return sortedKeys(g.precedents[cell]) }

// rangeObservers returns every range formula cell whose rectangle contains
// cell, sorted.
func (g *graph) rangeObservers(cell int) []int {
	c := g.coord(cell)
	var out []int
	for owner, r := range g.ranges {
		if r.Contains(c) {
			out = append(out, owner)
		}
	}
	slices.Sort(out)
	return out
}

// successors is everything that must be recomputed when cell changes.
func (g *graph) successors(cell int) []int {
	deps := g.dependentsOf(cell)
	obs := g.rangeObservers(cell)
	if len(obs) == 0 {
		return deps
	}
	return append(deps, obs...)
}

func (g *graph) snapshot(cell int) graphSnapshot {
	r, ok := g.ranges[cell]
	return graphSnapshot{precedents: g.precedentsOf(cell), rect: r, hasRange: ok}
}

// restore reinstates exactly the outgoing state captured by snapshot.
func (g *graph) restore(cell int, snap graphSnapshot) {
	g.removeAllPrecedents(cell)
	for _, p := range snap.precedents {
		g.addEdge(p, cell)
	}
	if snap.hasRange {
		g.setRange(cell, snap.rect)
	} else {
		g.clearRange(cell)
	}
}

func link(m map[int]map[int]struct{}, from, to int) {
	set, ok := m[from]
	if !ok {
		set = make(map[int]struct{})
		m[from] = set
	}
	set[to] = struct{}{}
}

func unlink(m map[int]map[int]struct{}, from, to int) {
	set, ok := m[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(m, from)
	}
}

func sortedKeys(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
