package engine

import (
	"sort"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// node is a structurally significant coordinate together with the events
// bound to it. Jumps in shear and moment happen only at nodes, so every node
// must land exactly on a sample point.
type node struct {
	x        float64
	supports []int // ordered-support indexes whose reaction applies here
	forces   []int // load indexes of point forces at this coordinate
	moments  []int // load indexes of point moments at this coordinate
}

// nodeSet is the ordered, deduplicated breakpoint list for one integration
// pass, with back-references from supports and probe coordinates to their
// nodes.
type nodeSet struct {
	nodes       []node
	supportNode []int // node index per ordered support
	probeNode   []int // node index per probe coordinate
}

// buildNodes derives the breakpoints of a validated beam: {0, L} ∪ support
// positions ∪ distributed-load endpoints ∪ point-load positions ∪ probes.
// Probes are extra coordinates that must receive an exact sample (the
// flexibility solver probes deflections at redundant-support positions);
// they carry no events of their own.
func buildNodes(b *beam.Beam, sup []beam.Support, probes []float64) *nodeSet {
	xs := make([]float64, 0, 2+len(sup)+2*len(b.Loads)+len(probes))
	xs = append(xs, 0, b.Length)
	for _, s := range sup {
		xs = append(xs, s.Position)
	}
	for _, l := range b.Loads {
		start, end := l.Span()
		xs = append(xs, start)
		if end != start {
			xs = append(xs, end)
		}
	}
	xs = append(xs, probes...)
	sort.Float64s(xs)

	merged := xs[:1]
	for _, x := range xs[1:] {
		if x-merged[len(merged)-1] > coordTol {
			merged = append(merged, x)
		}
	}

	ns := &nodeSet{
		nodes:       make([]node, len(merged)),
		supportNode: make([]int, len(sup)),
		probeNode:   make([]int, len(probes)),
	}
	for i, x := range merged {
		ns.nodes[i].x = x
	}

	find := func(x float64) int {
		i := sort.SearchFloat64s(merged, x-coordTol)
		// merged values are > coordTol apart, so at most one candidate.
		if i < len(merged) {
			return i
		}
		return len(merged) - 1
	}
	for i, s := range sup {
		k := find(s.Position)
		ns.nodes[k].supports = append(ns.nodes[k].supports, i)
		ns.supportNode[i] = k
	}
	for li, l := range b.Loads {
		switch t := l.(type) {
		case beam.PointForce:
			k := find(t.Position)
			ns.nodes[k].forces = append(ns.nodes[k].forces, li)
		case beam.PointMoment:
			k := find(t.Position)
			ns.nodes[k].moments = append(ns.nodes[k].moments, li)
		}
	}
	for pi, p := range probes {
		ns.probeNode[pi] = find(p)
	}
	return ns
}
