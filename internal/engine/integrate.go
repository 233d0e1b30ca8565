package engine

import (
	"math"

	"github.com/alexiusacademia/gobeam/internal/beam"
)

// rawDiagrams is the output of one integration pass before boundary
// correction: dense shear/moment samples plus per-node bookkeeping.
type rawDiagrams struct {
	x      []float64
	shear  []float64
	moment []float64

	nodes         []NodeValue
	nodeSample    []int // post-jump sample index per node
	supportSample []int // post-jump sample index per ordered support
	probeSample   []int // sample index per probe coordinate
}

// integrate walks the node set left to right, applying exact jumps at nodes
// and accumulating the distributed load between them with the trapezoid rule
// over a per-segment sub-grid.
//
// Jump rules at a node: a support reaction R adds +R to V, a point force P
// (downward positive) adds −P to V, a point moment M0 adds +M0 to M. Where a
// node carries a jump, its coordinate appears twice in the dense arrays: one
// sample with the incoming values and one with the outgoing values, so the
// discontinuity is represented exactly instead of being smeared across a
// grid step. Rotation and deflection are continuous and derived later, after
// the moment array has been drift-corrected.
func integrate(b *beam.Beam, reactions []float64, ns *nodeSet, opts Options) *rawDiagrams {
	nSeg := len(ns.nodes) - 1
	capacity := opts.Resolution + len(ns.nodes)*2 + nSeg*minSegmentSteps
	raw := &rawDiagrams{
		x:      make([]float64, 0, capacity),
		shear:  make([]float64, 0, capacity),
		moment: make([]float64, 0, capacity),
		nodes:  make([]NodeValue, 0, len(ns.nodes)),
	}
	postSample := make([]int, len(ns.nodes))

	push := func(x, v, m float64) {
		raw.x = append(raw.x, x)
		raw.shear = append(raw.shear, v)
		raw.moment = append(raw.moment, m)
	}

	var V, M float64
	for i, nd := range ns.nodes {
		var dV, dM float64
		for _, si := range nd.supports {
			dV += reactions[si]
		}
		for _, li := range nd.forces {
			dV -= b.Loads[li].(beam.PointForce).Magnitude
		}
		for _, li := range nd.moments {
			dM += b.Loads[li].(beam.PointMoment).Magnitude
		}

		nv := NodeValue{X: nd.x, ShearLeft: V, MomentLeft: M}
		if dV != 0 || dM != 0 {
			push(nd.x, V, M)
		}
		V += dV
		M += dM
		nv.ShearRight, nv.MomentRight = V, M
		push(nd.x, V, M)
		postSample[i] = len(raw.x) - 1
		raw.nodes = append(raw.nodes, nv)

		if i == nSeg {
			break
		}
		a, end := nd.x, ns.nodes[i+1].x
		seg := end - a
		if seg <= 0 {
			continue
		}
		steps := int(math.Round(float64(opts.Resolution) * seg / b.Length))
		if steps < minSegmentSteps {
			steps = minSegmentSteps
		}
		active := activeLoads(b, a, end)
		xPrev := a
		wPrev := intensitySum(active, a)
		for k := 1; k <= steps; k++ {
			xk := a + seg*float64(k)/float64(steps)
			if k == steps {
				xk = end
			}
			dx := xk - xPrev
			wk := intensitySum(active, xk)
			vNext := V - 0.5*dx*(wPrev+wk)
			M += 0.5 * dx * (V + vNext)
			V = vNext
			xPrev, wPrev = xk, wk
			if k < steps {
				push(xk, V, M)
			}
		}
	}

	raw.nodeSample = postSample
	raw.supportSample = make([]int, len(ns.supportNode))
	for i, k := range ns.supportNode {
		raw.supportSample[i] = postSample[k]
	}
	raw.probeSample = make([]int, len(ns.probeNode))
	for i, k := range ns.probeNode {
		raw.probeSample[i] = postSample[k]
	}
	return raw
}

// activeLoads returns the loads whose span covers the open segment (a, b).
// Segment boundaries are nodes, so a load either covers a segment entirely
// or does not touch its interior; point actions never qualify.
func activeLoads(b *beam.Beam, a, end float64) []beam.Load {
	var active []beam.Load
	for _, l := range b.Loads {
		s, e := l.Span()
		if s <= a+coordTol && e >= end-coordTol && e > s {
			active = append(active, l)
		}
	}
	return active
}

// intensitySum evaluates the summed intensity of segment-covering loads.
// Node merging can shift a segment endpoint a sub-tolerance hair outside a
// load's span, so evaluation is clamped into each load's own interval.
func intensitySum(loads []beam.Load, x float64) float64 {
	var w float64
	for _, l := range loads {
		s, e := l.Span()
		xc := x
		if xc < s {
			xc = s
		} else if xc > e {
			xc = e
		}
		w += l.IntensityAt(xc)
	}
	return w
}
