package beam

// Load is the closed set of actions that can act on a beam. The analysis
// engine only ever talks to this interface; it never inspects the concrete
// kind, so the jump and quadrature logic stays uniform across load types.
//
// Sign conventions (SI units throughout):
//   - vertical forces and distributed intensities are positive downward
//   - point moments are positive counter-clockwise
type Load interface {
	// Span returns the interval of the beam occupied by the load.
	// Point actions return start == end.
	Span() (start, end float64)

	// Resultant returns the net downward force of the load in N.
	// Point moments resolve to zero net force.
	Resultant() float64

	// Centroid returns the coordinate where the resultant acts.
	Centroid() float64

	// MomentAbout returns the load's contribution to the moment balance
	// taken about x: downward forces contribute magnitude times lever arm,
	// point moments contribute their raw magnitude.
	MomentAbout(x float64) float64

	// IntensityAt returns the distributed intensity at x in N/m.
	// Point actions report zero everywhere.
	IntensityAt(x float64) float64
}

// PointForce is a concentrated transverse force.
type PointForce struct {
	Position  float64 // m from the left end
	Magnitude float64 // N, positive downward
}

func (p PointForce) Span() (float64, float64)      { return p.Position, p.Position }
func (p PointForce) Resultant() float64            { return p.Magnitude }
func (p PointForce) Centroid() float64             { return p.Position }
func (p PointForce) MomentAbout(x float64) float64 { return p.Magnitude * (p.Position - x) }
func (p PointForce) IntensityAt(float64) float64   { return 0 }

// PointMoment is a concentrated couple applied inside the span.
type PointMoment struct {
	Position  float64 // m from the left end
	Magnitude float64 // N·m, positive counter-clockwise
}

func (m PointMoment) Span() (float64, float64)    { return m.Position, m.Position }
func (m PointMoment) Resultant() float64          { return 0 }
func (m PointMoment) Centroid() float64           { return m.Position }
func (m PointMoment) MomentAbout(float64) float64 { return m.Magnitude }
func (m PointMoment) IntensityAt(float64) float64 { return 0 }

// DistributedLoad is a linearly varying load over [Start, End]. Equal end
// intensities give a uniform load, a zero endpoint gives a triangular one,
// and the general case is trapezoidal.
type DistributedLoad struct {
	Start          float64 // m
	End            float64 // m
	StartIntensity float64 // N/m, positive downward
	EndIntensity   float64 // N/m, positive downward
}

// Uniform builds a constant-intensity distributed load.
func Uniform(start, end, intensity float64) DistributedLoad {
	return DistributedLoad{Start: start, End: end, StartIntensity: intensity, EndIntensity: intensity}
}

// Triangular builds a distributed load ramping from zero at start to peak at end.
func Triangular(start, end, peak float64) DistributedLoad {
	return DistributedLoad{Start: start, End: end, StartIntensity: 0, EndIntensity: peak}
}

func (d DistributedLoad) Span() (float64, float64) { return d.Start, d.End }

func (d DistributedLoad) Resultant() float64 {
	return 0.5 * (d.StartIntensity + d.EndIntensity) * (d.End - d.Start)
}

// Centroid of the trapezoid. Degenerates to the midpoint when the end
// intensities cancel and the resultant is zero.
func (d DistributedLoad) Centroid() float64 {
	w1, w2 := d.StartIntensity, d.EndIntensity
	sum := w1 + w2
	if sum == 0 {
		return 0.5 * (d.Start + d.End)
	}
	return d.Start + (d.End-d.Start)*(w1+2*w2)/(3*sum)
}

// MomentAbout integrates w(ξ)·(ξ−x) in closed form so that self-cancelling
// trapezoids (w1 = −w2) still carry their correct couple.
func (d DistributedLoad) MomentAbout(x float64) float64 {
	w1, w2 := d.StartIntensity, d.EndIntensity
	span := d.End - d.Start
	return span*(d.Start-x)*(w1+w2)/2 + span*span*(w1+2*w2)/6
}

func (d DistributedLoad) IntensityAt(x float64) float64 {
	if x < d.Start || x > d.End {
		return 0
	}
	if d.End == d.Start {
		return 0
	}
	t := (x - d.Start) / (d.End - d.Start)
	return d.StartIntensity + (d.EndIntensity-d.StartIntensity)*t
}
