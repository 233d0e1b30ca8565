package engine

// Defaults and bounds for the integration grid.
const (
	// DefaultResolution is the target number of samples across the beam.
	DefaultResolution = 2400

	minResolution = 200
	maxResolution = 20000

	// minSegmentSteps floors the sub-grid of every inter-node segment so
	// short segments between close breakpoints still integrate smoothly.
	minSegmentSteps = 16

	// coordTol is the coordinate tolerance used to merge breakpoints, in m.
	coordTol = 1e-9
)

// Options tunes an analysis. The zero value selects the defaults.
type Options struct {
	// Resolution is the target sample count across the whole beam. Zero
	// selects DefaultResolution; values are clamped to a sane range.
	Resolution int
}

func (o Options) normalized() Options {
	switch {
	case o.Resolution == 0:
		o.Resolution = DefaultResolution
	case o.Resolution < minResolution:
		o.Resolution = minResolution
	case o.Resolution > maxResolution:
		o.Resolution = maxResolution
	}
	return o
}
