// Package section computes cross-section properties that feed the beam
// stiffness inputs: area, second moment of area about the horizontal
// centroidal axis, and section moduli. All geometry is in meters.
package section

import (
	"fmt"
	"math"
)

// Shape is a cross-section that can supply the beam's stiffness inputs.
type Shape interface {
	// Validate checks the dimensions before any property is computed.
	Validate() error
	// Area returns the gross area in m².
	Area() float64
	// Inertia returns the second moment about the horizontal centroidal
	// axis in m⁴.
	Inertia() float64
	// Depth returns the overall height in m.
	Depth() float64
	// CentroidY returns the centroid height above the bottom fiber in m.
	CentroidY() float64
}

// ModulusTop returns the elastic section modulus to the top fiber.
func ModulusTop(s Shape) float64 {
	c := s.Depth() - s.CentroidY()
	if c <= 0 {
		return 0
	}
	return s.Inertia() / c
}

// ModulusBottom returns the elastic section modulus to the bottom fiber.
func ModulusBottom(s Shape) float64 {
	c := s.CentroidY()
	if c <= 0 {
		return 0
	}
	return s.Inertia() / c
}

// Rectangle is a solid rectangular section.
type Rectangle struct {
	Width  float64 // m
	Height float64 // m
}

func (r Rectangle) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("rectangle dimensions must be positive, got %g x %g", r.Width, r.Height)
	}
	return nil
}

func (r Rectangle) Area() float64      { return r.Width * r.Height }
func (r Rectangle) Inertia() float64   { return r.Width * math.Pow(r.Height, 3) / 12 }
func (r Rectangle) Depth() float64     { return r.Height }
func (r Rectangle) CentroidY() float64 { return r.Height / 2 }

// Circle is a solid circular section.
type Circle struct {
	Diameter float64 // m
}

func (c Circle) Validate() error {
	if c.Diameter <= 0 {
		return fmt.Errorf("circle diameter must be positive, got %g", c.Diameter)
	}
	return nil
}

func (c Circle) Area() float64      { return math.Pi * c.Diameter * c.Diameter / 4 }
func (c Circle) Inertia() float64   { return math.Pi * math.Pow(c.Diameter, 4) / 64 }
func (c Circle) Depth() float64     { return c.Diameter }
func (c Circle) CentroidY() float64 { return c.Diameter / 2 }

// ISection is a doubly symmetric I shape with equal flanges.
type ISection struct {
	FlangeWidth     float64 // m
	FlangeThickness float64 // m, each flange
	WebThickness    float64 // m
	TotalDepth      float64 // m
}

func (i ISection) Validate() error {
	switch {
	case i.FlangeWidth <= 0 || i.FlangeThickness <= 0 || i.WebThickness <= 0 || i.TotalDepth <= 0:
		return fmt.Errorf("I-section dimensions must be positive")
	case 2*i.FlangeThickness >= i.TotalDepth:
		return fmt.Errorf("flanges (2 x %g m) leave no web within depth %g m", i.FlangeThickness, i.TotalDepth)
	case i.WebThickness > i.FlangeWidth:
		return fmt.Errorf("web %g m is wider than the flange %g m", i.WebThickness, i.FlangeWidth)
	}
	return nil
}

func (i ISection) Area() float64 {
	web := i.TotalDepth - 2*i.FlangeThickness
	return 2*i.FlangeWidth*i.FlangeThickness + i.WebThickness*web
}

// Inertia subtracts the void rectangles beside the web from the bounding
// rectangle.
func (i ISection) Inertia() float64 {
	web := i.TotalDepth - 2*i.FlangeThickness
	full := i.FlangeWidth * math.Pow(i.TotalDepth, 3) / 12
	void := (i.FlangeWidth - i.WebThickness) * math.Pow(web, 3) / 12
	return full - void
}

func (i ISection) Depth() float64     { return i.TotalDepth }
func (i ISection) CentroidY() float64 { return i.TotalDepth / 2 }
