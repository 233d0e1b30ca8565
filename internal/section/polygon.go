package section

import (
	"fmt"
	"math"
)

// Point is a vertex of a polygonal section outline, in m.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an arbitrary simple polygon section. Vertices may run
// clockwise or counter-clockwise; holes are not supported.
type Polygon struct {
	Vertices []Point
}

func (p Polygon) Validate() error {
	if len(p.Vertices) < 3 {
		return fmt.Errorf("polygon needs at least 3 vertices, got %d", len(p.Vertices))
	}
	if p.signedArea() == 0 {
		return fmt.Errorf("polygon vertices are collinear")
	}
	return nil
}

// signedArea is the shoelace half-sum; positive for counter-clockwise
// vertex order.
func (p Polygon) signedArea() float64 {
	var sum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
	}
	return sum / 2
}

func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

// CentroidY returns the centroid height above the bottom fiber.
func (p Polygon) CentroidY() float64 {
	sa := p.signedArea()
	if sa == 0 {
		return 0
	}
	var sum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		sum += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	return sum/(6*sa) - p.minY()
}

// Inertia returns the second moment about the horizontal centroidal axis,
// from the polygon shoelace moment transferred with the parallel-axis rule.
func (p Polygon) Inertia() float64 {
	sa := p.signedArea()
	if sa == 0 {
		return 0
	}
	var ix, cySum float64
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		yi, yj := p.Vertices[i].Y, p.Vertices[j].Y
		cross := p.Vertices[i].X*yj - p.Vertices[j].X*yi
		ix += cross * (yi*yi + yi*yj + yj*yj)
		cySum += (yi + yj) * cross
	}
	ix /= 12
	cy := cySum / (6 * sa)
	return math.Abs(ix - sa*cy*cy)
}

func (p Polygon) Depth() float64 {
	return p.maxY() - p.minY()
}

func (p Polygon) minY() float64 {
	min := p.Vertices[0].Y
	for _, v := range p.Vertices[1:] {
		if v.Y < min {
			min = v.Y
		}
	}
	return min
}

func (p Polygon) maxY() float64 {
	max := p.Vertices[0].Y
	for _, v := range p.Vertices[1:] {
		if v.Y > max {
			max = v.Y
		}
	}
	return max
}
