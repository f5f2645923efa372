// Package kernel defines the abstract 2D geometry kernel used to check
// toolpaths against the shapes they cut. Implementations (sdfx) provide
// signed distance regions behind this interface.
package kernel

// Region is an opaque handle to a closed 2D shape.
type Region interface {
	// Distance is the signed distance from (x, y) to the boundary:
	// negative inside, positive outside.
	Distance(x, y float64) float64
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Rect is anchored at its bottom-left corner and rotated
	// about it by rotation degrees; cornerRadius rounds its corners.
	Rect(x, y, w, h, cornerRadius, rotation float64) Region
	Circle(cx, cy, r float64) Region
	Polygon(vertices [][2]float64) (Region, error)

	// Offset grows (d > 0) or shrinks (d < 0) a region.
	Offset(r Region, d float64) Region
}

// Tolerance is the slack allowed when classifying points near a boundary.
const Tolerance = 1e-6

// Point is an XY pair.
type Point = [2]float64

// Violation is a point that breaks a clearance check, with its signed
// distance to the boundary.
type Violation struct {
	Point    Point
	Distance float64
}

// CheckInside reports every point whose centre is closer than clearance to
// the boundary of r, or outside it. A tool of radius clearance at a
// returned point would cut past the region.
func CheckInside(r Region, clearance float64, pts []Point) []Violation {
	var out []Violation
	for _, p := range pts {
		d := r.Distance(p[0], p[1])
		if d > -clearance+Tolerance {
			out = append(out, Violation{Point: p, Distance: d})
		}
	}
	return out
}

// CheckOutside reports every point closer than clearance to r from the
// outside, or inside it.
func CheckOutside(r Region, clearance float64, pts []Point) []Violation {
	var out []Violation
	for _, p := range pts {
		d := r.Distance(p[0], p[1])
		if d < clearance-Tolerance {
			out = append(out, Violation{Point: p, Distance: d})
		}
	}
	return out
}
