package program

import "math"

// Position is an XY point.
type Position struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Geometry is a 2D shape an operation cuts.
type Geometry interface {
	geometry()
	// Translate returns the shape moved by d.
	Translate(d Position) Geometry
}

// Rect is anchored at its bottom-left corner and rotated about it.
type Rect struct {
	BottomLeft    Position
	Width, Height float64
	CornerRadius  float64
	// Rotation is in degrees, counter-clockwise.
	Rotation float64
}

// Circle is given by centre and diameter.
type Circle struct {
	Center   Position
	Diameter float64
}

// Polygon is a regular polygon given by its circumradius.
type Polygon struct {
	Center       Position
	Circumradius float64
	Sides        int
	Rotation     float64
}

// Path is an open polyline.
type Path struct {
	Points []Position
}

func (Rect) geometry()    {}
func (Circle) geometry()  {}
func (Polygon) geometry() {}
func (Path) geometry()    {}

func (r Rect) Translate(d Position) Geometry {
	r.BottomLeft = r.BottomLeft.Add(d)
	return r
}

func (c Circle) Translate(d Position) Geometry {
	c.Center = c.Center.Add(d)
	return c
}

func (p Polygon) Translate(d Position) Geometry {
	p.Center = p.Center.Add(d)
	return p
}

func (p Path) Translate(d Position) Geometry {
	pts := make([]Position, len(p.Points))
	for i, q := range p.Points {
		pts[i] = q.Add(d)
	}
	return Path{Points: pts}
}

// Corners returns the rectangle's corners counter-clockwise from the
// bottom-left, with rotation applied.
func (r Rect) Corners() [4]Position {
	local := [4]Position{{0, 0}, {r.Width, 0}, {r.Width, r.Height}, {0, r.Height}}
	var out [4]Position
	for i, p := range local {
		out[i] = r.ToWorld(p)
	}
	return out
}

// ToWorld maps a point in the rectangle's unrotated frame (origin at the
// bottom-left corner) to program coordinates.
func (r Rect) ToWorld(p Position) Position {
	return Rotate(p, r.Rotation).Add(r.BottomLeft)
}

// Vertices returns the polygon's corners counter-clockwise, the first at
// Rotation degrees from +X.
func (p Polygon) Vertices() []Position {
	n := max(p.Sides, 0)
	out := make([]Position, n)
	for i := range n {
		a := (p.Rotation + 360*float64(i)/float64(n)) * math.Pi / 180
		out[i] = Position{
			X: p.Center.X + p.Circumradius*math.Cos(a),
			Y: p.Center.Y + p.Circumradius*math.Sin(a),
		}
	}
	return out
}

// Rotate rotates p about the origin by deg degrees counter-clockwise.
func Rotate(p Position, deg float64) Position {
	if deg == 0 {
		return p
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	return Position{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}
