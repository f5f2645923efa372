package program

import "math"

// Pattern produces an ordered list of positions.
type Pattern interface {
	Positions() []Position
}

// Grid is Cols x Rows positions spaced DX and DY from Origin, in row-major
// order starting at the origin.
type Grid struct {
	Origin     Position
	Cols, Rows int
	DX, DY     float64
}

// GridFromExtent builds a grid that fills width by height at the given
// pitch: floor(width/pitchX)+1 columns and floor(height/pitchY)+1 rows.
func GridFromExtent(origin Position, width, height, pitchX, pitchY float64) Grid {
	g := Grid{Origin: origin, Cols: 1, Rows: 1, DX: pitchX, DY: pitchY}
	if pitchX > 0 {
		g.Cols = int(math.Floor(width/pitchX+1e-9)) + 1
	}
	if pitchY > 0 {
		g.Rows = int(math.Floor(height/pitchY+1e-9)) + 1
	}
	return g
}

func (g Grid) Positions() []Position {
	out := make([]Position, 0, max(g.Cols*g.Rows, 0))
	for r := range g.Rows {
		for c := range g.Cols {
			out = append(out, Position{
				X: g.Origin.X + float64(c)*g.DX,
				Y: g.Origin.Y + float64(r)*g.DY,
			})
		}
	}
	return out
}

// BoltCircle spaces Count positions evenly around a circle, the first at
// StartAngle degrees from +X, counter-clockwise.
type BoltCircle struct {
	Center     Position
	Diameter   float64
	Count      int
	StartAngle float64
}

func (b BoltCircle) Positions() []Position {
	out := make([]Position, 0, max(b.Count, 0))
	r := b.Diameter / 2
	for i := range b.Count {
		a := (b.StartAngle + 360*float64(i)/float64(b.Count)) * math.Pi / 180
		out = append(out, Position{X: b.Center.X + r*math.Cos(a), Y: b.Center.Y + r*math.Sin(a)})
	}
	return out
}

// LinePattern places Count positions Spacing apart from Start along a
// direction Angle degrees from +X.
type LinePattern struct {
	Start   Position
	Count   int
	Spacing float64
	Angle   float64
}

func (l LinePattern) Positions() []Position {
	out := make([]Position, 0, max(l.Count, 0))
	s, c := math.Sincos(l.Angle * math.Pi / 180)
	for i := range l.Count {
		d := float64(i) * l.Spacing
		out = append(out, Position{X: l.Start.X + d*c, Y: l.Start.Y + d*s})
	}
	return out
}

// ArcPattern spaces Count positions from StartAngle to EndAngle inclusive
// on a circle of Radius. A count of one yields the start position.
type ArcPattern struct {
	Center     Position
	Radius     float64
	Count      int
	StartAngle float64
	EndAngle   float64
}

func (a ArcPattern) Positions() []Position {
	out := make([]Position, 0, max(a.Count, 0))
	step := 0.0
	if a.Count > 1 {
		step = (a.EndAngle - a.StartAngle) / float64(a.Count-1)
	}
	for i := range a.Count {
		ang := (a.StartAngle + step*float64(i)) * math.Pi / 180
		out = append(out, Position{X: a.Center.X + a.Radius*math.Cos(ang), Y: a.Center.Y + a.Radius*math.Sin(ang)})
	}
	return out
}

// Points is an explicit list of positions.
type Points []Position

func (p Points) Positions() []Position { return p }
