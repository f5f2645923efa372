package toolpath

import (
	"math"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
)

// segment is one piece of a closed loop ending at end. A non-nil centre
// makes it a counter-clockwise arc.
type segment struct {
	end    program.Position
	centre *program.Position
	cw     bool
}

// loop is a closed contour starting and ending at start.
type loop struct {
	start program.Position
	segs  []segment
}

// reversed walks the loop the other way. Each arc keeps its centre and
// flips direction.
func (l loop) reversed() loop {
	n := len(l.segs)
	if n == 0 {
		return l
	}
	out := loop{start: l.start, segs: make([]segment, n)}
	for i := range n {
		src := l.segs[n-1-i]
		end := l.start
		if n-2-i >= 0 {
			end = l.segs[n-2-i].end
		}
		out.segs[i] = segment{end: end, centre: src.centre, cw: !src.cw}
	}
	return out
}

// profileOffset is the signed distance from the nominal outline to the
// tool centre.
func profileOffset(side program.CutSide, rad, stockToLeave float64) float64 {
	switch side {
	case program.Inside:
		return -(rad + stockToLeave)
	case program.Outside:
		return rad + stockToLeave
	}
	return 0
}

// rectLoop offsets a rectangle by o. Corners take radius cornerRadius+o
// (never negative), which is the exact offset of a rounded rectangle.
func rectLoop(r program.Rect, o float64) (loop, bool) {
	x0, y0 := -o, -o
	x1, y1 := r.Width+o, r.Height+o
	if x1-x0 <= 1e-9 || y1-y0 <= 1e-9 {
		return loop{}, false
	}
	rc := math.Max(r.CornerRadius+o, 0)
	rc = math.Min(rc, math.Min(x1-x0, y1-y0)/2)
	w := func(x, y float64) program.Position { return r.ToWorld(program.Position{X: x, Y: y}) }
	if rc <= 1e-9 {
		return loop{start: w(x0, y0), segs: []segment{
			{end: w(x1, y0)}, {end: w(x1, y1)}, {end: w(x0, y1)}, {end: w(x0, y0)},
		}}, true
	}
	arc := func(ex, ey, cx, cy float64) segment {
		c := w(cx, cy)
		return segment{end: w(ex, ey), centre: &c}
	}
	return loop{start: w(x0+rc, y0), segs: []segment{
		{end: w(x1-rc, y0)},
		arc(x1, y0+rc, x1-rc, y0+rc),
		{end: w(x1, y1-rc)},
		arc(x1-rc, y1, x1-rc, y1-rc),
		{end: w(x0+rc, y1)},
		arc(x0, y1-rc, x0+rc, y1-rc),
		{end: w(x0, y0+rc)},
		arc(x0+rc, y0, x0+rc, y0+rc),
	}}, true
}

// polygonLoop offsets a regular polygon's edges by o, keeping sharp
// corners.
func polygonLoop(p program.Polygon, o float64) (loop, bool) {
	if p.Sides < 3 {
		return loop{}, false
	}
	p.Circumradius += o / math.Cos(math.Pi/float64(p.Sides))
	if p.Circumradius <= 1e-9 {
		return loop{}, false
	}
	vs := p.Vertices()
	l := loop{start: vs[0]}
	for _, v := range vs[1:] {
		l.segs = append(l.segs, segment{end: v})
	}
	l.segs = append(l.segs, segment{end: vs[0]})
	return l, true
}

func circleLoop(c program.Circle, o float64) (loop, bool) {
	r := c.Diameter/2 + o
	if r <= 1e-9 {
		return loop{}, false
	}
	start := program.Position{X: c.Center.X + r, Y: c.Center.Y}
	centre := c.Center
	return loop{start: start, segs: []segment{{end: start, centre: &centre}}}, true
}

func synthProfile(ctx *Context, p program.Profile) ([]gcode.Instruction, error) {
	e := newEmitter(ctx)
	if _, open := p.Geometry.(program.Path); open && p.Side != program.On {
		e.comment("UNSUPPORTED GEOMETRY: %s offset of an open path", p.Side)
		return e.finish("profile"), nil
	}
	stepdown := ctx.stepdown(p.Stepdown)
	dia := ctx.toolRadius() * 2
	f, err := resolveFeeds(e, "profile", p.Feed, p.PlungeFeed, engagement{pct: profileEngagementPct, doc: stepdown, woc: dia})
	if err != nil {
		return nil, err
	}

	rad := ctx.toolRadius()
	o := profileOffset(p.Side, rad, p.StockToLeave)
	var (
		l  loop
		ok bool
	)
	switch g := p.Geometry.(type) {
	case program.Rect:
		l, ok = rectLoop(g, o)
	case program.Circle:
		l, ok = circleLoop(g, o)
	case program.Polygon:
		l, ok = polygonLoop(g, o)
	case program.Path:
		e.comment("PROFILE OPERATION")
		e.safe()
		openProfile(e, g, p.Depth, stepdown, f)
		e.safe()
		return e.finish("profile"), nil
	default:
		e.comment("UNSUPPORTED GEOMETRY: profile %s", geometryName(p.Geometry))
		return e.finish("profile"), nil
	}
	if !ok {
		e.comment("DEGENERATE PROFILE - TOOL OFFSET COLLAPSES %s", geometryName(p.Geometry))
		return e.finish("profile"), nil
	}
	// Climb milling with a clockwise spindle: outside contours run
	// clockwise, inside contours counter-clockwise.
	if p.Side == program.Outside {
		l = l.reversed()
	}

	e.comment("PROFILE OPERATION")
	e.safe()
	for k, z := range passes(p.Depth, stepdown) {
		if k == 0 {
			e.rapidXY(l.start)
			e.rapidZ(ctx.retract(0))
		}
		e.plunge(z, f.plunge)
		trace(e, l, f.cut)
	}
	e.safe()

	region := regionFor(ctx.Kernel, p.Geometry)
	clearance := rad + p.StockToLeave
	switch p.Side {
	case program.Inside:
		checkInside(e, "profile", region, clearance)
	case program.Outside:
		checkOutside(e, "profile", region, clearance)
	}
	return e.finish("profile"), nil
}

func trace(e *emitter, l loop, feed float64) {
	from := l.start
	for _, s := range l.segs {
		if s.centre == nil {
			e.cut(s.end, feed)
		} else {
			e.add(gcode.Arc{
				X: s.end.X, Y: s.end.Y,
				I: s.centre.X - from.X, J: s.centre.Y - from.Y,
				Clockwise: s.cw,
				Feed:      feed,
			})
			e.cuts = append(e.cuts, [2]float64{s.end.X, s.end.Y})
		}
		from = s.end
	}
}

// openProfile follows a polyline on the line, retracting between passes.
func openProfile(e *emitter, path program.Path, depth, stepdown float64, f feeds) {
	if len(path.Points) < 2 {
		e.comment("DEGENERATE PROFILE - PATH NEEDS TWO POINTS")
		return
	}
	for _, z := range passes(depth, stepdown) {
		enter(e, path.Points[0], z, f)
		for _, pt := range path.Points[1:] {
			e.cut(pt, f.cut)
		}
	}
	e.rapidZ(e.ctx.retract(0))
}
