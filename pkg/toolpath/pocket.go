package toolpath

import (
	"fmt"
	"math"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/kernel"
	"github.com/chazu/swarf/pkg/program"
)

// regionFor builds the kernel region of a closed shape. Open paths and
// degenerate shapes have none.
func regionFor(k kernel.Kernel, g program.Geometry) kernel.Region {
	if k == nil {
		return nil
	}
	switch g := g.(type) {
	case program.Rect:
		if g.Width <= 0 || g.Height <= 0 {
			return nil
		}
		return k.Rect(g.BottomLeft.X, g.BottomLeft.Y, g.Width, g.Height, g.CornerRadius, g.Rotation)
	case program.Circle:
		if g.Diameter <= 0 {
			return nil
		}
		return k.Circle(g.Center.X, g.Center.Y, g.Diameter/2)
	case program.Polygon:
		if g.Sides < 3 || g.Circumradius <= 0 {
			return nil
		}
		vs := g.Vertices()
		pts := make([][2]float64, len(vs))
		for i, v := range vs {
			pts[i] = [2]float64{v.X, v.Y}
		}
		r, err := k.Polygon(pts)
		if err != nil {
			return nil
		}
		return r
	}
	return nil
}

func fraction(v, fallback float64) float64 {
	if v <= 0 || v > 1 {
		return fallback
	}
	return v
}

func synthPocket(ctx *Context, p program.Pocket) ([]gcode.Instruction, error) {
	e := newEmitter(ctx)
	switch p.Geometry.(type) {
	case program.Rect, program.Circle, program.Polygon:
	default:
		e.comment("UNSUPPORTED GEOMETRY: pocket %s", geometryName(p.Geometry))
		return e.finish("pocket"), nil
	}

	frac := fraction(p.Stepover, defaultPocketStep)
	step := ctx.stepover(frac, defaultPocketStep)
	stepdown := ctx.stepdown(p.Stepdown)
	f, err := resolveFeeds(e, "pocket", p.Feed, p.PlungeFeed, engagement{pct: frac * 100, doc: stepdown, woc: step})
	if err != nil {
		return nil, err
	}

	e.comment("POCKET OPERATION")
	e.safe()
	region := regionFor(ctx.Kernel, p.Geometry)
	switch g := p.Geometry.(type) {
	case program.Rect:
		if g.CornerRadius > ctx.toolRadius() && region != nil {
			regionPocket(e, p, region, f, step, stepdown)
		} else {
			rectPocket(e, g, p, f, step, stepdown)
		}
	case program.Circle:
		circlePocket(e, g, p, f, step, stepdown)
	case program.Polygon:
		if region == nil {
			e.comment("UNSUPPORTED GEOMETRY: pocket polygon")
			break
		}
		regionPocket(e, p, region, f, step, stepdown)
	}
	e.safe()
	checkInside(e, "pocket", region, ctx.toolRadius())
	return e.finish("pocket"), nil
}

// singlePlunge is the fallback for pockets the tool cannot move inside.
func singlePlunge(e *emitter, at program.Position, depth float64, f feeds) {
	e.rapidXY(at)
	e.rapidZ(e.ctx.retract(0))
	e.plunge(-depth, f.plunge)
	e.rapidZ(e.ctx.retract(0))
}

// enter positions the tool above start and feeds down to z.
func enter(e *emitter, start program.Position, z float64, f feeds) {
	e.rapidZ(e.ctx.retract(0))
	e.rapidXY(start)
	e.plunge(z, f.plunge)
}

// rectPocket rasters the interior of an (optionally rotated) rectangle in
// its own frame, alternating direction each row.
func rectPocket(e *emitter, r program.Rect, p program.Pocket, f feeds, step, stepdown float64) {
	rad := e.ctx.toolRadius()
	inset := rad + p.FinishAllowance
	x0, x1 := inset, r.Width-inset
	y0, y1 := inset, r.Height-inset
	if x1 < x0 || y1 < y0 {
		e.comment("TOOL TOO LARGE FOR POCKET - SINGLE PLUNGE")
		singlePlunge(e, r.ToWorld(program.Position{X: r.Width / 2, Y: r.Height / 2}), p.Depth, f)
		return
	}
	rows := rasterRows(y0, y1, step)
	levels := passes(p.Depth, stepdown)
	for k, z := range levels {
		e.comment("DEPTH PASS %d Z=%.4f", k+1, z)
		enter(e, r.ToWorld(program.Position{X: x0, Y: rows[0]}), z, f)
		for i, y := range rows {
			a, b := x0, x1
			if i%2 == 1 {
				a, b = x1, x0
			}
			if i > 0 {
				e.cut(r.ToWorld(program.Position{X: a, Y: y}), f.cut)
			}
			e.cut(r.ToWorld(program.Position{X: b, Y: y}), f.cut)
		}
	}
	if p.FinishAllowance > 0 && len(levels) > 0 {
		e.comment("FINISH PASS")
		corners := []program.Position{
			{X: rad, Y: rad}, {X: r.Width - rad, Y: rad},
			{X: r.Width - rad, Y: r.Height - rad}, {X: rad, Y: r.Height - rad},
		}
		for _, c := range corners {
			e.cut(r.ToWorld(c), f.cut)
		}
		e.cut(r.ToWorld(corners[0]), f.cut)
	}
}

// circlePocket spirals out from the centre to the travel radius and then
// trues the wall with a full circle. Pockets too small to spiral get a
// single plunge at the centre.
func circlePocket(e *emitter, c program.Circle, p program.Pocket, f feeds, step, stepdown float64) {
	ctx := e.ctx
	rad := ctx.toolRadius()
	travel := c.Diameter/2 - rad - p.FinishAllowance
	if travel <= ctx.length(minSpiralRadius)+1e-9 {
		e.comment("POCKET TOO SMALL FOR SPIRAL - SINGLE PLUNGE AT CENTER")
		singlePlunge(e, c.Center, p.Depth, f)
		return
	}
	n := max(int(math.Ceil(travel/step*spiralPointsPerRev)), spiralPointsPerRev)
	levels := passes(p.Depth, stepdown)
	for k, z := range levels {
		e.comment("CIRCULAR POCKET DEPTH %d Z=%.4f", k+1, z)
		enter(e, c.Center, z, f)
		var last program.Position
		for i := 1; i <= n; i++ {
			theta := 2 * math.Pi * float64(i) / spiralPointsPerRev
			rr := travel * float64(i) / float64(n)
			last = program.Position{X: c.Center.X + rr*math.Cos(theta), Y: c.Center.Y + rr*math.Sin(theta)}
			e.cut(last, f.cut)
		}
		e.circle(last, c.Center, false, f.cut)
	}
	if p.FinishAllowance > 0 && len(levels) > 0 {
		e.comment("FINISH PASS")
		wall := program.Position{X: c.Center.X + c.Diameter/2 - rad, Y: c.Center.Y}
		e.cut(wall, f.cut)
		e.circle(wall, c.Center, false, f.cut)
	}
}

// regionPocket rasters any convex region through the kernel: the region is
// shrunk by the tool radius and finish allowance and each row is clipped
// to the inside of what remains.
func regionPocket(e *emitter, p program.Pocket, region kernel.Region, f feeds, step, stepdown float64) {
	ctx := e.ctx
	inset := ctx.toolRadius() + p.FinishAllowance
	inner := ctx.Kernel.Offset(region, -inset)
	min, max := region.BoundingBox()
	spans := regionSpans(inner, rasterRows(min[1]+inset, max[1]-inset, step))
	if len(spans) == 0 {
		e.comment("TOOL TOO LARGE FOR POCKET - SINGLE PLUNGE")
		singlePlunge(e, program.Position{X: (min[0] + max[0]) / 2, Y: (min[1] + max[1]) / 2}, p.Depth, f)
		return
	}
	for k, z := range passes(p.Depth, stepdown) {
		e.comment("DEPTH PASS %d Z=%.4f", k+1, z)
		enter(e, program.Position{X: spans[0].x0, Y: spans[0].y}, z, f)
		for i, s := range spans {
			a, b := s.x0, s.x1
			if i%2 == 1 {
				a, b = s.x1, s.x0
			}
			if i > 0 {
				e.cut(program.Position{X: a, Y: s.y}, f.cut)
			}
			e.cut(program.Position{X: b, Y: s.y}, f.cut)
		}
	}
}

func geometryName(g program.Geometry) string {
	switch g.(type) {
	case program.Rect:
		return "rect"
	case program.Circle:
		return "circle"
	case program.Polygon:
		return "polygon"
	case program.Path:
		return "path"
	case nil:
		return "none"
	}
	return fmt.Sprintf("%T", g)
}
