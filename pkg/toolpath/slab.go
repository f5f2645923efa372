package toolpath

import (
	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
)

// slab is the frame of a cut or clear: into is the unit vector the tool
// advances along, sweep the unit vector the strokes run along.
type slab struct {
	start       program.Position
	into, sweep program.Position
}

func newSlab(dir program.Direction, start program.Position) slab {
	s := slab{start: start, sweep: program.Position{X: 1}}
	switch dir {
	case program.XPositive:
		s.into, s.sweep = program.Position{X: 1}, program.Position{Y: 1}
	case program.XNegative:
		s.into, s.sweep = program.Position{X: -1}, program.Position{Y: 1}
	case program.YNegative:
		s.into = program.Position{Y: -1}
	default:
		// y+ and the planar z directions
		s.into = program.Position{Y: 1}
	}
	return s
}

// at is the point sweep along the stroke and depth into the material.
func (s slab) at(sweep, depth float64) program.Position {
	return program.Position{
		X: s.start.X + s.sweep.X*sweep + s.into.X*depth,
		Y: s.start.Y + s.sweep.Y*sweep + s.into.Y*depth,
	}
}

// slabLevels steps from Z0 down through height and applies the Z
// constraint. A feature with no height is cut at Z0.
func slabLevels(ctx *Context, name string, height, stepdown float64, zc program.ZConstraint) []float64 {
	levels := passes(height, stepdown)
	if len(levels) == 0 {
		levels = []float64{0}
	}
	out := levels[:0]
	clamped := false
	for _, z := range levels {
		switch zc.Kind {
		case program.ZPositiveOnly:
			if z < 0 {
				z, clamped = 0, true
			}
		case program.ZMinimum:
			if z < zc.Floor {
				z, clamped = zc.Floor, true
			}
		}
		if len(out) > 0 && out[len(out)-1] == z {
			continue
		}
		out = append(out, z)
	}
	if clamped {
		ctx.Warn("%s: levels limited by Z constraint", name)
	}
	return out
}

// synthCut takes one stroke along the sweep at the full depth, stepping
// down through the height and reversing direction each level.
func synthCut(ctx *Context, c program.Cut) ([]gcode.Instruction, error) {
	e := newEmitter(ctx)
	stepdown := ctx.stepdown(0)
	dia := ctx.toolRadius() * 2
	f, err := resolveFeeds(e, "cut", 0, 0, engagement{pct: slabEngagementPct, doc: stepdown, woc: dia * slabEngagementPct / 100})
	if err != nil {
		return nil, err
	}
	s := newSlab(c.Direction, c.Start)
	e.comment("CUT %s sweep:%g depth:%g height:%g", c.Direction, c.Sweep, c.Depth, c.Height)
	e.safe()
	for k, z := range slabLevels(ctx, "cut", c.Height, stepdown, c.ZConstraint) {
		from, to := 0.0, c.Sweep
		if k%2 == 1 {
			from, to = to, from
		}
		if k == 0 {
			enter(e, s.at(from, c.Depth), z, f)
		} else {
			e.plunge(z, f.plunge)
		}
		e.cut(s.at(to, c.Depth), f.cut)
	}
	e.safe()
	return e.finish("cut"), nil
}

// synthClear rasters the sweep by depth slab at each level, rows spaced
// at half the tool diameter into the material.
func synthClear(ctx *Context, c program.Clear) ([]gcode.Instruction, error) {
	e := newEmitter(ctx)
	stepdown := ctx.stepdown(0)
	step := ctx.stepover(slabEngagementPct/100, slabEngagementPct/100)
	f, err := resolveFeeds(e, "clear", 0, 0, engagement{pct: slabEngagementPct, doc: stepdown, woc: step})
	if err != nil {
		return nil, err
	}
	s := newSlab(c.Direction, c.Start)
	rows := rasterRows(0, c.Depth, step)
	e.comment("CLEAR %s sweep:%g depth:%g height:%g", c.Direction, c.Sweep, c.Depth, c.Height)
	e.safe()
	for _, z := range slabLevels(ctx, "clear", c.Height, stepdown, c.ZConstraint) {
		enter(e, s.at(0, rows[0]), z, f)
		for i, d := range rows {
			a, b := 0.0, c.Sweep
			if i%2 == 1 {
				a, b = b, a
			}
			if i > 0 {
				e.cut(s.at(a, d), f.cut)
			}
			e.cut(s.at(b, d), f.cut)
		}
	}
	e.safe()
	return e.finish("clear"), nil
}
