package toolpath

import (
	"math"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
)

// drillDepth is the cycle depth: the explicit depth, or for a through hole
// the stock thickness plus breakout, or the nominal through depth when the
// stock is unknown.
func drillDepth(ctx *Context, d program.Drill) float64 {
	if d.Depth > 0 || !d.Thru {
		return d.Depth
	}
	if ctx.Stock != nil && ctx.Stock.Z > 0 {
		return ctx.Stock.Z + ctx.length(breakout)
	}
	return ctx.length(throughDepth)
}

// drillCycle picks the canned cycle. Dwell wins, then chip breaking, then
// an explicit peck. Holes deeper than three diameters peck at one and a
// half diameters.
func drillCycle(depth, dia float64, d program.Drill) (gcode.CycleKind, float64) {
	autoPeck := pecksPerDiameter * dia
	switch {
	case d.Dwell > 0:
		return gcode.CycleDwell, 0
	case d.ChipBreak:
		if d.Peck > 0 {
			return gcode.CycleChipBreak, d.Peck
		}
		return gcode.CycleChipBreak, autoPeck
	case d.Peck > 0:
		return gcode.CyclePeck, d.Peck
	case dia > 0 && depth/dia > peckRatio:
		return gcode.CyclePeck, autoPeck
	}
	return gcode.CycleSimple, 0
}

func synthDrill(ctx *Context, d program.Drill) ([]gcode.Instruction, error) {
	e := newEmitter(ctx)
	depth := drillDepth(ctx, d)
	dia := ctx.toolRadius() * 2
	if dia == 0 {
		dia = d.Diameter
	}
	if d.Diameter > 0 && ctx.Tool != nil && math.Abs(d.Diameter-dia) > 1e-6 {
		ctx.Warn("drill: hole diameter %.4f does not match tool T%d diameter %.4f", d.Diameter, ctx.Tool.Number, dia)
	}

	f, err := resolveFeeds(e, "drill", d.Feed, 0, engagement{pct: 100, doc: math.Min(depth, dia), woc: dia})
	if err != nil {
		return nil, err
	}

	if ctx.ZFloor != nil && -depth < *ctx.ZFloor {
		depth = -*ctx.ZFloor
		e.clamped = true
	}
	kind, peck := drillCycle(depth, dia, d)
	retract := ctx.retract(d.Retract)

	e.comment("DRILL CYCLE")
	e.rapidZ(retract)
	for _, p := range d.Positions {
		e.rapidXY(p)
		e.add(gcode.DrillCycle{
			Kind:    kind,
			Depth:   depth,
			Retract: retract,
			Peck:    peck,
			Feed:    f.cut,
			Dwell:   d.Dwell,
		})
	}
	e.add(gcode.CancelCycle{})
	e.safe()
	return e.finish("drill"), nil
}

// synthTap emits a G84 per position. The feed is spindle speed times
// pitch; with the spindle stopped a nominal speed is assumed.
func synthTap(ctx *Context, t program.Tap) []gcode.Instruction {
	e := newEmitter(ctx)
	rpm := ctx.SpindleRPM
	if ctx.SpindleDir == gcode.SpindleOff || rpm <= 0 {
		rpm = defaultTapRPM
		ctx.Warn("tap: spindle speed not set, assuming %.0f RPM", rpm)
	}
	feed := rpm * t.Pitch
	depth := t.Depth
	if ctx.ZFloor != nil && -depth < *ctx.ZFloor {
		depth = -*ctx.ZFloor
		e.clamped = true
	}
	retract := ctx.retract(t.Retract)

	e.comment("TAPPING CYCLE")
	e.rapidZ(retract)
	for _, p := range t.Positions {
		e.rapidXY(p)
		e.add(gcode.TapCycle{Depth: depth, Retract: retract, Feed: feed})
	}
	e.add(gcode.CancelCycle{})
	e.safe()
	return e.finish("tap")
}
