package toolpath

import (
	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
)

// offsets expands base positions (relative to each pattern position) in
// pattern order. A base with no positions sits on the pattern position.
func offsets(pattern, base []program.Position) []program.Position {
	if len(base) == 0 {
		base = []program.Position{{}}
	}
	out := make([]program.Position, 0, len(pattern)*len(base))
	for _, p := range pattern {
		for _, b := range base {
			out = append(out, p.Add(b))
		}
	}
	return out
}

// translate moves an operation by d. It reports false for operations that
// have no position.
func translate(op program.Operation, d program.Position) (program.Operation, bool) {
	switch o := op.(type) {
	case program.Drill:
		o.Positions = offsets([]program.Position{d}, o.Positions)
		return o, true
	case program.Tap:
		o.Positions = offsets([]program.Position{d}, o.Positions)
		return o, true
	case program.Pocket:
		o.Geometry = o.Geometry.Translate(d)
		return o, true
	case program.Profile:
		o.Geometry = o.Geometry.Translate(d)
		return o, true
	case program.Face:
		o.Bounds = o.Bounds.Translate(d).(program.Rect)
		return o, true
	case program.Cut:
		o.Start = o.Start.Add(d)
		return o, true
	case program.Clear:
		o.Start = o.Start.Add(d)
		return o, true
	case program.Patterned:
		o.Pattern = program.Points(offsets(o.Pattern.Positions(), []program.Position{d}))
		return o, true
	}
	return op, false
}

// synthPattern repeats the base operation at every pattern position.
// Drilling and tapping collapse into one cycle block visiting the holes in
// pattern order; everything else is synthesized once per position.
func (s *Synthesizer) synthPattern(ctx *Context, p program.Patterned) ([]gcode.Instruction, error) {
	pts := p.Pattern.Positions()
	switch b := p.Base.(type) {
	case program.Drill:
		b.Positions = offsets(pts, b.Positions)
		return synthDrill(ctx, b)
	case program.Tap:
		b.Positions = offsets(pts, b.Positions)
		return synthTap(ctx, b), nil
	}
	var out []gcode.Instruction
	for _, pt := range pts {
		op, ok := translate(p.Base, pt)
		if !ok {
			return []gcode.Instruction{gcode.Comment{Text: "UNSUPPORTED PATTERN BASE: " + program.Name(p.Base)}}, nil
		}
		ins, err := s.Synthesize(op, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, ins...)
	}
	return out, nil
}
