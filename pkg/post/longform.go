package post

import (
	"math"

	"github.com/chazu/swarf/pkg/gcode"
)

// ChipClearance is how far above the previous peck depth the tool rapids
// back down to between pecks, in inches.
const ChipClearance = 0.05

// longForm is the Mach3/Mach4 dialect. Drilling cycles become explicit
// moves; the last X, Y and feed are carried from the moves that precede
// each cycle.
type longForm struct {
	clearance float64
}

func newLongForm(opts Options) *longForm {
	c := ChipClearance
	if opts.Metric {
		c *= 25.4
	}
	return &longForm{clearance: c}
}

func (*longForm) Name() string               { return "Mach3/Mach4" }
func (*longForm) SupportsCannedCycles() bool { return false }
func (*longForm) SupportsSubroutines() bool  { return false }

// Process expands G81, G82, G83 and G73. Chip-break cycles are not
// supported by the controller and expand as full-retract pecks. A G80 is
// dropped when every cycle since the last one was expanded; tapping
// cycles pass through and keep their G80.
func (l *longForm) Process(ins []gcode.Instruction) []gcode.Instruction {
	out := make([]gcode.Instruction, 0, len(ins))
	var x, y, feed float64
	modal := false
	for _, in := range ins {
		switch v := in.(type) {
		case gcode.Rapid:
			track(&x, &y, v.X, v.Y)
			out = append(out, v)
		case gcode.Linear:
			track(&x, &y, v.X, v.Y)
			if v.Feed > 0 {
				feed = v.Feed
			}
			out = append(out, v)
		case gcode.Arc:
			x, y = v.X, v.Y
			if v.Feed > 0 {
				feed = v.Feed
			}
			out = append(out, v)
		case gcode.DrillCycle:
			if v.Feed <= 0 {
				v.Feed = feed
			}
			feed = v.Feed
			out = append(out, l.expand(x, y, v)...)
		case gcode.TapCycle:
			modal = true
			out = append(out, v)
		case gcode.CancelCycle:
			if modal {
				out = append(out, v)
			}
			modal = false
		default:
			out = append(out, in)
		}
	}
	return out
}

func track(x, y *float64, nx, ny *float64) {
	if nx != nil {
		*x = *nx
	}
	if ny != nil {
		*y = *ny
	}
}

func (l *longForm) expand(x, y float64, c gcode.DrillCycle) []gcode.Instruction {
	switch c.Kind {
	case gcode.CyclePeck, gcode.CycleChipBreak:
		if c.Peck > 0 {
			return ExpandPeck(x, y, c, l.clearance)
		}
	case gcode.CycleDwell:
		return ExpandDwell(x, y, c)
	}
	return ExpandSimple(x, y, c)
}

// ExpandSimple writes a G81 as rapid XY, rapid to R, feed to depth and
// rapid back to R.
func ExpandSimple(x, y float64, c gcode.DrillCycle) []gcode.Instruction {
	return []gcode.Instruction{
		gcode.RapidXY(x, y),
		gcode.RapidZ(c.Retract),
		gcode.LinearZ(-c.Depth, c.Feed),
		gcode.RapidZ(c.Retract),
	}
}

// ExpandDwell is ExpandSimple with a dwell at the bottom.
func ExpandDwell(x, y float64, c gcode.DrillCycle) []gcode.Instruction {
	return []gcode.Instruction{
		gcode.RapidXY(x, y),
		gcode.RapidZ(c.Retract),
		gcode.LinearZ(-c.Depth, c.Feed),
		gcode.Dwell{Seconds: c.Dwell},
		gcode.RapidZ(c.Retract),
	}
}

// ExpandPeck writes a full-retract peck cycle: ceil(depth/peck) plunges,
// the i-th to min(i*peck, depth). Between pecks the tool retracts to R and
// rapids back to clearance above the last depth when that is below Z0.
func ExpandPeck(x, y float64, c gcode.DrillCycle, clearance float64) []gcode.Instruction {
	n := int(math.Ceil(c.Depth/c.Peck - 1e-9))
	out := []gcode.Instruction{gcode.RapidXY(x, y), gcode.RapidZ(c.Retract)}
	for i := 1; i <= n; i++ {
		depth := math.Min(float64(i)*c.Peck, c.Depth)
		out = append(out, gcode.LinearZ(-depth, c.Feed))
		if i < n {
			out = append(out, gcode.RapidZ(c.Retract))
			if back := depth - clearance; back > 0 {
				out = append(out, gcode.RapidZ(-back))
			}
		}
	}
	return append(out, gcode.RapidZ(c.Retract))
}
