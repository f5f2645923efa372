// Package gcode defines the motion instruction model shared by the toolpath
// synthesizer and the post-processors, and renders it to numbered G-code.
package gcode

import "fmt"

// Instruction is one line of motion or control. Concrete types are the
// structs in this package.
type Instruction interface {
	instruction()
}

// SpindleDir is the spindle state.
type SpindleDir int

const (
	SpindleCW SpindleDir = iota
	SpindleCCW
	SpindleOff
)

func (d SpindleDir) String() string {
	switch d {
	case SpindleCW:
		return "cw"
	case SpindleCCW:
		return "ccw"
	case SpindleOff:
		return "off"
	default:
		return fmt.Sprintf("SpindleDir(%d)", int(d))
	}
}

// CoolantMode selects M07/M08/M09/M51.
type CoolantMode int

const (
	CoolantOff CoolantMode = iota
	CoolantFlood
	CoolantMist
	CoolantThrough
)

func (c CoolantMode) String() string {
	switch c {
	case CoolantOff:
		return "off"
	case CoolantFlood:
		return "flood"
	case CoolantMist:
		return "mist"
	case CoolantThrough:
		return "through"
	default:
		return fmt.Sprintf("CoolantMode(%d)", int(c))
	}
}

// CycleKind distinguishes the drilling canned cycles.
type CycleKind int

const (
	CycleSimple    CycleKind = iota // G81
	CycleDwell                      // G82
	CyclePeck                       // G83
	CycleChipBreak                  // G73
)

func (k CycleKind) String() string {
	switch k {
	case CycleSimple:
		return "simple"
	case CycleDwell:
		return "dwell"
	case CyclePeck:
		return "peck"
	case CycleChipBreak:
		return "chip-break"
	default:
		return fmt.Sprintf("CycleKind(%d)", int(k))
	}
}

// Rapid is a G00 positioning move. Nil axes are omitted.
type Rapid struct {
	X, Y, Z *float64
}

// Linear is a G01 feed move. A zero Feed leaves the modal feed in place.
type Linear struct {
	X, Y, Z *float64
	Feed    float64
}

// Arc is a G02 (clockwise) or G03 move ending at X, Y with the centre at
// I, J relative to the start point.
type Arc struct {
	X, Y      float64
	I, J      float64
	Clockwise bool
	Feed      float64
}

// DrillCycle is a canned drilling cycle at the current XY. Depth is the
// positive distance below Z0; the cycle bottoms out at -Depth.
type DrillCycle struct {
	Kind    CycleKind
	Depth   float64
	Retract float64
	Peck    float64
	Feed    float64
	Dwell   float64
}

// TapCycle is a G84 rigid tapping cycle at the current XY.
type TapCycle struct {
	Depth   float64
	Retract float64
	Feed    float64
}

// CancelCycle is G80.
type CancelCycle struct{}

// Dwell is G04 with a duration in seconds.
type Dwell struct {
	Seconds float64
}

// Comment renders as "; text" and is never numbered.
type Comment struct {
	Text string
}

// Spindle is S/M03/M04/M05.
type Spindle struct {
	Dir SpindleDir
	RPM float64
}

// Coolant is M07/M08/M09/M51.
type Coolant struct {
	Mode CoolantMode
}

// ToolChange is T{n} M06.
type ToolChange struct {
	Number int
}

// Raw is a numbered line of G-code emitted verbatim.
type Raw struct {
	Code string
}

// Literal is an unnumbered line emitted verbatim, used for program
// delimiters and controller headers.
type Literal struct {
	Text string
}

func (Rapid) instruction()       {}
func (Linear) instruction()      {}
func (Arc) instruction()         {}
func (DrillCycle) instruction()  {}
func (TapCycle) instruction()    {}
func (CancelCycle) instruction() {}
func (Dwell) instruction()       {}
func (Comment) instruction()     {}
func (Spindle) instruction()     {}
func (Coolant) instruction()     {}
func (ToolChange) instruction()  {}
func (Raw) instruction()         {}
func (Literal) instruction()     {}

// Constructors for the common moves.

func RapidXY(x, y float64) Rapid { return Rapid{X: &x, Y: &y} }
func RapidZ(z float64) Rapid     { return Rapid{Z: &z} }

func LinearXY(x, y, feed float64) Linear { return Linear{X: &x, Y: &y, Feed: feed} }
func LinearZ(z, feed float64) Linear     { return Linear{Z: &z, Feed: feed} }
func LinearXYZ(x, y, z, feed float64) Linear {
	return Linear{X: &x, Y: &y, Z: &z, Feed: feed}
}
