// Package program defines the machining program: a header, an ordered list
// of operations, and a footer. Programs are produced by the engine and
// consumed by the toolpath synthesizer.
package program

import (
	"fmt"

	"github.com/chazu/swarf/pkg/blackbook"
)

// Units selects G20 or G21.
type Units int

const (
	Imperial Units = iota // G20
	Metric                // G21
)

func (u Units) String() string {
	if u == Metric {
		return "metric"
	}
	return "imperial"
}

// WorkOffset is G54 through G59.
type WorkOffset int

const (
	G54 WorkOffset = iota
	G55
	G56
	G57
	G58
	G59
)

func (w WorkOffset) String() string {
	if w < G54 || w > G59 {
		return fmt.Sprintf("WorkOffset(%d)", int(w))
	}
	return fmt.Sprintf("G%d", 54+int(w))
}

// CoolantMode is the program-wide coolant setting.
type CoolantMode int

const (
	CoolantOff CoolantMode = iota
	CoolantFlood
	CoolantMist
	CoolantThrough
)

// SpindleDir is a spindle command direction.
type SpindleDir int

const (
	CW SpindleDir = iota
	CCW
	Off
)

// Safety holds machine limits and coolant.
type Safety struct {
	MaxRPM  float64 // zero means unlimited
	MaxFeed float64 // zero means unlimited
	Coolant CoolantMode
	// SafeZ is the clearance height for rapids between operations. Zero
	// selects the default for the program units.
	SafeZ float64
}

// Header is emitted before the first operation.
type Header struct {
	Units      Units
	WorkOffset WorkOffset
	Safety     Safety
}

// Footer is emitted after the last operation.
type Footer struct {
	ReturnTo Position
	EndCode  string
}

// Program is a complete part program.
type Program struct {
	Name       string
	Header     Header
	Operations []Operation
	Footer     Footer
}

// New returns a program with inch units, G54, no coolant and an M30 end.
func New() *Program {
	return &Program{
		Header: Header{Units: Imperial, WorkOffset: G54},
		Footer: Footer{EndCode: "M30"},
	}
}

// Add appends an operation.
func (p *Program) Add(op Operation) {
	p.Operations = append(p.Operations, op)
}

// Operation is one step of the program. Concrete types are the structs in
// this package.
type Operation interface {
	operation()
}

// ToolData describes the cutter loaded by a tool change.
type ToolData struct {
	Diameter float64
	Length   float64
	Flutes   int
	Material blackbook.ToolMaterial
	MaxRPM   float64
	Stickout float64
}

// ToolChange loads a tool. Data may be given inline or looked up from the
// tool library by Ref (an id or name).
type ToolChange struct {
	Number int
	Data   *ToolData
	Ref    string
}

// SpindleCommand starts or stops the spindle.
type SpindleCommand struct {
	Dir SpindleDir
	RPM float64
}

// Drill drills holes at Positions. Depth is positive. Thru selects the
// through-hole depth. Zero Feed lets the resolver pick one.
type Drill struct {
	Positions []Position
	Depth     float64
	Thru      bool
	Peck      float64
	ChipBreak bool
	Retract   float64
	Feed      float64
	Dwell     float64
	// Diameter is the intended hole size, checked against the loaded tool.
	Diameter float64
}

// Pocket clears the inside of Geometry to Depth.
type Pocket struct {
	Geometry Geometry
	Depth    float64
	Stepdown float64
	// Stepover is a fraction of tool diameter.
	Stepover        float64
	Feed            float64
	PlungeFeed      float64
	FinishAllowance float64
}

// CutSide selects which side of the geometry the tool runs on.
type CutSide int

const (
	Inside CutSide = iota
	Outside
	On
)

func (s CutSide) String() string {
	switch s {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	case On:
		return "on"
	default:
		return fmt.Sprintf("CutSide(%d)", int(s))
	}
}

// Profile follows the outline of Geometry.
type Profile struct {
	Geometry     Geometry
	Depth        float64
	Side         CutSide
	StockToLeave float64
	Stepdown     float64
	Feed         float64
	PlungeFeed   float64
}

// Face skims the top of the stock over Bounds.
type Face struct {
	Bounds   Rect
	Depth    float64
	Stepover float64
	Feed     float64
}

// Tap cuts threads at Positions.
type Tap struct {
	Positions []Position
	Depth     float64
	Pitch     float64
	Retract   float64
}

// Comment is passed through to the output.
type Comment struct {
	Text string
}

// Stock is the raw material envelope.
type Stock struct {
	Material string
	X, Y, Z  float64
}

// PartDef names the part and its stock. Existing marks a rework of a
// finished part rather than a blank.
type PartDef struct {
	Name     string
	Stock    *Stock
	Existing bool
}

// Ref is a zero reference: a named edge or an explicit value.
type Ref struct {
	Name  string // left/right/center, front/back, top/bottom
	Value *float64
}

func (r Ref) String() string {
	if r.Value != nil {
		return fmt.Sprintf("%g", *r.Value)
	}
	if r.Name == "" {
		return "unset"
	}
	return r.Name
}

// Setup records where the work zero is and hard travel limits.
type Setup struct {
	ZeroX, ZeroY, ZeroZ Ref
	ZMin                *float64
	YLimit              *float64
}

// Direction is the approach direction of a cut or clear.
type Direction int

const (
	XPositive Direction = iota
	XNegative
	YPositive
	YNegative
	ZPositive
	ZNegative
)

func (d Direction) String() string {
	switch d {
	case XPositive:
		return "x+"
	case XNegative:
		return "x-"
	case YPositive:
		return "y+"
	case YNegative:
		return "y-"
	case ZPositive:
		return "z+"
	case ZNegative:
		return "z-"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ZConstraintKind limits Z travel during a cut or clear.
type ZConstraintKind int

const (
	ZFree ZConstraintKind = iota
	ZPositiveOnly
	ZNegativeOnly
	ZMinimum
)

// ZConstraint is a ZConstraintKind with the floor for ZMinimum.
type ZConstraint struct {
	Kind  ZConstraintKind
	Floor float64
}

// Cut is a stroke along Direction, Depth long, repeated down Height.
type Cut struct {
	Direction   Direction
	Sweep       float64
	Depth       float64
	Height      float64
	ZConstraint ZConstraint
	Start       Position
}

// Clear removes a Sweep by Depth slab, Height deep, approaching along
// Direction.
type Clear struct {
	Direction   Direction
	Sweep       float64
	Depth       float64
	Height      float64
	ZConstraint ZConstraint
	Start       Position
}

// Patterned repeats Base at every position of Pattern. Base geometry and
// positions are relative to each pattern position.
type Patterned struct {
	Pattern Pattern
	Base    Operation
}

func (ToolChange) operation()     {}
func (SpindleCommand) operation() {}
func (Drill) operation()          {}
func (Pocket) operation()         {}
func (Profile) operation()        {}
func (Face) operation()           {}
func (Tap) operation()            {}
func (Comment) operation()        {}
func (PartDef) operation()        {}
func (Setup) operation()          {}
func (Cut) operation()            {}
func (Clear) operation()          {}
func (Patterned) operation()      {}

// Name returns a short label for an operation, used in diagnostics.
func Name(op Operation) string {
	switch o := op.(type) {
	case ToolChange:
		return fmt.Sprintf("tool T%d", o.Number)
	case SpindleCommand:
		return "spindle"
	case Drill:
		return "drill"
	case Pocket:
		return "pocket"
	case Profile:
		return "profile"
	case Face:
		return "face"
	case Tap:
		return "tap"
	case Comment:
		return "comment"
	case PartDef:
		return "part"
	case Setup:
		return "setup"
	case Cut:
		return "cut"
	case Clear:
		return "clear"
	case Patterned:
		return Name(o.Base) + " pattern"
	}
	return fmt.Sprintf("%T", op)
}
