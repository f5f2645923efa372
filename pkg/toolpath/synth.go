package toolpath

import (
	"fmt"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
	"github.com/chazu/swarf/pkg/toollib"
)

// OpError is a failure to synthesize one operation. Index is zero-based.
type OpError struct {
	Index int
	Op    string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("op %d (%s): %v", e.Index+1, e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Synthesizer converts operations to motion instructions. It holds no
// state of its own; everything that changes lives in the Context.
type Synthesizer struct{}

// New returns a Synthesizer.
func New() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize emits the instructions for one operation, updating ctx for
// tool, spindle, part and setup operations. On error nothing is emitted.
func (s *Synthesizer) Synthesize(op program.Operation, ctx *Context) ([]gcode.Instruction, error) {
	switch o := op.(type) {
	case program.ToolChange:
		return synthToolChange(ctx, o)
	case program.SpindleCommand:
		return synthSpindle(ctx, o), nil
	case program.Drill:
		return synthDrill(ctx, o)
	case program.Pocket:
		return synthPocket(ctx, o)
	case program.Profile:
		return synthProfile(ctx, o)
	case program.Face:
		return synthFace(ctx, o)
	case program.Tap:
		return synthTap(ctx, o), nil
	case program.Comment:
		return []gcode.Instruction{gcode.Comment{Text: o.Text}}, nil
	case program.PartDef:
		return synthPart(ctx, o), nil
	case program.Setup:
		return synthSetup(ctx, o), nil
	case program.Cut:
		return synthCut(ctx, o)
	case program.Clear:
		return synthClear(ctx, o)
	case program.Patterned:
		return s.synthPattern(ctx, o)
	}
	return []gcode.Instruction{gcode.Comment{Text: "UNSUPPORTED OPERATION: " + program.Name(op)}}, nil
}

// Program synthesizes a whole program: header, every operation, footer.
// An operation that fails contributes no instructions; its error is
// collected and the remaining operations still run.
func (s *Synthesizer) Program(p *program.Program, ctx *Context) ([]gcode.Instruction, []OpError) {
	applyHeader(ctx, p.Header)
	out := header(ctx, p)
	var errs []OpError
	for i, op := range p.Operations {
		ins, err := s.Synthesize(op, ctx)
		if err != nil {
			errs = append(errs, OpError{Index: i, Op: program.Name(op), Err: err})
			continue
		}
		out = append(out, ins...)
	}
	return append(out, footer(ctx, p.Footer)...), errs
}

func coolantMode(c program.CoolantMode) gcode.CoolantMode {
	switch c {
	case program.CoolantFlood:
		return gcode.CoolantFlood
	case program.CoolantMist:
		return gcode.CoolantMist
	case program.CoolantThrough:
		return gcode.CoolantThrough
	}
	return gcode.CoolantOff
}

func applyHeader(ctx *Context, h program.Header) {
	ctx.Units = h.Units
	ctx.SafeZ = ctx.length(defaultSafeZ)
	if h.Safety.SafeZ > 0 {
		ctx.SafeZ = h.Safety.SafeZ
	}
	if m := h.Safety.MaxRPM; m > 0 && (ctx.MaxRPM == 0 || m < ctx.MaxRPM) {
		ctx.MaxRPM = m
	}
	ctx.Coolant = coolantMode(h.Safety.Coolant)
}

func header(ctx *Context, p *program.Program) []gcode.Instruction {
	out := []gcode.Instruction{gcode.Comment{Text: "PROGRAM START"}}
	if p.Name != "" {
		out = append(out, gcode.Comment{Text: "PROGRAM: " + p.Name})
	}
	units := "G20"
	if p.Header.Units == program.Metric {
		units = "G21"
	}
	out = append(out,
		gcode.Raw{Code: "G90 G17 G40 G49 G80"},
		gcode.Raw{Code: units},
		gcode.Raw{Code: p.Header.WorkOffset.String()},
	)
	if ctx.Coolant != gcode.CoolantOff {
		out = append(out, gcode.Coolant{Mode: ctx.Coolant})
	}
	return out
}

func footer(ctx *Context, f program.Footer) []gcode.Instruction {
	end := f.EndCode
	if end == "" {
		end = "M30"
	}
	return []gcode.Instruction{
		gcode.Comment{Text: "PROGRAM END"},
		gcode.RapidZ(ctx.SafeZ),
		gcode.RapidXY(f.ReturnTo.X, f.ReturnTo.Y),
		gcode.Spindle{Dir: gcode.SpindleOff},
		gcode.Coolant{Mode: gcode.CoolantOff},
		gcode.Raw{Code: end},
	}
}

// lookupTool finds the data for a tool change: inline data first, then
// the library by reference, then the library by number. A change with no
// data keeps the previous tool's parameters under the new number.
func lookupTool(ctx *Context, tc program.ToolChange) (*Tool, bool, error) {
	switch {
	case tc.Data != nil:
		d := tc.Data
		return &Tool{
			Number: tc.Number, Diameter: d.Diameter, Length: d.Length, Flutes: d.Flutes,
			Material: d.Material, MaxRPM: d.MaxRPM, Stickout: d.Stickout,
		}, true, nil
	case tc.Ref != "":
		t, err := ctx.Tools.Get(tc.Ref)
		if err != nil {
			return nil, false, err
		}
		return fromLibrary(tc.Number, t), true, nil
	case ctx.Tools.Len() > 0:
		if t, err := ctx.Tools.ByID(tc.Number); err == nil {
			return fromLibrary(tc.Number, t), true, nil
		}
	}
	if ctx.Tool != nil {
		prior := *ctx.Tool
		prior.Number = tc.Number
		return &prior, false, nil
	}
	return &Tool{Number: tc.Number}, false, nil
}

// fromLibrary converts a library entry to the tool loaded as number n.
// Optional fields stay zero when the entry leaves them out.
func fromLibrary(n int, t *toollib.Tool) *Tool {
	tool := &Tool{Number: n, Diameter: t.Dia, Flutes: t.Flutes, Material: t.Material}
	if t.MaxRPM != nil {
		tool.MaxRPM = *t.MaxRPM
	}
	if t.Stickout != nil {
		tool.Stickout = *t.Stickout
	}
	if t.Length != nil {
		tool.Length = *t.Length
	}
	return tool
}

func synthToolChange(ctx *Context, tc program.ToolChange) ([]gcode.Instruction, error) {
	tool, known, err := lookupTool(ctx, tc)
	if err != nil {
		return nil, fmt.Errorf("tool T%d: %w", tc.Number, err)
	}
	e := newEmitter(ctx)
	e.comment("TOOL CHANGE - T%d", tc.Number)
	e.add(
		gcode.Spindle{Dir: gcode.SpindleOff},
		gcode.Coolant{Mode: gcode.CoolantOff},
		gcode.ToolChange{Number: tc.Number},
	)
	if known {
		e.comment("TOOL DATA: DIA=%g LEN=%g FLUTES=%d MAT=%s", tool.Diameter, tool.Length, tool.Flutes, tool.Material)
	}
	if ctx.Coolant != gcode.CoolantOff {
		e.add(gcode.Coolant{Mode: ctx.Coolant})
	}
	ctx.Tool = tool
	ctx.SpindleDir = gcode.SpindleOff
	ctx.SpindleRPM = 0
	return e.finish("tool"), nil
}

func synthSpindle(ctx *Context, sc program.SpindleCommand) []gcode.Instruction {
	if sc.Dir == program.Off {
		ctx.SpindleDir = gcode.SpindleOff
		ctx.SpindleRPM = 0
		return []gcode.Instruction{gcode.Spindle{Dir: gcode.SpindleOff}}
	}
	dir := gcode.SpindleCW
	if sc.Dir == program.CCW {
		dir = gcode.SpindleCCW
	}
	rpm := sc.RPM
	if limit := ctx.rpmLimit(); limit > 0 && rpm > limit {
		ctx.Warn("spindle: %.0f RPM limited to %.0f", rpm, limit)
		rpm = limit
	}
	ctx.SpindleDir = dir
	ctx.SpindleRPM = rpm
	return []gcode.Instruction{gcode.Spindle{Dir: dir, RPM: rpm}}
}

// synthPart records the stock and its material for later resolves.
func synthPart(ctx *Context, p program.PartDef) []gcode.Instruction {
	if p.Stock != nil {
		stock := *p.Stock
		ctx.Stock = &stock
		ctx.Material = stock.Material
	}
	if p.Name == "" {
		return nil
	}
	text := "PART: " + p.Name
	if p.Existing {
		text += " (existing)"
	}
	return []gcode.Instruction{gcode.Comment{Text: text}}
}

func synthSetup(ctx *Context, s program.Setup) []gcode.Instruction {
	out := []gcode.Instruction{
		gcode.Comment{Text: "SETUP BLOCK"},
		gcode.Comment{Text: fmt.Sprintf("ZERO X=%s Y=%s Z=%s", s.ZeroX, s.ZeroY, s.ZeroZ)},
	}
	if s.ZMin != nil {
		z := *s.ZMin
		ctx.ZFloor = &z
		out = append(out, gcode.Comment{Text: fmt.Sprintf("Z minimum: %g", z)})
	}
	if s.YLimit != nil {
		y := *s.YLimit
		ctx.YLimit = &y
		out = append(out, gcode.Comment{Text: fmt.Sprintf("Y limit: %g", y)})
	}
	return out
}
