package post

import (
	"slices"

	"github.com/chazu/swarf/pkg/gcode"
)

func unitsLine(metric bool) gcode.Literal {
	if metric {
		return gcode.Literal{Text: "G21 ; Metric mode"}
	}
	return gcode.Literal{Text: "G20 ; Inches mode"}
}

func modalLines() []gcode.Instruction {
	return []gcode.Instruction{
		gcode.Literal{Text: "G17 ; XY plane"},
		gcode.Literal{Text: "G40 ; Cancel cutter comp"},
		gcode.Literal{Text: "G49 ; Cancel tool length comp"},
		gcode.Literal{Text: "G80 ; Cancel canned cycles"},
		gcode.Literal{Text: "G90 ; Absolute positioning"},
		gcode.Literal{Text: "G94 ; Feed per minute"},
	}
}

// linuxCNC wraps the stream in a modal header. Canned cycles and
// O-word subroutines are native.
type linuxCNC struct {
	opts Options
}

func (*linuxCNC) Name() string               { return "LinuxCNC" }
func (*linuxCNC) SupportsCannedCycles() bool { return true }
func (*linuxCNC) SupportsSubroutines() bool  { return true }

func (p *linuxCNC) Process(ins []gcode.Instruction) []gcode.Instruction {
	out := []gcode.Instruction{
		gcode.Literal{Text: "; LinuxCNC compatible output"},
		unitsLine(p.opts.Metric),
	}
	out = append(out, modalLines()...)
	out = append(out, gcode.Literal{})
	return append(out, ins...)
}

// haas wraps the stream in % delimiters with a Haas header and an M30
// footer.
type haas struct {
	opts Options
}

func (*haas) Name() string               { return "Haas" }
func (*haas) SupportsCannedCycles() bool { return true }
func (*haas) SupportsSubroutines() bool  { return true }

func (p *haas) Process(ins []gcode.Instruction) []gcode.Instruction {
	out := []gcode.Instruction{
		gcode.Literal{Text: "%"},
		gcode.Literal{Text: "(HAAS CNC PROGRAM)"},
		unitsLine(p.opts.Metric),
	}
	out = append(out, modalLines()...)
	out = append(out,
		gcode.Literal{Text: "G98 ; Return to initial plane (Haas default)"},
		gcode.Literal{},
	)
	out = append(out, ins...)
	out = append(out, gcode.Literal{})
	if !endsProgram(ins) {
		out = append(out, gcode.Literal{Text: "M30 ; Program end and rewind"})
	}
	return append(out, gcode.Literal{Text: "%"})
}

// endsProgram reports whether the last numbered instruction is already an
// M30 or M02.
func endsProgram(ins []gcode.Instruction) bool {
	for _, in := range slices.Backward(ins) {
		switch v := in.(type) {
		case gcode.Comment, gcode.Literal:
			continue
		case gcode.Raw:
			return v.Code == "M30" || v.Code == "M02" || v.Code == "M2"
		}
		return false
	}
	return false
}
