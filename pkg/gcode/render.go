package gcode

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Line numbering starts at N0010 and advances by 10.
const (
	FirstLineNumber = 10
	LineNumberStep  = 10
)

// Fractional digits for each kind of word.
const (
	coordPlaces   = 4
	feedPlaces    = 1
	tapFeedPlaces = 2
	dwellPlaces   = 2
)

// fixed formats v with exactly places fractional digits, rounding half away
// from zero. Values that round to zero print without a sign.
func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func word(letter string, v float64, places int32) string {
	return letter + fixed(v, places)
}

// Code returns the G-code text for one instruction, without a line number.
// Comments come back with their "; " prefix.
func Code(in Instruction) string {
	switch v := in.(type) {
	case Rapid:
		return axes("G00", v.X, v.Y, v.Z)
	case Linear:
		s := axes("G01", v.X, v.Y, v.Z)
		if v.Feed > 0 {
			s += " " + word("F", v.Feed, feedPlaces)
		}
		return s
	case Arc:
		g := "G03"
		if v.Clockwise {
			g = "G02"
		}
		parts := []string{g,
			word("X", v.X, coordPlaces), word("Y", v.Y, coordPlaces),
			word("I", v.I, coordPlaces), word("J", v.J, coordPlaces)}
		if v.Feed > 0 {
			parts = append(parts, word("F", v.Feed, feedPlaces))
		}
		return strings.Join(parts, " ")
	case DrillCycle:
		return drillCode(v)
	case TapCycle:
		return strings.Join([]string{"G84",
			word("Z", -v.Depth, coordPlaces),
			word("R", v.Retract, coordPlaces),
			word("F", v.Feed, tapFeedPlaces)}, " ")
	case CancelCycle:
		return "G80"
	case Dwell:
		return word("G04 P", v.Seconds, dwellPlaces)
	case Comment:
		return "; " + v.Text
	case Spindle:
		switch v.Dir {
		case SpindleCW:
			return fmt.Sprintf("S%d M03", int(v.RPM+0.5))
		case SpindleCCW:
			return fmt.Sprintf("S%d M04", int(v.RPM+0.5))
		default:
			return "M05"
		}
	case Coolant:
		switch v.Mode {
		case CoolantFlood:
			return "M08"
		case CoolantMist:
			return "M07"
		case CoolantThrough:
			return "M51"
		default:
			return "M09"
		}
	case ToolChange:
		return fmt.Sprintf("T%d M06", v.Number)
	case Raw:
		return v.Code
	case Literal:
		return v.Text
	}
	return fmt.Sprintf("; unknown instruction %T", in)
}

func drillCode(v DrillCycle) string {
	var g string
	switch v.Kind {
	case CycleDwell:
		g = "G82"
	case CyclePeck:
		g = "G83"
	case CycleChipBreak:
		g = "G73"
	default:
		g = "G81"
	}
	parts := []string{g, word("Z", -v.Depth, coordPlaces), word("R", v.Retract, coordPlaces)}
	if (v.Kind == CyclePeck || v.Kind == CycleChipBreak) && v.Peck > 0 {
		parts = append(parts, word("Q", v.Peck, coordPlaces))
	}
	if v.Kind == CycleDwell && v.Dwell > 0 {
		parts = append(parts, word("P", v.Dwell, dwellPlaces))
	}
	parts = append(parts, word("F", v.Feed, feedPlaces))
	return strings.Join(parts, " ")
}

func axes(g string, x, y, z *float64) string {
	parts := []string{g}
	if x != nil {
		parts = append(parts, word("X", *x, coordPlaces))
	}
	if y != nil {
		parts = append(parts, word("Y", *y, coordPlaces))
	}
	if z != nil {
		parts = append(parts, word("Z", *z, coordPlaces))
	}
	return strings.Join(parts, " ")
}

// numbered reports whether an instruction takes a sequence number.
func numbered(in Instruction) bool {
	switch in.(type) {
	case Comment, Literal:
		return false
	}
	return true
}

// Render converts instructions to program lines. Every numbered
// instruction gets N{%04d}, starting at FirstLineNumber and increasing by
// LineNumberStep; comments and literals are left unnumbered.
func Render(ins []Instruction) []string {
	lines := make([]string, 0, len(ins))
	n := FirstLineNumber
	for _, in := range ins {
		if !numbered(in) {
			lines = append(lines, Code(in))
			continue
		}
		lines = append(lines, fmt.Sprintf("N%04d %s", n, Code(in)))
		n += LineNumberStep
	}
	return lines
}

// String renders instructions as a newline-terminated program.
func String(ins []Instruction) string {
	lines := Render(ins)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
