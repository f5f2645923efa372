// Package post adapts the generic instruction stream to a controller
// dialect. The set of dialects is closed: Generic, Mach3 (long-form
// drilling), LinuxCNC and Haas.
package post

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/swarf/pkg/gcode"
)

// Processor transforms a generic instruction stream for one controller.
// Process never fails: instructions it does not handle pass through.
type Processor interface {
	Name() string
	SupportsCannedCycles() bool
	SupportsSubroutines() bool
	Process(ins []gcode.Instruction) []gcode.Instruction
}

// Kind selects a dialect.
type Kind int

const (
	Generic Kind = iota
	Mach3
	LinuxCNC
	Haas
)

var kindNames = map[Kind]string{
	Generic:  "generic",
	Mach3:    "mach3",
	LinuxCNC: "linuxcnc",
	Haas:     "haas",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists every dialect in selector order.
func Kinds() []Kind {
	return []Kind{Generic, Mach3, LinuxCNC, Haas}
}

// ParseKind maps a selector name to a Kind. "mach4" and "fanuc" are
// accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "generic", "fanuc":
		return Generic, nil
	case "mach3", "mach4":
		return Mach3, nil
	case "linuxcnc":
		return LinuxCNC, nil
	case "haas":
		return Haas, nil
	}
	names := make([]string, 0, len(kindNames))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return Generic, fmt.Errorf("unknown post processor %q (want one of %s)", s, strings.Join(names, ", "))
}

// Options configures a processor.
type Options struct {
	// Metric selects G21 in dialect headers and scales the peck chip
	// clearance to millimetres.
	Metric bool
}

// New returns the processor for kind. Unknown kinds get Generic.
func New(kind Kind, opts Options) Processor {
	switch kind {
	case Mach3:
		return newLongForm(opts)
	case LinuxCNC:
		return &linuxCNC{opts: opts}
	case Haas:
		return &haas{opts: opts}
	}
	return genericPost{}
}

// genericPost is the canonical Fanuc-style output.
type genericPost struct{}

func (genericPost) Name() string               { return "Generic Fanuc" }
func (genericPost) SupportsCannedCycles() bool { return true }
func (genericPost) SupportsSubroutines() bool  { return true }

func (genericPost) Process(ins []gcode.Instruction) []gcode.Instruction {
	return slices.Clone(ins)
}
