// Package toolpath turns program operations into motion instructions. A
// Context carries the compiler state (current tool, material, stock and
// spindle) through one compilation.
package toolpath

import (
	"fmt"
	"math"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/kernel"
	"github.com/chazu/swarf/pkg/kernel/sdfx"
	"github.com/chazu/swarf/pkg/program"
	"github.com/chazu/swarf/pkg/toollib"
	"github.com/samber/lo"
)

// Imperial defaults. Metric programs scale these by mmPerInch.
const (
	mmPerInch = 25.4

	defaultSafeZ    = 1.0
	defaultRetract  = 0.1
	defaultStepdown = 0.1
	defaultFeed     = 10.0
	// throughDepth is used for through holes when the stock is unknown.
	throughDepth = 0.55
	// breakout is added to the stock thickness for through holes.
	breakout = 0.05
	// minSpiralRadius is the smallest circular pocket travel radius that
	// gets a spiral. Anything smaller is a single plunge.
	minSpiralRadius = 0.125
)

const (
	defaultTapRPM        = 500.0
	defaultPocketStep    = 0.4
	defaultFaceStep      = 0.7
	slabEngagementPct    = 50.0
	profileEngagementPct = 100.0
	plungeFactor         = 0.5
	pecksPerDiameter     = 1.5
	peckRatio            = 3.0
	spiralPointsPerRev   = 36
)

// Tool is the cutter currently in the spindle.
type Tool struct {
	Number   int
	Diameter float64
	Length   float64
	Flutes   int
	Material blackbook.ToolMaterial
	MaxRPM   float64
	Stickout float64
}

// Radius is half the diameter.
func (t *Tool) Radius() float64 { return t.Diameter / 2 }

// Context is the mutable state of one compilation. It is not safe for
// concurrent use; give each compilation its own.
type Context struct {
	Book   *blackbook.Book
	Tools  *toollib.Library
	Kernel kernel.Kernel

	Tool     *Tool
	Material string
	Stock    *program.Stock

	// MaxRPM is the machine spindle limit. Zero means unlimited.
	MaxRPM     float64
	SpindleRPM float64
	SpindleDir gcode.SpindleDir
	Coolant    gcode.CoolantMode

	Units  program.Units
	SafeZ  float64
	ZFloor *float64
	YLimit *float64

	Warnings []string
}

// NewContext returns a context using book for cutting data and the sdfx
// kernel for boundary checks.
func NewContext(book *blackbook.Book) *Context {
	return &Context{
		Book:       book,
		Kernel:     sdfx.New(),
		SpindleDir: gcode.SpindleOff,
		SafeZ:      defaultSafeZ,
	}
}

// Warn records an advisory message. Repeats of a message already
// recorded are dropped.
func (c *Context) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if lo.Contains(c.Warnings, msg) {
		return
	}
	c.Warnings = append(c.Warnings, msg)
}

// length converts an inch constant to program units.
func (c *Context) length(inches float64) float64 {
	if c.Units == program.Metric {
		return inches * mmPerInch
	}
	return inches
}

// inches converts a program length to inches for the resolver.
func (c *Context) inches(v float64) float64 {
	if c.Units == program.Metric {
		return v / mmPerInch
	}
	return v
}

// rpmLimit is the tighter of the machine and tool limits, or zero.
func (c *Context) rpmLimit() float64 {
	limit := c.MaxRPM
	if c.Tool != nil && c.Tool.MaxRPM > 0 && (limit == 0 || c.Tool.MaxRPM < limit) {
		limit = c.Tool.MaxRPM
	}
	return limit
}

// clampZ applies the setup Z floor.
func (c *Context) clampZ(z float64) (float64, bool) {
	if c.ZFloor != nil && z < *c.ZFloor {
		return *c.ZFloor, true
	}
	return z, false
}

// passes splits depth into ceil(depth/step) levels, each bounded by depth.
// Levels are returned as negative Z values.
func passes(depth, step float64) []float64 {
	if depth <= 0 {
		return nil
	}
	if step <= 0 || step > depth {
		step = depth
	}
	n := int(math.Ceil(depth/step - 1e-9))
	out := make([]float64, n)
	for k := 1; k <= n; k++ {
		out[k-1] = -math.Min(float64(k)*step, depth)
	}
	return out
}
