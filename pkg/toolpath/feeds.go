package toolpath

import (
	"errors"
	"fmt"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/gcode"
)

// ErrNoTool is returned when an operation needs cutting data and no tool
// has been loaded.
var ErrNoTool = errors.New("no tool loaded")

// feeds is the cutting and plunge feed chosen for an operation.
type feeds struct {
	cut, plunge float64
}

// engagement is how the tool meets the material, in program units.
type engagement struct {
	pct      float64
	doc, woc float64
}

// toolGeometry is the resolver's view of the current tool, in inches.
func (c *Context) toolGeometry() blackbook.ToolGeometry {
	t := c.Tool
	return blackbook.ToolGeometry{
		Diameter: c.inches(t.Diameter),
		Flutes:   max(t.Flutes, 1),
		Material: t.Material,
		Stickout: c.inches(t.Stickout),
	}
}

// resolveFeeds picks feeds for an operation. An explicit feed wins and
// leaves the spindle alone. Otherwise the resolver runs against the current
// tool and material, the spindle speed is capped by the machine and tool
// limits, and a spindle command is emitted when the speed changes.
func resolveFeeds(e *emitter, name string, feed, plunge float64, eng engagement) (feeds, error) {
	ctx := e.ctx
	f := feeds{cut: feed, plunge: plunge}
	if f.cut <= 0 {
		if ctx.Tool == nil {
			return feeds{}, fmt.Errorf("%s: %w", name, ErrNoTool)
		}
		if ctx.Material == "" {
			f.cut = ctx.length(defaultFeed)
			ctx.Warn("%s: no stock material, using default feed %.1f", name, f.cut)
		} else {
			p, err := resolveParameters(ctx, eng)
			if err != nil {
				return feeds{}, fmt.Errorf("%s: %w", name, err)
			}
			for _, w := range p.Warnings {
				ctx.Warn("%s: %s", name, w)
			}
			f.cut = ctx.length(p.Feed)
			e.spindle(float64(p.RPM))
		}
	}
	if f.plunge <= 0 {
		f.plunge = f.cut * plungeFactor
	}
	return f, nil
}

func resolveParameters(ctx *Context, eng engagement) (blackbook.CuttingParameters, error) {
	book := ctx.Book
	if book == nil {
		book = blackbook.New()
		ctx.Book = book
	}
	p, err := book.Resolve(ctx.Material, ctx.toolGeometry(), blackbook.Engagement{
		AxialDOC:  ctx.inches(eng.doc),
		RadialWOC: ctx.inches(eng.woc),
		RadialPct: eng.pct,
	})
	if err != nil {
		return blackbook.CuttingParameters{}, err
	}
	if limit := ctx.rpmLimit(); limit > 0 {
		return blackbook.ApplyRPMLimit(*p, uint(limit)), nil
	}
	return *p, nil
}

// spindle turns the spindle on at rpm unless it already runs at that speed.
// A stopped spindle restarts clockwise.
func (e *emitter) spindle(rpm float64) {
	ctx := e.ctx
	if ctx.SpindleDir != gcode.SpindleOff && ctx.SpindleRPM == rpm {
		return
	}
	dir := ctx.SpindleDir
	if dir == gcode.SpindleOff {
		dir = gcode.SpindleCW
	}
	e.add(gcode.Spindle{Dir: dir, RPM: rpm})
	ctx.SpindleDir = dir
	ctx.SpindleRPM = rpm
}

// toolRadius is the current tool radius, or zero with no tool loaded.
func (c *Context) toolRadius() float64 {
	if c.Tool == nil {
		return 0
	}
	return c.Tool.Radius()
}

// stepover converts a stepover fraction to a distance.
func (c *Context) stepover(fraction, fallback float64) float64 {
	if fraction <= 0 || fraction > 1 {
		fraction = fallback
	}
	d := c.toolRadius() * 2
	if d == 0 {
		d = c.length(0.25)
	}
	return fraction * d
}

func (c *Context) stepdown(v float64) float64 {
	if v > 0 {
		return v
	}
	return c.length(defaultStepdown)
}

func (c *Context) retract(v float64) float64 {
	if v > 0 {
		return v
	}
	return c.length(defaultRetract)
}
