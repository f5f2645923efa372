package toolpath

import (
	"math"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
)

// synthFace rasters the bounds at one depth. Rows are spread evenly over
// the height, ceil(height/stepover) of them, and every row overtravels
// both ends by a tool radius.
func synthFace(ctx *Context, fc program.Face) ([]gcode.Instruction, error) {
	e := newEmitter(ctx)
	b := fc.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		e.comment("DEGENERATE FACE BOUNDS")
		return e.finish("face"), nil
	}
	frac := fraction(fc.Stepover, defaultFaceStep)
	step := ctx.stepover(frac, defaultFaceStep)
	f, err := resolveFeeds(e, "face", fc.Feed, 0, engagement{pct: frac * 100, doc: fc.Depth, woc: step})
	if err != nil {
		return nil, err
	}

	rad := ctx.toolRadius()
	n := max(int(math.Ceil(b.Height/step-1e-9)), 1)
	pitch := b.Height / float64(n)
	xa, xb := -rad, b.Width+rad

	e.comment("FACE MILLING")
	e.safe()
	for i := range n {
		y := (float64(i) + 0.5) * pitch
		a, c := xa, xb
		if i%2 == 1 {
			a, c = xb, xa
		}
		if i == 0 {
			enter(e, b.ToWorld(program.Position{X: a, Y: y}), -fc.Depth, f)
		} else {
			e.cut(b.ToWorld(program.Position{X: a, Y: y}), f.cut)
		}
		e.cut(b.ToWorld(program.Position{X: c, Y: y}), f.cut)
	}
	e.safe()
	return e.finish("face"), nil
}
