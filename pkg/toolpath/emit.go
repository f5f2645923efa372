package toolpath

import (
	"fmt"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/kernel"
	"github.com/chazu/swarf/pkg/program"
)

// emitter collects the instructions of one operation. It applies the Z
// floor and keeps the cutting endpoints for the boundary check.
type emitter struct {
	ctx     *Context
	out     []gcode.Instruction
	cuts    []kernel.Point
	clamped bool
}

func newEmitter(ctx *Context) *emitter {
	return &emitter{ctx: ctx}
}

func (e *emitter) add(ins ...gcode.Instruction) {
	e.out = append(e.out, ins...)
}

func (e *emitter) comment(format string, args ...any) {
	e.add(gcode.Comment{Text: fmt.Sprintf(format, args...)})
}

func (e *emitter) z(v float64) float64 {
	z, clamped := e.ctx.clampZ(v)
	if clamped {
		e.clamped = true
	}
	return z
}

func (e *emitter) rapidXY(p program.Position) {
	e.add(gcode.RapidXY(p.X, p.Y))
}

func (e *emitter) rapidZ(z float64) {
	e.add(gcode.RapidZ(e.z(z)))
}

// safe retracts to the context's safe Z.
func (e *emitter) safe() {
	e.rapidZ(e.ctx.SafeZ)
}

func (e *emitter) plunge(z, feed float64) {
	e.add(gcode.LinearZ(e.z(z), feed))
}

// cut is a feed move in XY. The endpoint is recorded for boundary checks.
func (e *emitter) cut(p program.Position, feed float64) {
	e.add(gcode.LinearXY(p.X, p.Y, feed))
	e.cuts = append(e.cuts, kernel.Point{p.X, p.Y})
}

// circle is a full circle from the current point about centre.
func (e *emitter) circle(from, centre program.Position, clockwise bool, feed float64) {
	e.add(gcode.Arc{
		X: from.X, Y: from.Y,
		I: centre.X - from.X, J: centre.Y - from.Y,
		Clockwise: clockwise,
		Feed:      feed,
	})
	e.cuts = append(e.cuts, kernel.Point{from.X, from.Y})
}

// finish reports floor clamps and Y limit overruns once for the whole
// operation. A negative Y limit bounds travel below it, a positive one
// above.
func (e *emitter) finish(name string) []gcode.Instruction {
	if e.clamped {
		e.ctx.Warn("%s: Z moves clamped to floor %.4f", name, *e.ctx.ZFloor)
	}
	if lim := e.ctx.YLimit; lim != nil {
		for _, p := range e.cuts {
			if (*lim < 0 && p[1] < *lim) || (*lim >= 0 && p[1] > *lim) {
				e.ctx.Warn("%s: Y travel beyond limit %g", name, *lim)
				break
			}
		}
	}
	return e.out
}
