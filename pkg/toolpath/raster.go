package toolpath

import (
	"math"

	"github.com/chazu/swarf/pkg/kernel"
)

// rasterRows spaces rows from lo to hi inclusive. The row count is
// ceil(span/nominal)+1, so the actual spacing span/ceil(span/nominal) never
// exceeds nominal and the last row lands exactly on hi.
func rasterRows(lo, hi, nominal float64) []float64 {
	span := hi - lo
	if span <= 1e-9 || nominal <= 0 {
		return []float64{lo}
	}
	n := int(math.Ceil(span/nominal - 1e-9))
	step := span / float64(n)
	rows := make([]float64, n+1)
	for i := range rows {
		rows[i] = lo + float64(i)*step
	}
	rows[n] = hi
	return rows
}

// span is the inside interval of one raster row.
type span struct {
	y, x0, x1 float64
}

const (
	rowSamples    = 256
	bisectionIter = 48
)

// regionSpans intersects each row with the inside of r (distance <= 0).
// Regions are assumed convex along a row: the first and last inside
// samples are refined by bisection and everything between is taken as
// inside. Rows that miss the region are dropped.
func regionSpans(r kernel.Region, rows []float64) []span {
	min, max := r.BoundingBox()
	width := max[0] - min[0]
	if width <= 0 {
		return nil
	}
	dx := width / rowSamples
	var out []span
	for _, y := range rows {
		first, last := -1, -1
		for i := 0; i <= rowSamples; i++ {
			if r.Distance(min[0]+float64(i)*dx, y) <= 0 {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		if first < 0 {
			continue
		}
		x0 := min[0] + float64(first)*dx
		if first > 0 {
			x0 = bisect(r, y, x0-dx, x0)
		}
		x1 := min[0] + float64(last)*dx
		if last < rowSamples {
			x1 = bisect(r, y, x1+dx, x1)
		}
		out = append(out, span{y: y, x0: x0, x1: x1})
	}
	return out
}

// bisect narrows onto the boundary between out (distance > 0) and in
// (distance <= 0), returning the inside end.
func bisect(r kernel.Region, y, out, in float64) float64 {
	for range bisectionIter {
		mid := (out + in) / 2
		if r.Distance(mid, y) <= 0 {
			in = mid
		} else {
			out = mid
		}
	}
	return in
}

// checkInside warns when a cutting endpoint comes closer than clearance
// to the boundary of r or leaves it.
func checkInside(e *emitter, name string, r kernel.Region, clearance float64) {
	if r == nil {
		return
	}
	reportViolations(e.ctx, name, kernel.CheckInside(r, clearance, e.cuts), clearance)
}

// checkOutside warns when a cutting endpoint comes closer than clearance
// to r from outside or enters it.
func checkOutside(e *emitter, name string, r kernel.Region, clearance float64) {
	if r == nil {
		return
	}
	reportViolations(e.ctx, name, kernel.CheckOutside(r, clearance, e.cuts), clearance)
}

func reportViolations(ctx *Context, name string, vs []kernel.Violation, clearance float64) {
	if len(vs) == 0 {
		return
	}
	ctx.Warn("%s: %d toolpath points within %.4f of the boundary, first at X%.4f Y%.4f",
		name, len(vs), clearance, vs[0].Point[0], vs[0].Point[1])
}
