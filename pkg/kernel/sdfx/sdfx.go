// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/swarf/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region.
type sdfxRegion struct {
	s sdf.SDF2
}

// Distance evaluates the signed distance function.
func (r *sdfxRegion) Distance(x, y float64) float64 {
	return r.s.Evaluate(v2.Vec{X: x, Y: y})
}

// BoundingBox returns the axis-aligned bounding box.
func (r *sdfxRegion) BoundingBox() (min, max [2]float64) {
	bb := r.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func unwrap(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s}
}

// Rect creates a rectangle with its bottom-left corner at (x, y), rotated
// about that corner. sdf.Box2D centres the box at the origin, so it is
// shifted by half its size before rotating.
func (k *SdfxKernel) Rect(x, y, w, h, cornerRadius, rotation float64) kernel.Region {
	s := sdf.Box2D(v2.Vec{X: w, Y: h}, math.Min(cornerRadius, math.Min(w, h)/2))
	m := sdf.Translate2d(v2.Vec{X: x, Y: y}).
		Mul(sdf.Rotate2d(rotation * math.Pi / 180)).
		Mul(sdf.Translate2d(v2.Vec{X: w / 2, Y: h / 2}))
	return wrap(sdf.Transform2D(s, m))
}

// Circle creates a circle of radius r centred at (cx, cy).
func (k *SdfxKernel) Circle(cx, cy, r float64) kernel.Region {
	s, err := sdf.Circle2D(r)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Circle2D: %v", err))
	}
	return wrap(sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: cx, Y: cy})))
}

// Polygon creates a closed polygon from its vertices.
func (k *SdfxKernel) Polygon(vertices [][2]float64) (kernel.Region, error) {
	vs := make([]v2.Vec, len(vertices))
	for i, p := range vertices {
		vs[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return wrap(s), nil
}

// Offset grows or shrinks a region by d.
func (k *SdfxKernel) Offset(r kernel.Region, d float64) kernel.Region {
	return wrap(sdf.Offset2D(unwrap(r), d))
}
