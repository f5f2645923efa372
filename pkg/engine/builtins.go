package engine

import (
	"fmt"
	"slices"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"

	"github.com/chazu/swarf/pkg/program"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPosition wraps a program.Position, returned by `at`.
type sexpPosition struct {
	pos program.Position
}

func (p *sexpPosition) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(at %g %g)", p.pos.X, p.pos.Y)
}
func (p *sexpPosition) Type() *zygo.RegisteredType { return nil }

// sexpGeometry wraps a shape built by rect, circle, polygon or path.
type sexpGeometry struct {
	geom program.Geometry
}

func (g *sexpGeometry) SexpString(ps *zygo.PrintState) string {
	switch v := g.geom.(type) {
	case program.Rect:
		return fmt.Sprintf("(rect %gx%g)", v.Width, v.Height)
	case program.Circle:
		return fmt.Sprintf("(circle :dia %g)", v.Diameter)
	case program.Polygon:
		return fmt.Sprintf("(polygon :sides %d)", v.Sides)
	case program.Path:
		return fmt.Sprintf("(path %d points)", len(v.Points))
	}
	return "(geometry)"
}
func (g *sexpGeometry) Type() *zygo.RegisteredType { return nil }

// sexpPattern wraps a program.Pattern.
type sexpPattern struct {
	pattern program.Pattern
}

func (p *sexpPattern) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pattern %d positions)", len(p.pattern.Positions()))
}
func (p *sexpPattern) Type() *zygo.RegisteredType { return nil }

// sexpStock wraps a program.Stock, returned by `stock` and consumed by
// `part`.
type sexpStock struct {
	stock program.Stock
}

func (s *sexpStock) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(stock %q %gx%gx%g)", s.stock.Material, s.stock.X, s.stock.Y, s.stock.Z)
}
func (s *sexpStock) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// args holds a builtin's positional and keyword arguments. Readers record
// the first conversion error, which finish returns along with any keyword
// the builtin never asked for.
type args struct {
	fn         string
	kw         map[string]zygo.Sexp
	order      []string
	used       map[string]bool
	positional []zygo.Sexp
	err        error
}

// parseArgs separates args into keyword and positional arguments. A
// keyword takes the following argument as its value; a trailing keyword
// gets SexpNull. Keywords ending in '+' or '-' (:x+, :y-) name directions
// and are positional.
func parseArgs(fn string, in []zygo.Sexp) *args {
	a := &args{fn: fn, kw: make(map[string]zygo.Sexp), used: make(map[string]bool)}
	for i := 0; i < len(in); i++ {
		name, ok := isKW(in[i])
		if !ok || strings.HasSuffix(name, "+") || strings.HasSuffix(name, "-") {
			a.positional = append(a.positional, in[i])
			continue
		}
		a.order = append(a.order, name)
		if i+1 < len(in) {
			a.kw[name] = in[i+1]
			i++
		} else {
			a.kw[name] = zygo.SexpNull
		}
	}
	return a
}

func (a *args) fail(key string, err error) {
	if a.err == nil {
		a.err = fmt.Errorf("%s: %s: %w", a.fn, key, err)
	}
}

// get returns the value of the first of keys that is present.
func (a *args) get(keys ...string) (string, zygo.Sexp, bool) {
	for _, k := range keys {
		if v, ok := a.kw[k]; ok {
			a.used[k] = true
			return k, v, true
		}
	}
	return "", nil, false
}

func (a *args) has(keys ...string) bool {
	_, _, ok := a.get(keys...)
	return ok
}

func (a *args) num(dst *float64, keys ...string) {
	if k, v, ok := a.get(keys...); ok {
		f, err := toFloat64(v)
		if err != nil {
			a.fail(k, err)
			return
		}
		*dst = f
	}
}

func (a *args) numPtr(keys ...string) *float64 {
	if !a.has(keys...) {
		return nil
	}
	var f float64
	a.num(&f, keys...)
	return &f
}

func (a *args) integer(dst *int, keys ...string) {
	if k, v, ok := a.get(keys...); ok {
		n, err := toInt(v)
		if err != nil {
			a.fail(k, err)
			return
		}
		*dst = n
	}
}

func (a *args) str(dst *string, keys ...string) {
	if k, v, ok := a.get(keys...); ok {
		s, err := toKeywordString(v)
		if err != nil {
			a.fail(k, err)
			return
		}
		*dst = s
	}
}

// flag accepts a boolean value or a bare trailing keyword.
func (a *args) flag(dst *bool, keys ...string) {
	if k, v, ok := a.get(keys...); ok {
		switch b := v.(type) {
		case *zygo.SexpBool:
			*dst = b.Val
		case *zygo.SexpSentinel:
			*dst = b == zygo.SexpNull
		default:
			a.fail(k, fmt.Errorf("expected true or false, got %s", v.SexpString(nil)))
		}
	}
}

func (a *args) position(dst *program.Position, keys ...string) {
	if k, v, ok := a.get(keys...); ok {
		p, err := toPosition(v)
		if err != nil {
			a.fail(k, err)
			return
		}
		*dst = p
	}
}

func (a *args) positions(keys ...string) []program.Position {
	k, v, ok := a.get(keys...)
	if !ok {
		return nil
	}
	ps, err := toPositions(v)
	if err != nil {
		a.fail(k, err)
	}
	return ps
}

func (a *args) pattern(keys ...string) program.Pattern {
	k, v, ok := a.get(keys...)
	if !ok {
		return nil
	}
	switch p := v.(type) {
	case *sexpPattern:
		return p.pattern
	default:
		ps, err := toPositions(v)
		if err != nil {
			a.fail(k, err)
			return nil
		}
		return program.Points(ps)
	}
}

// geometry reads the first positional argument as a shape.
func (a *args) geometry() program.Geometry {
	if len(a.positional) == 0 {
		if a.err == nil {
			a.err = fmt.Errorf("%s requires a geometry argument", a.fn)
		}
		return nil
	}
	g, ok := a.positional[0].(*sexpGeometry)
	if !ok {
		a.fail("geometry", fmt.Errorf("expected rect, circle, polygon or path, got %s", a.positional[0].SexpString(nil)))
		return nil
	}
	return g.geom
}

// finish returns the first error, or reports keywords no reader consumed.
func (a *args) finish() error {
	if a.err != nil {
		return a.err
	}
	unknown := lo.Filter(a.order, func(k string, _ int) bool { return !a.used[k] })
	if len(unknown) > 0 {
		return fmt.Errorf("%s: unknown keyword :%s", a.fn, strings.Join(lo.Uniq(unknown), ", :"))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %s", s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toPosition accepts (at x y) or a two-number list or array.
func toPosition(s zygo.Sexp) (program.Position, error) {
	if p, ok := s.(*sexpPosition); ok {
		return p.pos, nil
	}
	items, err := sexpListToSlice(s)
	if err == nil && len(items) == 2 {
		x, errX := toFloat64(items[0])
		y, errY := toFloat64(items[1])
		if errX == nil && errY == nil {
			return program.Position{X: x, Y: y}, nil
		}
	}
	return program.Position{}, fmt.Errorf("expected position, got %s", s.SexpString(nil))
}

// toPositions accepts a single position, a pattern, or a list of
// positions.
func toPositions(s zygo.Sexp) ([]program.Position, error) {
	switch v := s.(type) {
	case *sexpPosition:
		return []program.Position{v.pos}, nil
	case *sexpPattern:
		return v.pattern.Positions(), nil
	}
	if p, err := toPosition(s); err == nil {
		return []program.Position{p}, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected positions: %w", err)
	}
	out := make([]program.Position, 0, len(items))
	for i, it := range items {
		p, err := toPosition(it)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(a *args) (zygo.Sexp, error)

// register installs fn under name, wrapping it with argument parsing.
// Kebab-case names are registered in the snake_case form the
// preprocessor produces.
func register(env *zygo.Zlisp, name string, fn builtin) {
	env.AddFunction(strings.ReplaceAll(name, "-", "_"), func(env *zygo.Zlisp, _ string, in []zygo.Sexp) (zygo.Sexp, error) {
		return fn(parseArgs(name, in))
	})
}

// builtinNames lists every DSL form, for documentation and tests.
var builtinNames = []string{
	"at", "rect", "circle", "polygon", "path",
	"grid", "bolt-circle", "line-pattern", "arc-pattern",
	"program", "stock", "part", "setup", "tool", "spindle", "coolant",
	"drill", "hole", "pocket", "profile", "face", "tap", "cut", "clear",
	"note", "end",
}

// registerBuiltins installs all swarf DSL builtins into a zygomys
// environment. Operation builtins append to p in evaluation order.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *program.Program) {
	registerShapes(env)
	registerPatterns(env)
	registerProgram(env, p)
	registerOperations(env, p)
}

// ---------------------------------------------------------------------------
// Positions and shapes
// ---------------------------------------------------------------------------

func registerShapes(env *zygo.Zlisp) {
	// (at 1.5 2)
	register(env, "at", func(a *args) (zygo.Sexp, error) {
		if len(a.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("at requires exactly 2 arguments, got %d", len(a.positional))
		}
		x, err := toFloat64(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("at: x: %w", err)
		}
		y, err := toFloat64(a.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("at: y: %w", err)
		}
		return &sexpPosition{pos: program.Position{X: x, Y: y}}, a.finish()
	})

	// (rect :at (at 0 0) :width 2 :height 1 :corner-radius 0.25 :rotation 30)
	register(env, "rect", func(a *args) (zygo.Sexp, error) {
		r := program.Rect{}
		a.position(&r.BottomLeft, "at", "corner")
		a.num(&r.Width, "width", "w")
		a.num(&r.Height, "height", "h")
		a.num(&r.CornerRadius, "corner-radius", "radius")
		a.num(&r.Rotation, "rotation")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: r}, nil
	})

	// (circle :center (at 1 1) :dia 0.5)
	register(env, "circle", func(a *args) (zygo.Sexp, error) {
		c := program.Circle{}
		a.position(&c.Center, "center", "at")
		a.num(&c.Diameter, "dia", "diameter")
		if a.has("radius") {
			var r float64
			a.num(&r, "radius")
			c.Diameter = 2 * r
		}
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: c}, nil
	})

	// (polygon :center (at 0 0) :radius 1 :sides 6 :rotation 0)
	register(env, "polygon", func(a *args) (zygo.Sexp, error) {
		pg := program.Polygon{}
		a.position(&pg.Center, "center", "at")
		a.num(&pg.Circumradius, "radius", "circumradius")
		a.integer(&pg.Sides, "sides")
		a.num(&pg.Rotation, "rotation")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: pg}, nil
	})

	// (path (at 0 0) (at 1 0) (at 1 1))
	register(env, "path", func(a *args) (zygo.Sexp, error) {
		var pts []program.Position
		for i, v := range a.positional {
			ps, err := toPositions(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("path: point %d: %w", i+1, err)
			}
			pts = append(pts, ps...)
		}
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGeometry{geom: program.Path{Points: pts}}, nil
	})
}

// ---------------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------------

func registerPatterns(env *zygo.Zlisp) {
	// (grid :origin (at 0 0) :cols 3 :rows 2 :dx 1 :dy 1)
	// (grid :origin (at 0 0) :width 4 :height 2 :pitch 1)
	register(env, "grid", func(a *args) (zygo.Sexp, error) {
		g := program.Grid{Cols: 1, Rows: 1}
		a.position(&g.Origin, "origin", "at")
		if a.has("width", "height") {
			var w, h, pitch float64
			a.num(&w, "width")
			a.num(&h, "height")
			a.num(&pitch, "pitch")
			px, py := pitch, pitch
			a.num(&px, "dx")
			a.num(&py, "dy")
			g = program.GridFromExtent(g.Origin, w, h, px, py)
		} else {
			a.integer(&g.Cols, "cols")
			a.integer(&g.Rows, "rows")
			a.num(&g.DX, "dx", "pitch")
			g.DY = g.DX
			a.num(&g.DY, "dy")
		}
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPattern{pattern: g}, nil
	})

	// (bolt-circle :center (at 0 0) :dia 3 :count 6 :start 15)
	register(env, "bolt-circle", func(a *args) (zygo.Sexp, error) {
		b := program.BoltCircle{}
		a.position(&b.Center, "center", "at")
		a.num(&b.Diameter, "dia", "diameter")
		a.integer(&b.Count, "count")
		a.num(&b.StartAngle, "start", "start-angle")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPattern{pattern: b}, nil
	})

	// (line-pattern :start (at 0 0) :count 4 :spacing 0.75 :angle 0)
	register(env, "line-pattern", func(a *args) (zygo.Sexp, error) {
		l := program.LinePattern{}
		a.position(&l.Start, "start", "at")
		a.integer(&l.Count, "count")
		a.num(&l.Spacing, "spacing")
		a.num(&l.Angle, "angle")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPattern{pattern: l}, nil
	})

	// (arc-pattern :center (at 0 0) :radius 2 :count 5 :start 0 :end 90)
	register(env, "arc-pattern", func(a *args) (zygo.Sexp, error) {
		ap := program.ArcPattern{}
		a.position(&ap.Center, "center", "at")
		a.num(&ap.Radius, "radius")
		a.integer(&ap.Count, "count")
		a.num(&ap.StartAngle, "start", "start-angle")
		a.num(&ap.EndAngle, "end", "end-angle")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpPattern{pattern: ap}, nil
	})
}

// choice finds the first keyword among choices, as in (coolant :flood) or
// (spindle :cw 8000), and returns the mapped value and the keyword's own
// argument.
func choice[T any](a *args, choices map[string]T) (T, zygo.Sexp, bool) {
	for _, k := range a.order {
		if v, ok := choices[strings.ToLower(k)]; ok {
			a.used[k] = true
			return v, a.kw[k], true
		}
	}
	var zero T
	return zero, nil, false
}

// oneOf maps a keyword to a value from choices, naming the accepted
// keywords on failure.
func oneOf[T any](a *args, key string, choices map[string]T, dst *T) {
	var s string
	a.str(&s, key)
	if s == "" {
		return
	}
	v, ok := choices[strings.ToLower(s)]
	if !ok {
		names := lo.Keys(choices)
		slices.Sort(names)
		a.fail(key, fmt.Errorf("unknown value %q, expected one of %s", s, strings.Join(names, ", ")))
		return
	}
	*dst = v
}
