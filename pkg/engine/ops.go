package engine

import (
	"fmt"
	"slices"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/program"
)

var (
	unitNames = map[string]program.Units{
		"imperial": program.Imperial, "inch": program.Imperial, "g20": program.Imperial,
		"metric": program.Metric, "mm": program.Metric, "g21": program.Metric,
	}
	offsetNames = map[string]program.WorkOffset{
		"g54": program.G54, "g55": program.G55, "g56": program.G56,
		"g57": program.G57, "g58": program.G58, "g59": program.G59,
	}
	coolantNames = map[string]program.CoolantMode{
		"off": program.CoolantOff, "flood": program.CoolantFlood,
		"mist": program.CoolantMist, "through": program.CoolantThrough,
	}
	spindleNames = map[string]program.SpindleDir{
		"cw": program.CW, "ccw": program.CCW, "off": program.Off,
	}
	sideNames = map[string]program.CutSide{
		"inside": program.Inside, "outside": program.Outside, "on": program.On,
	}
	directionNames = map[string]program.Direction{
		"x+": program.XPositive, "x-": program.XNegative,
		"y+": program.YPositive, "y-": program.YNegative,
		"z+": program.ZPositive, "z-": program.ZNegative,
	}
	zOnlyNames = map[string]program.ZConstraintKind{
		"positive": program.ZPositiveOnly, "negative": program.ZNegativeOnly,
	}
)

// ---------------------------------------------------------------------------
// Program header, part and setup
// ---------------------------------------------------------------------------

func registerProgram(env *zygo.Zlisp, p *program.Program) {
	// (program "bracket" :units :metric :offset :g55 :coolant :flood
	//          :max-rpm 12000 :max-feed 200 :safe-z 0.5)
	register(env, "program", func(a *args) (zygo.Sexp, error) {
		if len(a.positional) > 0 {
			name, err := toString(a.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("program: name: %w", err)
			}
			p.Name = name
		}
		h := &p.Header
		a.str(&p.Name, "name")
		oneOf(a, "units", unitNames, &h.Units)
		oneOf(a, "offset", offsetNames, &h.WorkOffset)
		oneOf(a, "coolant", coolantNames, &h.Safety.Coolant)
		a.num(&h.Safety.MaxRPM, "max-rpm")
		a.num(&h.Safety.MaxFeed, "max-feed")
		a.num(&h.Safety.SafeZ, "safe-z")
		return zygo.SexpNull, a.finish()
	})

	// (coolant :flood)
	register(env, "coolant", func(a *args) (zygo.Sexp, error) {
		c, _, ok := choice(a, coolantNames)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("coolant requires one of :flood, :mist, :through or :off")
		}
		p.Header.Safety.Coolant = c
		return zygo.SexpNull, a.finish()
	})

	// (stock :material "6061-T6" :x 4 :y 3 :z 0.5)
	register(env, "stock", func(a *args) (zygo.Sexp, error) {
		s := program.Stock{}
		a.str(&s.Material, "material")
		a.num(&s.X, "x", "length")
		a.num(&s.Y, "y", "width")
		a.num(&s.Z, "z", "thickness")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpStock{stock: s}, nil
	})

	// (part "bracket" (stock ...) :existing true)
	register(env, "part", func(a *args) (zygo.Sexp, error) {
		if len(a.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		name, err := toString(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		def := program.PartDef{Name: name}
		for _, v := range a.positional[1:] {
			s, ok := v.(*sexpStock)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("part: expected stock, got %s", v.SexpString(nil))
			}
			def.Stock = &s.stock
		}
		if _, v, ok := a.get("stock"); ok {
			s, isStock := v.(*sexpStock)
			if !isStock {
				a.fail("stock", fmt.Errorf("expected stock, got %s", v.SexpString(nil)))
			} else {
				def.Stock = &s.stock
			}
		}
		a.flag(&def.Existing, "existing")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		p.Add(def)
		return zygo.SexpNull, nil
	})

	// (setup :zero-x :left :zero-y :front :zero-z :top :z-min -0.6 :y-limit 3)
	register(env, "setup", func(a *args) (zygo.Sexp, error) {
		s := program.Setup{}
		s.ZeroX = zeroRef(a, "zero-x")
		s.ZeroY = zeroRef(a, "zero-y")
		s.ZeroZ = zeroRef(a, "zero-z")
		s.ZMin = a.numPtr("z-min")
		s.YLimit = a.numPtr("y-limit")
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		p.Add(s)
		return zygo.SexpNull, nil
	})

	// (end :return (at 0 0) :code "M30")
	register(env, "end", func(a *args) (zygo.Sexp, error) {
		a.position(&p.Footer.ReturnTo, "return", "at")
		a.str(&p.Footer.EndCode, "code")
		return zygo.SexpNull, a.finish()
	})

	// (note "deburr after this op")
	register(env, "note", func(a *args) (zygo.Sexp, error) {
		if len(a.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("note requires one string argument")
		}
		text, err := toString(a.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("note: %w", err)
		}
		p.Add(program.Comment{Text: text})
		return zygo.SexpNull, a.finish()
	})
}

// zeroRef reads a named edge (:left) or a number.
func zeroRef(a *args, key string) program.Ref {
	k, v, ok := a.get(key)
	if !ok {
		return program.Ref{}
	}
	if f, err := toFloat64(v); err == nil {
		return program.Ref{Value: &f}
	}
	name, err := toKeywordString(v)
	if err != nil {
		a.fail(k, err)
	}
	return program.Ref{Name: name}
}

// ---------------------------------------------------------------------------
// Tooling
// ---------------------------------------------------------------------------

func registerTooling(env *zygo.Zlisp, p *program.Program) {
	// (tool 1 :dia 0.25 :flutes 3 :length 2 :material :carbide)
	// (tool 2 :ref "3/8 drill")
	register(env, "tool", func(a *args) (zygo.Sexp, error) {
		tc := program.ToolChange{}
		if len(a.positional) > 0 {
			n, err := toInt(a.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: number: %w", err)
			}
			tc.Number = n
		}
		a.integer(&tc.Number, "number")
		a.str(&tc.Ref, "ref")
		if a.has("dia", "diameter") {
			d := &program.ToolData{Flutes: 2, Material: blackbook.Carbide}
			a.num(&d.Diameter, "dia", "diameter")
			a.num(&d.Length, "length")
			a.integer(&d.Flutes, "flutes")
			a.num(&d.MaxRPM, "max-rpm")
			a.num(&d.Stickout, "stickout")
			var mat string
			a.str(&mat, "material")
			if mat != "" {
				tm, err := blackbook.ParseToolMaterial(mat)
				if err != nil {
					a.fail("material", err)
				}
				d.Material = tm
			}
			tc.Data = d
		}
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		if tc.Number == 0 && tc.Ref == "" {
			return zygo.SexpNull, fmt.Errorf("tool requires a number or :ref")
		}
		p.Add(tc)
		return zygo.SexpNull, nil
	})

	// (spindle :cw 8000), (spindle :off), (spindle 8000)
	register(env, "spindle", func(a *args) (zygo.Sexp, error) {
		sc := program.SpindleCommand{Dir: program.CW}
		rpm := slices.Clone(a.positional)
		if dir, v, ok := choice(a, spindleNames); ok {
			sc.Dir = dir
			if v != zygo.SexpNull {
				rpm = append(rpm, v)
			}
		}
		for _, v := range rpm {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("spindle: rpm: %w", err)
			}
			sc.RPM = f
		}
		if err := a.finish(); err != nil {
			return zygo.SexpNull, err
		}
		p.Add(sc)
		return zygo.SexpNull, nil
	})
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// add appends op, wrapped in a Patterned when :pattern is given.
func add(p *program.Program, a *args, op program.Operation) error {
	pat := a.pattern("pattern")
	if err := a.finish(); err != nil {
		return err
	}
	if pat != nil {
		op = program.Patterned{Pattern: pat, Base: op}
	}
	p.Add(op)
	return nil
}

// holePositions reads :at, defaulting to the origin when a pattern
// supplies the positions.
func holePositions(a *args) []program.Position {
	ps := a.positions("at", "positions")
	if ps == nil && a.kw["pattern"] != nil {
		ps = []program.Position{{}}
	}
	return ps
}

func registerOperations(env *zygo.Zlisp, p *program.Program) {
	registerTooling(env, p)

	drill := func(a *args) program.Drill {
		d := program.Drill{Positions: holePositions(a)}
		a.num(&d.Depth, "depth")
		a.flag(&d.Thru, "thru")
		a.num(&d.Peck, "peck")
		a.flag(&d.ChipBreak, "chip-break")
		a.num(&d.Retract, "retract")
		a.num(&d.Feed, "feed")
		a.num(&d.Dwell, "dwell")
		a.num(&d.Diameter, "dia", "diameter")
		return d
	}

	// (drill :at (list (at 1 1) (at 2 1)) :depth 0.5 :peck 0.1)
	register(env, "drill", func(a *args) (zygo.Sexp, error) {
		return zygo.SexpNull, add(p, a, drill(a))
	})

	// (hole :at (at 1 1) :dia 0.25) drills through unless :depth is given.
	register(env, "hole", func(a *args) (zygo.Sexp, error) {
		d := drill(a)
		if !a.has("depth") && !a.has("thru") {
			d.Thru = true
		}
		return zygo.SexpNull, add(p, a, d)
	})

	// (pocket (rect ...) :depth 0.25 :stepdown 0.1 :stepover 0.4 :finish 0.01)
	register(env, "pocket", func(a *args) (zygo.Sexp, error) {
		pk := program.Pocket{Geometry: a.geometry()}
		a.num(&pk.Depth, "depth")
		a.num(&pk.Stepdown, "stepdown")
		a.num(&pk.Stepover, "stepover")
		a.num(&pk.Feed, "feed")
		a.num(&pk.PlungeFeed, "plunge-feed", "plunge")
		a.num(&pk.FinishAllowance, "finish", "finish-allowance")
		return zygo.SexpNull, add(p, a, pk)
	})

	// (profile (circle ...) :depth 0.5 :side :outside :stock-to-leave 0.01)
	register(env, "profile", func(a *args) (zygo.Sexp, error) {
		pr := program.Profile{Geometry: a.geometry(), Side: program.Outside}
		a.num(&pr.Depth, "depth")
		oneOf(a, "side", sideNames, &pr.Side)
		a.num(&pr.StockToLeave, "stock-to-leave", "leave")
		a.num(&pr.Stepdown, "stepdown")
		a.num(&pr.Feed, "feed")
		a.num(&pr.PlungeFeed, "plunge-feed", "plunge")
		return zygo.SexpNull, add(p, a, pr)
	})

	// (face (rect :width 4 :height 3) :depth 0.02 :stepover 0.7)
	register(env, "face", func(a *args) (zygo.Sexp, error) {
		f := program.Face{}
		if g := a.geometry(); g != nil {
			r, ok := g.(program.Rect)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("face: bounds must be a rect")
			}
			f.Bounds = r
		}
		a.num(&f.Depth, "depth")
		a.num(&f.Stepover, "stepover")
		a.num(&f.Feed, "feed")
		return zygo.SexpNull, add(p, a, f)
	})

	// (tap :at (at 1 1) :depth 0.4 :pitch 0.05), or :tpi 20
	register(env, "tap", func(a *args) (zygo.Sexp, error) {
		t := program.Tap{Positions: holePositions(a)}
		a.num(&t.Depth, "depth")
		a.num(&t.Pitch, "pitch")
		if a.has("tpi") {
			var tpi float64
			a.num(&tpi, "tpi")
			if tpi <= 0 {
				a.fail("tpi", fmt.Errorf("must be positive, got %g", tpi))
			} else {
				t.Pitch = 1 / tpi
			}
		}
		a.num(&t.Retract, "retract")
		return zygo.SexpNull, add(p, a, t)
	})

	// (cut :x+ :sweep 2 :depth 0.5 :height 0.25 :start (at 0 0) :z-min -0.3)
	register(env, "cut", func(a *args) (zygo.Sexp, error) {
		c := program.Cut{}
		slabArgs(a, &c.Direction, &c.Sweep, &c.Depth, &c.Height, &c.Start, &c.ZConstraint)
		return zygo.SexpNull, add(p, a, c)
	})

	// (clear :y- :sweep 3 :depth 0.75 :height 0.5 :z-only :positive)
	register(env, "clear", func(a *args) (zygo.Sexp, error) {
		c := program.Clear{}
		slabArgs(a, &c.Direction, &c.Sweep, &c.Depth, &c.Height, &c.Start, &c.ZConstraint)
		return zygo.SexpNull, add(p, a, c)
	})
}

// slabArgs reads the arguments shared by cut and clear. The direction is
// a positional keyword (:x+) or :direction.
func slabArgs(a *args, dir *program.Direction, sweep, depth, height *float64, start *program.Position, zc *program.ZConstraint) {
	for _, v := range a.positional {
		name, err := toKeywordString(v)
		if err != nil {
			a.fail("direction", err)
			continue
		}
		d, ok := directionNames[name]
		if !ok {
			a.fail("direction", fmt.Errorf("unknown direction %q, expected x+, x-, y+, y-, z+ or z-", name))
			continue
		}
		*dir = d
	}
	oneOf(a, "direction", directionNames, dir)
	a.num(sweep, "sweep")
	a.num(depth, "depth")
	a.num(height, "height")
	a.position(start, "start", "at")
	oneOf(a, "z-only", zOnlyNames, &zc.Kind)
	if a.has("z-min") {
		zc.Kind = program.ZMinimum
		a.num(&zc.Floor, "z-min")
	}
}
