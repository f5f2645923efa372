package toolpath

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/program"
	"github.com/chazu/swarf/pkg/toollib"
)

// newCtx returns a context with a 1/4" three-flute carbide end mill in
// 6061-T6.
func newCtx(t *testing.T) *Context {
	t.Helper()
	ctx := NewContext(blackbook.New())
	ctx.Tool = &Tool{Number: 1, Diameter: 0.25, Length: 2, Flutes: 3, Material: blackbook.Carbide}
	ctx.Material = "6061-T6"
	return ctx
}

func ofType[T gcode.Instruction](ins []gcode.Instruction) []T {
	var out []T
	for _, in := range ins {
		if v, ok := in.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func hasComment(ins []gcode.Instruction, text string) bool {
	for _, c := range ofType[gcode.Comment](ins) {
		if strings.Contains(c.Text, text) {
			return true
		}
	}
	return false
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestPasses(t *testing.T) {
	tests := []struct {
		name        string
		depth, step float64
		want        []float64
	}{
		{"even", 0.3, 0.1, []float64{-0.1, -0.2, -0.3}},
		{"remainder bounded by depth", 0.25, 0.1, []float64{-0.1, -0.2, -0.25}},
		{"step larger than depth", 0.05, 0.1, []float64{-0.05}},
		{"no step", 0.2, 0, []float64{-0.2}},
		{"no depth", 0, 0.1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := passes(tt.depth, tt.step)
			if len(got) != len(tt.want) {
				t.Fatalf("passes = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !approx(got[i], tt.want[i]) {
					t.Errorf("pass %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRasterRows(t *testing.T) {
	rows := rasterRows(0.125, 0.875, 0.1)
	if len(rows) != 9 {
		t.Fatalf("got %d rows, want 9", len(rows))
	}
	if rows[0] != 0.125 || rows[len(rows)-1] != 0.875 {
		t.Errorf("rows span %v..%v, want 0.125..0.875", rows[0], rows[len(rows)-1])
	}
	for i := 1; i < len(rows); i++ {
		if gap := rows[i] - rows[i-1]; gap > 0.1+1e-9 {
			t.Errorf("gap %d = %v, exceeds stepover", i, gap)
		}
	}
	if got := rasterRows(1, 1, 0.1); len(got) != 1 {
		t.Errorf("zero span rows = %v, want one", got)
	}
}

// ---------------------------------------------------------------------------
// Drilling
// ---------------------------------------------------------------------------

func TestDrillCycleSelection(t *testing.T) {
	tests := []struct {
		name     string
		drill    program.Drill
		wantKind gcode.CycleKind
		wantPeck float64
	}{
		{"shallow is simple", program.Drill{Depth: 0.5}, gcode.CycleSimple, 0},
		{"deep pecks at 1.5 dia", program.Drill{Depth: 1.0}, gcode.CyclePeck, 0.375},
		{"explicit peck", program.Drill{Depth: 0.5, Peck: 0.1}, gcode.CyclePeck, 0.1},
		{"chip break", program.Drill{Depth: 0.5, ChipBreak: true}, gcode.CycleChipBreak, 0.375},
		{"dwell", program.Drill{Depth: 0.2, Dwell: 0.5}, gcode.CycleDwell, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newCtx(t)
			tt.drill.Positions = []program.Position{{X: 1, Y: 1}}
			ins, err := synthDrill(ctx, tt.drill)
			if err != nil {
				t.Fatalf("synthDrill: %v", err)
			}
			cycles := ofType[gcode.DrillCycle](ins)
			if len(cycles) != 1 {
				t.Fatalf("got %d cycles, want 1", len(cycles))
			}
			if cycles[0].Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", cycles[0].Kind, tt.wantKind)
			}
			if !approx(cycles[0].Peck, tt.wantPeck) {
				t.Errorf("peck = %v, want %v", cycles[0].Peck, tt.wantPeck)
			}
			if len(ofType[gcode.CancelCycle](ins)) != 1 {
				t.Error("missing G80")
			}
		})
	}
}

func TestDrillThroughDepth(t *testing.T) {
	ctx := newCtx(t)
	d := program.Drill{Positions: []program.Position{{}}, Thru: true}
	ins, err := synthDrill(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if got := ofType[gcode.DrillCycle](ins)[0].Depth; !approx(got, throughDepth) {
		t.Errorf("unknown stock depth = %v, want %v", got, throughDepth)
	}

	ctx.Stock = &program.Stock{Material: "6061-T6", X: 4, Y: 4, Z: 0.75}
	ins, err = synthDrill(ctx, d)
	if err != nil {
		t.Fatal(err)
	}
	if got := ofType[gcode.DrillCycle](ins)[0].Depth; !approx(got, 0.8) {
		t.Errorf("through depth = %v, want 0.8", got)
	}
}

func TestDrillResolvesSpindleAndFeed(t *testing.T) {
	ctx := newCtx(t)
	ins, err := synthDrill(ctx, program.Drill{Positions: []program.Position{{}}, Depth: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	sp := ofType[gcode.Spindle](ins)
	if len(sp) != 1 || sp[0].Dir != gcode.SpindleCW || sp[0].RPM <= 8000 {
		t.Fatalf("spindle = %+v, want one CW command above 8000 RPM", sp)
	}
	if ctx.SpindleRPM != sp[0].RPM {
		t.Errorf("context RPM = %v, want %v", ctx.SpindleRPM, sp[0].RPM)
	}

	// Same speed again: no new spindle command.
	ins, err = synthDrill(ctx, program.Drill{Positions: []program.Position{{}}, Depth: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ofType[gcode.Spindle](ins)); n != 0 {
		t.Errorf("got %d spindle commands for unchanged speed, want 0", n)
	}
}

func TestRPMLimitScalesFeed(t *testing.T) {
	free := newCtx(t)
	ins, err := synthDrill(free, program.Drill{Positions: []program.Position{{}}, Depth: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	freeRPM := ofType[gcode.Spindle](ins)[0].RPM
	freeFeed := ofType[gcode.DrillCycle](ins)[0].Feed

	limited := newCtx(t)
	limited.MaxRPM = 10000
	ins, err = synthDrill(limited, program.Drill{Positions: []program.Position{{}}, Depth: 0.25})
	if err != nil {
		t.Fatal(err)
	}
	if rpm := ofType[gcode.Spindle](ins)[0].RPM; rpm != 10000 {
		t.Fatalf("limited RPM = %v, want 10000", rpm)
	}
	want := freeFeed * 10000 / freeRPM
	if got := ofType[gcode.DrillCycle](ins)[0].Feed; math.Abs(got-want) > 1e-6*want {
		t.Errorf("limited feed = %v, want %v", got, want)
	}
}

func TestExplicitFeedSkipsResolver(t *testing.T) {
	ctx := newCtx(t)
	ctx.Material = ""
	ins, err := synthDrill(ctx, program.Drill{Positions: []program.Position{{}}, Depth: 0.2, Feed: 8})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ofType[gcode.Spindle](ins)); n != 0 {
		t.Errorf("got %d spindle commands, want 0", n)
	}
	if f := ofType[gcode.DrillCycle](ins)[0].Feed; f != 8 {
		t.Errorf("feed = %v, want 8", f)
	}
	if len(ctx.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", ctx.Warnings)
	}
}

func TestUnknownMaterial(t *testing.T) {
	ctx := newCtx(t)
	ctx.Material = "Unobtainium"
	ins, err := synthDrill(ctx, program.Drill{Positions: []program.Position{{}}, Depth: 0.25})
	if !errors.Is(err, blackbook.ErrUnknownMaterial) {
		t.Fatalf("err = %v, want ErrUnknownMaterial", err)
	}
	if len(ins) != 0 {
		t.Errorf("got %d instructions, want none", len(ins))
	}
}

func TestNoToolIsAnError(t *testing.T) {
	ctx := newCtx(t)
	ctx.Tool = nil
	_, err := synthPocket(ctx, program.Pocket{Geometry: program.Circle{Diameter: 1}, Depth: 0.1})
	if !errors.Is(err, ErrNoTool) {
		t.Errorf("err = %v, want ErrNoTool", err)
	}
}

func TestTapFeedIsRPMTimesPitch(t *testing.T) {
	ctx := newCtx(t)
	synthSpindle(ctx, program.SpindleCommand{Dir: program.CW, RPM: 600})
	ins := synthTap(ctx, program.Tap{Positions: []program.Position{{}, {X: 1}}, Depth: 0.4, Pitch: 0.05})
	taps := ofType[gcode.TapCycle](ins)
	if len(taps) != 2 {
		t.Fatalf("got %d taps, want 2", len(taps))
	}
	if !approx(taps[0].Feed, 30) {
		t.Errorf("feed = %v, want 30", taps[0].Feed)
	}

	idle := newCtx(t)
	ins = synthTap(idle, program.Tap{Positions: []program.Position{{}}, Depth: 0.4, Pitch: 0.05})
	if f := ofType[gcode.TapCycle](ins)[0].Feed; !approx(f, 25) {
		t.Errorf("default feed = %v, want 25", f)
	}
	if len(idle.Warnings) != 1 {
		t.Errorf("warnings = %v, want the assumed speed", idle.Warnings)
	}
}

// ---------------------------------------------------------------------------
// Pockets
// ---------------------------------------------------------------------------

func TestSmallCirclePocketIsSinglePlunge(t *testing.T) {
	ctx := newCtx(t)
	p := program.Pocket{Geometry: program.Circle{Center: program.Position{X: 1, Y: 1}, Diameter: 0.5}, Depth: 0.3, Stepdown: 0.1}
	ins, err := synthPocket(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	lin := ofType[gcode.Linear](ins)
	if len(lin) != 1 {
		t.Fatalf("got %d feed moves, want a single plunge", len(lin))
	}
	if lin[0].X != nil || lin[0].Z == nil || !approx(*lin[0].Z, -0.3) {
		t.Errorf("plunge = %+v, want Z-0.3 only", lin[0])
	}
	if len(ofType[gcode.Arc](ins)) != 0 {
		t.Error("unexpected arc in single plunge")
	}
	if !hasComment(ins, "SINGLE PLUNGE") {
		t.Error("missing explanatory comment")
	}
}

func TestCirclePocketSpiral(t *testing.T) {
	ctx := newCtx(t)
	c := program.Circle{Center: program.Position{X: 2, Y: 2}, Diameter: 1.5}
	ins, err := synthPocket(ctx, program.Pocket{Geometry: c, Depth: 0.2, Stepdown: 0.1, Stepover: 0.4})
	if err != nil {
		t.Fatal(err)
	}
	arcs := ofType[gcode.Arc](ins)
	if len(arcs) != 2 {
		t.Fatalf("got %d finishing circles, want one per pass", len(arcs))
	}
	travel := 0.75 - 0.125
	r := math.Hypot(arcs[0].I, arcs[0].J)
	if !approx(r, travel) {
		t.Errorf("finishing radius = %v, want %v", r, travel)
	}
	for _, l := range ofType[gcode.Linear](ins) {
		if l.X == nil {
			continue
		}
		if d := math.Hypot(*l.X-2, *l.Y-2); d > travel+1e-9 {
			t.Errorf("spiral point at radius %v beyond %v", d, travel)
		}
	}
	if len(ctx.Warnings) > 0 && strings.Contains(strings.Join(ctx.Warnings, "\n"), "boundary") {
		t.Errorf("unexpected boundary warning: %v", ctx.Warnings)
	}
}

func TestRectPocketRasterCoverage(t *testing.T) {
	ctx := newCtx(t)
	p := program.Pocket{Geometry: program.Rect{Width: 2, Height: 1}, Depth: 0.1, Stepover: 0.4}
	ins, err := synthPocket(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	var ys []float64
	for _, l := range ofType[gcode.Linear](ins) {
		if l.Y != nil && !slices.Contains(ys, *l.Y) {
			ys = append(ys, *l.Y)
		}
	}
	slices.Sort(ys)
	if !approx(ys[0], 0.125) || !approx(ys[len(ys)-1], 0.875) {
		t.Errorf("rows cover %v..%v, want 0.125..0.875", ys[0], ys[len(ys)-1])
	}
	actual := 0.75 / math.Ceil(0.75/0.1)
	for i := 1; i < len(ys); i++ {
		if gap := ys[i] - ys[i-1]; gap > actual+1e-9 {
			t.Errorf("gap %v between rows exceeds stepover %v", gap, actual)
		}
	}
	for _, w := range ctx.Warnings {
		if strings.Contains(w, "boundary") {
			t.Errorf("unexpected boundary warning %q", w)
		}
	}
}

func TestRectPocketDepthPasses(t *testing.T) {
	ctx := newCtx(t)
	p := program.Pocket{Geometry: program.Rect{Width: 1, Height: 1}, Depth: 0.25, Stepdown: 0.1, Feed: 20}
	ins, err := synthPocket(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	var zs []float64
	for _, l := range ofType[gcode.Linear](ins) {
		if l.Z != nil {
			zs = append(zs, *l.Z)
			if l.Feed != 10 {
				t.Errorf("plunge feed = %v, want half the cutting feed", l.Feed)
			}
		}
	}
	want := []float64{-0.1, -0.2, -0.25}
	if len(zs) != len(want) {
		t.Fatalf("plunges = %v, want %v", zs, want)
	}
	for i := range want {
		if !approx(zs[i], want[i]) {
			t.Errorf("plunge %d = %v, want %v", i, zs[i], want[i])
		}
	}
}

func TestRotatedRectPocketStaysInside(t *testing.T) {
	ctx := newCtx(t)
	p := program.Pocket{
		Geometry: program.Rect{BottomLeft: program.Position{X: 1, Y: 1}, Width: 2, Height: 1, Rotation: 30},
		Depth:    0.1, Feed: 20,
	}
	if _, err := synthPocket(ctx, p); err != nil {
		t.Fatal(err)
	}
	for _, w := range ctx.Warnings {
		if strings.Contains(w, "boundary") {
			t.Errorf("unexpected boundary warning %q", w)
		}
	}
}

func TestPolygonPocketUsesKernel(t *testing.T) {
	ctx := newCtx(t)
	hex := program.Polygon{Center: program.Position{X: 1, Y: 1}, Circumradius: 1, Sides: 6}
	ins, err := synthPocket(ctx, program.Pocket{Geometry: hex, Depth: 0.1, Feed: 20})
	if err != nil {
		t.Fatal(err)
	}
	if hasComment(ins, "UNSUPPORTED") {
		t.Fatal("polygon pocket reported unsupported")
	}
	if n := len(ofType[gcode.Linear](ins)); n < 10 {
		t.Errorf("got %d moves, want a raster", n)
	}
	for _, w := range ctx.Warnings {
		if strings.Contains(w, "boundary") {
			t.Errorf("unexpected boundary warning %q", w)
		}
	}
}

func TestUnsupportedPocketGeometry(t *testing.T) {
	ctx := newCtx(t)
	ins, err := synthPocket(ctx, program.Pocket{Geometry: program.Path{Points: []program.Position{{}, {X: 1}}}, Depth: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if !hasComment(ins, "UNSUPPORTED GEOMETRY") {
		t.Errorf("instructions %v missing unsupported comment", ins)
	}
}

// ---------------------------------------------------------------------------
// Profiles, facing, slabs
// ---------------------------------------------------------------------------

func TestProfileCircleSides(t *testing.T) {
	tests := []struct {
		name       string
		side       program.CutSide
		wantRadius float64
		wantCW     bool
	}{
		{"outside climbs clockwise", program.Outside, 0.625, true},
		{"inside climbs counter-clockwise", program.Inside, 0.375, false},
		{"on the line", program.On, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newCtx(t)
			ins, err := synthProfile(ctx, program.Profile{
				Geometry: program.Circle{Diameter: 1}, Depth: 0.2, Side: tt.side, Stepdown: 0.1, Feed: 30,
			})
			if err != nil {
				t.Fatal(err)
			}
			arcs := ofType[gcode.Arc](ins)
			if len(arcs) != 2 {
				t.Fatalf("got %d arcs, want 2", len(arcs))
			}
			if r := math.Hypot(arcs[0].I, arcs[0].J); !approx(r, tt.wantRadius) {
				t.Errorf("radius = %v, want %v", r, tt.wantRadius)
			}
			if arcs[0].Clockwise != tt.wantCW {
				t.Errorf("clockwise = %v, want %v", arcs[0].Clockwise, tt.wantCW)
			}
			if len(ctx.Warnings) != 0 {
				t.Errorf("unexpected warnings %v", ctx.Warnings)
			}
		})
	}
}

func TestProfileRectOutsideRoundsCorners(t *testing.T) {
	ctx := newCtx(t)
	ins, err := synthProfile(ctx, program.Profile{
		Geometry: program.Rect{Width: 2, Height: 1}, Depth: 0.1, Side: program.Outside, Feed: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	arcs := ofType[gcode.Arc](ins)
	if len(arcs) != 4 {
		t.Fatalf("got %d corner arcs, want 4", len(arcs))
	}
	for _, a := range arcs {
		if !a.Clockwise || !approx(math.Hypot(a.I, a.J), 0.125) {
			t.Errorf("corner arc %+v, want clockwise radius 0.125", a)
		}
	}
}

func TestProfileRectInsideSharp(t *testing.T) {
	ctx := newCtx(t)
	ins, err := synthProfile(ctx, program.Profile{
		Geometry: program.Rect{Width: 2, Height: 1}, Depth: 0.1, Side: program.Inside, Feed: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ofType[gcode.Arc](ins)); n != 0 {
		t.Errorf("got %d arcs, want sharp corners", n)
	}
	var xs []float64
	for _, l := range ofType[gcode.Linear](ins) {
		if l.X != nil {
			xs = append(xs, *l.X)
		}
	}
	if slices.Min(xs) < 0.125-1e-9 || slices.Max(xs) > 1.875+1e-9 {
		t.Errorf("x range %v..%v outside the offset rectangle", slices.Min(xs), slices.Max(xs))
	}
}

func TestProfileOpenPathNeedsOn(t *testing.T) {
	ctx := newCtx(t)
	path := program.Path{Points: []program.Position{{}, {X: 1}, {X: 1, Y: 1}}}
	ins, err := synthProfile(ctx, program.Profile{Geometry: path, Depth: 0.1, Side: program.Inside, Feed: 30})
	if err != nil {
		t.Fatal(err)
	}
	if !hasComment(ins, "UNSUPPORTED GEOMETRY") {
		t.Error("offset open path not reported")
	}

	ins, err = synthProfile(ctx, program.Profile{Geometry: path, Depth: 0.1, Side: program.On, Feed: 30})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(ofType[gcode.Linear](ins)); n != 3 {
		t.Errorf("got %d moves, want plunge and two segments", n)
	}
}

func TestFaceOvertravel(t *testing.T) {
	ctx := newCtx(t)
	ins, err := synthFace(ctx, program.Face{Bounds: program.Rect{Width: 3, Height: 1}, Depth: 0.02, Stepover: 0.5, Feed: 40})
	if err != nil {
		t.Fatal(err)
	}
	var xs, ys []float64
	for _, l := range ofType[gcode.Linear](ins) {
		if l.X != nil {
			xs = append(xs, *l.X)
			ys = append(ys, *l.Y)
		}
	}
	if !approx(slices.Min(xs), -0.125) || !approx(slices.Max(xs), 3.125) {
		t.Errorf("x range %v..%v, want -0.125..3.125", slices.Min(xs), slices.Max(xs))
	}
	rows := map[float64]bool{}
	for _, y := range ys {
		rows[y] = true
	}
	if len(rows) != 8 {
		t.Errorf("got %d rows, want ceil(1/0.125) = 8", len(rows))
	}
}

func TestClearLevelsHonourZConstraint(t *testing.T) {
	ctx := newCtx(t)
	c := program.Clear{Direction: program.XPositive, Sweep: 1, Depth: 0.5, Height: 0.3,
		ZConstraint: program.ZConstraint{Kind: program.ZMinimum, Floor: -0.15}}
	ins, err := synthClear(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	var zs []float64
	for _, l := range ofType[gcode.Linear](ins) {
		if l.Z != nil {
			zs = append(zs, *l.Z)
		}
	}
	if !slices.Equal(zs, []float64{-0.1, -0.15}) {
		t.Errorf("levels = %v, want [-0.1 -0.15]", zs)
	}
	if len(ctx.Warnings) == 0 {
		t.Error("missing Z constraint warning")
	}
}

func TestCutStrokeDirection(t *testing.T) {
	ctx := newCtx(t)
	ins, err := synthCut(ctx, program.Cut{Direction: program.YNegative, Sweep: 2, Depth: 0.25, Height: 0.2,
		Start: program.Position{X: 1, Y: 1}})
	if err != nil {
		t.Fatal(err)
	}
	var strokes []gcode.Linear
	for _, l := range ofType[gcode.Linear](ins) {
		if l.X != nil {
			strokes = append(strokes, l)
		}
	}
	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want one per level", len(strokes))
	}
	if !approx(*strokes[0].X, 3) || !approx(*strokes[0].Y, 0.75) {
		t.Errorf("first stroke ends at (%v, %v), want (3, 0.75)", *strokes[0].X, *strokes[0].Y)
	}
	if !approx(*strokes[1].X, 1) {
		t.Errorf("second stroke ends at X%v, want reversed to X1", *strokes[1].X)
	}
}

// ---------------------------------------------------------------------------
// Program level
// ---------------------------------------------------------------------------

func TestProgramHeaderAndFooter(t *testing.T) {
	p := program.New()
	p.Header.Units = program.Metric
	p.Header.WorkOffset = program.G55
	p.Header.Safety.Coolant = program.CoolantFlood
	p.Footer.ReturnTo = program.Position{X: 10, Y: 20}

	ctx := NewContext(blackbook.New())
	ins, errs := New().Program(p, ctx)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	lines := gcode.Render(ins)
	want := []string{
		"; PROGRAM START",
		"N0010 G90 G17 G40 G49 G80",
		"N0020 G21",
		"N0030 G55",
		"N0040 M08",
		"; PROGRAM END",
		"N0050 G00 Z25.4000",
		"N0060 G00 X10.0000 Y20.0000",
		"N0070 M05",
		"N0080 M09",
		"N0090 M30",
	}
	if !slices.Equal(lines, want) {
		t.Errorf("got\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestProgramCollectsOpErrors(t *testing.T) {
	p := program.New()
	p.Add(program.PartDef{Name: "x", Stock: &program.Stock{Material: "Unobtainium", X: 1, Y: 1, Z: 1}})
	p.Add(program.ToolChange{Number: 1, Data: &program.ToolData{Diameter: 0.25, Flutes: 2, Material: blackbook.Carbide}})
	p.Add(program.Drill{Positions: []program.Position{{}}, Depth: 0.2})
	p.Add(program.Comment{Text: "still here"})

	ins, errs := New().Program(p, NewContext(blackbook.New()))
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want one", errs)
	}
	if errs[0].Index != 2 || !errors.Is(&errs[0], blackbook.ErrUnknownMaterial) {
		t.Errorf("error = %v, want op 3 unknown material", &errs[0])
	}
	if len(ofType[gcode.DrillCycle](ins)) != 0 {
		t.Error("failed drill emitted a cycle")
	}
	if !hasComment(ins, "still here") {
		t.Error("later operations were skipped")
	}
}

func TestToolChangeFromLibrary(t *testing.T) {
	lib := toollib.New()
	lib.Add(&toollib.Tool{ID: 3, Name: "3/8 EM", Dia: 0.375, Flutes: 4, Material: blackbook.Carbide})
	ctx := NewContext(blackbook.New())
	ctx.Tools = lib

	ins, err := synthToolChange(ctx, program.ToolChange{Number: 3, Ref: "3/8"})
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Tool == nil || ctx.Tool.Diameter != 0.375 || ctx.Tool.Number != 3 {
		t.Fatalf("tool = %+v, want the library 3/8 end mill", ctx.Tool)
	}
	if tc := ofType[gcode.ToolChange](ins); len(tc) != 1 || tc[0].Number != 3 {
		t.Errorf("tool change = %v", tc)
	}
	if !hasComment(ins, "TOOL DATA: DIA=0.375") {
		t.Error("missing tool data comment")
	}

	// No data: the previous tool's geometry carries over.
	if _, err := synthToolChange(ctx, program.ToolChange{Number: 7}); err != nil {
		t.Fatal(err)
	}
	if ctx.Tool.Number != 7 || ctx.Tool.Diameter != 0.375 {
		t.Errorf("tool = %+v, want T7 with the prior diameter", ctx.Tool)
	}

	if _, err := synthToolChange(ctx, program.ToolChange{Number: 9, Ref: "dovetail"}); !errors.Is(err, toollib.ErrToolNotFound) {
		t.Errorf("err = %v, want ErrToolNotFound", err)
	}
}

func TestFromLibraryOptionalFields(t *testing.T) {
	maxRPM, stickout, length := 12000.0, 1.25, 3.0
	tests := []struct {
		name string
		in   toollib.Tool
		want Tool
	}{
		{
			name: "required fields only",
			in:   toollib.Tool{ID: 2, Dia: 0.5, Flutes: 2, Material: blackbook.HSS},
			want: Tool{Number: 4, Diameter: 0.5, Flutes: 2, Material: blackbook.HSS},
		},
		{
			name: "limits and lengths",
			in:   toollib.Tool{ID: 2, Dia: 0.25, Flutes: 3, Material: blackbook.Carbide, MaxRPM: &maxRPM, Stickout: &stickout, Length: &length},
			want: Tool{Number: 4, Diameter: 0.25, Flutes: 3, Material: blackbook.Carbide, MaxRPM: 12000, Stickout: 1.25, Length: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromLibrary(4, &tt.in)
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestPatternOrder(t *testing.T) {
	ctx := newCtx(t)
	pat := program.Patterned{
		Pattern: program.BoltCircle{Center: program.Position{X: 2, Y: 2}, Diameter: 2, Count: 4},
		Base:    program.Drill{Depth: 0.25, Feed: 10},
	}
	ins, err := New().Synthesize(pat, ctx)
	if err != nil {
		t.Fatal(err)
	}
	var pts []program.Position
	for _, r := range ofType[gcode.Rapid](ins) {
		if r.X != nil {
			pts = append(pts, program.Position{X: *r.X, Y: *r.Y})
		}
	}
	want := pat.Pattern.Positions()
	if len(pts) != len(want) {
		t.Fatalf("visited %v, want %v", pts, want)
	}
	for i := range want {
		if !approx(pts[i].X, want[i].X) || !approx(pts[i].Y, want[i].Y) {
			t.Errorf("hole %d at %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestPatternedPocket(t *testing.T) {
	ctx := newCtx(t)
	pat := program.Patterned{
		Pattern: program.LinePattern{Count: 3, Spacing: 2},
		Base:    program.Pocket{Geometry: program.Circle{Diameter: 1}, Depth: 0.1, Feed: 20},
	}
	ins, err := New().Synthesize(pat, ctx)
	if err != nil {
		t.Fatal(err)
	}
	arcs := ofType[gcode.Arc](ins)
	if len(arcs) != 3 {
		t.Fatalf("got %d finishing circles, want 3", len(arcs))
	}
	for i, a := range arcs {
		cx := a.X + a.I
		if !approx(cx, float64(i)*2) {
			t.Errorf("pocket %d centre X%v, want X%v", i, cx, float64(i)*2)
		}
	}
}

func TestZFloorClamp(t *testing.T) {
	ctx := newCtx(t)
	floor := -0.2
	synthSetup(ctx, program.Setup{ZMin: &floor})
	ins, err := synthDrill(ctx, program.Drill{Positions: []program.Position{{}}, Depth: 0.5, Feed: 10})
	if err != nil {
		t.Fatal(err)
	}
	if d := ofType[gcode.DrillCycle](ins)[0].Depth; !approx(d, 0.2) {
		t.Errorf("depth = %v, want clamped to 0.2", d)
	}
	if len(ctx.Warnings) != 1 || !strings.Contains(ctx.Warnings[0], "clamped") {
		t.Errorf("warnings = %v, want one clamp warning", ctx.Warnings)
	}
}

func TestMetricFeedsScale(t *testing.T) {
	inch := newCtx(t)
	insIn, err := synthDrill(inch, program.Drill{Positions: []program.Position{{}}, Depth: 0.25})
	if err != nil {
		t.Fatal(err)
	}

	mm := newCtx(t)
	mm.Units = program.Metric
	mm.Tool.Diameter = 0.25 * mmPerInch
	insMM, err := synthDrill(mm, program.Drill{Positions: []program.Position{{}}, Depth: 0.25 * mmPerInch})
	if err != nil {
		t.Fatal(err)
	}
	// The diameter round-trips through millimetres, so allow the truncated
	// RPM to differ by one.
	if a, b := ofType[gcode.Spindle](insIn)[0].RPM, ofType[gcode.Spindle](insMM)[0].RPM; math.Abs(a-b) > 1 {
		t.Errorf("RPM inch %v, metric %v, want equal", a, b)
	}
	fIn := ofType[gcode.DrillCycle](insIn)[0].Feed
	fMM := ofType[gcode.DrillCycle](insMM)[0].Feed
	if ratio := fMM / fIn; math.Abs(ratio-mmPerInch) > mmPerInch*1e-3 {
		t.Errorf("metric/inch feed ratio = %v, want %v", ratio, mmPerInch)
	}
}

func TestGougeWarning(t *testing.T) {
	ctx := newCtx(t)
	e := newEmitter(ctx)
	e.cut(program.Position{X: 0.05, Y: 0.5}, 10)
	e.cut(program.Position{X: 0.5, Y: 0.5}, 10)
	region := regionFor(ctx.Kernel, program.Rect{Width: 1, Height: 1})
	checkInside(e, "pocket", region, 0.125)
	if len(ctx.Warnings) != 1 || !strings.Contains(ctx.Warnings[0], "1 toolpath points") {
		t.Errorf("warnings = %v, want one violation", ctx.Warnings)
	}
}
