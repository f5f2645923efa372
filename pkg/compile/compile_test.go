package compile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/post"
	"github.com/chazu/swarf/pkg/toollib"
)

const bracket = `
(program "bracket" :coolant :flood)
(part "bracket" (stock :material "6061-T6" :x 4 :y 3 :z 1))
(tool 1 :dia 0.25 :flutes 3 :length 2 :material :carbide)
(drill :at (list (at 1 1) (at 3 1)) :depth 0.9 :retract 0.1)
(pocket (rect :at (at 1 1.5) :width 2 :height 1) :depth 0.25 :stepover 0.4)
(profile (circle :center (at 2 2) :dia 3) :depth 0.5 :side :outside)
(end)
`

func compile(t *testing.T, src string, opts Options) *Result {
	t.Helper()
	res, err := New(opts).Compile(src)
	if err != nil {
		t.Fatalf("fatal: %v", err)
	}
	return res
}

func has(lines []string, s string) bool {
	for _, l := range lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

func TestCompileBracket(t *testing.T) {
	res := compile(t, bracket, Options{})
	if !res.OK() {
		t.Fatalf("errors: %v", res.Err())
	}
	for _, want := range []string{"; PROGRAM START", "; PROGRAM: bracket", "G83", "; POCKET OPERATION", "M08", "M30"} {
		if !has(res.Lines, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.HasPrefix(res.Lines[2], "N0010 ") {
		t.Errorf("first numbered line = %q, want N0010", res.Lines[2])
	}
	if !strings.HasSuffix(res.Output(), "\n") {
		t.Error("output not newline terminated")
	}
	if res.Post.Name() != "Generic Fanuc" {
		t.Errorf("post = %s", res.Post.Name())
	}
}

func TestCompileDialects(t *testing.T) {
	tests := []struct {
		kind    post.Kind
		want    string
		without string
	}{
		{post.Mach3, "G01 Z-0.9000", "G83"},
		{post.LinuxCNC, "; LinuxCNC compatible output", ""},
		{post.Haas, "(HAAS CNC PROGRAM)", ""},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			res := compile(t, bracket, Options{Post: tt.kind})
			if !res.OK() {
				t.Fatalf("errors: %v", res.Err())
			}
			if !has(res.Lines, tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
			if tt.without != "" && has(res.Lines, tt.without) {
				t.Errorf("output still has %q", tt.without)
			}
		})
	}
}

func TestCompileMetricHeader(t *testing.T) {
	src := `(program :units :metric) (tool 1 :dia 6 :flutes 2 :length 50) (drill :at (at 10 10) :depth 5)`
	res := compile(t, src, Options{Post: post.LinuxCNC})
	if !res.OK() {
		t.Fatalf("errors: %v", res.Err())
	}
	if !has(res.Lines, "G21 ; Metric mode") || !has(res.Lines, "G21") {
		t.Errorf("metric program missing G21:\n%s", res.Output())
	}
}

func TestEvalErrorsStopCompilation(t *testing.T) {
	res := compile(t, "(drill :depth", Options{})
	if res.OK() || res.Errors[0].Stage != StageEval {
		t.Fatalf("errors = %v, want an eval error", res.Errors)
	}
	if len(res.Lines) != 0 || res.Program != nil {
		t.Error("eval failure produced output")
	}
}

func TestValidationErrorsStopSynthesis(t *testing.T) {
	src := `
(tool 1 :dia 0.25 :length 1)
(drill :at (at 0 0) :depth 0)
(pocket (circle :dia 1) :depth -1)
(spindle :cw 50000)
`
	res := compile(t, src, Options{})
	if len(res.Errors) < 3 {
		t.Fatalf("got %d errors, want every finding reported: %v", len(res.Errors), res.Errors)
	}
	for _, d := range res.Errors {
		if d.Stage != StageValidate {
			t.Errorf("stage = %s, want validate", d.Stage)
		}
	}
	if len(res.Lines) != 0 {
		t.Error("validation failure produced output")
	}
}

func TestUnknownMaterialSkipsOnlyThatOperation(t *testing.T) {
	src := `
(part "x" (stock :material "Unobtainium" :x 1 :y 1 :z 1))
(tool 1 :dia 0.25 :length 2)
(note "before")
(drill :at (at 0.5 0.5) :depth 0.2)
(note "after")
`
	res := compile(t, src, Options{})
	if len(res.Errors) != 1 || res.Errors[0].Stage != StageSynthesize {
		t.Fatalf("errors = %v, want one synthesis error", res.Errors)
	}
	if !errors.Is(res.Err(), blackbook.ErrUnknownMaterial) {
		t.Errorf("error %v does not wrap ErrUnknownMaterial", res.Err())
	}
	if has(res.Lines, "G81") || has(res.Lines, "G83") {
		t.Error("failed drill emitted a cycle")
	}
	if !has(res.Lines, "; before") || !has(res.Lines, "; after") {
		t.Error("surrounding operations missing")
	}
	if !has(res.Warnings, "Unobtainium") {
		t.Errorf("warnings %v missing material advisory", res.Warnings)
	}
}

func TestToolLibraryAndRPMLimit(t *testing.T) {
	lib, err := toollib.Parse([]byte(`{"7": {"id": 7, "name": "1/4 carbide endmill", "dia": 0.25, "flutes": 3, "material": "carbide", "length": 2}}`))
	if err != nil {
		t.Fatal(err)
	}
	src := `
(part "p" (stock :material "6061-T6" :x 2 :y 2 :z 0.5))
(tool 7 :ref "endmill")
(drill :at (at 1 1) :depth 0.2)
`
	res := compile(t, src, Options{Tools: lib, MaxRPM: 5000})
	if !res.OK() {
		t.Fatalf("errors: %v", res.Err())
	}
	if !has(res.Lines, "S5000 M03") {
		t.Errorf("spindle not limited to 5000:\n%s", res.Output())
	}
	if !has(res.Lines, "DIA=0.25") {
		t.Error("tool data from library not emitted")
	}
}

func TestExamplePrograms(t *testing.T) {
	lib, err := toollib.Load(filepath.Join("..", "..", "examples", "tools.json"))
	if err != nil {
		t.Fatal(err)
	}
	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.swarf"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no example programs found")
	}
	for _, f := range files {
		for _, kind := range post.Kinds() {
			t.Run(filepath.Base(f)+"/"+kind.String(), func(t *testing.T) {
				src, err := os.ReadFile(f)
				if err != nil {
					t.Fatal(err)
				}
				res := compile(t, string(src), Options{Post: kind, Tools: lib})
				if !res.OK() {
					t.Fatalf("errors: %v", res.Err())
				}
				if !has(res.Lines, "M30") {
					t.Errorf("no program end in output:\n%s", res.Output())
				}
			})
		}
	}
}

func TestConcurrentCompile(t *testing.T) {
	c := New(Options{Post: post.Mach3})
	want, err := c.Compile(bracket)
	if err != nil || !want.OK() {
		t.Fatalf("serial compile failed: %v %v", err, want.Err())
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]*Result, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Compile(bracket)
		}()
	}
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Errorf("worker %d: %v", i, errs[i])
			continue
		}
		if got := results[i].Output(); got != want.Output() {
			t.Errorf("worker %d output differs from serial compile", i)
		}
	}
}
