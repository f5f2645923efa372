// Package compile runs the whole pipeline: evaluate DSL source into a
// program, validate it, synthesize toolpaths, post-process for a
// controller dialect and render numbered G-code.
package compile

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/engine"
	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/kernel"
	"github.com/chazu/swarf/pkg/post"
	"github.com/chazu/swarf/pkg/program"
	"github.com/chazu/swarf/pkg/toollib"
	"github.com/chazu/swarf/pkg/toolpath"
)

// Stage names where a finding came from.
type Stage string

const (
	StageEval       Stage = "eval"
	StageValidate   Stage = "validate"
	StageSynthesize Stage = "synthesize"
)

// Diagnostic is one error or warning with the stage that produced it.
type Diagnostic struct {
	Stage Stage
	Line  int // source line, eval errors only
	Err   error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %v", d.Stage, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Options configures a Compiler. The zero value compiles for the generic
// dialect with the built-in material table and no tool library.
type Options struct {
	Post post.Kind
	// Book supplies cutting data. Nil uses the built-in table.
	Book  *blackbook.Book
	Tools *toollib.Library
	// MaxRPM is the machine spindle limit. Zero leaves it to the program
	// header.
	MaxRPM float64
	// Kernel overrides the geometry kernel used for boundary checks.
	Kernel kernel.Kernel
}

// Result is the outcome of one compilation.
type Result struct {
	Program      *program.Program
	Post         post.Processor
	Instructions []gcode.Instruction
	Lines        []string
	Errors       []Diagnostic
	Warnings     []string
}

// OK reports whether compilation finished without errors.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Output is the rendered program, newline terminated.
func (r *Result) Output() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Err joins every error into one, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, d := range r.Errors {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Compiler turns swarf source into G-code. A Compiler may be reused and
// shared between goroutines; each Compile call gets a fresh evaluation
// sandbox and synthesis context.
type Compiler struct {
	engine *engine.Engine
	synth  *toolpath.Synthesizer
	opts   Options
}

// New returns a Compiler with the given options.
func New(opts Options) *Compiler {
	if opts.Book == nil {
		opts.Book = blackbook.New()
	}
	return &Compiler{engine: engine.NewEngine(), synth: toolpath.New(), opts: opts}
}

// Compile runs every stage. Findings in a stage stop the stages after it,
// except synthesis errors, which skip only the failing operation. The
// returned error is reserved for fatal failures (timeout, panic).
func (c *Compiler) Compile(source string) (*Result, error) {
	res := &Result{}

	// Step 1: Evaluate the source into a program.
	p, evalErrs, err := c.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		return nil, fmt.Errorf("compile: %w", err)
	}
	for _, e := range evalErrs {
		res.Errors = append(res.Errors, Diagnostic{Stage: StageEval, Line: e.Line, Err: e})
	}
	if len(evalErrs) > 0 {
		return res, nil
	}
	return c.compileProgram(p, res), nil
}

// CompileProgram runs validation onwards on an already built program.
func (c *Compiler) CompileProgram(p *program.Program) *Result {
	return c.compileProgram(p, &Result{})
}

func (c *Compiler) compileProgram(p *program.Program, res *Result) *Result {
	res.Program = p

	// Step 2: Validate. Every finding is reported before synthesis.
	v := program.NewValidator()
	if c.opts.MaxRPM > 0 {
		v.MaxRPM = c.opts.MaxRPM
	}
	book := c.opts.Book
	v.KnownMaterial = func(name string) bool {
		_, err := book.Lookup(name)
		return err == nil
	}
	vr := v.ValidateAll(p)
	for _, w := range vr.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}
	for _, e := range vr.Errors {
		res.Errors = append(res.Errors, Diagnostic{Stage: StageValidate, Err: e})
	}
	if !vr.OK() {
		return res
	}

	// Step 3: Synthesize toolpaths.
	ctx := toolpath.NewContext(book)
	ctx.Tools = c.opts.Tools
	ctx.MaxRPM = c.opts.MaxRPM
	if c.opts.Kernel != nil {
		ctx.Kernel = c.opts.Kernel
	}
	ins, opErrs := c.synth.Program(p, ctx)
	for _, e := range opErrs {
		log.Printf("Synthesize error: %v", &e)
		res.Errors = append(res.Errors, Diagnostic{Stage: StageSynthesize, Err: &e})
	}
	res.Warnings = append(res.Warnings, ctx.Warnings...)

	// Step 4: Post-process and render.
	res.Post = post.New(c.opts.Post, post.Options{Metric: p.Header.Units == program.Metric})
	res.Instructions = res.Post.Process(ins)
	res.Lines = gcode.Render(res.Instructions)
	return res
}
