package engine

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  ", "; only a comment\n"} {
		p, evalErrs, err := NewEngine().Evaluate(src)
		if err != nil {
			t.Fatalf("%q: unexpected fatal error: %v", src, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("%q: unexpected eval errors: %v", src, evalErrs)
		}
		if p == nil {
			t.Fatalf("%q: expected non-nil program", src)
		}
		if len(p.Operations) != 0 {
			t.Errorf("%q: expected no operations, got %d", src, len(p.Operations))
		}
	}
}

func TestEvaluatePlainLisp(t *testing.T) {
	source := `
(def x 10)
(def y 20)
(+ x y)
`
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if p == nil || len(p.Operations) != 0 {
		t.Fatalf("expected empty program, got %+v", p)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	p, evalErrs, err := NewEngine().Evaluate("(drill :depth 0.5")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil program on syntax error")
	}
	if len(evalErrs) == 0 || evalErrs[0].Message == "" {
		t.Fatalf("expected a populated eval error, got %v", evalErrs)
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	p, evalErrs, err := NewEngine().Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil program on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateBuiltinErrorIsReported(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate("(tool 1 :dia \"wide\")")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error")
	}
	if !strings.Contains(evalErrs[0].Error(), "dia") {
		t.Errorf("error %q does not name the bad argument", evalErrs[0].Error())
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	if s := e.Error(); !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}
	if s := (EvalError{Message: "no location"}).Error(); strings.Contains(s, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	src := `(tool 1 :dia 0.25) (drill :at (at 1 1) :depth 0.3)`
	for i := 0; i < 5; i++ {
		p, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, err, evalErrs)
		}
		if len(p.Operations) != 2 {
			t.Errorf("iteration %d: got %d operations, want 2", i, len(p.Operations))
		}
	}
}

// ---------------------------------------------------------------------------
// Timeout and concurrency
// ---------------------------------------------------------------------------

func TestEvaluateTimeout(t *testing.T) {
	// An infinite loop would leave a goroutine spinning after the test, so
	// the timeout plumbing is exercised with a channel that never sends.
	ch := make(chan evalResult)

	done := make(chan struct{})
	var resultErr error
	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch)
	}()

	select {
	case <-done:
		if resultErr == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	e := NewEngine()
	src := `
(def depth 0.25)
(defn slot [x] (pocket (rect :at (at x 0) :width 0.5 :height 2) :depth depth))
(slot 1)
(slot 2)
(slot 3)
(note "done")`

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, evalErrs, err := e.Evaluate(src)
			switch {
			case err != nil:
				errs <- err.Error()
			case len(evalErrs) > 0:
				errs <- evalErrs[0].Error()
			case len(p.Operations) != 4:
				errs <- "wrong operation count"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Errorf("overlapping evaluation failed: %s", msg)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short form", "line 3: drill: depth: expected number", 3, "drill: depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
