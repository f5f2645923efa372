package engine

import (
	"fmt"
	"time"

	"github.com/chazu/swarf/pkg/program"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	program *program.Program
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, giving up after EvalTimeout.
// The goroutine behind a timed-out evaluation may still be running; its
// result lands in the buffered channel and is dropped.
func waitWithTimeout(ch <-chan evalResult) (*program.Program, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.program, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
