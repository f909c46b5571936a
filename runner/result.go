package runner

import (
	"github.com/mherr/prefect/signal"
	"github.com/mherr/prefect/state"
)

// RunResult is the final state and result of one task run attempt.
type RunResult struct {
	// State is the task's state after the attempt. For an unattempted run
	// (DONTRUN) it is the unchanged prior state.
	State state.State
	// Result is the task's return value. Set only when State is Succeeded.
	Result any
	// Signal is the resolved outcome that produced State, carrying the
	// reason and, for failures, a captured diagnostic trace.
	Signal signal.Signal
}

// Attempted reports whether the run got past its preconditions. Callers use
// it to tell "did not attempt" apart from "attempted and failed".
func (r RunResult) Attempted() bool {
	return r.Signal.Kind != signal.KindDontRun
}
