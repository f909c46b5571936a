package state

// State is the run status of one task for one run attempt.
// Exactly one State is active per task per run.
type State string

const (
	// Pending is the initial state: the task has not been attempted yet.
	Pending State = "pending"
	// Running is the only non-terminal, non-initial state.
	Running State = "running"
	// Succeeded means the run completed and produced a result.
	Succeeded State = "succeeded"
	// Failed means the run was attempted and did not complete.
	Failed State = "failed"
	// Skipped means the run was intentionally not performed.
	// It is terminal but does not count as a failure.
	Skipped State = "skipped"
	// Shutdown means the run was stopped by a system-wide halt signal.
	Shutdown State = "shutdown"
)

// transitions maps each state to the states it may legally move to.
var transitions = map[State][]State{
	Pending:   {Running},
	Running:   {Succeeded, Failed, Skipped, Shutdown},
	Succeeded: {},
	Failed:    {},
	Skipped:   {},
	Shutdown:  {},
}

// ValidTransition reports whether moving from one state to another is legal.
// A state may always remain where it is.
func ValidTransition(from, to State) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the defined run states.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsPending reports whether the task has not been attempted yet.
func (s State) IsPending() bool { return s == Pending }

// IsRunning reports whether the task body is currently executing.
func (s State) IsRunning() bool { return s == Running }

// IsFinished reports whether s is terminal. A finished task will not
// transition again for this run.
func (s State) IsFinished() bool {
	switch s {
	case Succeeded, Failed, Skipped, Shutdown:
		return true
	}
	return false
}

// IsSuccessful reports whether the task produced a result.
func (s State) IsSuccessful() bool { return s == Succeeded }

// IsFailed reports whether the task was attempted and failed.
func (s State) IsFailed() bool { return s == Failed }

func (s State) String() string { return string(s) }
