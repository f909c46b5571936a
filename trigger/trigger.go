package trigger

import "github.com/mherr/prefect/state"

// Trigger decides whether a task is eligible to run given the finished
// states of its immediate upstream tasks, keyed by task ID. Triggers are
// pure functions and must only be evaluated once every upstream state is
// terminal. A task with no upstream tasks is always eligible.
type Trigger func(upstream map[string]state.State) bool

// AllSuccessful is the default trigger: every upstream task succeeded.
// A skipped upstream counts as successful, since skips are not failures.
func AllSuccessful(upstream map[string]state.State) bool {
	for _, s := range upstream {
		if s != state.Succeeded && s != state.Skipped {
			return false
		}
	}
	return true
}

// AllFinished runs the task once every upstream task finished, regardless
// of outcome.
func AllFinished(upstream map[string]state.State) bool {
	for _, s := range upstream {
		if !s.IsFinished() {
			return false
		}
	}
	return true
}

// AnySuccessful runs the task if at least one upstream task succeeded.
func AnySuccessful(upstream map[string]state.State) bool {
	if len(upstream) == 0 {
		return true
	}
	for _, s := range upstream {
		if s.IsSuccessful() {
			return true
		}
	}
	return false
}

// AnyFailed runs the task if at least one upstream task failed.
func AnyFailed(upstream map[string]state.State) bool {
	if len(upstream) == 0 {
		return true
	}
	for _, s := range upstream {
		if s.IsFailed() {
			return true
		}
	}
	return false
}

// Always runs the task unconditionally.
func Always(map[string]state.State) bool { return true }

// ManualOnly never runs the task; it must be driven by an external decision.
func ManualOnly(map[string]state.State) bool { return false }

// byName maps spec-level trigger names to implementations.
var byName = map[string]Trigger{
	"all_successful": AllSuccessful,
	"all_finished":   AllFinished,
	"any_successful": AnySuccessful,
	"any_failed":     AnyFailed,
	"always":         Always,
	"manual_only":    ManualOnly,
}

// Lookup resolves a trigger by its spec name.
func Lookup(name string) (Trigger, bool) {
	t, ok := byName[name]
	return t, ok
}
