package signal

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a run outcome. The set is closed: every run attempt
// resolves to exactly one Kind.
type Kind string

const (
	// KindSuccess means the run completed; the signal's Value becomes the
	// task's result.
	KindSuccess Kind = "SUCCESS"
	// KindSkip means the run was intentionally not performed. Terminal,
	// not a failure.
	KindSkip Kind = "SKIP"
	// KindRetry means the run failed but is eligible for a future attempt.
	// Within a single attempt it resolves to the failed state; scheduling
	// the next attempt is the caller's policy.
	KindRetry Kind = "RETRY"
	// KindShutdown means the whole execution should stop.
	KindShutdown Kind = "SHUTDOWN"
	// KindDontRun means a precondition was not met and the attempt was
	// aborted before the task body executed. Existing state is left
	// unchanged and the attempt does not count as a run.
	KindDontRun Kind = "DONTRUN"
	// KindFail means the run raised an unhandled error.
	KindFail Kind = "FAIL"
)

// Signal is a control outcome. Task bodies return a Signal as their error to
// classify how the run ended; the runner also produces Signals for
// precondition failures and coerced errors. It is the normal vocabulary of
// the protocol, not an exceptional condition.
type Signal struct {
	Kind   Kind
	Reason string
	// Value is the task result. Set only for SUCCESS.
	Value any
	// Trace is a captured diagnostic. Set only for FAIL on unexpected errors.
	Trace string
}

// Error makes Signal usable as a task body's error return.
func (s *Signal) Error() string {
	if s.Reason == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Reason)
}

// Success creates a SUCCESS signal carrying the task's result.
func Success(value any) *Signal {
	return &Signal{Kind: KindSuccess, Value: value}
}

// Skip creates a SKIP signal.
func Skip(reason string) *Signal {
	return &Signal{Kind: KindSkip, Reason: reason}
}

// Retry creates a RETRY signal.
func Retry(reason string) *Signal {
	return &Signal{Kind: KindRetry, Reason: reason}
}

// Shutdown creates a SHUTDOWN signal.
func Shutdown(reason string) *Signal {
	return &Signal{Kind: KindShutdown, Reason: reason}
}

// DontRun creates a DONTRUN signal.
func DontRun(reason string) *Signal {
	return &Signal{Kind: KindDontRun, Reason: reason}
}

// Fail creates a FAIL signal.
func Fail(reason string) *Signal {
	return &Signal{Kind: KindFail, Reason: reason}
}

// FailWithTrace creates a FAIL signal carrying a captured diagnostic trace.
func FailWithTrace(reason, trace string) *Signal {
	return &Signal{Kind: KindFail, Reason: reason, Trace: trace}
}

// FromError classifies an error as a Signal. A Signal anywhere in the error
// chain is returned as-is; any other error is coerced to FAIL with the given
// trace.
func FromError(err error, trace string) *Signal {
	var s *Signal
	if stderrors.As(err, &s) {
		return s
	}
	return FailWithTrace(err.Error(), trace)
}

// IsSignal reports whether err carries a Signal of the given kind.
func IsSignal(err error, kind Kind) bool {
	var s *Signal
	return stderrors.As(err, &s) && s.Kind == kind
}
