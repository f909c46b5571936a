package runner

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"

	"github.com/mherr/prefect/flow"
	"github.com/mherr/prefect/logger"
	"github.com/mherr/prefect/signal"
	"github.com/mherr/prefect/state"
)

// TaskRunner drives a single task through one run attempt:
//
//	pending --check(ok)--> running --body--> succeeded|failed|skipped|shutdown
//
// Precondition failures resolve to DONTRUN and leave the prior state
// untouched. The runner holds no shared mutable state; concurrent runs of
// different tasks are safe. The caller must not enter the same task's run
// concurrently.
type TaskRunner struct {
	// Task is the unit of work to drive.
	Task flow.Task
	// Log receives per-attempt log events. Optional.
	Log *logger.Logger
	// Debug lets unclassified task-body errors and panics propagate to the
	// caller instead of being coerced to FAIL. For local development;
	// production executors leave it off.
	Debug bool
	// Progress observes intermediate events from streaming task bodies.
	// Optional.
	Progress ProgressFunc
}

// Run evaluates one run attempt given the task's prior state, the finished
// states of its immediate upstream tasks (keyed by task ID), and its named
// inputs. The returned error is non-nil only in debug mode, for an
// unclassified task-body error.
func (r *TaskRunner) Run(ctx context.Context, prior state.State, upstream map[string]state.State, inputs map[string]any) (RunResult, error) {
	if prior == "" {
		prior = state.Pending
	}
	log := r.log().WithFields(map[string]interface{}{
		logger.FieldTaskID:   r.Task.ID(),
		logger.FieldTaskName: r.Task.Name(),
	})

	if sig := r.checkState(prior, upstream); sig != nil {
		log.Info("task run not attempted", logger.Fields(
			logger.FieldOutcome, string(sig.Kind),
			logger.FieldReason, sig.Reason,
		))
		return RunResult{State: prior, Signal: *sig}, nil
	}

	// prior -> running
	result, sig, err := r.runTask(ctx, inputs)
	if err != nil {
		log.Error("task run raised an unexpected error", logger.ErrorFields("run", err))
		return RunResult{}, err
	}

	final := r.finalize(prior, result, sig)
	log.Info("task run finished", logger.Fields(
		logger.FieldRunState, string(final.State),
		logger.FieldOutcome, string(final.Signal.Kind),
	))
	return final, nil
}

// checkState verifies the run's preconditions. A nil return means the task
// may transition to running.
func (r *TaskRunner) checkState(prior state.State, upstream map[string]state.State) *signal.Signal {
	for _, s := range upstream {
		if !s.IsFinished() {
			return signal.DontRun("Upstream tasks are not finished.")
		}
	}
	if !r.Task.Trigger(upstream) {
		return signal.DontRun("Trigger failed")
	}
	if prior.IsRunning() {
		return signal.DontRun("Task run is already running.")
	}
	if prior.IsFinished() {
		return signal.DontRun("Task run is already finished.")
	}
	if !prior.IsPending() {
		return signal.DontRun(fmt.Sprintf("Task run is not ready to run (state %s).", prior))
	}
	return nil
}

// runTask executes the task body. A *signal.Signal error classifies the
// outcome; any other error or panic is coerced to FAIL with a captured
// trace, unless debug mode is on.
func (r *TaskRunner) runTask(ctx context.Context, inputs map[string]any) (result any, sig *signal.Signal, err error) {
	if !r.Debug {
		defer func() {
			if p := recover(); p != nil {
				result = nil
				sig = signal.FailWithTrace(fmt.Sprintf("task panicked: %v", p), string(debug.Stack()))
				err = nil
			}
		}()
	}

	result, runErr := r.Task.Run(ctx, inputs)
	if runErr == nil {
		if streamer, ok := result.(Streamer); ok {
			result, runErr = streamer.Stream(ctx, r.Progress)
		}
	}
	if runErr != nil {
		if s := asSignal(runErr); s != nil {
			return nil, s, nil
		}
		if r.Debug {
			return nil, nil, runErr
		}
		return nil, signal.FromError(runErr, string(debug.Stack())), nil
	}
	return result, nil, nil
}

// finalize maps the resolved outcome to the attempt's final state. A nil
// signal means the body returned normally: implicit SUCCESS with the return
// value.
func (r *TaskRunner) finalize(prior state.State, result any, sig *signal.Signal) RunResult {
	if sig == nil {
		sig = signal.Success(result)
	}
	switch sig.Kind {
	case signal.KindSuccess:
		return RunResult{State: state.Succeeded, Result: sig.Value, Signal: *sig}
	case signal.KindSkip:
		return RunResult{State: state.Skipped, Signal: *sig}
	case signal.KindRetry, signal.KindFail:
		return RunResult{State: state.Failed, Signal: *sig}
	case signal.KindShutdown:
		return RunResult{State: state.Shutdown, Signal: *sig}
	case signal.KindDontRun:
		// a body-raised DONTRUN aborts the attempt without a state change
		return RunResult{State: prior, Signal: *sig}
	default:
		fail := signal.Fail(fmt.Sprintf("unknown outcome %q", sig.Kind))
		return RunResult{State: state.Failed, Signal: *fail}
	}
}

func (r *TaskRunner) log() *logger.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logger.Nop()
}

func asSignal(err error) *signal.Signal {
	var s *signal.Signal
	if stderrors.As(err, &s) {
		return s
	}
	return nil
}
