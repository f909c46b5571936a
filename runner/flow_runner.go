package runner

import (
	"context"
	"sync"
	"time"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/flow"
	"github.com/mherr/prefect/logger"
	"github.com/mherr/prefect/signal"
	"github.com/mherr/prefect/state"
)

// FlowRunner runs every task of a flow in dependency order, attempting each
// task exactly once. Tasks with no path between them may run concurrently;
// the flow itself is read-only for the duration of the run.
type FlowRunner struct {
	// Flow is the graph to run.
	Flow *flow.Flow
	// MaxParallel limits concurrent task runs per wave (0 = unlimited,
	// 1 = sequential).
	MaxParallel int
	// Log receives run log events. Optional.
	Log *logger.Logger
	// Debug propagates unclassified task-body errors instead of recording
	// a failed state.
	Debug bool
	// Progress observes intermediate events from streaming task bodies.
	Progress ProgressFunc
}

// FlowRunResult aggregates the per-task outcomes of one flow run, keyed by
// task ID.
type FlowRunResult struct {
	FlowID  string
	States  map[string]state.State
	Results map[string]any
	Signals map[string]signal.Signal
	// Shutdown is set when a task resolved to SHUTDOWN and the runner
	// stopped dispatching. Tasks not dispatched remain pending.
	Shutdown bool
	Duration time.Duration
}

// Succeeded reports whether every terminal task of the run succeeded or was
// skipped. Aggregate success is a policy choice; this is the default one.
func (r *FlowRunResult) Succeeded(f *flow.Flow) bool {
	if r.Shutdown {
		return false
	}
	for id := range f.TerminalTasks() {
		s := r.States[id]
		if s != state.Succeeded && s != state.Skipped {
			return false
		}
	}
	return true
}

// Run executes the flow. Parameter tasks resolve their values from the
// supplied parameters map; a missing required parameter fails the run before
// any task is attempted. The returned error is non-nil for structural
// failures, context cancellation, or (in debug mode) an unclassified
// task-body error.
func (e *FlowRunner) Run(ctx context.Context, parameters map[string]any) (*FlowRunResult, error) {
	start := time.Now()
	f := e.Flow

	order, err := f.SortedTasks()
	if err != nil {
		return nil, err
	}
	for name := range f.Parameters(true) {
		if _, ok := parameters[name]; !ok {
			return nil, errors.MissingParameter(name)
		}
	}

	log := e.log().WithComponent("flow_runner").WithFields(map[string]interface{}{
		logger.FieldFlowID:   f.ID,
		logger.FieldFlowName: f.Name,
	})
	log.Info("flow run starting", logger.Fields("tasks", len(order)))

	res := &FlowRunResult{
		FlowID:  f.ID,
		States:  make(map[string]state.State, len(order)),
		Results: make(map[string]any),
		Signals: make(map[string]signal.Signal, len(order)),
	}
	for _, t := range order {
		res.States[t.ID()] = state.Pending
	}

	attempted := make(map[string]bool, len(order))
	var mu sync.Mutex

	for !res.Shutdown {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// next wave: unattempted tasks whose upstream tasks have all been
		// attempted
		var wave []flow.Task
		for _, t := range order {
			if attempted[t.ID()] {
				continue
			}
			upstream, err := f.UpstreamTasks(t)
			if err != nil {
				return nil, err
			}
			ready := true
			for id := range upstream {
				if !attempted[id] {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, t)
			}
		}
		if len(wave) == 0 {
			break
		}

		if err := e.runWave(ctx, wave, parameters, res, attempted, &mu, log); err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	log.Info("flow run finished", logger.Fields(
		"shutdown", res.Shutdown,
		logger.FieldDuration, res.Duration.Milliseconds(),
	))
	return res, nil
}

// runWave attempts the tasks of one wave, concurrently up to MaxParallel.
// Wave membership guarantees per-task exclusivity: a task appears in exactly
// one wave.
func (e *FlowRunner) runWave(ctx context.Context, wave []flow.Task, parameters map[string]any, res *FlowRunResult, attempted map[string]bool, mu *sync.Mutex, log *logger.Logger) error {
	var wg sync.WaitGroup
	var firstErr error

	sem := make(chan struct{}, e.concurrency(len(wave)))
	for _, t := range wave {
		attempted[t.ID()] = true
		wg.Add(1)
		go func(t flow.Task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rr, err := e.runOne(ctx, t, parameters, res, mu)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			res.States[t.ID()] = rr.State
			res.Signals[t.ID()] = rr.Signal
			if rr.State.IsSuccessful() {
				res.Results[t.ID()] = rr.Result
			}
			if rr.State == state.Shutdown {
				log.Warn("shutdown signalled, no further tasks will be dispatched", logger.Fields(
					logger.FieldTaskName, t.Name(),
					logger.FieldReason, rr.Signal.Reason,
				))
				res.Shutdown = true
			}
		}(t)
	}
	wg.Wait()
	return firstErr
}

// runOne gathers one task's upstream states and named inputs and evaluates
// its run attempt.
func (e *FlowRunner) runOne(ctx context.Context, t flow.Task, parameters map[string]any, res *FlowRunResult, mu *sync.Mutex) (RunResult, error) {
	edges, err := e.Flow.EdgesTo(t)
	if err != nil {
		return RunResult{}, err
	}

	mu.Lock()
	prior := res.States[t.ID()]
	upstream := make(map[string]state.State, len(edges))
	inputs := make(map[string]any)
	for _, edge := range edges {
		upstream[edge.Upstream] = res.States[edge.Upstream]
		if edge.Key != "" {
			if v, ok := res.Results[edge.Upstream]; ok {
				inputs[edge.Key] = v
			}
		}
	}
	mu.Unlock()

	if p, ok := t.(*flow.Parameter); ok {
		if v, ok := parameters[p.Name()]; ok {
			inputs[flow.ValueKey] = v
		}
	}

	tr := &TaskRunner{Task: t, Log: e.Log, Debug: e.Debug, Progress: e.Progress}
	return tr.Run(ctx, prior, upstream, inputs)
}

func (e *FlowRunner) concurrency(waveSize int) int {
	if e.MaxParallel <= 0 || e.MaxParallel > waveSize {
		return waveSize
	}
	return e.MaxParallel
}

func (e *FlowRunner) log() *logger.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logger.Nop()
}
