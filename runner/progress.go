package runner

import "context"

// ProgressFunc observes intermediate progress events from a task body.
// Progress events are a side channel: they are forwarded to the observer
// and never change run state.
type ProgressFunc func(event any)

// Streamer is a task result that emits progress events before producing its
// final value. A task body returns a Streamer when it wants to report
// progress during long-running work; the runner drives it and uses the
// returned value as the task's result. The sequence is finite and not
// restartable.
type Streamer interface {
	Stream(ctx context.Context, observe ProgressFunc) (any, error)
}

// Progress wraps an emit-style function as a Streamer.
//
//	return runner.Progress(func(ctx context.Context, emit runner.ProgressFunc) (any, error) {
//	    for _, batch := range batches {
//	        emit(batch.Stats())
//	    }
//	    return total, nil
//	}), nil
func Progress(fn func(ctx context.Context, emit ProgressFunc) (any, error)) Streamer {
	return progressFunc(fn)
}

type progressFunc func(ctx context.Context, emit ProgressFunc) (any, error)

func (p progressFunc) Stream(ctx context.Context, observe ProgressFunc) (any, error) {
	if observe == nil {
		observe = func(any) {}
	}
	return p(ctx, observe)
}
