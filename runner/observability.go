package runner

import (
	"context"
	"time"

	"github.com/mherr/prefect/flow"
	"github.com/mherr/prefect/logger"
	"github.com/mherr/prefect/observability"
	"github.com/mherr/prefect/state"
)

// WithTracing wraps a task with OpenTelemetry span creation. Each body
// execution creates a span named "{prefix}.{taskName}".
func WithTracing(t flow.Task, prefix string) flow.Task {
	return &tracingTask{inner: t, prefix: prefix}
}

type tracingTask struct {
	inner  flow.Task
	prefix string
}

func (t *tracingTask) ID() string   { return t.inner.ID() }
func (t *tracingTask) Name() string { return t.inner.Name() }

func (t *tracingTask) Trigger(upstream map[string]state.State) bool {
	return t.inner.Trigger(upstream)
}

func (t *tracingTask) Run(ctx context.Context, inputs map[string]any) (any, error) {
	spanName := t.prefix + "." + t.inner.Name()
	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()

	observability.SetSpanAttribute(ctx, "task.id", t.inner.ID())
	observability.SetSpanAttribute(ctx, "task.name", t.inner.Name())

	result, err := t.inner.Run(ctx, inputs)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return result, err
}

// WithMetrics wraps a task with metric recording. Records run count,
// duration, and errors.
func WithMetrics(t flow.Task, metrics *observability.Metrics) flow.Task {
	return &metricsTask{inner: t, metrics: metrics}
}

type metricsTask struct {
	inner   flow.Task
	metrics *observability.Metrics
}

func (t *metricsTask) ID() string   { return t.inner.ID() }
func (t *metricsTask) Name() string { return t.inner.Name() }

func (t *metricsTask) Trigger(upstream map[string]state.State) bool {
	return t.inner.Trigger(upstream)
}

func (t *metricsTask) Run(ctx context.Context, inputs map[string]any) (any, error) {
	start := time.Now()
	result, err := t.inner.Run(ctx, inputs)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		t.metrics.RecordError(ctx, "run", t.inner.Name())
	}
	t.metrics.RecordTaskRun(ctx, t.inner.Name(), status, duration)

	return result, err
}

// WithLogging wraps a task with body execution logging. Logs task name,
// duration, and success/error status.
func WithLogging(t flow.Task, log *logger.Logger) flow.Task {
	return &loggingTask{inner: t, log: log}
}

type loggingTask struct {
	inner flow.Task
	log   *logger.Logger
}

func (t *loggingTask) ID() string   { return t.inner.ID() }
func (t *loggingTask) Name() string { return t.inner.Name() }

func (t *loggingTask) Trigger(upstream map[string]state.State) bool {
	return t.inner.Trigger(upstream)
}

func (t *loggingTask) Run(ctx context.Context, inputs map[string]any) (any, error) {
	start := time.Now()
	result, err := t.inner.Run(ctx, inputs)
	duration := time.Since(start)

	fields := map[string]interface{}{
		logger.FieldTaskName: t.inner.Name(),
		logger.FieldDuration: duration.Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		t.log.Error("task body failed", fields)
	} else {
		t.log.Debug("task body completed", fields)
	}
	return result, err
}
