package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry metric instruments for task run observability.
type Metrics struct {
	taskTotal    metric.Int64Counter
	taskDuration metric.Float64Histogram
	errorTotal   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	taskTotal, err := meter.Int64Counter("task.run.total",
		metric.WithDescription("Total number of task run attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task.run.total counter: %w", err)
	}

	taskDuration, err := meter.Float64Histogram("task.run.duration",
		metric.WithDescription("Duration of task runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task.run.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("task.error.total",
		metric.WithDescription("Total task errors by type and task"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating task.error.total counter: %w", err)
	}

	return &Metrics{
		taskTotal:    taskTotal,
		taskDuration: taskDuration,
		errorTotal:   errorTotal,
	}, nil
}

// RecordTaskRun records one task run attempt.
func (m *Metrics) RecordTaskRun(ctx context.Context, task, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("task", task),
		attribute.String("status", status),
	)
	m.taskTotal.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("task", task),
	))
}

// RecordError records an error by type and task.
func (m *Metrics) RecordError(ctx context.Context, errType, task string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("task", task),
	))
}
