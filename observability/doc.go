// Package observability provides OpenTelemetry tracing and metric helpers
// for task and flow runs. It codes against the otel API only; provider and
// exporter setup belongs to the embedding process.
package observability
