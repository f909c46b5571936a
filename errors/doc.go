// Package errors provides unified error handling for the workflow engine.
// It implements structured error types with machine-readable codes for
// graph construction, spec loading and flow storage failures.
package errors
