package errors

import (
	stderrors "errors"
	"fmt"
)

// FlowError is the unified error type for graph construction, spec loading
// and flow storage failures.
type FlowError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *FlowError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *FlowError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *FlowError) WithCause(cause error) *FlowError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *FlowError) WithDetail(key string, value any) *FlowError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new FlowError with automatic retryable detection.
func New(code ErrorCode, message string) *FlowError {
	return &FlowError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// HasCode reports whether err is a FlowError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var fe *FlowError
	return stderrors.As(err, &fe) && fe.Code == code
}

// --- Common Error Constructors ---

// CycleDetected creates a FlowError for an edge that would make the graph cyclic.
func CycleDetected(detail string) *FlowError {
	return &FlowError{
		Code: ErrCodeCycleDetected, Message: fmt.Sprintf("Flows must be acyclic: %s", detail),
	}
}

// DuplicateEdge creates a FlowError for a second named edge to the same downstream input.
func DuplicateEdge(downstream, key string) *FlowError {
	return &FlowError{
		Code:    ErrCodeDuplicateEdge,
		Message: fmt.Sprintf("An edge to task %s with key %q already exists.", downstream, key),
		Details: map[string]any{"downstream": downstream, "key": key},
	}
}

// TaskNotFound creates a FlowError for a task identity unknown to the flow.
func TaskNotFound(id string) *FlowError {
	return &FlowError{
		Code: ErrCodeTaskNotFound, Message: fmt.Sprintf("Task %s was not found in the flow.", id),
		Details: map[string]any{"task": id},
	}
}

// InvalidTask creates a FlowError for a value that does not satisfy the task contract.
func InvalidTask(reason string) *FlowError {
	return &FlowError{
		Code: ErrCodeInvalidTask, Message: fmt.Sprintf("Expected a task: %s", reason),
	}
}

// InvalidSpec creates a FlowError for a malformed flow specification.
func InvalidSpec(reason string) *FlowError {
	return &FlowError{
		Code: ErrCodeInvalidSpec, Message: fmt.Sprintf("Invalid flow spec: %s", reason),
	}
}

// Validation creates a FlowError for invalid input.
func Validation(message string) *FlowError {
	return &FlowError{
		Code: ErrCodeInvalidInput, Message: message,
	}
}

// UnknownComponent creates a FlowError for a spec component missing from the registry.
func UnknownComponent(name string) *FlowError {
	return &FlowError{
		Code: ErrCodeUnknownComponent, Message: fmt.Sprintf("Component %q not found in registry.", name),
		Details: map[string]any{"component": name},
	}
}

// UnknownTrigger creates a FlowError for an unregistered trigger name.
func UnknownTrigger(name string) *FlowError {
	return &FlowError{
		Code: ErrCodeUnknownTrigger, Message: fmt.Sprintf("Trigger %q is not registered.", name),
		Details: map[string]any{"trigger": name},
	}
}

// MissingParameter creates a FlowError for a required parameter with no value.
func MissingParameter(name string) *FlowError {
	return &FlowError{
		Code: ErrCodeMissingParameter, Message: fmt.Sprintf("Parameter %q is required but no value was supplied.", name),
		Details: map[string]any{"parameter": name},
	}
}

// FlowNotFound creates a FlowError for a flow missing from the store.
func FlowNotFound(id string) *FlowError {
	return &FlowError{
		Code: ErrCodeFlowNotFound, Message: fmt.Sprintf("Flow %s was not found in the store.", id),
		Details: map[string]any{"flow": id},
	}
}

// StoreError creates a retryable FlowError for a flow store failure.
func StoreError(op string, cause error) *FlowError {
	return &FlowError{
		Code: ErrCodeStoreError, Message: fmt.Sprintf("Flow store operation %q failed.", op),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": op},
	}
}
