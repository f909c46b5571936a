package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Structural errors, reported synchronously at the offending graph mutation
// or query, never deferred to run time.
const (
	// ErrCodeCycleDetected indicates an edge insertion would make the graph cyclic.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeDuplicateEdge indicates a named edge to the same downstream input already exists.
	ErrCodeDuplicateEdge ErrorCode = "DUPLICATE_EDGE"
	// ErrCodeTaskNotFound indicates a task identity unknown to the flow.
	ErrCodeTaskNotFound ErrorCode = "TASK_NOT_FOUND"
	// ErrCodeInvalidTask indicates a value that does not satisfy the task contract.
	ErrCodeInvalidTask ErrorCode = "INVALID_TASK"
)

// Definition errors
const (
	// ErrCodeInvalidSpec indicates a malformed flow specification.
	ErrCodeInvalidSpec ErrorCode = "INVALID_SPEC"
	// ErrCodeInvalidInput indicates invalid input to an operation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnknownComponent indicates a spec references a component missing from the registry.
	ErrCodeUnknownComponent ErrorCode = "UNKNOWN_COMPONENT"
	// ErrCodeUnknownTrigger indicates a spec references an unregistered trigger name.
	ErrCodeUnknownTrigger ErrorCode = "UNKNOWN_TRIGGER"
	// ErrCodeMissingParameter indicates a required parameter was not supplied.
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
)

// Storage errors
const (
	// ErrCodeFlowNotFound indicates the requested flow is not in the store.
	ErrCodeFlowNotFound ErrorCode = "FLOW_NOT_FOUND"
	// ErrCodeStoreError indicates the flow store failed.
	ErrCodeStoreError ErrorCode = "STORE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStoreError: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
