package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldFlowID    = "flow_id"
	FieldFlowName  = "flow_name"
	FieldTaskID    = "task_id"
	FieldTaskName  = "task_name"
	FieldRunState  = "run_state"
	FieldOutcome   = "outcome"
	FieldReason    = "reason"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("task run finished", logger.Fields("task_id", id, "run_state", st))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}
