package flow

// Edge is a directed dependency between two tasks, identified by the full
// (upstream, downstream, key) triple. Two edges with the same endpoints but
// different keys are distinct edges.
type Edge struct {
	// Upstream is the task ID that must finish first.
	Upstream string
	// Downstream is the task ID that depends on Upstream.
	Downstream string
	// Key names the downstream input that receives the upstream result.
	// An empty key is a plain ordering edge.
	Key string
}
