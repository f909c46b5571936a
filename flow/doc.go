// Package flow provides the dependency graph model for a workflow: tasks
// connected by plain ordering edges and named data-passing edges.
//
// A Flow owns its tasks and edges, rejects mutations that would make the
// graph cyclic, and answers adjacency and topological-order queries. Flows
// are built incrementally, then handed read-only to a runner; callers must
// not mutate a flow while it is executing.
package flow
