// Package runner drives tasks through their run state machine.
//
// TaskRunner evaluates a single run attempt for one task: it checks
// preconditions against the upstream states and the task's trigger, executes
// the task body, and resolves the outcome signal to a terminal state.
// FlowRunner walks a whole flow in dependency order, invoking a TaskRunner
// per task and feeding named-edge results downstream.
package runner
