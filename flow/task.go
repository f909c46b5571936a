package flow

import (
	"context"

	"github.com/google/uuid"

	"github.com/mherr/prefect/state"
	"github.com/mherr/prefect/trigger"
)

// Task is the unit of work in a flow.
type Task interface {
	// ID returns the stable, process-unique task identity. Identity is
	// assigned at creation and is not derived from the name, since names
	// may collide.
	ID() string
	// Name returns the human-readable task name. Not required to be unique.
	Name() string
	// Trigger reports whether the task is eligible to run given the
	// finished states of its immediate upstream tasks, keyed by task ID.
	Trigger(upstream map[string]state.State) bool
	// Run executes the task body with the named inputs. Returning a
	// *signal.Signal as the error classifies the outcome; any other error
	// is treated as an unhandled failure.
	Run(ctx context.Context, inputs map[string]any) (any, error)
}

// TriggerSetter is implemented by tasks whose trigger can be replaced after
// construction. The loader uses it to apply spec-level trigger overrides.
type TriggerSetter interface {
	SetTrigger(t trigger.Trigger)
}

// IDSetter is implemented by tasks whose identity can be assigned after
// construction. The loader uses it to restore serialized identities, keeping
// task IDs stable across serialization round trips.
type IDSetter interface {
	SetID(id string)
}

// RunFunc is a task body.
type RunFunc func(ctx context.Context, inputs map[string]any) (any, error)

// TaskConfig configures a function-backed task.
type TaskConfig struct {
	// Name is the human-readable task name.
	Name string
	// Trigger decides run eligibility. Defaults to trigger.AllSuccessful.
	Trigger trigger.Trigger
	// Run is the task body. A nil body succeeds with a nil result.
	Run RunFunc
}

// FuncTask is a function-backed Task.
type FuncTask struct {
	id   string
	name string
	trig trigger.Trigger
	fn   RunFunc
}

var _ Task = (*FuncTask)(nil)

// NewTask creates a function-backed task with a fresh identity.
func NewTask(cfg TaskConfig) *FuncTask {
	trig := cfg.Trigger
	if trig == nil {
		trig = trigger.AllSuccessful
	}
	name := cfg.Name
	if name == "" {
		name = "Task"
	}
	return &FuncTask{
		id:   newTaskID(),
		name: name,
		trig: trig,
		fn:   cfg.Run,
	}
}

func (t *FuncTask) ID() string   { return t.id }
func (t *FuncTask) Name() string { return t.name }

func (t *FuncTask) Trigger(upstream map[string]state.State) bool {
	return t.trig(upstream)
}

func (t *FuncTask) Run(ctx context.Context, inputs map[string]any) (any, error) {
	if t.fn == nil {
		return nil, nil
	}
	return t.fn(ctx, inputs)
}

// SetTrigger replaces the task's eligibility trigger. Only call during flow
// construction.
func (t *FuncTask) SetTrigger(tr trigger.Trigger) {
	if tr != nil {
		t.trig = tr
	}
}

// SetID assigns the task's identity. Only call before the task is added to
// a flow.
func (t *FuncTask) SetID(id string) {
	if id != "" {
		t.id = id
	}
}

func newTaskID() string {
	return uuid.NewString()
}
