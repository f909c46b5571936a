package flow

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/schedule"
	"github.com/mherr/prefect/util"
)

// TaskRef identifies a task in lookups: either a task ID string or a Task.
type TaskRef any

// FlowConfig configures a new Flow.
type FlowConfig struct {
	Name        string
	ID          string
	Version     string
	Description string
	Schedule    schedule.Schedule
}

// Flow owns the tasks and edges of one workflow graph. Tasks and edges are
// added incrementally during construction; every mutation that would break
// an invariant (cycle, duplicate named edge, non-task value) is rejected at
// the point of the offending call.
type Flow struct {
	Name        string
	ID          string
	Version     string
	Description string
	Schedule    schedule.Schedule

	tasks map[string]Task
	edges map[Edge]struct{}
	// order records task insertion order. Topological sorts scan it for a
	// stable starting point, but tie-break order among simultaneously
	// eligible tasks is explicitly not guaranteed.
	order []string
}

// New creates an empty Flow. A missing ID is assigned a fresh uuid; a
// missing schedule defaults to schedule.NoSchedule.
func New(cfg FlowConfig) *Flow {
	name := cfg.Name
	if name == "" {
		name = "Flow"
	}
	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	sched := cfg.Schedule
	if sched == nil {
		sched = schedule.NoSchedule{}
	}
	return &Flow{
		Name:        name,
		ID:          id,
		Version:     cfg.Version,
		Description: cfg.Description,
		Schedule:    sched,
		tasks:       make(map[string]Task),
		edges:       make(map[Edge]struct{}),
	}
}

// AddTask inserts a task by identity. Adding the same task twice is a no-op;
// a different task reusing an existing identity is rejected.
func (f *Flow) AddTask(t Task) error {
	if t == nil {
		return errors.InvalidTask("received nil")
	}
	if t.ID() == "" {
		return errors.InvalidTask(fmt.Sprintf("task %q has no identity", t.Name()))
	}
	if existing, ok := f.tasks[t.ID()]; ok {
		if existing != t {
			return errors.InvalidTask(fmt.Sprintf("identity %s is already assigned to task %q", t.ID(), existing.Name()))
		}
		return nil
	}
	f.tasks[t.ID()] = t
	f.order = append(f.order, t.ID())
	return nil
}

// GetTask retrieves a task by identity.
func (f *Flow) GetTask(id string) (Task, error) {
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, errors.TaskNotFound(id)
}

// Tasks returns all tasks in insertion order.
func (f *Flow) Tasks() []Task {
	out := make([]Task, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.tasks[id])
	}
	return out
}

// Edges returns the flow's edge set.
func (f *Flow) Edges() []Edge {
	out := make([]Edge, 0, len(f.edges))
	for e := range f.edges {
		out = append(out, e)
	}
	return out
}

// AddEdge adds a dependency edge. Either endpoint is auto-inserted if
// absent. A second named edge to the same (downstream, key) is rejected, as
// is any edge that would make the graph cyclic; a rejected edge leaves the
// flow unchanged.
func (f *Flow) AddEdge(upstream, downstream Task, key string) error {
	taskCount := len(f.order)
	if err := f.AddTask(upstream); err != nil {
		return err
	}
	if err := f.AddTask(downstream); err != nil {
		f.rollbackTasks(taskCount)
		return err
	}

	edge := Edge{Upstream: upstream.ID(), Downstream: downstream.ID(), Key: key}

	if key != "" {
		for e := range f.edges {
			if e.Downstream == edge.Downstream && e.Key == key {
				f.rollbackTasks(taskCount)
				return errors.DuplicateEdge(downstream.Name(), key)
			}
		}
	}
	if _, ok := f.edges[edge]; ok {
		// plain ordering edges collapse on duplicate insertion
		return nil
	}

	f.edges[edge] = struct{}{}
	if _, err := f.SortedTasks(); err != nil {
		delete(f.edges, edge)
		f.rollbackTasks(taskCount)
		return errors.CycleDetected(fmt.Sprintf(
			"adding edge %s -> %s would create a cycle", upstream.Name(), downstream.Name()))
	}
	return nil
}

// rollbackTasks removes tasks auto-inserted by a failed AddEdge, restoring
// the task set to its pre-call size.
func (f *Flow) rollbackTasks(n int) {
	for _, id := range f.order[n:] {
		delete(f.tasks, id)
	}
	f.order = f.order[:n]
}

// SetDependencies adds task to the flow along with ordering edges from each
// upstream task, to each downstream task, and named data-passing edges from
// each keyed input.
func (f *Flow) SetDependencies(task Task, upstream, downstream []Task, keyedInputs map[string]Task) error {
	if err := f.AddTask(task); err != nil {
		return err
	}
	for _, t := range upstream {
		if err := f.AddEdge(t, task, ""); err != nil {
			return err
		}
	}
	for _, t := range downstream {
		if err := f.AddEdge(task, t, ""); err != nil {
			return err
		}
	}
	for key, t := range keyedInputs {
		if err := f.AddEdge(t, task, key); err != nil {
			return err
		}
	}
	return nil
}

// resolve turns a TaskRef (Task or ID string) into a task registered in the
// flow.
func (f *Flow) resolve(ref TaskRef) (Task, error) {
	switch v := ref.(type) {
	case Task:
		return f.GetTask(v.ID())
	case string:
		return f.GetTask(v)
	default:
		return nil, errors.InvalidTask(fmt.Sprintf("received %T, want a Task or task ID", ref))
	}
}

// EdgesTo returns the edges leading into a task.
func (f *Flow) EdgesTo(ref TaskRef) ([]Edge, error) {
	t, err := f.resolve(ref)
	if err != nil {
		return nil, err
	}
	return f.incoming(t.ID()), nil
}

// EdgesFrom returns the edges leading out of a task.
func (f *Flow) EdgesFrom(ref TaskRef) ([]Edge, error) {
	t, err := f.resolve(ref)
	if err != nil {
		return nil, err
	}
	return f.outgoing(t.ID()), nil
}

// UpstreamTasks returns the tasks immediately upstream of a task, keyed by
// task ID.
func (f *Flow) UpstreamTasks(ref TaskRef) (map[string]Task, error) {
	edges, err := f.EdgesTo(ref)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Task, len(edges))
	for _, e := range edges {
		out[e.Upstream] = f.tasks[e.Upstream]
	}
	return out, nil
}

// DownstreamTasks returns the tasks immediately downstream of a task, keyed
// by task ID.
func (f *Flow) DownstreamTasks(ref TaskRef) (map[string]Task, error) {
	edges, err := f.EdgesFrom(ref)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Task, len(edges))
	for _, e := range edges {
		out[e.Downstream] = f.tasks[e.Downstream]
	}
	return out, nil
}

// RootTasks returns the tasks with no incoming edges, keyed by task ID.
func (f *Flow) RootTasks() map[string]Task {
	out := make(map[string]Task)
	for id, t := range f.tasks {
		if len(f.incoming(id)) == 0 {
			out[id] = t
		}
	}
	return out
}

// TerminalTasks returns the tasks with no outgoing edges, keyed by task ID.
func (f *Flow) TerminalTasks() map[string]Task {
	out := make(map[string]Task)
	for id, t := range f.tasks {
		if len(f.outgoing(id)) == 0 {
			out[id] = t
		}
	}
	return out
}

func (f *Flow) incoming(id string) []Edge {
	return util.Filter(f.Edges(), func(e Edge) bool { return e.Downstream == id })
}

func (f *Flow) outgoing(id string) []Edge {
	return util.Filter(f.Edges(), func(e Edge) bool { return e.Upstream == id })
}

// SortedTasks returns a topological order of the flow's tasks. If roots are
// given, the order is restricted to their downstream closure. The relative
// order of simultaneously eligible tasks is arbitrary and must not be
// relied on.
func (f *Flow) SortedTasks(roots ...TaskRef) ([]Task, error) {
	remaining, err := f.closure(roots)
	if err != nil {
		return nil, err
	}

	sorted := make([]Task, 0, len(remaining))
	for len(remaining) > 0 {
		progressed := false
		for _, id := range f.order {
			if _, ok := remaining[id]; !ok {
				continue
			}
			ready := true
			for _, e := range f.incoming(id) {
				if _, pending := remaining[e.Upstream]; pending {
					ready = false
					break
				}
			}
			if ready {
				sorted = append(sorted, f.tasks[id])
				delete(remaining, id)
				progressed = true
			}
		}
		if !progressed {
			stuck := util.Map(util.Keys(remaining), func(id string) string { return f.tasks[id].Name() })
			sort.Strings(stuck)
			return nil, errors.CycleDetected(fmt.Sprintf("tasks %v form a cycle", stuck))
		}
	}
	return sorted, nil
}

// closure returns the downstream closure of roots as an ID set, or the full
// task set when no roots are given.
func (f *Flow) closure(roots []TaskRef) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(f.tasks))
	if len(roots) == 0 {
		for id := range f.tasks {
			set[id] = struct{}{}
		}
		return set, nil
	}

	queue := make([]string, 0, len(roots))
	for _, ref := range roots {
		t, err := f.resolve(ref)
		if err != nil {
			return nil, err
		}
		queue = append(queue, t.ID())
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := set[id]; seen {
			continue
		}
		set[id] = struct{}{}
		for _, e := range f.outgoing(id) {
			queue = append(queue, e.Downstream)
		}
	}
	return set, nil
}

// SubFlow returns a new Flow restricted to the downstream closure of roots.
// Task objects are shared with the parent; the edge set keeps exactly those
// edges whose both endpoints survive the restriction.
func (f *Flow) SubFlow(roots ...TaskRef) (*Flow, error) {
	tasks, err := f.SortedTasks(roots...)
	if err != nil {
		return nil, err
	}

	sub := New(FlowConfig{
		Name:        f.Name,
		ID:          f.ID,
		Version:     f.Version,
		Description: f.Description,
		Schedule:    f.Schedule,
	})
	for _, t := range tasks {
		if err := sub.AddTask(t); err != nil {
			return nil, err
		}
	}
	for e := range f.edges {
		if _, up := sub.tasks[e.Upstream]; !up {
			continue
		}
		if _, down := sub.tasks[e.Downstream]; !down {
			continue
		}
		sub.edges[e] = struct{}{}
	}
	return sub, nil
}

// ParameterInfo describes a Parameter task of the flow.
type ParameterInfo struct {
	Required bool
	Default  any
}

// Parameters reflects over the flow's Parameter tasks, keyed by parameter
// name.
func (f *Flow) Parameters(onlyRequired bool) map[string]ParameterInfo {
	out := make(map[string]ParameterInfo)
	for _, t := range f.tasks {
		p, ok := t.(*Parameter)
		if !ok {
			continue
		}
		if onlyRequired && !p.Required() {
			continue
		}
		out[p.Name()] = ParameterInfo{Required: p.Required(), Default: p.Default()}
	}
	return out
}
