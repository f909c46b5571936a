package flow

import (
	"testing"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/schedule"
)

func named(name string) *FuncTask {
	return NewTask(TaskConfig{Name: name})
}

func addEdge(t *testing.T, f *Flow, up, down Task, key string) {
	t.Helper()
	if err := f.AddEdge(up, down, key); err != nil {
		t.Fatalf("AddEdge(%s -> %s): %v", up.Name(), down.Name(), err)
	}
}

// diamond builds a -> b, a -> c, b -> d, c -> d.
func diamond(t *testing.T) (*Flow, *FuncTask, *FuncTask, *FuncTask, *FuncTask) {
	t.Helper()
	a, b, c, d := named("a"), named("b"), named("c"), named("d")
	f := New(FlowConfig{Name: "diamond"})
	addEdge(t, f, a, b, "")
	addEdge(t, f, a, c, "")
	addEdge(t, f, b, d, "")
	addEdge(t, f, c, d, "")
	return f, a, b, c, d
}

func position(t *testing.T, order []Task, task Task) int {
	t.Helper()
	for i, x := range order {
		if x.ID() == task.ID() {
			return i
		}
	}
	t.Fatalf("task %s missing from order", task.Name())
	return -1
}

// --- construction tests ---

func TestNew_Defaults(t *testing.T) {
	f := New(FlowConfig{})
	if f.Name != "Flow" {
		t.Errorf("expected default name Flow, got %q", f.Name)
	}
	if f.ID == "" {
		t.Error("expected a generated ID")
	}
	if _, ok := f.Schedule.(schedule.NoSchedule); !ok {
		t.Errorf("expected NoSchedule default, got %T", f.Schedule)
	}
}

func TestAddTask(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a := named("a")
	if err := f.AddTask(a); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := f.AddTask(a); err != nil {
		t.Errorf("re-adding the same task must be a no-op, got %v", err)
	}
	if len(f.Tasks()) != 1 {
		t.Errorf("expected 1 task, got %d", len(f.Tasks()))
	}

	if err := f.AddTask(nil); !errors.HasCode(err, errors.ErrCodeInvalidTask) {
		t.Errorf("expected invalid task for nil, got %v", err)
	}

	got, err := f.GetTask(a.ID())
	if err != nil || got != a {
		t.Errorf("GetTask: got %v, %v", got, err)
	}
	if _, err := f.GetTask("missing"); !errors.HasCode(err, errors.ErrCodeTaskNotFound) {
		t.Errorf("expected task not found, got %v", err)
	}
}

func TestAddEdge_AutoInsertsEndpoints(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a, b := named("a"), named("b")
	addEdge(t, f, a, b, "")
	if len(f.Tasks()) != 2 {
		t.Errorf("expected both endpoints inserted, got %d tasks", len(f.Tasks()))
	}
	if len(f.Edges()) != 1 {
		t.Errorf("expected 1 edge, got %d", len(f.Edges()))
	}
}

func TestAddEdge_DuplicatePlainEdgeCollapses(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a, b := named("a"), named("b")
	addEdge(t, f, a, b, "")
	addEdge(t, f, a, b, "")
	if len(f.Edges()) != 1 {
		t.Errorf("expected duplicate ordering edge to collapse, got %d edges", len(f.Edges()))
	}
}

func TestAddEdge_DuplicateKeyRejected(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a, b, c := named("a"), named("b"), named("c")
	addEdge(t, f, a, c, "x")

	err := f.AddEdge(b, c, "x")
	if !errors.HasCode(err, errors.ErrCodeDuplicateEdge) {
		t.Fatalf("expected duplicate edge error, got %v", err)
	}
	if len(f.Tasks()) != 2 {
		t.Errorf("rejected edge must not leave b behind, got %d tasks", len(f.Tasks()))
	}
	if len(f.Edges()) != 1 {
		t.Errorf("expected the edge set unchanged, got %d edges", len(f.Edges()))
	}

	// distinct keys into the same task are fine
	addEdge(t, f, b, c, "y")
}

func TestAddEdge_SameUpstreamDistinctKeys(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a, b := named("a"), named("b")
	addEdge(t, f, a, b, "x")
	addEdge(t, f, a, b, "y")
	if len(f.Edges()) != 2 {
		t.Errorf("edges with distinct keys are distinct, got %d", len(f.Edges()))
	}
}

// --- cycle detection tests ---

func TestAddEdge_SelfLoopRejected(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a := named("a")
	if err := f.AddEdge(a, a, ""); !errors.HasCode(err, errors.ErrCodeCycleDetected) {
		t.Fatalf("expected cycle error for a self loop, got %v", err)
	}
	if len(f.Tasks()) != 0 {
		t.Errorf("rejected edge must not insert its endpoints, got %d tasks", len(f.Tasks()))
	}
}

func TestAddEdge_CycleRejectedAtomically(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a, b, c := named("a"), named("b"), named("c")
	addEdge(t, f, a, b, "")
	addEdge(t, f, b, c, "")

	err := f.AddEdge(c, a, "")
	if !errors.HasCode(err, errors.ErrCodeCycleDetected) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if len(f.Edges()) != 2 {
		t.Errorf("expected the edge set restored, got %d edges", len(f.Edges()))
	}
	if len(f.Tasks()) != 3 {
		t.Errorf("expected the task set unchanged, got %d tasks", len(f.Tasks()))
	}
	// the flow is still usable
	if _, err := f.SortedTasks(); err != nil {
		t.Errorf("flow must remain acyclic after a rejected edge: %v", err)
	}
}

// --- traversal tests ---

func TestRootsAndTerminals(t *testing.T) {
	f, a, _, _, d := diamond(t)
	roots := f.RootTasks()
	if len(roots) != 1 || roots[a.ID()] == nil {
		t.Errorf("expected a as the sole root, got %v", roots)
	}
	terminals := f.TerminalTasks()
	if len(terminals) != 1 || terminals[d.ID()] == nil {
		t.Errorf("expected d as the sole terminal, got %v", terminals)
	}

	// an isolated task is both
	iso := named("iso")
	if err := f.AddTask(iso); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if f.RootTasks()[iso.ID()] == nil || f.TerminalTasks()[iso.ID()] == nil {
		t.Error("an isolated task is both a root and a terminal")
	}
}

func TestUpstreamDownstream(t *testing.T) {
	f, a, b, c, d := diamond(t)

	up, err := f.UpstreamTasks(d)
	if err != nil {
		t.Fatalf("UpstreamTasks: %v", err)
	}
	if len(up) != 2 || up[b.ID()] == nil || up[c.ID()] == nil {
		t.Errorf("expected b and c upstream of d, got %v", up)
	}

	// lookup by ID string works the same as by task
	down, err := f.DownstreamTasks(a.ID())
	if err != nil {
		t.Fatalf("DownstreamTasks: %v", err)
	}
	if len(down) != 2 || down[b.ID()] == nil || down[c.ID()] == nil {
		t.Errorf("expected b and c downstream of a, got %v", down)
	}

	if _, err := f.UpstreamTasks("missing"); !errors.HasCode(err, errors.ErrCodeTaskNotFound) {
		t.Errorf("expected task not found, got %v", err)
	}
	if _, err := f.EdgesTo(42); !errors.HasCode(err, errors.ErrCodeInvalidTask) {
		t.Errorf("expected invalid task for a non-ref value, got %v", err)
	}
}

// --- topological sort tests ---

func TestSortedTasks_RespectsEdges(t *testing.T) {
	f, a, b, c, d := diamond(t)
	order, err := f.SortedTasks()
	if err != nil {
		t.Fatalf("SortedTasks: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(order))
	}
	pa, pb, pc, pd := position(t, order, a), position(t, order, b), position(t, order, c), position(t, order, d)
	if pa > pb || pa > pc || pb > pd || pc > pd {
		t.Errorf("order violates edges: a=%d b=%d c=%d d=%d", pa, pb, pc, pd)
	}
}

func TestSortedTasks_RestrictedToClosure(t *testing.T) {
	f, _, b, _, d := diamond(t)
	order, err := f.SortedTasks(b)
	if err != nil {
		t.Fatalf("SortedTasks: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected the closure of b (b, d), got %d tasks", len(order))
	}
	if position(t, order, b) > position(t, order, d) {
		t.Error("b must precede d")
	}
}

func TestSortedTasks_UnknownRoot(t *testing.T) {
	f, _, _, _, _ := diamond(t)
	if _, err := f.SortedTasks("missing"); !errors.HasCode(err, errors.ErrCodeTaskNotFound) {
		t.Errorf("expected task not found, got %v", err)
	}
}

// --- subgraph tests ---

func TestSubFlow(t *testing.T) {
	f, a, b, c, d := diamond(t)
	sub, err := f.SubFlow(b)
	if err != nil {
		t.Fatalf("SubFlow: %v", err)
	}

	if len(sub.Tasks()) != 2 {
		t.Fatalf("expected b and d, got %d tasks", len(sub.Tasks()))
	}
	got, err := sub.GetTask(b.ID())
	if err != nil || got != b {
		t.Error("subflow must share task objects with the parent")
	}
	if _, err := sub.GetTask(a.ID()); err == nil {
		t.Error("a is outside the closure of b")
	}
	if _, err := sub.GetTask(c.ID()); err == nil {
		t.Error("c is outside the closure of b")
	}

	edges := sub.Edges()
	if len(edges) != 1 || edges[0].Upstream != b.ID() || edges[0].Downstream != d.ID() {
		t.Errorf("expected only b -> d to survive, got %v", edges)
	}

	// the parent is untouched
	if len(f.Tasks()) != 4 || len(f.Edges()) != 4 {
		t.Error("SubFlow must not mutate the parent")
	}
}

func TestSubFlow_MultipleRoots(t *testing.T) {
	f, _, b, c, _ := diamond(t)
	sub, err := f.SubFlow(b, c)
	if err != nil {
		t.Fatalf("SubFlow: %v", err)
	}
	if len(sub.Tasks()) != 3 || len(sub.Edges()) != 2 {
		t.Errorf("expected b, c, d with 2 edges, got %d tasks %d edges", len(sub.Tasks()), len(sub.Edges()))
	}
}

// --- dependency helper tests ---

func TestSetDependencies(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	a, b, c, in := named("a"), named("b"), named("c"), named("in")
	err := f.SetDependencies(b, []Task{a}, []Task{c}, map[string]Task{"data": in})
	if err != nil {
		t.Fatalf("SetDependencies: %v", err)
	}
	if len(f.Tasks()) != 4 {
		t.Errorf("expected 4 tasks, got %d", len(f.Tasks()))
	}
	edges, err := f.EdgesTo(b)
	if err != nil {
		t.Fatalf("EdgesTo: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("expected 2 edges into b, got %d", len(edges))
	}
	var foundKey bool
	for _, e := range edges {
		if e.Key == "data" && e.Upstream == in.ID() {
			foundKey = true
		}
	}
	if !foundKey {
		t.Error("expected the keyed edge in -> b")
	}
}

// --- parameter reflection tests ---

func TestParameters(t *testing.T) {
	f := New(FlowConfig{Name: "f"})
	req := NewParameter(ParameterConfig{Name: "source", Required: true})
	opt := NewParameter(ParameterConfig{Name: "limit", Default: 100})
	use := named("use")
	addEdge(t, f, req, use, "source")
	addEdge(t, f, opt, use, "limit")

	all := f.Parameters(false)
	if len(all) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(all))
	}
	if !all["source"].Required || all["limit"].Required {
		t.Errorf("unexpected required flags: %+v", all)
	}
	if all["limit"].Default != 100 {
		t.Errorf("expected default 100, got %v", all["limit"].Default)
	}

	required := f.Parameters(true)
	if len(required) != 1 || required["source"].Required != true {
		t.Errorf("expected only source, got %+v", required)
	}
}
