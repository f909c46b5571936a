package flow

// Builder threads an explicit active flow through a construction scope, so
// tasks and edges can be declared without repeating the flow reference.
// Builders hold no global state; flows built in separate scopes can be
// constructed in parallel.
//
// Errors are sticky: the first failed declaration is recorded and every
// later call becomes a no-op, so construction code can stay linear and
// check Err once at the end. Define does that check for you.
type Builder struct {
	flow *Flow
	err  error
}

// Define constructs a flow inside a builder scope. It returns the first
// construction error, or the completed flow.
func Define(cfg FlowConfig, build func(b *Builder) error) (*Flow, error) {
	f := New(cfg)
	b := NewBuilder(f)
	if err := build(b); err != nil {
		return nil, err
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewBuilder wraps an existing flow in a construction scope.
func NewBuilder(f *Flow) *Builder {
	return &Builder{flow: f}
}

// Flow returns the flow under construction.
func (b *Builder) Flow() *Flow { return b.flow }

// Err returns the first construction error, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) record(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Task creates a function-backed task and adds it to the flow.
func (b *Builder) Task(cfg TaskConfig) *FuncTask {
	t := NewTask(cfg)
	if b.err == nil {
		b.record(b.flow.AddTask(t))
	}
	return t
}

// Parameter creates a Parameter task and adds it to the flow.
func (b *Builder) Parameter(cfg ParameterConfig) *Parameter {
	p := NewParameter(cfg)
	if b.err == nil {
		b.record(b.flow.AddTask(p))
	}
	return p
}

// Edge adds a dependency edge to the flow.
func (b *Builder) Edge(upstream, downstream Task, key string) *Builder {
	if b.err == nil {
		b.record(b.flow.AddEdge(upstream, downstream, key))
	}
	return b
}

// Dependencies adds ordering edges from each upstream task to task.
func (b *Builder) Dependencies(task Task, upstream ...Task) *Builder {
	if b.err == nil {
		b.record(b.flow.SetDependencies(task, upstream, nil, nil))
	}
	return b
}

// Inputs adds named data-passing edges into task: each keyed upstream
// task's result is delivered under its key.
func (b *Builder) Inputs(task Task, keyed map[string]Task) *Builder {
	if b.err == nil {
		b.record(b.flow.SetDependencies(task, nil, nil, keyed))
	}
	return b
}
