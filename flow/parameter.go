package flow

import (
	"context"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/state"
	"github.com/mherr/prefect/trigger"
)

// ValueKey is the input key under which a Parameter receives its run-time
// value.
const ValueKey = "value"

// ParameterConfig configures a Parameter task.
type ParameterConfig struct {
	// Name is the parameter name, used to look up its value at run time.
	Name string
	// Required marks the parameter as mandatory. A required parameter with
	// no supplied value fails its run.
	Required bool
	// Default is the value used when none is supplied. Only meaningful for
	// optional parameters.
	Default any
}

// Parameter is a task variant whose result is a value supplied at run time,
// or its default.
type Parameter struct {
	id       string
	name     string
	required bool
	def      any
}

var _ Task = (*Parameter)(nil)

// NewParameter creates a Parameter task with a fresh identity.
func NewParameter(cfg ParameterConfig) *Parameter {
	return &Parameter{
		id:       newTaskID(),
		name:     cfg.Name,
		required: cfg.Required,
		def:      cfg.Default,
	}
}

func (p *Parameter) ID() string   { return p.id }
func (p *Parameter) Name() string { return p.name }

// SetID assigns the parameter's identity. Only call before the parameter is
// added to a flow.
func (p *Parameter) SetID(id string) {
	if id != "" {
		p.id = id
	}
}

// Required reports whether the parameter must be supplied at run time.
func (p *Parameter) Required() bool { return p.required }

// Default returns the value used when none is supplied.
func (p *Parameter) Default() any { return p.def }

func (p *Parameter) Trigger(upstream map[string]state.State) bool {
	return trigger.AllSuccessful(upstream)
}

// Run resolves the parameter's value: the supplied input if present,
// otherwise the default. A required parameter with no value fails.
func (p *Parameter) Run(_ context.Context, inputs map[string]any) (any, error) {
	if v, ok := inputs[ValueKey]; ok {
		return v, nil
	}
	if p.required {
		return nil, errors.MissingParameter(p.name)
	}
	return p.def, nil
}
