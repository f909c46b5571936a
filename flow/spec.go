package flow

import (
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/schedule"
	"github.com/mherr/prefect/validation"
)

// Spec is the serialized form of a Flow: the boundary format exchanged with
// stores and definition files. Tasks are listed in topological order; task
// identity is stable across round-trips.
type Spec struct {
	Name        string                   `yaml:"name" json:"name" validate:"required"`
	ID          string                   `yaml:"id,omitempty" json:"id,omitempty"`
	Version     string                   `yaml:"version,omitempty" json:"version,omitempty"`
	Description string                   `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters  map[string]ParameterSpec `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Schedule    *schedule.Spec           `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	Tasks       []TaskSpec               `yaml:"tasks" json:"tasks" validate:"min=1,dive"`
	Edges       []EdgeSpec               `yaml:"edges,omitempty" json:"edges,omitempty" validate:"dive"`
}

// TaskSpec describes one task of a serialized flow.
type TaskSpec struct {
	ID   string `yaml:"id,omitempty" json:"id,omitempty"`
	Name string `yaml:"name" json:"name" validate:"required"`
	// Component is the registry key of the task implementation. Defaults
	// to Name when loading.
	Component string `yaml:"component,omitempty" json:"component,omitempty"`
	// Trigger is a registered trigger name overriding the task's default.
	Trigger string `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	// Parameter marks this task as a Parameter variant.
	Parameter bool `yaml:"parameter,omitempty" json:"parameter,omitempty"`
	Required  bool `yaml:"required,omitempty" json:"required,omitempty"`
	Default   any  `yaml:"default,omitempty" json:"default,omitempty"`
}

// EdgeSpec describes one edge of a serialized flow. Endpoints reference a
// task's ID or, for hand-written specs, its name.
type EdgeSpec struct {
	Upstream   string `yaml:"upstream" json:"upstream" validate:"required"`
	Downstream string `yaml:"downstream" json:"downstream" validate:"required"`
	Key        string `yaml:"key,omitempty" json:"key,omitempty"`
}

// ParameterSpec describes a flow parameter.
type ParameterSpec struct {
	Required bool `yaml:"required" json:"required"`
	Default  any  `yaml:"default,omitempty" json:"default,omitempty"`
}

// Serialize produces the flow's serialized form. Tasks are emitted in
// topological order and edges in a deterministic order.
func (f *Flow) Serialize() (*Spec, error) {
	sorted, err := f.SortedTasks()
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Name:        f.Name,
		ID:          f.ID,
		Version:     f.Version,
		Description: f.Description,
		Schedule:    schedule.ToSpec(f.Schedule),
		Parameters:  make(map[string]ParameterSpec),
	}

	for name, info := range f.Parameters(false) {
		spec.Parameters[name] = ParameterSpec{Required: info.Required, Default: info.Default}
	}

	for _, t := range sorted {
		ts := TaskSpec{ID: t.ID(), Name: t.Name()}
		if p, ok := t.(*Parameter); ok {
			ts.Parameter = true
			ts.Required = p.Required()
			ts.Default = p.Default()
		}
		spec.Tasks = append(spec.Tasks, ts)
	}

	spec.Edges = make([]EdgeSpec, 0, len(f.edges))
	for e := range f.edges {
		spec.Edges = append(spec.Edges, EdgeSpec{Upstream: e.Upstream, Downstream: e.Downstream, Key: e.Key})
	}
	sort.Slice(spec.Edges, func(i, j int) bool {
		a, b := spec.Edges[i], spec.Edges[j]
		if a.Upstream != b.Upstream {
			return a.Upstream < b.Upstream
		}
		if a.Downstream != b.Downstream {
			return a.Downstream < b.Downstream
		}
		return a.Key < b.Key
	})
	return spec, nil
}

// Encode marshals the spec to YAML.
func (s *Spec) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.InvalidSpec("encoding failed").WithCause(err)
	}
	return data, nil
}

// ParseSpec unmarshals and validates a YAML flow spec.
func ParseSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.InvalidSpec("parsing failed").WithCause(err)
	}
	if err := validation.Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
