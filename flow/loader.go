package flow

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mherr/prefect/errors"
	"github.com/mherr/prefect/schedule"
	"github.com/mherr/prefect/trigger"
)

// SpecLoader loads flow specs by name.
type SpecLoader interface {
	Load(name string) (*Spec, error)
}

// FileSpecLoader loads flow specs from YAML files on disk.
type FileSpecLoader struct {
	dirs []string
}

// NewFileSpecLoader creates a loader that searches the given directories for
// flow spec YAML files.
func NewFileSpecLoader(dirs ...string) *FileSpecLoader {
	return &FileSpecLoader{dirs: dirs}
}

// Load searches for {name}.yaml or {name}.yml across the configured
// directories.
func (l *FileSpecLoader) Load(name string) (*Spec, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if s, err := LoadSpecFile(path); err == nil {
				return s, nil
			}
		}
	}
	return nil, errors.InvalidSpec(fmt.Sprintf("flow spec %q not found in %v", name, l.dirs))
}

// LoadSpecFile reads and validates a flow spec from a YAML file.
func LoadSpecFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidSpec(fmt.Sprintf("reading %s", path)).WithCause(err)
	}
	return ParseSpec(data)
}

// FromSpec builds an executable Flow from a spec. Task bodies are resolved
// from the registry by component name (defaulting to the task name) and
// instantiated once per spec task; parameter tasks are constructed directly.
// A spec task's ID is applied to the constructed task, so identity survives
// a Serialize/FromSpec round trip. Spec-level trigger names override the
// task's own trigger where the task supports it.
func FromSpec(s *Spec, registry *Registry) (*Flow, error) {
	var sched schedule.Schedule
	if s.Schedule != nil {
		var err error
		if sched, err = s.Schedule.Schedule(); err != nil {
			return nil, err
		}
	}

	f := New(FlowConfig{
		Name:        s.Name,
		ID:          s.ID,
		Version:     s.Version,
		Description: s.Description,
		Schedule:    sched,
	})

	// byRef resolves edge endpoints: spec ID first, then name.
	byRef := make(map[string]Task, len(s.Tasks))
	for _, ts := range s.Tasks {
		t, err := resolveTask(ts, registry)
		if err != nil {
			return nil, err
		}
		if err := f.AddTask(t); err != nil {
			return nil, err
		}
		if ts.ID != "" {
			byRef[ts.ID] = t
		}
		if _, taken := byRef[ts.Name]; !taken {
			byRef[ts.Name] = t
		}
	}

	for _, es := range s.Edges {
		up, ok := byRef[es.Upstream]
		if !ok {
			return nil, errors.TaskNotFound(es.Upstream)
		}
		down, ok := byRef[es.Downstream]
		if !ok {
			return nil, errors.TaskNotFound(es.Downstream)
		}
		if err := f.AddEdge(up, down, es.Key); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func resolveTask(ts TaskSpec, registry *Registry) (Task, error) {
	if ts.Parameter {
		p := NewParameter(ParameterConfig{
			Name:     ts.Name,
			Required: ts.Required,
			Default:  ts.Default,
		})
		p.SetID(ts.ID)
		return p, nil
	}

	component := ts.Component
	if component == "" {
		component = ts.Name
	}
	if registry == nil {
		return nil, errors.UnknownComponent(component)
	}
	factory, ok := registry.Get(component)
	if !ok {
		return nil, errors.UnknownComponent(component)
	}
	t := factory()

	if ts.ID != "" {
		if setter, ok := t.(IDSetter); ok {
			setter.SetID(ts.ID)
		}
	}

	if ts.Trigger != "" {
		trig, ok := trigger.Lookup(ts.Trigger)
		if !ok {
			return nil, errors.UnknownTrigger(ts.Trigger)
		}
		setter, ok := t.(TriggerSetter)
		if !ok {
			return nil, errors.InvalidSpec(fmt.Sprintf(
				"task %q does not support trigger overrides", ts.Name))
		}
		setter.SetTrigger(trig)
	}
	return t, nil
}
