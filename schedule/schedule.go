package schedule

import (
	"time"

	"github.com/mherr/prefect/errors"
)

// Schedule decides when a flow should run.
type Schedule interface {
	// Next returns the first scheduled time strictly after the given
	// instant. ok is false when no further runs are scheduled.
	Next(after time.Time) (next time.Time, ok bool)
}

// NoSchedule is the default: the flow only runs when invoked directly.
type NoSchedule struct{}

func (NoSchedule) Next(time.Time) (time.Time, bool) { return time.Time{}, false }

// Interval schedules a run every fixed duration.
type Interval struct {
	// Every is the period between runs.
	Every time.Duration
}

func (i Interval) Next(after time.Time) (time.Time, bool) {
	if i.Every <= 0 {
		return time.Time{}, false
	}
	return after.Add(i.Every), true
}

// Spec is the serializable form of a Schedule.
type Spec struct {
	// Type is "none" or "interval".
	Type string `yaml:"type" json:"type" validate:"required,oneof=none interval"`
	// Interval is the period between runs in time.ParseDuration notation,
	// e.g. "15m" or "24h". Required for type "interval".
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty"`
}

// Schedule resolves the spec into a Schedule implementation.
func (s *Spec) Schedule() (Schedule, error) {
	switch s.Type {
	case "", "none":
		return NoSchedule{}, nil
	case "interval":
		every, err := time.ParseDuration(s.Interval)
		if err != nil {
			return nil, errors.InvalidSpec("interval schedule has a malformed interval " + s.Interval)
		}
		if every <= 0 {
			return nil, errors.InvalidSpec("interval schedule requires a positive interval")
		}
		return Interval{Every: every}, nil
	default:
		return nil, errors.InvalidSpec("unknown schedule type " + s.Type)
	}
}

// ToSpec converts a Schedule into its serializable form. Nil and NoSchedule
// both serialize to type "none".
func ToSpec(s Schedule) *Spec {
	switch v := s.(type) {
	case Interval:
		return &Spec{Type: "interval", Interval: v.Every.String()}
	default:
		return &Spec{Type: "none"}
	}
}
