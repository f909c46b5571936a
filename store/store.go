// Package store persists flow definitions as serialized specs keyed by
// flow ID. Backends: in-memory (tests, ephemeral runs) and bbolt
// (single-node durable storage).
package store

import (
	"context"

	"github.com/mherr/prefect/flow"
)

// FlowStore defines the interface for flow definition persistence.
type FlowStore interface {
	// Save writes the spec, overwriting any spec with the same ID.
	// Specs without an ID are rejected.
	Save(ctx context.Context, s *flow.Spec) error

	// Get returns the spec with the given flow ID.
	Get(ctx context.Context, id string) (*flow.Spec, error)

	// List returns every stored spec, ordered by flow ID.
	List(ctx context.Context) ([]*flow.Spec, error)

	// Delete removes the spec with the given flow ID. Returns nil if
	// the spec does not exist.
	Delete(ctx context.Context, id string) error
}
