// Package engine assembles the configured pieces of the workflow engine:
// logger, flow store, spec loading, and runner construction.
package engine

import (
	"fmt"
	"io"

	"github.com/mherr/prefect/config"
	"github.com/mherr/prefect/flow"
	"github.com/mherr/prefect/logger"
	"github.com/mherr/prefect/runner"
	"github.com/mherr/prefect/store"
)

// Engine wires the configured logger, flow store, and spec loader together
// and hands out flow runners that honor the configured run limits.
type Engine struct {
	cfg    *config.Config
	log    *logger.Logger
	store  store.FlowStore
	loader *flow.FileSpecLoader
}

// New assembles an engine from its configuration. It applies defaults and
// validates the config, initializes the logger, and opens the configured
// store backend.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log := logger.New(&cfg.Logging, cfg.Service)

	var st store.FlowStore
	switch cfg.Store.Backend {
	case "bolt":
		bs, err := store.NewBoltStore(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = bs
	default:
		st = store.NewMemoryStore()
	}

	return &Engine{
		cfg:    cfg,
		log:    log,
		store:  st,
		loader: flow.NewFileSpecLoader(cfg.FlowDirs...),
	}, nil
}

// Log returns the engine's logger.
func (e *Engine) Log() *logger.Logger { return e.log }

// Store returns the configured flow store.
func (e *Engine) Store() store.FlowStore { return e.store }

// LoadFlow loads a named spec from the configured flow directories and
// builds it against the registry.
func (e *Engine) LoadFlow(name string, registry *flow.Registry) (*flow.Flow, error) {
	s, err := e.loader.Load(name)
	if err != nil {
		return nil, err
	}
	return flow.FromSpec(s, registry)
}

// Runner returns a FlowRunner for f honoring the configured parallelism and
// debug settings.
func (e *Engine) Runner(f *flow.Flow) *runner.FlowRunner {
	return &runner.FlowRunner{
		Flow:        f,
		MaxParallel: e.cfg.Runner.MaxParallel,
		Debug:       e.cfg.Runner.Debug,
		Log:         e.log,
	}
}

// Close releases the store's resources.
func (e *Engine) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
