package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithConfigFile(writeFile(t, t.TempDir(), "config.yml", "service: test-engine\n")))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service != "test-engine" {
		t.Errorf("expected service test-engine, got %s", cfg.Service)
	}
	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("expected development defaults, got %s debug=%v", cfg.Environment, cfg.Debug)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected default store backend memory, got %s", cfg.Store.Backend)
	}
	if cfg.Runner.MaxParallel != 0 {
		t.Errorf("expected unlimited parallelism by default, got %d", cfg.Runner.MaxParallel)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
service: etl
environment: production
logging:
  level: warn
  format: json
runner:
  max_parallel: 8
store:
  backend: bolt
  path: /var/lib/etl/flows.db
flow_dirs:
  - /etc/etl/flows
`)
	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "production" || cfg.Debug {
		t.Errorf("expected production without debug, got %s debug=%v", cfg.Environment, cfg.Debug)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Runner.MaxParallel != 8 {
		t.Errorf("expected max_parallel 8, got %d", cfg.Runner.MaxParallel)
	}
	if cfg.Store.Backend != "bolt" || cfg.Store.Path != "/var/lib/etl/flows.db" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if len(cfg.FlowDirs) != 1 || cfg.FlowDirs[0] != "/etc/etl/flows" {
		t.Errorf("unexpected flow dirs: %v", cfg.FlowDirs)
	}
}

func TestLoad_DedupesFlowDirs(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
service: etl
flow_dirs:
  - /etc/etl/flows
  - /opt/flows
  - /etc/etl/flows
`)
	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.FlowDirs) != 2 || cfg.FlowDirs[0] != "/etc/etl/flows" || cfg.FlowDirs[1] != "/opt/flows" {
		t.Errorf("expected deduplicated flow dirs, got %v", cfg.FlowDirs)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
service: etl
runner:
  max_parallel: 2
`)
	t.Setenv("PREFECT_RUNNER_MAX_PARALLEL", "16")
	t.Setenv("PREFECT_LOGGING_LEVEL", "debug")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runner.MaxParallel != 16 {
		t.Errorf("expected env override 16, got %d", cfg.Runner.MaxParallel)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env override debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", "service: etl\n")
	envPath := writeFile(t, dir, ".env", "PREFECT_STORE_BACKEND=bolt\nPREFECT_STORE_PATH=/tmp/flows.db\n")
	t.Cleanup(func() {
		os.Unsetenv("PREFECT_STORE_BACKEND")
		os.Unsetenv("PREFECT_STORE_PATH")
	})

	cfg, err := Load(WithConfigFile(cfgPath), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "bolt" || cfg.Store.Path != "/tmp/flows.db" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"bad environment":       "environment: qa\n",
		"bolt without path":     "store:\n  backend: bolt\n",
		"unknown store backend": "store:\n  backend: postgres\n",
		"bad log level":         "logging:\n  level: loud\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yml", content)
			if _, err := Load(WithConfigFile(path)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
