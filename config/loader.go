package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix namespaces the engine's environment variables.
const envPrefix = "PREFECT"

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the engine configuration. Precedence, highest first:
// environment variables (PREFECT_*), the .env file, the YAML config file,
// defaults. Missing files are not an error; a present but malformed file is.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findFirst("./config.yml", "./config.yaml", "./config/config.yml", "./config/config.yaml")
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFirst("./.env")
	}

	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", lc.ConfigFile, err)
		}
	}
	bindKnownKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindKnownKeys registers every config key with viper so AutomaticEnv can
// resolve it even when the key is absent from the config file.
func bindKnownKeys(v *viper.Viper) {
	for _, key := range []string{
		"service",
		"environment",
		"debug",
		"logging.level",
		"logging.format",
		"logging.output",
		"logging.no_color",
		"logging.timestamp",
		"runner.max_parallel",
		"runner.debug",
		"store.backend",
		"store.path",
		"flow_dirs",
	} {
		if err := v.BindEnv(key); err != nil {
			// BindEnv only fails on an empty key
			panic(err)
		}
	}
}

func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
