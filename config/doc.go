// Package config provides configuration loading and validation for the
// workflow engine.
//
// It uses Viper to load configuration from a YAML file and environment
// variables, with an optional .env file for local development. Environment
// variables override file values using the PREFECT_ prefix with
// underscore-separated paths (e.g., PREFECT_RUNNER_MAX_PARALLEL).
package config
