// Package config builds the configuration stores for a deployment-test run.
//
// It provides functionality for:
//   - Parsing JSON and YAML option files into mappings
//   - Merging shared defaults, per-environment files, and caller overrides
//   - Producing a separate master configuration for run-level settings
package config
