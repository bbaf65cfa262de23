// Package cmd implements the deployspec CLI commands using Cobra.
//
// Available commands:
//   - resolve: Build the full execution plan for a suite descriptor
//   - list: Display the tests a suite would run
//   - validate: Check a suite descriptor without loading artifacts
//   - config: Show the resolved configuration stores
//   - history: Show recently resolved runs
//   - version: Show deployspec version information
//
// The CLI supports configuration overrides, test-name filtering, JSON
// output, and watch mode for development workflows.
package cmd
