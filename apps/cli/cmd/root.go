package cmd

import (
	"errors"
	"os"

	"github.com/abdul-hamid-achik/deployspec/packages/core/suite"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "deployspec",
	Short: "Resolve deployment-test suites before execution.",
	Long: `deployspec is the preparation layer of a deployment-test runner.
Given a suite descriptor it resolves which tests to execute, builds a
merged configuration per execution environment, and loads the deployment,
perf, and test artifacts - without running anything.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var invalid *suite.InvalidDescriptorError
	var unsupported *suite.UnsupportedFormatError
	if errors.As(err, &invalid) || errors.As(err, &unsupported) {
		return ExitDescriptorError
	}
	return ExitResolveError
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
