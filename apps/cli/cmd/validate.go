package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/core/suite"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <suite-file>...",
	Short: "Validate suite descriptors without loading artifacts",
	Long: `Validate suite descriptors: check the key set and that every
referenced path exists. No deployment, perf, or test artifact is loaded.

Examples:
  deployspec validate suite.json
  deployspec validate suites/*.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	resolver := suite.NewResolver(artifact.NewPluginLoader(), suite.Options{})

	hasErrors := false
	for _, path := range args {
		if _, err := resolver.Describe(path); err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", path, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", path)
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}
	return nil
}
