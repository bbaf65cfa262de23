package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <suite-file>",
	Short: "List the tests a suite would run",
	Long: `List the tests discovered in a suite's test artifacts, without
creating any output directory.

Examples:
  deployspec list suite.json
  deployspec list suite.json --tests testrestart`,
	Args: cobra.ExactArgs(1),
	RunE: listCommand,
}

var listTestsFlag string

func init() {
	listCmd.Flags().StringVarP(&listTestsFlag, "tests", "t", "", "Show only these tests (comma-separated)")
}

func listCommand(cmd *cobra.Command, args []string) error {
	resolver := newSuiteResolver(cmd, nil, splitTests(listTestsFlag), "")

	tests, err := resolver.Tests(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", args[0])
	for _, test := range tests {
		if test.Validate != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s %s\n", test.Name, color.GreenString("[validated]"))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", test.Name)
		}
	}
	if len(tests) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  (no tests)")
	}
	return nil
}
