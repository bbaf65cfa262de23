package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/deployspec/packages/core/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config <suite-file>",
	Short: "Show the resolved configuration stores",
	Long: `Resolve and print the master configuration and every environment
configuration for a suite, applying any --set overrides.

Examples:
  deployspec config suite.json
  deployspec config suite.json --set retries=5
  deployspec config suite.json --query cluster.hosts.0`,
	Args: cobra.ExactArgs(1),
	RunE: configCommand,
}

var (
	configSetFlag   []string
	configQueryFlag string
)

func init() {
	configCmd.Flags().StringArrayVar(&configSetFlag, "set", nil, "Configuration override key=value (repeatable)")
	configCmd.Flags().StringVarP(&configQueryFlag, "query", "q", "", "Print only this value (gjson path, e.g. cluster.hosts.0)")
}

func configCommand(cmd *cobra.Command, args []string) error {
	overrides, err := parseOverrides(configSetFlag)
	if err != nil {
		return err
	}
	resolver := newSuiteResolver(cmd, overrides, nil, "")

	master, envs, err := resolver.Configs(args[0])
	if err != nil {
		return err
	}

	if configQueryFlag != "" {
		return printQuery(cmd, master, envs)
	}

	printStore(cmd, master)
	for _, env := range envs {
		printStore(cmd, env)
	}
	return nil
}

func printQuery(cmd *cobra.Command, master *config.Store, envs []*config.Store) error {
	found := false
	for _, store := range append([]*config.Store{master}, envs...) {
		if value, ok := store.Query(configQueryFlag); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", store.Name(), value)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("no configuration matches %q", configQueryFlag)
	}
	return nil
}

func printStore(cmd *cobra.Command, store *config.Store) {
	out := cmd.OutOrStdout()
	color.New(color.Bold).Fprintf(out, "%s\n", store.Name())
	if store.Len() == 0 {
		fmt.Fprintln(out, "  (empty)")
		return
	}
	for _, key := range store.Keys() {
		value, _ := store.Get(key)
		fmt.Fprintf(out, "  %s: %v\n", key, value)
	}
}
