package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/deployspec/packages/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently resolved runs",
	Long: `Show runs recorded with 'resolve --history'.

Examples:
  deployspec history --db runs.db
  deployspec history --db runs.db --limit 5`,
	RunE: historyCommand,
}

var (
	historyDBFlag    string
	historyLimitFlag int
)

func init() {
	historyCmd.Flags().StringVar(&historyDBFlag, "db", getEnvString("DEPLOYSPEC_HISTORY", ""), "SQLite run database (env: DEPLOYSPEC_HISTORY)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of runs to show")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	if historyDBFlag == "" {
		return fmt.Errorf("no run database; pass --db or set DEPLOYSPEC_HISTORY")
	}
	store, err := history.Open(historyDBFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  tests=%d envs=%d\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.ReportName, run.Descriptor, run.Tests, run.Environments)
	}
	return nil
}
