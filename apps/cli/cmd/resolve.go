package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/core/suite"
	"github.com/abdul-hamid-achik/deployspec/packages/history"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <suite-file>",
	Short: "Resolve a suite descriptor into an execution plan",
	Long: `Resolve a suite descriptor: validate it, merge the configuration
directory into per-environment stores, load the deployment, perf, and
test artifacts, and report the resulting plan.

Examples:
  deployspec resolve suite.json
  deployspec resolve suite.json --set retries=5 --set region=eu-west
  deployspec resolve suite.json --tests testrestart,testupgrade
  deployspec resolve suite.yaml --output json
  deployspec resolve suite.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: resolveCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	setFlag        []string
	testsFlag      string
	reportsDirFlag string
	outputFlag     string
	watchFlag      bool
	historyFlag    string
	noColorFlag    bool
)

func init() {
	resolveCmd.Flags().StringArrayVar(&setFlag, "set", nil, "Configuration override key=value (repeatable, wins every conflict)")
	resolveCmd.Flags().StringVarP(&testsFlag, "tests", "t", getEnvString("DEPLOYSPEC_TESTS", ""), "Run only these tests (comma-separated) (env: DEPLOYSPEC_TESTS)")
	resolveCmd.Flags().StringVar(&reportsDirFlag, "reports-dir", getEnvString("DEPLOYSPEC_REPORTS_DIR", suite.DefaultReportsDir), "Root directory for per-run results (env: DEPLOYSPEC_REPORTS_DIR)")
	resolveCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("DEPLOYSPEC_OUTPUT", "console"), "Output format: console, json (env: DEPLOYSPEC_OUTPUT)")
	resolveCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the descriptor and configuration directory, re-resolve on change")
	resolveCmd.Flags().StringVar(&historyFlag, "history", getEnvString("DEPLOYSPEC_HISTORY", ""), "Record the run in this SQLite database (env: DEPLOYSPEC_HISTORY)")
	resolveCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("DEPLOYSPEC_NO_COLOR", false), "Disable colored output (env: DEPLOYSPEC_NO_COLOR)")
}

func resolveCommand(cmd *cobra.Command, args []string) error {
	if noColorFlag {
		color.NoColor = true
	}

	overrides, err := parseOverrides(setFlag)
	if err != nil {
		return err
	}
	tests := splitTests(testsFlag)
	path := args[0]
	startTime := time.Now()

	resolveOnce := func() error {
		resolver := suite.NewResolver(artifact.NewPluginLoader(), suite.Options{
			Overrides:  overrides,
			Tests:      tests,
			ReportsDir: reportsDirFlag,
			StartTime:  startTime,
			WarnFunc: func(format string, warnArgs ...any) {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", warnArgs...)
			},
		})

		plan, err := resolver.Resolve(path)
		if err != nil {
			return err
		}
		if err := printPlan(cmd, plan); err != nil {
			return err
		}
		if historyFlag != "" {
			if err := recordRun(cmd.Context(), historyFlag, path, plan); err != nil {
				return err
			}
		}
		return nil
	}

	if !watchFlag {
		return resolveOnce()
	}

	if err := resolveOnce(); err != nil {
		// In watch mode a failed pass is reported, not fatal; the next
		// file change gets another chance.
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "resolve failed: %v\n", err)
	}
	return watchAndResolve(cmd, path, resolveOnce)
}

func recordRun(ctx context.Context, dbPath, descriptor string, plan *suite.ExecutionPlan) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(ctx, history.Run{
		ID:           plan.RunID,
		ReportName:   plan.Workspace.ReportName,
		Descriptor:   descriptor,
		Tests:        len(plan.Tests),
		Environments: len(plan.Environments),
		CreatedAt:    time.Now(),
	})
}

func watchAndResolve(cmd *cobra.Command, path string, resolveOnce func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(path) {
		if err := watcher.Add(dir); err != nil {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.OutOrStdout(), "\nWatching for changes... (ctrl-c to stop)")

	var debounce *time.Timer
	events := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case events <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		case <-events:
			fmt.Fprintln(cmd.OutOrStdout(), "\nChange detected, re-resolving...")
			if err := resolveOnce(); err != nil {
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "resolve failed: %v\n", err)
			}
		}
	}
}

// watchDirs collects the descriptor's directory plus the configuration
// directory and its immediate subdirectories.
func watchDirs(path string) []string {
	dirs := []string{filepath.Dir(path)}

	desc, err := suite.ParseDescriptor(path, artifact.NewPluginLoader())
	if err != nil {
		return dirs
	}
	dirs = append(dirs, desc.ConfigsDirectory)
	entries, err := os.ReadDir(desc.ConfigsDirectory)
	if err != nil {
		return dirs
	}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(desc.ConfigsDirectory, entry.Name()))
		}
	}
	return dirs
}

type testSummary struct {
	Name      string `json:"name"`
	Validated bool   `json:"validated"`
}

type envSummary struct {
	Name    string         `json:"name"`
	Options map[string]any `json:"options"`
}

type planSummary struct {
	RunID        string         `json:"run_id"`
	ReportName   string         `json:"report_name"`
	ResultsDir   string         `json:"results_dir"`
	LogsDir      string         `json:"logs_dir"`
	Deployment   string         `json:"deployment"`
	Perf         string         `json:"perf"`
	Tests        []testSummary  `json:"tests"`
	Master       map[string]any `json:"master"`
	Environments []envSummary   `json:"environments"`
}

func summarize(plan *suite.ExecutionPlan) planSummary {
	summary := planSummary{
		RunID:      plan.RunID,
		ReportName: plan.Workspace.ReportName,
		ResultsDir: plan.Workspace.ResultsDir,
		LogsDir:    plan.Workspace.LogsDir,
		Deployment: plan.Deployment.Name(),
		Perf:       plan.Perf.Name(),
		Master:     plan.Master.Mapping(),
	}
	for _, test := range plan.Tests {
		summary.Tests = append(summary.Tests, testSummary{Name: test.Name, Validated: test.Validate != nil})
	}
	for _, env := range plan.Environments {
		summary.Environments = append(summary.Environments, envSummary{Name: env.Name(), Options: env.Mapping()})
	}
	return summary
}

func printPlan(cmd *cobra.Command, plan *suite.ExecutionPlan) error {
	summary := summarize(plan)
	out := cmd.OutOrStdout()

	if outputFlag == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	bold.Fprintf(out, "Resolved %s", summary.ReportName)
	fmt.Fprintf(out, " (run %s)\n\n", summary.RunID)

	fmt.Fprintf(out, "  Deployment: %s\n", summary.Deployment)
	fmt.Fprintf(out, "  Perf:       %s (logs: %s)\n\n", summary.Perf, summary.LogsDir)

	fmt.Fprintf(out, "  Tests (%d):\n", len(summary.Tests))
	for _, test := range summary.Tests {
		if test.Validated {
			green.Fprintf(out, "    %s  [validated]\n", test.Name)
		} else {
			fmt.Fprintf(out, "    %s\n", test.Name)
		}
	}

	fmt.Fprintf(out, "\n  Master options: %d\n", len(summary.Master))
	fmt.Fprintf(out, "  Environments (%d):\n", len(summary.Environments))
	for _, env := range summary.Environments {
		cyan.Fprintf(out, "    %s", env.Name)
		fmt.Fprintf(out, "  (%d options)\n", len(env.Options))
	}

	fmt.Fprintf(out, "\n  Results: %s\n", summary.ResultsDir)
	return nil
}
