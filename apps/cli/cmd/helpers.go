package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/deployspec/packages/artifact"
	"github.com/abdul-hamid-achik/deployspec/packages/core/suite"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// parseOverrides turns repeated --set key=value flags into an override
// mapping. Values that parse as JSON (numbers, booleans, arrays, nested
// objects) are taken as such; anything else stays a string.
func parseOverrides(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid override %q, expected key=value", pair)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		overrides[key] = parsed
	}
	return overrides, nil
}

// splitTests turns a comma-separated --tests value into a filter list.
// An empty flag means no filtering.
func splitTests(flag string) []string {
	if flag == "" {
		return nil
	}
	parts := strings.Split(flag, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}

// newSuiteResolver wires a plugin-backed resolver from the shared flags.
func newSuiteResolver(cmd *cobra.Command, overrides map[string]any, tests []string, reportsDir string) *suite.Resolver {
	warn := color.New(color.FgYellow)
	return suite.NewResolver(artifact.NewPluginLoader(), suite.Options{
		Overrides:  overrides,
		Tests:      tests,
		ReportsDir: reportsDir,
		WarnFunc: func(format string, args ...any) {
			warn.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
		},
	})
}
