package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLogsDir is used when the perf module does not advertise a log
// directory of its own.
const DefaultLogsDir = "logs"

const reportTimestampFormat = "_20060102_150405"

// Layout holds the resolved output locations for one run.
type Layout struct {
	ReportName string `json:"report_name"`
	ResultsDir string `json:"results_dir"`
	LogsDir    string `json:"logs_dir"`
}

// CheckFile fails when path does not exist or is not a regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file", path)
	}
	return nil
}

// CheckDir fails when path does not exist or is not a directory.
func CheckDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is a file, expected a directory", path)
	}
	return nil
}

// ReportName derives the run's report name from the suite descriptor's
// file name (extension stripped) and the process start time.
func ReportName(descriptorPath string, start time.Time) string {
	base := filepath.Base(descriptorPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + start.Format(reportTimestampFormat)
}

// Setup creates the output-directory layout for one run. Creation is
// idempotent and makes parent directories as needed.
func Setup(reportsDir, descriptorPath, logsDir string, start time.Time) (Layout, error) {
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}

	name := ReportName(descriptorPath, start)
	resultsDir := filepath.Join(reportsDir, name)

	for _, dir := range []string{reportsDir, resultsDir, logsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Layout{}, err
		}
	}

	return Layout{
		ReportName: name,
		ResultsDir: resultsDir,
		LogsDir:    logsDir,
	}, nil
}
