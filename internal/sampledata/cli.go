package sampledata

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/passmap/pkg/logger"
)

// SetupLogging configures logging to the console and, when logFile is set,
// to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWithFormat(logger.FormatText, out); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return err
		}
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the sample data tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Pass Map Sample Data Tool
=========================

Generates a synthetic league as passDF.csv and gameDF.csv, reloads it through
the dashboard loader, and optionally smoke checks a running dashboard.

Usage:
  go run ./cmd/sample-data [options]

Options:
  -dir string
        Output directory (default ".")
  -teams int
        Number of teams, 2 to 12 (default 4)
  -matches int
        Number of matches (default 6)
  -passes int
        Mean passes per player per match (default 12)
  -seed int
        Random seed (default 1)
  -workers int
        Concurrent match generators (default CPU cores * 2)
  -url string
        Smoke check a running dashboard at this base URL after writing
  -timeout duration
        HTTP request timeout for the smoke check (default 10s)
  -log string
        Also write output to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Write a small league into ./data
  go run ./cmd/sample-data -dir data

  # Bigger league, then check the dashboard serving it
  go run ./cmd/sample-data -dir data -teams 10 -matches 40 -url http://localhost:8118
`)
}
