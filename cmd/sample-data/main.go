package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/passmap/internal/sampledata"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	def := sampledata.DefaultConfig()
	var (
		dir      = flag.String("dir", def.Dir, "Output directory for passDF.csv and gameDF.csv")
		teams    = flag.Int("teams", def.Teams, "Number of teams")
		matches  = flag.Int("matches", def.Matches, "Number of matches")
		passes   = flag.Int("passes", def.PassesPerPlayer, "Mean passes per player per match")
		seed     = flag.Int64("seed", def.Seed, "Random seed")
		workers  = flag.Int("workers", def.Workers, "Concurrent match generators")
		baseURL  = flag.String("url", "", "Smoke check a running dashboard at this base URL")
		timeout  = flag.Duration("timeout", def.Timeout, "HTTP request timeout for the smoke check")
		logFile  = flag.String("log", "", "Also write output to this file")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		showHelp = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *showHelp {
		sampledata.ShowHelp()
		return
	}

	if err := sampledata.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := sampledata.Config{
		Dir:             *dir,
		Teams:           *teams,
		Matches:         *matches,
		PassesPerPlayer: *passes,
		Seed:            *seed,
		Workers:         *workers,
		BaseURL:         *baseURL,
		Timeout:         *timeout,
		LogFile:         *logFile,
		Verbose:         *verbose,
	}

	if _, err := sampledata.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("sample data run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
