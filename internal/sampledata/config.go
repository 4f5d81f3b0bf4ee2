// Package sampledata generates consistent synthetic pass and match tables,
// writes them in the format the dashboard loads, and checks a running
// dashboard against them.
package sampledata

import (
	"runtime"
	"time"
)

// Config holds configuration for a generation run.
type Config struct {
	Dir             string        // Output directory for passDF.csv and gameDF.csv
	Teams           int           // Number of teams in the league
	Matches         int           // Number of matches to generate
	PassesPerPlayer int           // Mean passes per player per match
	Seed            int64         // Seed for reproducible output
	Workers         int           // Concurrent match generators
	BaseURL         string        // Optional running dashboard to smoke check
	Timeout         time.Duration // HTTP request timeout for the smoke check
	LogFile         string        // Log file for run output
	Verbose         bool          // Enable verbose logging
}

// DefaultConfig is a small league that loads in well under a second.
func DefaultConfig() Config {
	return Config{
		Dir:             ".",
		Teams:           4,
		Matches:         6,
		PassesPerPlayer: 12,
		Seed:            1,
		Workers:         runtime.NumCPU() * workerMultiplier,
		Timeout:         10 * time.Second,
	}
}

// Stats holds run statistics.
type Stats struct {
	MatchesGenerated int
	PassesGenerated  int
	PassesWithoutEnd int
	FramesMissing    int
	PassesLoaded     int
	MatchesLoaded    int
	Aggregates       int
	SmokeMarkers     int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
