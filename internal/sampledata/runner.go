package sampledata

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/passmap/pkg/logger"
)

// Run generates, writes and verifies a league, then smoke checks cfg.BaseURL when
// one is set.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting sample data run",
		logger.String("dir", cfg.Dir),
		logger.Int("teams", cfg.Teams),
		logger.Int("matches", cfg.Matches),
		logger.Int("workers", cfg.Workers),
		logger.String("baseURL", cfg.BaseURL),
		logger.Bool("verbose", cfg.Verbose))

	ds, err := Generate(ctx, cfg)
	if err != nil {
		return stats, fmt.Errorf("generation failed: %w", err)
	}
	stats.MatchesGenerated = len(ds.Matches)
	stats.PassesGenerated = len(ds.Passes)
	for _, p := range ds.Passes {
		if !p.HasEnd {
			stats.PassesWithoutEnd++
		}
		if p.FreezeFrameRaw == "" {
			stats.FramesMissing++
		}
	}

	if err := Write(ctx, cfg.Dir, ds); err != nil {
		return stats, fmt.Errorf("write failed: %w", err)
	}

	if err := Verify(ctx, cfg.Dir, ds, stats); err != nil {
		return stats, err
	}

	if cfg.BaseURL != "" {
		if err := SmokeCheck(ctx, cfg, stats); err != nil {
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("matchesGenerated", stats.MatchesGenerated),
		logger.Int("passesGenerated", stats.PassesGenerated),
		logger.Int("passesWithoutEnd", stats.PassesWithoutEnd),
		logger.Int("framesMissing", stats.FramesMissing),
		logger.Int("passesLoaded", stats.PassesLoaded),
		logger.Int("aggregates", stats.Aggregates),
		logger.Int("smokeMarkers", stats.SmokeMarkers),
		logger.Duration("duration", stats.Duration))
}
