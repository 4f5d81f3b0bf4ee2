package sampledata

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/okian/passmap/internal/adapters/repository"
	"github.com/okian/passmap/internal/domain/aggregate"
	"github.com/okian/passmap/pkg/logger"
)

// Verify reloads the tables in dir through the dashboard loader and checks
// they hold exactly want.
func Verify(ctx context.Context, dir string, want *Dataset, stats *Stats) error {
	logger.Get().Info(ctx, "verifying sample tables", logger.String("dir", dir))

	got, err := repository.Load(ctx,
		repository.WithPassesPath(filepath.Join(dir, PassesFile)),
		repository.WithMatchesPath(filepath.Join(dir, MatchesFile)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVerify, err)
	}

	if got.Count() != len(want.Passes) {
		return fmt.Errorf("%w: loaded %d passes, wrote %d", ErrVerify, got.Count(), len(want.Passes))
	}
	if got.MatchCount() != len(want.Matches) {
		return fmt.Errorf("%w: loaded %d matches, wrote %d", ErrVerify, got.MatchCount(), len(want.Matches))
	}
	for _, p := range want.Passes {
		loaded, ok := got.PassByID(p.ID)
		if !ok {
			return fmt.Errorf("%w: pass %s missing after reload", ErrVerify, p.ID)
		}
		if loaded.HasEnd != p.HasEnd || loaded.PlayerID != p.PlayerID || loaded.FreezeFrameRaw != p.FreezeFrameRaw {
			return fmt.Errorf("%w: pass %s changed after reload", ErrVerify, p.ID)
		}
	}

	aggs := aggregate.Build(got.Passes())
	if len(aggs) == 0 {
		return fmt.Errorf("%w: no aggregates", ErrVerify)
	}

	if stats != nil {
		stats.PassesLoaded = got.Count()
		stats.MatchesLoaded = got.MatchCount()
		stats.Aggregates = len(aggs)
	}
	logger.Get().Info(ctx, "sample tables verified",
		logger.Int("passes", got.Count()),
		logger.Int("aggregates", len(aggs)),
		logger.String("topAggregate", aggs[0].Label))
	return nil
}
