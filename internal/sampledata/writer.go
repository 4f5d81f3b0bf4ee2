package sampledata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/pkg/logger"
)

var (
	passHeader = []string{
		"", "id", "player_id", "player_name", "position_id", "position", "team_id",
		"match_id", "match_name", "xT", "xT_str", "timestamp",
		"location", "end_location", "freeze_frame",
	}
	matchHeader = []string{
		"", "match_id", "match_name", "home_team_id", "home_team_name", "away_team_id", "away_team_name",
	}
)

// Write stores ds as passDF.csv and gameDF.csv in dir, creating dir when
// needed. Rows carry a leading unnamed index column and locations in the
// "[x, y]" list form of the upstream export.
func Write(ctx context.Context, dir string, ds *Dataset) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, directoryPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	matchRows := make([][]string, len(ds.Matches))
	for i, m := range ds.Matches {
		matchRows[i] = []string{
			strconv.Itoa(i), itoa(m.ID), m.Name,
			itoa(m.HomeTeamID), m.HomeTeamName, itoa(m.AwayTeamID), m.AwayTeamName,
		}
	}
	if err := writeTable(filepath.Join(dir, MatchesFile), matchHeader, matchRows); err != nil {
		return err
	}

	passRows := make([][]string, len(ds.Passes))
	for i, p := range ds.Passes {
		end := ""
		if p.HasEnd {
			end = listPoint(p.EndLocation)
		}
		passRows[i] = []string{
			strconv.Itoa(i), p.ID, itoa(p.PlayerID), p.PlayerName, itoa(p.PositionID), p.PositionName,
			itoa(p.TeamID), itoa(p.MatchID), p.MatchName,
			strconv.FormatFloat(p.XT, 'g', -1, 64), p.XTText, p.Timestamp,
			listPoint(p.Location), end, p.FreezeFrameRaw,
		}
	}
	if err := writeTable(filepath.Join(dir, PassesFile), passHeader, passRows); err != nil {
		return err
	}

	logger.Get().Info(ctx, "sample tables written",
		logger.String("dir", dir),
		logger.Int("passes", len(passRows)),
		logger.Int("matches", len(matchRows)))
	return nil
}

func writeTable(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func listPoint(p model.Point) string {
	return "[" + strconv.FormatFloat(p.X, 'f', 1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', 1, 64) + "]"
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
