package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/pkg/logger"
	"github.com/okian/passmap/pkg/metrics"
)

// Default table locations and pitch tolerance.
const (
	DefaultPassesFile  = "passDF.csv"
	DefaultMatchesFile = "gameDF.csv"
	DefaultPitchMargin = 5.0
)

// Column names of the pass table.
const (
	colID           = "id"
	colPlayerID     = "player_id"
	colPlayerName   = "player_name"
	colPositionID   = "position_id"
	colPosition     = "position"
	colTeamID       = "team_id"
	colMatchID      = "match_id"
	colMatchName    = "match_name"
	colXT           = "xT"
	colXTText       = "xT_str"
	colTimestamp    = "timestamp"
	colLocation     = "location"
	colLocationX    = "location_x"
	colLocationY    = "location_y"
	colEndLocation  = "end_location"
	colEndLocationX = "end_location_x"
	colEndLocationY = "end_location_y"
	colFreezeFrame  = "freeze_frame"
)

// Column names of the match table.
const (
	colHomeTeamID   = "home_team_id"
	colHomeTeamName = "home_team_name"
	colAwayTeamID   = "away_team_id"
	colAwayTeamName = "away_team_name"
)

var (
	passColumns = []string{
		colID, colPlayerID, colPlayerName, colPositionID, colPosition,
		colTeamID, colMatchID, colMatchName, colXT, colTimestamp,
	}
	matchColumns = []string{
		colMatchID, colMatchName, colHomeTeamID, colHomeTeamName, colAwayTeamID, colAwayTeamName,
	}
)

type loader struct {
	passesPath  string
	matchesPath string
	margin      float64
	log         logger.Logger
}

// Load reads both tables and returns the immutable dataset. Any error is
// fatal for the caller: there is no partial dataset.
func Load(ctx context.Context, opts ...Option) (*Dataset, error) {
	l := &loader{
		passesPath:  DefaultPassesFile,
		matchesPath: DefaultMatchesFile,
		margin:      DefaultPitchMargin,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get()
	}

	start := time.Now()

	matches, err := readTable(l.matchesPath, matchColumns, parseMatch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadDataset, l.matchesPath, err)
	}
	passes, err := readTable(l.passesPath, passColumns, parsePass)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadDataset, l.passesPath, err)
	}

	ds, err := build(passes, matches, l.margin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}

	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(float64(elapsed.Milliseconds()))
	metrics.UpdateDatasetRows(ds.Count(), ds.MatchCount())
	l.log.Info(ctx, "dataset loaded",
		logger.String("passes_file", l.passesPath),
		logger.String("matches_file", l.matchesPath),
		logger.Int("passes", ds.Count()),
		logger.Int("matches", ds.MatchCount()),
		logger.Duration("elapsed", elapsed),
	)
	return ds, nil
}

// FromRecords builds a dataset from already decoded rows, applying the same
// derivations and invariants as Load.
func FromRecords(passes []model.PassEvent, matches []model.Match, opts ...Option) (*Dataset, error) {
	l := &loader{margin: DefaultPitchMargin}
	for _, opt := range opts {
		opt(l)
	}
	ds, err := build(append([]model.PassEvent(nil), passes...), append([]model.Match(nil), matches...), l.margin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	return ds, nil
}

// build indexes the rows, derives hover text and enforces the cross-table
// invariants.
func build(passes []model.PassEvent, matches []model.Match, margin float64) (*Dataset, error) {
	ds := &Dataset{
		passes:   passes,
		matches:  matches,
		passIdx:  make(map[string]int, len(passes)),
		matchIdx: make(map[int64]int, len(matches)),
		margin:   margin,
	}

	for i, m := range matches {
		if _, dup := ds.matchIdx[m.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateMatch, m.ID)
		}
		ds.matchIdx[m.ID] = i
	}

	for i := range passes {
		p := &passes[i]
		if _, dup := ds.passIdx[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePass, p.ID)
		}
		ds.passIdx[p.ID] = i

		m, ok := ds.MatchByID(p.MatchID)
		if !ok {
			return nil, fmt.Errorf("%w: pass %s match %d", ErrUnknownMatch, p.ID, p.MatchID)
		}
		if !m.Involves(p.TeamID) {
			return nil, fmt.Errorf("%w: pass %s team %d match %d", ErrUnknownTeam, p.ID, p.TeamID, p.MatchID)
		}
		if !p.Location.Finite() || !p.Location.Within(margin) {
			return nil, fmt.Errorf("%w: pass %s origin %v off pitch", ErrMalformedRow, p.ID, p.Location)
		}
		if p.HasEnd && (!p.EndLocation.Finite() || !p.EndLocation.Within(margin)) {
			return nil, fmt.Errorf("%w: pass %s destination %v off pitch", ErrMalformedRow, p.ID, p.EndLocation)
		}
		if math.IsNaN(p.XT) || math.IsInf(p.XT, 0) {
			return nil, fmt.Errorf("%w: pass %s xT is not finite", ErrMalformedRow, p.ID)
		}
		if p.MatchName == "" {
			p.MatchName = m.Name
		}
		if p.HoverText == "" {
			p.HoverText = HoverText(*p)
		}
	}
	return ds, nil
}

// HoverText formats the marker hover label of a pass.
func HoverText(p model.PassEvent) string {
	xt := p.XTText
	if xt == "" {
		xt = strconv.FormatFloat(p.XT, 'f', 3, 64)
	}
	return fmt.Sprintf("xT = %s<br>%s<br>%s", xt, p.MatchName, p.Timestamp)
}

// row gives named access to one CSV record.
type row struct {
	cols map[string]int
	rec  []string
	line int
}

func (r row) has(col string) bool {
	_, ok := r.cols[col]
	return ok
}

func (r row) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) id(col string) (int64, error) {
	v, err := parseID(r.str(col))
	if err != nil {
		return 0, r.errorf(col, err)
	}
	return v, nil
}

func (r row) errorf(col string, err error) error {
	return fmt.Errorf("%w: line %d column %s: %w", ErrMalformedRow, r.line, col, err)
}

// point reads a coordinate pair from split columns or, failing that, from a
// combined "[x, y]" column. present is false when the cells are empty.
func (r row) point(xCol, yCol, combined string) (model.Point, bool, error) {
	if r.has(xCol) && r.has(yCol) {
		x, xok, err := parseOptionalFloat(r.str(xCol))
		if err != nil {
			return model.Point{}, false, r.errorf(xCol, err)
		}
		y, yok, err := parseOptionalFloat(r.str(yCol))
		if err != nil {
			return model.Point{}, false, r.errorf(yCol, err)
		}
		if xok != yok {
			return model.Point{}, false, r.errorf(xCol, errors.New("only one coordinate present"))
		}
		return model.Point{X: x, Y: y}, xok, nil
	}
	if r.has(combined) {
		p, ok, err := parseCombinedPoint(r.str(combined))
		if err != nil {
			return model.Point{}, false, r.errorf(combined, err)
		}
		return p, ok, nil
	}
	return model.Point{}, false, nil
}

func parsePass(r row) (model.PassEvent, error) {
	var (
		p   model.PassEvent
		err error
	)
	p.ID = r.str(colID)
	if p.ID == "" {
		return p, r.errorf(colID, errors.New("empty id"))
	}
	if p.PlayerID, err = r.id(colPlayerID); err != nil {
		return p, err
	}
	if p.PositionID, err = r.id(colPositionID); err != nil {
		return p, err
	}
	if p.TeamID, err = r.id(colTeamID); err != nil {
		return p, err
	}
	if p.MatchID, err = r.id(colMatchID); err != nil {
		return p, err
	}
	p.PlayerName = r.str(colPlayerName)
	p.PositionName = r.str(colPosition)
	p.MatchName = r.str(colMatchName)
	p.Timestamp = r.str(colTimestamp)
	p.XTText = r.str(colXTText)
	p.FreezeFrameRaw = r.str(colFreezeFrame)

	xt, ok, err := parseOptionalFloat(r.str(colXT))
	if err != nil {
		return p, r.errorf(colXT, err)
	}
	if !ok {
		return p, r.errorf(colXT, errors.New("missing value"))
	}
	p.XT = xt

	loc, ok, err := r.point(colLocationX, colLocationY, colLocation)
	if err != nil {
		return p, err
	}
	if !ok {
		return p, r.errorf(colLocation, errors.New("missing origin"))
	}
	p.Location = loc

	if p.EndLocation, p.HasEnd, err = r.point(colEndLocationX, colEndLocationY, colEndLocation); err != nil {
		return p, err
	}
	return p, nil
}

func parseMatch(r row) (model.Match, error) {
	var (
		m   model.Match
		err error
	)
	if m.ID, err = r.id(colMatchID); err != nil {
		return m, err
	}
	if m.HomeTeamID, err = r.id(colHomeTeamID); err != nil {
		return m, err
	}
	if m.AwayTeamID, err = r.id(colAwayTeamID); err != nil {
		return m, err
	}
	m.Name = r.str(colMatchName)
	m.HomeTeamName = r.str(colHomeTeamName)
	m.AwayTeamName = r.str(colAwayTeamName)
	return m, nil
}

// readTable opens path, checks the header carries every required column and
// decodes each record with parse.
func readTable[T any](path string, required []string, parse func(row) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return decodeTable(f, required, parse)
}

func decodeTable[T any](src io.Reader, required []string, parse func(row) (T, error)) ([]T, error) {
	cr := csv.NewReader(src)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue // pandas index column
		}
		cols[h] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var out []T
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		v, err := parse(row{cols: cols, rec: rec, line: line})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseID accepts integral values, including the "123.0" form pandas writes
// for integer columns that once held NaN.
func parseID(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("missing value")
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int64(f), nil
}

// parseOptionalFloat treats an empty cell or NaN as absent.
func parseOptionalFloat(s string) (float64, bool, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func parseCombinedPoint(s string) (model.Point, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return model.Point{}, false, nil
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	parts := strings.Split(inner, ",")
	if len(parts) < 2 {
		return model.Point{}, false, fmt.Errorf("want [x, y], got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Point{}, false, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
	if err != nil {
		return model.Point{}, false, err
	}
	return model.Point{X: x, Y: y}, true, nil
}
