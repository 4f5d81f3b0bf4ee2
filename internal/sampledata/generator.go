package sampledata

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/pkg/logger"
)

type position struct {
	id   int64
	name string
	x, y float64 // typical pitch area
}

// A 4-3-3 in StatsBomb position ids.
var lineup = [playersPerTeam]position{
	{1, "Goalkeeper", 8, 40},
	{2, "Right Back", 30, 70},
	{3, "Right Center Back", 22, 52},
	{5, "Left Center Back", 22, 28},
	{6, "Left Back", 30, 10},
	{10, "Center Defensive Midfield", 45, 40},
	{13, "Right Center Midfield", 60, 55},
	{15, "Left Center Midfield", 60, 25},
	{17, "Right Wing", 85, 70},
	{21, "Left Wing", 85, 10},
	{23, "Center Forward", 100, 40},
}

var (
	teamNames = []string{
		"Arsenal", "Chelsea", "Liverpool", "Everton", "Brighton", "Fulham",
		"Brentford", "Burnley", "Wolves", "Leeds", "Luton", "Spurs",
	}
	firstNames = []string{"Alex", "Ben", "Chris", "Dan", "Eli", "Finn", "Gus", "Hugo", "Ivan", "Jon", "Kai", "Leo"}
	lastNames  = []string{"Adams", "Brooks", "Carter", "Dixon", "Evans", "Foster", "Grant", "Hayes", "Irwin", "James", "Kerr", "Lowe"}
)

// Dataset is one generated league.
type Dataset struct {
	Passes  []model.PassEvent
	Matches []model.Match
}

type team struct {
	id      int64
	name    string
	players [playersPerTeam]string
}

// Generate builds a league of cfg.Teams teams playing cfg.Matches matches.
// Output depends only on cfg, not on cfg.Workers.
func Generate(ctx context.Context, cfg Config) (*Dataset, error) {
	if cfg.Teams < 2 || cfg.Teams > len(teamNames) {
		return nil, fmt.Errorf("%w: teams must be between 2 and %d", ErrInvalidConfig, len(teamNames))
	}
	if cfg.Matches < 1 || cfg.PassesPerPlayer < 1 {
		return nil, fmt.Errorf("%w: matches and passes per player must be positive", ErrInvalidConfig)
	}
	logger.Get().Info(ctx, "generating sample league",
		logger.Int("teams", cfg.Teams),
		logger.Int("matches", cfg.Matches),
		logger.Int64("seed", cfg.Seed))

	teams := makeTeams(cfg)
	matches := make([]model.Match, cfg.Matches)
	for i := range matches {
		home := teams[i%len(teams)]
		away := teams[(i+1+i/len(teams))%len(teams)]
		if away.id == home.id {
			away = teams[(i+1)%len(teams)]
		}
		matches[i] = model.Match{
			ID:           int64(matchIDBase + i),
			Name:         home.name + " - " + away.name,
			HomeTeamID:   home.id,
			HomeTeamName: home.name,
			AwayTeamID:   away.id,
			AwayTeamName: away.name,
		}
	}

	byTeam := make(map[int64]team, len(teams))
	for _, t := range teams {
		byTeam[t.id] = t
	}

	type matchResult struct {
		index  int
		passes []model.PassEvent
		err    error
	}

	resultChan := make(chan matchResult, len(matches))
	jobs := make(chan int)

	workerCount := minInt(maxInt(cfg.Workers, 1), len(matches))
	for w := 0; w < workerCount; w++ {
		go func() {
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					resultChan <- matchResult{index: i, err: err}
					continue
				}
				m := matches[i]
				rng := rand.New(rand.NewSource(cfg.Seed*1_000_003 + int64(i)))
				resultChan <- matchResult{
					index:  i,
					passes: generateMatch(rng, m, byTeam[m.HomeTeamID], byTeam[m.AwayTeamID], cfg.PassesPerPlayer),
				}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range matches {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	perMatch := make([][]model.PassEvent, len(matches))
	for range matches {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case res := <-resultChan:
			if res.err != nil {
				return nil, fmt.Errorf("failed to generate match %d: %w", res.index, res.err)
			}
			perMatch[res.index] = res.passes
		}
	}

	ds := &Dataset{Matches: matches}
	for _, ps := range perMatch {
		ds.Passes = append(ds.Passes, ps...)
	}
	logger.Get().Info(ctx, "generated sample league",
		logger.Int("matches", len(ds.Matches)),
		logger.Int("passes", len(ds.Passes)))
	return ds, nil
}

func makeTeams(cfg Config) []team {
	rng := rand.New(rand.NewSource(cfg.Seed))
	teams := make([]team, cfg.Teams)
	for i := range teams {
		t := team{id: int64(i + 1), name: teamNames[i]}
		for slot := range t.players {
			t.players[slot] = firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		}
		teams[i] = t
	}
	return teams
}

func playerID(teamID int64, slot int) int64 {
	return teamID*100 + int64(slot)
}

// slotPosition lets the wingers swap flanks in odd matches, so some players
// have passes at more than one position.
func slotPosition(slot int, matchIndex int64) position {
	if matchIndex%2 == 1 {
		switch slot {
		case 8:
			return lineup[9]
		case 9:
			return lineup[8]
		}
	}
	return lineup[slot]
}

func generateMatch(rng *rand.Rand, m model.Match, home, away team, perPlayer int) []model.PassEvent {
	var passes []model.PassEvent
	for _, side := range [...]team{home, away} {
		attacking := side.id == home.id
		for slot, name := range side.players {
			pos := slotPosition(slot, m.ID-matchIDBase)
			n := perPlayer/2 + rng.Intn(perPlayer+1)
			for k := 0; k < n; k++ {
				passes = append(passes, generatePass(rng, m, side, slot, name, pos, attacking, len(passes)))
			}
		}
	}
	sort.SliceStable(passes, func(i, j int) bool { return passes[i].Timestamp < passes[j].Timestamp })
	return passes
}

func generatePass(rng *rand.Rand, m model.Match, side team, slot int, name string, pos position, home bool, seq int) model.PassEvent {
	origin := jitter(rng, pos.x, pos.y, 10)
	if !home {
		origin = model.Point{X: model.PitchLength - origin.X, Y: model.PitchWidth - origin.Y}
	}
	id, _ := uuid.NewRandomFromReader(rng)

	p := model.PassEvent{
		ID:           id.String(),
		PlayerID:     playerID(side.id, slot),
		PlayerName:   name,
		PositionID:   pos.id,
		PositionName: pos.name,
		TeamID:       side.id,
		MatchID:      m.ID,
		MatchName:    m.Name,
		XT:           clamp(rng.NormFloat64()*xtSpread, xtMin, xtMax),
		Timestamp:    clock(rng.Intn(matchSeconds), rng.Intn(1000)),
		Location:     origin,
	}
	p.XTText = fmt.Sprintf("%.2f", p.XT)

	if seq%noEndEvery != noEndEvery-1 {
		p.EndLocation = jitter(rng, origin.X+rng.Float64()*25-5, origin.Y, 15)
		p.HasEnd = true
	}
	if seq%noFrameEvery != noFrameEvery-1 {
		p.FreezeFrameRaw = freezeFrame(rng, origin)
	}
	return p
}

// freezeFrame renders the snapshot the way the upstream export writes it:
// a Python list of dicts.
func freezeFrame(rng *rand.Rand, actor model.Point) string {
	var b strings.Builder
	b.WriteString("[")
	writeEntry := func(first bool, teammate, isActor bool, p model.Point) {
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "{'teammate': %s, 'actor': %s, 'keeper': False, 'location': [%.1f, %.1f]}",
			pyBool(teammate), pyBool(isActor), p.X, p.Y)
	}
	writeEntry(true, true, true, actor)
	for i := 0; i < frameTeammates; i++ {
		writeEntry(false, true, false, jitter(rng, actor.X, actor.Y, 25))
	}
	for i := 0; i < frameOpponents; i++ {
		writeEntry(false, false, false, jitter(rng, actor.X+8, actor.Y, 20))
	}
	b.WriteString("]")
	return b.String()
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func jitter(rng *rand.Rand, x, y, spread float64) model.Point {
	return model.Point{
		X: round1(clamp(x+(rng.Float64()*2-1)*spread, 0, model.PitchLength)),
		Y: round1(clamp(y+(rng.Float64()*2-1)*spread, 0, model.PitchWidth)),
	}
}

func clock(sec, ms int) string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", sec/3600, (sec/60)%60, sec%60, ms)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
