package catalog

import (
	"github.com/okian/passmap/internal/domain/model"
	"github.com/okian/passmap/internal/domain/types"
)

// dedupe collects (label, value) pairs in first-seen order, dropping repeated values.
type dedupe struct {
	seen map[int64]struct{}
	out  []model.Option
}

func (d *dedupe) add(label string, value int64) {
	if d.seen == nil {
		d.seen = make(map[int64]struct{})
	}
	if _, dup := d.seen[value]; dup {
		return
	}
	d.seen[value] = struct{}{}
	d.out = append(d.out, model.Option{Label: label, Value: value})
}

// Players lists every passer.
func Players(passes []model.PassEvent) Catalog {
	var d dedupe
	for _, p := range passes {
		d.add(p.PlayerName, p.PlayerID)
	}
	return Catalog{options: d.out}
}

// Positions lists every position a pass was played from.
func Positions(passes []model.PassEvent) Catalog {
	var d dedupe
	for _, p := range passes {
		d.add(p.PositionName, p.PositionID)
	}
	return Catalog{options: d.out}
}

// Teams lists the home then away side of every match.
func Teams(matches []model.Match) Catalog {
	var d dedupe
	for _, m := range matches {
		d.add(m.HomeTeamName, m.HomeTeamID)
		d.add(m.AwayTeamName, m.AwayTeamID)
	}
	return Catalog{options: d.out}
}

// Matches lists every match.
func Matches(matches []model.Match) Catalog {
	var d dedupe
	for _, m := range matches {
		d.add(m.Name, m.ID)
	}
	return Catalog{options: d.out}
}

// AggregatedPlayers lists one entry per aggregate row, in aggregate order.
// A player with several positions appears once per position.
func AggregatedPlayers(aggs []model.PlayerAggregate) Catalog {
	out := make([]model.Option, len(aggs))
	for i, a := range aggs {
		out[i] = model.Option{Label: a.Label, Value: a.PlayerID}
	}
	return Catalog{options: out}
}

// Set holds the full catalogs, built once at startup.
type Set struct {
	Player    Catalog `json:"player"`
	Position  Catalog `json:"position"`
	Team      Catalog `json:"team"`
	Match     Catalog `json:"match"`
	AggPlayer Catalog `json:"agg_player"`
}

// NewSet builds every catalog from the loaded tables.
func NewSet(passes []model.PassEvent, matches []model.Match, aggs []model.PlayerAggregate) Set {
	return Set{
		Player:    Players(passes),
		Position:  Positions(passes),
		Team:      Teams(matches),
		Match:     Matches(matches),
		AggPlayer: AggregatedPlayers(aggs),
	}
}

// For returns the full catalog backing dim. Both position dimensions share
// the position catalog.
func (s Set) For(dim types.Dimension) Catalog {
	switch dim {
	case types.DimPlayer:
		return s.Player
	case types.DimPosition, types.DimAggPosition:
		return s.Position
	case types.DimTeam:
		return s.Team
	case types.DimMatch:
		return s.Match
	case types.DimAggPlayer:
		return s.AggPlayer
	}
	return Catalog{}
}
