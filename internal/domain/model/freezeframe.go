package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FreezeFrameEntry is one tracked actor at the moment of an event.
type FreezeFrameEntry struct {
	Location Point
	Teammate bool
	Actor    bool
	Keeper   bool
}

type rawFreezeFrameEntry struct {
	Location []float64 `json:"location"`
	Teammate bool      `json:"teammate"`
	Actor    bool      `json:"actor"`
	Keeper   bool      `json:"keeper"`
}

// pythonLiteral rewrites the repr() form written by the upstream export into JSON.
var pythonLiteral = strings.NewReplacer(
	"'", `"`,
	"True", "true",
	"False", "false",
	"None", "null",
)

// ParseFreezeFrame decodes a freeze frame in JSON or Python-literal form.
func ParseFreezeFrame(raw string) ([]FreezeFrameEntry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, ErrNoFreezeFrame
	}

	var entries []rawFreezeFrameEntry
	if err := json.Unmarshal([]byte(pythonLiteral.Replace(raw)), &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFreezeFrame, err)
	}

	out := make([]FreezeFrameEntry, 0, len(entries))
	for i, e := range entries {
		if len(e.Location) < 2 {
			return nil, fmt.Errorf("%w: entry %d has %d coordinates", ErrMalformedFreezeFrame, i, len(e.Location))
		}
		p := Point{X: e.Location[0], Y: e.Location[len(e.Location)-1]}
		if !p.Finite() {
			return nil, fmt.Errorf("%w: entry %d is not finite", ErrMalformedFreezeFrame, i)
		}
		out = append(out, FreezeFrameEntry{Location: p, Teammate: e.Teammate, Actor: e.Actor, Keeper: e.Keeper})
	}
	return out, nil
}

// SplitFreezeFrame drops the actor and partitions the rest into teammates
// and opponents of the actor.
func SplitFreezeFrame(entries []FreezeFrameEntry) (teammates, opponents []Point) {
	for _, e := range entries {
		if e.Actor {
			continue
		}
		if e.Teammate {
			teammates = append(teammates, e.Location)
		} else {
			opponents = append(opponents, e.Location)
		}
	}
	return teammates, opponents
}
