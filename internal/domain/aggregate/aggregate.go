// Package aggregate summarises passes per player and position.
package aggregate

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/passmap/internal/domain/model"
)

type groupKey struct {
	playerID   int64
	positionID int64
	playerName string
}

// Build groups passes by (player id, position id, player name) and returns
// one row per group sorted by descending xT sum. Ties keep first-seen order.
func Build(passes []model.PassEvent) []model.PlayerAggregate {
	index := make(map[groupKey]int)
	var (
		keys   []groupKey
		values [][]float64
	)
	for _, p := range passes {
		k := groupKey{playerID: p.PlayerID, positionID: p.PositionID, playerName: p.PlayerName}
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			values = append(values, nil)
		}
		values[i] = append(values[i], p.XT)
	}

	out := make([]model.PlayerAggregate, len(keys))
	for i, k := range keys {
		sum := floats.Sum(values[i])
		mean := stat.Mean(values[i], nil)
		out[i] = model.PlayerAggregate{
			PlayerID:   k.playerID,
			PositionID: k.positionID,
			PlayerName: k.playerName,
			Count:      len(values[i]),
			SumXT:      sum,
			MeanXT:     mean,
			Label:      Label(k.playerName, sum, mean),
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].SumXT > out[b].SumXT })
	return out
}

// Label formats the dropdown text of an aggregate row.
func Label(name string, sum, mean float64) string {
	return fmt.Sprintf("%s sum_xt = %.2f mu_xt = %.2f", name, sum, mean)
}
