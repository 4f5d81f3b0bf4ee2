package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/okian/passmap/internal/domain/model"
)

// DefaultSearchLimit caps Search results when the caller passes no limit.
const DefaultSearchLimit = 10

// Search returns entries whose label contains query, case-insensitively,
// followed by near misses ranked by edit distance to the closest label word.
// An empty query returns the head of the catalog.
func (c Catalog) Search(query string, limit int) []model.Option {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slicesHead(c.options, limit)
	}

	type near struct {
		opt  model.Option
		dist int
	}
	var (
		exact []model.Option
		fuzzy []near
	)
	maxDist := max(1, len([]rune(q))/3)
	for _, o := range c.options {
		label := strings.ToLower(o.Label)
		if strings.Contains(label, q) {
			exact = append(exact, o)
			continue
		}
		best := levenshtein.ComputeDistance(q, label)
		for _, w := range strings.Fields(label) {
			best = min(best, levenshtein.ComputeDistance(q, w))
		}
		if best <= maxDist {
			fuzzy = append(fuzzy, near{opt: o, dist: best})
		}
	}
	sort.SliceStable(fuzzy, func(i, j int) bool { return fuzzy[i].dist < fuzzy[j].dist })

	out := exact
	for _, n := range fuzzy {
		out = append(out, n.opt)
	}
	return slicesHead(out, limit)
}

func slicesHead(opts []model.Option, n int) []model.Option {
	if len(opts) > n {
		opts = opts[:n]
	}
	out := make([]model.Option, len(opts))
	copy(out, opts)
	return out
}
