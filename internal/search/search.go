// Package search ranks installed mods against a free-text query.
//
// Search results are the one context where the enabled/disabled
// partition does not apply: matches come back in relevance order, not
// display order.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/wardrobe-mods/wardrobe/internal/models"
)

// Match pairs a mod with its relevance rank. Lower rank is a closer
// match.
type Match struct {
	Mod  models.Mod
	Rank int
}

// Mods returns the mods matching query, best match first. Name matches
// outrank description matches, which outrank author matches. An empty
// query matches nothing; use the store's collection directly for the
// unfiltered view.
func Mods(mods []models.Mod, query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var matches []Match
	for _, m := range mods {
		rank, ok := rankMod(m, query)
		if !ok {
			continue
		}
		matches = append(matches, Match{Mod: m, Rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Rank < matches[j].Rank
	})
	return matches
}

// Field weights keep name hits ahead of weaker fields even when the
// raw fuzzy distance is similar.
const (
	weightName        = 0
	weightDescription = 1000
	weightAuthor      = 2000
)

func rankMod(m models.Mod, query string) (int, bool) {
	best := -1

	if r := fuzzy.RankMatchNormalizedFold(query, m.Name); r >= 0 {
		best = r + weightName
	}
	if r := fuzzy.RankMatchNormalizedFold(query, m.Description); r >= 0 {
		if best < 0 || r+weightDescription < best {
			best = r + weightDescription
		}
	}
	for _, author := range m.Authors {
		if r := fuzzy.RankMatchNormalizedFold(query, author); r >= 0 {
			if best < 0 || r+weightAuthor < best {
				best = r + weightAuthor
			}
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}
