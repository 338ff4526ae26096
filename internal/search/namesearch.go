package search

import "github.com/antigravity/raptor-engine/internal/repository"

// NameMatch pairs a stop or area with how well it matched a query, for
// SearchStops/SearchAreas ranking.
type NameMatch struct {
	Index uint32
	Name  string
	Score int
}

// SearchAreas ranks every area by normalized-name match against query
// and returns up to count hits, best first. This is a reference
// implementation only: a production fuzzy search (real edit-distance
// ranking, tokenization, transliteration tables) is an external
// collaborator per the engine's scope.
func SearchAreas(repo *repository.Repository, query string, count int) []NameMatch {
	folded := repository.NormalizeName(query)
	matches := make([]NameMatch, 0, count)
	for _, area := range repo.Areas {
		score, ok := matchScore(area.NormalizedName, folded)
		if !ok {
			continue
		}
		matches = appendRanked(matches, NameMatch{Index: area.Index, Name: area.Name, Score: score}, count)
	}
	return matches
}

// SearchStops is SearchAreas's counterpart over stops.
func SearchStops(repo *repository.Repository, query string, count int) []NameMatch {
	folded := repository.NormalizeName(query)
	matches := make([]NameMatch, 0, count)
	for _, stop := range repo.Stops {
		score, ok := matchScore(stop.NormalizedName, folded)
		if !ok {
			continue
		}
		matches = appendRanked(matches, NameMatch{Index: stop.Index, Name: stop.Name, Score: score}, count)
	}
	return matches
}

// matchScore reports whether candidate contains query as a substring
// and, if so, a score favoring a match nearer the start of the string,
// with bonuses for a match at the very start and for one spanning the
// whole string.
func matchScore(candidate, query string) (int, bool) {
	if query == "" {
		return 0, false
	}
	idx := indexOf(candidate, query)
	if idx < 0 {
		return 0, false
	}
	score := 100 - idx
	if idx == 0 {
		score += 50
	}
	if len(candidate) == len(query) {
		score += 50
	}
	return score, true
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}

// appendRanked inserts a match into a descending-score slice capped at
// count entries.
func appendRanked(matches []NameMatch, m NameMatch, count int) []NameMatch {
	insertAt := len(matches)
	for i, existing := range matches {
		if m.Score > existing.Score {
			insertAt = i
			break
		}
	}
	matches = append(matches, NameMatch{})
	copy(matches[insertAt+1:], matches[insertAt:])
	matches[insertAt] = m
	if len(matches) > count {
		matches = matches[:count]
	}
	return matches
}
