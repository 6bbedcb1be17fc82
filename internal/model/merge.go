package model

import (
	"fmt"
	"strings"
)

// Strategy decides what happens to an imported bookmark that collides with
// an existing one.
type Strategy string

const (
	StrategySkip    Strategy = "skip"
	StrategyReplace Strategy = "replace"
	StrategyRename  Strategy = "rename"
)

// ParseStrategy validates a strategy name. Empty input means skip.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategySkip:
		return StrategySkip, nil
	case StrategyReplace:
		return StrategyReplace, nil
	case StrategyRename:
		return StrategyRename, nil
	}
	return "", fmt.Errorf("%w: unknown duplicate strategy %q", ErrInvalidInput, s)
}

// MergeStats summarizes one merge.
type MergeStats struct {
	Added    int `json:"added"`
	Skipped  int `json:"skipped"`
	Replaced int `json:"replaced"`
	Total    int `json:"total"`
}

// MergeResult is the merged, ordered collection plus statistics.
type MergeResult struct {
	Bookmarks []Bookmark
	Stats     MergeStats
}

// Merge reconciles incoming against existing.
//
// URLs are the dedup key (case-insensitive). On a URL match, replace
// overwrites the existing record in place and anything else skips it.
// rename only resolves name collisions, by appending " (N)" with the
// smallest free N. Existing records keep their positions; new records are
// appended in incoming order. Neither input slice is modified.
func Merge(existing, incoming []Bookmark, strategy Strategy) MergeResult {
	merged := make([]Bookmark, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	urls := make(map[string]int, len(existing)+len(incoming))
	names := make(map[string]bool, len(existing)+len(incoming))
	ids := make(map[string]bool, len(existing)+len(incoming))
	for i, b := range merged {
		key := strings.ToLower(b.URL)
		if _, ok := urls[key]; !ok {
			urls[key] = i
		}
		names[strings.ToLower(b.Name)] = true
		ids[b.ID] = true
	}

	stats := MergeStats{Total: len(incoming)}
	appendNew := func(b Bookmark) {
		if b.ID == "" || ids[b.ID] {
			b.ID = GenerateUUID()
		}
		ids[b.ID] = true
		urls[strings.ToLower(b.URL)] = len(merged)
		names[strings.ToLower(b.Name)] = true
		merged = append(merged, b)
		stats.Added++
	}

	for _, b := range incoming {
		if idx, ok := urls[strings.ToLower(b.URL)]; ok {
			if strategy != StrategyReplace {
				stats.Skipped++
				continue
			}
			// Identity stays with the record already in the collection. The
			// export envelope carries no favorite flag, so an incoming false
			// cannot unstar an existing favorite.
			b.ID = merged[idx].ID
			b.CreatedAt = merged[idx].CreatedAt
			b.Favorite = b.Favorite || merged[idx].Favorite
			merged[idx] = b
			names[strings.ToLower(b.Name)] = true
			stats.Replaced++
			continue
		}

		if strategy == StrategyRename && names[strings.ToLower(b.Name)] {
			b.Name = uniqueName(b.Name, names)
		}
		appendNew(b)
	}

	return MergeResult{Bookmarks: merged, Stats: stats}
}

// ImportMerge merges incoming into the store using strategy.
func (s *Store) ImportMerge(incoming []Bookmark, strategy Strategy) MergeStats {
	result := Merge(s.Bookmarks, incoming, strategy)
	s.Bookmarks = result.Bookmarks
	if result.Stats.Added > 0 || result.Stats.Replaced > 0 {
		s.touch()
	}
	return result.Stats
}

func uniqueName(name string, taken map[string]bool) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}
