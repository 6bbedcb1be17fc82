// Package search ranks bookmarks against a typed query by fuzzy matching
// their names.
package search

import (
	"strings"

	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult is one ranked hit. MatchedIndexes are byte offsets into
// Bookmark.Name, for highlighting.
type SearchResult struct {
	Bookmark       *model.Bookmark
	MatchedIndexes []int
	Score          int
}

// nameSource exposes bookmark names to the fuzzy matcher.
type nameSource []model.Bookmark

func (s nameSource) String(i int) string { return s[i].Name }
func (s nameSource) Len() int            { return len(s) }

// Find fuzzy-matches query against the names in bookmarks. Results point
// into the given slice and come back best score first; equal scores keep
// slice order. A blank query matches nothing.
func Find(bookmarks []model.Bookmark, query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" || len(bookmarks) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, nameSource(bookmarks))

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Bookmark:       &bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return results
}
