// Package view derives read-only projections (tag counts, tag universe,
// filtered lists) from a model.Store.
package view

import (
	"sort"
	"strings"

	"github.com/nikbrunner/bmdir/internal/model"
)

// AllTag selects every bookmark regardless of tags.
const AllTag = "all"

// FavoritesKey is the Counts key for the favorite count.
const FavoritesKey = "favorites"

// Counts holds per-tag frequencies plus the two synthetic totals.
type Counts struct {
	All       int
	Favorites int
	ByTag     map[string]int
}

// Get resolves "all", "favorites" or a tag name to its count.
func (c Counts) Get(key string) int {
	switch key {
	case AllTag:
		return c.All
	case FavoritesKey:
		return c.Favorites
	}
	return c.ByTag[key]
}

// Filter holds the user-controlled list parameters.
type Filter struct {
	SearchTerm    string
	SelectedTag   string // "" or "all" disables tag filtering
	FavoritesOnly bool
}

// Engine computes derived views over a store.
// Results are memoized per store revision and recomputed from scratch
// whenever the store changes.
type Engine struct {
	store *model.Store

	rev      uint64
	primed   bool
	counts   Counts
	tags     []string
	filter   Filter
	filtered []model.Bookmark
	hasList  bool
}

// NewEngine creates an Engine reading from store.
func NewEngine(store *model.Store) *Engine {
	return &Engine{store: store}
}

// refresh drops memoized values if the store moved on.
func (e *Engine) refresh() {
	if e.primed && e.rev == e.store.Revision() {
		return
	}

	e.rev = e.store.Revision()
	e.primed = true
	e.counts = computeCounts(e.store.Bookmarks)
	e.tags = computeTags(e.counts)
	e.filtered = nil
	e.hasList = false
}

// TagCounts returns the record total, favorite total and per-tag counts.
func (e *Engine) TagCounts() Counts {
	e.refresh()
	byTag := make(map[string]int, len(e.counts.ByTag))
	for k, v := range e.counts.ByTag {
		byTag[k] = v
	}
	return Counts{All: e.counts.All, Favorites: e.counts.Favorites, ByTag: byTag}
}

// AllTags returns every distinct tag, sorted ascending.
func (e *Engine) AllTags() []string {
	e.refresh()
	return append([]string(nil), e.tags...)
}

// Filtered returns the bookmarks matching f, in store order.
func (e *Engine) Filtered(f Filter) []model.Bookmark {
	e.refresh()
	if !e.hasList || e.filter != f {
		e.filter = f
		e.filtered = FilterBookmarks(e.store.Bookmarks, f)
		e.hasList = true
	}
	return append([]model.Bookmark(nil), e.filtered...)
}

// FilterBookmarks applies f to bookmarks. All predicates are ANDed.
func FilterBookmarks(bookmarks []model.Bookmark, f Filter) []model.Bookmark {
	term := strings.ToLower(f.SearchTerm)
	result := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if !matchesSearch(b, term) {
			continue
		}
		if f.SelectedTag != "" && f.SelectedTag != AllTag && !b.HasTag(f.SelectedTag) {
			continue
		}
		if f.FavoritesOnly && !b.Favorite {
			continue
		}
		result = append(result, b)
	}
	return result
}

func matchesSearch(b model.Bookmark, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.Name), term) ||
		strings.Contains(strings.ToLower(b.Description), term) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func computeCounts(bookmarks []model.Bookmark) Counts {
	c := Counts{All: len(bookmarks), ByTag: make(map[string]int)}
	for _, b := range bookmarks {
		if b.Favorite {
			c.Favorites++
		}
		for _, t := range b.Tags {
			c.ByTag[t]++
		}
	}
	return c
}

func computeTags(c Counts) []string {
	tags := make([]string, 0, len(c.ByTag))
	for t := range c.ByTag {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
