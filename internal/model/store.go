package model

import (
	"fmt"
	"strings"
)

// Store holds the ordered bookmark collection.
//
// Mutate it only through its methods: each successful mutation bumps the
// revision that derived views use to detect staleness.
type Store struct {
	Bookmarks []Bookmark `json:"bookmarks"`

	rev uint64
}

// NewStore creates an empty Store with initialized slices.
func NewStore() *Store {
	return &Store{
		Bookmarks: []Bookmark{},
	}
}

// Revision returns a counter that changes on every mutation.
func (s *Store) Revision() uint64 {
	return s.rev
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.Bookmarks)
}

func (s *Store) touch() {
	s.rev++
}

// Add creates a bookmark from params and appends it to the end of the order.
func (s *Store) Add(params NewBookmarkParams) (Bookmark, error) {
	b, err := NewBookmark(params)
	if err != nil {
		return Bookmark{}, err
	}
	for s.indexOf(b.ID) >= 0 {
		b.ID = GenerateUUID()
	}

	s.Bookmarks = append(s.Bookmarks, b)
	s.touch()
	return b, nil
}

// Update merges patch into the bookmark with the given ID.
// ID and CreatedAt are never changed.
func (s *Store) Update(id string, patch BookmarkPatch) (Bookmark, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Bookmark{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated, err := patch.apply(s.Bookmarks[idx])
	if err != nil {
		return Bookmark{}, err
	}

	s.Bookmarks[idx] = updated
	s.touch()
	return updated, nil
}

// Remove deletes the bookmark with the given ID.
// Returns false if no such bookmark exists.
func (s *Store) Remove(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	s.Bookmarks = append(s.Bookmarks[:idx], s.Bookmarks[idx+1:]...)
	s.touch()
	return true
}

// Reorder moves the bookmark at from to position to, shifting the ones in
// between. Out-of-range indexes leave the order unchanged.
func (s *Store) Reorder(from, to int) bool {
	n := len(s.Bookmarks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return false
	}

	moved := s.Bookmarks[from]
	if from < to {
		copy(s.Bookmarks[from:to], s.Bookmarks[from+1:to+1])
	} else {
		copy(s.Bookmarks[to+1:from+1], s.Bookmarks[to:from])
	}
	s.Bookmarks[to] = moved
	s.touch()
	return true
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.Bookmarks[idx].Favorite = !s.Bookmarks[idx].Favorite
	s.touch()
	return s.Bookmarks[idx].Favorite, nil
}

// GetBookmarkByID returns a copy of the bookmark with the given ID.
// Changes go through Update so derived views see them.
func (s *Store) GetBookmarkByID(id string) (Bookmark, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Bookmark{}, false
	}
	b := s.Bookmarks[idx]
	b.Tags = append([]string{}, b.Tags...)
	return b, true
}

// Repair brings records read from disk back in line with what Add and
// Update would produce. Records with no name or no absolute URL are dropped;
// tags are normalized, and empty or repeated IDs get fresh ones.
// Returns the number of records dropped.
func (s *Store) Repair() int {
	kept := make([]Bookmark, 0, len(s.Bookmarks))
	ids := make(map[string]bool, len(s.Bookmarks))
	for _, b := range s.Bookmarks {
		b.Name = strings.TrimSpace(b.Name)
		b.URL = strings.TrimSpace(b.URL)
		if validate(b.Name, b.URL) != nil {
			continue
		}
		b.Tags = NormalizeTags(b.Tags)
		for b.ID == "" || ids[b.ID] {
			b.ID = GenerateUUID()
		}
		ids[b.ID] = true
		if b.Favicon == "" {
			b.Favicon = FaviconURL(b.URL)
		}
		kept = append(kept, b)
	}

	dropped := len(s.Bookmarks) - len(kept)
	s.Bookmarks = kept
	s.touch()
	return dropped
}

// HasBookmarkURL checks if a bookmark with the given URL exists (case-insensitive).
func (s *Store) HasBookmarkURL(rawURL string) bool {
	for _, b := range s.Bookmarks {
		if strings.EqualFold(b.URL, rawURL) {
			return true
		}
	}
	return false
}

func (s *Store) indexOf(id string) int {
	for i := range s.Bookmarks {
		if s.Bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}
