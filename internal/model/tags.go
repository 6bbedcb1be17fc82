package model

import "strings"

// NormalizeTags lowercases and trims tags, dropping empties and duplicates.
// First occurrence order is kept. Never returns nil.
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// RenameTag replaces oldTag with newTag on every bookmark carrying it.
// A bookmark that already has newTag ends up with a single copy.
// Returns the number of bookmarks changed.
func (s *Store) RenameTag(oldTag, newTag string) int {
	oldTag, newTag = normalizeTag(oldTag), normalizeTag(newTag)
	if oldTag == "" || newTag == "" || oldTag == newTag {
		return 0
	}

	return s.rewriteTags(func(tags []string) ([]string, bool) {
		if !contains(tags, oldTag) {
			return tags, false
		}
		renamed := make([]string, 0, len(tags))
		for _, t := range tags {
			if t == oldTag {
				t = newTag
			}
			renamed = append(renamed, t)
		}
		return NormalizeTags(renamed), true
	})
}

// DeleteTag removes tag from every bookmark. Bookmarks themselves are kept.
func (s *Store) DeleteTag(tag string) int {
	tag = normalizeTag(tag)
	if tag == "" {
		return 0
	}

	return s.rewriteTags(func(tags []string) ([]string, bool) {
		if !contains(tags, tag) {
			return tags, false
		}
		kept := make([]string, 0, len(tags)-1)
		for _, t := range tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		return kept, true
	})
}

// MergeTags removes every tag in tagsToMerge and adds targetTag to the
// bookmarks that had at least one of them. targetTag may be one of
// tagsToMerge.
func (s *Store) MergeTags(tagsToMerge []string, targetTag string) int {
	targetTag = normalizeTag(targetTag)
	merge := make(map[string]bool, len(tagsToMerge))
	for _, t := range tagsToMerge {
		if t = normalizeTag(t); t != "" {
			merge[t] = true
		}
	}
	if targetTag == "" || len(merge) == 0 {
		return 0
	}

	return s.rewriteTags(func(tags []string) ([]string, bool) {
		kept := make([]string, 0, len(tags))
		removed := false
		for _, t := range tags {
			if merge[t] {
				removed = true
				continue
			}
			kept = append(kept, t)
		}
		if !removed {
			return tags, false
		}
		if !contains(kept, targetTag) {
			kept = append(kept, targetTag)
		}
		return kept, true
	})
}

// rewriteTags computes every bookmark's new tag set before assigning any,
// so the store is never observed half rewritten.
func (s *Store) rewriteTags(fn func([]string) ([]string, bool)) int {
	next := make(map[int][]string)
	for i := range s.Bookmarks {
		if tags, changed := fn(s.Bookmarks[i].Tags); changed {
			next[i] = tags
		}
	}
	if len(next) == 0 {
		return 0
	}

	for i, tags := range next {
		s.Bookmarks[i].Tags = tags
	}
	s.touch()
	return len(next)
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
