package view

// FollowRename returns the selected tag after oldTag was renamed to newTag.
func FollowRename(selected, oldTag, newTag string) string {
	if selected == oldTag {
		return newTag
	}
	return selected
}

// FollowDelete resets the selection when the selected tag was deleted.
func FollowDelete(selected, deleted string) string {
	if selected == deleted {
		return AllTag
	}
	return selected
}

// FollowMerge moves the selection to target when it pointed at a merged tag.
func FollowMerge(selected string, merged []string, target string) string {
	for _, t := range merged {
		if t == selected {
			return target
		}
	}
	return selected
}
