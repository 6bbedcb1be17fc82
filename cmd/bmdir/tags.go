package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/nikbrunner/bmdir/internal/view"
	"github.com/urfave/cli/v3"
)

type tagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
	Color string `json:"color,omitempty"`
}

// Tags prints the tag universe with counts, led by the all and favorites totals.
func (r *Runner) Tags(ctx context.Context, cmd *cli.Command) error {
	store, err := r.load()
	if err != nil {
		return err
	}

	engine := view.NewEngine(store)
	counts := engine.TagCounts()

	rows := []tagCount{
		{Tag: view.AllTag, Count: counts.All},
		{Tag: view.FavoritesKey, Count: counts.Favorites},
	}
	for _, tag := range engine.AllTags() {
		rows = append(rows, tagCount{Tag: tag, Count: counts.Get(tag), Color: view.TagColor(tag)})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	for _, row := range rows {
		label := nameStyle.Render(row.Tag)
		if row.Color != "" {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color)).Render("#" + row.Tag)
		}
		r.writePlain("%s (%d)\n", label, row.Count)
	}
	return nil
}

// RenameTag renames a tag on every bookmark carrying it.
func (r *Runner) RenameTag(ctx context.Context, cmd *cli.Command) error {
	oldTag, newTag := cmd.StringArg("old"), cmd.StringArg("new")
	if oldTag == "" || newTag == "" {
		return fmt.Errorf("%w: tag rename <old> <new>", shared.ErrMissingArgument)
	}

	var n int
	err := r.mutate("tag rename", func(store *model.Store) (bool, error) {
		n = store.RenameTag(oldTag, newTag)
		return n > 0, nil
	})
	if err != nil {
		return err
	}

	return r.writePlain("Renamed %s to %s on %d bookmarks\n", oldTag, newTag, n)
}

// DeleteTag strips a tag from every bookmark.
func (r *Runner) DeleteTag(ctx context.Context, cmd *cli.Command) error {
	tag := cmd.StringArg("tag")
	if tag == "" {
		return fmt.Errorf("%w: tag delete <tag>", shared.ErrMissingArgument)
	}

	var n int
	err := r.mutate("tag delete", func(store *model.Store) (bool, error) {
		n = store.DeleteTag(tag)
		return n > 0, nil
	})
	if err != nil {
		return err
	}

	return r.writePlain("Removed %s from %d bookmarks\n", tag, n)
}

// MergeTags folds the listed tags into a target tag.
func (r *Runner) MergeTags(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: tag merge <target> <tag>...", shared.ErrMissingArgument)
	}
	target, tags := args[0], args[1:]

	var n int
	err := r.mutate("tag merge", func(store *model.Store) (bool, error) {
		n = store.MergeTags(tags, target)
		return n > 0, nil
	})
	if err != nil {
		return err
	}

	return r.writePlain("Merged %d tags into %s on %d bookmarks\n", len(tags), target, n)
}
