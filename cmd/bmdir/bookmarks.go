package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/nikbrunner/bmdir/internal/view"
	"github.com/urfave/cli/v3"
)

var (
	nameStyle = lipgloss.NewStyle().Bold(true)
	idStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	urlStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true)
	favStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Add creates a bookmark at the end of the directory.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	params := model.NewBookmarkParams{
		Name:        cmd.StringArg("name"),
		URL:         cmd.StringArg("url"),
		Description: cmd.String("desc"),
		Commentary:  cmd.String("note"),
		Tags:        cmd.StringSlice("tag"),
		Favorite:    cmd.Bool("fav"),
	}

	var added model.Bookmark
	err := r.mutate("add", func(store *model.Store) (bool, error) {
		if store.HasBookmarkURL(params.URL) {
			r.logger.Warn("URL already bookmarked", "url", params.URL)
		}
		b, err := store.Add(params)
		if err != nil {
			return false, err
		}
		added = b
		return true, nil
	})
	if err != nil {
		return err
	}

	return r.writePlain("Added %s (%s)\n", added.Name, added.ID)
}

// Edit applies the given flags to one bookmark.
func (r *Runner) Edit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: bookmark id", shared.ErrMissingArgument)
	}

	var patch model.BookmarkPatch
	if cmd.IsSet("name") {
		patch.Name = ptr(cmd.String("name"))
	}
	if cmd.IsSet("url") {
		patch.URL = ptr(cmd.String("url"))
	}
	if cmd.IsSet("desc") {
		patch.Description = ptr(cmd.String("desc"))
	}
	if cmd.IsSet("note") {
		patch.Commentary = ptr(cmd.String("note"))
	}
	if cmd.IsSet("tag") {
		patch.Tags = ptr(cmd.StringSlice("tag"))
	}
	if cmd.IsSet("fav") {
		patch.Favorite = ptr(cmd.Bool("fav"))
	}

	var updated model.Bookmark
	err := r.mutate("edit", func(store *model.Store) (bool, error) {
		b, err := store.Update(id, patch)
		if err != nil {
			return false, err
		}
		updated = b
		return true, nil
	})
	if err != nil {
		return err
	}

	return r.writePlain("Updated %s\n", updated.Name)
}

// Remove deletes one bookmark.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: bookmark id", shared.ErrMissingArgument)
	}

	err := r.mutate("rm", func(store *model.Store) (bool, error) {
		if !store.Remove(id) {
			return false, fmt.Errorf("%w: bookmark %s", model.ErrNotFound, id)
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	return r.writePlain("Removed %s\n", id)
}

// ToggleFavorite flips the favorite flag of one bookmark.
func (r *Runner) ToggleFavorite(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: bookmark id", shared.ErrMissingArgument)
	}

	var favorite bool
	err := r.mutate("fav", func(store *model.Store) (bool, error) {
		v, err := store.ToggleFavorite(id)
		if err != nil {
			return false, err
		}
		favorite = v
		return true, nil
	})
	if err != nil {
		return err
	}

	if favorite {
		return r.writePlain("%s is now a favorite\n", id)
	}
	return r.writePlain("%s is no longer a favorite\n", id)
}

// Move reorders the directory. Positions are 1-based as printed by list.
func (r *Runner) Move(ctx context.Context, cmd *cli.Command) error {
	from, err := position(cmd.StringArg("from"))
	if err != nil {
		return err
	}
	to, err := position(cmd.StringArg("to"))
	if err != nil {
		return err
	}

	return r.mutate("move", func(store *model.Store) (bool, error) {
		if from >= store.Len() || to >= store.Len() {
			return false, fmt.Errorf("%w: position out of range 1..%d", shared.ErrInvalidArgument, store.Len())
		}
		return store.Reorder(from, to), nil
	})
}

func position(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: position %q", shared.ErrInvalidArgument, raw)
	}
	return n - 1, nil
}

// List prints the filtered directory.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	store, err := r.load()
	if err != nil {
		return err
	}

	engine := view.NewEngine(store)
	bookmarks := engine.Filtered(view.Filter{
		SearchTerm:    cmd.String("search"),
		SelectedTag:   strings.ToLower(cmd.String("tag")),
		FavoritesOnly: cmd.Bool("favorites"),
	})

	if cmd.Bool("json") {
		return r.writeJSON(bookmarks, true)
	}

	if len(bookmarks) == 0 {
		return r.writePlain("No bookmarks\n")
	}

	// Positions refer to the full directory so they can be passed to move.
	positions := make(map[string]int, store.Len())
	for i, b := range store.Bookmarks {
		positions[b.ID] = i + 1
	}

	for _, b := range bookmarks {
		star := ""
		if b.Favorite {
			star = favStyle.Render(" ★")
		}
		r.writePlain("%3d. %s%s %s\n", positions[b.ID], nameStyle.Render(b.Name), star, idStyle.Render(b.ID))
		r.writePlain("     %s\n", urlStyle.Render(b.URL))
		if b.Description != "" {
			r.writePlain("     %s\n", descStyle.Render(b.Description))
		}
		if len(b.Tags) > 0 {
			r.writePlain("     %s\n", renderTags(b.Tags))
		}
	}
	return nil
}

func renderTags(tags []string) string {
	rendered := make([]string, len(tags))
	for i, tag := range tags {
		rendered[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(view.TagColor(tag))).Render("#" + tag)
	}
	return strings.Join(rendered, " ")
}

func ptr[T any](v T) *T {
	return &v
}
