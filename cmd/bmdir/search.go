package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/picker"
	"github.com/nikbrunner/bmdir/internal/search"
	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/nikbrunner/bmdir/internal/view"
	"github.com/urfave/cli/v3"
)

// Search fuzzy-matches bookmark names, optionally within a tag or the
// favorites. A single hit opens directly, several go through the picker.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	store, err := r.load()
	if err != nil {
		return err
	}

	candidates := view.NewEngine(store).Filtered(view.Filter{
		SelectedTag:   strings.ToLower(cmd.String("tag")),
		FavoritesOnly: cmd.Bool("favorites"),
	})
	results := search.Find(candidates, query)
	if len(results) == 0 {
		return r.writePlain("No bookmarks found for '%s'\n", query)
	}

	if cmd.Bool("print") {
		for _, result := range results {
			r.writePlain("%s\t%s\n", result.Bookmark.Name, result.Bookmark.URL)
		}
		return nil
	}

	var selected *model.Bookmark
	if len(results) == 1 {
		selected = results[0].Bookmark
	} else if selected, err = r.pick(results, query); err != nil {
		return err
	}
	if selected == nil {
		return nil
	}

	r.writePlain("Opening: %s\n", selected.Name)
	r.logger.Debug("opening bookmark", "url", selected.URL)
	return r.open(selected.URL)
}

// runPicker shows the Bubble Tea picker on the terminal.
func runPicker(results []search.SearchResult, query string) (*model.Bookmark, error) {
	program := tea.NewProgram(picker.New(results, query))
	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run picker: %w", err)
	}

	final := finalModel.(picker.Picker)
	if final.Action() != picker.ActionOpen {
		return nil, nil
	}
	return final.SelectedBookmark(), nil
}
