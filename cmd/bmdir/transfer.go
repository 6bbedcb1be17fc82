package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/bmdir/internal/exporter"
	"github.com/nikbrunner/bmdir/internal/importer"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/urfave/cli/v3"
)

// Import parses a bookmark file and merges it into the directory.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file to import", shared.ErrMissingArgument)
	}

	name := cmd.String("strategy")
	if name == "" {
		name = r.config.Import.Strategy
	}
	strategy, err := model.ParseStrategy(name)
	if err != nil {
		return err
	}

	result, err := importer.ImportFile(path)
	if err != nil {
		return err
	}
	if dropped := result.Metadata.Dropped(); dropped > 0 {
		r.logger.Warn("dropped invalid records", "file", path, "dropped", dropped, "valid", result.Metadata.ValidCount)
	}
	r.logger.Info("parsed import file", "file", path, "version", result.Metadata.Version, "exportDate", result.Metadata.ExportDate)

	var stats model.MergeStats
	err = r.mutate("import", func(store *model.Store) (bool, error) {
		stats = store.ImportMerge(result.Bookmarks, strategy)
		return stats.Added > 0 || stats.Replaced > 0, nil
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}
	return r.writePlain("Imported %d of %d bookmarks (%d replaced, %d skipped)\n",
		stats.Added, stats.Total, stats.Replaced, stats.Skipped)
}

// Export writes the directory as a JSON envelope or Netscape HTML.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	if format != "json" && format != "html" {
		return fmt.Errorf("%w: --format must be json or html, got %q", shared.ErrInvalidFlag, format)
	}

	store, err := r.load()
	if err != nil {
		return err
	}

	dir, filename := filepath.Split(cmd.StringArg("path"))
	if dir == "" {
		if dir = r.config.Export.Dir; dir == "" {
			if dir, err = exporter.DefaultExportDir(); err != nil {
				return err
			}
		}
	}
	if filename == "" {
		filename = exporter.DefaultFilename(r.now())
		if format == "html" {
			filename = strings.TrimSuffix(filename, ".json") + ".html"
		}
	}
	saver := exporter.DirSaver{Dir: dir}

	if format == "html" {
		data := exporter.ExportHTML(store.Bookmarks)
		if err := saver.Save(filename, []byte(data)); err != nil {
			return fmt.Errorf("%w: %s: %w", exporter.ErrSave, filename, err)
		}
		return r.writePlain("Exported %d bookmarks to %s\n", store.Len(), filepath.Join(dir, filename))
	}

	result, err := exporter.Export(store.Bookmarks, saver, filename)
	if err != nil {
		return err
	}
	return r.writePlain("Exported %d bookmarks to %s\n", result.Count, filepath.Join(dir, result.Filename))
}
