package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/search"
	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/nikbrunner/bmdir/internal/storage"
	"github.com/urfave/cli/v3"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func newTestRunner(t *testing.T, opts RunnerOpts) (*Runner, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	if opts.Storage == nil {
		opts.Storage = storage.NewJSONStorage(filepath.Join(t.TempDir(), "bookmarks.json"))
	}
	opts.Output = out
	opts.Logger = shared.NewLogger(io.Discard)
	return NewRunner(opts), out
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "bmdir", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"bmdir"}, args...))
}

// runApp goes through the root flags and hooks the binary uses.
func runApp(r *Runner, args ...string) error {
	return newApp(r).Run(context.Background(), append([]string{"bmdir"}, args...))
}

func mustRun(t *testing.T, r *Runner, args ...string) {
	t.Helper()
	if err := run(r, args...); err != nil {
		t.Fatalf("bmdir %s: %v", strings.Join(args, " "), err)
	}
}

func loadStore(t *testing.T, r *Runner) *model.Store {
	t.Helper()
	store, err := r.storage.Load()
	assert.NilError(t, err)
	return store
}

func seed(t *testing.T, r *Runner) {
	t.Helper()
	mustRun(t, r, "add", "--tag", "dev", "--fav", "GitHub", "https://github.com")
	mustRun(t, r, "add", "--tag", "dev", "--tag", "go", "--desc", "The Go language", "Go", "https://go.dev")
	mustRun(t, r, "add", "--note", "ask first", "Claude", "https://claude.ai")
}

func names(store *model.Store) []string {
	result := []string{}
	for _, b := range store.Bookmarks {
		result = append(result, b.Name)
	}
	return result
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if !runner.allow() {
				t.Error("expected writes to be allowed by default")
			}
		})

		t.Run("allow follows read_only", func(t *testing.T) {
			config := storage.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			config.ReadOnly = true
			if runner.allow() {
				t.Error("expected writes to be refused once read_only is set")
			}
		})
	})
}

func TestAddAndList(t *testing.T) {
	r, out := newTestRunner(t, RunnerOpts{})
	seed(t, r)

	store := loadStore(t, r)
	assert.Check(t, is.DeepEqual(names(store), []string{"GitHub", "Go", "Claude"}))
	assert.Check(t, store.Bookmarks[0].Favorite)
	assert.Check(t, is.DeepEqual(store.Bookmarks[1].Tags, []string{"dev", "go"}))
	assert.Check(t, is.Equal(store.Bookmarks[2].Commentary, "ask first"))

	out.Reset()
	mustRun(t, r, "list", "--tag", "dev", "--json")

	var listed []model.Bookmark
	assert.NilError(t, json.Unmarshal(out.Bytes(), &listed))
	assert.Check(t, is.Len(listed, 2))

	out.Reset()
	mustRun(t, r, "list", "--search", "language")
	assert.Check(t, is.Contains(out.String(), "2. Go"))
	assert.Check(t, !strings.Contains(out.String(), "GitHub"))
}

func TestAddInvalid(t *testing.T) {
	r, _ := newTestRunner(t, RunnerOpts{})

	err := run(r, "add", "Broken", "not-a-url")
	assert.Check(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)
	assert.Check(t, is.Len(loadStore(t, r).Bookmarks, 0))
}

func TestEditFavoriteMoveRemove(t *testing.T) {
	r, _ := newTestRunner(t, RunnerOpts{})
	seed(t, r)
	ids := func() []string {
		var result []string
		for _, b := range loadStore(t, r).Bookmarks {
			result = append(result, b.ID)
		}
		return result
	}
	first := ids()[0]

	mustRun(t, r, "edit", "--name", "GitHub Home", "--url", "https://github.com/home", first)
	b, ok := loadStore(t, r).GetBookmarkByID(first)
	assert.Assert(t, ok)
	assert.Check(t, is.Equal(b.Name, "GitHub Home"))
	assert.Check(t, is.Equal(b.Favicon, "https://www.google.com/s2/favicons?domain=github.com&sz=32"))
	assert.Check(t, is.DeepEqual(b.Tags, []string{"dev"}))

	mustRun(t, r, "fav", first)
	b, _ = loadStore(t, r).GetBookmarkByID(first)
	assert.Check(t, !b.Favorite)

	mustRun(t, r, "move", "1", "3")
	assert.Check(t, is.DeepEqual(names(loadStore(t, r)), []string{"Go", "Claude", "GitHub Home"}))

	err := run(r, "move", "1", "9")
	assert.Check(t, errors.Is(err, shared.ErrInvalidArgument), "got %v", err)

	mustRun(t, r, "rm", first)
	assert.Check(t, is.DeepEqual(names(loadStore(t, r)), []string{"Go", "Claude"}))

	err = run(r, "rm", first)
	assert.Check(t, errors.Is(err, model.ErrNotFound), "got %v", err)

	err = run(r, "edit", "--name", "x", "missing-id")
	assert.Check(t, errors.Is(err, model.ErrNotFound), "got %v", err)
}

func TestTagCommands(t *testing.T) {
	r, out := newTestRunner(t, RunnerOpts{})
	seed(t, r)

	mustRun(t, r, "tag", "rename", "dev", "code")
	mustRun(t, r, "tag", "merge", "lang", "go", "missing")
	mustRun(t, r, "tag", "delete", "code")

	store := loadStore(t, r)
	assert.Check(t, is.DeepEqual(store.Bookmarks[0].Tags, []string{}))
	assert.Check(t, is.DeepEqual(store.Bookmarks[1].Tags, []string{"lang"}))

	out.Reset()
	mustRun(t, r, "tags", "--json")

	var rows []tagCount
	assert.NilError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Check(t, is.DeepEqual(rows[:3], []tagCount{
		{Tag: "all", Count: 3},
		{Tag: "favorites", Count: 1},
		{Tag: "lang", Count: 1, Color: rows[2].Color},
	}))

	err := run(r, "tag", "merge", "only-target")
	assert.Check(t, errors.Is(err, shared.ErrMissingArgument), "got %v", err)
}

func TestReadOnly(t *testing.T) {
	config := storage.DefaultConfig()
	config.ReadOnly = true
	r, out := newTestRunner(t, RunnerOpts{Config: config})

	for _, args := range [][]string{
		{"add", "A", "https://a.com"},
		{"rm", "x"},
		{"tag", "delete", "dev"},
	} {
		err := run(r, args...)
		assert.Check(t, errors.Is(err, shared.ErrReadOnly), "%v: got %v", args, err)
	}

	// Reads still work.
	mustRun(t, r, "list")
	assert.Check(t, is.Contains(out.String(), "No bookmarks"))
}

func TestImportExport(t *testing.T) {
	r, out := newTestRunner(t, RunnerOpts{
		Now: func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) },
	})
	seed(t, r)
	dir := t.TempDir()

	mustRun(t, r, "export", filepath.Join(dir, "backup.json"))
	mustRun(t, r, "export", "--format", "html", filepath.Join(dir, "backup.html"))
	assert.Check(t, is.Contains(out.String(), "Exported 3 bookmarks"))

	html, err := os.ReadFile(filepath.Join(dir, "backup.html"))
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(html), `HREF="https://go.dev"`))

	// Importing into a fresh directory restores every URL.
	fresh, freshOut := newTestRunner(t, RunnerOpts{})
	mustRun(t, fresh, "import", "--json", filepath.Join(dir, "backup.json"))

	var stats model.MergeStats
	assert.NilError(t, json.Unmarshal(freshOut.Bytes(), &stats))
	assert.Check(t, is.DeepEqual(stats, model.MergeStats{Added: 3, Total: 3}))
	assert.Check(t, is.DeepEqual(names(loadStore(t, fresh)), []string{"GitHub", "Go", "Claude"}))

	// Importing the same file again is a no-op under skip.
	mustRun(t, fresh, "import", filepath.Join(dir, "backup.html"))
	assert.Check(t, is.Len(loadStore(t, fresh).Bookmarks, 3))

	err = run(fresh, "import", "--strategy", "overwrite", filepath.Join(dir, "backup.json"))
	assert.Check(t, errors.Is(err, model.ErrInvalidInput), "got %v", err)

	err = run(r, "export", "--format", "csv")
	assert.Check(t, errors.Is(err, shared.ErrInvalidFlag), "got %v", err)
}

func TestExportDefaultFilename(t *testing.T) {
	config := storage.DefaultConfig()
	config.Export.Dir = t.TempDir()
	r, _ := newTestRunner(t, RunnerOpts{
		Config: config,
		Now:    func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) },
	})
	seed(t, r)

	mustRun(t, r, "export")

	_, err := os.Stat(filepath.Join(config.Export.Dir, "bookmarks-export-2025-03-04.json"))
	assert.NilError(t, err)
}

func TestSearch(t *testing.T) {
	var opened []string
	var picked bool
	r, out := newTestRunner(t, RunnerOpts{
		Open: func(url string) error {
			opened = append(opened, url)
			return nil
		},
		Pick: func(results []search.SearchResult, query string) (*model.Bookmark, error) {
			picked = true
			return results[len(results)-1].Bookmark, nil
		},
	})
	seed(t, r)
	mustRun(t, r, "add", "GitLab", "https://gitlab.com")

	mustRun(t, r, "search", "claude")
	assert.Check(t, !picked)
	assert.Check(t, is.DeepEqual(opened, []string{"https://claude.ai"}))

	mustRun(t, r, "search", "git")
	assert.Check(t, picked)
	assert.Check(t, is.Len(opened, 2))

	picked = false
	mustRun(t, r, "search", "--favorites", "git")
	assert.Check(t, !picked)
	assert.Check(t, is.Equal(opened[len(opened)-1], "https://github.com"))

	out.Reset()
	mustRun(t, r, "search", "--print", "--tag", "go", "g")
	assert.Check(t, is.Equal(out.String(), "Go\thttps://go.dev\n"))

	out.Reset()
	mustRun(t, r, "search", "zzzz")
	assert.Check(t, is.Contains(out.String(), "No bookmarks found"))

	err := run(r, "search")
	assert.Check(t, errors.Is(err, shared.ErrMissingArgument), "got %v", err)
}

func TestCull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/dead") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r, out := newTestRunner(t, RunnerOpts{HTTPClient: srv.Client()})
	mustRun(t, r, "add", "Alive", srv.URL+"/ok")
	mustRun(t, r, "add", "Gone", srv.URL+"/dead")

	out.Reset()
	mustRun(t, r, "cull", "--json", "--remove")

	var report []cullReport
	assert.NilError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Assert(t, is.Len(report, 1))
	assert.Check(t, is.Equal(report[0].Name, "Gone"))
	assert.Check(t, is.Equal(report[0].Status, "dead"))
	assert.Check(t, is.DeepEqual(names(loadStore(t, r)), []string{"Alive"}))
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	r, out := newTestRunner(t, RunnerOpts{ConfigPath: path})

	mustRun(t, r, "config", "init")
	_, err := os.Stat(path)
	assert.NilError(t, err)

	out.Reset()
	mustRun(t, r, "config", "init")
	assert.Check(t, is.Contains(out.String(), "already exists"))

	out.Reset()
	mustRun(t, r, "config", "show")
	assert.Check(t, is.Contains(out.String(), `backend = "json"`))
	assert.Check(t, is.Contains(out.String(), `timeout = "10s"`))
}

func TestConfigInitOnFreshInstall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bmdir", "config.toml")
	r, out := newTestRunner(t, RunnerOpts{})

	assert.NilError(t, runApp(r, "--config", path, "config", "init"))
	assert.Check(t, is.Contains(out.String(), "Wrote "+path))
	assert.Check(t, !strings.Contains(out.String(), "already exists"))
	_, err := os.Stat(path)
	assert.NilError(t, err)

	r, out = newTestRunner(t, RunnerOpts{})
	assert.NilError(t, runApp(r, "--config", path, "config", "init"))
	assert.Check(t, is.Contains(out.String(), "already exists"))
}

func TestConfigureWritesDefaultsAndAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	r, _ := newTestRunner(t, RunnerOpts{})

	assert.NilError(t, runApp(r, "--config", path, "--read-only", "list"))
	_, err := os.Stat(path)
	assert.NilError(t, err)
	assert.Check(t, r.config.ReadOnly)

	err = runApp(r, "--config", path, "--read-only", "add", "Go", "https://go.dev")
	assert.Check(t, errors.Is(err, shared.ErrReadOnly))
}
