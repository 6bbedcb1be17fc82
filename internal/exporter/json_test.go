package exporter_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/bmdir/internal/exporter"
	"github.com/nikbrunner/bmdir/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var fixedNow = time.Date(2025, 3, 9, 18, 4, 5, 123000000, time.UTC)

func sampleBookmarks() []model.Bookmark {
	return []model.Bookmark{
		{
			ID:          "b1",
			Name:        "Claude",
			URL:         "https://claude.ai",
			Description: "Assistant",
			Commentary:  "writing help",
			Tags:        []string{"ai", "chat"},
			Favorite:    true,
			Favicon:     "https://claude.ai/favicon.ico",
			CreatedAt:   "2025-01-15T10:30:00.000Z",
		},
		{
			ID:   "b2",
			Name: "Bare",
			URL:  "https://bare.example.com",
		},
	}
}

func TestBuildEnvelope(t *testing.T) {
	env := exporter.BuildEnvelope(sampleBookmarks(), fixedNow)

	assert.Check(t, is.Equal(env.Version, "1.0"))
	assert.Check(t, is.Equal(env.ExportDate, "2025-03-09T18:04:05.123Z"))
	assert.Check(t, is.Equal(env.BookmarksCount, 2))
	assert.Assert(t, is.Len(env.Bookmarks, 2))

	assert.Check(t, is.DeepEqual(env.Bookmarks[0], exporter.Record{
		ID:          "b1",
		Name:        "Claude",
		URL:         "https://claude.ai",
		Description: "Assistant",
		Commentary:  "writing help",
		Tags:        []string{"ai", "chat"},
		Favicon:     "https://claude.ai/favicon.ico",
		CreatedAt:   "2025-01-15T10:30:00.000Z",
	}))

	// Missing values get defaults.
	assert.Check(t, is.DeepEqual(env.Bookmarks[1].Tags, []string{}))
	assert.Check(t, is.Equal(env.Bookmarks[1].CreatedAt, "2025-03-09T18:04:05.123Z"))
}

func TestMarshalJSON_OnlyExportedFields(t *testing.T) {
	data, err := exporter.MarshalJSON(sampleBookmarks(), fixedNow)
	assert.NilError(t, err)

	var raw struct {
		Version        string           `json:"version"`
		BookmarksCount int              `json:"bookmarksCount"`
		Bookmarks      []map[string]any `json:"bookmarks"`
	}
	assert.NilError(t, json.Unmarshal(data, &raw))

	assert.Check(t, is.Equal(raw.Version, "1.0"))
	assert.Check(t, is.Equal(raw.BookmarksCount, 2))

	keys := make([]string, 0)
	for k := range raw.Bookmarks[0] {
		keys = append(keys, k)
	}
	assert.Check(t, is.Len(keys, 8))
	_, hasFavorite := raw.Bookmarks[0]["favorite"]
	assert.Check(t, !hasFavorite, "favorite must not leak into the export")

	// Bare bookmark exports an empty tag array rather than null.
	assert.Check(t, is.DeepEqual(raw.Bookmarks[1]["tags"], []any{}))
}

func TestMarshalJSON_Indented(t *testing.T) {
	data, err := exporter.MarshalJSON(nil, fixedNow)
	assert.NilError(t, err)

	assert.Check(t, is.Contains(string(data), "\n  \"version\": \"1.0\""))
	assert.Check(t, is.Contains(string(data), "\"bookmarks\": []"))
}

func TestExport_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	result, err := exporter.Export(sampleBookmarks(), exporter.DirSaver{Dir: dir}, "")
	assert.NilError(t, err)

	assert.Check(t, is.Equal(result.Count, 2))
	assert.Check(t, is.Equal(result.Filename, exporter.DefaultFilename(time.Now())))

	data, err := os.ReadFile(filepath.Join(dir, result.Filename))
	assert.NilError(t, err)

	var env exporter.Envelope
	assert.NilError(t, json.Unmarshal(data, &env))
	assert.Check(t, is.Equal(env.BookmarksCount, 2))
	assert.Check(t, is.Equal(env.Bookmarks[0].Name, "Claude"))
}

type failingSaver struct{}

func (failingSaver) Save(string, []byte) error { return errors.New("disk full") }

func TestExport_SaveFailure(t *testing.T) {
	result, err := exporter.Export(sampleBookmarks(), failingSaver{}, "out.json")

	assert.Check(t, result == nil)
	assert.Check(t, errors.Is(err, exporter.ErrSave), "got %v", err)
	assert.Check(t, is.ErrorContains(err, "disk full"))
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, exporter.DefaultFilename(fixedNow), "bookmarks-export-2025-03-09.json")
}
