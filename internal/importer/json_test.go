package importer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/bmdir/internal/exporter"
	"github.com/nikbrunner/bmdir/internal/importer"
	"github.com/nikbrunner/bmdir/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		contentType string
		data        string
		want        error
	}{
		{name: "wrong extension", file: "bookmarks.txt", data: `{"bookmarks":[]}`, want: importer.ErrFormat},
		{name: "malformed json", file: "bookmarks.json", data: `{"bookmarks": [`, want: importer.ErrParse},
		{name: "missing bookmarks", file: "bookmarks.json", data: `{"version":"1.0"}`, want: importer.ErrSchema},
		{name: "bookmarks not an array", file: "bookmarks.json", data: `{"bookmarks":{"name":"A"}}`, want: importer.ErrSchema},
		{name: "bookmarks null", file: "bookmarks.json", data: `{"bookmarks":null}`, want: importer.ErrSchema},
		{name: "top level array", file: "bookmarks.json", data: `[]`, want: importer.ErrSchema},
		{name: "single record missing url", file: "bookmarks.json", data: `{"bookmarks":[{"name":"A"}]}`, want: importer.ErrEmptyResult},
		{name: "empty array", file: "bookmarks.json", data: `{"bookmarks":[]}`, want: importer.ErrEmptyResult},
		{name: "content type without extension", file: "upload", contentType: "application/json; charset=utf-8", data: `{"bookmarks":[]}`, want: importer.ErrEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := importer.ParseJSON(tt.file, tt.contentType, []byte(tt.data))
			assert.Check(t, result == nil)
			assert.Check(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseJSON_ParseErrorKeepsDecoderMessage(t *testing.T) {
	_, err := importer.ParseJSON("b.json", "", []byte(`{"bookmarks": nope}`))

	assert.Check(t, errors.Is(err, importer.ErrParse))
	assert.Check(t, is.ErrorContains(err, "invalid character"))
}

func TestParseJSON_NormalizesRecords(t *testing.T) {
	data := `{
  "version": "1.0",
  "exportDate": "2025-01-01T00:00:00.000Z",
  "bookmarks": [
    {"id": "keep-me", "name": "Claude", "url": "https://claude.ai", "description": "Assistant",
     "commentary": "note", "tags": ["AI", "ai", "chat"], "favicon": "https://claude.ai/favicon.ico",
     "createdAt": "2024-05-05T05:05:05.000Z", "favorite": true},
    {"name": "Bare", "url": "https://bare.example.com/path", "tags": "not-a-list"},
    {"name": "", "url": "https://dropped.com"},
    {"name": "No scheme", "url": "dropped.com"},
    "not an object",
    {"name": 42, "url": "https://numeric-name.com", "id": 7}
  ]
}`

	result, err := importer.ParseJSON("backup.JSON", "", []byte(data))
	assert.NilError(t, err)

	assert.Check(t, is.DeepEqual(result.Metadata, importer.Metadata{
		OriginalCount: 6,
		ValidCount:    3,
		ExportDate:    "2025-01-01T00:00:00.000Z",
		Version:       "1.0",
	}))
	assert.Check(t, is.Equal(result.Metadata.Dropped(), 3))
	assert.Assert(t, is.Len(result.Bookmarks, 3))

	full := result.Bookmarks[0]
	assert.Check(t, is.DeepEqual(full, model.Bookmark{
		ID:          "keep-me",
		Name:        "Claude",
		URL:         "https://claude.ai",
		Description: "Assistant",
		Commentary:  "note",
		Tags:        []string{"ai", "chat"},
		Favorite:    true,
		Favicon:     "https://claude.ai/favicon.ico",
		CreatedAt:   "2024-05-05T05:05:05.000Z",
	}))

	bare := result.Bookmarks[1]
	assert.Check(t, bare.ID != "")
	assert.Check(t, is.Equal(bare.Description, ""))
	assert.Check(t, is.Equal(bare.Commentary, ""))
	assert.Check(t, is.DeepEqual(bare.Tags, []string{}))
	assert.Check(t, is.Equal(bare.Favicon, "https://www.google.com/s2/favicons?domain=bare.example.com&sz=32"))
	assert.Check(t, bare.CreatedAt != "")
	assert.Check(t, !bare.Favorite)

	numeric := result.Bookmarks[2]
	assert.Check(t, is.Equal(numeric.Name, "42"))
	assert.Check(t, is.Equal(numeric.ID, "7"))
}

func TestParseJSON_EnvelopeFieldsOptional(t *testing.T) {
	result, err := importer.ParseJSON("b.json", "", []byte(`{"bookmarks":[{"name":"A","url":"https://a.com"}]}`))
	assert.NilError(t, err)

	assert.Check(t, is.Equal(result.Metadata.Version, ""))
	assert.Check(t, is.Equal(result.Metadata.ExportDate, ""))
}

func TestRoundTrip_ExportImportMerge(t *testing.T) {
	store := model.NewStore()
	for _, p := range []model.NewBookmarkParams{
		{Name: "GitHub", URL: "https://github.com", Tags: []string{"dev"}},
		{Name: "Go", URL: "https://go.dev", Description: "The Go language"},
		{Name: "Claude", URL: "https://claude.ai", Commentary: "ask first"},
	} {
		_, err := store.Add(p)
		assert.NilError(t, err)
	}

	data, err := exporter.MarshalJSON(store.Bookmarks, time.Now())
	assert.NilError(t, err)

	parsed, err := importer.ParseJSON("export.json", "application/json", data)
	assert.NilError(t, err)

	merged := model.Merge(nil, parsed.Bookmarks, model.StrategySkip)

	urls := func(bookmarks []model.Bookmark) map[string]bool {
		set := make(map[string]bool)
		for _, b := range bookmarks {
			set[b.URL] = true
		}
		return set
	}
	assert.Check(t, is.DeepEqual(urls(merged.Bookmarks), urls(store.Bookmarks)))
	assert.Check(t, is.Equal(parsed.Metadata.Version, exporter.FormatVersion))

	// Merging the export back into the original skips everything.
	again := model.Merge(store.Bookmarks, parsed.Bookmarks, model.StrategySkip)
	assert.Check(t, is.DeepEqual(again.Stats, model.MergeStats{Skipped: 3, Total: 3}))
}

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		assert.NilError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	jsonPath := write("b.json", `{"bookmarks":[{"name":"A","url":"https://a.com"}]}`)
	htmlPath := write("b.html", `<DL><p><DT><A HREF="https://b.com">B</A></DL>`)
	yamlPath := write("b.yaml", "- Dev:\n    - C:\n        - href: https://c.com\n")
	txtPath := write("b.txt", "whatever")

	for path, name := range map[string]string{jsonPath: "A", htmlPath: "B", yamlPath: "C"} {
		result, err := importer.ImportFile(path)
		assert.NilError(t, err, path)
		assert.Check(t, is.Equal(result.Bookmarks[0].Name, name))
	}

	_, err := importer.ImportFile(txtPath)
	assert.Check(t, errors.Is(err, importer.ErrFormat), "got %v", err)

	_, err = importer.ImportFile(filepath.Join(dir, "missing.json"))
	assert.Check(t, errors.Is(err, importer.ErrRead), "got %v", err)
}
