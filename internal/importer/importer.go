// Package importer turns external bookmark files into validated,
// normalized model.Bookmark values ready to be merged into a store.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/bmdir/internal/model"
)

var (
	ErrFormat      = errors.New("unsupported file format")
	ErrParse       = errors.New("invalid file")
	ErrSchema      = errors.New("invalid file format: missing bookmarks array")
	ErrEmptyResult = errors.New("no valid bookmarks found in the file")
	ErrRead        = errors.New("error reading file")
)

// Metadata describes the source file of an import.
type Metadata struct {
	OriginalCount int    `json:"originalCount"`
	ValidCount    int    `json:"validCount"`
	ExportDate    string `json:"exportDate"`
	Version       string `json:"version"`
}

// Dropped returns how many source records failed validation.
func (m Metadata) Dropped() int {
	return m.OriginalCount - m.ValidCount
}

// Result is a successfully parsed import.
type Result struct {
	Bookmarks []model.Bookmark
	Metadata  Metadata
}

// ImportFile reads path and parses it according to its extension:
// .json (export envelope), .html/.htm (Netscape) or .yaml/.yml (homepage).
func ImportFile(path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json", ".html", ".htm", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	switch ext {
	case ".html", ".htm":
		return ParseHTML(bytes.NewReader(data))
	case ".yaml", ".yml":
		return ParseHomepage(data)
	}
	return ParseJSON(filepath.Base(path), "", data)
}

// candidate is an unvalidated record pulled out of any source format.
type candidate struct {
	id          string
	name        string
	url         string
	description string
	commentary  string
	tags        []string
	favorite    bool
	favicon     string
	createdAt   string
}

// normalize validates c and fills defaults. ok is false when the record
// lacks a name or an absolute URL.
func (c candidate) normalize(now string) (b model.Bookmark, ok bool) {
	name := strings.TrimSpace(c.name)
	rawURL := strings.TrimSpace(c.url)
	if name == "" || rawURL == "" || !model.IsAbsoluteURL(rawURL) {
		return model.Bookmark{}, false
	}

	b = model.Bookmark{
		ID:          c.id,
		Name:        name,
		URL:         rawURL,
		Description: c.description,
		Commentary:  c.commentary,
		Tags:        model.NormalizeTags(c.tags),
		Favorite:    c.favorite,
		Favicon:     c.favicon,
		CreatedAt:   c.createdAt,
	}
	if b.ID == "" {
		b.ID = model.GenerateUUID()
	}
	if b.Favicon == "" {
		b.Favicon = model.FaviconURL(rawURL)
	}
	if b.CreatedAt == "" {
		b.CreatedAt = now
	}
	return b, true
}

// collect normalizes candidates into a Result, failing when none survive.
func collect(candidates []candidate, meta Metadata) (*Result, error) {
	now := model.Timestamp(time.Now())
	bookmarks := make([]model.Bookmark, 0, len(candidates))
	for _, c := range candidates {
		if b, ok := c.normalize(now); ok {
			bookmarks = append(bookmarks, b)
		}
	}

	if len(bookmarks) == 0 {
		return nil, ErrEmptyResult
	}

	meta.ValidCount = len(bookmarks)
	return &Result{Bookmarks: bookmarks, Metadata: meta}, nil
}
