package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nikbrunner/bmdir/internal/model"
)

// FormatVersion is written into every export envelope.
const FormatVersion = "1.0"

var (
	ErrSerialize = errors.New("failed to serialize bookmarks")
	ErrSave      = errors.New("failed to save export")
)

// Envelope is the versioned wrapper around exported bookmarks.
type Envelope struct {
	Version        string   `json:"version"`
	ExportDate     string   `json:"exportDate"`
	BookmarksCount int      `json:"bookmarksCount"`
	Bookmarks      []Record `json:"bookmarks"`
}

// Record is the exported subset of a bookmark.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Commentary  string   `json:"commentary"`
	Tags        []string `json:"tags"`
	Favicon     string   `json:"favicon"`
	CreatedAt   string   `json:"createdAt"`
}

// Result describes a completed export.
type Result struct {
	Filename string
	Count    int
}

// Saver persists exported bytes under a filename.
type Saver interface {
	Save(filename string, data []byte) error
}

// DirSaver writes exports into a directory, creating it if needed.
type DirSaver struct {
	Dir string
}

// Save writes data to Dir/filename.
func (d DirSaver) Save(filename string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.Dir, filename), data, 0644)
}

// DefaultFilename returns bookmarks-export-YYYY-MM-DD.json for now.
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("bookmarks-export-%s.json", now.UTC().Format("2006-01-02"))
}

// BuildEnvelope converts bookmarks into the export envelope.
func BuildEnvelope(bookmarks []model.Bookmark, now time.Time) Envelope {
	stamp := model.Timestamp(now)
	records := make([]Record, len(bookmarks))
	for i, b := range bookmarks {
		tags := b.Tags
		if tags == nil {
			tags = []string{}
		}
		createdAt := b.CreatedAt
		if createdAt == "" {
			createdAt = stamp
		}
		records[i] = Record{
			ID:          b.ID,
			Name:        b.Name,
			URL:         b.URL,
			Description: b.Description,
			Commentary:  b.Commentary,
			Tags:        tags,
			Favicon:     b.Favicon,
			CreatedAt:   createdAt,
		}
	}

	return Envelope{
		Version:        FormatVersion,
		ExportDate:     stamp,
		BookmarksCount: len(bookmarks),
		Bookmarks:      records,
	}
}

// MarshalJSON serializes bookmarks as an indented export envelope.
func MarshalJSON(bookmarks []model.Bookmark, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(BuildEnvelope(bookmarks, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return data, nil
}

// Export serializes bookmarks and hands them to saver.
// An empty filename uses DefaultFilename.
func Export(bookmarks []model.Bookmark, saver Saver, filename string) (*Result, error) {
	now := time.Now()
	if filename == "" {
		filename = DefaultFilename(now)
	}

	data, err := MarshalJSON(bookmarks, now)
	if err != nil {
		return nil, err
	}
	if err := saver.Save(filename, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSave, filename, err)
	}

	return &Result{Filename: filename, Count: len(bookmarks)}, nil
}
