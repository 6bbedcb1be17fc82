package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/bmdir/internal/model"
)

// Storage defines the interface for persisting bookmarks.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
	Path() string
	Close() error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Close is a no-op; the file is only open during Load and Save.
func (s *JSONStorage) Close() error {
	return nil
}

// Load reads the store from the JSON file.
// Returns an empty store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, err
	}

	store := model.NewStore()
	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	store.Repair()
	return store, nil
}

// Save writes the store to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(store *model.Store) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}

	// Write through a temp file so a crash never leaves half a store.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// DefaultDataDir returns ~/.config/bmdir.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "bmdir"), nil
}

// OpenStorage opens the backend named in cfg. An empty path resolves to
// bookmarks.json or bookmarks.db in the data directory.
func OpenStorage(cfg StorageConfig) (Storage, error) {
	path := cfg.Path
	if path == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		name := "bookmarks.json"
		if cfg.Backend == BackendSQLite {
			name = "bookmarks.db"
		}
		path = filepath.Join(dir, name)
	}

	switch cfg.Backend {
	case BackendSQLite:
		return NewSQLiteStorage(path)
	case "", BackendJSON:
		return NewJSONStorage(path), nil
	}
	return nil, fmt.Errorf("%w: unknown storage backend %q", ErrConfig, cfg.Backend)
}
