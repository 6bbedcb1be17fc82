package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// ErrConfig marks an unusable configuration value.
var ErrConfig = errors.New("invalid configuration")

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds application configuration.
type Config struct {
	ReadOnly bool          `toml:"read_only"`
	Storage  StorageConfig `toml:"storage"`
	Import   ImportConfig  `toml:"import"`
	Export   ExportConfig  `toml:"export"`
	Cull     CullConfig    `toml:"cull"`
	Log      LogConfig     `toml:"log"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type ImportConfig struct {
	Strategy string `toml:"strategy"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

// CullConfig tunes the dead-link checker.
type CullConfig struct {
	Concurrency    int      `toml:"concurrency"`
	Timeout        Duration `toml:"timeout"`
	RateLimit      float64  `toml:"rate_limit"`
	ExcludeDomains []string `toml:"exclude_domains"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration described by the embedded
// example file.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadConfig reads config from the TOML file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: return defaults even if the file can't be written
			_, _ = EnsureConfigFile(path)
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Decoding over the defaults keeps them for keys the file omits.
	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that decoding alone does not constrain.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage.backend must be %q or %q, got %q", ErrConfig, BackendJSON, BackendSQLite, c.Storage.Backend)
	}
	if c.Cull.Concurrency < 1 {
		return fmt.Errorf("%w: cull.concurrency must be positive", ErrConfig)
	}
	if c.Cull.RateLimit < 0 {
		return fmt.Errorf("%w: cull.rate_limit must not be negative", ErrConfig)
	}
	return nil
}

// CreateConfigFile writes the example config to path unless a file is
// already there.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, exampleConf, 0644)
}

// EnsureConfigFile writes the example config to path if nothing is there
// yet and reports whether it did.
func EnsureConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := CreateConfigFile(path); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/bmdir/config.toml
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
