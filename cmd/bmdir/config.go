package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/nikbrunner/bmdir/internal/storage"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the default config file. An existing file is only
// replaced with --force.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path, err := r.resolveConfigPath()
	if err != nil {
		return err
	}

	// A file written moments ago by configure is just the defaults.
	if r.configCreated && path == r.configPath {
		return r.writePlain("Wrote %s\n", path)
	}

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			return r.writePlain("Config already exists at %s (use --force to reset it)\n", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove old config: %w", err)
		}
	}

	if err := storage.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("Wrote %s\n", path)
}

// ConfigShow prints the configuration currently in effect.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if err := toml.NewEncoder(r.output).Encode(r.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func (r *Runner) resolveConfigPath() (string, error) {
	if r.configPath != "" {
		return r.configPath, nil
	}
	return storage.DefaultConfigFilePath()
}
