package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/nikbrunner/bmdir/internal/storage"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatal("bmdir failed", "error", err)
	}
}

// newApp builds the root command with global flags and hooks bound to r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "bmdir",
		Usage:   "Manage a flat, tagged bookmark directory",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default ~/.config/bmdir/config.toml)",
				Sources: cli.EnvVars("BMDIR_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "read-only",
				Usage: "Refuse every command that changes bookmarks",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config)",
			},
		},
		Before:   r.configure,
		After:    r.close,
		Commands: r.register(),
	}
}

// configure loads the config file, applies global flags and opens storage.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		var err error
		if path, err = storage.DefaultConfigFilePath(); err != nil {
			return ctx, err
		}
	}
	r.configPath = path

	created, err := storage.EnsureConfigFile(path)
	if err != nil {
		r.logger.Warn("could not write default config", "path", path, "error", err)
	}
	r.configCreated = created

	config, err := storage.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("read-only") {
		config.ReadOnly = true
	}
	r.config = config

	level := config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	ll, err := shared.ParseLevel(level)
	if err != nil {
		return ctx, err
	}
	r.logger.SetLevel(ll)

	if r.storage == nil {
		st, err := storage.OpenStorage(config.Storage)
		if err != nil {
			return ctx, err
		}
		r.storage = st
		r.logger.Debug("opened storage", "backend", config.Storage.Backend, "path", st.Path())
	}
	return ctx, nil
}

// close releases the storage backend.
func (r *Runner) close(ctx context.Context, cmd *cli.Command) error {
	if r.storage == nil {
		return nil
	}
	return r.storage.Close()
}
