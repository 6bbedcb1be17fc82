package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikbrunner/bmdir/internal/model"
	"github.com/nikbrunner/bmdir/internal/search"
	"github.com/nikbrunner/bmdir/internal/shared"
	"github.com/nikbrunner/bmdir/internal/storage"
	"github.com/urfave/cli/v3"
)

// PickFunc lets the user choose among search results. A nil bookmark
// means nothing was chosen.
type PickFunc func(results []search.SearchResult, query string) (*model.Bookmark, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *storage.Config
	configPath string
	// configCreated is set when configure wrote the default config file
	// during this run.
	configCreated bool
	storage       storage.Storage
	logger        *log.Logger
	output        io.Writer
	httpClient    *http.Client
	allow         func() bool
	open          func(string) error
	pick          PickFunc
	now           func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *storage.Config
	ConfigPath string
	Storage    storage.Storage
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
	// Allow gates every command that changes the store. Defaults to the
	// inverse of the read_only setting.
	Allow func() bool
	Open  func(string) error
	Pick  PickFunc
	Now   func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = storage.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Pick == nil {
		opts.Pick = runPicker
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		storage:    opts.Storage,
		logger:     opts.Logger,
		output:     opts.Output,
		httpClient: opts.HTTPClient,
		allow:      opts.Allow,
		open:       opts.Open,
		pick:       opts.Pick,
		now:        opts.Now,
	}
	if r.allow == nil {
		r.allow = func() bool { return !r.config.ReadOnly }
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		addCommand, editCommand, removeCommand, favoriteCommand, moveCommand, listCommand,
		tagsCommand, tagCommand, importCommand, exportCommand, searchCommand, cullCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// load reads the store from the configured backend.
func (r *Runner) load() (*model.Store, error) {
	if r.storage == nil {
		return nil, fmt.Errorf("%w: no storage configured", storage.ErrConfig)
	}
	store, err := r.storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks from %s: %w", r.storage.Path(), err)
	}
	r.logger.Debug("loaded bookmarks", "path", r.storage.Path(), "count", store.Len())
	return store, nil
}

// mutate loads the store, applies fn and saves the result when fn reports
// a change. It refuses to run while the store is read-only.
func (r *Runner) mutate(command string, fn func(store *model.Store) (bool, error)) error {
	if !r.allow() {
		r.logger.Warn("refusing to change bookmarks", "command", command, "read_only", true)
		return fmt.Errorf("%w: %s", shared.ErrReadOnly, command)
	}

	store, err := r.load()
	if err != nil {
		return err
	}

	changed, err := fn(store)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := r.storage.Save(store); err != nil {
		return fmt.Errorf("failed to save bookmarks to %s: %w", r.storage.Path(), err)
	}
	r.logger.Debug("saved bookmarks", "path", r.storage.Path(), "count", store.Len(), "revision", store.Revision())
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
