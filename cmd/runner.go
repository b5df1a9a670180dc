package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flicklog/internal/repositories"
	"github.com/desertthunder/flicklog/internal/services"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/desertthunder/flicklog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	searcher    services.MovieSearcher
	recommender services.Recommender
	scraper     services.ProfileScraper
	logger      *log.Logger
	output      io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Searcher    services.MovieSearcher
	Recommender services.Recommender
	Scraper     services.ProfileScraper
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		searcher:    opts.Searcher,
		recommender: opts.Recommender,
		scraper:     opts.Scraper,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, botCommand, serveCommand, watchlistCommand, searchCommand,
		recommendCommand, compareCommand, letterboxdCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openEngine opens the configured store and builds a watchlist engine on it. The returned func closes the store.
func (r *Runner) openEngine() (*tasks.WatchlistEngine, func(), error) {
	store, err := repositories.Open(r.config)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open %s storage: %w", r.config.Storage.Backend, err)
	}

	engine := tasks.NewWatchlistEngine(store, r.searcher, r.scraper,
		tasks.WithLogger(r.logger),
		tasks.WithWaitTimeout(r.config.Bot.WaitTimeout()),
	)

	closeStore := func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("failed to close store", "error", err)
		}
	}
	return engine, closeStore, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
