package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scorefinder/internal/launcher"
	"github.com/desertthunder/scorefinder/internal/models"
	"github.com/desertthunder/scorefinder/internal/repositories"
	"github.com/desertthunder/scorefinder/internal/services"
	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/desertthunder/scorefinder/internal/tasks"
	"github.com/desertthunder/scorefinder/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	searcher  services.Searcher
	converter services.Converter
	fetcher   tasks.Fetcher
	failures  tasks.FailureStore
	logger    *log.Logger
	output    io.Writer
	picker    func(title string, results []models.SearchResult) (*models.SearchResult, error)
	launch    func(editorPath, scorePath string) error
}

// RunnerOpts contains configuration options for creating a Runner. Nil fields
// fall back to real implementations built from the config at action time.
type RunnerOpts struct {
	Config    *shared.Config
	Searcher  services.Searcher
	Converter services.Converter
	Fetcher   tasks.Fetcher
	Failures  tasks.FailureStore
	Logger    *log.Logger
	Output    io.Writer
	Picker    func(title string, results []models.SearchResult) (*models.SearchResult, error)
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
	if opts.Picker == nil {
		opts.Picker = ui.Pick
	}

	return &Runner{
		config:    opts.Config,
		searcher:  opts.Searcher,
		converter: opts.Converter,
		fetcher:   opts.Fetcher,
		failures:  opts.Failures,
		logger:    opts.Logger,
		output:    opts.Output,
		picker:    opts.Picker,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		findCommand, searchCommand, checkCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the effective config for an action: the --config file
// when given, overlaid with SCOREFINDER_* environment variables.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config

	if path := cmd.String("config"); path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := shared.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	config.ApplyEnv()
	shared.SetLogLevel(r.logger, config.LogLevel)
	return config, nil
}

// engine assembles a FinderEngine from the config, preferring any injected
// dependencies over real service clients.
func (r *Runner) engine(config *shared.Config) *tasks.FinderEngine {
	searcher := r.searcher
	if searcher == nil {
		searcher = services.NewSearchService("", config.Credentials.Search.APIKey, config.Credentials.Search.EngineID)
	}

	converter := r.converter
	if converter == nil {
		converter = services.NewGeminiService("", config.Credentials.Gemini.APIKey, config.Credentials.Gemini.Model)
	}

	failures := r.failures
	if failures == nil {
		if repo := r.openFailureRepo(config.Storage.DatabasePath); repo != nil {
			failures = repo
		}
	}

	return tasks.NewFinderEngine(tasks.EngineOpts{
		Searcher:  searcher,
		Converter: converter,
		Fetcher:   r.fetcher,
		Failures:  failures,
		Logger:    r.logger,

		OutputDir:       config.Storage.OutputDir,
		MaxAttempts:     config.Finder.MaxAttempts,
		MinimumMeasures: config.Finder.MinimumMeasures,
	})
}

// openFailureRepo opens the failed-URL cache database. The cache is an
// optimization, so failures here degrade to a warning and a nil store.
func (r *Runner) openFailureRepo(path string) *repositories.FailureRepository {
	if path == "" {
		return nil
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		r.logger.Warn("failed-URL cache unavailable", "path", path, "err", err)
		return nil
	}

	repo, err := repositories.NewFailureRepository(db)
	if err != nil {
		r.logger.Warn("failed-URL cache unavailable", "path", path, "err", err)
		return nil
	}

	return repo
}

// openEditor resolves and launches the notation editor for a saved score.
// A missing editor is a warning, never an error: the file is already on disk.
func (r *Runner) openEditor(config *shared.Config, scorePath string) {
	open := r.launch
	if open == nil {
		open = func(editorPath, scorePath string) error {
			return launcher.New(editorPath, r.logger).Open(scorePath)
		}
	}

	if err := open(config.Editor.Path, scorePath); err != nil {
		r.logger.Warn("could not open editor", "path", scorePath, "err", err)
		r.writePlain("Editor not found; open the file manually: %s\n", scorePath)
	}
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
