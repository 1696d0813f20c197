package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadRootConfig resolves the startup config: config.toml in the working
// directory when present, defaults otherwise, with SCOREFINDER_* overrides.
// A config.toml that exists but fails to parse is reported, not ignored.
func loadRootConfig(logger *log.Logger) *shared.Config {
	config := shared.DefaultConfig()

	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("ignoring invalid config.toml, using defaults", "err", err)
		}
	}

	config.ApplyEnv()
	return config
}

func main() {
	logger := shared.NewLogger(nil)

	config := loadRootConfig(logger)
	shared.SetLogLevel(logger, config.LogLevel)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "scorefinder",
		Usage:    "Find, download and open drum notation for a song",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
