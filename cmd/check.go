package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/scorefinder/internal/launcher"
	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// Check reports the presence of required credentials, storage directories and
// the notation editor. Missing required configuration fails the command;
// missing optional pieces only print as warnings.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.writePlainHeader("Configuration Check")

	ok := true
	check := func(label string, present bool) {
		mark := "✓"
		if !present {
			mark = "✗"
			ok = false
		}
		r.writePlain("%s %s\n", mark, label)
	}

	check("search api key", config.Credentials.Search.APIKey != "")
	check("search engine id", config.Credentials.Search.EngineID != "")
	check("gemini api key", config.Credentials.Gemini.APIKey != "")

	r.writePlain("\n")

	for _, dir := range []struct {
		label string
		path  string
	}{
		{"output dir", config.Storage.OutputDir},
		{"temp dir", config.Storage.TempDir},
	} {
		if dir.path == "" {
			r.writePlain("- %s not configured\n", dir.label)
			continue
		}
		if info, err := os.Stat(dir.path); err == nil && info.IsDir() {
			r.writePlain("✓ %s: %s\n", dir.label, dir.path)
		} else {
			r.writePlain("- %s: %s (will be created)\n", dir.label, dir.path)
		}
	}

	r.writePlain("\n")

	if path, err := launcher.New(config.Editor.Path, r.logger).Resolve(); err == nil {
		r.writePlain("✓ editor: %s\n", path)
	} else {
		r.writePlain("- editor not found (scores will still be saved)\n")
	}

	if !ok {
		return fmt.Errorf("%w: see failed checks above", shared.ErrMissingConfig)
	}

	r.writePlain("\nAll required configuration present.\n")
	return nil
}
