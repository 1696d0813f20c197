package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/desertthunder/scorefinder/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Find runs the full pipeline for a song title and opens the saved score.
func (r *Runner) Find(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	artist := cmd.String("artist")

	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := config.EnsureDirs(); err != nil {
		return err
	}

	r.logger.Info("starting notation search", "title", title, "artist", artist)
	r.writePlain("Searching for drum notation...\n")
	r.writePlain("Title: %s\n", title)
	if artist != "" {
		r.writePlain("Artist: %s\n", artist)
	}
	r.writePlain("\n")

	result, err := r.engine(config).Find(ctx, title, artist)
	if err != nil {
		return err
	}

	r.printFindResult(result)

	if !cmd.Bool("no-open") {
		r.openEditor(config, result.Score.Path)
	}

	return nil
}

func (r *Runner) printFindResult(result *tasks.FindResult) {
	for _, attempt := range result.Attempts {
		if attempt.Err != nil {
			r.writePlain("✗ %s (%s failed)\n", attempt.Result.URL, attempt.Stage)
		}
	}

	r.writePlain("\n")
	r.writePlainHeader("Score Saved")
	r.writePlain("Title: %s\n", result.Score.Title)
	r.writePlain("Format: %s\n", result.Score.Format)
	r.writePlain("Path: %s\n", result.Score.Path)
	r.writePlain("Source: %s\n", result.Score.Source)

	d := result.Verification.Details
	if len(d) > 0 {
		r.writePlain("\nVerification: %s\n", result.Verification.Message)
		if _, ok := d["parts"]; ok {
			r.writePlain("  Parts: %d, Measures: %d, Notes: %d\n", d["parts"], d["measures"], d["notes"])
		} else if _, ok := d["tracks"]; ok {
			r.writePlain("  Tracks: %d\n", d["tracks"])
		}
	}
}
