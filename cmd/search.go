package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search lists ranked notation candidates. With --interactive the user picks
// one, which is then downloaded, verified and opened like a find run.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
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

	engine := r.engine(config)

	results, err := engine.Search(ctx, title, artist)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("%w for '%s'", shared.ErrNoResults, title)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	if cmd.Bool("interactive") {
		selected, err := r.picker(title, results)
		if err != nil {
			return err
		}
		if selected == nil {
			r.writePlain("No result selected.\n")
			return nil
		}

		if err := config.EnsureDirs(); err != nil {
			return err
		}

		result, err := engine.Process(ctx, *selected, title)
		if err != nil {
			return err
		}

		r.printFindResult(result)
		if !cmd.Bool("no-open") {
			r.openEditor(config, result.Score.Path)
		}
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Results for '%s'", title))
	for _, result := range results {
		r.writePlain("%d. [%s] %s\n", result.Rank, result.Format, result.Title)
		r.writePlain("   %s\n", result.URL)
		if result.Snippet != "" {
			r.writePlain("   %s\n", result.Snippet)
		}
	}

	return nil
}
