package main

import (
	"context"

	"github.com/desertthunder/scorefinder/internal/repositories"
	"github.com/desertthunder/scorefinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a starter config file at the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("Created %s\n", path)
	r.writePlain("Fill in the credentials or set the SCOREFINDER_* environment variables.\n")
	return nil
}

// SetupDatabase initializes the failed-URL cache database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(config.Storage.DatabasePath)
	if err != nil {
		return err
	}

	repo, err := repositories.NewFailureRepository(db)
	if err != nil {
		return err
	}

	count, err := repo.Count()
	if err != nil {
		return err
	}

	r.logger.Info("database ready", "path", config.Storage.DatabasePath)
	r.writePlain("Database initialized at %s (%d cached failures)\n", config.Storage.DatabasePath, count)
	return nil
}
