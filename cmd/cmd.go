// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// findCommand runs the full search → download → verify → open pipeline.
func findCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Find, download and open drum notation for a song",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name to narrow the search",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "Skip launching the notation editor",
			},
		},
		Action: r.Find,
	}
}

// searchCommand lists ranked candidates without downloading.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "List notation search results for a song",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist name to narrow the search",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Pick a result to download and open",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "Skip launching the notation editor after an interactive pick",
			},
		},
		Action: r.Search,
	}
}

// checkCommand reports configuration and dependency readiness.
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "check",
		Aliases: []string{"doctor"},
		Usage:   "Check configuration, directories and editor availability",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Check,
	}
}

// setupCommand handles first-run scaffolding.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the failed-URL cache database",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
