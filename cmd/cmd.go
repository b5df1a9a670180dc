// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func userFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "Chat user ID",
		Required: required,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the configured storage backend and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// botCommand runs the chat bot.
func botCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bot",
		Usage: "Connect to Discord and serve watchlist commands",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Also serve the HTTP status API on this port (0 uses server.port)",
			},
		},
		Action: r.Bot,
	}
}

// serveCommand runs the HTTP status API alone.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the HTTP status and watchlist API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (default: server.port, or 8080 when unset)",
			},
		},
		Action: r.Serve,
	}
}

// watchlistCommand handles operator access to stored watchlists.
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Inspect and edit watchlists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List a user's watchlist",
				Flags:  []cli.Flag{userFlag(true), jsonFlag()},
				Action: r.WatchlistList,
			},
			{
				Name:  "add",
				Usage: "Add a title to a user's watchlist",
				Flags: []cli.Flag{
					userFlag(true),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Movie title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "year",
						Usage: "Release year; stored as N/A when empty",
					},
				},
				Action: r.WatchlistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove an exact title from a user's watchlist",
				Flags: []cli.Flag{
					userFlag(true),
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Stored title, e.g. \"Heat (1995)\"",
						Required: true,
					},
				},
				Action: r.WatchlistRemove,
			},
			{
				Name:  "export",
				Usage: "Export watchlists to files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User IDs to export (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown or txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: watchlist_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 4,
					},
				},
				Action: r.WatchlistExport,
			},
		},
	}
}

// searchCommand runs a metadata lookup.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search TMDB for a movie",
		ArgsUsage: "<query>",
		Flags:     []cli.Flag{jsonFlag()},
		Action:    r.Search,
	}
}

// recommendCommand asks the AI model for recommendations.
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "recommend",
		Usage:     "Ask for movie recommendations",
		ArgsUsage: "<prompt>",
		Action:    r.Recommend,
	}
}

// compareCommand compares two watchlists.
func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Compare two users' watchlists",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "a", Usage: "First user ID", Required: true},
			&cli.StringFlag{Name: "b", Usage: "Second user ID", Required: true},
			jsonFlag(),
		},
		Action: r.Compare,
	}
}

// letterboxdCommand handles profile linking and import.
func letterboxdCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "letterboxd",
		Aliases: []string{"lb"},
		Usage:   "Letterboxd profile operations",
		Commands: []*cli.Command{
			{
				Name:  "link",
				Usage: "Link a user's Letterboxd profile",
				Flags: []cli.Flag{
					userFlag(true),
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Profile URL, e.g. https://letterboxd.com/name/",
						Required: true,
					},
				},
				Action: r.LetterboxdLink,
			},
			{
				Name:   "import",
				Usage:  "Import films from a user's linked profile",
				Flags:  []cli.Flag{userFlag(true), jsonFlag()},
				Action: r.LetterboxdImport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive watchlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse a watchlist in the terminal",
		Flags: []cli.Flag{
			userFlag(true),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/flicklog-tui.log",
			},
		},
		Action: r.TUI,
	}
}
