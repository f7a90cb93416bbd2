// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// playlistCommand handles playlist CRUD operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all playlists with unanalyzed-track counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist's tracks and gain values",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "add",
				Usage: "Append a track to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "track",
						Usage:    "Track identifier at the media provider",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Display title",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Track source (stream or radio)",
						Value: "stream",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a positional range of tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "from",
						Usage:    "First position to remove (0-based)",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "to",
						Usage:    "Position after the last one to remove",
						Required: true,
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "swap",
				Usage: "Exchange two tracks by position",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "a",
						Usage:    "First position (0-based)",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "b",
						Usage:    "Second position (0-based)",
						Required: true,
					},
				},
				Action: r.PlaylistSwap,
			},
			{
				Name:  "drop",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.PlaylistDrop,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to CSV",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base output path (default: playlist ID)",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// queueCommand handles playback queue operations
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Playback queue operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the queue",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.QueueShow,
			},
			{
				Name:   "clear",
				Usage:  "Remove everything from the queue",
				Action: r.QueueClear,
			},
		},
	}
}

// replaygainCommand handles bulk gain recalculation
func replaygainCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "replaygain",
		Aliases: []string{"rg"},
		Usage:   "Bulk loudness analysis over the whole library",
		Commands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start a recalculation, or report the running job's status",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Block until the job finishes",
					},
				},
				Action: r.ReplayGainStart,
			},
			{
				Name:   "status",
				Usage:  "Show the running job's progress without starting one",
				Action: r.ReplayGainStatus,
			},
			{
				Name:   "watch",
				Usage:  "Watch the running job in an interactive view",
				Action: r.ReplayGainWatch,
			},
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
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
		},
	}
}
