// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strconv"

	"github.com/desertthunder/nmx/internal/shared"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

func idArgument() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

// idArg parses the positional argument name as a remote ID.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// playlistCommand handles remote playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a playlist and its tracks",
				Arguments: idArgument(),
				Flags:     outputFlags(),
				Action:    r.PlaylistShow,
			},
			{
				Name:      "export",
				Usage:     "Export a playlist to disk",
				Arguments: idArgument(),
				Flags:     exportFlags(),
				Action:    r.PlaylistExport,
			},
		},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format: csv, markdown or text",
			Value:   "csv",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output path (file base for csv, directory for markdown, file for text)",
		},
	}
}

// albumCommand handles album operations
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Album operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show an album and its tracks",
				Arguments: idArgument(),
				Flags:     outputFlags(),
				Action:    r.AlbumShow,
			},
			{
				Name:      "export",
				Usage:     "Export an album to disk",
				Arguments: idArgument(),
				Flags:     exportFlags(),
				Action:    r.AlbumExport,
			},
		},
	}
}

// singerCommand handles artist operations
func singerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "singer",
		Aliases: []string{"artist"},
		Usage:   "Artist operations",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show an artist and their hot songs",
				Arguments: idArgument(),
				Flags:     outputFlags(),
				Action:    r.SingerShow,
			},
		},
	}
}

// songCommand handles single song lookups
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Song operations",
		Commands: []*cli.Command{
			{
				Name:      "url",
				Usage:     "Print the stream URL of a song",
				Arguments: idArgument(),
				Flags:     outputFlags(),
				Action:    r.SongURL,
			},
			{
				Name:      "lyric",
				Usage:     "Print the lyric of a song",
				Arguments: idArgument(),
				Flags: append(outputFlags(), &cli.BoolFlag{
					Name:    "translation",
					Aliases: []string{"t"},
					Usage:   "Include translated lines",
				}),
				Action: r.SongLyric,
			},
			{
				Name:  "search",
				Usage: "Search songs by keywords",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "keywords"},
				},
				Flags: append(outputFlags(), &cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"n"},
					Usage:   "Maximum number of results",
					Value:   30,
				}),
				Action: r.SongSearch,
			},
		},
	}
}

// likeCommand toggles a song in the liked list
func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "like",
		Usage:     "Like or unlike a song",
		Arguments: idArgument(),
		Flags:     outputFlags(),
		Action:    r.Like,
	}
}

// collectCommand toggles a playlist or album in the collected lists
func collectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "collect",
		Usage:     "Collect or uncollect a playlist",
		Arguments: idArgument(),
		Flags: append(outputFlags(), &cli.BoolFlag{
			Name:  "album",
			Usage: "Treat the ID as an album",
		}),
		Action: r.Collect,
	}
}

// favoritesCommand lists liked songs and collected playlists
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Show liked songs and collected playlists",
		Flags:   outputFlags(),
		Action:  r.Favorites,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export every collected playlist and album",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown or txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: nmx_export_{epoch})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Re-fetch each list from the API before exporting",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// recentCommand lists play history
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Show recently played songs",
		Flags: append(outputFlags(), &cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of entries",
			Value:   20,
		}),
		Action: r.Recent,
	}
}

// tuiCommand launches the interactive player
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal player",
		Action: r.TUI,
	}
}

// serveCommand starts the HTTP remote control
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the player state and controls over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
		},
		Action: r.Serve,
	}
}
