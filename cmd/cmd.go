// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/socotk/internal/session"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   r.configPath,
			},
		},
		Action: r.Setup,
	}
}

// configCommand exposes the key-value settings table.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Read and write persisted settings",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print a setting",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.ConfigGet,
			},
			{
				Name:  "set",
				Usage: "Create or update a setting",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.ConfigSet,
			},
			{
				Name:      "unset",
				Usage:     "Clear a setting",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.ConfigUnset,
			},
			{
				Name:   "list",
				Usage:  "List all settings",
				Flags:  jsonFlags(),
				Action: r.ConfigList,
			},
		},
	}
}

func artCommand(r *Runner) *cli.Command {
	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "File to write the image to",
	}

	return &cli.Command{
		Name:  "art",
		Usage: "Album art cache operations",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache size",
				Flags:  jsonFlags(),
				Action: r.ArtStats,
			},
			{
				Name:      "get",
				Usage:     "Write a cached image by track URI",
				Arguments: []cli.Argument{&cli.StringArg{Name: "uri"}},
				Flags:     []cli.Flag{output},
				Action:    r.ArtGet,
			},
			{
				Name:   "fetch",
				Usage:  "Fetch art for the selected speaker's current track",
				Flags:  []cli.Flag{output},
				Action: r.ArtFetch,
			},
		},
	}
}

func speakersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "speakers",
		Aliases: []string{"sp"},
		Usage:   "Discover and select speakers",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Discover speakers on the network",
				Flags:  jsonFlags(),
				Action: r.SpeakersList,
			},
			{
				Name:      "select",
				Usage:     "Select a speaker by uid and remember it",
				Arguments: []cli.Argument{&cli.StringArg{Name: "uid"}},
				Action:    r.SpeakersSelect,
			},
			{
				Name:   "clear",
				Usage:  "Forget the selected speaker",
				Action: r.SpeakersClear,
			},
		},
	}
}

func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "now",
		Usage:  "Show what the selected speaker is playing",
		Flags:  jsonFlags(),
		Action: r.NowPlaying,
	}
}

func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Show or export the selected speaker's queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, text, markdown, csv, json",
				Value:   "table",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file (markdown: directory, csv: base name)",
			},
		},
		Action: r.Queue,
	}
}

func transportCommand(r *Runner, command session.Command, usage string) *cli.Command {
	return &cli.Command{
		Name:   command.String(),
		Usage:  usage,
		Action: r.Transport(command),
	}
}

func playCommand(r *Runner) *cli.Command {
	return transportCommand(r, session.Play, "Resume playback")
}

func pauseCommand(r *Runner) *cli.Command {
	return transportCommand(r, session.Pause, "Pause playback")
}

func nextCommand(r *Runner) *cli.Command {
	return transportCommand(r, session.Next, "Skip to the next track")
}

func previousCommand(r *Runner) *cli.Command {
	return transportCommand(r, session.Previous, "Go back to the previous track")
}

func volumeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "volume",
		Aliases:   []string{"vol"},
		Usage:     "Show or set the volume (0-100)",
		Arguments: []cli.Argument{&cli.StringArg{Name: "level"}},
		Action:    r.Volume,
	}
}

func playIndexCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "play-index",
		Usage:     "Play the queue from position n (1-based)",
		Arguments: []cli.Argument{&cli.StringArg{Name: "n"}},
		Action:    r.PlayIndex,
	}
}

// bridgeCommand handles direct calls to the speaker bridge
func bridgeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "bridge",
		Usage: "Direct calls to the speaker bridge",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET to the bridge, prints the response",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.BridgeGet,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive speaker browser",
		Action: r.TUI,
	}
}
