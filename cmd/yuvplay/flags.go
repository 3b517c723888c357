package main

import (
	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/yuvplay/pkg/config"
	"github.com/user/yuvplay/pkg/ports"
)

func playFlags() []cli.Flag {
	source := l10n.T("Source")
	pipeline := l10n.T("Pipeline")
	presentation := l10n.T("Presentation")
	snapshot := l10n.T("Snapshot")
	output := l10n.T("Output")
	debug := l10n.T("Debug")
	logging := l10n.T("Logging")

	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML or TOML configuration file"), EnvVars: []string{"YUVPLAY_CONFIG"}},

		// Source
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Category: source, Usage: l10n.T("Input format (yuv, y4m, ffmpeg; default: detect)")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: source, Usage: l10n.T("Frame width, required for raw yuv")},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: source, Usage: l10n.T("Frame height, required for raw yuv")},
		&cli.Float64Flag{Name: "fps", Aliases: []string{"r"}, Category: source, Usage: l10n.T("Frame rate (overrides the container)")},
		&cli.IntFlag{Name: "max-frames", Aliases: []string{"n"}, Category: source, Usage: l10n.T("Stop after this many frames (0 = all)")},

		// Pipeline
		&cli.IntFlag{Name: "queue", Category: pipeline, Usage: l10n.T("Frame channel capacity (default: 4)")},
		&cli.IntFlag{Name: "take-timeout-ms", Category: pipeline, Usage: l10n.T("Longest wait for a frame per tick in milliseconds")},
		&cli.IntFlag{Name: "tick-ms", Category: pipeline, Usage: l10n.T("Present interval in milliseconds (0 = one frame period)")},
		&cli.IntFlag{Name: "max-present-errors", Category: pipeline, Usage: l10n.T("Consecutive present failures before stopping")},
		&cli.StringFlag{Name: "drain", Category: pipeline, Usage: l10n.T("Queued frames on quit (discard, present-last)")},

		// Presentation
		&cli.StringFlag{Name: "presenter", Aliases: []string{"p"}, Category: presentation, Usage: l10n.T("Display backend (sdl, ffplay, snapshot, null)")},
		&cli.StringFlag{Name: "title", Category: presentation, Usage: l10n.T("Window title")},
		&cli.BoolFlag{Name: "vsync", Category: presentation, Usage: l10n.T("Let the display refresh pace presentation (sdl only)")},
		&cli.StringFlag{Name: "ffmpeg", Category: presentation, Usage: l10n.T("Path to ffmpeg executable"), EnvVars: []string{"FFMPEG_PATH"}},
		&cli.StringFlag{Name: "ffplay", Category: presentation, Usage: l10n.T("Path to ffplay executable"), EnvVars: []string{"FFPLAY_PATH"}},

		// Snapshot
		&cli.StringFlag{Name: "snapshot-dir", Category: snapshot, Usage: l10n.T("Directory for snapshot images")},
		&cli.IntFlag{Name: "snapshot-every", Category: snapshot, Usage: l10n.T("Save every Nth presented frame")},
		&cli.IntFlag{Name: "snapshot-width", Category: snapshot, Usage: l10n.T("Snapshot width in pixels (0 = source width)")},
		&cli.StringFlag{Name: "osd-color", Category: snapshot, Usage: l10n.T("Overlay text color (hex, e.g., #ffffff)")},
		&cli.StringFlag{Name: "osd-background", Category: snapshot, Usage: l10n.T("Overlay bar color (hex, e.g., #000000)")},
		&cli.StringFlag{Name: "osd-font", Category: snapshot, Usage: l10n.T("TrueType font for the overlay")},

		// Output
		&cli.StringFlag{Name: "summary", Category: output, Usage: l10n.T("Write a Markdown playback summary to this path")},
		&cli.StringFlag{Name: "metrics-addr", Category: output, Usage: l10n.T("Serve Prometheus metrics on this address (e.g., :9090)")},

		// Debug
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Category: debug, Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Category: debug, Usage: l10n.T("Directory for debug output")},

		// Logging
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: logging, Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Category: logging, Usage: l10n.T("Suppress all log output")},
	}
}

// buildConfig layers the config file, then explicitly set flags, over the defaults.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.Args().Present() {
		cfg.Source = c.Args().First()
	}

	setString(c, "format", &cfg.Format)
	setInt(c, "width", &cfg.Width)
	setInt(c, "height", &cfg.Height)
	if c.IsSet("fps") {
		cfg.FrameRate = c.Float64("fps")
	}
	setInt(c, "max-frames", &cfg.MaxFrames)

	setInt(c, "queue", &cfg.QueueCapacity)
	setInt(c, "take-timeout-ms", &cfg.TakeTimeoutMs)
	setInt(c, "tick-ms", &cfg.TickIntervalMs)
	setInt(c, "max-present-errors", &cfg.MaxPresentErrors)
	setString(c, "drain", &cfg.DrainPolicy)

	setString(c, "presenter", &cfg.Presenter)
	setString(c, "title", &cfg.WindowTitle)
	setBool(c, "vsync", &cfg.VSync)
	setString(c, "ffmpeg", &cfg.FFmpegPath)
	setString(c, "ffplay", &cfg.FFplayPath)

	setString(c, "snapshot-dir", &cfg.SnapshotDir)
	setInt(c, "snapshot-every", &cfg.SnapshotEvery)
	setInt(c, "snapshot-width", &cfg.SnapshotWidth)
	setString(c, "osd-color", &cfg.OSDColor)
	setString(c, "osd-background", &cfg.OSDBackground)
	setString(c, "osd-font", &cfg.OSDFont)

	setString(c, "summary", &cfg.Summary)
	setString(c, "metrics-addr", &cfg.MetricsAddr)

	setBool(c, "debug", &cfg.Debug)
	setString(c, "debug-dir", &cfg.DebugDir)

	setString(c, "log-level", &cfg.LogLevel)
	if c.Bool("quiet") {
		cfg.LogLevel = ports.LevelQuiet.String()
	}

	if cfg.Source == "" {
		return cfg, errMissingSource
	}
	return cfg, cfg.Validate()
}

func setString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

func setInt(c *cli.Context, name string, dst *int) {
	if c.IsSet(name) {
		*dst = c.Int(name)
	}
}

func setBool(c *cli.Context, name string, dst *bool) {
	if c.IsSet(name) {
		*dst = c.Bool(name)
	}
}
