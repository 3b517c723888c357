package main

import (
	"fmt"
	"io"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/yuvplay/pkg/adapters/osfilesystem"
	"github.com/user/yuvplay/pkg/adapters/probe"
	"github.com/user/yuvplay/pkg/adapters/smartdecoder"
	"github.com/user/yuvplay/pkg/ports"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Print stream information without playing"),
		ArgsUsage: "<source>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: l10n.T("Input format (yuv, y4m, ffmpeg; default: detect)")},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Frame width, required for raw yuv")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: l10n.T("Frame height, required for raw yuv")},
			&cli.Float64Flag{Name: "fps", Aliases: []string{"r"}, Usage: l10n.T("Frame rate (overrides the container)")},
			&cli.StringFlag{Name: "ffmpeg", EnvVars: []string{"FFMPEG_PATH"}, Usage: l10n.T("Path to ffmpeg executable")},
		},
		Action: runProbe,
	}
}

func runProbe(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit(errMissingSource.Error(), exitBadConfig)
	}
	src := ports.Source{
		Path:      c.Args().First(),
		Format:    c.String("format"),
		Width:     c.Int("width"),
		Height:    c.Int("height"),
		FrameRate: c.Float64("fps"),
	}

	decoder := smartdecoder.New(osfilesystem.New(), smartdecoder.Options{FFmpegPath: c.String("ffmpeg")})
	format, err := decoder.Detect(src)
	if err != nil {
		return cli.Exit(err.Error(), exitBadConfig)
	}

	// Containers mp4ff understands are described without spawning ffmpeg.
	if format == smartdecoder.FormatFFmpeg && src.Path != "-" {
		if res, err := probe.File(src.Path); err == nil {
			printInfo(c.App.Writer, src.Path, res.StreamInfo())
			fmt.Fprintf(c.App.Writer, "%-12s %s\n", l10n.T("Duration"), res.Duration)
			fmt.Fprintf(c.App.Writer, "%-12s %t\n", l10n.T("Fragmented"), res.Fragmented)
			return nil
		}
	}

	fsrc, err := decoder.Open(c.Context, src)
	if err != nil {
		return cli.Exit(err.Error(), exitInitFailure)
	}
	defer fsrc.Close()

	printInfo(c.App.Writer, src.Path, fsrc.Info())
	return nil
}

func printInfo(w io.Writer, path string, info ports.StreamInfo) {
	fmt.Fprintf(w, "%-12s %s\n", l10n.T("Source"), path)
	fmt.Fprintf(w, "%-12s %s\n", l10n.T("Format"), info.Format)
	if info.Codec != "" {
		fmt.Fprintf(w, "%-12s %s\n", l10n.T("Codec"), info.Codec)
	}
	fmt.Fprintf(w, "%-12s %dx%d\n", l10n.T("Resolution"), info.Width, info.Height)
	if info.FrameRate > 0 {
		fmt.Fprintf(w, "%-12s %.3f\n", l10n.T("Frame rate"), info.FrameRate)
	}
	if info.FrameCount > 0 {
		fmt.Fprintf(w, "%-12s %d\n", l10n.T("Frames"), info.FrameCount)
	}
}
