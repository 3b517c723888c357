// Package main provides the CLI entry point for yuvplay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

// Display backends such as SDL must be driven from the main OS thread, and
// the present loop runs on the goroutine that calls Run.
func init() {
	runtime.LockOSThread()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "yuvplay",
		Usage:   l10n.T("Play raw and containerized video with a decoupled decode and present pipeline"),
		Version: version,
		Commands: []*cli.Command{
			playCommand(),
			probeCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("yuvplay version %s", version))
					return nil
				},
			},
		},
	}
}
