package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/user/yuvplay/pkg/adapters/ffplaypresenter"
	"github.com/user/yuvplay/pkg/adapters/filesink"
	"github.com/user/yuvplay/pkg/adapters/ggrenderer"
	"github.com/user/yuvplay/pkg/adapters/logger"
	"github.com/user/yuvplay/pkg/adapters/nullpresenter"
	"github.com/user/yuvplay/pkg/adapters/nullsink"
	"github.com/user/yuvplay/pkg/adapters/osfilesystem"
	"github.com/user/yuvplay/pkg/adapters/sdlpresenter"
	"github.com/user/yuvplay/pkg/adapters/smartdecoder"
	"github.com/user/yuvplay/pkg/adapters/snapshotpresenter"
	"github.com/user/yuvplay/pkg/config"
	"github.com/user/yuvplay/pkg/events"
	"github.com/user/yuvplay/pkg/metrics"
	"github.com/user/yuvplay/pkg/orchestrator"
	"github.com/user/yuvplay/pkg/pipeline"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/stages/decode"
	"github.com/user/yuvplay/pkg/stages/present"
	"github.com/user/yuvplay/pkg/summarizer"
)

var errMissingSource = errors.New("no source given")

// Exit codes of the play command.
const (
	exitInitFailure  = 1
	exitBadConfig    = 2
	exitPresentError = 3
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     l10n.T("Play a video file"),
		ArgsUsage: "<source>",
		Flags:     playFlags(),
		Action:    runPlay,
	}
}

func runPlay(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return cli.Exit(l10n.F("Invalid configuration: %s", err), exitBadConfig)
	}

	log := logger.New(ports.ParseLogLevel(cfg.LogLevel))
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink = nullsink.New()
	if cfg.Debug {
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	}

	presenter, name, err := selectPresenter(cfg, fs, renderer, log)
	if err != nil {
		return cli.Exit(err.Error(), exitBadConfig)
	}
	log.Info("Using presenter %s", name)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	if cfg.MetricsAddr != "" {
		srv, err := metrics.Listen(cfg.MetricsAddr, reg)
		if err != nil {
			return cli.Exit(l10n.F("Invalid configuration: %s", err), exitBadConfig)
		}
		log.Info("Metrics listening on %s", srv.Addr())
		go func() {
			if err := srv.Serve(ctx); err != nil {
				log.Warn("Metrics server stopped: %s", err.Error())
			}
		}()
	}

	bus := events.New()
	var rec *eventRecorder
	if cfg.Debug {
		rec = newEventRecorder(bus)
	}
	stopInterruptLog := context.AfterFunc(c.Context, func() {
		log.Warn("Interrupted, shutting down...")
	})
	defer stopInterruptLog()

	decoder := smartdecoder.New(fs, smartdecoder.Options{FFmpegPath: cfg.FFmpegPath})
	orch := orchestrator.New(
		decoder,
		presenter,
		decode.NewStage(log.WithComponent("decode"), m),
		present.NewStage(log.WithComponent("present"), m, sink, bus),
		sink,
		bus,
		m,
		log,
	)

	res, err := orch.Run(ctx, cfg.ToOrchestratorConfig())
	if err != nil {
		// The orchestrator already logged the cause.
		return cli.Exit("", exitInitFailure)
	}

	if rec != nil {
		path := filepath.Join(cfg.DebugDir, "events.jsonl")
		if err := rec.Save(fs, path, eventWait); err != nil {
			log.Warn("Failed to save run report: %s", err.Error())
		} else {
			log.Info("Report written to %s", path)
		}
	}
	if cfg.Presenter == config.PresenterSnapshot {
		log.Info("Snapshots written to %s", cfg.SnapshotDir)
	}
	if cfg.Summary != "" {
		if err := writeSummary(cfg, name, res, fs); err != nil {
			log.Warn("Failed to write summary: %s", err.Error())
		} else {
			log.Info("Summary written to %s", cfg.Summary)
		}
	}

	if res.Reason == pipeline.ReasonPresentError {
		return cli.Exit("", exitPresentError)
	}
	return nil
}

// selectPresenter builds the configured presenter. A missing SDL build falls
// back to ffplay when it is installed.
func selectPresenter(cfg config.Config, fs ports.FileSystem, renderer ports.Renderer, log ports.Logger) (ports.Presenter, string, error) {
	ffplay := ffplaypresenter.New(ffplaypresenter.Options{
		FFplayPath: cfg.FFplayPath,
		Title:      cfg.WindowTitle,
		FrameRate:  cfg.FrameRate,
	})

	switch cfg.Presenter {
	case config.PresenterSDL:
		if sdlpresenter.Available() {
			return sdlpresenter.New(sdlpresenter.Options{Title: cfg.WindowTitle, VSync: cfg.VSync}), config.PresenterSDL, nil
		}
		if ffplay.IsAvailable() {
			log.Warn("Presenter %s not available, falling back to %s", config.PresenterSDL, config.PresenterFFplay)
			return ffplay, config.PresenterFFplay, nil
		}
		return nil, "", sdlpresenter.ErrNotBuilt

	case config.PresenterFFplay:
		return ffplay, config.PresenterFFplay, nil

	case config.PresenterSnapshot:
		return snapshotpresenter.New(fs, renderer, snapshotpresenter.Options{
			Dir:       cfg.SnapshotDir,
			Every:     cfg.SnapshotEvery,
			Width:     cfg.SnapshotWidth,
			FrameRate: cfg.FrameRate,
			OSDColor:  config.ParseColor(cfg.OSDColor),
			OSDBack:   config.ParseColor(cfg.OSDBackground),
			FontPath:  cfg.OSDFont,
		}), config.PresenterSnapshot, nil

	case config.PresenterNull:
		return nullpresenter.New(cfg.VSync), config.PresenterNull, nil

	default:
		return nil, "", fmt.Errorf("%w: unknown presenter %q", config.ErrInvalidConfig, cfg.Presenter)
	}
}

func writeSummary(cfg config.Config, presenterName string, res orchestrator.RunResult, fs ports.FileSystem) error {
	b := summarizer.NewBuilder().
		WithSettings(summarizer.Settings{
			Presenter:     presenterName,
			TakeTimeoutMs: cfg.TakeTimeoutMs,
			DrainPolicy:   cfg.DrainPolicy,
			MaxFrames:     cfg.MaxFrames,
		})
	if info, err := os.Stat(cfg.Source); err == nil && info.Mode().IsRegular() {
		b.WithFileSize(info.Size())
	}
	summary := b.WithRun(res).Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	return summarizer.NewWriter(formatter, fs).Write(cfg.Summary, summary)
}
