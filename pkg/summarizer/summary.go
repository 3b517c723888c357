package summarizer

import (
	"time"

	"github.com/user/yuvplay/pkg/orchestrator"
)

// Summary contains everything reported about one playback.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input stream
	Source SourceInfo

	// Pipeline counters
	Playback PlaybackInfo

	// Run configuration
	Settings Settings
}

// SourceInfo describes the played stream.
type SourceInfo struct {
	Path       string
	Format     string
	Codec      string
	Width      int
	Height     int
	FrameRate  float64 // 0 = unknown
	FrameCount int64   // 0 = unknown
	FileSize   int64   // 0 = unknown
}

// PlaybackInfo contains the outcome of the run.
type PlaybackInfo struct {
	Reason          string
	Decoded         int
	Presented       int
	Dropped         int
	EmptyTicks      int
	PresentErrors   int
	Leaked          int64
	DecodeError     string
	DurationMs      int64
	DecodeBlockedMs int64
}

// EffectiveFPS returns presented frames per second of wall time.
func (p PlaybackInfo) EffectiveFPS() float64 {
	if p.DurationMs <= 0 {
		return 0
	}
	return float64(p.Presented) * 1000 / float64(p.DurationMs)
}

// Settings contains the playback configuration.
type Settings struct {
	Presenter      string
	QueueCapacity  int
	TickIntervalMs float64
	VSync          bool
	TakeTimeoutMs  int
	DrainPolicy    string
	MaxFrames      int // 0 = no limit
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets stream information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithFileSize sets the size of the input file.
func (b *Builder) WithFileSize(size int64) *Builder {
	b.summary.Source.FileSize = size
	return b
}

// WithPlayback sets the run outcome.
func (b *Builder) WithPlayback(playback PlaybackInfo) *Builder {
	b.summary.Playback = playback
	return b
}

// WithSettings sets playback settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithRun fills source, playback and the run-derived settings from res.
// Presenter, TakeTimeoutMs, DrainPolicy and MaxFrames are left to WithSettings.
func (b *Builder) WithRun(res orchestrator.RunResult) *Builder {
	size := b.summary.Source.FileSize
	b.summary.Source = SourceInfo{
		Path:       res.Source.Path,
		Format:     res.Stream.Format,
		Codec:      res.Stream.Codec,
		Width:      res.Stream.Width,
		Height:     res.Stream.Height,
		FrameRate:  res.Stream.FrameRate,
		FrameCount: res.Stream.FrameCount,
		FileSize:   size,
	}

	b.summary.Playback = PlaybackInfo{
		Reason:          res.Reason.String(),
		Decoded:         res.Decode.Frames,
		Presented:       res.Present.Presented,
		Dropped:         res.Present.Dropped,
		EmptyTicks:      res.Present.EmptyTicks,
		PresentErrors:   res.Present.PresentErrors,
		Leaked:          res.Leaked,
		DurationMs:      res.Duration.Milliseconds(),
		DecodeBlockedMs: res.Decode.Blocked.Milliseconds(),
	}
	if res.Decode.Err != nil {
		b.summary.Playback.DecodeError = res.Decode.Err.Error()
	}

	b.summary.Settings.QueueCapacity = res.QueueCapacity
	b.summary.Settings.TickIntervalMs = float64(res.TickInterval.Microseconds()) / 1000
	b.summary.Settings.VSync = res.VSync
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
