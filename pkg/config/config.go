// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/yuvplay/pkg/orchestrator"
	"github.com/user/yuvplay/pkg/pipeline"
	"github.com/user/yuvplay/pkg/ports"
)

// Presenter names accepted by the presenter field.
const (
	PresenterSDL      = "sdl"
	PresenterFFplay   = "ffplay"
	PresenterSnapshot = "snapshot"
	PresenterNull     = "null"
)

// Source formats accepted by the format field. An empty format means
// detect from the file.
const (
	FormatAuto   = ""
	FormatYUV    = "yuv"
	FormatY4M    = "y4m"
	FormatFFmpeg = "ffmpeg"
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config represents the full configuration for yuvplay.
type Config struct {
	// Source
	Source    string  `yaml:"source" toml:"source"`
	Format    string  `yaml:"format" toml:"format"`
	Width     int     `yaml:"width" toml:"width"`
	Height    int     `yaml:"height" toml:"height"`
	FrameRate float64 `yaml:"frame_rate" toml:"frame_rate"`
	MaxFrames int     `yaml:"max_frames" toml:"max_frames"`

	// Pipeline
	QueueCapacity    int    `yaml:"queue_capacity" toml:"queue_capacity"`
	TakeTimeoutMs    int    `yaml:"take_timeout_ms" toml:"take_timeout_ms"`
	TickIntervalMs   int    `yaml:"tick_interval_ms" toml:"tick_interval_ms"`
	MaxPresentErrors int    `yaml:"max_present_errors" toml:"max_present_errors"`
	DrainPolicy      string `yaml:"drain_policy" toml:"drain_policy"`

	// Presentation
	Presenter   string `yaml:"presenter" toml:"presenter"`
	WindowTitle string `yaml:"window_title" toml:"window_title"`
	VSync       bool   `yaml:"vsync" toml:"vsync"`
	FFmpegPath  string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	FFplayPath  string `yaml:"ffplay_path" toml:"ffplay_path"`

	// Snapshot presenter
	SnapshotDir   string `yaml:"snapshot_dir" toml:"snapshot_dir"`
	SnapshotEvery int    `yaml:"snapshot_every" toml:"snapshot_every"`
	SnapshotWidth int    `yaml:"snapshot_width" toml:"snapshot_width"`
	OSDColor      string `yaml:"osd_color" toml:"osd_color"`
	OSDBackground string `yaml:"osd_background" toml:"osd_background"`
	OSDFont       string `yaml:"osd_font" toml:"osd_font"`

	// Observability
	MetricsAddr string `yaml:"metrics_addr" toml:"metrics_addr"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	Summary     string `yaml:"summary" toml:"summary"`

	// Debug
	Debug    bool   `yaml:"debug" toml:"debug"`
	DebugDir string `yaml:"debug_dir" toml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Pipeline
		QueueCapacity:    4,
		TakeTimeoutMs:    10,
		MaxPresentErrors: 30,
		DrainPolicy:      string(pipeline.DrainDiscard),

		// Presentation
		Presenter:   PresenterSDL,
		WindowTitle: "yuvplay",

		// Snapshot presenter
		SnapshotDir:   "./snapshots",
		SnapshotEvery: 30,
		OSDColor:      "#ffffff",
		OSDBackground: "#000000",

		LogLevel: "info",

		// Debug
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a TOML file (.toml) or a YAML file
// (anything else) on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Presenter {
	case PresenterSDL, PresenterFFplay, PresenterSnapshot, PresenterNull:
	default:
		return fmt.Errorf("%w: unknown presenter %q", ErrInvalidConfig, c.Presenter)
	}

	switch c.Format {
	case FormatAuto, FormatYUV, FormatY4M, FormatFFmpeg:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}

	switch pipeline.DrainPolicy(c.DrainPolicy) {
	case pipeline.DrainDiscard, pipeline.DrainPresentLast:
	default:
		return fmt.Errorf("%w: unknown drain policy %q", ErrInvalidConfig, c.DrainPolicy)
	}

	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Format == FormatYUV && (c.Width == 0 || c.Height == 0) {
		return fmt.Errorf("%w: raw yuv sources need width and height", ErrInvalidConfig)
	}
	if c.FrameRate < 0 {
		return fmt.Errorf("%w: negative frame rate", ErrInvalidConfig)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("%w: queue capacity must be at least 1", ErrInvalidConfig)
	}
	if c.TakeTimeoutMs < 0 || c.TickIntervalMs < 0 || c.MaxPresentErrors < 0 || c.MaxFrames < 0 {
		return fmt.Errorf("%w: negative pipeline setting", ErrInvalidConfig)
	}
	if c.TickIntervalMs > 0 && c.TakeTimeoutMs >= c.TickIntervalMs {
		return fmt.Errorf("%w: take_timeout_ms %d must be below tick_interval_ms %d", ErrInvalidConfig, c.TakeTimeoutMs, c.TickIntervalMs)
	}
	if c.Presenter == PresenterSnapshot && c.SnapshotEvery < 1 {
		return fmt.Errorf("%w: snapshot_every must be at least 1", ErrInvalidConfig)
	}

	return nil
}

// ParseColor parses a hex color string to color.Color.
// Malformed input yields black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.Black
	}

	var rgb [3]uint8
	for i := range rgb {
		rgb[i] = hexValue(hex[2*i])<<4 | hexValue(hex[2*i+1])
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Source: ports.Source{
			Path:      c.Source,
			Format:    c.Format,
			Width:     c.Width,
			Height:    c.Height,
			FrameRate: c.FrameRate,
		},

		QueueCapacity: c.QueueCapacity,

		TakeTimeout:      time.Duration(c.TakeTimeoutMs) * time.Millisecond,
		TickInterval:     time.Duration(c.TickIntervalMs) * time.Millisecond,
		MaxPresentErrors: c.MaxPresentErrors,
		DrainPolicy:      pipeline.DrainPolicy(c.DrainPolicy),

		MaxFrames: c.MaxFrames,
	}
}
