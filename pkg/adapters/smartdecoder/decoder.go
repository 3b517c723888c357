// Package smartdecoder provides a video decoder that detects the container
// format and delegates to the matching decoder.
package smartdecoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/user/yuvplay/pkg/adapters/av1decoder"
	"github.com/user/yuvplay/pkg/adapters/ffmpegdecoder"
	"github.com/user/yuvplay/pkg/adapters/y4mdecoder"
	"github.com/user/yuvplay/pkg/adapters/yuvdecoder"
	"github.com/user/yuvplay/pkg/ports"
)

// Format represents the input format handled by a backend.
type Format string

const (
	// FormatYUV is headerless planar I420.
	FormatYUV Format = "yuv"
	// FormatY4M is YUV4MPEG2.
	FormatY4M Format = "y4m"
	// FormatFFmpeg is anything ffmpeg can decode.
	FormatFFmpeg Format = "ffmpeg"
	// FormatUnknown is returned when detection fails.
	FormatUnknown Format = "unknown"
)

// Options configures the smart decoder behavior.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

var (
	// ErrUnsupportedFormat is returned when the format cannot be determined.
	ErrUnsupportedFormat = errors.New("smartdecoder: unsupported format")
	// ErrNoDecoderAvailable is returned when the backend for the format is not installed.
	ErrNoDecoderAvailable = errors.New("smartdecoder: no decoder available")
)

// backend is a decoder that depends on an optional external component.
type backend interface {
	ports.VideoDecoder
	IsAvailable() bool
}

// Decoder implements ports.VideoDecoder with format detection.
type Decoder struct {
	fs     ports.FileSystem
	yuv    ports.VideoDecoder
	y4m    ports.VideoDecoder
	av1    backend
	ffmpeg backend
}

// New creates a smart decoder reading plain files through fs.
func New(fs ports.FileSystem, opts Options) *Decoder {
	return &Decoder{
		fs:     fs,
		yuv:    yuvdecoder.New(fs),
		y4m:    y4mdecoder.New(fs),
		av1:    av1decoder.New(),
		ffmpeg: ffmpegdecoder.New(ffmpegdecoder.Options{FFmpegPath: opts.FFmpegPath}),
	}
}

// Open detects the format of src and opens it with the matching decoder.
func (d *Decoder) Open(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
	format, err := d.Detect(src)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatYUV:
		return d.yuv.Open(ctx, src)
	case FormatY4M:
		return d.y4m.Open(ctx, src)
	case FormatFFmpeg:
		// Fragmented AV1 decodes natively when libaom is compiled in.
		if d.av1.IsAvailable() && src.Path != "-" {
			if fs, err := d.av1.Open(ctx, src); err == nil {
				return fs, nil
			}
		}
		if !d.ffmpeg.IsAvailable() {
			return nil, fmt.Errorf("%w: ffmpeg is required for %s", ErrNoDecoderAvailable, src.Path)
		}
		return d.ffmpeg.Open(ctx, src)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Detect chooses a format: the explicit src.Format first, then magic bytes,
// then the file extension.
func (d *Decoder) Detect(src ports.Source) (Format, error) {
	if src.Format != "" {
		return ParseFormat(src.Format)
	}

	// Standard input cannot be sniffed without consuming it.
	if src.Path == "-" {
		if src.Width > 0 && src.Height > 0 {
			return FormatYUV, nil
		}
		return FormatY4M, nil
	}

	if format := d.sniff(src.Path); format != FormatUnknown {
		return format, nil
	}

	if format := fromExtension(src.Path); format != FormatUnknown {
		return format, nil
	}

	if src.Width > 0 && src.Height > 0 {
		return FormatYUV, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Path)
}

// ParseFormat maps a configured format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yuv", "i420", "raw":
		return FormatYUV, nil
	case "y4m", "yuv4mpeg", "yuv4mpeg2":
		return FormatY4M, nil
	case "ffmpeg", "mp4", "mov", "mkv", "webm":
		return FormatFFmpeg, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (d *Decoder) sniff(path string) Format {
	rc, err := d.fs.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer rc.Close()

	head := make([]byte, 12)
	n, _ := io.ReadFull(rc, head)
	return sniffBytes(head[:n])
}

func sniffBytes(head []byte) Format {
	if strings.HasPrefix(string(head), y4mdecoder.Magic) {
		return FormatY4M
	}
	if len(head) >= 8 && string(head[4:8]) == "ftyp" {
		return FormatFFmpeg
	}
	// EBML header used by Matroska and WebM.
	if len(head) >= 4 && head[0] == 0x1A && head[1] == 0x45 && head[2] == 0xDF && head[3] == 0xA3 {
		return FormatFFmpeg
	}
	return FormatUnknown
}

func fromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yuv", ".i420", ".raw":
		return FormatYUV
	case ".y4m":
		return FormatY4M
	case ".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi", ".h264", ".264", ".ivf":
		return FormatFFmpeg
	default:
		return FormatUnknown
	}
}

var _ ports.VideoDecoder = (*Decoder)(nil)
