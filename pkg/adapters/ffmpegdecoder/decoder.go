// Package ffmpegdecoder decodes compressed video by piping it through an
// ffmpeg process that emits raw I420 frames on stdout.
package ffmpegdecoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/user/yuvplay/pkg/adapters/ffbin"
	"github.com/user/yuvplay/pkg/adapters/probe"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

var (
	// ErrFFmpegNotFound is returned when ffmpeg is not installed.
	ErrFFmpegNotFound = ffbin.ErrNotFound
	// ErrDimensionsUnknown is returned when neither the source nor the
	// container declares a frame size.
	ErrDimensionsUnknown = errors.New("ffmpegdecoder: frame dimensions unknown")
)

// Options configures the decoder.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

// Decoder implements ports.VideoDecoder using an external ffmpeg.
type Decoder struct {
	opts  Options
	probe func(path string) (probe.Result, error)
}

// New creates a new ffmpeg decoder.
func New(opts Options) *Decoder {
	return &Decoder{opts: opts, probe: probe.File}
}

// IsAvailable reports whether an ffmpeg binary can be found.
func (d *Decoder) IsAvailable() bool {
	_, err := ffbin.Find("ffmpeg", d.opts.FFmpegPath)
	return err == nil
}

// Open starts ffmpeg on src.Path. Frame size and rate come from src when
// set, otherwise from the MP4 container.
func (d *Decoder) Open(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
	ffmpegPath, err := ffbin.Find("ffmpeg", d.opts.FFmpegPath)
	if err != nil {
		return nil, err
	}

	info := ports.StreamInfo{
		Format:    "ffmpeg",
		Width:     src.Width,
		Height:    src.Height,
		FrameRate: src.FrameRate,
	}
	if res, err := d.probe(src.Path); err == nil {
		info.Format = "mp4"
		info.Codec = res.Codec
		info.FrameCount = res.FrameCount
		if info.Width <= 0 || info.Height <= 0 {
			info.Width, info.Height = res.Width, res.Height
		}
		if info.FrameRate <= 0 {
			info.FrameRate = res.FrameRate
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, ErrDimensionsUnknown
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, buildArgs(src.Path, info.Width, info.Height)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	r, err := yuv.NewReader(bufio.NewReaderSize(stdout, yuv.FrameSize(info.Width, info.Height)), info.Width, info.Height, info.FrameRate)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, err
	}

	return &frameSource{cmd: cmd, stdout: stdout, stderr: stderr, r: r, info: info}, nil
}

// buildArgs returns the ffmpeg command line for decoding input to I420.
func buildArgs(input string, width, height int) []string {
	return []string{
		"-v", "error",
		"-nostdin",
		"-i", input,
		"-an", "-sn",
		"-f", "rawvideo",
		"-pix_fmt", "yuv420p",
		"-s", strconv.Itoa(width) + "x" + strconv.Itoa(height),
		"pipe:1",
	}
}

type frameSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	r      *yuv.Reader
	info   ports.StreamInfo

	waitOnce sync.Once
	waitErr  error
}

func (s *frameSource) Info() ports.StreamInfo {
	return s.info
}

func (s *frameSource) NextFrame() (ports.RawFrame, error) {
	frame, err := s.r.Next()
	if err == io.EOF {
		if werr := s.wait(); werr != nil {
			return ports.RawFrame{}, werr
		}
	}
	return frame, err
}

// Close stops ffmpeg if it is still running.
func (s *frameSource) Close() error {
	if s.cmd.ProcessState == nil {
		s.cmd.Process.Kill()
	}
	s.wait()
	return nil
}

func (s *frameSource) wait() error {
	s.waitOnce.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			s.waitErr = fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, s.stderr.String())
		}
	})
	return s.waitErr
}

var _ ports.VideoDecoder = (*Decoder)(nil)
