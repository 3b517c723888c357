// Package y4mdecoder reads YUV4MPEG2 (.y4m) streams.
package y4mdecoder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

var (
	// ErrNotY4M is returned when the stream does not start with the YUV4MPEG2 magic.
	ErrNotY4M = errors.New("y4mdecoder: not a YUV4MPEG2 stream")
	// ErrBadHeader is returned for malformed stream or frame headers.
	ErrBadHeader = errors.New("y4mdecoder: malformed header")
	// ErrUnsupportedColorspace is returned for anything but 8-bit 4:2:0.
	ErrUnsupportedColorspace = errors.New("y4mdecoder: unsupported colorspace")
)

// maxHeaderLen bounds header lines so a binary file cannot exhaust memory.
const maxHeaderLen = 4096

// Decoder implements ports.VideoDecoder for YUV4MPEG2 files.
type Decoder struct {
	fs ports.FileSystem
}

// New creates a new Y4M decoder reading through fs.
func New(fs ports.FileSystem) *Decoder {
	return &Decoder{fs: fs}
}

// Open reads the stream header of src.Path. A positive src.FrameRate
// overrides the header's rate.
func (d *Decoder) Open(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := d.fs.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Path, err)
	}

	fs, err := NewFrameSource(rc, src.FrameRate)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return fs, nil
}

// FrameSource reads frames from one YUV4MPEG2 stream.
type FrameSource struct {
	rc     io.ReadCloser
	br     *bufio.Reader
	r      *yuv.Reader
	header Header
	info   ports.StreamInfo
}

// NewFrameSource parses the stream header from rc. Close closes rc.
func NewFrameSource(rc io.ReadCloser, frameRate float64) (*FrameSource, error) {
	br := bufio.NewReader(rc)
	line, err := readLine(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotY4M
		}
		return nil, err
	}

	header, err := ParseHeader(line)
	if err != nil {
		return nil, err
	}

	if frameRate <= 0 {
		frameRate = header.FrameRate()
	}
	r, err := yuv.NewReader(br, header.Width, header.Height, frameRate)
	if err != nil {
		return nil, err
	}

	return &FrameSource{
		rc:     rc,
		br:     br,
		r:      r,
		header: header,
		info: ports.StreamInfo{
			Format:    "y4m",
			Codec:     "rawvideo",
			Width:     header.Width,
			Height:    header.Height,
			FrameRate: frameRate,
		},
	}, nil
}

// Header returns the parsed stream header.
func (s *FrameSource) Header() Header {
	return s.header
}

func (s *FrameSource) Info() ports.StreamInfo {
	return s.info
}

// NextFrame consumes one FRAME line and its payload.
func (s *FrameSource) NextFrame() (ports.RawFrame, error) {
	line, err := readLine(s.br)
	if err != nil {
		// A clean EOF before a FRAME tag ends the stream.
		return ports.RawFrame{}, err
	}
	if !isFrameLine(line) {
		return ports.RawFrame{}, fmt.Errorf("%w: frame %d starts with %q", ErrBadHeader, s.r.Index(), truncate(line, 16))
	}

	frame, err := s.r.Next()
	if err == io.EOF {
		return ports.RawFrame{}, fmt.Errorf("%w: frame %d has no payload", yuv.ErrTruncatedFrame, s.r.Index())
	}
	return frame, err
}

func (s *FrameSource) Close() error {
	return s.rc.Close()
}

// readLine reads up to and excluding '\n'. io.EOF is returned only when
// no bytes precede it.
func readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return "", fmt.Errorf("%w: unterminated header line", ErrBadHeader)
			}
			return "", err
		}
		if b == '\n' {
			return sb.String(), nil
		}
		if sb.Len() >= maxHeaderLen {
			return "", fmt.Errorf("%w: header line too long", ErrBadHeader)
		}
		sb.WriteByte(b)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var (
	_ ports.VideoDecoder = (*Decoder)(nil)
	_ ports.FrameSource  = (*FrameSource)(nil)
)
