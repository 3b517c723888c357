// Package yuvdecoder reads headerless planar I420 files.
package yuvdecoder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

// ErrDimensionsRequired is returned when a raw source has no width or height.
var ErrDimensionsRequired = errors.New("yuvdecoder: width and height are required")

// Decoder implements ports.VideoDecoder for raw .yuv files.
type Decoder struct {
	fs ports.FileSystem
}

// New creates a new raw YUV decoder reading through fs.
func New(fs ports.FileSystem) *Decoder {
	return &Decoder{fs: fs}
}

// Open opens src.Path. The file carries no header, so src.Width and
// src.Height must describe it.
func (d *Decoder) Open(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
	if src.Width <= 0 || src.Height <= 0 {
		return nil, ErrDimensionsRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := d.fs.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Path, err)
	}

	r, err := yuv.NewReader(rc, src.Width, src.Height, src.FrameRate)
	if err != nil {
		rc.Close()
		return nil, err
	}

	return &frameSource{
		rc: rc,
		r:  r,
		info: ports.StreamInfo{
			Format:    "yuv",
			Codec:     "rawvideo",
			Width:     src.Width,
			Height:    src.Height,
			FrameRate: src.FrameRate,
		},
	}, nil
}

type frameSource struct {
	rc   io.ReadCloser
	r    *yuv.Reader
	info ports.StreamInfo
}

func (s *frameSource) Info() ports.StreamInfo {
	return s.info
}

func (s *frameSource) NextFrame() (ports.RawFrame, error) {
	return s.r.Next()
}

func (s *frameSource) Close() error {
	return s.rc.Close()
}

var _ ports.VideoDecoder = (*Decoder)(nil)
