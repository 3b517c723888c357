// Package av1decoder decodes fragmented AV1 MP4 files to I420 frames with
// libaom. It is compiled with the aom build tag; without it Available
// reports false and Open fails with ErrNotBuilt.
package av1decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/yuvplay/pkg/ports"
)

var (
	// ErrNotBuilt is returned when the binary was built without libaom.
	ErrNotBuilt = errors.New("av1decoder: built without the aom tag")
	// ErrUnsupportedPixelFormat is returned for anything but 8-bit 4:2:0.
	ErrUnsupportedPixelFormat = errors.New("av1decoder: unsupported pixel format")

	errNoPicture = errors.New("av1decoder: no picture")
)

// codec decodes one temporal unit at a time. The returned planes are reused
// by the next call.
type codec interface {
	decode(data []byte) (ports.RawFrame, error)
	close()
}

// Decoder implements ports.VideoDecoder for AV1 in fragmented MP4.
type Decoder struct{}

// New creates a new AV1 decoder.
func New() *Decoder {
	return &Decoder{}
}

// IsAvailable reports whether libaom support was compiled in.
func (d *Decoder) IsAvailable() bool {
	return Available()
}

// Open reads every sample of src into memory and prepares the codec.
func (d *Decoder) Open(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	res, samples, err := ExtractSamples(f)
	if err != nil {
		return nil, err
	}

	c, err := newCodec()
	if err != nil {
		return nil, err
	}

	info := res.StreamInfo()
	if src.FrameRate > 0 {
		info.FrameRate = src.FrameRate
	}
	return &frameSource{info: info, samples: samples, codec: c}, nil
}

type frameSource struct {
	info    ports.StreamInfo
	samples []Sample
	next    int
	codec   codec
}

func (s *frameSource) Info() ports.StreamInfo {
	return s.info
}

// NextFrame skips temporal units that yield no picture.
func (s *frameSource) NextFrame() (ports.RawFrame, error) {
	for s.next < len(s.samples) {
		sample := s.samples[s.next]
		s.next++

		frame, err := s.codec.decode(sample.Data)
		if errors.Is(err, errNoPicture) {
			continue
		}
		if err != nil {
			return ports.RawFrame{}, fmt.Errorf("decode sample %d: %w", s.next-1, err)
		}
		frame.Timestamp = sample.Timestamp
		frame.HasTimestamp = true
		return frame, nil
	}
	return ports.RawFrame{}, io.EOF
}

func (s *frameSource) Close() error {
	if s.codec != nil {
		s.codec.close()
		s.codec = nil
	}
	return nil
}

var _ ports.VideoDecoder = (*Decoder)(nil)
