package yuv

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/yuvplay/pkg/ports"
)

// ErrTruncatedFrame is returned when the stream ends in the middle of a frame.
var ErrTruncatedFrame = errors.New("yuv: truncated frame")

// Reader reads tightly packed I420 frames from a byte stream.
//
// All frames share one internal buffer: the planes returned by Next are
// overwritten by the following call.
type Reader struct {
	r         io.Reader
	width     int
	height    int
	frameRate float64
	buf       []byte
	planes    [][]byte
	strides   []int
	index     int64
}

// NewReader creates a Reader for width x height frames.
// A positive frameRate stamps frames with index/frameRate timestamps.
func NewReader(r io.Reader, width, height int, frameRate float64) (*Reader, error) {
	if err := Validate(width, height); err != nil {
		return nil, err
	}

	sizes := PlaneSizes(width, height)
	buf := make([]byte, FrameSize(width, height))

	planes := make([][]byte, PlaneCount)
	strides := make([]int, PlaneCount)
	off := 0
	for i, p := range sizes {
		planes[i] = buf[off : off+p.Bytes()]
		strides[i] = p.Width
		off += p.Bytes()
	}

	return &Reader{
		r:         r,
		width:     width,
		height:    height,
		frameRate: frameRate,
		buf:       buf,
		planes:    planes,
		strides:   strides,
	}, nil
}

// Next reads the next frame. It returns io.EOF when the stream ends on a
// frame boundary and ErrTruncatedFrame when it ends inside one.
func (r *Reader) Next() (ports.RawFrame, error) {
	n, err := io.ReadFull(r.r, r.buf)
	switch {
	case err == io.EOF:
		return ports.RawFrame{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ports.RawFrame{}, fmt.Errorf("%w: frame %d has %d of %d bytes", ErrTruncatedFrame, r.index, n, len(r.buf))
	case err != nil:
		return ports.RawFrame{}, fmt.Errorf("read frame %d: %w", r.index, err)
	}

	frame := r.frame()
	r.index++
	return frame, nil
}

func (r *Reader) frame() ports.RawFrame {
	frame := ports.RawFrame{
		Planes:  r.planes,
		Strides: r.strides,
		Width:   r.width,
		Height:  r.height,
	}
	if r.frameRate > 0 {
		frame.Timestamp = time.Duration(float64(r.index) * float64(time.Second) / r.frameRate)
		frame.HasTimestamp = true
	}
	return frame
}

// Index returns the number of frames read so far.
func (r *Reader) Index() int64 {
	return r.index
}
