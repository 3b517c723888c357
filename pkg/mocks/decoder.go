package mocks

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

// VideoDecoder is a mock implementation of ports.VideoDecoder.
// By default it opens a FrameSource of Frames synthetic pictures.
type VideoDecoder struct {
	OpenFunc func(ctx context.Context, src ports.Source) (ports.FrameSource, error)

	Frames int
	Info   ports.StreamInfo

	mu         sync.Mutex
	OpenCalls  []ports.Source
	LastSource *FrameSource
}

func (m *VideoDecoder) Open(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
	m.mu.Lock()
	m.OpenCalls = append(m.OpenCalls, src)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, src)
	}
	fs := NewFrameSource(m.Info, m.Frames)
	m.mu.Lock()
	m.LastSource = fs
	m.mu.Unlock()
	return fs, nil
}

var _ ports.VideoDecoder = (*VideoDecoder)(nil)

// FrameSource is a mock implementation of ports.FrameSource.
//
// Frame i has every luma byte set to byte(i), and the same buffer is reused
// for every call so tests catch consumers that keep decoder memory.
type FrameSource struct {
	info  ports.StreamInfo
	total int
	buf   []byte

	// ErrAt, when ErrAtIndex >= 0, is returned instead of frame ErrAtIndex.
	ErrAt      error
	ErrAtIndex int
	// Delay is slept before each frame.
	Delay time.Duration

	mu     sync.Mutex
	next   int
	closed bool
}

// NewFrameSource creates a source producing total frames for info's geometry.
func NewFrameSource(info ports.StreamInfo, total int) *FrameSource {
	return &FrameSource{
		info:       info,
		total:      total,
		buf:        make([]byte, yuv.FrameSize(info.Width, info.Height)),
		ErrAtIndex: -1,
	}
}

func (m *FrameSource) Info() ports.StreamInfo {
	return m.info
}

func (m *FrameSource) NextFrame() (ports.RawFrame, error) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ErrAtIndex >= 0 && m.next == m.ErrAtIndex {
		return ports.RawFrame{}, m.ErrAt
	}
	if m.next >= m.total {
		return ports.RawFrame{}, io.EOF
	}

	sizes := yuv.PlaneSizes(m.info.Width, m.info.Height)
	planes := make([][]byte, yuv.PlaneCount)
	strides := make([]int, yuv.PlaneCount)
	off := 0
	for i, s := range sizes {
		planes[i] = m.buf[off : off+s.Bytes()]
		strides[i] = s.Width
		off += s.Bytes()
	}
	for i := range m.buf {
		m.buf[i] = byte(m.next)
	}

	raw := ports.RawFrame{
		Planes:  planes,
		Strides: strides,
		Width:   m.info.Width,
		Height:  m.info.Height,
	}
	if m.info.FrameRate > 0 {
		raw.Timestamp = time.Duration(float64(m.next) * float64(time.Second) / m.info.FrameRate)
		raw.HasTimestamp = true
	}
	m.next++
	return raw, nil
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *FrameSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Produced returns how many frames were handed out.
func (m *FrameSource) Produced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}

var _ ports.FrameSource = (*FrameSource)(nil)
