package mocks

import (
	"image"
	"sync"

	"github.com/user/yuvplay/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	RunJSON []byte
	Frames  map[uint64]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Frames:  make(map[uint64]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveRunJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunJSON = data
	return nil
}

func (m *DebugSink) SaveFrame(index uint64, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = img
	return nil
}

// FrameCount returns the number of saved frames.
func (m *DebugSink) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Frames)
}

// GetRunJSON returns the saved run JSON.
func (m *DebugSink) GetRunJSON() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RunJSON
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                 { return false }
func (m *NullSink) SaveRunJSON(data []byte) error                 { return nil }
func (m *NullSink) SaveFrame(index uint64, img image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
