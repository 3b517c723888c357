package mocks

import (
	"sync"

	"github.com/user/yuvplay/pkg/ports"
)

// Presenter is a mock implementation of ports.Presenter.
type Presenter struct {
	CreateSurfaceFunc func(width, height int) (ports.Surface, error)

	// Surface is returned by CreateSurface when CreateSurfaceFunc is nil.
	Surface *Surface

	mu          sync.Mutex
	CreateCalls int
}

func (m *Presenter) CreateSurface(width, height int) (ports.Surface, error) {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateSurfaceFunc != nil {
		return m.CreateSurfaceFunc(width, height)
	}
	if m.Surface == nil {
		m.Surface = &Surface{}
	}
	m.Surface.mu.Lock()
	m.Surface.Width, m.Surface.Height = width, height
	m.Surface.mu.Unlock()
	return m.Surface, nil
}

var _ ports.Presenter = (*Presenter)(nil)

// Surface is a mock implementation of ports.Surface.
// Presented records the first luma byte of every presented frame.
type Surface struct {
	PresentFunc  func(planes [][]byte, strides []int) error
	PollQuitFunc func() bool

	// QuitAfter, when positive, makes PollQuit report true once that many
	// frames have been presented.
	QuitAfter int
	Sync      bool

	mu        sync.Mutex
	Width     int
	Height    int
	Presented []byte
	Polls     int
	Destroyed bool
}

func (m *Surface) Present(planes [][]byte, strides []int) error {
	if m.PresentFunc != nil {
		if err := m.PresentFunc(planes, strides); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var first byte
	if len(planes) > 0 && len(planes[0]) > 0 {
		first = planes[0][0]
	}
	m.Presented = append(m.Presented, first)
	return nil
}

func (m *Surface) PollQuit() bool {
	m.mu.Lock()
	m.Polls++
	presented := len(m.Presented)
	m.mu.Unlock()

	if m.PollQuitFunc != nil {
		return m.PollQuitFunc()
	}
	return m.QuitAfter > 0 && presented >= m.QuitAfter
}

func (m *Surface) VSync() bool {
	return m.Sync
}

func (m *Surface) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Destroyed = true
	return nil
}

// PresentedFrames returns a copy of the recorded luma markers.
func (m *Surface) PresentedFrames() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.Presented...)
}

// IsDestroyed reports whether Destroy was called.
func (m *Surface) IsDestroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Destroyed
}

var _ ports.Surface = (*Surface)(nil)
