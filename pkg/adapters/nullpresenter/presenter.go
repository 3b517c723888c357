// Package nullpresenter accepts frames without displaying them. It is used for
// headless runs and throughput measurements.
package nullpresenter

import (
	"sync/atomic"

	"github.com/user/yuvplay/pkg/ports"
)

// Presenter implements ports.Presenter with a discarding surface.
type Presenter struct {
	vsync bool
}

// New creates a null presenter. With vsync set the surface reports
// VSync so the present loop runs unpaced.
func New(vsync bool) *Presenter {
	return &Presenter{vsync: vsync}
}

// CreateSurface returns a surface that counts frames.
func (p *Presenter) CreateSurface(width, height int) (ports.Surface, error) {
	return &Surface{vsync: p.vsync}, nil
}

// Surface counts presented frames.
type Surface struct {
	vsync     bool
	presented atomic.Int64
	destroyed atomic.Bool
}

func (s *Surface) Present(planes [][]byte, strides []int) error {
	s.presented.Add(1)
	return nil
}

func (s *Surface) PollQuit() bool { return false }

func (s *Surface) VSync() bool { return s.vsync }

func (s *Surface) Destroy() error {
	s.destroyed.Store(true)
	return nil
}

// Presented returns how many frames were accepted.
func (s *Surface) Presented() int64 { return s.presented.Load() }

var _ ports.Presenter = (*Presenter)(nil)
