//go:build !sdl

package sdlpresenter

import "github.com/user/yuvplay/pkg/ports"

// Available reports whether SDL support is compiled in.
func Available() bool { return false }

// Presenter is a placeholder used when SDL support is not compiled in.
type Presenter struct {
	opts Options
}

// New creates a presenter that always fails with ErrNotBuilt.
func New(opts Options) *Presenter {
	return &Presenter{opts: opts}
}

// CreateSurface returns ErrNotBuilt.
func (p *Presenter) CreateSurface(width, height int) (ports.Surface, error) {
	return nil, ErrNotBuilt
}

var _ ports.Presenter = (*Presenter)(nil)
