//go:build sdl

package sdlpresenter

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/user/yuvplay/pkg/ports"
)

// Available reports whether SDL support is compiled in.
func Available() bool { return true }

// Presenter implements ports.Presenter on SDL2.
// CreateSurface and every Surface method must run on the main OS thread.
type Presenter struct {
	opts Options
}

// New creates a new SDL presenter.
func New(opts Options) *Presenter {
	if opts.Title == "" {
		opts.Title = "yuvplay"
	}
	return &Presenter{opts: opts}
}

// CreateSurface opens a window sized for width x height frames.
func (p *Presenter) CreateSurface(width, height int) (ports.Surface, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	window, err := sdl.CreateWindow(p.opts.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if p.opts.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(uint32(sdl.PIXELFORMAT_IYUV), sdl.TEXTUREACCESS_STREAMING, int32(width), int32(height))
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}

	vsync := false
	if info, err := renderer.GetInfo(); err == nil {
		vsync = info.Flags&sdl.RENDERER_PRESENTVSYNC != 0
	}

	return &surface{window: window, renderer: renderer, texture: texture, vsync: vsync}, nil
}

type surface struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	vsync    bool
}

func (s *surface) Present(planes [][]byte, strides []int) error {
	if len(planes) < 3 || len(strides) < 3 {
		return fmt.Errorf("sdlpresenter: expected 3 planes, got %d", len(planes))
	}
	if err := s.texture.UpdateYUV(nil, planes[0], strides[0], planes[1], strides[1], planes[2], strides[2]); err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	if err := s.renderer.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return fmt.Errorf("copy texture: %w", err)
	}
	s.renderer.Present()
	return nil
}

// PollQuit drains the SDL event queue.
func (s *surface) PollQuit() bool {
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && (e.Keysym.Sym == sdl.K_ESCAPE || e.Keysym.Sym == sdl.K_q) {
				quit = true
			}
		}
	}
	return quit
}

func (s *surface) VSync() bool {
	return s.vsync
}

func (s *surface) Destroy() error {
	var firstErr error
	if err := s.texture.Destroy(); err != nil {
		firstErr = err
	}
	if err := s.renderer.Destroy(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := s.window.Destroy(); err != nil && firstErr == nil {
		firstErr = err
	}
	sdl.Quit()
	return firstErr
}

var _ ports.Presenter = (*Presenter)(nil)
