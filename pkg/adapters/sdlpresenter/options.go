// Package sdlpresenter displays frames in an SDL2 window using a streaming
// IYUV texture.
//
// The SDL backend needs cgo and the SDL2 development headers, so it is only
// compiled with the "sdl" build tag. Without it New returns a presenter whose
// CreateSurface fails with ErrNotBuilt.
package sdlpresenter

import "errors"

// ErrNotBuilt is returned when the binary was built without the sdl tag.
var ErrNotBuilt = errors.New("sdlpresenter: built without SDL support (rebuild with -tags sdl)")

// Options configures the SDL window.
type Options struct {
	Title string
	// VSync requests a renderer that blocks Present on the display refresh.
	VSync bool
}
