package ports

import (
	"image"
)

// DebugSink abstracts debug output for a playback run.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveRunJSON saves the run result as JSON.
	SaveRunJSON(data []byte) error

	// SaveFrame saves a presented frame.
	SaveFrame(index uint64, img image.Image) error
}
