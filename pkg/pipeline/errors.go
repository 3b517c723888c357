package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVideoStream is returned when a source has no decodable video stream.
	ErrNoVideoStream = errors.New("pipeline: no decodable video stream")

	// ErrFrameGeometry is returned when a decoded frame does not match the stream.
	ErrFrameGeometry = errors.New("pipeline: frame geometry mismatch")
)

// InitError reports a failure to set up the pipeline before it starts.
// It is the only error kind that crosses the process boundary.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
