// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"time"
)

// Source identifies the media to open.
type Source struct {
	Path      string
	Format    string  // "yuv", "y4m", "mp4" or "" to auto-detect
	Width     int     // Required for containerless sources
	Height    int     // Required for containerless sources
	FrameRate float64 // Frames per second; 0 = unknown
}

// StreamInfo describes the video stream a FrameSource produces.
type StreamInfo struct {
	Format     string
	Codec      string
	Width      int
	Height     int
	FrameRate  float64 // 0 when the source does not declare one
	FrameCount int64   // 0 when unknown
}

// RawFrame is a decoded I420 picture as handed out by a FrameSource.
// Planes may point into a buffer the source reuses on the next call.
type RawFrame struct {
	Planes       [][]byte // Y, U, V
	Strides      []int    // Row stride in bytes, one per plane
	Width        int
	Height       int
	Timestamp    time.Duration
	HasTimestamp bool
}

// VideoDecoder abstracts opening a media source for decoding.
type VideoDecoder interface {
	// Open prepares the source and returns an iterator over its frames.
	Open(ctx context.Context, src Source) (FrameSource, error)
}

// FrameSource produces raw frames in decode order.
type FrameSource interface {
	// Info returns the stream description discovered at open time.
	Info() StreamInfo

	// NextFrame decodes the next frame. It returns io.EOF at end of stream.
	// The returned planes are only valid until the next call.
	NextFrame() (RawFrame, error)

	// Close releases decoder resources.
	Close() error
}
