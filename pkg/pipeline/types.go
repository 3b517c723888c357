package pipeline

import (
	"context"
	"time"

	"github.com/user/yuvplay/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// FrameOfferer is the producer side of the frame channel.
type FrameOfferer interface {
	// Offer blocks until there is room or the channel closes.
	Offer(f *Frame) error
	// Close wakes every waiter and rejects further offers.
	Close()
}

// FrameTaker is the consumer side of the frame channel.
type FrameTaker interface {
	// TryTake waits at most timeout for the head frame.
	TryTake(timeout time.Duration) (*Frame, error)
	// Drain removes every queued frame.
	Drain() []*Frame
	// Close wakes every waiter and rejects further offers.
	Close()
	// Len returns the number of queued frames.
	Len() int
}

// Cloner materializes owned frames from decoder output.
type Cloner interface {
	Clone(raw ports.RawFrame, seq uint64) (*Frame, error)
}

// Pacer spaces present ticks.
type Pacer interface {
	// Wait blocks until the next tick is due or ctx is done.
	Wait(ctx context.Context) error
}

// DrainPolicy selects what happens to queued frames on a non-natural stop.
type DrainPolicy string

const (
	// DrainDiscard releases queued frames without presenting them.
	DrainDiscard DrainPolicy = "discard"
	// DrainPresentLast presents the newest queued frame and releases the rest.
	DrainPresentLast DrainPolicy = "present-last"
)

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains everything the decode loop needs.
type DecodeInput struct {
	Source    ports.FrameSource
	Channel   FrameOfferer
	Liveness  *Liveness
	Allocator Cloner
	MaxFrames int // Stop after this many frames (0 = no limit)
}

// DecodeResult summarizes one decode loop.
type DecodeResult struct {
	Frames   int           // Frames successfully offered
	Reason   StopReason    // Reason this stage stopped, if it initiated the stop
	Err      error         // Decode error that ended the stream, if any
	Blocked  time.Duration // Total time spent waiting in Offer
	Rejected bool          // Last frame was rejected by a closed channel
}

// =============================================================================
// Present Stage Types
// =============================================================================

// PresentInput contains everything the present loop needs.
type PresentInput struct {
	Surface              ports.Surface
	Channel              FrameTaker
	Liveness             *Liveness
	Pacer                Pacer
	TakeTimeout          time.Duration // Bounded wait per tick (default: 10ms)
	MaxConsecutiveErrors int           // Present failures in a row before stopping (default: 30)
	DrainPolicy          DrainPolicy   // Default: DrainDiscard
}

// DefaultPresentInput returns PresentInput with default values.
func DefaultPresentInput() PresentInput {
	return PresentInput{
		TakeTimeout:          10 * time.Millisecond,
		MaxConsecutiveErrors: 30,
		DrainPolicy:          DrainDiscard,
	}
}

// PresentResult summarizes one present loop.
type PresentResult struct {
	Ticks         int
	Presented     int
	EmptyTicks    int
	PresentErrors int
	Dropped       int    // Frames released without presenting at shutdown
	LastSeq       uint64 // Sequence number of the last presented frame
}
