// Package framechan provides the bounded frame channel that decouples the
// decode loop from the present loop.
package framechan

import (
	"errors"
	"sync"
	"time"

	"github.com/user/yuvplay/pkg/pipeline"
)

var (
	// ErrClosed is returned by Offer after Close, and by TryTake once the
	// channel is closed and empty.
	ErrClosed = errors.New("framechan: channel closed")

	// ErrEmpty is returned by TryTake when no frame arrived before the timeout.
	ErrEmpty = errors.New("framechan: no frame available")
)

// Channel is a bounded FIFO of owned frames with one producer and one consumer.
//
// Offer blocks while the channel is full. TryTake waits a bounded time for
// the head frame. Close wakes both sides; frames already queued remain
// takeable in order.
type Channel struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf    []*pipeline.Frame
	head   int
	count  int
	closed bool
}

var (
	_ pipeline.FrameOfferer = (*Channel)(nil)
	_ pipeline.FrameTaker   = (*Channel)(nil)
)

// New creates a channel holding at most capacity frames.
// A capacity below 1 is raised to 1.
func New(capacity int) *Channel {
	if capacity < 1 {
		capacity = 1
	}
	c := &Channel{buf: make([]*pipeline.Frame, capacity)}
	c.notEmpty = sync.NewCond(&c.mu)
	c.notFull = sync.NewCond(&c.mu)
	return c
}

// Offer appends f, blocking while the channel is full.
// It returns ErrClosed if the channel is closed before or while waiting;
// the caller keeps ownership of f in that case.
func (c *Channel) Offer(f *pipeline.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.closed && c.count == len(c.buf) {
		c.notFull.Wait()
	}
	if c.closed {
		return ErrClosed
	}

	c.buf[(c.head+c.count)%len(c.buf)] = f
	c.count++
	c.notEmpty.Signal()
	return nil
}

// TryTake removes and returns the head frame, waiting at most timeout for
// one to arrive. A timeout of zero or less polls without waiting.
//
// It returns ErrEmpty on timeout and ErrClosed once the channel is closed
// and empty.
func (c *Channel) TryTake(timeout time.Duration) (*pipeline.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 && !c.closed && timeout > 0 {
		expired := false
		timer := time.AfterFunc(timeout, func() {
			c.mu.Lock()
			expired = true
			c.mu.Unlock()
			c.notEmpty.Broadcast()
		})
		for c.count == 0 && !c.closed && !expired {
			c.notEmpty.Wait()
		}
		timer.Stop()
	}

	if c.count == 0 {
		if c.closed {
			return nil, ErrClosed
		}
		return nil, ErrEmpty
	}
	return c.pop(), nil
}

// Drain removes and returns every queued frame, oldest first.
// Ownership of the returned frames passes to the caller.
func (c *Channel) Drain() []*pipeline.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	frames := make([]*pipeline.Frame, 0, c.count)
	for c.count > 0 {
		frames = append(frames, c.pop())
	}
	return frames
}

// Close marks the channel closed and wakes every waiter. It is idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// Len returns the number of queued frames.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Cap returns the channel capacity.
func (c *Channel) Cap() int {
	return len(c.buf)
}

// Closed reports whether Close has been called.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// pop must be called with mu held and count > 0.
func (c *Channel) pop() *pipeline.Frame {
	f := c.buf[c.head]
	c.buf[c.head] = nil
	c.head = (c.head + 1) % len(c.buf)
	c.count--
	c.notFull.Signal()
	return f
}
