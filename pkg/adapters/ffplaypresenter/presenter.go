// Package ffplaypresenter displays frames by piping raw I420 into ffplay.
package ffplaypresenter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/user/yuvplay/pkg/adapters/ffbin"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

// ErrPlayerExited is returned by Present after the ffplay window closed.
var ErrPlayerExited = errors.New("ffplaypresenter: ffplay exited")

// ErrWriteTimeout is returned by Present while ffplay is not draining its
// input. The frame is dropped.
var ErrWriteTimeout = errors.New("ffplaypresenter: write to ffplay timed out")

// exitGrace is how long Destroy waits for ffplay after closing its input.
const exitGrace = 2 * time.Second

// defaultWriteTimeout bounds a single frame write to ffplay.
const defaultWriteTimeout = time.Second

// Options configures the ffplay process.
type Options struct {
	FFplayPath   string
	Title        string
	FrameRate    float64       // Tells ffplay how to timestamp input; 0 = 25
	WriteTimeout time.Duration // Longest wait for ffplay to accept a frame; 0 = 1s
}

// Presenter implements ports.Presenter by spawning ffplay.
type Presenter struct {
	opts Options
}

// New creates a new ffplay presenter.
func New(opts Options) *Presenter {
	if opts.Title == "" {
		opts.Title = "yuvplay"
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Presenter{opts: opts}
}

// IsAvailable reports whether an ffplay binary can be found.
func (p *Presenter) IsAvailable() bool {
	_, err := ffbin.Find("ffplay", p.opts.FFplayPath)
	return err == nil
}

// CreateSurface starts ffplay reading width x height frames from stdin.
func (p *Presenter) CreateSurface(width, height int) (ports.Surface, error) {
	if err := yuv.Validate(width, height); err != nil {
		return nil, err
	}
	path, err := ffbin.Find("ffplay", p.opts.FFplayPath)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(path, buildArgs(width, height, p.opts.FrameRate, p.opts.Title)...)
	return startSurface(cmd, width, height, p.opts.WriteTimeout)
}

// buildArgs returns the ffplay command line for raw I420 on stdin.
func buildArgs(width, height int, frameRate float64, title string) []string {
	if frameRate <= 0 {
		frameRate = 25
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "yuv420p",
		"-video_size", strconv.Itoa(width) + "x" + strconv.Itoa(height),
		"-framerate", strconv.FormatFloat(frameRate, 'f', -1, 64),
		"-window_title", title,
		"-autoexit",
		"-i", "-",
	}
}

func startSurface(cmd *exec.Cmd, width, height int, writeTimeout time.Duration) (*surface, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffplay: %w", err)
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	s := &surface{
		cmd:     cmd,
		stdin:   stdin,
		sizes:   yuv.PlaneSizes(width, height),
		timeout: writeTimeout,
		grace:   exitGrace,
		writes:  make(chan []byte, 1),
		results: make(chan error, 1),
		done:    make(chan struct{}),
	}
	s.buf.Grow(yuv.FrameSize(width, height))
	go func() {
		cmd.Wait()
		close(s.done)
	}()
	go s.writeLoop()
	return s, nil
}

type surface struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	sizes   [yuv.PlaneCount]yuv.PlaneSize
	timeout time.Duration
	grace   time.Duration

	// buf is owned by the write loop while a write is in flight.
	buf      bytes.Buffer
	writes   chan []byte
	results  chan error
	inFlight bool

	done   chan struct{}
	closed bool
}

// writeLoop owns the blocking pipe writes.
func (s *surface) writeLoop() {
	for frame := range s.writes {
		_, err := s.stdin.Write(frame)
		s.results <- err
	}
}

func (s *surface) exited() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Present writes one tightly packed frame to ffplay, waiting at most the
// write timeout for ffplay to accept it.
func (s *surface) Present(planes [][]byte, strides []int) error {
	if s.closed || s.exited() {
		return ErrPlayerExited
	}
	if s.inFlight {
		// A timed out write still holds buf.
		select {
		case err := <-s.results:
			s.inFlight = false
			if err != nil {
				return s.writeError(err)
			}
		default:
			return ErrWriteTimeout
		}
	}

	s.buf.Reset()
	if err := writeFrame(&s.buf, planes, strides, s.sizes); err != nil {
		return err
	}

	s.inFlight = true
	s.writes <- s.buf.Bytes()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case err := <-s.results:
		s.inFlight = false
		if err != nil {
			return s.writeError(err)
		}
		return nil
	case <-s.done:
		return ErrPlayerExited
	case <-timer.C:
		return ErrWriteTimeout
	}
}

func (s *surface) writeError(err error) error {
	if s.exited() {
		return ErrPlayerExited
	}
	return fmt.Errorf("write to ffplay: %w", err)
}

// PollQuit reports true once the user closed the ffplay window.
func (s *surface) PollQuit() bool {
	return s.exited()
}

// VSync is false: ffplay buffers input, so the caller paces writes.
func (s *surface) VSync() bool {
	return false
}

// Destroy closes ffplay's input and kills it if it does not exit within the
// grace period. A stalled write is released by the closed pipe.
func (s *surface) Destroy() error {
	if s.closed {
		return nil
	}
	s.closed = true

	close(s.writes)
	s.stdin.Close()
	select {
	case <-s.done:
	case <-time.After(s.grace):
		s.cmd.Process.Kill()
		<-s.done
	}
	return nil
}

// writeFrame writes every plane row by row, dropping stride padding.
func writeFrame(w io.Writer, planes [][]byte, strides []int, sizes [yuv.PlaneCount]yuv.PlaneSize) error {
	if len(planes) < yuv.PlaneCount || len(strides) < yuv.PlaneCount {
		return fmt.Errorf("ffplaypresenter: expected %d planes, got %d", yuv.PlaneCount, len(planes))
	}
	for i, size := range sizes {
		plane, stride := planes[i], strides[i]
		if stride < size.Width || len(plane) < stride*(size.Height-1)+size.Width {
			return fmt.Errorf("ffplaypresenter: plane %d does not fit %dx%d", i, size.Width, size.Height)
		}
		if stride == size.Width {
			if _, err := w.Write(plane[:size.Bytes()]); err != nil {
				return err
			}
			continue
		}
		for row := 0; row < size.Height; row++ {
			off := row * stride
			if _, err := w.Write(plane[off : off+size.Width]); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ ports.Presenter = (*Presenter)(nil)
