// Package present implements the consumer side of the playback pipeline.
package present

import (
	"context"
	"errors"
	"time"

	"github.com/user/yuvplay/pkg/events"
	"github.com/user/yuvplay/pkg/framechan"
	"github.com/user/yuvplay/pkg/metrics"
	"github.com/user/yuvplay/pkg/pipeline"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/yuv"
)

// Stage takes frames from the channel once per tick and presents them on
// a surface. It must run on the goroutine that created the surface.
type Stage struct {
	logger  ports.Logger
	metrics *metrics.Pipeline
	sink    ports.DebugSink
	bus     *events.Bus
}

var _ pipeline.PresentStage = (*Stage)(nil)

// NewStage creates a new present stage. m, sink and bus may be nil.
func NewStage(logger ports.Logger, m *metrics.Pipeline, sink ports.DebugSink, bus *events.Bus) *Stage {
	return &Stage{
		logger:  logger.WithComponent("present"),
		metrics: m,
		sink:    sink,
		bus:     bus,
	}
}

// run holds the per-Execute loop state.
type run struct {
	input       pipeline.PresentInput
	result      pipeline.PresentResult
	consecutive int
}

// Execute runs the present loop until the pipeline stops, then plays out
// or drains the channel and destroys the surface.
//
// The returned error is always nil; failures become stop reasons.
func (s *Stage) Execute(ctx context.Context, input pipeline.PresentInput) (pipeline.PresentResult, error) {
	r := &run{input: withDefaults(input)}

	s.loop(ctx, r)

	switch r.input.Liveness.Reason() {
	case pipeline.ReasonEndOfStream, pipeline.ReasonDecodeError:
		s.playout(ctx, r)
	}
	s.drain(r)

	if err := r.input.Surface.Destroy(); err != nil {
		s.logger.Warn("Failed to destroy surface: %s", err.Error())
	}

	s.logger.Debug("Present loop finished: %d ticks, %d presented, %d empty, %d errors, %d dropped",
		r.result.Ticks, r.result.Presented, r.result.EmptyTicks, r.result.PresentErrors, r.result.Dropped)
	return r.result, nil
}

func withDefaults(input pipeline.PresentInput) pipeline.PresentInput {
	def := pipeline.DefaultPresentInput()
	if input.TakeTimeout <= 0 {
		input.TakeTimeout = def.TakeTimeout
	}
	if input.MaxConsecutiveErrors <= 0 {
		input.MaxConsecutiveErrors = def.MaxConsecutiveErrors
	}
	if input.DrainPolicy == "" {
		input.DrainPolicy = def.DrainPolicy
	}
	if input.Pacer == nil {
		input.Pacer = NoopPacer{}
	}
	return input
}

func (s *Stage) loop(ctx context.Context, r *run) {
	in := r.input
	for in.Liveness.Running() {
		if ctx.Err() != nil {
			s.stop(r, pipeline.ReasonCanceled)
			return
		}
		if in.Surface.PollQuit() {
			s.logger.Debug("Quit requested")
			s.stop(r, pipeline.ReasonUserQuit)
			return
		}

		r.result.Ticks++
		if closed := s.tick(r); closed {
			return
		}

		if err := in.Pacer.Wait(ctx); err != nil {
			s.stop(r, pipeline.ReasonCanceled)
			return
		}
	}
}

// playout presents what is still queued after a natural end of stream.
// A quit or cancellation switches to the drain policy.
func (s *Stage) playout(ctx context.Context, r *run) {
	in := r.input
	if in.Channel.Len() > 0 {
		s.logger.Debug("Playing out %d queued frames", in.Channel.Len())
	}
	for {
		if ctx.Err() != nil || in.Surface.PollQuit() {
			return
		}
		r.result.Ticks++
		if closed := s.tick(r); closed {
			return
		}
		if err := in.Pacer.Wait(ctx); err != nil {
			return
		}
	}
}

// tick takes at most one frame and presents it. It reports whether the
// channel is closed and empty.
func (s *Stage) tick(r *run) bool {
	in := r.input
	frame, err := in.Channel.TryTake(in.TakeTimeout)
	switch {
	case errors.Is(err, framechan.ErrClosed):
		return true
	case errors.Is(err, framechan.ErrEmpty):
		r.result.EmptyTicks++
		s.metrics.EmptyTick()
		return false
	case err != nil:
		s.logger.Warn("Unexpected take error: %s", err.Error())
		return false
	}

	s.present(r, frame)
	s.metrics.SetQueueDepth(in.Channel.Len())
	return false
}

// present hands frame to the surface and releases it either way.
func (s *Stage) present(r *run, frame *pipeline.Frame) bool {
	defer frame.Release()

	if err := r.input.Surface.Present(frame.PlaneData(), frame.Strides()); err != nil {
		r.consecutive++
		r.result.PresentErrors++
		s.metrics.PresentFailed()
		s.logger.Warn("Present failed for frame %d: %s", frame.Seq, err.Error())
		s.bus.Publish(events.PresentErrorEvent{
			Seq:         frame.Seq,
			Error:       err.Error(),
			Consecutive: r.consecutive,
			Timestamp:   time.Now().Format(time.RFC3339Nano),
		})
		if r.consecutive >= r.input.MaxConsecutiveErrors {
			s.logger.Warn("%d consecutive present failures, stopping", r.consecutive)
			s.stop(r, pipeline.ReasonPresentError)
		}
		return false
	}

	r.consecutive = 0
	r.result.Presented++
	r.result.LastSeq = frame.Seq
	s.metrics.FramePresented()

	if r.result.Presented == 1 {
		s.saveFirstFrame(frame)
	}
	return true
}

func (s *Stage) saveFirstFrame(frame *pipeline.Frame) {
	if s.sink == nil || !s.sink.Enabled() {
		return
	}
	img, err := yuv.ToImage(frame.PlaneData(), frame.Strides(), frame.Width, frame.Height)
	if err != nil {
		s.logger.Warn("Failed to save debug frame: %s", err.Error())
		return
	}
	if err := s.sink.SaveFrame(frame.Seq, img); err != nil {
		s.logger.Warn("Failed to save debug frame: %s", err.Error())
	}
}

// drain empties the channel according to the drain policy.
func (s *Stage) drain(r *run) {
	frames := r.input.Channel.Drain()
	if len(frames) == 0 {
		return
	}

	if r.input.DrainPolicy == pipeline.DrainPresentLast {
		last := frames[len(frames)-1]
		frames = frames[:len(frames)-1]
		if !s.present(r, last) {
			r.result.Dropped++
		}
	}

	for _, f := range frames {
		f.Release()
	}
	r.result.Dropped += len(frames)
	s.metrics.FrameDropped(r.result.Dropped)
	s.metrics.SetQueueDepth(0)
	s.logger.Debug("Drained %d frames without presenting", r.result.Dropped)
}

func (s *Stage) stop(r *run, reason pipeline.StopReason) {
	r.input.Liveness.Stop(reason)
	r.input.Channel.Close()
}
