// Package decode implements the producer side of the playback pipeline.
package decode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/yuvplay/pkg/metrics"
	"github.com/user/yuvplay/pkg/pipeline"
	"github.com/user/yuvplay/pkg/ports"
)

// Stage pulls frames from a source, clones them and offers them to the
// frame channel until the stream ends or the pipeline stops.
type Stage struct {
	logger  ports.Logger
	metrics *metrics.Pipeline
}

var _ pipeline.DecodeStage = (*Stage)(nil)

// NewStage creates a new decode stage. m may be nil.
func NewStage(logger ports.Logger, m *metrics.Pipeline) *Stage {
	return &Stage{
		logger:  logger.WithComponent("decode"),
		metrics: m,
	}
}

// Execute runs the decode loop on the calling goroutine.
//
// Decode failures end the stream and are reported in the result rather
// than returned; the returned error is always nil.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}
	var seq uint64

	for {
		if !input.Liveness.Running() {
			s.logger.Debug("Consumer stopped, decoder exiting after %d frames", result.Frames)
			return result, nil
		}
		if ctx.Err() != nil {
			s.stop(input, pipeline.ReasonCanceled, &result)
			return result, nil
		}
		if input.MaxFrames > 0 && result.Frames >= input.MaxFrames {
			s.logger.Debug("Frame limit %d reached", input.MaxFrames)
			s.stop(input, pipeline.ReasonEndOfStream, &result)
			return result, nil
		}

		raw, err := input.Source.NextFrame()
		if errors.Is(err, io.EOF) {
			s.logger.Debug("End of stream after %d frames", result.Frames)
			s.stop(input, pipeline.ReasonEndOfStream, &result)
			return result, nil
		}
		if err != nil {
			s.fail(input, fmt.Errorf("decode frame %d: %w", seq, err), &result)
			return result, nil
		}

		frame, err := input.Allocator.Clone(raw, seq)
		if err != nil {
			s.fail(input, fmt.Errorf("clone frame %d: %w", seq, err), &result)
			return result, nil
		}

		start := time.Now()
		err = input.Channel.Offer(frame)
		wait := time.Since(start)
		result.Blocked += wait

		if err != nil {
			// Closed by the consumer; the frame never left this stage.
			frame.Release()
			result.Rejected = true
			s.logger.Debug("Frame %d rejected by closed channel", seq)
			return result, nil
		}

		s.metrics.FrameDecoded(wait)
		result.Frames++
		seq++
	}
}

func (s *Stage) stop(input pipeline.DecodeInput, reason pipeline.StopReason, result *pipeline.DecodeResult) {
	if input.Liveness.Stop(reason) {
		result.Reason = reason
	}
	input.Channel.Close()
}

func (s *Stage) fail(input pipeline.DecodeInput, err error, result *pipeline.DecodeResult) {
	s.logger.Warn("Decode failed, ending stream: %s", err.Error())
	s.metrics.DecodeFailed()
	result.Err = err
	s.stop(input, pipeline.ReasonDecodeError, result)
}
