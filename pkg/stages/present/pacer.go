package present

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/user/yuvplay/pkg/pipeline"
)

// DefaultInterval is the tick interval when neither a tick nor a frame
// rate is known.
const DefaultInterval = 33 * time.Millisecond

// IntervalPacer releases one tick per interval.
// With a burst of one, a stalled tick never leads to a catch-up batch.
type IntervalPacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewIntervalPacer creates a pacer ticking every interval.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &IntervalPacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the next tick is due or ctx is done.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Interval returns the configured tick interval.
func (p *IntervalPacer) Interval() time.Duration {
	return p.interval
}

// NoopPacer never waits. Used for surfaces whose Present blocks on vsync.
type NoopPacer struct{}

// Wait returns immediately unless ctx is already done.
func (NoopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}

var (
	_ pipeline.Pacer = (*IntervalPacer)(nil)
	_ pipeline.Pacer = NoopPacer{}
)

// Interval picks the tick interval: tick if set, else one frame period at
// frameRate, else DefaultInterval.
func Interval(tick time.Duration, frameRate float64) time.Duration {
	if tick > 0 {
		return tick
	}
	if frameRate > 0 {
		return time.Duration(float64(time.Second) / frameRate)
	}
	return DefaultInterval
}

// NewPacer returns a NoopPacer for vsync surfaces and an IntervalPacer otherwise.
func NewPacer(vsync bool, interval time.Duration) pipeline.Pacer {
	if vsync {
		return NoopPacer{}
	}
	return NewIntervalPacer(interval)
}
