// Package metrics provides Prometheus metrics for the playback pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "yuvplay"

// Pipeline holds the collectors updated by the decode and present stages.
// A nil *Pipeline is valid and records nothing.
type Pipeline struct {
	FramesDecoded   prometheus.Counter
	FramesPresented prometheus.Counter
	FramesDropped   prometheus.Counter
	EmptyTicks      prometheus.Counter
	PresentErrors   prometheus.Counter
	DecodeErrors    prometheus.Counter
	QueueDepth      prometheus.Gauge
	OfferWait       prometheus.Histogram
	State           *prometheus.GaugeVec
}

// New registers the pipeline collectors with reg.
// Pass prometheus.NewRegistry() for an isolated set.
func New(reg prometheus.Registerer) *Pipeline {
	f := promauto.With(reg)
	return &Pipeline{
		FramesDecoded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "frames_total",
			Help:      "Frames decoded and offered to the frame channel",
		}),
		DecodeErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "errors_total",
			Help:      "Decode failures that ended the stream",
		}),
		OfferWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "offer_wait_seconds",
			Help:      "Time the decoder spent blocked on a full frame channel",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		FramesPresented: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "present",
			Name:      "frames_total",
			Help:      "Frames handed to the surface",
		}),
		FramesDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "present",
			Name:      "dropped_frames_total",
			Help:      "Frames released without being presented",
		}),
		EmptyTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "present",
			Name:      "empty_ticks_total",
			Help:      "Ticks where no frame arrived within the take timeout",
		}),
		PresentErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "present",
			Name:      "errors_total",
			Help:      "Failed present calls",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "depth",
			Help:      "Frames currently queued between decode and present",
		}),
		State: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_state",
			Help:      "1 for the current lifecycle state, 0 otherwise",
		}, []string{"state"}),
	}
}

// FrameDecoded records one frame offered after waiting wait.
func (p *Pipeline) FrameDecoded(wait time.Duration) {
	if p == nil {
		return
	}
	p.FramesDecoded.Inc()
	p.OfferWait.Observe(wait.Seconds())
}

// DecodeFailed records a decode error.
func (p *Pipeline) DecodeFailed() {
	if p == nil {
		return
	}
	p.DecodeErrors.Inc()
}

// FramePresented records one successful present.
func (p *Pipeline) FramePresented() {
	if p == nil {
		return
	}
	p.FramesPresented.Inc()
}

// FrameDropped records n frames released without presenting.
func (p *Pipeline) FrameDropped(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.FramesDropped.Add(float64(n))
}

// EmptyTick records a tick with no frame.
func (p *Pipeline) EmptyTick() {
	if p == nil {
		return
	}
	p.EmptyTicks.Inc()
}

// PresentFailed records a failed present call.
func (p *Pipeline) PresentFailed() {
	if p == nil {
		return
	}
	p.PresentErrors.Inc()
}

// SetQueueDepth records the current channel length.
func (p *Pipeline) SetQueueDepth(n int) {
	if p == nil {
		return
	}
	p.QueueDepth.Set(float64(n))
}

// SetState marks state as current and clears every other known state.
func (p *Pipeline) SetState(state string, known ...string) {
	if p == nil {
		return
	}
	for _, s := range known {
		p.State.WithLabelValues(s).Set(0)
	}
	p.State.WithLabelValues(state).Set(1)
}
