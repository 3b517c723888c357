// Package orchestrator wires the decode and present stages around a frame
// channel and runs one playback to completion.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/user/yuvplay/pkg/events"
	"github.com/user/yuvplay/pkg/framechan"
	"github.com/user/yuvplay/pkg/metrics"
	"github.com/user/yuvplay/pkg/pipeline"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/stages/present"
)

// Config contains all configuration for one playback run.
type Config struct {
	Source ports.Source

	// Channel
	QueueCapacity int

	// Present loop
	TakeTimeout      time.Duration
	TickInterval     time.Duration // 0 = one frame period, or 33ms without a frame rate
	MaxPresentErrors int
	DrainPolicy      pipeline.DrainPolicy

	// Decode loop
	MaxFrames int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	def := pipeline.DefaultPresentInput()
	return Config{
		QueueCapacity:    4,
		TakeTimeout:      def.TakeTimeout,
		MaxPresentErrors: def.MaxConsecutiveErrors,
		DrainPolicy:      def.DrainPolicy,
	}
}

// RunResult describes a finished playback.
type RunResult struct {
	Source        ports.Source
	Stream        ports.StreamInfo
	Decode        pipeline.DecodeResult
	Present       pipeline.PresentResult
	Reason        pipeline.StopReason
	StartedAt     time.Time
	Duration      time.Duration
	Leaked        int64 // Frames never released; zero on a correct run
	QueueCapacity int
	TickInterval  time.Duration
	VSync         bool
}

// Orchestrator coordinates the two pipeline stages.
type Orchestrator struct {
	decoder      ports.VideoDecoder
	presenter    ports.Presenter
	decodeStage  pipeline.DecodeStage
	presentStage pipeline.PresentStage
	sink         ports.DebugSink
	bus          *events.Bus
	metrics      *metrics.Pipeline
	logger       ports.Logger
}

// New creates a new Orchestrator. bus and m may be nil.
func New(
	decoder ports.VideoDecoder,
	presenter ports.Presenter,
	decodeStage pipeline.DecodeStage,
	presentStage pipeline.PresentStage,
	sink ports.DebugSink,
	bus *events.Bus,
	m *metrics.Pipeline,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		decoder:      decoder,
		presenter:    presenter,
		decodeStage:  decodeStage,
		presentStage: presentStage,
		sink:         sink,
		bus:          bus,
		metrics:      m,
		logger:       logger,
	}
}

// Run plays config.Source until the user quits, the stream ends or ctx is
// canceled. The present loop runs on the calling goroutine, which must be
// the one allowed to own the display surface.
//
// Only setup failures are returned, as *pipeline.InitError. Everything
// after the pipeline starts ends in an orderly shutdown reported by
// RunResult.Reason.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	config = withDefaults(config)

	o.logger.Info("Opening %s", config.Source.Path)
	src, err := o.decoder.Open(ctx, config.Source)
	if err != nil {
		o.logger.Error("Failed to open source: %s", err.Error())
		return RunResult{}, &pipeline.InitError{Op: "open source", Err: err}
	}

	info := streamInfo(src.Info(), config.Source)
	alloc, err := pipeline.NewAllocator(info.Width, info.Height)
	if err != nil {
		src.Close()
		o.logger.Error("Failed to open source: %s", pipeline.ErrNoVideoStream.Error())
		return RunResult{}, &pipeline.InitError{
			Op:  "open source",
			Err: fmt.Errorf("%w: %v", pipeline.ErrNoVideoStream, err),
		}
	}

	surface, err := o.presenter.CreateSurface(info.Width, info.Height)
	if err != nil {
		src.Close()
		o.logger.Error("Failed to create surface: %s", err.Error())
		return RunResult{}, &pipeline.InitError{Op: "create surface", Err: err}
	}

	o.bus.Publish(events.StreamOpenedEvent{
		Path:      config.Source.Path,
		Format:    info.Format,
		Codec:     info.Codec,
		Width:     info.Width,
		Height:    info.Height,
		FrameRate: info.FrameRate,
		Timestamp: now(),
	})

	result := RunResult{
		Source:        config.Source,
		Stream:        info,
		QueueCapacity: config.QueueCapacity,
		TickInterval:  present.Interval(config.TickInterval, info.FrameRate),
		VSync:         surface.VSync(),
	}
	o.logger.Info("Playing %dx%d at %.2f fps", info.Width, info.Height, info.FrameRate)

	ch := framechan.New(config.QueueCapacity)
	live := pipeline.NewLiveness(o.observe)

	result.StartedAt = time.Now()
	live.Start()
	stopOnCancel := context.AfterFunc(ctx, func() {
		live.Stop(pipeline.ReasonCanceled)
		ch.Close()
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		result.Decode, _ = o.decodeStage.Execute(ctx, pipeline.DecodeInput{
			Source:    src,
			Channel:   ch,
			Liveness:  live,
			Allocator: alloc,
			MaxFrames: config.MaxFrames,
		})
	}()

	presentResult, _ := o.presentStage.Execute(ctx, pipeline.PresentInput{
		Surface:              surface,
		Channel:              ch,
		Liveness:             live,
		Pacer:                present.NewPacer(result.VSync, result.TickInterval),
		TakeTimeout:          takeTimeout(config.TakeTimeout, result.TickInterval, result.VSync),
		MaxConsecutiveErrors: config.MaxPresentErrors,
		DrainPolicy:          config.DrainPolicy,
	})

	// The present loop has returned; make sure the producer cannot stay
	// blocked, then join it.
	live.Stop(pipeline.ReasonCanceled)
	ch.Close()
	wg.Wait()
	stopOnCancel()

	for _, f := range ch.Drain() {
		f.Release()
		presentResult.Dropped++
	}
	result.Present = presentResult

	if err := src.Close(); err != nil {
		o.logger.Warn("Failed to close source: %s", err.Error())
	}
	live.Terminate()

	result.Reason = live.Reason()
	result.Duration = time.Since(result.StartedAt)
	result.Leaked = alloc.Outstanding()
	if result.Leaked != 0 {
		o.logger.Warn("%d frames were not released", result.Leaked)
	}

	o.logger.Info("Playback finished (%s): %d decoded, %d presented, %d dropped",
		result.Reason, result.Decode.Frames, result.Present.Presented, result.Present.Dropped)
	o.bus.Publish(events.RunFinishedEvent{
		Reason:    result.Reason.String(),
		Decoded:   result.Decode.Frames,
		Presented: result.Present.Presented,
		Dropped:   result.Present.Dropped,
		Leaked:    result.Leaked,
		Duration:  result.Duration.String(),
		Timestamp: now(),
	})

	if o.sink != nil && o.sink.Enabled() {
		if data, err := json.MarshalIndent(NewReport(result), "", "  "); err == nil {
			if err := o.sink.SaveRunJSON(data); err != nil {
				o.logger.Warn("Failed to save run report: %s", err.Error())
			}
		}
	}

	return result, nil
}

func (o *Orchestrator) observe(t pipeline.Transition) {
	o.logger.Debug("Pipeline %s -> %s (%s)", t.From, t.To, t.Reason)
	o.metrics.SetState(t.To.String(), knownStates...)
	o.bus.Publish(events.StateChangedEvent{
		From:      t.From.String(),
		To:        t.To.String(),
		Reason:    t.Reason.String(),
		Timestamp: now(),
	})
}

var knownStates = []string{
	pipeline.StateIdle.String(),
	pipeline.StateRunning.String(),
	pipeline.StateStopping.String(),
	pipeline.StateTerminated.String(),
}

// takeTimeout keeps the per-tick wait below a timer-paced tick interval.
func takeTimeout(take, tick time.Duration, vsync bool) time.Duration {
	if vsync || tick <= 0 || take < tick {
		return take
	}
	return tick / 2
}

func withDefaults(config Config) Config {
	def := DefaultConfig()
	if config.QueueCapacity < 1 {
		config.QueueCapacity = def.QueueCapacity
	}
	if config.TakeTimeout <= 0 {
		config.TakeTimeout = def.TakeTimeout
	}
	if config.MaxPresentErrors <= 0 {
		config.MaxPresentErrors = def.MaxPresentErrors
	}
	if config.DrainPolicy == "" {
		config.DrainPolicy = def.DrainPolicy
	}
	return config
}

// streamInfo fills gaps in the decoder's stream info from the requested source.
func streamInfo(info ports.StreamInfo, src ports.Source) ports.StreamInfo {
	if info.Width <= 0 || info.Height <= 0 {
		info.Width, info.Height = src.Width, src.Height
	}
	if info.FrameRate <= 0 {
		info.FrameRate = src.FrameRate
	}
	if info.Format == "" {
		info.Format = src.Format
	}
	return info
}

func now() string {
	return time.Now().Format(time.RFC3339Nano)
}
