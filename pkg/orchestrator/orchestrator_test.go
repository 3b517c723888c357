package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/user/yuvplay/pkg/adapters/logger"
	"github.com/user/yuvplay/pkg/events"
	"github.com/user/yuvplay/pkg/metrics"
	"github.com/user/yuvplay/pkg/mocks"
	"github.com/user/yuvplay/pkg/pipeline"
	"github.com/user/yuvplay/pkg/ports"
	"github.com/user/yuvplay/pkg/stages/decode"
	"github.com/user/yuvplay/pkg/stages/present"
)

var testInfo = ports.StreamInfo{Format: "test", Width: 16, Height: 8, FrameRate: 500}

type harness struct {
	decoder   *mocks.VideoDecoder
	presenter *mocks.Presenter
	surface   *mocks.Surface
	sink      *mocks.DebugSink
	bus       *events.Bus
	metrics   *metrics.Pipeline
	orch      *Orchestrator
}

func newHarness(frames int) *harness {
	h := &harness{
		decoder: &mocks.VideoDecoder{Frames: frames, Info: testInfo},
		surface: &mocks.Surface{},
		sink:    mocks.NewDebugSink(true),
		bus:     events.New(),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	h.presenter = &mocks.Presenter{Surface: h.surface}
	h.rebuild()
	return h
}

func (h *harness) rebuild() {
	log := logger.NewNoop()
	h.orch = New(
		h.decoder,
		h.presenter,
		decode.NewStage(log, h.metrics),
		present.NewStage(log, h.metrics, h.sink, h.bus),
		h.sink,
		h.bus,
		h.metrics,
		log,
	)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Source = ports.Source{Path: "test.yuv"}
	cfg.TickInterval = time.Millisecond
	cfg.TakeTimeout = time.Millisecond
	return cfg
}

func TestOrchestrator_Run_EndOfStream(t *testing.T) {
	h := newHarness(10)
	terminated := make(chan struct{}, 1)
	defer h.bus.Subscribe(func(e events.StateChangedEvent) {
		if e.To == "terminated" {
			terminated <- struct{}{}
		}
	})()

	result, err := h.orch.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reason != pipeline.ReasonEndOfStream {
		t.Errorf("Reason = %s, want end-of-stream", result.Reason)
	}
	if result.Decode.Frames != 10 || result.Present.Presented != 10 {
		t.Errorf("decoded %d, presented %d, want 10 and 10", result.Decode.Frames, result.Present.Presented)
	}
	got := h.surface.PresentedFrames()
	for i, b := range got {
		if b != byte(i) {
			t.Fatalf("frame %d presented out of order (%d)", i, b)
		}
	}
	if result.Leaked != 0 {
		t.Errorf("Leaked = %d, want 0", result.Leaked)
	}
	if !h.decoder.LastSource.Closed() {
		t.Error("expected source to be closed")
	}
	if !h.surface.IsDestroyed() {
		t.Error("expected surface to be destroyed")
	}
	if h.surface.Width != 16 || h.surface.Height != 8 {
		t.Errorf("surface created at %dx%d", h.surface.Width, h.surface.Height)
	}

	var report Report
	if err := json.Unmarshal(h.sink.GetRunJSON(), &report); err != nil {
		t.Fatalf("run report is not valid JSON: %v", err)
	}
	if report.Presented != 10 || report.Reason != "end-of-stream" || report.Source != "test.yuv" {
		t.Errorf("unexpected report %+v", report)
	}

	if v := testutil.ToFloat64(h.metrics.FramesPresented); v != 10 {
		t.Errorf("presented counter = %v, want 10", v)
	}

	select {
	case <-terminated:
	case <-time.After(time.Second):
		t.Error("terminated transition was not published")
	}
}

func TestOrchestrator_Run_ZeroFrames(t *testing.T) {
	h := newHarness(0)

	result, err := h.orch.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("a source with zero frames must shut down cleanly, got %v", err)
	}
	if result.Reason != pipeline.ReasonEndOfStream || result.Present.Presented != 0 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestOrchestrator_Run_QuitWhileProducerBlocked(t *testing.T) {
	h := newHarness(100000)
	h.surface.QuitAfter = 3

	cfg := testConfig()
	cfg.QueueCapacity = 2

	done := make(chan RunResult, 1)
	go func() {
		result, _ := h.orch.Run(context.Background(), cfg)
		done <- result
	}()

	var result RunResult
	select {
	case result = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run deadlocked after quit")
	}

	if result.Reason != pipeline.ReasonUserQuit {
		t.Errorf("Reason = %s, want user-quit", result.Reason)
	}
	if result.Present.Presented != 3 {
		t.Errorf("Presented = %d, want 3", result.Present.Presented)
	}
	if result.Leaked != 0 {
		t.Errorf("Leaked = %d, want 0", result.Leaked)
	}
	if h.decoder.LastSource.Produced() >= 100000 {
		t.Error("decoder kept running after quit")
	}
}

func TestOrchestrator_Run_Canceled(t *testing.T) {
	h := newHarness(1 << 30)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result, err := h.orch.Run(ctx, testConfig())
	if err != nil {
		t.Fatalf("cancellation is not an error, got %v", err)
	}
	if result.Reason != pipeline.ReasonCanceled {
		t.Errorf("Reason = %s, want canceled", result.Reason)
	}
	if result.Leaked != 0 {
		t.Errorf("Leaked = %d, want 0", result.Leaked)
	}
}

func TestOrchestrator_Run_DecodeErrorPlaysOut(t *testing.T) {
	h := newHarness(10)
	h.decoder.OpenFunc = func(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
		fs := mocks.NewFrameSource(testInfo, 10)
		fs.ErrAt = errors.New("corrupt")
		fs.ErrAtIndex = 4
		return fs, nil
	}

	result, err := h.orch.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("decode errors must not be returned, got %v", err)
	}
	if result.Reason != pipeline.ReasonDecodeError {
		t.Errorf("Reason = %s, want decode-error", result.Reason)
	}
	if result.Present.Presented != 4 {
		t.Errorf("Presented = %d, want the 4 frames decoded before the error", result.Present.Presented)
	}
	if result.Decode.Err == nil {
		t.Error("expected the decode error to be recorded")
	}
}

func TestOrchestrator_Run_OpenFails(t *testing.T) {
	h := newHarness(1)
	h.decoder.OpenFunc = func(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
		return nil, errors.New("no such file")
	}

	_, err := h.orch.Run(context.Background(), testConfig())

	var initErr *pipeline.InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitError, got %v", err)
	}
	if initErr.Op != "open source" {
		t.Errorf("Op = %q, want open source", initErr.Op)
	}
	if h.presenter.CreateCalls != 0 {
		t.Error("surface must not be created when the source fails")
	}
}

func TestOrchestrator_Run_NoDimensions(t *testing.T) {
	h := newHarness(1)
	var opened *mocks.FrameSource
	h.decoder.OpenFunc = func(ctx context.Context, src ports.Source) (ports.FrameSource, error) {
		opened = mocks.NewFrameSource(ports.StreamInfo{Format: "yuv"}, 1)
		return opened, nil
	}

	_, err := h.orch.Run(context.Background(), testConfig())

	if !errors.Is(err, pipeline.ErrNoVideoStream) {
		t.Fatalf("expected ErrNoVideoStream, got %v", err)
	}
	if !opened.Closed() {
		t.Error("expected source to be closed on init failure")
	}
}

func TestStreamInfo(t *testing.T) {
	tests := []struct {
		name string
		info ports.StreamInfo
		src  ports.Source
		want ports.StreamInfo
	}{
		{
			name: "container wins",
			info: ports.StreamInfo{Format: "mp4", Width: 640, Height: 360, FrameRate: 30},
			src:  ports.Source{Width: 320, Height: 240, FrameRate: 25},
			want: ports.StreamInfo{Format: "mp4", Width: 640, Height: 360, FrameRate: 30},
		},
		{
			name: "raw falls back to source",
			info: ports.StreamInfo{},
			src:  ports.Source{Format: "yuv", Width: 320, Height: 240, FrameRate: 25},
			want: ports.StreamInfo{Format: "yuv", Width: 320, Height: 240, FrameRate: 25},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := streamInfo(tt.info, tt.src); got != tt.want {
				t.Errorf("streamInfo = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOrchestrator_Run_SurfaceFails(t *testing.T) {
	h := newHarness(1)
	h.presenter.CreateSurfaceFunc = func(width, height int) (ports.Surface, error) {
		return nil, errors.New("no display")
	}

	_, err := h.orch.Run(context.Background(), testConfig())

	var initErr *pipeline.InitError
	if !errors.As(err, &initErr) || initErr.Op != "create surface" {
		t.Fatalf("expected create surface InitError, got %v", err)
	}
	if !h.decoder.LastSource.Closed() {
		t.Error("expected source to be closed when the surface fails")
	}
}

func TestOrchestrator_Run_VSyncSurface(t *testing.T) {
	h := newHarness(5)
	h.surface.Sync = true

	cfg := testConfig()
	cfg.TickInterval = time.Hour // ignored for vsync surfaces

	done := make(chan RunResult, 1)
	go func() {
		result, _ := h.orch.Run(context.Background(), cfg)
		done <- result
	}()

	select {
	case result := <-done:
		if !result.VSync || result.Present.Presented != 5 {
			t.Errorf("unexpected result %+v", result)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("vsync surface was paced by the tick interval")
	}
}

func TestTakeTimeout(t *testing.T) {
	tests := []struct {
		name  string
		take  time.Duration
		tick  time.Duration
		vsync bool
		want  time.Duration
	}{
		{"below tick", 10 * time.Millisecond, 33 * time.Millisecond, false, 10 * time.Millisecond},
		{"equal to tick", 10 * time.Millisecond, 10 * time.Millisecond, false, 5 * time.Millisecond},
		{"above tick", 10 * time.Millisecond, 4 * time.Millisecond, false, 2 * time.Millisecond},
		{"vsync", 10 * time.Millisecond, time.Millisecond, true, 10 * time.Millisecond},
		{"no tick", 10 * time.Millisecond, 0, false, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := takeTimeout(tt.take, tt.tick, tt.vsync); got != tt.want {
				t.Errorf("takeTimeout(%v, %v, %v) = %v, want %v", tt.take, tt.tick, tt.vsync, got, tt.want)
			}
		})
	}
}
