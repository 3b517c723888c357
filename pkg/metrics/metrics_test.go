package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipeline_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FrameDecoded(2 * time.Millisecond)
	m.FrameDecoded(0)
	m.FramePresented()
	m.FrameDropped(3)
	m.FrameDropped(0)
	m.EmptyTick()
	m.PresentFailed()
	m.DecodeFailed()
	m.SetQueueDepth(2)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"decoded", m.FramesDecoded, 2},
		{"presented", m.FramesPresented, 1},
		{"dropped", m.FramesDropped, 3},
		{"empty ticks", m.EmptyTicks, 1},
		{"present errors", m.PresentErrors, 1},
		{"decode errors", m.DecodeErrors, 1},
		{"queue depth", m.QueueDepth, 2},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(m.OfferWait); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestPipeline_SetState(t *testing.T) {
	m := New(prometheus.NewRegistry())
	known := []string{"idle", "running", "stopping", "terminated"}

	m.SetState("running", known...)
	m.SetState("stopping", known...)

	if got := testutil.ToFloat64(m.State.WithLabelValues("stopping")); got != 1 {
		t.Errorf("stopping = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.State.WithLabelValues("running")); got != 0 {
		t.Errorf("running = %v, want 0", got)
	}
}

func TestPipeline_NilIsSafe(t *testing.T) {
	var m *Pipeline
	m.FrameDecoded(time.Second)
	m.FramePresented()
	m.FrameDropped(1)
	m.EmptyTick()
	m.PresentFailed()
	m.DecodeFailed()
	m.SetQueueDepth(1)
	m.SetState("running")
}

func TestServer_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.FramePresented()

	srv, err := Listen("127.0.0.1:0", reg)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		cancel()
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if !strings.Contains(string(body), "yuvplay_present_frames_total 1") {
		t.Errorf("metrics output missing presented counter:\n%s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
