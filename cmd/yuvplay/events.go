package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/yuvplay/pkg/events"
	"github.com/user/yuvplay/pkg/ports"
)

// eventWait bounds how long Save waits for the run-finished event to arrive.
const eventWait = 2 * time.Second

type recordedEvent struct {
	Type  string `json:"type"`
	Event any    `json:"event"`
}

// eventRecorder collects every bus event of a run as JSON lines.
type eventRecorder struct {
	mu       sync.Mutex
	records  []recordedEvent
	finished chan struct{}
	once     sync.Once
	unsubs   []func()
}

func newEventRecorder(bus *events.Bus) *eventRecorder {
	r := &eventRecorder{finished: make(chan struct{})}
	r.unsubs = []func(){
		bus.Subscribe(func(e events.StateChangedEvent) { r.add("state_changed", e) }),
		bus.Subscribe(func(e events.StreamOpenedEvent) { r.add("stream_opened", e) }),
		bus.Subscribe(func(e events.PresentErrorEvent) { r.add("present_error", e) }),
		bus.Subscribe(func(e events.RunFinishedEvent) {
			r.add("run_finished", e)
			r.once.Do(func() { close(r.finished) })
		}),
	}
	return r
}

func (r *eventRecorder) add(typ string, e any) {
	r.mu.Lock()
	r.records = append(r.records, recordedEvent{Type: typ, Event: e})
	r.mu.Unlock()
}

// Save waits up to wait for the run to finish, unsubscribes and writes the
// collected events to path.
func (r *eventRecorder) Save(fs ports.FileSystem, path string, wait time.Duration) error {
	select {
	case <-r.finished:
	case <-time.After(wait):
	}
	for _, unsub := range r.unsubs {
		unsub()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range r.records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if err := fs.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	return fs.WriteFile(path, buf.Bytes())
}
