package events

// Event type constants for kelindar/event.
const (
	TypeStateChanged uint32 = iota + 1
	TypeStreamOpened
	TypePresentError
	TypeRunFinished
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// StateChangedEvent reports a pipeline lifecycle transition.
type StateChangedEvent struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

// Type returns the event type identifier for StateChangedEvent.
func (e StateChangedEvent) Type() uint32 { return TypeStateChanged }

// StreamOpenedEvent is published once the source is open and its geometry known.
type StreamOpenedEvent struct {
	Path      string  `json:"path"`
	Format    string  `json:"format"`
	Codec     string  `json:"codec,omitempty"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
	Timestamp string  `json:"timestamp"`
}

// Type returns the event type identifier for StreamOpenedEvent.
func (e StreamOpenedEvent) Type() uint32 { return TypeStreamOpened }

// PresentErrorEvent reports a failed present call.
type PresentErrorEvent struct {
	Seq         uint64 `json:"seq"`
	Error       string `json:"error"`
	Consecutive int    `json:"consecutive"`
	Timestamp   string `json:"timestamp"`
}

// Type returns the event type identifier for PresentErrorEvent.
func (e PresentErrorEvent) Type() uint32 { return TypePresentError }

// RunFinishedEvent is published after the pipeline terminates.
type RunFinishedEvent struct {
	Reason    string `json:"reason"`
	Decoded   int    `json:"decoded"`
	Presented int    `json:"presented"`
	Dropped   int    `json:"dropped"`
	Leaked    int64  `json:"leaked"`
	Duration  string `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// Type returns the event type identifier for RunFinishedEvent.
func (e RunFinishedEvent) Type() uint32 { return TypeRunFinished }
