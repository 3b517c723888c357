package pipeline

import (
	"sync"
	"sync/atomic"
)

// State is a pipeline lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateTerminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// StopReason records why the pipeline left the running state.
type StopReason int32

const (
	ReasonNone StopReason = iota
	// ReasonUserQuit: the surface reported a quit request.
	ReasonUserQuit
	// ReasonEndOfStream: the source is exhausted or a frame limit was reached.
	ReasonEndOfStream
	// ReasonDecodeError: the decoder failed; treated as end of stream.
	ReasonDecodeError
	// ReasonPresentError: presentation failed on too many consecutive ticks.
	ReasonPresentError
	// ReasonCanceled: the run context was canceled (signal).
	ReasonCanceled
)

// String returns the string representation of the reason.
func (r StopReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUserQuit:
		return "user-quit"
	case ReasonEndOfStream:
		return "end-of-stream"
	case ReasonDecodeError:
		return "decode-error"
	case ReasonPresentError:
		return "present-error"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Transition describes one lifecycle state change.
type Transition struct {
	From   State
	To     State
	Reason StopReason
}

// Liveness is the lifecycle flag shared by both stages.
// Every read and write is atomic; Stop succeeds at most once.
type Liveness struct {
	state    atomic.Int32
	reason   atomic.Int32
	mu       sync.Mutex
	observer func(Transition)
}

// NewLiveness creates a Liveness in the idle state.
// observer, if not nil, is called synchronously after each transition.
func NewLiveness(observer func(Transition)) *Liveness {
	return &Liveness{observer: observer}
}

// Start moves Idle to Running. It returns false if the pipeline already left Idle.
func (l *Liveness) Start() bool {
	return l.transition(StateIdle, StateRunning, ReasonNone)
}

// Stop moves Idle or Running to Stopping and records reason.
// Only the first call succeeds; later calls are no-ops returning false.
func (l *Liveness) Stop(reason StopReason) bool {
	l.mu.Lock()
	from := l.State()
	if from != StateIdle && from != StateRunning {
		l.mu.Unlock()
		return false
	}
	l.reason.Store(int32(reason))
	l.state.Store(int32(StateStopping))
	l.mu.Unlock()

	l.notify(Transition{From: from, To: StateStopping, Reason: reason})
	return true
}

// Terminate moves Stopping to Terminated.
func (l *Liveness) Terminate() bool {
	return l.transition(StateStopping, StateTerminated, l.Reason())
}

// Running reports whether the pipeline is in the running state.
func (l *Liveness) Running() bool {
	return l.State() == StateRunning
}

// State returns the current state.
func (l *Liveness) State() State {
	return State(l.state.Load())
}

// Reason returns the recorded stop reason, or ReasonNone while running.
func (l *Liveness) Reason() StopReason {
	return StopReason(l.reason.Load())
}

func (l *Liveness) transition(from, to State, reason StopReason) bool {
	l.mu.Lock()
	if l.State() != from {
		l.mu.Unlock()
		return false
	}
	l.state.Store(int32(to))
	l.mu.Unlock()

	l.notify(Transition{From: from, To: to, Reason: reason})
	return true
}

func (l *Liveness) notify(t Transition) {
	if l.observer != nil {
		l.observer(t)
	}
}
