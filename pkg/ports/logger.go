package ports

import "strings"

// LogLevel orders log output by severity.
type LogLevel int

const (
	// LevelDebug covers per-component detail such as individual frames
	// and pipeline state transitions.
	LevelDebug LogLevel = iota
	// LevelInfo covers run milestones: open, start, finish.
	LevelInfo
	// LevelWarn covers problems playback survives, like a failed present
	// or a frame that was never released.
	LevelWarn
	// LevelError covers failures that prevent playback from starting.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel maps a level name to a LogLevel. Unknown names yield
// LevelInfo.
func ParseLogLevel(s string) LogLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	for i, name := range levelNames {
		if s == name {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

// Logger is the logging surface every stage and adapter writes to.
// msg is an English lexicon key; implementations translate it before
// formatting args into it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags output with component.
	WithComponent(component string) Logger
}
