package mocks

import (
	"fmt"
	"sync"

	"github.com/user/yuvplay/pkg/ports"
)

// Logger records formatted messages per level.
type Logger struct {
	mu     sync.Mutex
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

// NewLogger creates a recording logger.
func NewLogger() *Logger {
	return &Logger{}
}

func (m *Logger) record(dst *[]string, msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(msg, args...))
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record(&m.Debugs, msg, args...) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record(&m.Infos, msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record(&m.Warns, msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record(&m.Errors, msg, args...) }

// WithComponent returns the same logger so every record lands in one place.
func (m *Logger) WithComponent(component string) ports.Logger {
	return m
}

// WarnCount returns the number of warnings logged.
func (m *Logger) WarnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Warns)
}

var _ ports.Logger = (*Logger)(nil)
