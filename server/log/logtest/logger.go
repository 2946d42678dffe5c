// Package logtest contains Loggers for tests that check what the server logs.
package logtest

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/jacobpatterson1549/mexican-train/server/log"
)

// DiscardLogger drops every message.
var DiscardLogger log.Logger = discardLogger{}

type discardLogger struct{}

// Printf does nothing.
func (discardLogger) Printf(format string, v ...interface{}) {}

// Logger records messages so tests can inspect them.  It is safe to use from multiple goroutines, such as a running game.
type Logger struct {
	mu  sync.RWMutex
	buf *bytes.Buffer
}

var _ log.Logger = NewLogger()

// NewLogger creates an empty Logger.
func NewLogger() *Logger {
	l := Logger{
		buf: new(bytes.Buffer),
	}
	return &l
}

// Printf records the formatted message.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.buf, format, v...)
}

// String is everything recorded.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.String()
}

// Empty determines if nothing has been recorded.
func (l *Logger) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len() == 0
}

// Contains determines if the recorded messages contain the text.
func (l *Logger) Contains(text string) bool {
	return strings.Contains(l.String(), text)
}

// Reset forgets everything recorded.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}
