package server

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// ConsoleLevel grades a console message in the viewer
type ConsoleLevel string

const (
	LevelInfo    ConsoleLevel = "info"
	LevelWarning ConsoleLevel = "warning"
	LevelError   ConsoleLevel = "error"
)

// ConsoleMessage is one line of a render's console, sent as an SSE "console" event
type ConsoleMessage struct {
	RenderID  string       `json:"renderId"`
	Message   string       `json:"message"`
	Level     ConsoleLevel `json:"level"`
	Timestamp time.Time    `json:"timestamp"`
}

// WebLogger tees the log of one render to glog and to its SSE console.
// Messages that do not fit in the console queue are dropped and counted.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	dropped     atomic.Int64
}

// NewWebLogger creates the logger for one render. consoleChan may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf logs progress at info level
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.logf(LevelInfo, format, args...)
}

// Warningf logs a problem that does not stop the render
func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	wl.logf(LevelWarning, format, args...)
}

// Errorf logs a problem that ends the render
func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.logf(LevelError, format, args...)
}

func (wl *WebLogger) logf(level ConsoleLevel, format string, args ...interface{}) {
	message := strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")

	line := wl.renderID + ": " + message
	switch level {
	case LevelWarning:
		glog.WarningDepth(2, line)
	case LevelError:
		glog.ErrorDepth(2, line)
	default:
		glog.InfoDepth(2, line)
	}

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Level:     level,
		Timestamp: time.Now(),
	}:
	default:
		wl.dropped.Add(1)
	}
}

// RenderID returns the ID stamped on every message
func (wl *WebLogger) RenderID() string {
	return wl.renderID
}

// Dropped returns how many messages missed the console because it was full
func (wl *WebLogger) Dropped() int64 {
	return wl.dropped.Load()
}
