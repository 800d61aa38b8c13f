package renderer

import (
	"fmt"
	"strings"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/golang/glog"
)

// GlogLogger implements core.Logger on top of glog's info log
type GlogLogger struct{}

func (gl *GlogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// NewGlogLogger creates a logger writing to glog
func NewGlogLogger() core.Logger {
	return &GlogLogger{}
}

// NewDefaultLogger creates the logger used when the caller does not supply one
func NewDefaultLogger() core.Logger {
	return NewGlogLogger()
}
