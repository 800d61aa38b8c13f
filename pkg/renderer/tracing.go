package renderer

import (
	"context"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// glogSpanProcessor writes finished spans to the glog info log at verbosity 1
type glogSpanProcessor struct{}

func (glogSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

func (glogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if glog.V(1) {
		glog.Infof("span %s took %v %v", s.Name(), s.EndTime().Sub(s.StartTime()), s.Attributes())
	}
}

func (glogSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (glogSpanProcessor) ForceFlush(ctx context.Context) error { return nil }

// InstallTracing registers a global tracer provider that samples the given
// ratio of render traces and logs their spans. The returned func shuts it down.
func InstallTracing(ratio float64) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithSpanProcessor(glogSpanProcessor{}),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
