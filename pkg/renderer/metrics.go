package renderer

import (
	"context"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	PathCount   = stats.Int64("pathtracer/paths", "Camera paths traced", stats.UnitDimensionless)
	PathBounces = stats.Int64("pathtracer/bounces", "Scatter events summed over camera paths", stats.UnitDimensionless)
	PassLatency = stats.Float64("pathtracer/pass_latency", "Wall time of one progressive pass", stats.UnitMilliseconds)

	OutcomeKey = tag.MustNewKey("outcome")
)

var (
	PathCountView = &view.View{
		Name:        "pathtracer/paths",
		Description: "Camera paths traced, by how they ended",
		TagKeys:     []tag.Key{OutcomeKey},
		Measure:     PathCount,
		Aggregation: view.Sum(),
	}

	PathBouncesView = &view.View{
		Name:        "pathtracer/bounces",
		Description: "Scatter events summed over camera paths",
		Measure:     PathBounces,
		Aggregation: view.Sum(),
	}

	PassLatencyView = &view.View{
		Name:        "pathtracer/pass_latency",
		Description: "Distribution of progressive pass wall times",
		Measure:     PassLatency,
		Aggregation: view.Distribution(10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000),
	}
)

// RegisterViews registers the renderer's views with the default exporter set
func RegisterViews() error {
	return view.Register(PathCountView, PathBouncesView, PassLatencyView)
}

// recordPassMetrics reports the path counters of one pass. Recording is a
// no-op until RegisterViews has been called.
func recordPassMetrics(ctx context.Context, renderStats RenderStats, elapsed time.Duration) {
	for _, outcome := range integrator.Outcomes {
		n := renderStats.Outcomes[outcome]
		if n == 0 {
			continue
		}
		stats.RecordWithOptions(ctx,
			stats.WithTags(tag.Upsert(OutcomeKey, outcome.String())),
			stats.WithMeasurements(PathCount.M(n)))
	}
	stats.Record(ctx,
		PathBounces.M(renderStats.TotalBounces),
		PassLatency.M(float64(elapsed)/float64(time.Millisecond)))
}
