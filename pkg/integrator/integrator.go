package integrator

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving at the ray origin along -ray.Direction
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Color

	// Trace is RayColor with bookkeeping about how the path ended
	Trace(ray core.Ray, scene *scene.Scene, sampler core.Sampler) PathResult
}

// Outcome records why a path stopped
type Outcome int

const (
	OutcomeEscaped  Outcome = iota // Left the scene and picked up the background
	OutcomeAbsorbed                // Scatter found no valid direction
	OutcomeMaxDepth                // Hit the depth limit
	OutcomeRoulette                // Killed by Russian Roulette

	NumOutcomes = 4
)

// Outcomes lists every outcome, in declaration order
var Outcomes = []Outcome{OutcomeEscaped, OutcomeAbsorbed, OutcomeMaxDepth, OutcomeRoulette}

// String returns the metric tag value for an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeEscaped:
		return "escaped"
	case OutcomeAbsorbed:
		return "absorbed"
	case OutcomeMaxDepth:
		return "max_depth"
	case OutcomeRoulette:
		return "roulette"
	default:
		return "unknown"
	}
}

// PathResult is the radiance estimate of one camera path
type PathResult struct {
	Radiance core.Color
	Bounces  int // Number of successful scatter events
	Outcome  Outcome
}
