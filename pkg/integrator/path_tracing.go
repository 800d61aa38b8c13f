package integrator

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// TMin is the smallest accepted hit distance, keeping spawned rays from
// re-hitting the surface they leave
const TMin = 0.001

// Russian Roulette survival probability bounds
const (
	minSurvival = 0.05
	maxSurvival = 0.95
)

var (
	skyHorizontal = core.NewColor(0.7, 0.7, 0.9)
	skyVertical   = core.NewColor(0.7, 0.9, 0.9)
)

type pathState int

const (
	stateTracing pathState = iota
	stateBackground
	stateTerminated
)

// PathTracingIntegrator implements unidirectional path tracing with one
// BSDF sample per bounce
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Color {
	return pt.Trace(ray, s, sampler).Radiance
}

// Trace follows a camera path until it escapes, is absorbed, or is terminated.
// Each bounce consumes exactly one 2D sample (plus one 1D sample per roulette
// test when Russian Roulette is enabled).
func (pt *PathTracingIntegrator) Trace(ray core.Ray, s *scene.Scene, sampler core.Sampler) PathResult {
	radiance := core.Black
	throughput := core.White
	result := PathResult{}

	state := stateTracing
	depth := 0
	for state == stateTracing {
		depth++
		if depth >= pt.config.MaxDepth {
			if pt.config.Termination == scene.TerminationSentinel {
				radiance = core.Red
			}
			result.Outcome = OutcomeMaxDepth
			state = stateTerminated
			break
		}

		if pt.shouldTerminate(result.Bounces, &throughput, sampler) {
			result.Outcome = OutcomeRoulette
			state = stateTerminated
			break
		}

		hit, isHit := s.Hit(ray, TMin, math.MaxFloat64)
		if !isHit {
			state = stateBackground
			break
		}

		radiance = radiance.Add(throughput.Mul(hit.Material.Emitted()))

		scatter, ok := material.Scatter(hit, sampler.Get2D(), hit.Wo)
		if !ok {
			result.Outcome = OutcomeAbsorbed
			state = stateTerminated
			break
		}

		throughput = throughput.Mul(scatter.Throughput(hit.Normal))
		ray = hit.SpawnRay(scatter.Incident)
		result.Bounces++
	}

	if state == stateBackground {
		radiance = radiance.Add(throughput.Mul(Background(ray.Direction)))
		result.Outcome = OutcomeEscaped
	}

	result.Radiance = radiance
	return result
}

// shouldTerminate applies Russian Roulette, reweighting the throughput of
// surviving paths so the estimate stays unbiased
func (pt *PathTracingIntegrator) shouldTerminate(bounces int, throughput *core.Color, sampler core.Sampler) bool {
	if pt.config.Termination != scene.TerminationRussianRoulette || bounces < pt.config.RussianRouletteMinBounces {
		return false
	}

	survivalProb := math.Min(maxSurvival, math.Max(minSurvival, throughput.Luminance()))
	if sampler.Get1D() >= survivalProb {
		return true
	}
	*throughput = throughput.DivScalar(survivalProb)
	return false
}

// Background returns the sky radiance seen along the unit direction dir
func Background(dir core.Vec3) core.Color {
	tx := 0.5 * (dir.X + 1)
	ty := 0.5 * (dir.Y + 1)
	return core.White.Scale(1 - tx - ty).
		Add(skyHorizontal.Scale(tx)).
		Add(skyVertical.Scale(ty))
}
