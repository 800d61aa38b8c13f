package renderer

import (
	"image"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Raytracer renders a scene on the calling goroutine with a single sampler.
// It is the reference the tiled renderer is checked against.
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	film       *Film
}

// NewRaytracer creates a new raytracer sized by the scene's sampling config
func NewRaytracer(s *scene.Scene) *Raytracer {
	return &Raytracer{
		scene:      s,
		integrator: integrator.NewPathTracingIntegrator(s.SamplingConfig),
		film:       NewFilm(s.SamplingConfig.Width, s.SamplingConfig.Height),
	}
}

// SetIntegrator swaps the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// Film returns the accumulation buffer
func (rt *Raytracer) Film() *Film {
	return rt.film
}

// Render clears the film and takes SamplesPerPixel samples for every pixel.
// Equal seeds give identical films.
func (rt *Raytracer) Render() RenderStats {
	config := rt.scene.SamplingConfig
	rt.film.Clear()

	sampler := core.NewSeededSampler(config.Seed)
	tileRenderer := NewTileRenderer(rt.scene, rt.integrator)
	bounds := image.Rect(0, 0, rt.film.Width, rt.film.Height)

	stats := tileRenderer.RenderTileBounds(bounds, rt.film, sampler, config.SamplesPerPixel)
	rt.film.Samples = config.SamplesPerPixel
	stats.finalize(len(rt.film.Pixels), config.SamplesPerPixel)
	return stats
}

// RenderPass renders the scene and returns the tone-mapped image
func (rt *Raytracer) RenderPass() *image.RGBA {
	rt.Render()
	return rt.film.Image()
}
