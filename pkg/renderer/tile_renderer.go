package renderer

import (
	"image"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(s *scene.Scene, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integratorInst,
	}
}

// RenderTileBounds adds samples paths per pixel inside bounds to the film.
// Bounds are in image space (row 0 at the top). Each sample sweeps the whole
// tile before the next one starts.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, film *Film, sampler core.Sampler, samples int) RenderStats {
	var stats RenderStats
	for s := 0; s < samples; s++ {
		for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
			y := film.imageRow(row)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				result := tr.samplePixel(film, x, y, sampler)
				film.Add(x, y, result.Radiance)
				stats.recordPath(result)
			}
		}
	}
	return stats
}

// samplePixel traces one camera path through a jittered point of pixel (x, y)
func (tr *TileRenderer) samplePixel(film *Film, x, y int, sampler core.Sampler) integrator.PathResult {
	uv := film.Sample(x, y, sampler.Get2D())
	ray := tr.scene.Camera.RayTo(uv, sampler.Get2D())
	return tr.integrator.Trace(ray, tr.scene, sampler)
}
