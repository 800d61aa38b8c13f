package scene

import (
	"fmt"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []*geometry.Sphere // Objects in the scene, intersected in order
	SamplingConfig SamplingConfig
	CameraConfig   geometry.CameraConfig
}

// Termination selects how paths that have not escaped are ended
type Termination int

const (
	// TerminationSentinel returns pure red once MaxDepth is reached, making
	// runaway paths visible in the image
	TerminationSentinel Termination = iota
	// TerminationRussianRoulette ends paths probabilistically after
	// RussianRouletteMinBounces and returns the radiance gathered so far at MaxDepth
	TerminationRussianRoulette
)

// String returns the flag name of the termination policy
func (t Termination) String() string {
	switch t {
	case TerminationSentinel:
		return "sentinel"
	case TerminationRussianRoulette:
		return "roulette"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// ParseTermination converts a flag value into a Termination
func ParseTermination(s string) (Termination, error) {
	switch s {
	case "sentinel", "":
		return TerminationSentinel, nil
	case "roulette":
		return TerminationRussianRoulette, nil
	default:
		return 0, fmt.Errorf("unknown termination policy %q (want sentinel or roulette)", s)
	}
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width                     int         // Image width
	Height                    int         // Image height
	SamplesPerPixel           int         // Number of camera paths per pixel
	MaxDepth                  int         // Maximum path length in vertices
	Termination               Termination // What to do with long paths
	RussianRouletteMinBounces int         // Bounces before Russian Roulette can activate
	Seed                      int64       // Root seed for every random stream of a render
}

// Validate reports the first invalid field of the configuration
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.RussianRouletteMinBounces < 0 {
		return fmt.Errorf("russian roulette min bounces must not be negative, got %d", c.RussianRouletteMinBounces)
	}
	if c.Termination != TerminationSentinel && c.Termination != TerminationRussianRoulette {
		return fmt.Errorf("unknown termination policy %v", c.Termination)
	}
	return nil
}

// Add appends spheres to the scene
func (s *Scene) Add(spheres ...*geometry.Sphere) {
	s.Shapes = append(s.Shapes, spheres...)
}

// Hit returns the closest intersection with t in [tMin, tMax]
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	hit, _, ok := s.HitShape(ray, tMin, tMax)
	return hit, ok
}

// HitShape is Hit that also reports which sphere was struck
func (s *Scene) HitShape(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, *geometry.Sphere, bool) {
	var closest *material.SurfaceInteraction
	var closestShape *geometry.Sphere
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closest = hit
			closestShape = shape
		}
	}

	return closest, closestShape, closest != nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// SetFilmSize changes the output resolution and rebuilds the camera so the
// aspect ratio tracks the film
func (s *Scene) SetFilmSize(width, height int) {
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	s.CameraConfig.AspectRatio = float64(width) / float64(height)
	s.Camera = geometry.NewCamera(s.CameraConfig)
}
