package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

const (
	// DefaultGridCells is the half-width of the grid of small spheres
	DefaultGridCells = 3
	// DefaultLayoutSeed seeds the sphere layout, independent of the render seed
	DefaultLayoutSeed = 1
)

// DefaultSamplingConfig returns the sampling settings shared by the built-in scenes
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:                     400,
		Height:                    300,
		SamplesPerPixel:           128,
		MaxDepth:                  64,
		Termination:               TerminationSentinel,
		RussianRouletteMinBounces: 8,
		Seed:                      42,
	}
}

// NewDefaultScene creates the random spheres scene: a huge ground sphere, a
// grid of small randomly assigned spheres and three large feature spheres
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	samplingConfig := DefaultSamplingConfig()

	// Default camera configuration
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   float64(samplingConfig.Width) / float64(samplingConfig.Height),
		VFov:          20.0,
		Aperture:      0.25,
		FocusDistance: 0.0, // Auto-calculate focus distance
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}

	random := rand.New(rand.NewSource(DefaultLayoutSeed))
	s.Add(GenerateRandomSpheres(random, DefaultGridCells)...)
	return s
}

// GenerateRandomSpheres lays out the random spheres world. Cells span
// [-nCells, nCells) on both ground axes; each holds one small sphere unless
// it would overlap the large conductor.
func GenerateRandomSpheres(random *rand.Rand, nCells int) []*geometry.Sphere {
	spheres := []*geometry.Sphere{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewDiffuse(core.Gray(0.5))),
	}

	randomColor := func() core.Color {
		r := random.Float64()
		g := random.Float64()
		b := random.Float64()
		return core.NewColor(r, g, b)
	}

	clearance := core.NewVec3(4, 0.2, 0)
	for a := -nCells; a < nCells; a++ {
		for b := -nCells; b < nCells; b++ {
			x := float64(a) + 0.9*random.Float64()
			z := float64(b) + 0.9*random.Float64()
			center := core.NewVec3(x, 0.2, z)
			choose := random.Float64()

			if center.Distance(clearance) <= 0.9 {
				continue
			}

			var mat material.Material
			switch {
			case choose < 0.8:
				albedo := randomColor()
				mat = material.NewDiffuse(albedo.Mul(randomColor()))
			case choose < 0.95:
				mat = material.NewConductor(core.Gray(0.5).Add(randomColor().Scale(0.5)))
			default:
				mat = material.NewDielectric(1.5)
			}
			spheres = append(spheres, geometry.NewSphere(center, 0.2, mat))
		}
	}

	return append(spheres,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewDiffuse(core.NewColor(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewConductor(core.NewColor(0.7, 0.6, 0.5))),
	)
}
