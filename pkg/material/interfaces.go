package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Material is the closed set of surface models understood by Scatter:
// *Diffuse, *Conductor and *Dielectric. The unexported method keeps other
// packages from adding variants the scattering engine cannot dispatch.
type Material interface {
	// Emitted returns the radiance the surface emits. Black for the
	// built-in scenes, which are lit by the background alone.
	Emitted() core.Color

	material()
}

// ScatterResult is a sampled incident direction with its BSDF value and pdf
type ScatterResult struct {
	Incident core.Vec3  // Sampled world-space direction toward the next vertex
	BSDF     core.Color // BSDF value, already divided by |cosθi| for delta lobes
	PDF      float64    // Solid angle density, or the discrete lobe probability for delta lobes
	Delta    bool       // True for perfectly specular lobes
}

// Throughput returns the path throughput multiplier bsdf·|cosθi|/pdf
func (s ScatterResult) Throughput(normal core.Vec3) core.Color {
	return s.BSDF.Scale(AbsDot(normal, s.Incident) / s.PDF)
}

// SurfaceInteraction records a ray-surface intersection
type SurfaceInteraction struct {
	T        float64   // Parameter t along the ray
	Point    core.Vec3 // Point of intersection
	Normal   core.Vec3 // Outward unit normal, never flipped toward the ray
	Wo       core.Vec3 // Unit direction back toward the ray origin (-ray.Direction)
	Material Material  // Material of the hit object
}

// FrontFace reports whether the ray arrived from the side the normal points to
func (si *SurfaceInteraction) FrontFace() bool {
	return si.Normal.Dot(si.Wo) > 0
}

// SpawnRay starts a new ray at the hit point heading along dir. Callers
// intersect with a positive tMin to step off the surface.
func (si *SurfaceInteraction) SpawnRay(dir core.Vec3) core.Ray {
	return core.NewRay(si.Point, dir.Normalize())
}

// SpawnRayTo starts a new ray at the hit point heading toward target
func (si *SurfaceInteraction) SpawnRayTo(target core.Vec3) core.Ray {
	return core.NewRayTo(si.Point, target)
}
