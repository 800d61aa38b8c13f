package geometry

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect returns the smallest t in [tMin, tMax] at which ray meets the
// sphere, trying the far root when the near one is too close, together with
// the outward unit normal at that point.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (float64, core.Vec3, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic a t² + 2b t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - a*c
	if discriminant < 0 {
		return 0, core.Vec3{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	t := -(b + sqrtD) / a
	if t < tMin {
		t = -(b - sqrtD) / a
	}
	if t < tMin || t > tMax {
		return 0, core.Vec3{}, false
	}

	normal := ray.At(t).Subtract(s.Center).Normalize()
	return t, normal, true
}

// Hit tests if a ray intersects with the sphere and fills in the interaction record
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	t, normal, ok := s.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	return &material.SurfaceInteraction{
		T:        t,
		Point:    ray.At(t),
		Normal:   normal,
		Wo:       ray.Direction.Negate(),
		Material: s.Material,
	}, true
}
