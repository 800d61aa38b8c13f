package material

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Diffuse represents a perfectly diffuse (Lambertian) material
type Diffuse struct {
	Reflectance core.Color // Albedo, each channel in [0, 1]
	Emission    core.Color
}

// NewDiffuse creates a non-emissive diffuse material
func NewDiffuse(reflectance core.Color) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

// Emitted returns the surface emission
func (d *Diffuse) Emitted() core.Color {
	return d.Emission
}

func (d *Diffuse) material() {}

// scatter samples a cosine-weighted direction on wo's side of the surface
func (d *Diffuse) scatter(si *SurfaceInteraction, u core.Vec2, wo core.Vec3) (ScatterResult, bool) {
	frame := core.NewFrameFromW(si.Normal)
	wi := frame.LocalToWorld(core.CosineHemisphere(u))
	if !SameHemisphere(si.Normal, wo, wi) {
		wi = wi.Negate()
	}

	pdf := core.CosineHemispherePDF(AbsDot(si.Normal, wi))
	if pdf <= 0 {
		// Grazing sample, the estimator would divide by zero
		return ScatterResult{}, false
	}

	return ScatterResult{
		Incident: wi,
		BSDF:     d.Reflectance.Scale(1.0 / math.Pi),
		PDF:      pdf,
	}, true
}
