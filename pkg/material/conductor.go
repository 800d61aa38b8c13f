package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Conductor represents a perfect mirror metal with Schlick Fresnel tinting
type Conductor struct {
	Reflectance core.Color // Normal-incidence reflectance
	Emission    core.Color
}

// NewConductor creates a non-emissive conductor
func NewConductor(reflectance core.Color) *Conductor {
	return &Conductor{Reflectance: reflectance}
}

// Emitted returns the surface emission
func (c *Conductor) Emitted() core.Color {
	return c.Emission
}

func (c *Conductor) material() {}

func (c *Conductor) scatter(si *SurfaceInteraction, wo core.Vec3) (ScatterResult, bool) {
	wi := Reflect(si.Normal, wo)
	cosI := AbsDot(si.Normal, wi)
	if cosI == 0 {
		return ScatterResult{}, false
	}

	fresnel := SchlickConductor(c.Reflectance, cosI)
	return ScatterResult{
		Incident: wi,
		BSDF:     fresnel.DivScalar(cosI),
		PDF:      1,
		Delta:    true,
	}, true
}
