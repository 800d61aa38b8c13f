package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	IOR      float64 // Index of refraction (e.g., 1.5 for glass)
	Emission core.Color
}

// NewDielectric creates a new dielectric material
func NewDielectric(ior float64) *Dielectric {
	return &Dielectric{IOR: ior}
}

// Emitted returns the surface emission
func (d *Dielectric) Emitted() core.Color {
	return d.Emission
}

func (d *Dielectric) material() {}

// scatter picks reflection with probability F and refraction otherwise
func (d *Dielectric) scatter(si *SurfaceInteraction, u core.Vec2, wo core.Vec3) (ScatterResult, bool) {
	cosO := si.Normal.Dot(wo)

	// eta is the index on wo's side over the index on the far side
	eta := d.IOR
	if cosO > 0 {
		eta = 1 / d.IOR
	}

	fresnel := SchlickDielectric(1/eta, AbsDot(si.Normal, wo))
	if u.X < fresnel {
		wi := Reflect(si.Normal, wo)
		cosI := AbsDot(si.Normal, wi)
		if cosI == 0 {
			return ScatterResult{}, false
		}
		return ScatterResult{
			Incident: wi,
			BSDF:     core.White.Scale(fresnel / cosI),
			PDF:      fresnel,
			Delta:    true,
		}, true
	}

	wi, ok := Refract(eta, si.Normal, wo)
	if !ok {
		return ScatterResult{}, false
	}
	cosI := AbsDot(si.Normal, wi)
	if cosI == 0 {
		return ScatterResult{}, false
	}

	// Radiance is compressed into the solid angle on the denser side
	return ScatterResult{
		Incident: wi,
		BSDF:     core.White.Scale((1 - fresnel) * eta * eta / cosI),
		PDF:      1 - fresnel,
		Delta:    true,
	}, true
}
