package material

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// AbsDot returns |a·b|
func AbsDot(a, b core.Vec3) float64 {
	return math.Abs(a.Dot(b))
}

// SameHemisphere reports whether wo and wi lie on the same side of the
// surface with normal n
func SameHemisphere(n, wo, wi core.Vec3) bool {
	return n.Dot(wo)*n.Dot(wi) > 0
}

// FaceForward returns n flipped if needed so that it points into the same
// hemisphere as v
func FaceForward(n, v core.Vec3) core.Vec3 {
	if n.Dot(v) < 0 {
		return n.Negate()
	}
	return n
}

// Reflect mirrors wo about n. Both point away from the surface.
func Reflect(n, wo core.Vec3) core.Vec3 {
	return wo.Negate().Add(n.Multiply(2 * n.Dot(wo)))
}

// Refract bends wo through the interface with normal n using Snell's law.
// eta is the index on wo's side divided by the index on the far side.
// Returns false on total internal reflection.
func Refract(eta float64, n, wo core.Vec3) (core.Vec3, bool) {
	cosO := n.Dot(wo)
	sin2O := math.Max(0, 1-cosO*cosO)
	sin2I := eta * eta * sin2O
	if sin2I > 1 {
		return core.Vec3{}, false
	}

	cosI := math.Sqrt(math.Max(0, 1-sin2I))
	if cosO >= 0 {
		cosI = -cosI
	}
	wi := wo.Multiply(-eta).Add(n.Multiply(eta*cosO + cosI))
	return wi, true
}

// SchlickConductor approximates the Fresnel reflectance of a metal whose
// normal-incidence reflectance is r0
func SchlickConductor(r0 core.Color, cosTheta float64) core.Color {
	c := math.Max(0, math.Min(1, 1-cosTheta))
	return r0.Add(core.White.Sub(r0).Scale(c * c * c * c * c))
}

// SchlickDielectric approximates the Fresnel reflectance of a dielectric
// interface. eta is the index on the far side divided by the index on the
// near side, cosTheta the cosine on the near side. Returns 1 on total
// internal reflection.
func SchlickDielectric(eta, cosTheta float64) float64 {
	c := math.Max(0, math.Min(1, 1-cosTheta))
	if eta < 1 {
		// Leaving a denser medium: use the transmitted angle
		sin2Near := math.Max(0, 1-cosTheta*cosTheta)
		sin2Far := sin2Near / (eta * eta)
		if sin2Far > 1 {
			return 1
		}
		c = math.Max(0, math.Min(1, 1-math.Sqrt(1-sin2Far)))
	}
	r0 := (1 - eta) / (1 + eta)
	r0 *= r0
	return r0 + (1-r0)*c*c*c*c*c
}
