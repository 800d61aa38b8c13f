package material

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Scatter samples an incident direction at si for the outgoing direction wo
// using the 2D sample u. It returns false when no valid direction exists
// (total internal reflection, grazing samples); callers end the path.
func Scatter(si *SurfaceInteraction, u core.Vec2, wo core.Vec3) (ScatterResult, bool) {
	switch m := si.Material.(type) {
	case *Diffuse:
		return m.scatter(si, u, wo)
	case *Conductor:
		return m.scatter(si, wo)
	case *Dielectric:
		return m.scatter(si, u, wo)
	default:
		return ScatterResult{}, false
	}
}

// Describe returns a short type name and the parameters of a material, for
// display and inspection
func Describe(mat Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	switch m := mat.(type) {
	case *Diffuse:
		properties["reflectance"] = colorArray(m.Reflectance)
		properties["emission"] = colorArray(m.Emission)
		return "diffuse", properties
	case *Conductor:
		properties["reflectance"] = colorArray(m.Reflectance)
		properties["emission"] = colorArray(m.Emission)
		return "conductor", properties
	case *Dielectric:
		properties["ior"] = m.IOR
		properties["emission"] = colorArray(m.Emission)
		return "dielectric", properties
	default:
		return "unknown", properties
	}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}
