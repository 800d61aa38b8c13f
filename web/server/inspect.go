package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains rich information about an object hit by an inspection ray
type InspectResult struct {
	Hit         bool
	Interaction *material.SurfaceInteraction
	Shape       *geometry.Sphere
	ShapeIndex  int
}

// inspectPixel casts the lens-centre ray through the middle of an image pixel
// (row 0 at the top) and reports the first sphere it hits
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	uv := core.NewVec2(
		(float64(pixelX)+0.5)/float64(width),
		(float64(height-1-pixelY)+0.5)/float64(height),
	)
	ray := sceneObj.Camera.RayTo(uv, core.NewVec2(0, 0))

	si, shape, isHit := sceneObj.HitShape(ray, integrator.TMin, math.MaxFloat64)
	if !isHit {
		return InspectResult{Hit: false}
	}

	index := -1
	for i, candidate := range sceneObj.Shapes {
		if candidate == shape {
			index = i
			break
		}
	}

	return InspectResult{
		Hit:         true,
		Interaction: si,
		Shape:       shape,
		ShapeIndex:  index,
	}
}

// extractGeometryInfo describes the hit sphere
func (s *Server) extractGeometryInfo(sphere *geometry.Sphere, index int) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	properties["center"] = [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z}
	properties["radius"] = sphere.Radius
	properties["index"] = index
	return "sphere", properties
}

// colorHex renders a color clamped to [0, 1] as #rrggbb
func colorHex(c core.Color) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.R*255), int(c.G*255), int(c.B*255))
}

// extractMaterialInfo extends material.Describe with a display swatch
func (s *Server) extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	kind, properties := material.Describe(mat)

	switch m := mat.(type) {
	case *material.Diffuse:
		properties["color"] = colorHex(m.Reflectance)
	case *material.Conductor:
		properties["color"] = colorHex(m.Reflectance)
	case *material.Dielectric:
		properties["color"] = "#ffffff" // Clear glass
	}
	if emitted := mat.Emitted(); !emitted.IsBlack() {
		properties["emissionColor"] = colorHex(emitted)
	}

	return kind, properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}

	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	si := result.Interaction
	materialType, materialProps := s.extractMaterialInfo(si.Material)
	geometryType, geometryProps := s.extractGeometryInfo(result.Shape, result.ShapeIndex)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{si.Point.X, si.Point.Y, si.Point.Z},
		Normal:       [3]float64{si.Normal.X, si.Normal.Y, si.Normal.Z},
		Distance:     si.T,
		FrontFace:    si.FrontFace(),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}

	writeJSON(w, http.StatusOK, response)
}
