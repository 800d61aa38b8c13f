package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by ByName
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type sceneEntry struct {
	info   SceneInfo
	create func(...geometry.CameraConfig) *Scene
}

var builtinScenes = map[string]sceneEntry{
	"default": {
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Random Spheres",
			Description: "Grid of small diffuse, metal and glass spheres around three large ones",
		},
		create: NewDefaultScene,
	},
	"single-sphere": {
		info: SceneInfo{
			ID:          "single-sphere",
			DisplayName: "Single Sphere",
			Description: "One grey diffuse sphere against the sky gradient",
		},
		create: NewSingleSphereScene,
	},
	"materials": {
		info: SceneInfo{
			ID:          "materials",
			DisplayName: "Materials",
			Description: "Diffuse, glass and metal spheres on the ground",
		},
		create: NewMaterialsScene,
	},
}

// ByName creates the named built-in scene, applying optional camera overrides
func ByName(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	entry, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return entry.create(cameraOverrides...), nil
}

// Names returns the IDs of every built-in scene in sorted order
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for every built-in scene, sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, entry := range builtinScenes {
		scenes = append(scenes, entry.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}
