package geometry

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center        core.Vec3 // Eye position
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	AspectRatio   float64   // Width / height of the film
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole
	FocusDistance float64   // Distance to the plane in focus, 0 means |LookAt - Center|
}

// Camera generates primary rays through a thin lens
type Camera struct {
	frame        core.Frame
	eye          core.Vec3
	screenWidth  float64 // Width of the focal-plane rectangle in world units
	screenHeight float64
	depth        float64 // Distance from the lens to the focal plane
	lensRadius   float64
	config       CameraConfig
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	return &Camera{
		frame:        core.NewFrameFromWV(config.Center.Subtract(config.LookAt), config.Up),
		eye:          config.Center,
		screenWidth:  focusDistance * viewportWidth,
		screenHeight: focusDistance * viewportHeight,
		depth:        focusDistance,
		lensRadius:   config.Aperture / 2,
		config:       config,
	}
}

// RayTo generates the primary ray through film coordinates uv in [0,1]²,
// with v = 0 at the bottom of the screen. lens is a 2D sample picking the
// ray origin on the aperture.
func (c *Camera) RayTo(uv, lens core.Vec2) core.Ray {
	uv = uv.Clamp(0, 1)

	disk := core.DiskToCartesian(core.UniformDisk(lens))
	offset := core.NewVec3(disk.X*c.lensRadius, disk.Y*c.lensRadius, 0)
	focal := core.NewVec3((uv.X-0.5)*c.screenWidth, (uv.Y-0.5)*c.screenHeight, -c.depth)

	origin := c.eye.Add(c.frame.LocalToWorld(offset))
	direction := c.frame.LocalToWorld(focal.Subtract(offset)).Normalize()
	return core.NewRay(origin, direction)
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.frame.W.Negate()
}

// FocusDistance returns the resolved distance to the focal plane
func (c *Camera) FocusDistance() float64 {
	return c.depth
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// MergeCameraConfig merges a partial camera config with defaults.
// Only non-zero values in the override config are applied.
func MergeCameraConfig(defaults, override CameraConfig) CameraConfig {
	result := defaults

	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}
