package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        90.0,
	}
}

func TestCamera_Forward(t *testing.T) {
	camera := NewCamera(testCameraConfig())

	forward := camera.Forward()
	expected := core.NewVec3(0, 0, -1)
	if forward.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
	if camera.FocusDistance() != 1 {
		t.Errorf("Expected auto focus distance 1, got %f", camera.FocusDistance())
	}
}

func TestCamera_PinholeRays(t *testing.T) {
	camera := NewCamera(testCameraConfig())
	// With a zero aperture the lens sample must not matter
	lens := core.NewVec2(0.9, 0.3)

	tests := []struct {
		name      string
		uv        core.Vec2
		direction core.Vec3
	}{
		{"center", core.NewVec2(0.5, 0.5), core.NewVec3(0, 0, -1)},
		{"bottom left", core.NewVec2(0, 0), core.NewVec3(-1, -1, -1).Normalize()},
		{"top right", core.NewVec2(1, 1), core.NewVec3(1, 1, -1).Normalize()},
		{"clamped", core.NewVec2(2, -1), core.NewVec3(1, -1, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.RayTo(tt.uv, lens)
			if ray.Origin.Length() > 1e-12 {
				t.Errorf("Pinhole ray should start at the eye, got %v", ray.Origin)
			}
			if ray.Direction.Subtract(tt.direction).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
		})
	}
}

func TestCamera_ThinLensFocus(t *testing.T) {
	config := CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		AspectRatio:   4.0 / 3.0,
		VFov:          20,
		Aperture:      0.25,
		FocusDistance: 0,
	}
	camera := NewCamera(config)
	focus := config.LookAt.Subtract(config.Center).Length()
	sampler := core.NewSeededSampler(42)

	// Every lens sample for the center pixel converges on the look-at point
	for i := 0; i < 100; i++ {
		ray := camera.RayTo(core.NewVec2(0.5, 0.5), sampler.Get2D())
		if ray.Origin.Distance(config.Center) > config.Aperture/2+1e-9 {
			t.Fatalf("Ray origin %v outside the lens", ray.Origin)
		}
		if math.Abs(ray.Direction.Length()-1) > 1e-9 {
			t.Fatalf("Ray direction not unit length")
		}

		// Intersect with the focal plane
		forward := camera.Forward()
		tFocus := forward.Dot(config.Center.Subtract(ray.Origin).Add(forward.Multiply(focus))) / forward.Dot(ray.Direction)
		if p := ray.At(tFocus); p.Distance(config.LookAt) > 1e-6 {
			t.Fatalf("Ray %d does not pass through the focus point, missed by %g", i, p.Distance(config.LookAt))
		}
	}
}

func TestMergeCameraConfig(t *testing.T) {
	defaults := testCameraConfig()
	override := CameraConfig{VFov: 30, Aperture: 0.1}

	merged := MergeCameraConfig(defaults, override)
	if merged.VFov != 30 || merged.Aperture != 0.1 {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.Center != defaults.Center || merged.LookAt != defaults.LookAt || merged.AspectRatio != defaults.AspectRatio {
		t.Errorf("Defaults not preserved: %+v", merged)
	}
}
