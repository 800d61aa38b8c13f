package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// NewSingleSphereScene creates one diffuse unit sphere at the origin in
// front of the gradient background. Useful for checking the estimator by eye.
func NewSingleSphereScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	samplingConfig := DefaultSamplingConfig()
	samplingConfig.Width = 200
	samplingConfig.Height = 200
	samplingConfig.SamplesPerPixel = 64

	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 5),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: 1.0,
		VFov:        30.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, material.NewDiffuse(core.Gray(0.5))))
	return s
}

// NewMaterialsScene shows the three material models side by side on the
// ground sphere, without the random grid
func NewMaterialsScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	samplingConfig := DefaultSamplingConfig()

	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 12),
		LookAt:      core.NewVec3(0, 0.8, 0),
		Up:          core.NewVec3(0, 1, 0),
		AspectRatio: float64(samplingConfig.Width) / float64(samplingConfig.Height),
		VFov:        30.0,
		Aperture:    0.05,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewDiffuse(core.Gray(0.5))),
		geometry.NewSphere(core.NewVec3(-2.2, 1, 0), 1.0, material.NewDiffuse(core.NewColor(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(2.2, 1, 0), 1.0, material.NewConductor(core.NewColor(0.7, 0.6, 0.5))),
	)
	return s
}
