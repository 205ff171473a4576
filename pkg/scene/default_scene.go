package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// DefaultCameraConfig frames the default scene from above and to the left
func DefaultCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		LookFrom:    core.NewVec3(-2, 2, 1),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        20.0,
		AspectRatio: 16.0 / 9.0,
	}
}

// NewDefaultScene creates the default scene: three spheres resting on a large ground sphere
func NewDefaultScene() (*Scene, error) {
	s, err := NewScene("default", DefaultCameraConfig(), DefaultSamplingConfig())
	if err != nil {
		return nil, err
	}

	// Create materials
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	materialLeft, err := material.NewDielectric(1.5)
	if err != nil {
		return nil, err
	}
	materialRight, err := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)
	if err != nil {
		return nil, err
	}

	spheres := []struct {
		center core.Vec3
		radius float64
		mat    core.Material
	}{
		{core.NewVec3(0.0, 0.0, -1.0), 0.5, materialCenter},
		{core.NewVec3(0.0, -100.5, -1.0), 100.0, materialGround},
		{core.NewVec3(-1.0, 0.0, -1.0), 0.5, materialLeft},
		{core.NewVec3(1.0, 0.0, -1.0), 0.5, materialRight},
	}
	for _, sp := range spheres {
		if err := s.AddSphere(sp.center, sp.radius, sp.mat); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewEmptyScene creates a scene with no objects; every ray sees the sky
func NewEmptyScene() (*Scene, error) {
	return NewScene("empty", DefaultCameraConfig(), DefaultSamplingConfig())
}
