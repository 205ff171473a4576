package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// ErrInvalidDimensions is returned when a sampling configuration cannot produce an image
var ErrInvalidDimensions = errors.New("invalid image dimensions")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   // Image width
	Height          int   // Image height
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Seed for the render's random stream
}

// DefaultSamplingConfig returns the settings used when a scene does not choose its own
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Validate checks that the configuration can drive a render.
// Width and height must be at least 2 because pixel jitter divides by (w-1) and (h-1).
func (c SamplingConfig) Validate() error {
	if c.Width < 2 || c.Height < 2 {
		return fmt.Errorf("%w: %dx%d, need at least 2x2", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidDimensions, c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d must not be negative", ErrInvalidDimensions, c.MaxDepth)
	}
	return nil
}

// MergeSamplingConfig overlays the non-zero fields of override onto base
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	return result
}

// Object pairs a shape with the material that shades it
type Object struct {
	Shape    core.Shape
	Material core.Material
}

// Hit intersects the object's shape and stamps its material into the record
func (o Object) Hit(ray core.Ray, tMin, tMax float64) (core.HitRecord, bool) {
	hit, isHit := o.Shape.Hit(ray, tMin, tMax)
	if !isHit {
		return core.HitRecord{}, false
	}
	hit.Material = o.Material
	return hit, true
}

// Scatter delegates to the object's material
func (o Object) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return o.Material.Scatter(rayIn, hit, sampler)
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
	Objects        []Object
}

// NewScene builds a scene around a camera configuration
func NewScene(name string, cameraConfig geometry.CameraConfig, sampling SamplingConfig) (*Scene, error) {
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	return &Scene{
		Name:           name,
		Camera:         camera,
		CameraConfig:   cameraConfig,
		SamplingConfig: sampling,
	}, nil
}

// Add appends a shape with its material to the scene
func (s *Scene) Add(shape core.Shape, mat core.Material) {
	s.Objects = append(s.Objects, Object{Shape: shape, Material: mat})
}

// AddSphere creates a sphere and adds it to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat core.Material) error {
	sphere, err := geometry.NewSphere(center, radius)
	if err != nil {
		return err
	}
	s.Add(sphere, mat)
	return nil
}

// Hit finds the closest intersection in (tMin, tMax) by scanning every object.
// The returned object is nil on a miss. On equal t the earlier object wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*Object, core.HitRecord, bool) {
	var closest core.HitRecord
	var closestObject *Object
	closestSoFar := tMax

	for i := range s.Objects {
		if hit, isHit := s.Objects[i].Hit(ray, tMin, closestSoFar); isHit && hit.T < closestSoFar {
			closestSoFar = hit.T
			closest = hit
			closestObject = &s.Objects[i]
		}
	}

	return closestObject, closest, closestObject != nil
}

// Resize changes the output dimensions. A zero height is derived from the
// camera's aspect ratio; otherwise the camera is rebuilt to match width/height.
func (s *Scene) Resize(width, height int) error {
	if height == 0 {
		height = int(float64(width) / s.CameraConfig.AspectRatio)
	} else if width > 0 {
		cameraConfig := s.CameraConfig
		cameraConfig.AspectRatio = float64(width) / float64(height)
		camera, err := geometry.NewCamera(cameraConfig)
		if err != nil {
			return err
		}
		s.Camera, s.CameraConfig = camera, cameraConfig
	}

	sampling := s.SamplingConfig
	sampling.Width, sampling.Height = width, height
	if err := sampling.Validate(); err != nil {
		return err
	}
	s.SamplingConfig = sampling
	return nil
}
