package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrInvalidFuzz is returned when a metal's fuzz lies outside [0, 1]
var ErrInvalidFuzz = errors.New("metal fuzz must be in [0, 1]")

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) (*Metal, error) {
	if !(fuzz >= 0 && fuzz <= 1) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidFuzz, fuzz)
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}, nil
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := rayIn.Direction.Reflect(hit.Normal)

	direction := reflected
	if m.Fuzz > 0 {
		direction = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzz))
	}

	// Fuzz pushed the ray below the surface
	if direction.Dot(hit.Normal) <= 0 {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: m.Albedo,
	}, true
}
