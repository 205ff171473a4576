package integrator

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance arriving along ray, following at most depth bounces
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3
}

// PathStats counts how the paths traced by an integrator ended
type PathStats struct {
	Segments       int64 // Ray segments traced, one per bounce
	Escaped        int64 // Paths that left the scene and picked up sky color
	Absorbed       int64 // Paths whose material absorbed the ray
	DepthExhausted int64 // Paths cut off by the bounce limit
}

// Add accumulates another set of counts
func (s *PathStats) Add(other PathStats) {
	s.Segments += other.Segments
	s.Escaped += other.Escaped
	s.Absorbed += other.Absorbed
	s.DepthExhausted += other.DepthExhausted
}
