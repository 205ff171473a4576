package integrator

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// MinHitDistance keeps a bounced ray from re-hitting the surface it just left
const MinHitDistance = 0.001

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
	black    = core.NewVec3(0, 0, 0)
)

// PathTracingIntegrator implements unidirectional path tracing against a sky gradient.
// It is not safe for concurrent use; its statistics are plain counters.
type PathTracingIntegrator struct {
	stats PathStats
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		pt.stats.DepthExhausted++
		return black
	}
	pt.stats.Segments++

	obj, hit, isHit := scene.Hit(ray, MinHitDistance, math.Inf(1))
	if !isHit {
		pt.stats.Escaped++
		return BackgroundColor(ray)
	}

	scatter, didScatter := obj.Scatter(ray, hit, sampler)
	if !didScatter {
		pt.stats.Absorbed++
		return black
	}

	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.Scattered, scene, sampler, depth-1))
}

// Stats returns the counts gathered since the integrator was created or last reset
func (pt *PathTracingIntegrator) Stats() PathStats {
	return pt.stats
}

// ResetStats clears the path counters
func (pt *PathTracingIntegrator) ResetStats() {
	pt.stats = PathStats{}
}

// BackgroundColor blends white at the horizon into blue overhead
func BackgroundColor(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.UnitVector()
	t := 0.5 * (unitDirection.Y() + 1.0)
	return skyWhite.Multiply(1.0 - t).Add(skyBlue.Multiply(t))
}
