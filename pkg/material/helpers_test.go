package material

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// fixedSampler replays a fixed list of values, cycling when exhausted
type fixedSampler struct {
	values []float64
	next   int
}

func (s *fixedSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance &&
		math.Abs(a.Y()-b.Y()) <= tolerance &&
		math.Abs(a.Z()-b.Z()) <= tolerance
}
