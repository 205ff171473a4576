package core

import "math/rand"

// Sampler provides random numbers for rendering algorithms.
// Each render owns its sampler; it is passed down explicitly rather than shared.
type Sampler interface {
	Get1D() float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own deterministic stream
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// RandomInUnitSphere returns a point strictly inside the unit ball
func RandomInUnitSphere(sampler Sampler) Vec3 {
	return RandomInUnitSphereOf(sampler, NewVec3)
}

// RandomInUnitSphereOf rejection-samples the cube [-1,1)³ until the point has
// squared length below one. The components are drawn x, y, z in order, so two
// backends fed the same stream produce the same point.
func RandomInUnitSphereOf[T Vector[T]](sampler Sampler, newVec func(x, y, z float64) T) T {
	for {
		p := newVec(
			2*sampler.Get1D()-1,
			2*sampler.Get1D()-1,
			2*sampler.Get1D()-1,
		)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}
