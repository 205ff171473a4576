//go:build !packedvec

package core

// Vec3 is the vector type used throughout the renderer.
// Build with -tags packedvec to switch to the lane-packed backend.
type Vec3 = ScalarVec3

const activeBackend = "scalar"

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return NewScalarVec3(x, y, z)
}
