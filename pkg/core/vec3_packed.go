//go:build packedvec

package core

// Vec3 is the vector type used throughout the renderer
type Vec3 = PackedVec3

const activeBackend = "packed"

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return NewPackedVec3(x, y, z)
}
