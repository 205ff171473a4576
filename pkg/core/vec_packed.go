package core

import (
	"fmt"
	"math"
)

// Lane assignment of a PackedVec3, matching a 256-bit register loaded with
// set(x, y, z, 0): the highest lane holds x and the lowest is padding.
const (
	padLane = 0
	zLane   = 1
	yLane   = 2
	xLane   = 3
)

// rotateLanes is the lane shuffle used by the cross product (permute4x64 with
// imm 0b10011100): it rotates (x, y, z) to (y, z, x) and leaves the pad in place.
var rotateLanes = [4]int{0, 3, 1, 2}

// PackedVec3 is the register-image vector backend. All arithmetic runs over the
// four lanes of one value at a time so the same code maps onto a single SIMD
// instruction per operation. The pad lane is always zero.
type PackedVec3 struct {
	lanes [4]float64
}

// NewPackedVec3 creates a new PackedVec3
func NewPackedVec3(x, y, z float64) PackedVec3 {
	var v PackedVec3
	v.lanes[xLane] = x
	v.lanes[yLane] = y
	v.lanes[zLane] = z
	return v
}

// X returns the first component
func (v PackedVec3) X() float64 { return v.lanes[xLane] }

// Y returns the second component
func (v PackedVec3) Y() float64 { return v.lanes[yLane] }

// Z returns the third component
func (v PackedVec3) Z() float64 { return v.lanes[zLane] }

// broadcast fills the three data lanes with s
func broadcast(s float64) [4]float64 {
	return [4]float64{0, s, s, s}
}

func addLanes(a, b [4]float64) (r [4]float64) {
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

func subLanes(a, b [4]float64) (r [4]float64) {
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}

func mulLanes(a, b [4]float64) (r [4]float64) {
	for i := range r {
		r[i] = a[i] * b[i]
	}
	return r
}

// divLanes divides the data lanes and keeps the pad lane at zero instead of 0/0
func divLanes(a, b [4]float64) (r [4]float64) {
	for i := zLane; i <= xLane; i++ {
		r[i] = a[i] / b[i]
	}
	return r
}

func permuteLanes(a [4]float64, idx [4]int) (r [4]float64) {
	for i := range r {
		r[i] = a[idx[i]]
	}
	return r
}

// Add returns the sum of two vectors
func (v PackedVec3) Add(other PackedVec3) PackedVec3 {
	return PackedVec3{addLanes(v.lanes, other.lanes)}
}

// Subtract returns the difference of two vectors
func (v PackedVec3) Subtract(other PackedVec3) PackedVec3 {
	return PackedVec3{subLanes(v.lanes, other.lanes)}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v PackedVec3) MultiplyVec(other PackedVec3) PackedVec3 {
	return PackedVec3{mulLanes(v.lanes, other.lanes)}
}

// DivideVec returns component-wise division of two vectors
func (v PackedVec3) DivideVec(other PackedVec3) PackedVec3 {
	return PackedVec3{divLanes(v.lanes, other.lanes)}
}

// Multiply returns the vector scaled by a scalar
func (v PackedVec3) Multiply(scalar float64) PackedVec3 {
	return PackedVec3{mulLanes(v.lanes, broadcast(scalar))}
}

// Divide returns the vector divided by a scalar
func (v PackedVec3) Divide(scalar float64) PackedVec3 {
	return PackedVec3{divLanes(v.lanes, broadcast(scalar))}
}

// Negate returns the negative of the vector
func (v PackedVec3) Negate() PackedVec3 {
	return v.Multiply(-1)
}

// Dot returns the dot product of two vectors.
// The horizontal sum runs x, y, z in that order to match the scalar backend.
func (v PackedVec3) Dot(other PackedVec3) float64 {
	p := mulLanes(v.lanes, other.lanes)
	return p[xLane] + p[yLane] + p[zLane]
}

// Cross returns the cross product of two vectors using two lane rotations
func (v PackedVec3) Cross(other PackedVec3) PackedVec3 {
	l0 := permuteLanes(v.lanes, rotateLanes)
	r0 := permuteLanes(other.lanes, rotateLanes)
	c := subLanes(mulLanes(v.lanes, r0), mulLanes(l0, other.lanes))
	return PackedVec3{permuteLanes(c, rotateLanes)}
}

// Length returns the magnitude of the vector
func (v PackedVec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v PackedVec3) LengthSquared() float64 {
	return v.Dot(v)
}

// UnitVector returns v / |v|. A zero vector yields NaN components.
func (v PackedVec3) UnitVector() PackedVec3 {
	return v.Divide(v.Length())
}

// NearZero reports whether every component is within 1e-8 of zero
func (v PackedVec3) NearZero() bool {
	return math.Abs(v.lanes[xLane]) < nearZeroEpsilon &&
		math.Abs(v.lanes[yLane]) < nearZeroEpsilon &&
		math.Abs(v.lanes[zLane]) < nearZeroEpsilon
}

// Reflect returns v mirrored about the surface with the given normal
func (v PackedVec3) Reflect(normal PackedVec3) PackedVec3 {
	return reflectOf(v, normal)
}

// Refract returns v refracted through the surface with the given normal
func (v PackedVec3) Refract(normal PackedVec3, etaRatio float64) PackedVec3 {
	return refractOf(v, normal, etaRatio)
}

// Sqrt returns the component-wise square root
func (v PackedVec3) Sqrt() PackedVec3 {
	var r PackedVec3
	for i := zLane; i <= xLane; i++ {
		r.lanes[i] = math.Sqrt(v.lanes[i])
	}
	return r
}

// Clamp returns a vector with components clamped to [minVal, maxVal]
func (v PackedVec3) Clamp(minVal, maxVal float64) PackedVec3 {
	var r PackedVec3
	for i := zLane; i <= xLane; i++ {
		r.lanes[i] = clampScalar(v.lanes[i], minVal, maxVal)
	}
	return r
}

// String formats the vector as (x, y, z)
func (v PackedVec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X(), v.Y(), v.Z())
}
