package core

import (
	"fmt"
	"math"
)

// ScalarVec3 is the portable vector backend: three independent float64 components
type ScalarVec3 struct {
	x, y, z float64
}

// NewScalarVec3 creates a new ScalarVec3
func NewScalarVec3(x, y, z float64) ScalarVec3 {
	return ScalarVec3{x: x, y: y, z: z}
}

// X returns the first component
func (v ScalarVec3) X() float64 { return v.x }

// Y returns the second component
func (v ScalarVec3) Y() float64 { return v.y }

// Z returns the third component
func (v ScalarVec3) Z() float64 { return v.z }

// Add returns the sum of two vectors
func (v ScalarVec3) Add(other ScalarVec3) ScalarVec3 {
	return ScalarVec3{v.x + other.x, v.y + other.y, v.z + other.z}
}

// Subtract returns the difference of two vectors
func (v ScalarVec3) Subtract(other ScalarVec3) ScalarVec3 {
	return ScalarVec3{v.x - other.x, v.y - other.y, v.z - other.z}
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v ScalarVec3) MultiplyVec(other ScalarVec3) ScalarVec3 {
	return ScalarVec3{v.x * other.x, v.y * other.y, v.z * other.z}
}

// DivideVec returns component-wise division of two vectors
func (v ScalarVec3) DivideVec(other ScalarVec3) ScalarVec3 {
	return ScalarVec3{v.x / other.x, v.y / other.y, v.z / other.z}
}

// Multiply returns the vector scaled by a scalar
func (v ScalarVec3) Multiply(scalar float64) ScalarVec3 {
	return ScalarVec3{v.x * scalar, v.y * scalar, v.z * scalar}
}

// Divide returns the vector divided by a scalar
func (v ScalarVec3) Divide(scalar float64) ScalarVec3 {
	return ScalarVec3{v.x / scalar, v.y / scalar, v.z / scalar}
}

// Negate returns the negative of the vector
func (v ScalarVec3) Negate() ScalarVec3 {
	return ScalarVec3{-v.x, -v.y, -v.z}
}

// Dot returns the dot product of two vectors
func (v ScalarVec3) Dot(other ScalarVec3) float64 {
	return v.x*other.x + v.y*other.y + v.z*other.z
}

// Cross returns the cross product of two vectors
func (v ScalarVec3) Cross(other ScalarVec3) ScalarVec3 {
	return ScalarVec3{
		x: v.y*other.z - v.z*other.y,
		y: v.z*other.x - v.x*other.z,
		z: v.x*other.y - v.y*other.x,
	}
}

// Length returns the magnitude of the vector
func (v ScalarVec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared magnitude of the vector
func (v ScalarVec3) LengthSquared() float64 {
	return v.Dot(v)
}

// UnitVector returns v / |v|. A zero vector yields NaN components.
func (v ScalarVec3) UnitVector() ScalarVec3 {
	return v.Divide(v.Length())
}

// NearZero reports whether every component is within 1e-8 of zero
func (v ScalarVec3) NearZero() bool {
	return math.Abs(v.x) < nearZeroEpsilon && math.Abs(v.y) < nearZeroEpsilon && math.Abs(v.z) < nearZeroEpsilon
}

// Reflect returns v mirrored about the surface with the given normal
func (v ScalarVec3) Reflect(normal ScalarVec3) ScalarVec3 {
	return reflectOf(v, normal)
}

// Refract returns v refracted through the surface with the given normal
func (v ScalarVec3) Refract(normal ScalarVec3, etaRatio float64) ScalarVec3 {
	return refractOf(v, normal, etaRatio)
}

// Sqrt returns the component-wise square root
func (v ScalarVec3) Sqrt() ScalarVec3 {
	return ScalarVec3{math.Sqrt(v.x), math.Sqrt(v.y), math.Sqrt(v.z)}
}

// Clamp returns a vector with components clamped to [minVal, maxVal]
func (v ScalarVec3) Clamp(minVal, maxVal float64) ScalarVec3 {
	return ScalarVec3{
		x: clampScalar(v.x, minVal, maxVal),
		y: clampScalar(v.y, minVal, maxVal),
		z: clampScalar(v.z, minVal, maxVal),
	}
}

// String formats the vector as (x, y, z)
func (v ScalarVec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.x, v.y, v.z)
}
