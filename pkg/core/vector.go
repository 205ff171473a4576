package core

import "math"

// nearZeroEpsilon is the per-component magnitude below which a vector counts as degenerate
const nearZeroEpsilon = 1e-8

// Vector is the contract shared by every vector backend.
// Components are only reachable through X, Y and Z; the storage layout of a
// backend is private to it.
type Vector[T any] interface {
	X() float64
	Y() float64
	Z() float64

	Add(other T) T
	Subtract(other T) T
	MultiplyVec(other T) T
	DivideVec(other T) T
	Multiply(scalar float64) T
	Divide(scalar float64) T
	Negate() T

	Dot(other T) float64
	Cross(other T) T
	Length() float64
	LengthSquared() float64
	UnitVector() T
	NearZero() bool
	Reflect(normal T) T
	Refract(normal T, etaRatio float64) T

	Sqrt() T
	Clamp(minVal, maxVal float64) T
}

// Compile-time checks that both backends satisfy the contract
var (
	_ Vector[ScalarVec3] = ScalarVec3{}
	_ Vector[PackedVec3] = PackedVec3{}
)

// reflectOf mirrors v about the plane with the given normal: v - 2*dot(v,n)*n.
// Both backends route through here so they perform the same sequence of operations.
func reflectOf[T Vector[T]](v, n T) T {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// refractOf bends v through a surface with normal n using Snell's law.
// v is normalised first; etaRatio is eta_incident / eta_transmitted.
func refractOf[T Vector[T]](v, n T, etaRatio float64) T {
	uv := v.UnitVector()
	cosTheta := math.Min(uv.Negate().Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaRatio)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// clampScalar restricts val to [minVal, maxVal]
func clampScalar(val, minVal, maxVal float64) float64 {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
