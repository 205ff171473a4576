package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards all messages
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}

// HitRecord contains information about a ray-object intersection.
// Material is filled in by the object that owns the surface and is only
// meaningful for the duration of the query that produced the record.
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Unit surface normal, facing against the incident ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether the ray arrived from outside the surface
	Material  Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Per-channel color attenuation
}

// Material decides whether an incoming ray is re-emitted or absorbed.
// Scatter returns false when the ray is absorbed.
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// Shape is any surface a ray can intersect
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (HitRecord, bool)
}
