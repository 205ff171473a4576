package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ErrDegenerateCamera is returned when the camera parameters cannot form an orthonormal basis
var ErrDegenerateCamera = errors.New("degenerate camera configuration")

// CameraConfig contains the parameters a camera is derived from
type CameraConfig struct {
	LookFrom    core.Vec3 // Eye position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // World up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if !(config.VFov > 0 && config.VFov < 180) {
		return nil, fmt.Errorf("%w: vfov %g must be in (0, 180)", ErrDegenerateCamera, config.VFov)
	}
	if !(config.AspectRatio > 0) || math.IsInf(config.AspectRatio, 0) {
		return nil, fmt.Errorf("%w: aspect ratio %g must be positive", ErrDegenerateCamera, config.AspectRatio)
	}

	theta := config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := config.AspectRatio * viewportHeight

	w, err := core.SafeUnitVector(config.LookFrom.Subtract(config.LookAt))
	if err != nil {
		return nil, fmt.Errorf("%w: look-from equals look-at: %v", ErrDegenerateCamera, err)
	}
	u, err := core.SafeUnitVector(config.Up.Cross(w))
	if err != nil {
		return nil, fmt.Errorf("%w: up is parallel to the view direction: %v", ErrDegenerateCamera, err)
	}
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.LookFrom.
		Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(w)

	return &Camera{
		origin:          config.LookFrom,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// GetRay generates a ray for image-plane coordinates (s, t) where 0 <= s,t <= 1
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}
