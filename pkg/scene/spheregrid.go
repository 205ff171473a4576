package scene

import (
	"math"
	"math/rand"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// SphereGridCameraConfig looks down on the grid from in front
func SphereGridCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		LookFrom:    core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 16.0 / 9.0,
	}
}

// NewSphereGridScene creates a field of small spheres laid out on a jittered
// grid. Positions and materials are drawn from a generator seeded with seed,
// so the same seed always yields the same layout.
func NewSphereGridScene(seed int64) (*Scene, error) {
	sampling := DefaultSamplingConfig()
	sampling.MaxDepth = 40

	s, err := NewScene("spheregrid", SphereGridCameraConfig(), sampling)
	if err != nil {
		return nil, err
	}
	random := rand.New(rand.NewSource(seed))

	// Ground is a huge sphere so the scene contains nothing but spheres
	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	if err := s.AddSphere(core.NewVec3(4.5, -1000, 4.5), 1000, ground); err != nil {
		return nil, err
	}

	const gridSize = 10
	const targetArea = 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			// Jitter within the cell, keeping neighbours from touching
			x := float64(i)*spacing + (random.Float64()-0.5)*spacing*0.3
			z := float64(j)*spacing + (random.Float64()-0.5)*spacing*0.3
			center := core.NewVec3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			var mat core.Material
			switch choice := random.Float64(); {
			case choice < 0.6:
				mat = material.NewLambertian(color)
			case choice < 0.9:
				mat, err = material.NewMetal(color, 0.3*random.Float64())
			default:
				mat, err = material.NewDielectric(1.5)
			}
			if err != nil {
				return nil, err
			}

			if err := s.AddSphere(center, sphereRadius, mat); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}
