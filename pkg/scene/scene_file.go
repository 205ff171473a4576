package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// SceneFile is the on-disk JSON description of a scene
type SceneFile struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Group       string        `json:"group"`
	Camera      *CameraFile   `json:"camera"`
	Sampling    *SamplingFile `json:"sampling"`
	Spheres     []SphereFile  `json:"spheres"`
}

// CameraFile describes the camera; missing fields fall back to the default scene's camera
type CameraFile struct {
	LookFrom    *[3]float64 `json:"lookFrom"`
	LookAt      *[3]float64 `json:"lookAt"`
	Up          *[3]float64 `json:"up"`
	VFov        float64     `json:"vfov"`
	AspectRatio float64     `json:"aspectRatio"`
}

// SamplingFile overrides the default sampling settings; zero fields keep the default
type SamplingFile struct {
	Width           int   `json:"width"`
	Height          int   `json:"height"`
	SamplesPerPixel int   `json:"samplesPerPixel"`
	MaxDepth        int   `json:"maxDepth"`
	Seed            int64 `json:"seed"`
}

// SphereFile is one sphere and its material
type SphereFile struct {
	Center   [3]float64   `json:"center"`
	Radius   float64      `json:"radius"`
	Material MaterialFile `json:"material"`
}

// MaterialFile selects a material by type. Only the fields relevant to the type are read.
type MaterialFile struct {
	Type            string     `json:"type"` // "lambertian", "metal" or "dielectric"
	Albedo          [3]float64 `json:"albedo"`
	Fuzz            float64    `json:"fuzz"`
	RefractionIndex float64    `json:"refractionIndex"`
}

func vecFrom(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

// LoadSceneFile reads and validates a JSON scene file
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	return s, nil
}

// Build turns the file description into a scene, validating every sphere and material
func (f SceneFile) Build() (*Scene, error) {
	cameraConfig := DefaultCameraConfig()
	if c := f.Camera; c != nil {
		if c.LookFrom != nil {
			cameraConfig.LookFrom = vecFrom(*c.LookFrom)
		}
		if c.LookAt != nil {
			cameraConfig.LookAt = vecFrom(*c.LookAt)
		}
		if c.Up != nil {
			cameraConfig.Up = vecFrom(*c.Up)
		}
		if c.VFov != 0 {
			cameraConfig.VFov = c.VFov
		}
		if c.AspectRatio != 0 {
			cameraConfig.AspectRatio = c.AspectRatio
		}
	}

	sampling := DefaultSamplingConfig()
	if f.Sampling != nil {
		sampling = MergeSamplingConfig(sampling, SamplingConfig(*f.Sampling))
		explicitAspect := f.Camera != nil && f.Camera.AspectRatio != 0
		switch w, h := f.Sampling.Width, f.Sampling.Height; {
		case w != 0 && h == 0:
			// A single dimension keeps the camera's aspect ratio
			sampling.Height = int(float64(w) / cameraConfig.AspectRatio)
		case w == 0 && h != 0:
			sampling.Width = int(math.Round(float64(h) * cameraConfig.AspectRatio))
		case w != 0 && h != 0 && !explicitAspect:
			if h > 0 {
				cameraConfig.AspectRatio = float64(w) / float64(h)
			}
		case w != 0 && h != 0:
			// Allow the rounding of a derived dimension, nothing more
			if math.Abs(cameraConfig.AspectRatio*float64(h)-float64(w)) > 1 {
				return nil, fmt.Errorf("%w: %dx%d does not match camera aspect ratio %g",
					ErrInvalidDimensions, w, h, cameraConfig.AspectRatio)
			}
		}
	}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}

	s, err := NewScene(f.Name, cameraConfig, sampling)
	if err != nil {
		return nil, err
	}

	for i, sp := range f.Spheres {
		mat, err := sp.Material.Build()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		if err := s.AddSphere(vecFrom(sp.Center), sp.Radius, mat); err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
	}

	return s, nil
}

// Build creates the material the descriptor names
func (m MaterialFile) Build() (core.Material, error) {
	switch strings.ToLower(m.Type) {
	case "lambertian":
		return material.NewLambertian(vecFrom(m.Albedo)), nil
	case "metal":
		metal, err := material.NewMetal(vecFrom(m.Albedo), m.Fuzz)
		if err != nil {
			return nil, err
		}
		return metal, nil
	case "dielectric":
		dielectric, err := material.NewDielectric(m.RefractionIndex)
		if err != nil {
			return nil, err
		}
		return dielectric, nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}
