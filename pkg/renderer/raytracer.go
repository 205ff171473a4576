package renderer

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Raytracer handles the rendering process
type Raytracer struct {
	scene      *scene.Scene
	config     scene.SamplingConfig
	integrator *integrator.PathTracingIntegrator
	sampler    core.Sampler
	logger     core.Logger
}

// NewRaytracer creates a raytracer for the scene using the scene's sampling configuration.
// Each Render seeds a fresh random stream from config.Seed, so repeated renders match.
func NewRaytracer(s *scene.Scene, logger core.Logger) (*Raytracer, error) {
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:      s,
		config:     s.SamplingConfig,
		integrator: integrator.NewPathTracingIntegrator(),
		logger:     logger,
	}, nil
}

// SetSampler replaces the seeded stream with one the caller controls
func (rt *Raytracer) SetSampler(sampler core.Sampler) {
	rt.sampler = sampler
}

// EncodeColor converts an averaged linear color to an 8-bit pixel with gamma-2 encoding.
// Each channel is clamped to [0, 0.999] before the square root so the result never reaches 256.
func EncodeColor(c core.Vec3) color.RGBA {
	encoded := c.Clamp(0.0, 0.999).Sqrt()
	return color.RGBA{
		R: uint8(256 * encoded.X()),
		G: uint8(256 * encoded.Y()),
		B: uint8(256 * encoded.Z()),
		A: 255,
	}
}

// Render traces every pixel and returns the image with row 0 at the top.
// Cancellation is checked between scanlines; a cancelled render returns ctx.Err().
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	width, height := rt.config.Width, rt.config.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	camera := rt.scene.Camera
	rt.integrator.ResetStats()

	sampler := rt.sampler
	if sampler == nil {
		sampler = core.NewSeededSampler(rt.config.Seed)
	}

	for j := height - 1; j >= 0; j-- {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, err
		}
		rt.logger.Printf("Scanlines remaining: %d", j)

		for i := 0; i < width; i++ {
			var pixel PixelStats
			for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
				// Convert pixel coordinates to normalized coordinates with jitter
				s := (float64(i) + sampler.Get1D()) / float64(width-1)
				t := (float64(j) + sampler.Get1D()) / float64(height-1)

				ray := camera.GetRay(s, t)
				pixel.AddSample(rt.integrator.RayColor(ray, rt.scene, sampler, rt.config.MaxDepth))
			}

			// Image rows run top-down while t runs bottom-up
			img.SetRGBA(i, height-1-j, EncodeColor(pixel.GetColor()))
		}
	}

	rt.logger.Printf("Done.")

	stats := RenderStats{
		Width:            width,
		Height:           height,
		TotalPixels:      width * height,
		TotalSamples:     width * height * rt.config.SamplesPerPixel,
		SamplesPerPixel:  rt.config.SamplesPerPixel,
		MaxDepth:         rt.config.MaxDepth,
		Paths:            rt.integrator.Stats(),
		AverageLuminance: CalculateAverageLuminance(img),
		Duration:         time.Since(start),
	}
	return img, stats, nil
}
