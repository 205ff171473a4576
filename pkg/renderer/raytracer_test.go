package renderer

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// recordingLogger keeps every message for inspection
type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

// constantSampler always returns the same value
type constantSampler float64

func (c constantSampler) Get1D() float64 { return float64(c) }

func smallScene(t *testing.T, build func() (*scene.Scene, error)) *scene.Scene {
	t.Helper()
	s, err := build()
	if err != nil {
		t.Fatal(err)
	}
	s.SamplingConfig = scene.SamplingConfig{Width: 16, Height: 9, SamplesPerPixel: 4, MaxDepth: 10, Seed: 42}
	return s
}

func TestEncodeColor(t *testing.T) {
	tests := []struct {
		name  string
		input core.Vec3
		want  color.RGBA
	}{
		{"black", core.NewVec3(0, 0, 0), color.RGBA{0, 0, 0, 255}},
		{"white clamps below 256", core.NewVec3(1, 1, 1), color.RGBA{255, 255, 255, 255}},
		{"quarter encodes to half", core.NewVec3(0.25, 0.25, 0.25), color.RGBA{128, 128, 128, 255}},
		{"negative clamps to zero", core.NewVec3(-1, 0.25, 4), color.RGBA{0, 128, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeColor(tt.input); got != tt.want {
				t.Errorf("EncodeColor(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeColor_MatchesFormula(t *testing.T) {
	for c := 0.0; c <= 1.2; c += 0.01 {
		want := uint8(math.Floor(256 * math.Sqrt(math.Min(math.Max(c, 0), 0.999))))
		if got := EncodeColor(core.NewVec3(c, c, c)).R; got != want {
			t.Fatalf("EncodeColor(%v) = %d, want %d", c, got, want)
		}
	}
}

func TestNewRaytracer_RejectsInvalidDimensions(t *testing.T) {
	s := smallScene(t, scene.NewEmptyScene)
	s.SamplingConfig.Width = 1
	if _, err := NewRaytracer(s, nil); !errors.Is(err, scene.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestRender_SameSeedSameImage(t *testing.T) {
	s := smallScene(t, scene.NewDefaultScene)
	rt, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}

	first, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// A separate raytracer with the same seed must agree too
	other, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	third, _, err := other.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if string(first.Pix) != string(second.Pix) || string(first.Pix) != string(third.Pix) {
		t.Error("renders with the same seed differ")
	}

	s.SamplingConfig.Seed = 7
	reseeded, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	fourth, _, err := reseeded.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if string(first.Pix) == string(fourth.Pix) {
		t.Error("different seeds produced identical renders")
	}
}

func TestRender_EmptySceneIsSkyGradient(t *testing.T) {
	s := smallScene(t, scene.NewEmptyScene)
	rt, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	img, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Higher rows look further up, so red falls off toward the top
	top := img.RGBAAt(8, 0)
	bottom := img.RGBAAt(8, 8)
	if top.R > bottom.R {
		t.Errorf("top row red %d should not exceed bottom row red %d", top.R, bottom.R)
	}
	if top.B != 255 || bottom.B != 255 {
		t.Errorf("blue is saturated everywhere in the sky, got %d and %d", top.B, bottom.B)
	}

	if stats.Paths.Escaped != int64(stats.TotalSamples) {
		t.Errorf("every sample should escape: %d of %d", stats.Paths.Escaped, stats.TotalSamples)
	}
}

func TestRender_PixelCentreSampler(t *testing.T) {
	s := smallScene(t, scene.NewEmptyScene)
	rt, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	rt.SetSampler(constantSampler(0.5))

	img, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// With a fixed jitter every sample of pixel (i, j) hits the same sky color
	i, j := 3, 5
	u := (float64(i) + 0.5) / 15
	v := (float64(j) + 0.5) / 8
	ray := s.Camera.GetRay(u, v)
	unit := ray.Direction.UnitVector()
	tt := 0.5 * (unit.Y() + 1.0)
	sky := core.NewVec3(1, 1, 1).Multiply(1.0 - tt).Add(core.NewVec3(0.5, 0.7, 1.0).Multiply(tt))

	var expected PixelStats
	for n := 0; n < 4; n++ {
		expected.AddSample(sky)
	}
	want := EncodeColor(expected.GetColor())
	if got := img.RGBAAt(i, 8-j); got != want {
		t.Errorf("pixel (%d, %d) = %v, want %v", i, j, got, want)
	}
}

func TestRender_ProgressAndStats(t *testing.T) {
	s := smallScene(t, scene.NewDefaultScene)
	logger := &recordingLogger{}
	rt, err := NewRaytracer(s, logger)
	if err != nil {
		t.Fatal(err)
	}

	img, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 9 {
		t.Errorf("image is %v, want 16x9", img.Bounds())
	}

	if len(logger.messages) != 10 {
		t.Fatalf("got %d log messages, want 9 scanlines + done", len(logger.messages))
	}
	if logger.messages[0] != "Scanlines remaining: 8" || logger.messages[8] != "Scanlines remaining: 0" {
		t.Errorf("unexpected progress messages %v", logger.messages)
	}
	if !strings.HasPrefix(logger.messages[9], "Done") {
		t.Errorf("last message = %q, want Done.", logger.messages[9])
	}

	if stats.TotalPixels != 144 || stats.TotalSamples != 576 {
		t.Errorf("pixels=%d samples=%d, want 144 and 576", stats.TotalPixels, stats.TotalSamples)
	}
	ended := stats.Paths.Escaped + stats.Paths.Absorbed + stats.Paths.DepthExhausted
	if ended != int64(stats.TotalSamples) {
		t.Errorf("every sample path should end exactly once: %+v", stats.Paths)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("pixel %d is not opaque", i/4)
		}
	}
}

func TestRender_Cancelled(t *testing.T) {
	s := smallScene(t, scene.NewDefaultScene)
	rt, err := NewRaytracer(s, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := rt.Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
