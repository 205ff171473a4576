package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

const oneSphereScene = `{
  "name": "One Sphere",
  "camera": {"lookFrom": [0, 0, 0], "lookAt": [0, 0, -1], "vfov": 90, "aspectRatio": 2},
  "spheres": [
    {"center": [0, 0, -1], "radius": 0.5, "material": {"type": "lambertian", "albedo": [0.1, 0.2, 0.5]}}
  ]
}`

// fakePublisher records what it was asked to store
type fakePublisher struct {
	key         string
	contentType string
	size        int
	err         error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.contentType, f.size = key, contentType, len(data)
	return "s3://renders/" + key, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "one-sphere.json"), []byte(oneSphereScene), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}
	return NewServer(0, dir)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" || body["backend"] == "" {
		t.Errorf("Unexpected health body: %v", body)
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and file groups, got %d groups", len(response.Groups))
	}
	if response.Groups[0].Name != "Built-in Scenes" {
		t.Errorf("Expected built-in scenes first, got %q", response.Groups[0].Name)
	}
	files := response.Groups[1].Scenes
	if len(files) != 1 || files[0].ID != "file:one-sphere" || files[0].Name != "One Sphere" {
		t.Errorf("Unexpected scene files: %+v", files)
	}
}

func TestHandleRender_PNG(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=default&width=16&samples=2&depth=5&seed=7")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if rec.Header().Get("X-Render-Id") == "" {
		t.Error("Expected a render id header")
	}
	// 16x9 pixels at 2 samples each
	if samples := rec.Header().Get("X-Render-Samples"); samples != "288" {
		t.Errorf("Expected 288 samples, got %q", samples)
	}
	if rec.Header().Get("X-Render-Location") != "" {
		t.Error("Did not expect a location without publish")
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("Expected 16x9 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleRender_PPM(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=file:one-sphere&width=8&height=4&samples=1&format=ppm")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n8 4\n255\n") {
		t.Errorf("Unexpected PPM header: %q", rec.Body.String()[:12])
	}
}

func TestHandleRender_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"width too small", "width=1", http.StatusBadRequest},
		{"width not a number", "width=abc", http.StatusBadRequest},
		{"height of one", "width=8&height=1", http.StatusBadRequest},
		{"zero samples", "samples=0", http.StatusBadRequest},
		{"negative depth", "depth=-1", http.StatusBadRequest},
		{"bad seed", "seed=x", http.StatusBadRequest},
		{"bad format", "format=gif", http.StatusBadRequest},
		{"unknown scene", "scene=cornell&width=8&samples=1", http.StatusNotFound},
		{"path traversal", "scene=file:../secret&width=8&samples=1", http.StatusNotFound},
		{"publish without publisher", "width=8&samples=1&publish=true", http.StatusBadGateway},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/render?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("Expected a JSON error body, got %q", rec.Body.String())
			}
		})
	}
}

func TestHandleRender_Publish(t *testing.T) {
	s := newTestServer(t)
	publisher := &fakePublisher{}
	s.SetPublisher(publisher, "renders/")

	rec := get(t, s, "/api/render?scene=empty&width=8&samples=1&seed=3&format=bmp&publish=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if !strings.HasPrefix(publisher.key, "renders/empty/render-") || !strings.HasSuffix(publisher.key, "-seed3.bmp") {
		t.Errorf("Unexpected key %q", publisher.key)
	}
	if publisher.contentType != "image/bmp" {
		t.Errorf("Expected image/bmp, got %q", publisher.contentType)
	}
	if publisher.size != rec.Body.Len() {
		t.Errorf("Published %d bytes but served %d", publisher.size, rec.Body.Len())
	}
	if loc := rec.Header().Get("X-Render-Location"); loc != "s3://renders/"+publisher.key {
		t.Errorf("Unexpected location %q", loc)
	}

	publisher.err = errors.New("bucket unavailable")
	rec = get(t, s, "/api/render?scene=empty&width=8&samples=1&publish=true")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected 502 on publish failure, got %d", rec.Code)
	}
}

// sseEvents splits a recorded stream into (event, data) pairs
func sseEvents(t *testing.T, body string) [][2]string {
	t.Helper()
	var events [][2]string
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		lines := strings.Split(block, "\n")
		if len(lines) != 2 || !strings.HasPrefix(lines[0], "event: ") || !strings.HasPrefix(lines[1], "data: ") {
			t.Fatalf("Malformed event block: %q", block)
		}
		events = append(events, [2]string{
			strings.TrimPrefix(lines[0], "event: "),
			strings.TrimPrefix(lines[1], "data: "),
		})
	}
	return events
}

func TestHandleRenderStream(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render/stream?scene=default&width=16&samples=1&depth=3")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	events := sseEvents(t, rec.Body.String())
	// 9 scanline messages, "Done." and the final image
	if len(events) != 11 {
		t.Fatalf("Expected 11 events, got %d", len(events))
	}

	var first ConsoleMessage
	if err := json.Unmarshal([]byte(events[0][1]), &first); err != nil {
		t.Fatalf("Invalid console payload: %v", err)
	}
	if events[0][0] != "console" || first.Message != "Scanlines remaining: 8" {
		t.Errorf("Unexpected first event %v", events[0])
	}

	last := events[len(events)-1]
	if last[0] != "complete" {
		t.Fatalf("Expected a complete event, got %q", last[0])
	}
	var complete CompleteUpdate
	if err := json.Unmarshal([]byte(last[1]), &complete); err != nil {
		t.Fatalf("Invalid complete payload: %v", err)
	}
	if complete.Format != "png" || complete.Stats.TotalSamples != 144 || complete.Stats.Height != 9 {
		t.Errorf("Unexpected complete payload: %+v", complete.Stats)
	}
	data, err := base64.StdEncoding.DecodeString(complete.ImageData)
	if err != nil {
		t.Fatalf("Image data is not base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Image data is not a PNG: %v", err)
	}
}

func TestHandleRenderStream_Error(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render/stream?scene=cornell&width=8&samples=1")
	events := sseEvents(t, rec.Body.String())
	if len(events) != 1 || events[0][0] != "error" {
		t.Fatalf("Expected a single error event, got %v", events)
	}
	if !strings.Contains(events[0][1], "unknown scene") {
		t.Errorf("Expected unknown scene error, got %s", events[0][1])
	}
}

func TestRequestStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{scene.ErrUnknownScene, http.StatusNotFound},
		{scene.ErrInvalidDimensions, http.StatusBadRequest},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := requestStatus(tt.err); got != tt.status {
			t.Errorf("requestStatus(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
}
