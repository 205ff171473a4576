package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Publisher stores a rendered image and returns where it went
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Server handles web requests for the sphere raytracer
type Server struct {
	port      int
	scenesDir string
	publisher Publisher // nil disables publishing
	keyPrefix string
}

// NewServer creates a new web server. Scene files are discovered in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// SetPublisher enables the publish=true option of /api/render.
// Object keys are prefixed with keyPrefix.
func (s *Server) SetPublisher(publisher Publisher, keyPrefix string) {
	s.publisher = publisher
	s.keyPrefix = keyPrefix
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string         `json:"scene"`   // Scene id (e.g., "default" or "file:glass")
	Width   int            `json:"width"`   // Image width
	Height  int            `json:"height"`  // Image height, 0 derives it from the camera
	Samples int            `json:"samples"` // Samples per pixel
	Depth   int            `json:"depth"`   // Maximum bounce depth
	Seed    int64          `json:"seed"`    // Random seed
	Format  imageio.Format `json:"format"`  // Output encoding
	Publish bool           `json:"publish"` // Also upload the result
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	MaxDepth         int     `json:"maxDepth"`
	Escaped          int64   `json:"escaped"`
	Absorbed         int64   `json:"absorbed"`
	DepthExhausted   int64   `json:"depthExhausted"`
	AverageLuminance float64 `json:"averageLuminance"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": core.VectorBackend().String(),
	})
}

// handleScenes lists built-in scenes and discovered scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default"}
	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 2, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 0, 2000); err != nil {
		return nil, err
	}
	if req.Height == 1 {
		return nil, fmt.Errorf("height must be at least 2, got: 1")
	}
	if req.Samples, err = parseIntParam(query, "samples", 100, 1, 10000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 50, 0, 1000); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	} else {
		req.Seed = scene.DefaultSamplingConfig().Seed
	}

	req.Format = imageio.FormatPNG
	if value := query.Get("format"); value != "" {
		if req.Format, err = imageio.ParseFormat(value); err != nil {
			return nil, err
		}
	}
	req.Publish = query.Get("publish") == "true"

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// createScene builds the requested scene at the requested size and sampling
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Load(req.Scene, s.scenesDir, req.Seed)
	if err != nil {
		return nil, err
	}

	sampling := sceneObj.SamplingConfig
	sampling.SamplesPerPixel = req.Samples
	sampling.MaxDepth = req.Depth
	sampling.Seed = req.Seed
	sceneObj.SamplingConfig = sampling

	if err := sceneObj.Resize(req.Width, req.Height); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
