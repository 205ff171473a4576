package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/imageio"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// CompleteUpdate is the payload of the final stream event
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded image
	Format    string `json:"format"`
	Location  string `json:"location,omitempty"`
	Stats     Stats  `json:"stats"`
}

// renderResult carries a finished render back from its goroutine
type renderResult struct {
	image *image.RGBA
	stats renderer.RenderStats
	err   error
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}

// renderScene runs one render of the requested scene
func (s *Server) renderScene(ctx context.Context, req *RenderRequest, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	raytracer, err := renderer.NewRaytracer(sceneObj, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	return raytracer.Render(ctx)
}

// publish uploads the encoded image when the request asks for it
func (s *Server) publish(ctx context.Context, req *RenderRequest, renderID string, data []byte) (string, error) {
	if !req.Publish {
		return "", nil
	}
	if s.publisher == nil {
		return "", errors.New("publishing is not configured")
	}
	key := fmt.Sprintf("%s%s/%s-seed%d%s", s.keyPrefix, req.Scene, renderID, req.Seed, req.Format.Extension())
	return s.publisher.Publish(ctx, key, data, req.Format.ContentType())
}

func toStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:            stats.Width,
		Height:           stats.Height,
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     stats.TotalSamples,
		SamplesPerPixel:  stats.SamplesPerPixel,
		MaxDepth:         stats.MaxDepth,
		Escaped:          stats.Paths.Escaped,
		Absorbed:         stats.Paths.Absorbed,
		DepthExhausted:   stats.Paths.DepthExhausted,
		AverageLuminance: stats.AverageLuminance,
		ElapsedMs:        stats.Duration.Milliseconds(),
	}
}

// requestStatus maps request errors onto HTTP status codes
func requestStatus(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, scene.ErrInvalidDimensions):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleRender renders a scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := newRenderID()
	img, stats, err := s.renderScene(r.Context(), req, NewWebLogger(renderID, nil))
	if err != nil {
		writeError(w, requestStatus(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	location, err := s.publish(r.Context(), req, renderID, buf.Bytes())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Elapsed-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	if location != "" {
		w.Header().Set("X-Render-Location", location)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[%s] failed to write image: %v", renderID, err)
	}
}

// handleRenderStream renders a scene while streaming its console output via SSE,
// then sends the encoded image in a final "complete" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := newRenderID()
	consoleChan := make(chan ConsoleMessage, 100)
	webLogger := NewWebLogger(renderID, consoleChan)

	resultChan := make(chan renderResult, 1)
	go func() {
		img, stats, err := s.renderScene(ctx, req, webLogger)
		resultChan <- renderResult{image: img, stats: stats, err: err}
	}()

	// The render goroutine owns the logger; forward its messages until it finishes
	for {
		select {
		case msg := <-consoleChan:
			if err := s.sendSSEJSON(w, "console", msg); err != nil {
				log.Printf("[%s] client went away: %v", renderID, err)
			}

		case result := <-resultChan:
			s.drainConsole(w, consoleChan)
			if dropped := webLogger.Dropped(); dropped > 0 {
				log.Printf("[%s] dropped %d console messages", renderID, dropped)
			}
			if result.err != nil {
				s.sendSSEError(w, result.err.Error())
				return
			}
			s.sendComplete(ctx, w, req, renderID, result)
			return
		}
	}
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

func (s *Server) sendComplete(ctx context.Context, w http.ResponseWriter, req *RenderRequest, renderID string, result renderResult) {
	var buf bytes.Buffer
	if err := imageio.Encode(&buf, result.image, req.Format); err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	location, err := s.publish(ctx, req, renderID, buf.Bytes())
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	s.sendSSEJSON(w, "complete", CompleteUpdate{
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Format:    string(req.Format),
		Location:  location,
		Stats:     toStats(result.stats),
	})
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEJSON(w, "error", map[string]string{"error": message})
}

func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
