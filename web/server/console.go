package server

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// ConsoleMessage is one renderer diagnostic line forwarded to the browser
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Progress  float64   `json:"progress"` // Percent of scanlines finished, -1 if unknown
}

// WebLogger implements core.Logger for one render. It tracks scanline
// progress from the renderer's messages and forwards each one to consoleChan
// without blocking; messages that do not fit are counted and dropped.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	rows        int // Inferred from the first "Scanlines remaining" message
	progress    float64
	dropped     atomic.Int64
}

// NewWebLogger creates a new web logger for a specific render.
// consoleChan may be nil, in which case messages only reach the server log.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		progress:    -1,
	}
}

var _ core.Logger = (*WebLogger)(nil)

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.track(message)

	log.Printf("[%s] %s", wl.renderID, message)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Progress:  wl.progress,
	}:
	default:
		wl.dropped.Add(1)
	}
}

// track updates progress from the renderer's scanline countdown
func (wl *WebLogger) track(message string) {
	var remaining int
	if _, err := fmt.Sscanf(message, "Scanlines remaining: %d", &remaining); err == nil {
		if wl.rows == 0 {
			wl.rows = remaining + 1
		}
		wl.progress = 100 * float64(wl.rows-1-remaining) / float64(wl.rows)
		return
	}
	if message == "Done." {
		wl.progress = 100
	}
}

// Dropped returns how many messages did not fit in the console channel
func (wl *WebLogger) Dropped() int64 {
	return wl.dropped.Load()
}
