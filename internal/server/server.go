// Package server provides the HTTP control API for the SignVoice sign
// recognition system.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/avasarala/signvoice/internal/capture"
	"github.com/avasarala/signvoice/internal/server/api"
	"github.com/avasarala/signvoice/internal/store"
)

// Controller is the recognition engine surface the server drives. The app
// package implements it.
type Controller interface {
	// StartRecognition begins the capture and recognition loop.
	StartRecognition() error

	// StopRecognition halts the loop. Stopping a stopped controller is a no-op.
	StopRecognition() error

	// Running reports whether the loop is active.
	Running() bool

	// Labels returns the sign labels the classifier currently knows.
	Labels() []string

	// WindowProgress returns the stability window fill and capacity.
	WindowProgress() (filled, size int)

	// LastAnnouncement returns the most recent announcement, if any.
	LastAnnouncement() (label string, confidence float64, at time.Time, ok bool)
}

// Config holds the server configuration. Nil fields disable the
// corresponding endpoints.
type Config struct {
	Store      *store.Store
	Camera     capture.Camera
	Controller Controller
	Settings   api.SettingsProvider
	Bluetooth  api.BluetoothManager
	Events     *Hub
}

// Server represents the HTTP control API for the SignVoice application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		signHandler := api.NewSignHandler(s.config.Store)
		samplesHandler := api.NewSamplesHandler(s.config.Store)

		// Use a wrapper to route between signs and samples handlers
		signRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check if this is a samples request: /api/signs/{id}/samples
			if strings.HasSuffix(r.URL.Path, "/samples") {
				samplesHandler.ServeHTTP(w, r)
				return
			}
			signHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/signs", signRouter)
		s.mux.Handle("/api/signs/", signRouter)

		s.mux.Handle("/api/announcements", api.NewAnnouncementsHandler(s.config.Store))
	}

	if s.config.Controller != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/recognition/start", s.handleRecognitionStart)
		s.mux.HandleFunc("/api/recognition/stop", s.handleRecognitionStop)
	}

	if s.config.Settings != nil {
		settingsHandler := api.NewSettingsHandler(s.config.Settings)
		s.mux.Handle("/api/settings", settingsHandler)
		s.mux.Handle("/api/settings/", settingsHandler)
	}

	if s.config.Bluetooth != nil {
		s.mux.Handle("/api/bluetooth/", api.NewBluetoothHandler(s.config.Bluetooth))
	}

	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	if s.config.Events != nil {
		s.mux.Handle("/api/events", s.config.Events)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c := s.config.Controller
	filled, size := c.WindowProgress()

	response := map[string]interface{}{
		"running":       c.Running(),
		"labels":        c.Labels(),
		"window_filled": filled,
		"window_size":   size,
		"camera_open":   s.config.Camera != nil && s.config.Camera.IsOpen(),
	}

	if label, confidence, at, ok := c.LastAnnouncement(); ok {
		response["last_announcement"] = map[string]interface{}{
			"label":        label,
			"confidence":   confidence,
			"announced_at": at.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// handleRecognitionStart handles POST requests to /api/recognition/start.
func (s *Server) handleRecognitionStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.Controller.StartRecognition(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

// handleRecognitionStop handles POST requests to /api/recognition/stop.
func (s *Server) handleRecognitionStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.Controller.StopRecognition(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
