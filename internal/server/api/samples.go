package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/avasarala/signvoice/internal/landmark"
	"github.com/avasarala/signvoice/internal/store"
)

// SamplesHandler handles HTTP requests for sign sample resources.
type SamplesHandler struct {
	store *store.Store
}

// NewSamplesHandler creates a new SamplesHandler with the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/signs/{id}/samples
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse sign ID from path: /api/signs/{id}/samples
	path := strings.TrimPrefix(r.URL.Path, "/api/signs/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "samples" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	signID := parts[0]

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, signID)
	case http.MethodPost:
		h.create(w, r, signID)
	case http.MethodDelete:
		h.delete(w, r, signID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request types

type createSamplesRequest struct {
	Samples [][]float64 `json:"samples"`
}

// Response types

type sampleResponse struct {
	ID          int64     `json:"id"`
	SignID      string    `json:"sign_id"`
	SampleIndex int       `json:"sample_index"`
	Features    []float64 `json:"features"`
	CreatedAt   string    `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

// list handles GET /api/signs/{id}/samples
func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request, signID string) {
	samples, err := h.store.Samples().GetBySignID(signID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}

	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:          s.ID,
			SignID:      s.SignID,
			SampleIndex: s.SampleIndex,
			Features:    s.Features,
			CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/signs/{id}/samples
func (h *SamplesHandler) create(w http.ResponseWriter, r *http.Request, signID string) {
	// Verify sign exists
	_, err := h.store.Signs().GetByID(signID)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify sign")
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	// Every sample must be a full landmark vector
	for i, features := range req.Samples {
		if _, err := landmark.FromSlice(features); err != nil {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Sample %d: %v", i, err))
			return
		}
	}

	if err := h.store.Samples().Create(signID, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// delete handles DELETE /api/signs/{id}/samples
func (h *SamplesHandler) delete(w http.ResponseWriter, r *http.Request, signID string) {
	if err := h.store.Samples().DeleteBySignID(signID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete samples")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
