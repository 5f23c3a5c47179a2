package api

import (
	"net/http"
	"strconv"

	"github.com/avasarala/signvoice/internal/store"
)

// AnnouncementsHandler serves the log of spoken announcements.
type AnnouncementsHandler struct {
	store *store.Store
}

// NewAnnouncementsHandler creates a new AnnouncementsHandler with the given store.
func NewAnnouncementsHandler(s *store.Store) *AnnouncementsHandler {
	return &AnnouncementsHandler{store: s}
}

type announcementResponse struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	AnnouncedAt string  `json:"announced_at"`
}

type listAnnouncementsResponse struct {
	Announcements []announcementResponse `json:"announcements"`
}

// ServeHTTP handles GET /api/announcements?limit=N, newest first.
func (h *AnnouncementsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	announcements, err := h.store.Announcements().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list announcements")
		return
	}

	response := listAnnouncementsResponse{
		Announcements: make([]announcementResponse, 0, len(announcements)),
	}
	for _, a := range announcements {
		response.Announcements = append(response.Announcements, announcementResponse{
			ID:          a.ID,
			Label:       a.Label,
			Confidence:  a.Confidence,
			AnnouncedAt: a.AnnouncedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
