package api

import (
	"encoding/json"
	"net/http"

	"github.com/avasarala/signvoice/internal/config"
)

// SettingsProvider exposes the live configuration to the settings endpoint.
// Updates take effect on the running recognition loop and are persisted.
type SettingsProvider interface {
	Settings() config.Config
	UpdateSettings(config.Config) error
	ResetSettings() (config.Config, error)
}

// SettingsHandler handles HTTP requests for runtime settings.
type SettingsHandler struct {
	provider SettingsProvider
}

// NewSettingsHandler creates a new SettingsHandler with the given provider.
func NewSettingsHandler(p SettingsProvider) *SettingsHandler {
	return &SettingsHandler{provider: p}
}

// ServeHTTP routes settings requests.
// Expected paths: /api/settings and /api/settings/reset
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/settings/reset" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.reset(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.provider.Settings())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings. The request body holds the fields to
// change; absent fields keep their current values.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	cfg := h.provider.Settings()
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.provider.UpdateSettings(cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// reset handles POST /api/settings/reset and restores the defaults.
func (h *SettingsHandler) reset(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.provider.ResetSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset settings")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
