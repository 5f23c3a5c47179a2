package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avasarala/signvoice/internal/bluetooth"
)

// BluetoothManager is the subset of bluetooth.Manager the handler needs.
type BluetoothManager interface {
	Devices() ([]bluetooth.Device, error)
	Pair(mac string) error
	Trust(mac string) error
	Connect(mac string) error
	Disconnect(mac string) error
}

// BluetoothHandler handles HTTP requests for Bluetooth device management.
type BluetoothHandler struct {
	manager BluetoothManager
}

// NewBluetoothHandler creates a new BluetoothHandler with the given manager.
func NewBluetoothHandler(m BluetoothManager) *BluetoothHandler {
	return &BluetoothHandler{manager: m}
}

// ServeHTTP routes Bluetooth requests.
// Expected paths: /api/bluetooth/{devices,pair,connect,disconnect}
func (h *BluetoothHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/bluetooth/")

	switch action {
	case "devices":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.devices(w, r)
	case "pair":
		h.deviceAction(w, r, h.pair)
	case "connect":
		h.deviceAction(w, r, h.manager.Connect)
	case "disconnect":
		h.deviceAction(w, r, h.manager.Disconnect)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type deviceRequest struct {
	MAC string `json:"mac"`
}

type listDevicesResponse struct {
	Devices []bluetooth.Device `json:"devices"`
}

func (h *BluetoothHandler) devices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.manager.Devices()
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to list devices")
		return
	}
	if devices == nil {
		devices = []bluetooth.Device{}
	}

	writeJSON(w, http.StatusOK, listDevicesResponse{Devices: devices})
}

// pair pairs and trusts the device so it reconnects on its own later.
func (h *BluetoothHandler) pair(mac string) error {
	if err := h.manager.Pair(mac); err != nil {
		return err
	}
	return h.manager.Trust(mac)
}

func (h *BluetoothHandler) deviceAction(w http.ResponseWriter, r *http.Request, action func(string) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.MAC == "" {
		writeError(w, http.StatusBadRequest, "MAC address is required")
		return
	}

	if err := action(req.MAC); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
