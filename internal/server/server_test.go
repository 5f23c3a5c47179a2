package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeController implements Controller for tests.
type fakeController struct {
	running  bool
	labels   []string
	filled   int
	size     int
	last     string
	lastConf float64
	lastAt   time.Time
	startErr error
}

func (f *fakeController) StartRecognition() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeController) StopRecognition() error {
	f.running = false
	return nil
}

func (f *fakeController) Running() bool    { return f.running }
func (f *fakeController) Labels() []string { return f.labels }

func (f *fakeController) WindowProgress() (int, int) { return f.filled, f.size }

func (f *fakeController) LastAnnouncement() (string, float64, time.Time, bool) {
	if f.last == "" {
		return "", 0, time.Time{}, false
	}
	return f.last, f.lastConf, f.lastAt, true
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_Status(t *testing.T) {
	ctrl := &fakeController{
		running: true,
		labels:  []string{"hello", "thanks"},
		filled:  7,
		size:    15,
	}
	s := New(Config{Controller: ctrl})

	t.Run("reports loop state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["running"] != true {
			t.Errorf("running = %v, want true", response["running"])
		}
		if response["window_filled"] != float64(7) {
			t.Errorf("window_filled = %v, want 7", response["window_filled"])
		}
		if response["window_size"] != float64(15) {
			t.Errorf("window_size = %v, want 15", response["window_size"])
		}
		if _, exists := response["last_announcement"]; exists {
			t.Error("last_announcement should be absent before any announcement")
		}
	})

	t.Run("includes last announcement when present", func(t *testing.T) {
		ctrl.last = "hello"
		ctrl.lastConf = 0.92
		ctrl.lastAt = time.Now()

		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		last, ok := response["last_announcement"].(map[string]interface{})
		if !ok {
			t.Fatal("expected last_announcement object")
		}
		if last["label"] != "hello" {
			t.Errorf("label = %v, want hello", last["label"])
		}
	})
}

func TestServer_RecognitionControl(t *testing.T) {
	t.Run("start and stop", func(t *testing.T) {
		ctrl := &fakeController{}
		s := New(Config{Controller: ctrl})

		req := httptest.NewRequest(http.MethodPost, "/api/recognition/start", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("start status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !ctrl.running {
			t.Error("controller should be running after start")
		}

		req = httptest.NewRequest(http.MethodPost, "/api/recognition/stop", nil)
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("stop status = %d, want %d", rec.Code, http.StatusOK)
		}
		if ctrl.running {
			t.Error("controller should be stopped after stop")
		}
	})

	t.Run("start failure returns 500", func(t *testing.T) {
		ctrl := &fakeController{startErr: errors.New("camera not available")}
		s := New(Config{Controller: ctrl})

		req := httptest.NewRequest(http.MethodPost, "/api/recognition/start", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
		}
	})

	t.Run("GET not allowed", func(t *testing.T) {
		s := New(Config{Controller: &fakeController{}})

		req := httptest.NewRequest(http.MethodGet, "/api/recognition/start", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestServer_ControlEndpointsDisabledWithoutController(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestNew(t *testing.T) {
	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}
